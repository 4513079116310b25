// Package query implements the read side of the catalog: composable
// page filters, the in-memory sort engine, and opaque pagination
// cursors. The store hands back pages in creation order; everything
// here refines that page without touching the store again.
package query

import (
	"strings"
	"unicode/utf8"

	"github.com/ferialibre/catalog-service/internal/catalog/availability"
	"github.com/ferialibre/catalog-service/internal/catalog/domain"
	"github.com/ferialibre/catalog-service/internal/catalog/keyword"
)

// freeTextMinRunes: queries at or below this length match everything.
// Two characters carry too little signal against 3+ rune keywords.
const freeTextMinRunes = 2

// Predicate decides whether a listing stays in the result page.
type Predicate func(*domain.Listing) bool

// Criteria is the full set of narrowing options a search may carry.
// Zero-valued fields are inactive; every active field can only shrink
// the result set, never grow it.
type Criteria struct {
	Category      string
	Subcategory   string
	MinPrice      *float64
	MaxPrice      *float64
	Status        domain.Status
	AvailableOnly bool
	Modalities    []domain.Modality
	Days          []string
	FreeText      string
}

// BuildPredicate compiles the criteria into a single predicate. Work
// that can be done once per search (folding the query text, tokenizing
// free text) happens here, not per listing.
func BuildPredicate(c Criteria) Predicate {
	var preds []Predicate

	if c.Category != "" {
		cat := keyword.Fold(c.Category)
		preds = append(preds, func(l *domain.Listing) bool {
			return keyword.Fold(l.Category) == cat
		})
	}
	if c.Subcategory != "" {
		sub := keyword.Fold(c.Subcategory)
		preds = append(preds, func(l *domain.Listing) bool {
			return keyword.Fold(l.Subcategory) == sub
		})
	}

	// Price bounds apply to numeric price types only. A listing priced
	// "consultar" or "negociable" has no number to compare, so it
	// passes through rather than silently disappearing from results.
	if c.MinPrice != nil {
		min := *c.MinPrice
		preds = append(preds, func(l *domain.Listing) bool {
			p, ok := l.NumericPrice()
			return !ok || p >= min
		})
	}
	if c.MaxPrice != nil {
		max := *c.MaxPrice
		preds = append(preds, func(l *domain.Listing) bool {
			p, ok := l.NumericPrice()
			return !ok || p <= max
		})
	}

	if c.Status != "" {
		preds = append(preds, func(l *domain.Listing) bool {
			return l.Status == c.Status
		})
	}
	if c.AvailableOnly {
		preds = append(preds, func(l *domain.Listing) bool {
			return l.Status == domain.StatusAvailable && availability.InStock(l)
		})
	}

	if len(c.Modalities) > 0 {
		preds = append(preds, modalityPredicate(c.Modalities))
	}
	if len(c.Days) > 0 {
		preds = append(preds, daysPredicate(c.Days))
	}

	if p := freeTextPredicate(c.FreeText); p != nil {
		preds = append(preds, p)
	}

	return func(l *domain.Listing) bool {
		for _, p := range preds {
			if !p(l) {
				return false
			}
		}
		return true
	}
}

// modalityPredicate keeps listings whose modality belongs to the
// requested set: services by their own modality, jobs by the closest
// work-modality equivalent (virtual services correspond to remote
// jobs). Families without a modality attribute pass through.
func modalityPredicate(set []domain.Modality) Predicate {
	jobEquivalent := map[domain.Modality]string{
		domain.ModalityInPerson: "presencial",
		domain.ModalityVirtual:  "remoto",
		domain.ModalityHybrid:   "hibrido",
	}
	return func(l *domain.Listing) bool {
		switch l.Family {
		case domain.FamilyService:
			if l.Service == nil {
				return false
			}
			for _, m := range set {
				if l.Service.Modality == m {
					return true
				}
			}
			return false
		case domain.FamilyJob:
			if l.Job == nil {
				return false
			}
			for _, m := range set {
				if want, ok := jobEquivalent[m]; ok && l.Job.WorkModality == want {
					return true
				}
			}
			return false
		}
		return true
	}
}

// daysPredicate keeps services reachable on at least one of the
// requested days. A service that declares no days is treated as
// always available. Non-service families pass through.
func daysPredicate(days []string) Predicate {
	want := make(map[string]struct{}, len(days))
	for _, d := range days {
		want[keyword.Fold(d)] = struct{}{}
	}
	return func(l *domain.Listing) bool {
		if l.Family != domain.FamilyService || l.Service == nil {
			return true
		}
		if len(l.Service.AvailableDays) == 0 {
			return true
		}
		for _, d := range l.Service.AvailableDays {
			if _, ok := want[keyword.Fold(d)]; ok {
				return true
			}
		}
		return false
	}
}

// freeTextPredicate tokenizes the query the same way listing keywords
// were built, then keeps a listing when any query token relates to
// some stored keyword by substring containment in either direction
// ("guit" finds "guitarra", "guitarras" finds "guitarra"). Queries
// too short to carry signal, or that normalize to nothing, do not
// filter at all.
func freeTextPredicate(text string) Predicate {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) <= freeTextMinRunes {
		return nil
	}
	tokens := keyword.Normalize(trimmed)
	if len(tokens) == 0 {
		return nil
	}
	return func(l *domain.Listing) bool {
		for _, tok := range tokens {
			if matchesAnyKeyword(tok, l.Keywords) {
				return true
			}
		}
		return false
	}
}

func matchesAnyKeyword(tok string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(kw, tok) || strings.Contains(tok, kw) {
			return true
		}
	}
	return false
}
