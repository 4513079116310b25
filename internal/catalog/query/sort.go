package query

import (
	"sort"
	"time"

	"github.com/ferialibre/catalog-service/internal/catalog/domain"
	"github.com/ferialibre/catalog-service/internal/catalog/keyword"
)

// Apply orders the page in place under the given sort key. Sorting is
// stable, so listings the key cannot distinguish keep the store's
// creation order. Unknown keys fall back to recency descending.
func Apply(items []*domain.Listing, key domain.SortKey, now time.Time) {
	cmp := comparator(key, now)
	sort.SliceStable(items, func(i, j int) bool {
		return cmp(items[i], items[j]) < 0
	})
}

func comparator(key domain.SortKey, now time.Time) func(a, b *domain.Listing) int {
	switch key {
	case domain.SortRecencyAsc:
		return func(a, b *domain.Listing) int {
			return compareTime(a.CreatedAt, b.CreatedAt)
		}
	case domain.SortAlphabetical:
		return func(a, b *domain.Listing) int {
			fa, fb := keyword.Fold(a.Title), keyword.Fold(b.Title)
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	case domain.SortPriceAsc:
		return priceComparator(1)
	case domain.SortPriceDesc:
		return priceComparator(-1)
	case domain.SortSalaryAsc:
		return salaryComparator(1)
	case domain.SortSalaryDesc:
		return salaryComparator(-1)
	case domain.SortFeaturedFirst:
		return func(a, b *domain.Listing) int {
			fa, fb := a.IsFeatured(now), b.IsFeatured(now)
			if fa != fb {
				if fa {
					return -1
				}
				return 1
			}
			return compareTime(b.CreatedAt, a.CreatedAt)
		}
	default: // SortRecencyDesc
		return func(a, b *domain.Listing) int {
			return compareTime(b.CreatedAt, a.CreatedAt)
		}
	}
}

// priceComparator orders by numeric price. Listings with no numeric
// price (consultar, negociable, gratis) count as price 0, so under
// price_asc they come before every positively-priced listing and
// under price_desc after.
func priceComparator(dir int) func(a, b *domain.Listing) int {
	return func(a, b *domain.Listing) int {
		pa, _ := a.NumericPrice()
		pb, _ := b.NumericPrice()
		if pa < pb {
			return -dir
		}
		if pa > pb {
			return dir
		}
		return 0
	}
}

// salaryComparator orders jobs by their salary range. Descending uses
// the upper bound (falling back to the lower), ascending the lower
// bound (falling back to the upper); jobs without a salary sort last.
func salaryComparator(dir int) func(a, b *domain.Listing) int {
	return func(a, b *domain.Listing) int {
		sa, oka := salaryValue(a, dir)
		sb, okb := salaryValue(b, dir)
		if oka != okb {
			if oka {
				return -1
			}
			return 1
		}
		if !oka {
			return 0
		}
		if sa < sb {
			return -dir
		}
		if sa > sb {
			return dir
		}
		return 0
	}
}

func salaryValue(l *domain.Listing, dir int) (float64, bool) {
	if l.Job == nil || l.Job.Salary == nil {
		return 0, false
	}
	s := l.Job.Salary
	primary, fallback := s.Min, s.Max
	if dir < 0 {
		primary, fallback = s.Max, s.Min
	}
	if primary != nil {
		return *primary, true
	}
	if fallback != nil {
		return *fallback, true
	}
	return 0, false
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}
