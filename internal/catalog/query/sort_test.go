package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ferialibre/catalog-service/internal/catalog/domain"
)

var sortNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func at(daysAgo int) time.Time { return sortNow.AddDate(0, 0, -daysAgo) }

func ids(items []*domain.Listing) []string {
	out := make([]string, len(items))
	for i, l := range items {
		out[i] = l.ID
	}
	return out
}

func pricedAt(id string, price float64, priceType domain.PriceType, daysAgo int) *domain.Listing {
	return &domain.Listing{
		ID:        id,
		Family:    domain.FamilyProduct,
		Title:     id,
		CreatedAt: at(daysAgo),
		Product:   &domain.ProductDetails{Price: price, PriceType: priceType},
	}
}

func TestApply_Recency(t *testing.T) {
	items := []*domain.Listing{
		pricedAt("old", 1, domain.PriceFixed, 10),
		pricedAt("new", 1, domain.PriceFixed, 1),
		pricedAt("mid", 1, domain.PriceFixed, 5),
	}
	Apply(items, domain.SortRecencyDesc, sortNow)
	assert.Equal(t, []string{"new", "mid", "old"}, ids(items))

	Apply(items, domain.SortRecencyAsc, sortNow)
	assert.Equal(t, []string{"old", "mid", "new"}, ids(items))
}

func TestApply_AlphabeticalFoldsAccents(t *testing.T) {
	items := []*domain.Listing{
		{ID: "z", Title: "Zapatos"},
		{ID: "a", Title: "árbol de jade"},
		{ID: "m", Title: "Mesa"},
	}
	Apply(items, domain.SortAlphabetical, sortNow)
	assert.Equal(t, []string{"a", "m", "z"}, ids(items))
}

func TestApply_PriceTreatsNonNumericAsZero(t *testing.T) {
	items := []*domain.Listing{
		pricedAt("inquire", 7000, domain.PriceInquire, 1),
		pricedAt("dear", 9000, domain.PriceFixed, 2),
		pricedAt("cheap", 100, domain.PriceFixed, 3),
	}
	// no numeric price counts as 0: cheapest ascending, last descending
	Apply(items, domain.SortPriceAsc, sortNow)
	assert.Equal(t, []string{"inquire", "cheap", "dear"}, ids(items))

	Apply(items, domain.SortPriceDesc, sortNow)
	assert.Equal(t, []string{"dear", "cheap", "inquire"}, ids(items))
}

func TestApply_StableOnTies(t *testing.T) {
	items := []*domain.Listing{
		pricedAt("first", 500, domain.PriceFixed, 1),
		pricedAt("second", 500, domain.PriceFixed, 2),
		pricedAt("third", 500, domain.PriceFixed, 3),
	}
	Apply(items, domain.SortPriceAsc, sortNow)
	assert.Equal(t, []string{"first", "second", "third"}, ids(items))
}

func TestApply_FeaturedFirst(t *testing.T) {
	until := sortNow.Add(24 * time.Hour)
	expired := sortNow.Add(-time.Hour)
	items := []*domain.Listing{
		{ID: "plain-new", CreatedAt: at(1)},
		{ID: "featured-old", CreatedAt: at(20), Featured: true, FeaturedUntil: &until},
		{ID: "expired", CreatedAt: at(2), Featured: true, FeaturedUntil: &expired},
		{ID: "featured-forever", CreatedAt: at(30), Featured: true},
	}
	Apply(items, domain.SortFeaturedFirst, sortNow)
	assert.Equal(t, []string{"featured-old", "featured-forever", "plain-new", "expired"}, ids(items))
}

func TestApply_SalaryBounds(t *testing.T) {
	job := func(id string, min, max *float64, daysAgo int) *domain.Listing {
		return &domain.Listing{
			ID: id, Family: domain.FamilyJob, CreatedAt: at(daysAgo),
			Job: &domain.JobDetails{Salary: &domain.Salary{Min: min, Max: max}},
		}
	}
	f := func(v float64) *float64 { return &v }

	items := []*domain.Listing{
		job("mid", f(800), f(1000), 1),
		job("high", f(500), f(2000), 2),
		job("min-only", f(1500), nil, 3),
		{ID: "no-salary", Family: domain.FamilyJob, CreatedAt: at(4), Job: &domain.JobDetails{}},
	}

	// descending ranks by the upper bound, falling back to the lower
	Apply(items, domain.SortSalaryDesc, sortNow)
	assert.Equal(t, []string{"high", "min-only", "mid", "no-salary"}, ids(items))

	// ascending ranks by the lower bound
	Apply(items, domain.SortSalaryAsc, sortNow)
	assert.Equal(t, []string{"high", "mid", "min-only", "no-salary"}, ids(items))
}

func TestApply_UnknownKeyFallsBackToRecency(t *testing.T) {
	items := []*domain.Listing{
		pricedAt("old", 1, domain.PriceFixed, 9),
		pricedAt("new", 1, domain.PriceFixed, 1),
	}
	Apply(items, domain.SortKey("whatever"), sortNow)
	assert.Equal(t, []string{"new", "old"}, ids(items))
}
