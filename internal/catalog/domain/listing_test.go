package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFamily(t *testing.T) {
	f, err := ParseFamily("service")
	require.NoError(t, err)
	assert.Equal(t, FamilyService, f)

	_, err = ParseFamily("vehicle")
	assert.ErrorIs(t, err, ErrUnknownFamily)
}

func TestAvailabilityMode(t *testing.T) {
	product := &Listing{Family: FamilyProduct, Product: &ProductDetails{StockMode: StockLimited}}
	assert.Equal(t, AvailLimited, product.AvailabilityMode())

	product.Product.StockMode = StockOnOrder
	assert.Equal(t, AvailUnlimited, product.AvailabilityMode())

	service := &Listing{Family: FamilyService, Service: &ServiceDetails{QuotaMode: QuotaSingleUse}}
	assert.Equal(t, AvailSingleUse, service.AvailabilityMode())

	job := &Listing{Family: FamilyJob, Job: &JobDetails{}}
	assert.Equal(t, AvailNone, job.AvailabilityMode())
}

func TestNumericPrice(t *testing.T) {
	fixed := &Listing{Family: FamilyProduct, Product: &ProductDetails{Price: 100, PriceType: PriceFixed}}
	p, ok := fixed.NumericPrice()
	assert.True(t, ok)
	assert.Equal(t, 100.0, p)

	inquire := &Listing{Family: FamilyProduct, Product: &ProductDetails{Price: 100, PriceType: PriceInquire}}
	_, ok = inquire.NumericPrice()
	assert.False(t, ok)

	job := &Listing{Family: FamilyJob, Job: &JobDetails{}}
	_, ok = job.NumericPrice()
	assert.False(t, ok)
}

func TestIsFeatured(t *testing.T) {
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)
	earlier := now.Add(-time.Hour)

	assert.False(t, (&Listing{}).IsFeatured(now))
	assert.True(t, (&Listing{Featured: true}).IsFeatured(now))
	assert.True(t, (&Listing{Featured: true, FeaturedUntil: &later}).IsFeatured(now))
	assert.False(t, (&Listing{Featured: true, FeaturedUntil: &earlier}).IsFeatured(now))
}

func TestClone_IsDeep(t *testing.T) {
	min := 1000.0
	orig := &Listing{
		Family:   FamilyJob,
		Keywords: []string{"uno"},
		Job:      &JobDetails{Salary: &Salary{Min: &min}},
	}

	c := orig.Clone()
	c.Keywords[0] = "otro"
	*c.Job.Salary.Min = 9999

	assert.Equal(t, "uno", orig.Keywords[0])
	assert.Equal(t, 1000.0, *orig.Job.Salary.Min)
}

func TestFamilyDescriptors(t *testing.T) {
	families := DefaultFamilies()

	product, err := families.Descriptor(FamilyProduct)
	require.NoError(t, err)
	assert.True(t, product.RequireImage)
	assert.Equal(t, 3, product.MaxImages)
	assert.Equal(t, StatusSoldOut, product.Exhausted)

	service, err := families.Descriptor(FamilyService)
	require.NoError(t, err)
	assert.Equal(t, StatusNoQuota, service.Exhausted)
	assert.True(t, service.Categories.Has("clases"))
	assert.True(t, service.Categories.HasSubcategory("clases", "musica"))
	assert.False(t, service.Categories.HasSubcategory("clases", "plomeria"))

	_, err = families.Descriptor(Family("vehicle"))
	assert.ErrorIs(t, err, ErrUnknownFamily)
}
