package domain

// FamilyDescriptor carries the per-family reference data and limits
// the engine is parameterized with. One generic engine serves the
// three families instead of three copies of the same rules.
type FamilyDescriptor struct {
	Family         Family
	Categories     CategoryTable
	MinDescription int
	MaxDescription int
	MaxImages      int
	RequireImage   bool
	Exhausted      Status // "" when the family has no exhausted state
}

// Families is the injected registry of descriptors, built once at
// process start from the (immutable) category tables.
type Families map[Family]*FamilyDescriptor

// NewFamilies builds descriptors around the given category tables.
func NewFamilies(products, services, jobs CategoryTable) Families {
	return Families{
		FamilyProduct: {
			Family:         FamilyProduct,
			Categories:     products,
			MinDescription: 10,
			MaxDescription: 1000,
			MaxImages:      3,
			RequireImage:   true,
			Exhausted:      StatusSoldOut,
		},
		FamilyService: {
			Family:         FamilyService,
			Categories:     services,
			MinDescription: 20,
			MaxDescription: 2000,
			MaxImages:      5,
			Exhausted:      StatusNoQuota,
		},
		FamilyJob: {
			Family:         FamilyJob,
			Categories:     jobs,
			MaxDescription: 2000,
		},
	}
}

// DefaultFamilies wires the descriptors with the built-in tables.
func DefaultFamilies() Families {
	return NewFamilies(DefaultProductCategories(), DefaultServiceCategories(), DefaultJobCategories())
}

// Descriptor returns the family's descriptor or ErrUnknownFamily.
func (f Families) Descriptor(fam Family) (*FamilyDescriptor, error) {
	d, ok := f[fam]
	if !ok {
		return nil, ErrUnknownFamily
	}
	return d, nil
}
