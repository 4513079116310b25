package domain

import (
	"context"
	"time"
)

// SortKey selects one of the engine's total orderings.
type SortKey string

const (
	SortRecencyDesc   SortKey = "recency_desc"
	SortRecencyAsc    SortKey = "recency_asc"
	SortAlphabetical  SortKey = "alphabetical"
	SortPriceDesc     SortKey = "price_desc"
	SortPriceAsc      SortKey = "price_asc"
	SortFeaturedFirst SortKey = "featured_first"
	SortSalaryDesc    SortKey = "salary_desc"
	SortSalaryAsc     SortKey = "salary_asc"
)

// Position is the store-level resume point decoded from a cursor:
// "everything after the item with this creation time and id", in the
// page order the key implies.
type Position struct {
	SortKey SortKey
	ID      string
	Time    time.Time
}

// QueryOptions narrow a page request. The store only scopes by owner
// and orders by creation time; category/price/text narrowing is the
// filter pipeline's job, applied to the page the store returns.
type QueryOptions struct {
	OwnerID  string
	SortKey  SortKey
	PageSize int
	After    *Position
}

// ListingStore is the paginated collection store the engine runs
// against. Implementations must make ConditionalDecrement and
// ConditionalExhaust atomic: two racing reservations for the last
// unit must never both succeed.
type ListingStore interface {
	Query(ctx context.Context, family Family, opts QueryOptions) (items []*Listing, hasMore bool, err error)
	Get(ctx context.Context, family Family, id string) (*Listing, error)
	GetBySlug(ctx context.Context, family Family, slug string) (*Listing, error)
	Insert(ctx context.Context, l *Listing) error
	Put(ctx context.Context, l *Listing) (*Listing, error)
	Delete(ctx context.Context, family Family, id string) error

	// ConditionalDecrement subtracts amount from the listing's
	// remaining count only if remaining >= amount, transitioning the
	// status to the family's exhausted value when it reaches zero.
	// Returns ErrInsufficientAvailability when the guard fails.
	ConditionalDecrement(ctx context.Context, family Family, id string, amount int) (*Listing, error)

	// ConditionalExhaust flips an available single-use listing
	// directly to its exhausted status. Returns
	// ErrInsufficientAvailability if the listing is not available.
	ConditionalExhaust(ctx context.Context, family Family, id string) (*Listing, error)
}
