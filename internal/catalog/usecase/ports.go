package usecase

import (
	"context"

	"github.com/ferialibre/catalog-service/internal/catalog/domain"
)

// ListingCache is the read-through cache in front of the store. Get
// returns (nil, nil) on a miss; cache failures are never fatal to the
// request that hit them.
type ListingCache interface {
	Get(ctx context.Context, family domain.Family, id string) (*domain.Listing, error)
	Set(ctx context.Context, l *domain.Listing) error
	Invalidate(ctx context.Context, family domain.Family, id string) error
}

// EventPublisher emits catalog lifecycle events for other services
// (search indexers, notification fan-out). Publishing is best effort.
type EventPublisher interface {
	ListingCreated(ctx context.Context, l *domain.Listing) error
	ListingUpdated(ctx context.Context, l *domain.Listing) error
	ListingReserved(ctx context.Context, l *domain.Listing, quantity int) error
	ListingSoldOut(ctx context.Context, l *domain.Listing) error
}

// ImageStorage stores listing images and returns their public URL.
type ImageStorage interface {
	Upload(ctx context.Context, filename string, data []byte, contentType string) (string, error)
}

// Notifier delivers owner-facing notifications. Best effort: a failed
// mail never fails the operation that triggered it.
type Notifier interface {
	ListingPublished(l *domain.Listing) error
	ListingExhausted(l *domain.Listing) error
}
