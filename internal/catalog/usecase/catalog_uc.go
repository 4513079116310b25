// Package usecase orchestrates the catalog operations: it glues the
// validation, slug, keyword, availability and query components to the
// store, cache, event bus and notifier. All authorization decisions
// (owner-only writes) live here.
package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ferialibre/catalog-service/internal/catalog/domain"
	"github.com/ferialibre/catalog-service/internal/catalog/keyword"
	"github.com/ferialibre/catalog-service/internal/catalog/query"
	"github.com/ferialibre/catalog-service/internal/catalog/slug"
	"github.com/ferialibre/catalog-service/internal/catalog/validate"
	"github.com/ferialibre/catalog-service/internal/platform/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type CatalogUsecase struct {
	store     domain.ListingStore
	cache     ListingCache
	events    EventPublisher
	images    ImageStorage
	notifier  Notifier
	validator *validate.Validator
	families  domain.Families
	logger    *logger.Logger
	tracer    trace.Tracer
}

func NewCatalogUsecase(
	store domain.ListingStore,
	cache ListingCache,
	events EventPublisher,
	images ImageStorage,
	notifier Notifier,
	families domain.Families,
	log *logger.Logger,
) *CatalogUsecase {
	return &CatalogUsecase{
		store:     store,
		cache:     cache,
		events:    events,
		images:    images,
		notifier:  notifier,
		validator: validate.New(families),
		families:  families,
		logger:    log,
		tracer:    otel.Tracer("catalog/usecase"),
	}
}

// CreateListing validates and publishes a new listing. The caller
// fills the descriptive fields; identity, slug, keywords, status and
// timestamps are assigned here.
func (uc *CatalogUsecase) CreateListing(ctx context.Context, ownerID string, l *domain.Listing) (*domain.Listing, error) {
	ctx, span := uc.tracer.Start(ctx, "CreateListing",
		trace.WithAttributes(attribute.String("listing.family", string(l.Family))))
	defer span.End()

	uc.logger.Info("CatalogUsecase.CreateListing: creating listing",
		"owner_id", ownerID, "family", l.Family, "title", l.Title)

	l = l.Clone()
	l.OwnerID = ownerID
	if msgs := uc.validator.Validate(l); len(msgs) > 0 {
		uc.logger.Warn("CatalogUsecase.CreateListing: validation failed",
			"owner_id", ownerID, "violations", len(msgs))
		return nil, &domain.ValidationError{Messages: msgs}
	}

	now := time.Now().UTC()
	l.ID = uuid.NewString()
	l.Slug = slug.Make(l.Title, l.ID)
	l.Keywords = keyword.Normalize(l.Title, l.Description, l.Category, l.Subcategory)
	l.Keywords = append(l.Keywords, keyword.Normalize(l.Tags...)...)
	l.CreatedAt = now
	l.UpdatedAt = now

	l.Status = domain.StatusAvailable
	// a limited listing published with nothing left starts exhausted
	if l.AvailabilityMode() == domain.AvailLimited && l.Remaining() == 0 {
		l.Status = l.ExhaustedStatus()
	}

	if err := uc.store.Insert(ctx, l); err != nil {
		uc.logger.Error("CatalogUsecase.CreateListing: store insert failed",
			"owner_id", ownerID, "error", err.Error())
		return nil, err
	}

	if err := uc.cache.Set(ctx, l); err != nil {
		uc.logger.Warn("CatalogUsecase.CreateListing: cache set failed", "listing_id", l.ID, "error", err.Error())
	}
	if err := uc.events.ListingCreated(ctx, l); err != nil {
		uc.logger.Warn("CatalogUsecase.CreateListing: publish failed", "listing_id", l.ID, "error", err.Error())
	}
	if err := uc.notifier.ListingPublished(l); err != nil {
		uc.logger.Warn("CatalogUsecase.CreateListing: notification failed", "listing_id", l.ID, "error", err.Error())
	}
	return l, nil
}

// UpdateListing replaces the descriptive fields of an existing
// listing. Only the owner may update; the slug never changes so
// shared links stay valid, but keywords are rebuilt from the new
// text.
func (uc *CatalogUsecase) UpdateListing(ctx context.Context, actorID string, updated *domain.Listing) (*domain.Listing, error) {
	uc.logger.Info("CatalogUsecase.UpdateListing: updating listing",
		"listing_id", updated.ID, "actor_id", actorID)

	existing, err := uc.store.Get(ctx, updated.Family, updated.ID)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != actorID {
		uc.logger.Warn("CatalogUsecase.UpdateListing: forbidden",
			"listing_id", updated.ID, "owner_id", existing.OwnerID, "actor_id", actorID)
		return nil, domain.ErrPermission
	}

	merged := updated.Clone()
	merged.OwnerID = existing.OwnerID
	merged.Slug = existing.Slug
	merged.Status = existing.Status
	merged.CreatedAt = existing.CreatedAt

	if msgs := uc.validator.Validate(merged); len(msgs) > 0 {
		return nil, &domain.ValidationError{Messages: msgs}
	}

	merged.Keywords = keyword.Normalize(merged.Title, merged.Description, merged.Category, merged.Subcategory)
	merged.Keywords = append(merged.Keywords, keyword.Normalize(merged.Tags...)...)
	merged.UpdatedAt = time.Now().UTC()

	stored, err := uc.store.Put(ctx, merged)
	if err != nil {
		uc.logger.Error("CatalogUsecase.UpdateListing: store put failed",
			"listing_id", merged.ID, "error", err.Error())
		return nil, err
	}

	if err := uc.cache.Invalidate(ctx, stored.Family, stored.ID); err != nil {
		uc.logger.Warn("CatalogUsecase.UpdateListing: cache invalidate failed", "listing_id", stored.ID, "error", err.Error())
	}
	if err := uc.events.ListingUpdated(ctx, stored); err != nil {
		uc.logger.Warn("CatalogUsecase.UpdateListing: publish failed", "listing_id", stored.ID, "error", err.Error())
	}
	return stored, nil
}

// SetStatus moves a listing to an explicit status (pause, reactivate,
// retire). Owner only.
func (uc *CatalogUsecase) SetStatus(ctx context.Context, actorID string, family domain.Family, id string, status domain.Status) (*domain.Listing, error) {
	uc.logger.Info("CatalogUsecase.SetStatus: updating status",
		"listing_id", id, "actor_id", actorID, "status", status)

	if !domain.ValidStatus(status) {
		return nil, &domain.ValidationError{Messages: []string{"Estado inválido"}}
	}
	l, err := uc.store.Get(ctx, family, id)
	if err != nil {
		return nil, err
	}
	if l.OwnerID != actorID {
		return nil, domain.ErrPermission
	}

	l = l.Clone()
	l.Status = status
	l.UpdatedAt = time.Now().UTC()

	stored, err := uc.store.Put(ctx, l)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.Invalidate(ctx, family, id); err != nil {
		uc.logger.Warn("CatalogUsecase.SetStatus: cache invalidate failed", "listing_id", id, "error", err.Error())
	}
	if err := uc.events.ListingUpdated(ctx, stored); err != nil {
		uc.logger.Warn("CatalogUsecase.SetStatus: publish failed", "listing_id", id, "error", err.Error())
	}
	return stored, nil
}

// Reserve takes quantity units from the listing's availability. The
// decrement is pushed down to the store as an atomic conditional
// update so racing reservations for the last unit cannot both win.
func (uc *CatalogUsecase) Reserve(ctx context.Context, family domain.Family, id string, quantity int) (*domain.Listing, error) {
	ctx, span := uc.tracer.Start(ctx, "Reserve",
		trace.WithAttributes(
			attribute.String("listing.family", string(family)),
			attribute.Int("reserve.quantity", quantity),
		))
	defer span.End()

	uc.logger.Info("CatalogUsecase.Reserve: reserving",
		"listing_id", id, "family", family, "quantity", quantity)

	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	l, err := uc.store.Get(ctx, family, id)
	if err != nil {
		return nil, err
	}

	var updated *domain.Listing
	switch l.AvailabilityMode() {
	case domain.AvailUnlimited, domain.AvailNone:
		// nothing to decrement, the reservation trivially succeeds
		updated = l
	case domain.AvailLimited:
		updated, err = uc.store.ConditionalDecrement(ctx, family, id, quantity)
	case domain.AvailSingleUse:
		updated, err = uc.store.ConditionalExhaust(ctx, family, id)
	}
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientAvailability) {
			uc.logger.Warn("CatalogUsecase.Reserve: insufficient availability",
				"listing_id", id, "quantity", quantity)
		} else {
			uc.logger.Error("CatalogUsecase.Reserve: store update failed",
				"listing_id", id, "error", err.Error())
		}
		return nil, err
	}

	if err := uc.cache.Invalidate(ctx, family, id); err != nil {
		uc.logger.Warn("CatalogUsecase.Reserve: cache invalidate failed", "listing_id", id, "error", err.Error())
	}
	if err := uc.events.ListingReserved(ctx, updated, quantity); err != nil {
		uc.logger.Warn("CatalogUsecase.Reserve: publish failed", "listing_id", id, "error", err.Error())
	}
	if exhausted := updated.ExhaustedStatus(); exhausted != "" && updated.Status == exhausted {
		if err := uc.events.ListingSoldOut(ctx, updated); err != nil {
			uc.logger.Warn("CatalogUsecase.Reserve: sold-out publish failed", "listing_id", id, "error", err.Error())
		}
		if err := uc.notifier.ListingExhausted(updated); err != nil {
			uc.logger.Warn("CatalogUsecase.Reserve: notification failed", "listing_id", id, "error", err.Error())
		}
	}
	return updated, nil
}

// SearchInput carries one page request: filters, ordering and the
// resume cursor from the previous page.
type SearchInput struct {
	Family   domain.Family
	OwnerID  string
	Criteria query.Criteria
	SortKey  domain.SortKey
	PageSize int
	Cursor   string
}

// SearchResult is a display-ordered page plus the cursor for the next
// one. NextCursor is empty on the last page.
type SearchResult struct {
	Items      []*domain.Listing
	NextCursor string
}

// Search runs one page of the read pipeline: resume from the cursor,
// pull a creation-ordered page from the store, filter it, re-order it
// for display, and hand back the cursor anchored on the last raw item.
func (uc *CatalogUsecase) Search(ctx context.Context, in SearchInput) (*SearchResult, error) {
	ctx, span := uc.tracer.Start(ctx, "Search",
		trace.WithAttributes(attribute.String("listing.family", string(in.Family))))
	defer span.End()

	pageSize := in.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	opts := domain.QueryOptions{
		OwnerID:  in.OwnerID,
		SortKey:  in.SortKey,
		PageSize: pageSize,
	}
	if in.Cursor != "" {
		pos, err := query.ResumeAfter(in.Cursor)
		if err != nil {
			return nil, err
		}
		opts.After = pos
	}

	raw, hasMore, err := uc.store.Query(ctx, in.Family, opts)
	if err != nil {
		uc.logger.Error("CatalogUsecase.Search: store query failed",
			"family", in.Family, "error", err.Error())
		return nil, err
	}

	pred := query.BuildPredicate(in.Criteria)
	items := make([]*domain.Listing, 0, len(raw))
	for _, l := range raw {
		if pred(l) {
			items = append(items, l)
		}
	}
	query.Apply(items, in.SortKey, time.Now().UTC())

	res := &SearchResult{Items: items}
	if hasMore && len(raw) > 0 {
		// anchor on the last item the STORE returned, not the last
		// displayed one, so no listing is skipped by the next page
		res.NextCursor = query.NextCursor(raw[len(raw)-1], in.SortKey)
	}
	return res, nil
}

// GetListing fetches one listing, trying the cache first.
func (uc *CatalogUsecase) GetListing(ctx context.Context, family domain.Family, id string) (*domain.Listing, error) {
	if cached, err := uc.cache.Get(ctx, family, id); err != nil {
		uc.logger.Warn("CatalogUsecase.GetListing: cache get failed", "listing_id", id, "error", err.Error())
	} else if cached != nil {
		return cached, nil
	}

	l, err := uc.store.Get(ctx, family, id)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.Set(ctx, l); err != nil {
		uc.logger.Warn("CatalogUsecase.GetListing: cache set failed", "listing_id", id, "error", err.Error())
	}
	return l, nil
}

// GetBySlug resolves a public listing URL to the listing.
func (uc *CatalogUsecase) GetBySlug(ctx context.Context, family domain.Family, s string) (*domain.Listing, error) {
	return uc.store.GetBySlug(ctx, family, s)
}

// DeleteListing removes a listing permanently. Owner only.
func (uc *CatalogUsecase) DeleteListing(ctx context.Context, actorID string, family domain.Family, id string) error {
	uc.logger.Info("CatalogUsecase.DeleteListing: deleting listing",
		"listing_id", id, "actor_id", actorID)

	l, err := uc.store.Get(ctx, family, id)
	if err != nil {
		return err
	}
	if l.OwnerID != actorID {
		uc.logger.Warn("CatalogUsecase.DeleteListing: forbidden",
			"listing_id", id, "owner_id", l.OwnerID, "actor_id", actorID)
		return domain.ErrPermission
	}
	if err := uc.store.Delete(ctx, family, id); err != nil {
		uc.logger.Error("CatalogUsecase.DeleteListing: store delete failed", "listing_id", id, "error", err.Error())
		return err
	}
	if err := uc.cache.Invalidate(ctx, family, id); err != nil {
		uc.logger.Warn("CatalogUsecase.DeleteListing: cache invalidate failed", "listing_id", id, "error", err.Error())
	}
	return nil
}

// AttachImage uploads an image and appends it to the listing's
// gallery. The first image becomes the primary one. Owner only.
func (uc *CatalogUsecase) AttachImage(ctx context.Context, actorID string, family domain.Family, id, filename string, data []byte, contentType string) (*domain.Listing, error) {
	uc.logger.Info("CatalogUsecase.AttachImage: attaching image",
		"listing_id", id, "actor_id", actorID, "filename", filename, "size", len(data))

	l, err := uc.store.Get(ctx, family, id)
	if err != nil {
		return nil, err
	}
	if l.OwnerID != actorID {
		return nil, domain.ErrPermission
	}

	fd, err := uc.families.Descriptor(family)
	if err != nil {
		return nil, err
	}
	if fd.MaxImages > 0 && len(l.Images) >= fd.MaxImages {
		return nil, &domain.ValidationError{
			Messages: []string{"Se alcanzó el límite de imágenes para esta publicación"},
		}
	}

	key := "listings/" + uuid.NewString() + filepath.Ext(filename)
	url, err := uc.images.Upload(ctx, key, data, contentType)
	if err != nil {
		uc.logger.Error("CatalogUsecase.AttachImage: upload failed", "listing_id", id, "error", err.Error())
		return nil, err
	}

	l = l.Clone()
	l.Images = append(l.Images, domain.Image{URL: url, Primary: len(l.Images) == 0})
	l.UpdatedAt = time.Now().UTC()

	stored, err := uc.store.Put(ctx, l)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.Invalidate(ctx, family, id); err != nil {
		uc.logger.Warn("CatalogUsecase.AttachImage: cache invalidate failed", "listing_id", id, "error", err.Error())
	}
	return stored, nil
}
