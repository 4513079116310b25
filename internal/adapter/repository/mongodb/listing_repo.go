// Package mongodb persists listings in one collection per family
// (products, services, jobs). Pages always come back newest first,
// keyed on (created_at, _id), which is what the pagination cursors
// anchor on. Availability decrements are single FindOneAndUpdate
// calls so two racing reservations can never both take the last unit.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ferialibre/catalog-service/internal/catalog/domain"
	"github.com/ferialibre/catalog-service/internal/platform/logger"
)

type ListingRepository struct {
	db     *mongo.Database
	logger *logger.Logger
}

func NewListingRepository(db *mongo.Database, log *logger.Logger) *ListingRepository {
	return &ListingRepository{db: db, logger: log.Named("mongodb")}
}

func (r *ListingRepository) collection(family domain.Family) *mongo.Collection {
	switch family {
	case domain.FamilyProduct:
		return r.db.Collection("products")
	case domain.FamilyService:
		return r.db.Collection("services")
	default:
		return r.db.Collection("jobs")
	}
}

// EnsureIndexes creates the indexes every query path relies on. Run
// once at startup.
func (r *ListingRepository) EnsureIndexes(ctx context.Context) error {
	for _, family := range []domain.Family{domain.FamilyProduct, domain.FamilyService, domain.FamilyJob} {
		_, err := r.collection(family).Indexes().CreateMany(ctx, []mongo.IndexModel{
			{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
			{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		})
		if err != nil {
			return fmt.Errorf("creating indexes for %s: %w", family, err)
		}
	}
	return nil
}

func (r *ListingRepository) Query(ctx context.Context, family domain.Family, opts domain.QueryOptions) ([]*domain.Listing, bool, error) {
	filter := bson.M{}
	if opts.OwnerID != "" {
		filter["owner_id"] = opts.OwnerID
	}
	if opts.After != nil {
		// resume strictly after (created_at, _id) in newest-first order
		filter["$or"] = bson.A{
			bson.M{"created_at": bson.M{"$lt": opts.After.Time}},
			bson.M{"created_at": opts.After.Time, "_id": bson.M{"$lt": opts.After.ID}},
		}
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(opts.PageSize) + 1) // one extra row tells us whether more pages exist

	cursor, err := r.collection(family).Find(ctx, filter, findOpts)
	if err != nil {
		r.logger.Error("query failed", "family", family, "error", err.Error())
		return nil, false, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, false, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	hasMore := len(docs) > opts.PageSize
	if hasMore {
		docs = docs[:opts.PageSize]
	}
	items := make([]*domain.Listing, 0, len(docs))
	for _, d := range docs {
		items = append(items, toDomain(d))
	}
	return items, hasMore, nil
}

func (r *ListingRepository) Get(ctx context.Context, family domain.Family, id string) (*domain.Listing, error) {
	var doc listingDocument
	err := r.collection(family).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return toDomain(&doc), nil
}

func (r *ListingRepository) GetBySlug(ctx context.Context, family domain.Family, slug string) (*domain.Listing, error) {
	var doc listingDocument
	err := r.collection(family).FindOne(ctx, bson.M{"slug": slug}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return toDomain(&doc), nil
}

func (r *ListingRepository) Insert(ctx context.Context, l *domain.Listing) error {
	if _, err := r.collection(l.Family).InsertOne(ctx, toDocument(l)); err != nil {
		r.logger.Error("insert failed", "listing_id", l.ID, "error", err.Error())
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *ListingRepository) Put(ctx context.Context, l *domain.Listing) (*domain.Listing, error) {
	res, err := r.collection(l.Family).ReplaceOne(ctx, bson.M{"_id": l.ID}, toDocument(l))
	if err != nil {
		r.logger.Error("replace failed", "listing_id", l.ID, "error", err.Error())
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrNotFound
	}
	return l, nil
}

func (r *ListingRepository) Delete(ctx context.Context, family domain.Family, id string) error {
	res, err := r.collection(family).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// remainingField is where the countable availability lives for each
// family's limited mode.
func remainingField(family domain.Family) string {
	if family == domain.FamilyService {
		return "service.quota_remaining"
	}
	return "product.stock"
}

func exhaustedStatus(family domain.Family) domain.Status {
	if family == domain.FamilyService {
		return domain.StatusNoQuota
	}
	return domain.StatusSoldOut
}

// ConditionalDecrement takes amount units atomically: the filter
// guards remaining >= amount, so a concurrent reservation that
// drained the listing first makes this one fail cleanly.
func (r *ListingRepository) ConditionalDecrement(ctx context.Context, family domain.Family, id string, amount int) (*domain.Listing, error) {
	field := remainingField(family)
	now := time.Now().UTC()

	filter := bson.M{"_id": id, field: bson.M{"$gte": amount}}
	update := bson.M{
		"$inc": bson.M{field: -amount},
		"$set": bson.M{"updated_at": now},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc listingDocument
	err := r.collection(family).FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// either the listing is gone or the guard failed
			if _, getErr := r.Get(ctx, family, id); errors.Is(getErr, domain.ErrNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, domain.ErrInsufficientAvailability
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	l := toDomain(&doc)
	if l.Remaining() == 0 && l.Status != exhaustedStatus(family) {
		l.Status = exhaustedStatus(family)
		if _, err := r.collection(family).UpdateOne(ctx,
			bson.M{"_id": id, remainingField(family): 0},
			bson.M{"$set": bson.M{"status": string(l.Status), "updated_at": now}},
		); err != nil {
			r.logger.Warn("exhausted status update failed", "listing_id", id, "error", err.Error())
		}
	}
	return l, nil
}

// ConditionalExhaust flips an available single-use listing straight
// to its exhausted status, guarded on the current status.
func (r *ListingRepository) ConditionalExhaust(ctx context.Context, family domain.Family, id string) (*domain.Listing, error) {
	now := time.Now().UTC()
	filter := bson.M{"_id": id, "status": string(domain.StatusAvailable)}
	update := bson.M{"$set": bson.M{
		"status":     string(exhaustedStatus(family)),
		"updated_at": now,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc listingDocument
	err := r.collection(family).FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			if _, getErr := r.Get(ctx, family, id); errors.Is(getErr, domain.ErrNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, domain.ErrInsufficientAvailability
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return toDomain(&doc), nil
}
