// Package cache keeps recently-read listings in Redis so detail
// views skip MongoDB. Entries expire after an hour and are dropped
// eagerly whenever a write path touches the listing.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ferialibre/catalog-service/internal/catalog/domain"
)

const listingTTL = 1 * time.Hour

type ListingCache struct {
	client *redis.Client
}

func NewListingCache(addr string) (*ListingCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &ListingCache{client: client}, nil
}

func key(family domain.Family, id string) string {
	return "catalog:listing:" + string(family) + ":" + id
}

// Get returns the cached listing, or (nil, nil) on a miss.
func (c *ListingCache) Get(ctx context.Context, family domain.Family, id string) (*domain.Listing, error) {
	data, err := c.client.Get(ctx, key(family, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var l domain.Listing
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *ListingCache) Set(ctx context.Context, l *domain.Listing) error {
	data, err := json.Marshal(l)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(l.Family, l.ID), data, listingTTL).Err()
}

func (c *ListingCache) Invalidate(ctx context.Context, family domain.Family, id string) error {
	return c.client.Del(ctx, key(family, id)).Err()
}

func (c *ListingCache) Close() error {
	return c.client.Close()
}
