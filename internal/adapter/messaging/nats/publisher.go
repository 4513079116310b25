// Package nats publishes catalog lifecycle events. Subjects follow
// catalog.listing.<event>; payloads are JSON envelopes carrying the
// listing snapshot at the time of the event.
package nats

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/ferialibre/catalog-service/internal/catalog/domain"
)

const (
	SubjectCreated  = "catalog.listing.created"
	SubjectUpdated  = "catalog.listing.updated"
	SubjectReserved = "catalog.listing.reserved"
	SubjectSoldOut  = "catalog.listing.sold_out"
)

type Publisher struct {
	conn *nats.Conn
}

func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn}, nil
}

type listingEvent struct {
	ListingID string          `json:"listing_id"`
	OwnerID   string          `json:"owner_id"`
	Family    domain.Family   `json:"family"`
	Status    domain.Status   `json:"status"`
	Quantity  int             `json:"quantity,omitempty"`
	Listing   *domain.Listing `json:"listing"`
	EmittedAt time.Time       `json:"emitted_at"`
}

func (p *Publisher) publish(subject string, l *domain.Listing, quantity int) error {
	data, err := json.Marshal(listingEvent{
		ListingID: l.ID,
		OwnerID:   l.OwnerID,
		Family:    l.Family,
		Status:    l.Status,
		Quantity:  quantity,
		Listing:   l,
		EmittedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return p.conn.Publish(subject, data)
}

func (p *Publisher) ListingCreated(_ context.Context, l *domain.Listing) error {
	return p.publish(SubjectCreated, l, 0)
}

func (p *Publisher) ListingUpdated(_ context.Context, l *domain.Listing) error {
	return p.publish(SubjectUpdated, l, 0)
}

func (p *Publisher) ListingReserved(_ context.Context, l *domain.Listing, quantity int) error {
	return p.publish(SubjectReserved, l, quantity)
}

func (p *Publisher) ListingSoldOut(_ context.Context, l *domain.Listing) error {
	return p.publish(SubjectSoldOut, l, 0)
}

func (p *Publisher) Close() {
	p.conn.Close()
}
