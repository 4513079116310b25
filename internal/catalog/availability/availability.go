// Package availability implements the reservation bookkeeping shared
// by products (stock) and services (quota). Reserve expresses the
// pure state transition; stores that can push the decrement down as
// an atomic conditional update (MongoDB) do so with the same
// semantics, while in-memory stores apply Reserve under a lock.
package availability

import (
	"time"

	"github.com/ferialibre/catalog-service/internal/catalog/domain"
)

// Reserve attempts to take quantity units from the listing and
// returns the updated copy. The input listing is never mutated.
//
//   - unlimited (and jobs): always succeeds, listing unchanged.
//   - limited: succeeds only while remaining >= quantity; remaining
//     never drops below zero, and hitting zero flips the status to
//     the family's exhausted value.
//   - single_use: succeeds only while the listing is available, then
//     flips straight to exhausted regardless of quantity.
func Reserve(l *domain.Listing, quantity int, now time.Time) (*domain.Listing, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	switch l.AvailabilityMode() {
	case domain.AvailUnlimited, domain.AvailNone:
		return l.Clone(), nil

	case domain.AvailLimited:
		remaining := l.Remaining()
		if remaining < quantity {
			return nil, domain.ErrInsufficientAvailability
		}
		updated := l.Clone()
		updated.SetRemaining(remaining - quantity)
		if remaining-quantity == 0 {
			updated.Status = updated.ExhaustedStatus()
		}
		updated.UpdatedAt = now
		return updated, nil

	case domain.AvailSingleUse:
		if l.Status != domain.StatusAvailable {
			return nil, domain.ErrInsufficientAvailability
		}
		updated := l.Clone()
		updated.Status = updated.ExhaustedStatus()
		updated.UpdatedAt = now
		return updated, nil
	}
	return nil, domain.ErrUnknownFamily
}

// InStock reports whether a reservation for a single unit could
// currently succeed. The "available-only" query shorthand uses this
// on top of the status check.
func InStock(l *domain.Listing) bool {
	switch l.AvailabilityMode() {
	case domain.AvailLimited:
		return l.Remaining() > 0
	case domain.AvailSingleUse:
		return l.Status == domain.StatusAvailable
	}
	return true
}
