package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound                 = errors.New("listing not found")
	ErrPermission               = errors.New("listing does not belong to this user")
	ErrInsufficientAvailability = errors.New("insufficient availability")
	ErrUnknownFamily            = errors.New("unknown listing family")
	ErrInvalidQuantity          = errors.New("reservation quantity must be at least 1")
	ErrInvalidCursor            = errors.New("invalid pagination cursor")
	ErrStoreUnavailable         = errors.New("listing store unavailable")
)

// ValidationError carries every rule a submission violated, so the
// caller can show all of them at once. It is returned, never panicked.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// AsValidation unwraps a *ValidationError from err, if present.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
