package query

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/ferialibre/catalog-service/internal/catalog/domain"
)

// cursorPayload is the wire shape of a pagination cursor. The anchor
// is always (creation time, id) of the last item the store delivered,
// which stays a valid resume point no matter how the page was
// re-ordered for display.
type cursorPayload struct {
	SortKey   string    `json:"k"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"t"`
}

// NextCursor encodes the resume point after last for a follow-up
// page. last must be the final item of the page in STORE order, not
// display order.
func NextCursor(last *domain.Listing, key domain.SortKey) string {
	raw, _ := json.Marshal(cursorPayload{
		SortKey:   string(key),
		ID:        last.ID,
		CreatedAt: last.CreatedAt,
	})
	return base64.RawURLEncoding.EncodeToString(raw)
}

// ResumeAfter decodes a client-supplied cursor back into a store
// position. Anything that does not decode to a complete payload is
// rejected as ErrInvalidCursor; the engine never guesses a resume
// point from a corrupt cursor.
func ResumeAfter(cursor string) (*domain.Position, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, domain.ErrInvalidCursor
	}
	var p cursorPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, domain.ErrInvalidCursor
	}
	if p.ID == "" || p.CreatedAt.IsZero() {
		return nil, domain.ErrInvalidCursor
	}
	return &domain.Position{
		SortKey: domain.SortKey(p.SortKey),
		ID:      p.ID,
		Time:    p.CreatedAt,
	}, nil
}
