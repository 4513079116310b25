package query

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferialibre/catalog-service/internal/catalog/domain"
)

func TestCursor_RoundTrip(t *testing.T) {
	created := time.Date(2025, 4, 2, 15, 4, 5, 123456789, time.UTC)
	last := &domain.Listing{ID: "l-42", CreatedAt: created}

	cur := NextCursor(last, domain.SortPriceAsc)
	pos, err := ResumeAfter(cur)
	require.NoError(t, err)

	assert.Equal(t, domain.SortPriceAsc, pos.SortKey)
	assert.Equal(t, "l-42", pos.ID)
	assert.True(t, pos.Time.Equal(created))
}

func TestCursor_IsOpaque(t *testing.T) {
	cur := NextCursor(&domain.Listing{ID: "x", CreatedAt: time.Now()}, domain.SortRecencyDesc)
	assert.NotContains(t, cur, "{")
	assert.NotContains(t, cur, "=") // raw url encoding, no padding
}

func TestResumeAfter_RejectsGarbage(t *testing.T) {
	for name, cursor := range map[string]string{
		"not base64": "%%%%",
		"not json":   base64.RawURLEncoding.EncodeToString([]byte("hola")),
		"missing id": base64.RawURLEncoding.EncodeToString([]byte(`{"k":"recency_desc","t":"2025-04-02T15:04:05Z"}`)),
		"zero time":  base64.RawURLEncoding.EncodeToString([]byte(`{"k":"recency_desc","id":"abc"}`)),
		"empty":      "",
		"truncated":  "eyJrIjo",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ResumeAfter(cursor)
			assert.ErrorIs(t, err, domain.ErrInvalidCursor)
		})
	}
}
