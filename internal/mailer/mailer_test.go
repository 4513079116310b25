package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ferialibre/catalog-service/internal/catalog/domain"
	"github.com/ferialibre/catalog-service/internal/platform/logger"
)

func listing(family domain.Family, email string) *domain.Listing {
	return &domain.Listing{
		Family:  family,
		Title:   "Clases de guitarra",
		Slug:    "clases-de-guitarra-6f1b2c3d",
		Contact: domain.Contact{Email: email},
	}
}

func TestPublishedMessage(t *testing.T) {
	subject, body := publishedMessage(listing(domain.FamilyProduct, "duena@example.com"))
	assert.Equal(t, "Tu publicación ya está activa", subject)
	assert.Contains(t, body, "Clases de guitarra")
	assert.Contains(t, body, "clases-de-guitarra-6f1b2c3d")
}

func TestExhaustedMessage_PerFamily(t *testing.T) {
	subject, body := exhaustedMessage(listing(domain.FamilyService, "x@example.com"))
	assert.Equal(t, "Se agotaron los cupos de tu publicación", subject)
	assert.Contains(t, body, "cupos")

	subject, body = exhaustedMessage(listing(domain.FamilyProduct, "x@example.com"))
	assert.Equal(t, "Se agotó el stock de tu publicación", subject)
	assert.Contains(t, body, "stock")
}

func TestDisabledMailerIsNoOp(t *testing.T) {
	m := New("", 0, "", "", logger.NewLogger())
	assert.NoError(t, m.ListingPublished(listing(domain.FamilyProduct, "duena@example.com")))
	assert.NoError(t, m.ListingExhausted(listing(domain.FamilyService, "duena@example.com")))
}

func TestMissingContactEmailIsSkipped(t *testing.T) {
	m := New("smtp.example.com", 587, "noreply@example.com", "secret", logger.NewLogger())
	assert.NoError(t, m.ListingPublished(listing(domain.FamilyProduct, "")))
}
