package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_StripsAccentsAndCase(t *testing.T) {
	got := Normalize("Clases de Inglés y Francés")
	assert.Equal(t, []string{"clases", "frances", "ingles"}, got)
}

func TestNormalize_AccentVariantsProduceSameTokens(t *testing.T) {
	variants := []string{
		"dulce de leche artesanal",
		"Dulce De Leche Artesanal",
		"DULCE DE LECHE ARTESANÁL",
		"dúlce dé léche ártesanal",
	}
	want := Normalize(variants[0])
	for _, v := range variants[1:] {
		assert.Equal(t, want, Normalize(v), "variant %q", v)
	}
}

func TestNormalize_DropsShortTokensAndPunctuation(t *testing.T) {
	got := Normalize("¡Se vende! TV 4k, casi sin uso...")
	// "se", "tv", "4k" are under the 3-rune minimum.
	assert.Equal(t, []string{"casi", "sin", "uso", "vende"}, got)
}

func TestNormalize_DeduplicatesAcrossInputs(t *testing.T) {
	got := Normalize("torta casera", "Tortas y tortas CASERAS", "casera")
	assert.Equal(t, []string{"casera", "caseras", "torta", "tortas"}, got)
}

func TestNormalize_EmptyInput(t *testing.T) {
	assert.Empty(t, Normalize())
	assert.Empty(t, Normalize(""))
	assert.Empty(t, Normalize("  ,;.  "))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "telefono movil", Fold("Teléfono Móvil"))
	assert.Equal(t, "nandu", Fold("Ñandú"))
}
