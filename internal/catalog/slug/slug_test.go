package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake_Format(t *testing.T) {
	got := Make("Dulce de Leche Artesanal", "6f1b2c3d4e5f6a7b")
	assert.Equal(t, "dulce-de-leche-artesanal-6f1b2c3d", got)
}

func TestMake_Idempotent(t *testing.T) {
	a := Make("Clases de Guitarra", "abc12345def")
	b := Make("Clases de Guitarra", "abc12345def")
	assert.Equal(t, a, b)
}

func TestMake_TitleTruncatedAtFifty(t *testing.T) {
	title := strings.Repeat("palabra ", 20)
	got := Make(title, "0123456789")
	base := strings.TrimSuffix(got, "-01234567")
	assert.LessOrEqual(t, len([]rune(base)), 50)
	assert.False(t, strings.HasSuffix(base, "-01234567-"))
}

func TestMake_StripsAccentsAndPunctuation(t *testing.T) {
	got := Make("¡Señora! ¿Vendo Ñoquis?", "deadbeefcafe")
	assert.Equal(t, "senora-vendo-noquis-deadbeef", got)
}

func TestMake_ShortID(t *testing.T) {
	got := Make("Mesa", "ab12")
	assert.Equal(t, "mesa-ab12", got)
}

func TestMake_EmptyTitleFallsBackToID(t *testing.T) {
	got := Make("", "0123456789abcdef")
	assert.Equal(t, "01234567", got)
}
