package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLookup(t *testing.T) {
	p := Default()
	require.Greater(t, p.Len(), 50)

	hex, ok := p.Lookup("чорний")
	assert.True(t, ok)
	assert.Equal(t, "#000000", hex)

	hex, ok = p.Lookup("світло молочний (сірий ведмедик)")
	assert.True(t, ok)
	assert.Equal(t, "#F5F3F0", hex)
}

func TestLookupFolded(t *testing.T) {
	hex, ok := Default().Lookup("  Білий ")
	assert.True(t, ok)
	assert.Equal(t, "#FFFFFF", hex)
}

func TestLookupUnknown(t *testing.T) {
	hex, ok := Default().Lookup("ультрафіолет")
	assert.False(t, ok)
	assert.Empty(t, hex)

	var nilPalette *Palette
	_, ok = nilPalette.Lookup("чорний")
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	p, err := Parse([]byte(`"red": "#FF0000"`))
	require.NoError(t, err)
	hex, ok := p.Lookup("RED")
	assert.True(t, ok)
	assert.Equal(t, "#FF0000", hex)

	_, err = Parse([]byte("- not\n- a map"))
	assert.Error(t, err)
}
