package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestThemePartialOverride(t *testing.T) {
	theme := DefaultTheme()
	err := yaml.Unmarshal([]byte("star_glyph: '@'\nstripe_color: [0, 1, 0]\n"), &theme)
	require.NoError(t, err)

	assert.Equal(t, "@", theme.StarGlyph)
	assert.Equal(t, [3]float64{0, 1, 0}, theme.StripeColor)

	// Unspecified fields keep their defaults.
	assert.Equal(t, "&", theme.FillGlyph)
	assert.Equal(t, [3]float64{1, 1, 1}, theme.StarColor)
}

func TestGlyphFallback(t *testing.T) {
	assert.Equal(t, '@', glyph("@", '*'))
	assert.Equal(t, '*', glyph("", '*'))
}
