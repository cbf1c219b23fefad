// theme.go - demo pattern theme with optional YAML overrides
package main

import (
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Theme holds the glyphs and colors of the demo pattern. Colors are
// RGB triples in [0, 1], mapped onto the 256-color cube at draw time.
type Theme struct {
	StarGlyph   string `yaml:"star_glyph"`
	FillGlyph   string `yaml:"fill_glyph"`
	StripeGlyph string `yaml:"stripe_glyph"`

	StarColor      [3]float64 `yaml:"star_color"`
	FillColor      [3]float64 `yaml:"fill_color"`
	StripeColor    [3]float64 `yaml:"stripe_color"`
	StripeAltColor [3]float64 `yaml:"stripe_alt_color"`
}

// DefaultTheme returns the built-in pattern colors.
func DefaultTheme() Theme {
	return Theme{
		StarGlyph:      "*",
		FillGlyph:      "&",
		StripeGlyph:    "^",
		StarColor:      [3]float64{1, 1, 1},
		FillColor:      [3]float64{0, 0, 1},
		StripeColor:    [3]float64{1, 0, 0},
		StripeAltColor: [3]float64{1, 1, 1},
	}
}

func themePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "cellterm", "theme.yaml")
}

// LoadTheme reads the user theme file when present, falling back to
// the defaults on any problem.
func LoadTheme() Theme {
	theme := DefaultTheme()
	path := themePath()
	if path == "" {
		return theme
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return theme
	}
	if err := yaml.Unmarshal(data, &theme); err != nil {
		log.Printf("theme: ignoring malformed %s: %v", path, err)
		return DefaultTheme()
	}
	return theme
}

// glyph returns the first rune of a configured glyph string, or the
// fallback when the string is empty.
func glyph(s string, fallback rune) rune {
	for _, r := range s {
		return r
	}
	return fallback
}
