// main.go - cellterm demo: draws a split test pattern and steps
// through diff-rendered refreshes one keypress at a time
package main

import (
	"log"
	"math"
	"os"

	"cellterm/internal/vterm"
)

func main() {
	theme := LoadTheme()

	t, err := vterm.Open(os.Stdin, os.Stdout)
	if err != nil {
		log.Fatalf("opening terminal: %v", err)
	}
	defer t.Close()

	if err := t.SetCbreak(); err != nil {
		log.Fatalf("entering cbreak mode: %v", err)
	}

	if err := t.AttrOn(vterm.ReverseVideo); err != nil {
		log.Fatalf("setting attributes: %v", err)
	}

	drawPattern(t, theme)

	// Each keypress transmits the next round of pending changes. The
	// second refresh should write nothing: the grids already match.
	for i := 0; i < 3; i++ {
		if _, err := t.GetChar(); err != nil {
			return
		}
		if i < 2 {
			t.Refresh()
		}
	}
}

// drawPattern fills the pending grid with the test pattern: a
// checkered star field in the top-left quadrant, horizontal stripes
// everywhere else.
func drawPattern(t *vterm.Terminal, theme Theme) {
	rows, cols := t.Rows(), t.Cols()
	star := glyph(theme.StarGlyph, '*')
	fill := glyph(theme.FillGlyph, '&')
	stripe := glyph(theme.StripeGlyph, '^')

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			var ch rune
			var fg [3]float64
			if float64(row) < float64(rows)/2 && float64(col) < float64(cols)/2 {
				if col%2 == 1 && row%2 == 1 {
					ch, fg = star, theme.StarColor
				} else {
					ch, fg = fill, theme.FillColor
				}
			} else {
				w := float64(rows) / 6.5
				ch = stripe
				if math.Mod(float64(row), w) < w/2 {
					fg = theme.StripeColor
				} else {
					fg = theme.StripeAltColor
				}
			}
			t.Fg(vterm.RGB(fg[0], fg[1], fg[2]))
			t.Put(row, col, ch)
		}
	}
}
