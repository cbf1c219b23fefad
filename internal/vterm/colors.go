package vterm

import "fmt"

// SysColor returns the palette index of a standard ANSI color 0-7, or
// its bright variant.
func SysColor(n uint8, bright bool) uint8 {
	if bright {
		return n + 8
	}
	return n
}

// RGB maps color components in [0, 1] onto the 6x6x6 color cube of the
// 256-color palette.
func RGB(r, g, b float64) uint8 {
	ri := uint8(r * 5)
	gi := uint8(g * 5)
	bi := uint8(b * 5)
	return ri*36 + gi*6 + bi + 16
}

// Grayscale returns the palette index of the n-th step (0-23) of the
// grayscale ramp.
func Grayscale(n uint8) uint8 {
	return 232 + n
}

// colorParam encodes one color as an SGR parameter. The eight base
// colors use the plain offset code; everything above needs the
// 256-color indexed form.
func colorParam(offset int, color uint8) string {
	if color < 8 {
		return fmt.Sprintf("%d", offset+int(color))
	}
	return fmt.Sprintf("%d;5;%d", offset+8, color)
}
