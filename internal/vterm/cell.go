package vterm

// AttrMask is a bitmask of cell rendering attributes. Bit positions
// follow the canonical SGR emission order.
type AttrMask uint16

const (
	AttrBold AttrMask = 1 << iota
	AttrFaint
	AttrItalic
	AttrUnderline
	AttrBlinkSlow
	AttrBlinkFast
	AttrReverseVideo
	AttrConceal
	AttrStrikeOut
	AttrFraktur
	attrFgSet // derived: foreground explicitly painted
	attrBgSet // derived: background explicitly painted
)

// attrBit returns the mask bit for an SGR attribute code.
func attrBit(attr int) AttrMask {
	for i, a := range attrFormat {
		if a == attr {
			return 1 << i
		}
	}
	return 0
}

// Cell stores the character, colors, and attributes for one grid
// position. Colors are 256-color palette indices; 0 doubles as
// "terminal default" unless the derived set bit says otherwise.
type Cell struct {
	Ch   rune
	Fg   uint8
	Bg   uint8
	Attr AttrMask
}

// HasAttr reports whether the SGR attribute code is set on the cell.
func (c *Cell) HasAttr(attr int) bool {
	return c.Attr&attrBit(attr) != 0
}

// AttrOn sets the SGR attribute code on the cell.
func (c *Cell) AttrOn(attr int) {
	c.Attr |= attrBit(attr)
}

// AttrOff clears the SGR attribute code. Clearing a color offset also
// zeroes the corresponding color value so the cell reads as default.
func (c *Cell) AttrOff(attr int) {
	c.Attr &^= attrBit(attr)
	switch attr {
	case FgOffset:
		c.Fg = 0
	case BgOffset:
		c.Bg = 0
	}
}

// StyleChanged reports whether emitting this cell after old requires a
// new SGR sequence.
func (c *Cell) StyleChanged(old Cell) bool {
	return c.Fg != old.Fg || c.Bg != old.Bg || c.Attr != old.Attr
}
