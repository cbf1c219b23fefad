package vterm

import (
	"errors"
	"fmt"
)

var (
	// ErrReaderStopped is returned by blocking reads after Stop.
	ErrReaderStopped = errors.New("vterm: input reader stopped")

	// ErrResizeUnsupported is surfaced when the terminal reports a
	// size change. Re-layout is not implemented; failing loudly beats
	// rendering into a stale geometry.
	ErrResizeUnsupported = errors.New("vterm: terminal resize not supported")
)

// UnsupportedEscapeError reports an escape introducer followed by
// anything other than the CSI byte. The parser cannot resynchronize
// past an unknown sequence without risking misreading data bytes, so
// this is fatal to the parse.
type UnsupportedEscapeError struct {
	Byte rune
}

func (e *UnsupportedEscapeError) Error() string {
	return fmt.Sprintf("vterm: unsupported escape ESC %02d/%02d", e.Byte>>4, e.Byte&0xf)
}

// DimensionError reports a buffer swap whose replacement grid does not
// match the shown grid's geometry.
type DimensionError struct {
	WantRows, WantCols int
	GotRows, GotCols   int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("vterm: grid is %dx%d, terminal is %dx%d",
		e.GotRows, e.GotCols, e.WantRows, e.WantCols)
}
