// Package vterm is a minimal terminal UI engine. It keeps two grids of
// styled character cells, the pending one the application draws into
// and the shown one mirroring the physical display, and synchronizes
// them with the fewest ANSI/VT escape bytes it can. Input from the
// terminal runs through a resumable CSI parser on a background
// goroutine, so device reports like the cursor position response are
// dispatched to handlers while plain characters queue up for blocking
// reads.
package vterm
