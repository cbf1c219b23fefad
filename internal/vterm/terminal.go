package vterm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Terminal owns the pending and shown grids, the tracked cursor, the
// escape handler registry, and the input reader. Drawing goes into the
// pending grid; Refresh synchronizes the physical terminal with the
// fewest escape bytes it can manage.
//
// Exactly two goroutines touch a Terminal once it is open: the caller
// (grids, Refresh, blocking reads) and the reader goroutine (escape
// callbacks). The grids are caller-only; the DSR query state has its
// own lock.
type Terminal struct {
	grammar Grammar
	in      *os.File // nil when the input is not a real terminal
	out     *bufio.Writer
	reader  *Reader

	rows int
	cols int

	pending *Grid
	shown   *Grid

	// Physical cursor as last moved, 1-indexed. Starts off-screen so
	// the first movement is always emitted.
	cursorRow int
	cursorCol int

	brush Cell

	handlersMu sync.Mutex
	handlers   map[string]func(params []int)

	// In-flight cursor position query. dsrPos is nil while a query is
	// outstanding; the CPR handler resolves it under dsrMu.
	dsrMu   sync.Mutex
	dsrCond *sync.Cond
	dsrPos  []int

	saved  *term.State
	sig    chan os.Signal
	errs   chan error
	closed chan struct{}
	once   sync.Once
}

// New creates a controller over explicit streams and a fixed geometry
// and starts its input reader. Terminal mode is left untouched; use
// Open to acquire a real terminal.
func New(in io.Reader, out io.Writer, rows, cols int) *Terminal {
	t := &Terminal{
		grammar:   DefaultGrammar(),
		out:       bufio.NewWriter(out),
		rows:      rows,
		cols:      cols,
		pending:   NewGrid(rows, cols),
		shown:     NewGrid(rows, cols),
		cursorRow: -1,
		cursorCol: -1,
		errs:      make(chan error, 4),
		closed:    make(chan struct{}),
	}
	t.dsrCond = sync.NewCond(&t.dsrMu)
	t.handlers = map[string]func([]int){CPR: t.cprHandler}
	if f, ok := in.(*os.File); ok {
		t.in = f
	}
	t.reader = NewReader(in, t.grammar, t.handleEscape)
	t.reader.Start()
	go t.forwardErrs()
	return t
}

// Open acquires the terminal on the given files: queries its size,
// saves the current mode and resize-signal disposition, and clears the
// display. Close restores everything Open changed; pair them even on
// error paths.
func Open(in, out *os.File) (*Terminal, error) {
	if err := enableVT(out); err != nil {
		return nil, fmt.Errorf("vterm: enabling VT output: %w", err)
	}
	cols, rows, err := term.GetSize(int(out.Fd()))
	if err != nil {
		return nil, fmt.Errorf("vterm: querying terminal size: %w", err)
	}
	t := New(in, out, rows, cols)
	t.in = in
	t.saved, err = term.GetState(int(in.Fd()))
	if err != nil {
		t.reader.Stop()
		return nil, fmt.Errorf("vterm: saving terminal state: %w", err)
	}
	if sigs := resizeSignals(); len(sigs) > 0 {
		t.sig = make(chan os.Signal, 1)
		signal.Notify(t.sig, sigs...)
		go t.watchResize()
	}
	t.HardClear()
	return t, nil
}

// Close resets the style, stops the reader, and restores the terminal
// mode and signal disposition saved by Open. Safe to call more than
// once; only the first call does work.
func (t *Terminal) Close() error {
	var err error
	t.once.Do(func() {
		t.escape(SGR, Reset)
		t.flush()
		t.reader.Stop()
		if t.sig != nil {
			signal.Stop(t.sig)
		}
		close(t.closed)
		if t.saved != nil && t.in != nil {
			err = term.Restore(int(t.in.Fd()), t.saved)
		}
	})
	return err
}

// Rows returns the terminal height in character cells.
func (t *Terminal) Rows() int { return t.rows }

// Cols returns the terminal width in character cells.
func (t *Terminal) Cols() int { return t.cols }

// Errs delivers failures with no caller to return to: parser protocol
// errors from the reader goroutine and resize notifications, which are
// unsupported and surface as ErrResizeUnsupported.
func (t *Terminal) Errs() <-chan error { return t.errs }

// SetRaw puts the terminal into raw mode.
func (t *Terminal) SetRaw() error {
	if t.in == nil {
		return fmt.Errorf("vterm: input is not a terminal")
	}
	_, err := term.MakeRaw(int(t.in.Fd()))
	return err
}

// SetCbreak disables echo and line buffering but keeps signal keys.
func (t *Terminal) SetCbreak() error {
	if t.in == nil {
		return fmt.Errorf("vterm: input is not a terminal")
	}
	return setCbreak(int(t.in.Fd()))
}

func (t *Terminal) fail(err error) {
	select {
	case t.errs <- err:
	default:
	}
}

func (t *Terminal) forwardErrs() {
	for {
		select {
		case err := <-t.reader.Errs():
			t.fail(err)
		case <-t.closed:
			return
		}
	}
}

func (t *Terminal) watchResize() {
	for {
		select {
		case <-t.sig:
			t.fail(ErrResizeUnsupported)
		case <-t.closed:
			return
		}
	}
}

// escape writes one CSI sequence into the output buffer.
func (t *Terminal) escape(code string, params ...int) {
	strs := make([]string, len(params))
	for i, p := range params {
		strs[i] = strconv.Itoa(p)
	}
	t.escapeParams(code, strs)
}

func (t *Terminal) escapeParams(code string, params []string) {
	t.out.WriteRune(t.grammar.Intro)
	t.out.WriteRune(t.grammar.CSI)
	t.out.WriteString(strings.Join(params, ";"))
	t.out.WriteString(code)
}

func (t *Terminal) flush() {
	if err := t.out.Flush(); err != nil {
		t.fail(err)
	}
}

// handleEscape runs on the reader goroutine for every completed CSI
// sequence. Unregistered codes are ignored.
func (t *Terminal) handleEscape(params, code string) {
	t.handlersMu.Lock()
	h, ok := t.handlers[code]
	t.handlersMu.Unlock()
	if !ok {
		return
	}
	var ints []int
	if params != "" {
		for _, p := range strings.Split(params, ";") {
			n, err := strconv.Atoi(p)
			if err != nil {
				n = 0
			}
			ints = append(ints, n)
		}
	}
	h(ints)
}

// RegisterEscape installs a handler for a CSI final code, replacing
// any previous one. Handlers run on the reader goroutine and must not
// block.
func (t *Terminal) RegisterEscape(code string, fn func(params []int)) {
	t.handlersMu.Lock()
	t.handlers[code] = fn
	t.handlersMu.Unlock()
}

// cprHandler resolves an in-flight cursor position query from the
// terminal's report. Missing parameters default to 1.
func (t *Terminal) cprHandler(params []int) {
	row, col := 1, 1
	if len(params) > 0 {
		row = params[0]
	}
	if len(params) > 1 {
		col = params[1]
	}
	t.dsrMu.Lock()
	t.dsrPos = []int{row, col}
	t.dsrMu.Unlock()
	t.dsrCond.Broadcast()
}

// GetCursor asks the terminal where its cursor is. With wait it blocks
// until the report arrives and returns the 1-indexed position; without
// it the request is fire and forget.
func (t *Terminal) GetCursor(wait bool) (row, col int) {
	t.dsrMu.Lock()
	t.dsrPos = nil
	t.dsrMu.Unlock()
	t.escape(DSR, 6)
	t.flush()
	if !wait {
		return 0, 0
	}
	t.dsrMu.Lock()
	defer t.dsrMu.Unlock()
	for t.dsrPos == nil {
		t.dsrCond.Wait()
	}
	return t.dsrPos[0], t.dsrPos[1]
}

// MoveCursor moves the physical cursor to the 1-indexed position,
// clamped to the screen. A move needing both axes uses one absolute
// sequence; a single axis uses one relative sequence; a zero delta
// writes nothing.
func (t *Terminal) MoveCursor(row, col int) {
	t.moveCursor(row, col)
	t.flush()
}

func (t *Terminal) moveCursor(row, col int) {
	row = min(max(row, 1), t.rows)
	col = min(max(col, 1), t.cols)
	dr := row - t.cursorRow
	dc := col - t.cursorCol
	switch {
	case dr != 0 && dc != 0:
		t.escape(CursorPos, row, col)
	case dr > 0:
		t.escape(CursorDown, dr)
	case dr < 0:
		t.escape(CursorUp, -dr)
	case dc > 0:
		t.escape(CursorRight, dc)
	case dc < 0:
		t.escape(CursorLeft, -dc)
	}
	t.cursorRow = row
	t.cursorCol = col
}

// HardClear erases the whole display. The grids are untouched.
func (t *Terminal) HardClear() {
	t.escape(EraseDisplay, 2)
	t.flush()
}

// advanceCursor mirrors what the terminal does after printing: the
// cursor moves right by the glyph's width and wraps to the next row
// past the last column. Predicting this avoids a redundant move before
// the immediately following cell.
func (t *Terminal) advanceCursor(ch rune) {
	w := runewidth.RuneWidth(ch)
	if w < 1 {
		w = 1
	}
	t.cursorCol += w
	if t.cursorCol > t.cols {
		t.cursorRow++
		t.cursorCol = 1
	}
}

// Refresh diffs the pending grid against the shown grid in row-major
// order and writes every changed cell: a cursor move only when the
// tracked cursor is elsewhere, one SGR sequence only when the style
// differs from what the cell showed before, then the glyph. The output
// buffer is flushed once at the end.
func (t *Terminal) Refresh() {
	for r := 0; r < t.rows; r++ {
		for c := 0; c < t.cols; c++ {
			old := t.shown.At(r, c)
			cell := t.pending.At(r, c)
			if cell == old {
				continue
			}
			if t.cursorRow != r+1 || t.cursorCol != c+1 {
				t.moveCursor(r+1, c+1)
			}
			if cell.StyleChanged(old) {
				t.escapeParams(SGR, sgrParams(cell, old))
			}
			t.out.WriteRune(cell.Ch)
			t.shown.Set(r, c, cell)
			t.advanceCursor(cell.Ch)
		}
	}
	t.flush()
}

// sgrParams builds one SGR parameter list taking the style from old to
// cell, attribute by attribute in canonical order. Newly set
// attributes emit their code, newly cleared ones their off code;
// colors are included only when the set bit or the value changed.
func sgrParams(cell, old Cell) []string {
	var args []string
	for _, attr := range attrFormat {
		switch attr {
		case FgOffset:
			if cell.HasAttr(FgOffset) {
				if !old.HasAttr(FgOffset) || cell.Fg != old.Fg {
					args = append(args, colorParam(FgOffset, cell.Fg))
				}
			} else if old.HasAttr(FgOffset) {
				args = append(args, strconv.Itoa(DefaultFg))
			}
		case BgOffset:
			if cell.HasAttr(BgOffset) {
				if !old.HasAttr(BgOffset) || cell.Bg != old.Bg {
					args = append(args, colorParam(BgOffset, cell.Bg))
				}
			} else if old.HasAttr(BgOffset) {
				args = append(args, strconv.Itoa(DefaultBg))
			}
		default:
			if cell.HasAttr(attr) && !old.HasAttr(attr) {
				args = append(args, strconv.Itoa(attr))
			} else if !cell.HasAttr(attr) && old.HasAttr(attr) {
				args = append(args, strconv.Itoa(attrOffCode(attr)))
			}
		}
	}
	return args
}

// SetScreen swaps the pending grid for another of identical geometry.
// The shown grid keeps mirroring the physical display, so the next
// Refresh diffs against what is really on screen.
func (t *Terminal) SetScreen(g *Grid) error {
	if g.Rows() != t.shown.Rows() || g.Cols() != t.shown.Cols() {
		return &DimensionError{
			WantRows: t.shown.Rows(), WantCols: t.shown.Cols(),
			GotRows: g.Rows(), GotCols: g.Cols(),
		}
	}
	t.pending = g
	return nil
}

// Screen returns the pending grid.
func (t *Terminal) Screen() *Grid { return t.pending }

// Clear blanks the pending grid.
func (t *Terminal) Clear() { t.pending.Clear() }

// Fill floods the pending grid.
func (t *Terminal) Fill(ch rune, fg, bg uint8, attr AttrMask) {
	t.pending.Fill(ch, fg, bg, attr)
}

// Cell returns the pending cell at the 0-indexed position.
func (t *Terminal) Cell(row, col int) Cell {
	return t.pending.At(row, col)
}

// SetCell stores a cell into the pending grid.
func (t *Terminal) SetCell(row, col int, cell Cell) {
	t.pending.Set(row, col, cell)
}

// Put draws one character with the current brush style.
func (t *Terminal) Put(row, col int, ch rune) {
	cell := t.brush
	cell.Ch = ch
	t.pending.Set(row, col, cell)
}

// Fg sets the brush foreground. The color counts as explicitly painted
// even when it is 0.
func (t *Terminal) Fg(color uint8) {
	t.brush.Fg = color
	t.brush.Attr |= attrFgSet
}

// Bg sets the brush background.
func (t *Terminal) Bg(color uint8) {
	t.brush.Bg = color
	t.brush.Attr |= attrBgSet
}

// AttrOn enables SGR attributes on the brush. Reset clears the brush
// entirely. Colors go through Fg and Bg, not here.
func (t *Terminal) AttrOn(attrs ...int) error {
	for _, attr := range attrs {
		if attr == Reset {
			t.brush = Cell{}
			return nil
		}
		if attr == FgOffset || attr == BgOffset {
			return fmt.Errorf("vterm: use Fg and Bg to set colors")
		}
	}
	for _, attr := range attrs {
		t.brush.AttrOn(attr)
	}
	return nil
}

// AttrOff disables SGR attributes on the brush. With no arguments the
// brush resets to the default style.
func (t *Terminal) AttrOff(attrs ...int) {
	if len(attrs) == 0 {
		t.brush = Cell{}
		return
	}
	for _, attr := range attrs {
		t.brush.AttrOff(attr)
	}
}

// GetChar blocks for the next plain input character.
func (t *Terminal) GetChar() (rune, error) {
	return t.reader.GetChar()
}

// GetLine blocks until a newline and returns the line without it.
func (t *Terminal) GetLine() (string, error) {
	return t.reader.GetLine()
}

// ReadInput drains up to n buffered input characters without blocking.
func (t *Terminal) ReadInput(n int) string {
	return t.reader.Read(n)
}
