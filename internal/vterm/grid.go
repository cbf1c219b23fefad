package vterm

// Grid is a fixed-size row-major buffer of cells. Dimensions are set
// at construction and never change.
type Grid struct {
	rows  int
	cols  int
	cells []Cell
}

// NewGrid creates a rows x cols grid filled with blank cells.
func NewGrid(rows, cols int) *Grid {
	g := &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]Cell, rows*cols),
	}
	g.Clear()
	return g
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// At returns the cell at the 0-indexed position.
func (g *Grid) At(row, col int) Cell {
	return g.cells[row*g.cols+col]
}

// Set stores a cell at the 0-indexed position. A nonzero color forces
// the matching set bit so the renderer emits it even though the value
// alone cannot distinguish color 0 from "default".
func (g *Grid) Set(row, col int, cell Cell) {
	if cell.Fg != 0 {
		cell.Attr |= attrFgSet
	}
	if cell.Bg != 0 {
		cell.Attr |= attrBgSet
	}
	g.cells[row*g.cols+col] = cell
}

// Fill overwrites every cell.
func (g *Grid) Fill(ch rune, fg, bg uint8, attr AttrMask) {
	cell := Cell{Ch: ch, Fg: fg, Bg: bg, Attr: attr}
	if fg != 0 {
		cell.Attr |= attrFgSet
	}
	if bg != 0 {
		cell.Attr |= attrBgSet
	}
	for i := range g.cells {
		g.cells[i] = cell
	}
}

// Clear resets every cell to a blank with default style.
func (g *Grid) Clear() {
	g.Fill(' ', 0, 0, 0)
}
