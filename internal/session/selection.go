package session

import "github.com/jask/wordrack/internal/game"

// SelectionModel tracks the single active board cell and orientation.
type SelectionModel struct {
	sel        game.Selection
	rows, cols int
}

func NewSelectionModel(size int) *SelectionModel {
	return &SelectionModel{sel: game.CenterSelection(size), rows: size, cols: size}
}

func (m *SelectionModel) Current() game.Selection { return m.sel }

// SelectCell moves the selection to (row, col). Out-of-bounds coordinates are
// ignored. It reports whether the selection changed.
func (m *SelectionModel) SelectCell(row, col int) bool {
	if row < 0 || col < 0 || row >= m.rows || col >= m.cols {
		return false
	}
	if m.sel.Row == row && m.sel.Col == col {
		return false
	}
	m.sel.Row, m.sel.Col = row, col
	return true
}

// Move shifts the selection by (dRow, dCol), stopping at the board edge.
func (m *SelectionModel) Move(dRow, dCol int) bool {
	row := clamp(m.sel.Row+dRow, 0, m.rows-1)
	col := clamp(m.sel.Col+dCol, 0, m.cols-1)
	return m.SelectCell(row, col)
}

func (m *SelectionModel) SetOrientation(o game.Orientation) {
	if o != game.Vertical {
		o = game.Horizontal
	}
	m.sel.Orientation = o
}

func (m *SelectionModel) ToggleOrientation() {
	m.sel.Orientation = m.sel.Orientation.Toggle()
}

// Resize adopts new board bounds; a selection that no longer fits returns to the centre.
func (m *SelectionModel) Resize(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		return
	}
	m.rows, m.cols = rows, cols
	if m.sel.Row >= rows || m.sel.Col >= cols {
		o := m.sel.Orientation
		m.sel = game.Selection{Row: rows / 2, Col: cols / 2, Orientation: o}
	}
}

// Reset returns to the board centre, horizontal.
func (m *SelectionModel) Reset() {
	m.sel = game.Selection{Row: m.rows / 2, Col: m.cols / 2, Orientation: game.Horizontal}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
