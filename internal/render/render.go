// Package render turns session state into a plain view model. It performs no
// I/O and holds no state; the TUI only adds styling on top of a View.
package render

import (
	"fmt"

	"github.com/jask/wordrack/internal/game"
	"github.com/jask/wordrack/internal/session"
)

// DefaultPassThreshold is the bag size below which passing is offered.
const DefaultPassThreshold = game.DefaultPassThreshold

// CellView is one board square as displayed.
type CellView struct {
	Row, Col int
	Letter   string
	Bonus    game.Bonus
	// Label is the text painted in the cell: the tile, or the bonus tag of an
	// empty premium square.
	Label  string
	Active bool
}

// Empty reports whether no tile sits on the cell.
func (c CellView) Empty() bool { return c.Letter == "" }

// TileView is one rack slot as displayed.
type TileView struct {
	Slot       int
	Letter     string
	Selectable bool
	Marked     bool
}

type View struct {
	Loading bool

	Board [][]CellView
	Rack  []TileView

	UserScore     int
	OpponentScore int
	BagRemaining  int

	PassVisible    bool
	ExchangeActive bool
	MarkedCount    int

	// Selection is 1-based for display.
	SelectionRow   int
	SelectionCol   int
	Orientation    game.Orientation
	SelectionLabel string
}

// Renderer carries the presentation rules that depend on configuration.
type Renderer struct {
	PassThreshold   int
	AlwaysAllowPass bool
}

// Render uses the default pass threshold.
func Render(snap *game.Snapshot, sel game.Selection, ex session.ExchangeState) View {
	return Renderer{PassThreshold: DefaultPassThreshold}.Render(snap, sel, ex)
}

func (r Renderer) Render(snap *game.Snapshot, sel game.Selection, ex session.ExchangeState) View {
	v := View{
		ExchangeActive: ex.Active,
		SelectionRow:   sel.Row + 1,
		SelectionCol:   sel.Col + 1,
		Orientation:    sel.Orientation,
		SelectionLabel: fmt.Sprintf("Fila %d · Col %d · %s", sel.Row+1, sel.Col+1, sel.Orientation),
	}
	if snap == nil {
		v.Loading = true
		return v
	}

	v.UserScore = snap.UserScore
	v.OpponentScore = snap.OpponentScore
	v.BagRemaining = snap.BagRemaining
	v.PassVisible = r.AlwaysAllowPass || snap.LowStock(r.PassThreshold)

	v.Board = make([][]CellView, len(snap.Board))
	for row, cells := range snap.Board {
		v.Board[row] = make([]CellView, len(cells))
		for col, cell := range cells {
			label := cell.Letter
			if label == "" {
				label = string(cell.Bonus)
			}
			v.Board[row][col] = CellView{
				Row:    row,
				Col:    col,
				Letter: cell.Letter,
				Bonus:  cell.Bonus,
				Label:  label,
				Active: row == sel.Row && col == sel.Col,
			}
		}
	}

	v.Rack = make([]TileView, len(snap.Rack))
	for slot, letter := range snap.Rack {
		marked := ex.Active && ex.IsMarked(slot)
		if marked {
			v.MarkedCount++
		}
		v.Rack[slot] = TileView{
			Slot:       slot,
			Letter:     letter,
			Selectable: ex.Active,
			Marked:     marked,
		}
	}
	return v
}

// ActiveCell returns the highlighted cell, if the selection is on the board.
func (v View) ActiveCell() (CellView, bool) {
	for _, row := range v.Board {
		for _, c := range row {
			if c.Active {
				return c, true
			}
		}
	}
	return CellView{}, false
}
