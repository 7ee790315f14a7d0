package render_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jask/wordrack/internal/authority/authoritytest"
	"github.com/jask/wordrack/internal/game"
	"github.com/jask/wordrack/internal/render"
	"github.com/jask/wordrack/internal/session"
)

func TestRenderNilSnapshotIsLoading(t *testing.T) {
	t.Parallel()
	v := render.Render(nil, game.CenterSelection(game.BoardSize), session.ExchangeState{})
	require.True(t, v.Loading)
	require.Empty(t, v.Board)
	require.Empty(t, v.Rack)
	require.False(t, v.PassVisible)
	require.Equal(t, "Fila 8 · Col 8 · horizontal", v.SelectionLabel)
}

func TestRenderExactlyOneActiveCell(t *testing.T) {
	t.Parallel()
	snap := authoritytest.EmptySnapshot(game.BoardSize)
	sel := game.Selection{Row: 2, Col: 11, Orientation: game.Vertical}

	v := render.Render(&snap, sel, session.ExchangeState{})
	require.False(t, v.Loading)

	active := 0
	for _, row := range v.Board {
		for _, c := range row {
			if c.Active {
				active++
			}
		}
	}
	require.Equal(t, 1, active)
	c, ok := v.ActiveCell()
	require.True(t, ok)
	require.Equal(t, 2, c.Row)
	require.Equal(t, 11, c.Col)
	require.Equal(t, 3, v.SelectionRow)
	require.Equal(t, 12, v.SelectionCol)
	require.Equal(t, "Fila 3 · Col 12 · vertical", v.SelectionLabel)
}

func TestRenderLabelsTilesAndBonuses(t *testing.T) {
	t.Parallel()
	snap := authoritytest.EmptySnapshot(game.BoardSize)
	snap.Board[0][0].Bonus = game.TripleWord
	snap.Board[7][8].Letter = "CH"
	snap.Board[7][8].Bonus = game.DoubleLetter

	v := render.Render(&snap, game.CenterSelection(game.BoardSize), session.ExchangeState{})
	require.Equal(t, "3P", v.Board[0][0].Label)
	require.True(t, v.Board[0][0].Empty())
	require.Equal(t, "2P", v.Board[7][7].Label)
	require.Equal(t, "CH", v.Board[7][8].Label)
	require.Equal(t, game.DoubleLetter, v.Board[7][8].Bonus)
	require.Equal(t, "", v.Board[3][3].Label)
}

func TestRenderRackFollowsExchangeMode(t *testing.T) {
	t.Parallel()
	snap := authoritytest.EmptySnapshot(game.BoardSize)

	v := render.Render(&snap, game.CenterSelection(game.BoardSize), session.ExchangeState{})
	require.Len(t, v.Rack, 7)
	require.Equal(t, "LL", v.Rack[4].Letter)
	for _, tile := range v.Rack {
		require.False(t, tile.Selectable)
		require.False(t, tile.Marked)
	}

	ex := session.NewExchangeModel()
	ex.Enter()
	ex.ToggleMark(4, 7)
	ex.ToggleMark(6, 7)
	v = render.Render(&snap, game.CenterSelection(game.BoardSize), ex.State())
	require.True(t, v.ExchangeActive)
	require.Equal(t, 2, v.MarkedCount)
	require.True(t, v.Rack[0].Selectable)
	require.True(t, v.Rack[4].Marked)
	require.False(t, v.Rack[5].Marked)
}

func TestRenderPassVisibility(t *testing.T) {
	t.Parallel()
	snap := authoritytest.EmptySnapshot(game.BoardSize)
	sel := game.CenterSelection(game.BoardSize)

	tests := []struct {
		name     string
		r        render.Renderer
		bag      int
		expected bool
	}{
		{name: "full bag", r: render.Renderer{}, bag: 86, expected: false},
		{name: "threshold is exclusive", r: render.Renderer{}, bag: 10, expected: false},
		{name: "low bag", r: render.Renderer{}, bag: 9, expected: true},
		{name: "custom threshold", r: render.Renderer{PassThreshold: 40}, bag: 30, expected: true},
		{name: "always", r: render.Renderer{AlwaysAllowPass: true}, bag: 86, expected: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := snap
			s.BagRemaining = tt.bag
			require.Equal(t, tt.expected, tt.r.Render(&s, sel, session.ExchangeState{}).PassVisible)
		})
	}
}

func TestPassVisibilityMatchesSession(t *testing.T) {
	t.Parallel()
	for _, threshold := range []int{0, 5, 10, 40} {
		for _, bag := range []int{0, 4, 9, 10, 30, 86} {
			opts := session.DefaultOptions()
			opts.PassThreshold = threshold
			s := session.New(context.Background(), nil, opts, nil, zerolog.Nop())
			snap := authoritytest.EmptySnapshot(game.BoardSize)
			snap.BagRemaining = bag
			require.NoError(t, s.Store.Apply(snap, nil))

			v := render.Renderer{PassThreshold: threshold}.Render(s.Store.Current(), s.Selection.Current(), s.Exchange.State())
			require.Equal(t, s.PassVisible(), v.PassVisible, "threshold %d bag %d", threshold, bag)
			if threshold == 0 {
				require.Equal(t, bag < game.DefaultPassThreshold, v.PassVisible, "unset threshold, bag %d", bag)
			}
		}
	}
}
