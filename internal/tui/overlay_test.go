package tui

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestOverlayAtReplacesCells(t *testing.T) {
	t.Parallel()
	base := "..........\n..........\n.........."
	out := overlayAt(base, "AB\nCD", 3, 1, 10)
	require.Equal(t, "..........\n...AB.....\n...CD.....", out)
}

func TestOverlayAtPadsShortLines(t *testing.T) {
	t.Parallel()
	out := overlayAt("..", "X", 4, 0, 6)
	require.Equal(t, "..  X ", out)
}

func TestOverlayCenterAndTop(t *testing.T) {
	t.Parallel()
	base := "-----\n-----\n-----"
	require.Equal(t, "-----\n--#--\n-----", overlayCenter(base, "#"))
	require.Equal(t, "-=-=-\n-----\n-----", overlayTop(base, "=-=", 0))
}

func TestOverlayIgnoresRowsOutside(t *testing.T) {
	t.Parallel()
	require.Equal(t, "abc", overlayAt("abc", "Z", 0, 5, 3))
}

func TestTruncateAndPad(t *testing.T) {
	t.Parallel()
	require.Equal(t, "", truncate("hola", 0))
	require.Equal(t, 3, ansi.StringWidth(truncate("hola mundo", 3)))
	require.Equal(t, "ab  ", padRight("ab", 4))
	require.Equal(t, 4, maxLineWidth(splitLines("a\nabcd\nab")))
}

func TestPaletteIsHex(t *testing.T) {
	t.Parallel()
	for _, c := range paletteColors() {
		require.Regexp(t, `^#[0-9a-f]{6}$`, string(c))
	}
}
