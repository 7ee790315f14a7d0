package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// overlayAt composites overlay on top of base at column x, row y. Both are
// treated as line grids; width pads base lines so overlays past their end
// still land in place.
func overlayAt(base, overlay string, x, y, width int) string {
	baseLines := splitLines(base)
	overlayLines := splitLines(overlay)
	overlayWidth := maxLineWidth(overlayLines)
	for i, line := range overlayLines {
		row := y + i
		if row < 0 || row >= len(baseLines) {
			continue
		}
		target := padRight(baseLines[row], width)
		left := ansi.Truncate(target, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}
		top := padRight(line, overlayWidth)
		right := ansi.TruncateLeft(target, x+ansi.StringWidth(top), "")
		baseLines[row] = left + top + right
	}
	return strings.Join(baseLines, "\n")
}

// overlayCenter places overlay in the middle of base.
func overlayCenter(base, overlay string) string {
	lines := splitLines(base)
	width := maxLineWidth(lines)
	ol := splitLines(overlay)
	x := max(0, (width-maxLineWidth(ol))/2)
	y := max(0, (len(lines)-len(ol))/2)
	return overlayAt(base, overlay, x, y, width)
}

// overlayTop places overlay centred horizontally on row y.
func overlayTop(base, overlay string, y int) string {
	width := maxLineWidth(splitLines(base))
	x := max(0, (width-maxLineWidth(splitLines(overlay)))/2)
	return overlayAt(base, overlay, x, y, width)
}

func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

func maxLineWidth(lines []string) int {
	m := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > m {
			m = w
		}
	}
	return m
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// truncate shortens s to width cells, appending an ellipsis when cut.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
