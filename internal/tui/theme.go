package tui

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette
// https://catppuccin.com/palette
// ---------------------------------------------------------------------------

const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorSky      lipgloss.Color = "#89dceb"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorBase     lipgloss.Color = "#1e1e2e"
	colorCrust    lipgloss.Color = "#11111b"
)

const (
	colorBrand   = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorWarning = colorYellow
	colorInfo    = colorTeal
)

// cellWidth fits a digraph tile or a bonus tag with one space either side.
const cellWidth = 4

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorBrand)
	styleMuted  = lipgloss.NewStyle().Foreground(colorOverlay0)
	styleLabel  = lipgloss.NewStyle().Foreground(colorSubtext0)
	styleScore  = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	styleTurn   = lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)
	styleCPU    = lipgloss.NewStyle().Bold(true).Foreground(colorWarning)
	styleHeader = lipgloss.NewStyle().Foreground(colorOverlay0).Width(cellWidth).Align(lipgloss.Center)

	styleCell = lipgloss.NewStyle().
			Width(cellWidth).
			Align(lipgloss.Center).
			Foreground(colorText).
			Background(colorSurface0)
	styleTile = lipgloss.NewStyle().
			Width(cellWidth).
			Align(lipgloss.Center).
			Bold(true).
			Foreground(colorCrust).
			Background(colorYellow)
	styleActive = lipgloss.NewStyle().
			Width(cellWidth).
			Align(lipgloss.Center).
			Bold(true).
			Foreground(colorCrust).
			Background(colorFocus)

	styleRackTile = lipgloss.NewStyle().
			Padding(0, 1).
			MarginRight(1).
			Bold(true).
			Foreground(colorCrust).
			Background(colorYellow)
	styleRackMarked = styleRackTile.Background(colorRed)
	styleRackPick   = styleRackTile.Background(colorSky)

	styleBanner = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 2).
			Foreground(colorCrust).
			Background(colorSuccess)
	styleMessage = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(colorCrust).
			Background(colorInfo)
	styleSummary = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBrand).
			Padding(1, 3).
			Align(lipgloss.Center).
			Foreground(colorText).
			Background(colorBase)
	stylePanel = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)
)

// bonusStyle colours an empty premium square.
func bonusStyle(b string) lipgloss.Style {
	switch b {
	case "3P":
		return styleCell.Background(colorRed).Foreground(colorCrust)
	case "2P":
		return styleCell.Background(colorPeach).Foreground(colorCrust)
	case "3L":
		return styleCell.Background(colorBlue).Foreground(colorCrust)
	case "2L":
		return styleCell.Background(colorSky).Foreground(colorCrust)
	}
	return styleCell
}

// paletteColors lists every colour in use, for tests.
func paletteColors() []lipgloss.Color {
	return []lipgloss.Color{
		colorPink, colorMauve, colorRed, colorPeach, colorYellow, colorGreen,
		colorTeal, colorSky, colorBlue, colorLavender,
		colorText, colorSubtext0, colorOverlay0, colorSurface1, colorSurface0,
		colorBase, colorCrust,
	}
}
