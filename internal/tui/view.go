package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/wordrack/internal/render"
	"github.com/jask/wordrack/internal/session"
)

func (a *App) View() string {
	v := a.renderer.Render(a.session.Store.Current(), a.session.Selection.Current(), a.session.Exchange.State())

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		styleTitle.Render("WORDRACK"),
		"   ",
		styleLabel.Render("TURNO: "),
		a.turnLabel(),
	)

	var body string
	if v.Loading {
		body = styleMuted.Render("Cargando partida…")
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, paintBoard(v), "  ", a.sidePanel(v))
	}

	lines := []string{header, "", body, "", paintRack(v), a.inputLine(v), a.helpLine()}
	screen := lipgloss.JoinVertical(lipgloss.Left, lines...)

	if banner := a.notices(); banner != "" {
		screen = overlayTop(screen, banner, 2)
	}
	if pinned, ok := a.session.Notices.Pinned(); ok {
		screen = overlayCenter(screen, a.summaryBox(pinned.Text))
	}
	if a.width > 0 {
		screen = clipLines(screen, a.width)
	}
	return screen
}

func (a *App) turnLabel() string {
	switch {
	case a.session.State() == session.GameOver:
		return styleMuted.Render("FIN")
	case a.session.OpponentThinking():
		return styleCPU.Render("CPU...")
	}
	return styleTurn.Render("TÚ")
}

func paintBoard(v render.View) string {
	if len(v.Board) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("   ")
	for c := range v.Board[0] {
		b.WriteString(styleHeader.Render(fmt.Sprintf("%d", c+1)))
	}
	for r, row := range v.Board {
		b.WriteString("\n")
		b.WriteString(styleMuted.Render(fmt.Sprintf("%2d ", r+1)))
		for _, cell := range row {
			b.WriteString(paintCell(cell))
		}
	}
	return b.String()
}

func paintCell(c render.CellView) string {
	switch {
	case c.Active:
		label := c.Label
		if c.Empty() {
			label = "·"
		}
		return styleActive.Render(label)
	case !c.Empty():
		return styleTile.Render(c.Label)
	}
	return bonusStyle(c.Label).Render(c.Label)
}

func (a *App) sidePanel(v render.View) string {
	rows := []string{
		styleLabel.Render("TÚ   ") + styleScore.Render(fmt.Sprintf("%4d", v.UserScore)),
		styleLabel.Render("CPU  ") + styleScore.Render(fmt.Sprintf("%4d", v.OpponentScore)),
		styleLabel.Render("BOLSA ") + styleScore.Render(fmt.Sprintf("%3d", v.BagRemaining)),
		"",
		styleLabel.Render(v.SelectionLabel),
	}
	if v.PassVisible {
		rows = append(rows, "", styleCPU.Render("Puedes pasar turno"))
	}
	if a.record != nil {
		rows = append(rows, "", styleMuted.Render("Historial "+a.record.Record()))
	}
	return stylePanel.Render(strings.Join(rows, "\n"))
}

func paintRack(v render.View) string {
	tiles := make([]string, 0, len(v.Rack))
	for _, t := range v.Rack {
		style := styleRackTile
		switch {
		case t.Marked:
			style = styleRackMarked
		case t.Selectable:
			style = styleRackPick
		}
		label := t.Letter
		if t.Selectable {
			label = fmt.Sprintf("%d %s", t.Slot+1, t.Letter)
		}
		tiles = append(tiles, style.Render(label))
	}
	return styleLabel.Render("Atril ") + lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}

func (a *App) inputLine(v render.View) string {
	if v.ExchangeActive {
		return styleCPU.Render(fmt.Sprintf("Cambio de fichas: %d marcadas · enter confirma · esc cancela", v.MarkedCount))
	}
	if a.session.State() == session.GameOver {
		return styleMuted.Render("Partida terminada")
	}
	return a.input.View()
}

func (a *App) helpLine() string {
	return a.help.ShortHelpView(a.keys.HelpBindings(a.scope()))
}

// notices stacks live announcements and messages, oldest first.
func (a *App) notices() string {
	var out []string
	for _, n := range a.session.Notices.Active() {
		switch n.Kind {
		case session.KindAnnouncement:
			out = append(out, styleBanner.Render(n.Text))
		case session.KindMessage:
			out = append(out, styleMessage.Render(n.Text))
		}
	}
	return strings.Join(out, "\n")
}

func (a *App) summaryBox(text string) string {
	lines := []string{styleTitle.Render("FIN DE LA PARTIDA"), "", text}
	if a.record != nil {
		r := a.record
		lines = append(lines, "", styleMuted.Render(fmt.Sprintf("Historial %s · mejor palabra %s (%d)", r.Record(), bestWord(r.BestWord), r.BestPoints)))
	}
	lines = append(lines, "", styleLabel.Render("enter: nueva partida · ctrl+c: salir"))
	return styleSummary.Render(strings.Join(lines, "\n"))
}

func bestWord(w string) string {
	if w == "" {
		return "—"
	}
	return w
}

func clipLines(s string, width int) string {
	lines := splitLines(s)
	for i, l := range lines {
		lines[i] = truncate(l, width)
	}
	return strings.Join(lines, "\n")
}
