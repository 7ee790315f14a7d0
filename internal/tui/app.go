package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jask/wordrack/internal/game"
	"github.com/jask/wordrack/internal/history"
	"github.com/jask/wordrack/internal/render"
	"github.com/jask/wordrack/internal/session"
)

// StatsSource provides the running record shown at the end of a game.
type StatsSource interface {
	Stats(ctx context.Context) (history.Stats, error)
}

type Options struct {
	Renderer render.Renderer
	Keys     *KeyRegistry
	// Stats may be nil when the journal is disabled.
	Stats StatsSource
	Log   zerolog.Logger
}

// App is the Bubble Tea model: it turns keys into session intents and paints
// the session through the renderer.
type App struct {
	ctx      context.Context
	session  *session.Session
	renderer render.Renderer
	keys     *KeyRegistry
	help     help.Model
	input    textinput.Model
	stats    StatsSource
	record   *history.Stats
	log      zerolog.Logger

	width  int
	height int
}

type statsMsg struct{ stats history.Stats }

type errMsg struct{ error }

func New(ctx context.Context, s *session.Session, opts Options) *App {
	keys := opts.Keys
	if keys == nil {
		keys = NewKeyRegistry()
	}
	in := textinput.New()
	in.Prompt = "palabra › "
	in.Placeholder = "escribe y pulsa enter, o :comando"
	in.CharLimit = game.BoardSize
	in.Focus()

	return &App{
		ctx:      ctx,
		session:  s,
		renderer: opts.Renderer,
		keys:     keys,
		help:     help.New(),
		input:    in,
		stats:    opts.Stats,
		log:      opts.Log.With().Str("component", "tui").Logger(),
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.session.Init(), a.loadStats())
}

func (a *App) loadStats() tea.Cmd {
	if a.stats == nil {
		return nil
	}
	src, ctx := a.stats, a.ctx
	return func() tea.Msg {
		st, err := src.Stats(ctx)
		if err != nil {
			return errMsg{fmt.Errorf("load stats: %w", err)}
		}
		return statsMsg{stats: st}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.help.Width = msg.Width
		return a, nil
	case tea.KeyMsg:
		return a, a.handleKey(msg)
	case session.WordAcceptedMsg:
		a.input.SetValue("")
		return a, nil
	case session.RecordedMsg:
		if msg.Event.Kind == session.EventGameOver {
			return a, a.loadStats()
		}
		return a, nil
	case statsMsg:
		st := msg.stats
		a.record = &st
		return a, nil
	case errMsg:
		a.log.Warn().Err(msg.error).Msg("background task failed")
		return a, nil
	}

	if cmd, ok := a.session.Update(msg); ok {
		return a, cmd
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// scope picks the key scope for the current state.
func (a *App) scope() string {
	switch {
	case a.session.State() == session.GameOver:
		return scopeGameOver
	case a.session.Exchange.Active():
		return scopeExchange
	}
	return scopeBoard
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	scope := a.scope()
	b := a.keys.Lookup(msg.String(), scope)
	if b == nil {
		if scope != scopeBoard {
			return nil
		}
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return cmd
	}

	sel := a.session.Selection
	switch b.Action {
	case actionQuit:
		return tea.Quit
	case actionUp:
		sel.Move(-1, 0)
	case actionDown:
		sel.Move(1, 0)
	case actionLeft:
		sel.Move(0, -1)
	case actionRight:
		sel.Move(0, 1)
	case actionOrientation:
		sel.ToggleOrientation()
	case actionSubmit:
		return a.submit()
	case actionPass:
		return a.intent("pass", a.session.PassTurn)
	case actionExchange:
		a.session.Exchange.Enter()
	case actionRefresh:
		return a.intent("refresh", a.session.Refresh)
	case actionClearInput:
		a.input.SetValue("")
	case actionMark:
		slot := slices.Index(b.Keys, normalizeKeyName(msg.String()))
		if snap := a.session.Store.Current(); snap != nil {
			a.session.Exchange.ToggleMark(slot, len(snap.Rack))
		}
	case actionConfirm:
		return a.intent("exchange", a.session.ConfirmExchange)
	case actionCancelExchange:
		a.session.Exchange.Exit()
	case actionRestart:
		return a.intent("restart", a.session.Restart)
	}
	return nil
}

func (a *App) submit() tea.Cmd {
	value := a.input.Value()
	if isCommand(value) {
		a.input.SetValue("")
		return a.runCommand(value)
	}
	return a.intent("play", func() (tea.Cmd, error) { return a.session.PlayWord(value) })
}

func (a *App) runCommand(input string) tea.Cmd {
	c, suggestion, ok := parseCommand(input)
	if !ok {
		return a.session.Notices.Message(unknownCommandText(input, suggestion))
	}
	switch c.ID {
	case cmdPass:
		return a.intent("pass", a.session.PassTurn)
	case cmdExchange:
		a.session.Exchange.Toggle()
	case cmdRestart:
		return a.intent("restart", a.session.Restart)
	case cmdRefresh:
		return a.intent("refresh", a.session.Refresh)
	case cmdHorizontal:
		a.session.Selection.SetOrientation(game.Horizontal)
	case cmdVertical:
		a.session.Selection.SetOrientation(game.Vertical)
	case cmdQuit:
		return tea.Quit
	}
	return nil
}

// intent runs a session action and turns refusals into feedback. Busy
// refusals are silent: the turn in flight already shows progress.
func (a *App) intent(name string, fn func() (tea.Cmd, error)) tea.Cmd {
	cmd, err := fn()
	switch {
	case err == nil, session.IsInputError(err):
		return cmd
	case errors.Is(err, session.ErrBusy):
		a.log.Debug().Str("intent", name).Stringer("state", a.session.State()).Msg("ignored while busy")
		return nil
	case errors.Is(err, session.ErrPassHidden):
		return a.session.Notices.Message(fmt.Sprintf("Solo puedes pasar con menos de %d fichas en la bolsa", a.passThreshold()))
	case errors.Is(err, session.ErrNotGameOver):
		return a.session.Notices.Message("La partida sigue en curso")
	}
	a.log.Error().Err(err).Str("intent", name).Msg("intent failed")
	return cmd
}

func (a *App) passThreshold() int {
	if a.renderer.PassThreshold > 0 {
		return a.renderer.PassThreshold
	}
	return render.DefaultPassThreshold
}
