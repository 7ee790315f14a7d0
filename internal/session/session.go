package session

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jask/wordrack/internal/authority"
	"github.com/jask/wordrack/internal/game"
)

const (
	textEmptyWord      = "Escribe una palabra"
	textEmptySelection = "Selecciona fichas"
	textPassed         = "PASASTE TURNO"
	textExchanged      = "Fichas cambiadas"
	textOpponentSwap   = "CPU CAMBIÓ FICHAS"
	textRejected       = "Jugada inválida"
	textTransport      = "Error de conexión, intenta de nuevo"
	textRestartFailed  = "No se pudo reiniciar la partida"
)

// Pacing delays the opponent's turn so the player's result stays readable.
type Pacing struct {
	AfterPlay     time.Duration
	AfterPass     time.Duration
	AfterExchange time.Duration
}

// Options tune timing and presentation rules of a session.
type Options struct {
	Pacing          Pacing
	Watchdog        time.Duration
	AnnouncementTTL time.Duration
	MessageTTL      time.Duration
	PassThreshold   int
	AlwaysAllowPass bool
	BoardSize       int
	Now             func() time.Time
}

func DefaultOptions() Options {
	return Options{
		Pacing: Pacing{
			AfterPlay:     1500 * time.Millisecond,
			AfterPass:     time.Second,
			AfterExchange: time.Second,
		},
		Watchdog:        15 * time.Second,
		AnnouncementTTL: 2500 * time.Millisecond,
		MessageTTL:      2 * time.Second,
		PassThreshold:   10,
		BoardSize:       game.BoardSize,
		Now:             time.Now,
	}
}

// ticket identifies one authority request (or one scheduled opponent turn).
// Results carrying a ticket that is no longer current are dropped.
type ticket struct {
	epoch uint64
	seq   uint64
}

type snapshotMsg struct {
	ticket
	snap game.Snapshot
	err  error
}

type playResultMsg struct {
	ticket
	word string
	res  authority.PlayResult
	err  error
}

type passResultMsg struct {
	ticket
	res authority.PassResult
	err error
}

type exchangeResultMsg struct {
	ticket
	letters []string
	err     error
}

type opponentDueMsg struct{ ticket }

type opponentResultMsg struct {
	ticket
	move authority.OpponentMove
	err  error
}

type restartResultMsg struct {
	ticket
	err error
}

type watchdogMsg struct{ ticket }

type recordFailedMsg struct{ err error }

// RecordedMsg reports that ev reached the Recorder.
type RecordedMsg struct{ Event Event }

// WordAcceptedMsg is emitted when the authority accepts a word; the owner of
// the word field clears it.
type WordAcceptedMsg struct {
	Word   string
	Points int
}

// Session is the client's game state: the last snapshot, the selection, the
// exchange mode, notifications and the turn cycle. All methods must be called
// from the program's update loop.
type Session struct {
	ctx  context.Context
	auth authority.Authority
	rec  Recorder
	log  zerolog.Logger
	opts Options

	Store     *Store
	Selection *SelectionModel
	Exchange  *ExchangeModel
	Notices   *Notifications

	cycle       cycle
	pending     MoveKind
	epoch       uint64
	seq         uint64
	outstanding uint64
	due         uint64
	summary     *GameSummary
}

// New builds a session in the Idle state. rec may be nil.
func New(ctx context.Context, auth authority.Authority, opts Options, rec Recorder, log zerolog.Logger) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.BoardSize <= 0 {
		opts.BoardSize = game.BoardSize
	}
	s := &Session{
		ctx:       ctx,
		auth:      auth,
		rec:       rec,
		log:       log.With().Str("component", "session").Logger(),
		opts:      opts,
		Store:     &Store{},
		Selection: NewSelectionModel(opts.BoardSize),
		Exchange:  NewExchangeModel(),
		Notices:   NewNotifications(opts.Now, opts.AnnouncementTTL, opts.MessageTTL),
	}
	s.Store.OnChange(func(prev, next *game.Snapshot) {
		s.Selection.Resize(next.Rows(), next.Cols())
		if prev == nil || !slices.Equal(prev.Rack, next.Rack) {
			s.Exchange.ClearMarks()
		}
	})
	return s
}

// Init fetches the first snapshot.
func (s *Session) Init() tea.Cmd {
	if !s.to(phaseSyncing) {
		return nil
	}
	return tea.Batch(s.sync(), s.record(Event{Kind: EventGameStarted}))
}

func (s *Session) State() TurnState { return s.cycle.phase.state() }

// OpponentThinking reports whether the opponent's move is being requested.
func (s *Session) OpponentThinking() bool { return s.cycle.phase == phaseOpponentRequest }

// Summary returns the final result once the game is over.
func (s *Session) Summary() *GameSummary { return s.summary }

func (s *Session) Epoch() uint64 { return s.epoch }

// PassVisible reports whether passing is offered: only when the bag runs low,
// unless configured otherwise.
func (s *Session) PassVisible() bool {
	snap := s.Store.Current()
	if snap == nil {
		return false
	}
	return s.opts.AlwaysAllowPass || snap.LowStock(s.opts.PassThreshold)
}

// PlayWord submits word at the current selection.
func (s *Session) PlayWord(word string) (tea.Cmd, error) {
	if s.cycle.phase != phaseIdle {
		return nil, ErrBusy
	}
	word = strings.TrimSpace(word)
	if word == "" {
		return s.Notices.Message(textEmptyWord), ErrEmptyInput
	}
	sel := s.Selection.Current()
	req := authority.PlayRequest{Word: word, Row: sel.Row, Col: sel.Col, Orientation: sel.Orientation}
	s.to(phasePlayerRequest)
	s.pending = MoveWord
	t := s.issue()
	s.log.Info().Str("word", word).Int("row", sel.Row).Int("col", sel.Col).Str("dir", string(sel.Orientation)).Msg("play word")

	auth, ctx := s.auth, s.ctx
	return tea.Batch(func() tea.Msg {
		res, err := auth.Play(ctx, req)
		return playResultMsg{ticket: t, word: word, res: res, err: err}
	}, s.watchdog(t)), nil
}

// PassTurn gives up the turn.
func (s *Session) PassTurn() (tea.Cmd, error) {
	if s.cycle.phase != phaseIdle {
		return nil, ErrBusy
	}
	if !s.PassVisible() {
		return nil, ErrPassHidden
	}
	s.to(phasePlayerRequest)
	s.pending = MovePass
	t := s.issue()
	s.log.Info().Msg("pass turn")

	auth, ctx := s.auth, s.ctx
	return tea.Batch(func() tea.Msg {
		res, err := auth.Pass(ctx)
		return passResultMsg{ticket: t, res: res, err: err}
	}, s.watchdog(t)), nil
}

// ConfirmExchange sends the marked rack tiles back to the bag.
func (s *Session) ConfirmExchange() (tea.Cmd, error) {
	if s.cycle.phase != phaseIdle {
		return nil, ErrBusy
	}
	snap := s.Store.Current()
	if !s.Exchange.Active() || s.Exchange.Count() == 0 || snap == nil {
		return s.Notices.Message(textEmptySelection), ErrEmptySelection
	}
	letters := s.Exchange.Letters(snap.Rack)
	if len(letters) == 0 {
		return s.Notices.Message(textEmptySelection), ErrEmptySelection
	}
	s.to(phasePlayerRequest)
	s.pending = MoveExchange
	t := s.issue()
	s.log.Info().Strs("letters", letters).Msg("exchange tiles")

	auth, ctx := s.auth, s.ctx
	return tea.Batch(func() tea.Msg {
		err := auth.Exchange(ctx, letters)
		return exchangeResultMsg{ticket: t, letters: letters, err: err}
	}, s.watchdog(t)), nil
}

// Restart asks the authority for a new game. Only valid after the game ended.
func (s *Session) Restart() (tea.Cmd, error) {
	if s.cycle.phase != phaseGameOver {
		return nil, ErrNotGameOver
	}
	s.to(phaseRestarting)
	t := s.issue()
	s.log.Info().Msg("restart game")

	auth, ctx := s.auth, s.ctx
	return tea.Batch(func() tea.Msg {
		return restartResultMsg{ticket: t, err: auth.Restart(ctx)}
	}, s.watchdog(t)), nil
}

// Refresh re-reads the authority's state outside of a turn.
func (s *Session) Refresh() (tea.Cmd, error) {
	if s.cycle.phase != phaseIdle {
		return nil, ErrBusy
	}
	s.to(phaseSyncing)
	return s.sync(), nil
}

// Update applies a message produced by one of the session's commands. It
// reports false for messages the session does not own.
func (s *Session) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch m := msg.(type) {
	case snapshotMsg:
		return s.onSnapshot(m), true
	case playResultMsg:
		return s.onPlay(m), true
	case passResultMsg:
		return s.onPass(m), true
	case exchangeResultMsg:
		return s.onExchange(m), true
	case opponentDueMsg:
		return s.onOpponentDue(m), true
	case opponentResultMsg:
		return s.onOpponent(m), true
	case restartResultMsg:
		return s.onRestart(m), true
	case watchdogMsg:
		return s.onWatchdog(m), true
	case ExpireMsg:
		s.Notices.Expire(m)
		return nil, true
	case recordFailedMsg:
		s.log.Warn().Err(m.err).Msg("history write failed")
		return nil, true
	}
	return nil, false
}

func (s *Session) onSnapshot(m snapshotMsg) tea.Cmd {
	if !s.settle(m.ticket) {
		return nil
	}
	if err := s.Store.Apply(m.snap, m.err); err != nil {
		return s.abandon("refresh", err, textTransport)
	}
	switch s.cycle.phase {
	case phaseSyncing, phaseOpponentRefresh:
		s.to(phaseIdle)
	case phasePlayerRefresh:
		return s.scheduleOpponent()
	}
	return nil
}

func (s *Session) onPlay(m playResultMsg) tea.Cmd {
	if !s.settle(m.ticket) {
		return nil
	}
	if m.err != nil {
		return s.abandon("play", m.err, textTransport)
	}
	if !m.res.Accepted() {
		s.to(phaseIdle)
		text := strings.TrimSpace(m.res.Message)
		if text == "" {
			text = textRejected
		}
		s.log.Info().Str("word", m.word).Str("reason", text).Msg("word rejected")
		return s.Notices.Message(text)
	}

	s.to(phasePlayerRefresh)
	word, points := m.word, m.res.Points
	return tea.Batch(
		s.Notices.Announcement(fmt.Sprintf("¡BIEN! +%d PTS", points)),
		func() tea.Msg { return WordAcceptedMsg{Word: word, Points: points} },
		s.sync(),
		s.record(Event{Kind: EventMove, Actor: ActorPlayer, Move: MoveWord, Word: word, Points: points}),
	)
}

func (s *Session) onPass(m passResultMsg) tea.Cmd {
	if !s.settle(m.ticket) {
		return nil
	}
	if m.err != nil {
		return s.abandon("pass", m.err, textTransport)
	}
	if m.res.GameOver() {
		s.to(phaseGameOver)
		s.Exchange.Exit()
		s.summary = &GameSummary{Winner: m.res.Winner, UserScore: m.res.UserScore, OpponentScore: m.res.OpponentScore}
		s.Notices.Summary(fmt.Sprintf("EL GANADOR ES: %s\nTú: %d - CPU: %d", m.res.Winner, m.res.UserScore, m.res.OpponentScore))
		s.log.Info().Str("winner", m.res.Winner).Int("user", m.res.UserScore).Int("cpu", m.res.OpponentScore).Msg("game over")
		return s.record(Event{
			Kind:          EventGameOver,
			Actor:         ActorPlayer,
			Move:          MovePass,
			Winner:        m.res.Winner,
			UserScore:     m.res.UserScore,
			OpponentScore: m.res.OpponentScore,
		})
	}
	return tea.Batch(
		s.Notices.Announcement(textPassed),
		s.scheduleOpponent(),
		s.record(Event{Kind: EventMove, Actor: ActorPlayer, Move: MovePass}),
	)
}

func (s *Session) onExchange(m exchangeResultMsg) tea.Cmd {
	if !s.settle(m.ticket) {
		return nil
	}
	if m.err != nil {
		// Exchange mode and marks stay so the player can retry.
		return s.abandon("exchange", m.err, textTransport)
	}
	s.Exchange.Exit()
	s.to(phasePlayerRefresh)
	return tea.Batch(
		s.Notices.Message(textExchanged),
		s.sync(),
		s.record(Event{Kind: EventMove, Actor: ActorPlayer, Move: MoveExchange, Letters: m.letters}),
	)
}

func (s *Session) onOpponentDue(m opponentDueMsg) tea.Cmd {
	if m.epoch != s.epoch || m.seq != s.due || s.cycle.phase != phaseOpponentDelay {
		s.log.Debug().Uint64("epoch", m.epoch).Uint64("seq", m.seq).Msg("dropping stale opponent timer")
		return nil
	}
	s.due = 0
	s.to(phaseOpponentRequest)
	t := s.issue()

	auth, ctx := s.auth, s.ctx
	return tea.Batch(func() tea.Msg {
		mv, err := auth.OpponentTurn(ctx)
		return opponentResultMsg{ticket: t, move: mv, err: err}
	}, s.watchdog(t))
}

func (s *Session) onOpponent(m opponentResultMsg) tea.Cmd {
	if !s.settle(m.ticket) {
		return nil
	}
	if m.err != nil {
		return s.abandon("opponent", m.err, textTransport)
	}
	text := textOpponentSwap
	ev := Event{Kind: EventMove, Actor: ActorOpponent, Move: MoveExchange}
	if m.move.PlayedWord() {
		text = fmt.Sprintf("CPU JUGÓ: %s (+%d)", m.move.Word, m.move.Points)
		ev.Move, ev.Word, ev.Points = MoveWord, m.move.Word, m.move.Points
	}
	s.to(phaseOpponentRefresh)
	return tea.Batch(s.Notices.Announcement(text), s.sync(), s.record(ev))
}

func (s *Session) onRestart(m restartResultMsg) tea.Cmd {
	if !s.settle(m.ticket) {
		return nil
	}
	if m.err != nil {
		return s.abandon("restart", m.err, textRestartFailed)
	}
	s.epoch++
	s.Notices.Reset()
	s.Selection.Reset()
	s.Exchange.Exit()
	s.summary = nil
	s.pending = ""
	s.due = 0
	s.to(phaseSyncing)
	return tea.Batch(s.sync(), s.record(Event{Kind: EventGameStarted}))
}

func (s *Session) onWatchdog(m watchdogMsg) tea.Cmd {
	if !s.live(m.ticket) {
		return nil
	}
	err := fmt.Errorf("%w: no reply within %s", authority.ErrTransport, s.opts.Watchdog)
	text := textTransport
	if s.cycle.phase == phaseRestarting {
		text = textRestartFailed
	}
	// A move may have landed even though its reply never arrived.
	unsure := s.cycle.phase == phasePlayerRequest || s.cycle.phase == phaseOpponentRequest
	cmd := s.abandon("watchdog", err, text)
	if unsure && s.to(phaseSyncing) {
		return tea.Batch(cmd, s.sync())
	}
	return cmd
}

// abandon gives up on the outstanding request and moves the cycle somewhere
// the player can act again. A failed refresh after a confirmed player move
// still hands the turn to the opponent.
func (s *Session) abandon(op string, err error, text string) tea.Cmd {
	s.outstanding = 0
	s.log.Warn().Err(err).Str("op", op).Stringer("phase", s.cycle.phase).Msg("authority request failed")
	notice := s.Notices.Message(text)
	switch s.cycle.phase {
	case phasePlayerRefresh:
		return tea.Batch(notice, s.scheduleOpponent())
	case phaseRestarting:
		s.to(phaseGameOver)
	default:
		s.to(phaseIdle)
	}
	return notice
}

func (s *Session) scheduleOpponent() tea.Cmd {
	if !s.to(phaseOpponentDelay) {
		return nil
	}
	var delay time.Duration
	switch s.pending {
	case MovePass:
		delay = s.opts.Pacing.AfterPass
	case MoveExchange:
		delay = s.opts.Pacing.AfterExchange
	default:
		delay = s.opts.Pacing.AfterPlay
	}
	s.seq++
	s.due = s.seq
	t := ticket{epoch: s.epoch, seq: s.seq}
	return tea.Tick(delay, func(time.Time) tea.Msg { return opponentDueMsg{t} })
}

func (s *Session) sync() tea.Cmd {
	t := s.issue()
	return tea.Batch(s.Store.Refresh(s.ctx, s.auth, t), s.watchdog(t))
}

func (s *Session) issue() ticket {
	s.seq++
	s.outstanding = s.seq
	return ticket{epoch: s.epoch, seq: s.seq}
}

func (s *Session) live(t ticket) bool {
	return t.seq != 0 && t.epoch == s.epoch && t.seq == s.outstanding
}

func (s *Session) settle(t ticket) bool {
	if !s.live(t) {
		s.log.Debug().Uint64("epoch", t.epoch).Uint64("seq", t.seq).Msg("dropping stale authority reply")
		return false
	}
	s.outstanding = 0
	return true
}

func (s *Session) watchdog(t ticket) tea.Cmd {
	if s.opts.Watchdog <= 0 {
		return nil
	}
	return tea.Tick(s.opts.Watchdog, func(time.Time) tea.Msg { return watchdogMsg{t} })
}

func (s *Session) to(next phase) bool {
	from := s.cycle.phase
	if err := s.cycle.to(next); err != nil {
		s.log.Error().Err(err).Msg("rejected turn transition")
		return false
	}
	s.log.Debug().Stringer("from", from).Stringer("to", next).Msg("turn transition")
	return true
}

func (s *Session) record(ev Event) tea.Cmd {
	if s.rec == nil {
		return nil
	}
	if ev.At.IsZero() {
		ev.At = s.opts.Now()
	}
	rec, ctx := s.rec, s.ctx
	return func() tea.Msg {
		if err := rec.Record(ctx, ev); err != nil {
			return recordFailedMsg{err: err}
		}
		return RecordedMsg{Event: ev}
	}
}
