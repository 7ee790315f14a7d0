package session

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jask/wordrack/internal/authority"
	"github.com/jask/wordrack/internal/authority/authoritytest"
)

const textWinnerPrefix = "EL GANADOR ES: "

func testOptions() Options {
	opts := DefaultOptions()
	opts.Pacing = Pacing{AfterPlay: 10 * time.Millisecond, AfterPass: 5 * time.Millisecond, AfterExchange: 5 * time.Millisecond}
	opts.Watchdog = 2 * time.Second
	opts.AnnouncementTTL = 20 * time.Millisecond
	opts.MessageTTL = 20 * time.Millisecond
	return opts
}

// harness runs session commands in goroutines and feeds their messages back
// one at a time, the way the program loop does.
type harness struct {
	t    *testing.T
	s    *Session
	msgs chan tea.Msg
	done chan struct{}

	seen     []string
	accepted []WordAcceptedMsg
}

func newHarness(t *testing.T, auth authority.Authority, opts Options, rec Recorder) *harness {
	t.Helper()
	h := &harness{
		t:    t,
		s:    New(context.Background(), auth, opts, rec, zerolog.Nop()),
		msgs: make(chan tea.Msg, 64),
		done: make(chan struct{}),
	}
	t.Cleanup(func() { close(h.done) })
	return h
}

// newServerHarness starts a scripted authority and loads the first snapshot.
func newServerHarness(t *testing.T, opts Options) (*harness, *authoritytest.Server) {
	t.Helper()
	srv := authoritytest.New()
	t.Cleanup(srv.Close)
	h := newHarness(t, authority.NewClient(srv.URL, time.Second), opts, nil)
	return h, srv
}

func (h *harness) start() {
	h.t.Helper()
	h.run(h.s.Init())
	h.until(func() bool { return h.s.State() == Idle })
}

func (h *harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	go func() {
		msg := cmd()
		select {
		case h.msgs <- msg:
		case <-h.done:
		}
	}()
}

func (h *harness) dispatch(msg tea.Msg) {
	switch m := msg.(type) {
	case nil:
	case tea.BatchMsg:
		for _, cmd := range m {
			h.run(cmd)
		}
	case WordAcceptedMsg:
		h.accepted = append(h.accepted, m)
	default:
		cmd, _ := h.s.Update(m)
		h.run(cmd)
	}
	for _, n := range h.s.Notices.Active() {
		if !slices.Contains(h.seen, n.Text) {
			h.seen = append(h.seen, n.Text)
		}
	}
}

// until processes messages until cond holds, failing after two seconds.
func (h *harness) until(cond func() bool) {
	h.t.Helper()
	deadline := time.After(2 * time.Second)
	for !cond() {
		select {
		case msg := <-h.msgs:
			h.dispatch(msg)
		case <-deadline:
			h.t.Fatalf("condition not reached; state %s phase %s", h.s.State(), h.s.cycle.phase)
		}
	}
}

// drain keeps processing messages for d.
func (h *harness) drain(d time.Duration) {
	h.t.Helper()
	deadline := time.After(d)
	for {
		select {
		case msg := <-h.msgs:
			h.dispatch(msg)
		case <-deadline:
			return
		}
	}
}

func (h *harness) idle() bool { return h.s.State() == Idle }

func (h *harness) saw(text string) bool { return slices.Contains(h.seen, text) }

type memRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *memRecorder) Record(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *memRecorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// failingOpponent wraps an authority whose opponent endpoint is unreachable.
type failingOpponent struct{ authority.Authority }

func (failingOpponent) OpponentTurn(context.Context) (authority.OpponentMove, error) {
	return authority.OpponentMove{}, authority.ErrTransport
}
