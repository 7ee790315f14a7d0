package session

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/wordrack/internal/authority"
	"github.com/jask/wordrack/internal/game"
)

// Store holds the last snapshot fetched from the authority.
type Store struct {
	current   *game.Snapshot
	listeners []func(prev, next *game.Snapshot)
}

// Current returns the stored snapshot, or nil before the first fetch.
func (s *Store) Current() *game.Snapshot { return s.current }

// OnChange registers fn to run after every successful replacement.
func (s *Store) OnChange(fn func(prev, next *game.Snapshot)) {
	s.listeners = append(s.listeners, fn)
}

// Refresh returns a command fetching the authority's state. The result comes
// back as a snapshotMsg tagged with t and must be passed to Apply.
func (s *Store) Refresh(ctx context.Context, a authority.Authority, t ticket) tea.Cmd {
	return func() tea.Msg {
		snap, err := a.State(ctx)
		return snapshotMsg{ticket: t, snap: snap, err: err}
	}
}

// Apply installs snap, or keeps the previous snapshot and reports
// ErrRefreshFailed when fetchErr is set.
func (s *Store) Apply(snap game.Snapshot, fetchErr error) error {
	if fetchErr != nil {
		return fmt.Errorf("%w: %w", ErrRefreshFailed, fetchErr)
	}
	prev, next := s.current, &snap
	s.current = next
	for _, fn := range s.listeners {
		fn(prev, next)
	}
	return nil
}
