package session

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// Kind distinguishes how a notification is shown and whether it expires.
type Kind int

const (
	KindAnnouncement Kind = iota // move results, banner style
	KindMessage                  // short status and error line
	KindSummary                  // end of game; never expires
)

// Notification is one transient announcement.
type Notification struct {
	ID        string
	Text      string
	Kind      Kind
	CreatedAt time.Time
	TTL       time.Duration
	Epoch     uint64
}

// ExpireMsg removes the notification with ID once its TTL elapses.
type ExpireMsg struct {
	ID    string
	Epoch uint64
}

// Notifications schedules auto-dismissing announcements. Each one owns its
// timer; adding a notification never shortens another.
type Notifications struct {
	items       []Notification
	epoch       uint64
	now         func() time.Time
	announceTTL time.Duration
	messageTTL  time.Duration
}

func NewNotifications(now func() time.Time, announceTTL, messageTTL time.Duration) *Notifications {
	if now == nil {
		now = time.Now
	}
	return &Notifications{now: now, announceTTL: announceTTL, messageTTL: messageTTL}
}

// Announce shows text for ttl and returns the command that expires it.
func (q *Notifications) Announce(text string, ttl time.Duration) tea.Cmd {
	return q.add(KindAnnouncement, text, ttl)
}

// Announcement shows a banner for the configured announcement TTL.
func (q *Notifications) Announcement(text string) tea.Cmd {
	return q.add(KindAnnouncement, text, q.announceTTL)
}

// Message shows a status line for the configured message TTL.
func (q *Notifications) Message(text string) tea.Cmd {
	return q.add(KindMessage, text, q.messageTTL)
}

// Summary pins text until Reset.
func (q *Notifications) Summary(text string) {
	q.items = append(q.items, Notification{
		ID:        uuid.NewString(),
		Text:      text,
		Kind:      KindSummary,
		CreatedAt: q.now(),
		Epoch:     q.epoch,
	})
}

func (q *Notifications) add(kind Kind, text string, ttl time.Duration) tea.Cmd {
	n := Notification{
		ID:        uuid.NewString(),
		Text:      text,
		Kind:      kind,
		CreatedAt: q.now(),
		TTL:       ttl,
		Epoch:     q.epoch,
	}
	q.items = append(q.items, n)
	msg := ExpireMsg{ID: n.ID, Epoch: n.Epoch}
	return tea.Tick(ttl, func(time.Time) tea.Msg { return msg })
}

// Expire removes the notification named by msg. Summaries and notifications
// from an earlier epoch are left alone.
func (q *Notifications) Expire(msg ExpireMsg) bool {
	if msg.Epoch != q.epoch {
		return false
	}
	for i, n := range q.items {
		if n.ID == msg.ID && n.Kind != KindSummary {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// Reset drops everything, summaries included, and starts a new epoch.
func (q *Notifications) Reset() {
	q.items = nil
	q.epoch++
}

func (q *Notifications) Epoch() uint64 { return q.epoch }

// Active returns the live notifications, oldest first.
func (q *Notifications) Active() []Notification {
	return append([]Notification(nil), q.items...)
}

// Pinned returns the end-of-game notification, if any.
func (q *Notifications) Pinned() (Notification, bool) {
	for _, n := range q.items {
		if n.Kind == KindSummary {
			return n, true
		}
	}
	return Notification{}, false
}
