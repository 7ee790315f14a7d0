package session

import (
	"context"
	"time"
)

type EventKind string

const (
	EventGameStarted EventKind = "game_started"
	EventMove        EventKind = "move"
	EventGameOver    EventKind = "game_over"
)

type Actor string

const (
	ActorPlayer   Actor = "player"
	ActorOpponent Actor = "opponent"
)

type MoveKind string

const (
	MoveWord     MoveKind = "word"
	MovePass     MoveKind = "pass"
	MoveExchange MoveKind = "exchange"
)

// Event is a fact about the game the session has confirmed with the authority.
type Event struct {
	Kind          EventKind
	Actor         Actor
	Move          MoveKind
	Word          string
	Points        int
	Letters       []string
	Winner        string
	UserScore     int
	OpponentScore int
	At            time.Time
}

// Recorder receives confirmed events, e.g. to keep a local journal.
type Recorder interface {
	Record(ctx context.Context, ev Event) error
}

// GameSummary is the final result reported by the authority.
type GameSummary struct {
	Winner        string
	UserScore     int
	OpponentScore int
}
