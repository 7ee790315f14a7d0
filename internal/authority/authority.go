package authority

import (
	"context"
	"errors"

	"github.com/jask/wordrack/internal/game"
)

// Authority is the server-side game engine the client defers to for rules,
// scoring, the bag and the opponent.
type Authority interface {
	State(ctx context.Context) (game.Snapshot, error)
	Play(ctx context.Context, req PlayRequest) (PlayResult, error)
	Pass(ctx context.Context) (PassResult, error)
	OpponentTurn(ctx context.Context) (OpponentMove, error)
	Exchange(ctx context.Context, letters []string) error
	Restart(ctx context.Context) error
}

// ErrTransport marks failures to reach the authority or to understand its
// reply. Rejected moves are not transport failures.
var ErrTransport = errors.New("authority: transport failure")

const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusGameOver = "game_over"

	ActionWord     = "palabra"
	ActionExchange = "cambio"
)

// PlayRequest places Word starting at (Row, Col).
type PlayRequest struct {
	Word        string           `json:"palabra"`
	Row         int              `json:"fila"`
	Col         int              `json:"col"`
	Orientation game.Orientation `json:"direccion"`
}

// PlayResult is the authority's verdict on a word.
type PlayResult struct {
	Status  string `json:"status"`
	Points  int    `json:"puntos"`
	Message string `json:"mensaje"`
}

// Accepted reports whether the word was placed.
func (r PlayResult) Accepted() bool { return r.Status == StatusSuccess }

// PassResult is either an ordinary pass or the end of the game.
type PassResult struct {
	Status        string `json:"status"`
	Winner        string `json:"ganador"`
	UserScore     int    `json:"pts_user"`
	OpponentScore int    `json:"pts_cpu"`
}

// GameOver reports whether the pass ended the game.
func (r PassResult) GameOver() bool { return r.Status == StatusGameOver }

// OpponentMove describes what the opponent did on its turn.
type OpponentMove struct {
	Status  string `json:"status"`
	Action  string `json:"accion"`
	Word    string `json:"palabra"`
	Points  int    `json:"puntos"`
	Message string `json:"msj"`
}

// PlayedWord reports whether the opponent placed a word (as opposed to exchanging).
func (m OpponentMove) PlayedWord() bool { return m.Action == ActionWord }
