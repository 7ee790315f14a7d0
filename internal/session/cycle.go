package session

import (
	"fmt"
	"slices"
)

// TurnState is the player-visible position in the turn cycle.
type TurnState int

const (
	Idle TurnState = iota
	Syncing
	AwaitingPlayerResult
	AwaitingOpponentResult
	GameOver
)

func (s TurnState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Syncing:
		return "syncing"
	case AwaitingPlayerResult:
		return "awaiting_player_result"
	case AwaitingOpponentResult:
		return "awaiting_opponent_result"
	case GameOver:
		return "game_over"
	}
	return "unknown"
}

// phase refines TurnState with the step the sequencer is waiting on.
type phase int

const (
	phaseIdle phase = iota
	phaseSyncing
	phasePlayerRequest
	phasePlayerRefresh
	phaseOpponentDelay
	phaseOpponentRequest
	phaseOpponentRefresh
	phaseGameOver
	phaseRestarting
)

var phaseNames = map[phase]string{
	phaseIdle:            "idle",
	phaseSyncing:         "syncing",
	phasePlayerRequest:   "player_request",
	phasePlayerRefresh:   "player_refresh",
	phaseOpponentDelay:   "opponent_delay",
	phaseOpponentRequest: "opponent_request",
	phaseOpponentRefresh: "opponent_refresh",
	phaseGameOver:        "game_over",
	phaseRestarting:      "restarting",
}

func (p phase) String() string {
	if n, ok := phaseNames[p]; ok {
		return n
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

func (p phase) state() TurnState {
	switch p {
	case phaseIdle:
		return Idle
	case phaseSyncing:
		return Syncing
	case phasePlayerRequest:
		return AwaitingPlayerResult
	case phasePlayerRefresh, phaseOpponentDelay, phaseOpponentRequest, phaseOpponentRefresh:
		return AwaitingOpponentResult
	default:
		return GameOver
	}
}

// transitions lists every legal next phase. Anything else is rejected.
var transitions = map[phase][]phase{
	phaseIdle:            {phaseSyncing, phasePlayerRequest},
	phaseSyncing:         {phaseIdle},
	phasePlayerRequest:   {phaseIdle, phasePlayerRefresh, phaseOpponentDelay, phaseGameOver},
	phasePlayerRefresh:   {phaseOpponentDelay},
	phaseOpponentDelay:   {phaseOpponentRequest},
	phaseOpponentRequest: {phaseIdle, phaseOpponentRefresh},
	phaseOpponentRefresh: {phaseIdle},
	phaseGameOver:        {phaseRestarting},
	phaseRestarting:      {phaseGameOver, phaseSyncing},
}

type cycle struct {
	phase phase
}

func (c *cycle) to(next phase) error {
	if !slices.Contains(transitions[c.phase], next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.phase, next)
	}
	c.phase = next
	return nil
}
