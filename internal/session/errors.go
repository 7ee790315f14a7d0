package session

import "errors"

var (
	// ErrEmptyInput is returned when a word is submitted blank.
	ErrEmptyInput = errors.New("session: empty word")
	// ErrEmptySelection is returned when an exchange is confirmed with no marked tiles.
	ErrEmptySelection = errors.New("session: no tiles marked for exchange")
	// ErrBusy is returned when a player action arrives while a turn is in progress.
	ErrBusy = errors.New("session: turn in progress")
	// ErrNotGameOver is returned when a restart is requested before the game ended.
	ErrNotGameOver = errors.New("session: game is not over")
	// ErrPassHidden is returned when passing is not offered yet.
	ErrPassHidden = errors.New("session: pass not available")
	// ErrRefreshFailed wraps failures to fetch a snapshot.
	ErrRefreshFailed = errors.New("session: refresh failed")
	// ErrInvalidTransition is returned by the turn cycle for illegal moves.
	ErrInvalidTransition = errors.New("session: invalid turn transition")
)

// IsInputError reports whether err was caused by local input and never reached the authority.
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyInput) || errors.Is(err, ErrEmptySelection)
}
