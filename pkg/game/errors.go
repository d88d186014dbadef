package game

import "errors"

var (
	// ErrInvalidConfig is returned for out-of-range lobby settings.
	ErrInvalidConfig = errors.New("invalid lobby configuration")
	// ErrInvalidState is returned when an operation is not valid for
	// the session's current state.
	ErrInvalidState = errors.New("operation not valid in current state")
	// ErrNotEnoughPlayers is returned when a game start is attempted
	// with fewer than two players.
	ErrNotEnoughPlayers = errors.New("not enough players to start")
	// ErrUnauthorized is returned when a non-host attempts a host-only
	// operation.
	ErrUnauthorized = errors.New("not authorized")
)
