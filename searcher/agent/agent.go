package agent

import (
	"errors"

	"disastle/experiments/metrics"
	"disastle/game"
)

var ErrNoMove = errors.New("no move available")

type Agent[A comparable] interface {
	// FindMove returns the action to play for player and performance metrics (if collected) from the search
	FindMove(state game.Hidden[A], player string) (A, metrics.SearchMetric, error)
}
