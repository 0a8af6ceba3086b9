package engine

import (
	"errors"

	"disastle/experiments/metrics"
)

const MaxTurns = 10000

var ErrIllegalMove = errors.New("illegal move")

type Engine interface {
	// Run plays a game till it ends or a max number of turns is reached
	Run() (winners []string, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
