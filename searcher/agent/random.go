package agent

import (
	"fmt"

	"disastle/experiments/metrics"
	"disastle/game"

	"golang.org/x/exp/rand"
)

type randomAgent[A comparable] struct {
	rng *rand.Rand
}

// NewRandomAgent returns a baseline agent playing uniformly among the legal actions.
func NewRandomAgent[A comparable](rng *rand.Rand) Agent[A] {
	return randomAgent[A]{rng: rng}
}

func (a randomAgent[A]) FindMove(state game.Hidden[A], player string) (A, metrics.SearchMetric, error) {
	var none A
	actions := state.LegalActions(player)
	if len(actions) == 0 {
		return none, metrics.SearchMetric{}, fmt.Errorf("%w for %s", ErrNoMove, player)
	}
	return actions[a.rng.Intn(len(actions))], metrics.SearchMetric{}, nil
}
