package agent

import (
	"fmt"

	"disastle/experiments/metrics"
	"disastle/game"
	"disastle/searcher"
)

type evaluationAgent[A comparable] struct {
	mcts *searcher.MCTS
}

// NewEvaluationAgent returns a new agent that always plays the best action found by the search.
func NewEvaluationAgent[A comparable](mcts *searcher.MCTS) Agent[A] {
	return evaluationAgent[A]{mcts: mcts}
}

func (a evaluationAgent[A]) FindMove(state game.Hidden[A], player string) (A, metrics.SearchMetric, error) {
	var none A
	result, err := searcher.Search(a.mcts, state, player)
	if err != nil {
		return none, metrics.SearchMetric{}, err
	}
	if !result.Found {
		return none, result.Metric, fmt.Errorf("%w for %s", ErrNoMove, player)
	}
	return result.Action, result.Metric, nil
}
