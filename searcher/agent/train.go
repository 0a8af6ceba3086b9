package agent

import (
	"fmt"
	"math"

	"disastle/experiments/metrics"
	"disastle/game"
	"disastle/searcher"

	"golang.org/x/exp/rand"
)

type trainingAgent[A comparable] struct {
	mcts        *searcher.MCTS
	temperature float64
	rng         *rand.Rand
}

// NewTrainingAgent returns an agent that samples actions in proportion to
// their root visit counts, for more varied self-play games.
func NewTrainingAgent[A comparable](mcts *searcher.MCTS, temperature float64, rng *rand.Rand) Agent[A] {
	if temperature <= 0 {
		temperature = 1.0
	}
	return trainingAgent[A]{mcts: mcts, temperature: temperature, rng: rng}
}

func (a trainingAgent[A]) FindMove(state game.Hidden[A], player string) (A, metrics.SearchMetric, error) {
	var none A
	result, err := searcher.Search(a.mcts, state, player)
	if err != nil {
		return none, metrics.SearchMetric{}, err
	}
	policy := adjustTemperature(result.Stats, a.temperature)
	if len(policy) == 0 {
		return none, result.Metric, fmt.Errorf("%w for %s", ErrNoMove, player)
	}
	return sample(policy, a.rng), result.Metric, nil
}

type weighted[A comparable] struct {
	action A
	prob   float64
}

// adjustTemperature turns visit counts into move probabilities, skipping unvisited actions.
func adjustTemperature[A comparable](stats []searcher.ActionStats[A], temperature float64) []weighted[A] {
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make([]weighted[A], 0, len(stats))
	for _, s := range stats {
		if s.Visits == 0 {
			continue
		}
		prob := math.Pow(float64(s.Visits), exponent)
		sum += prob
		adjusted = append(adjusted, weighted[A]{action: s.Action, prob: prob})
	}
	// Normalize
	for i := range adjusted {
		adjusted[i].prob /= sum
	}
	return adjusted
}

func sample[A comparable](policy []weighted[A], rng *rand.Rand) A {
	sampled := rng.Float64()
	cumulative := 0.0
	for _, w := range policy {
		cumulative += w.prob
		if sampled < cumulative {
			return w.action
		}
	}
	return policy[len(policy)-1].action // Fallback in case of rounding errors
}
