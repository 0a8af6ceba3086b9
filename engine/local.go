package engine

import (
	"fmt"
	"slices"
	"time"

	"disastle/experiments/metrics"
	"disastle/game"
	"disastle/searcher/agent"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Local[A comparable] struct {
	state    game.Hidden[A]
	agents   map[string]agent.Agent[A]
	rng      *rand.Rand
	maxTurns int
}

var _ Engine = (*Local[int])(nil)

// NewLocal seats one agent per player of state. A non-positive maxTurns falls
// back to MaxTurns.
func NewLocal[A comparable](state game.Hidden[A], agents map[string]agent.Agent[A], rng *rand.Rand, maxTurns int) *Local[A] {
	for _, player := range state.TurnOrder() {
		if _, ok := agents[player]; !ok {
			panic(fmt.Sprintf("no agent for player %s", player))
		}
	}
	if maxTurns <= 0 {
		maxTurns = MaxTurns
	}
	return &Local[A]{state: state, agents: agents, rng: rng, maxTurns: maxTurns}
}

func (e *Local[A]) State() game.Hidden[A] {
	return e.state
}

// Run executes the game loop until the game ends or the turn limit is hit.
func (e *Local[A]) Run() ([]string, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: game.TurnPlayer[A](e.state),
		StartTime:      time.Now(),
	}
	log.Info().Msgf("player %s is starting", gameMetric.StartingPlayer)

	var moveMetrics []metrics.MoveMetric
	turn := 1
	for ; !e.state.IsTerminal() && turn <= e.maxTurns; turn++ {
		player := game.TurnPlayer[A](e.state)
		action, metric, err := e.agents[player].FindMove(e.state, player)
		if err != nil {
			return nil, gameMetric, moveMetrics, fmt.Errorf("failed to find move for %s at turn %d: %w", player, turn, err)
		}
		if !slices.Contains(e.state.LegalActions(player), action) {
			return nil, gameMetric, moveMetrics, fmt.Errorf("%w: %v by %s at turn %d", ErrIllegalMove, action, player, turn)
		}
		log.Debug().Msgf("turn %d: player %s plays %v", turn, player, action)

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         turn,
			Player:       player,
			Action:       fmt.Sprint(action),
			SearchMetric: metric,
		})

		next, ok := e.state.Play(player, action, e.rng).(game.Hidden[A])
		if !ok {
			return nil, gameMetric, moveMetrics, fmt.Errorf("state after turn %d hides no information", turn)
		}
		e.state = next
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)

	if !e.state.IsTerminal() {
		log.Info().Msgf("stopped after %d turns without a winner", e.maxTurns)
		return nil, gameMetric, moveMetrics, nil
	}
	for _, player := range e.state.TurnOrder() {
		if e.state.IsWinner(player) {
			gameMetric.Winners = append(gameMetric.Winners, player)
		}
	}
	log.Info().Msgf("game ended after %d moves with winners: %v", gameMetric.TotalMoves, gameMetric.Winners)
	return gameMetric.Winners, gameMetric, moveMetrics, nil
}
