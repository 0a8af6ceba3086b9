package game

import (
	"errors"

	"golang.org/x/exp/rand"
)

var (
	ErrUnknownPlayer         = errors.New("unknown player")
	ErrInconsistentKnowledge = errors.New("private knowledge is inconsistent with the game state")
)

// State should be immutable - operations on State always return a new copy.
// A is the action type, compared by value and used as a map key by the searcher.
type State[A comparable] interface {
	Round() int
	TurnOrder() []string
	TurnIndex() int
	// LegalActions returns the actions available to player, in a stable order
	LegalActions(player string) []A
	// Play is only defined for actions returned by LegalActions(player) and
	// panics otherwise. Any hidden or random information revealed by the
	// transition must be drawn from rng.
	Play(player string, action A, rng *rand.Rand) State[A]
	IsTerminal() bool
	IsWinner(player string) bool
	OwnsTurn(player string) bool
}

// Hidden is a state that carries information private to some players.
type Hidden[A comparable] interface {
	State[A]
	// Determinize resolves everything observer cannot see into one concrete
	// guess, returning a fully observable state consistent with observer's knowledge.
	Determinize(observer string, rng *rand.Rand) (State[A], error)
}

// TurnPlayer returns the id of the player whose turn it is.
func TurnPlayer[A comparable](s State[A]) string {
	order := s.TurnOrder()
	if len(order) == 0 {
		return ""
	}
	return order[s.TurnIndex()%len(order)]
}
