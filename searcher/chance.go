package searcher

import (
	"fmt"
	"slices"
	"strings"

	"disastle/game"

	"golang.org/x/exp/rand"
)

// Determinization decides how often hidden information is re-sampled.
type Determinization int

const (
	// One projection of the hidden state per decision, shared by every iteration
	DeterminizeOnce Determinization = iota
	// A fresh projection per iteration, replayed along the selected path
	DeterminizeEachIteration
)

func (d Determinization) String() string {
	switch d {
	case DeterminizeOnce:
		return "once"
	case DeterminizeEachIteration:
		return "iteration"
	default:
		return fmt.Sprintf("determinization(%d)", int(d))
	}
}

func ParseDeterminization(s string) (Determinization, error) {
	switch strings.ToLower(s) {
	case "", "once":
		return DeterminizeOnce, nil
	case "iteration", "each":
		return DeterminizeEachIteration, nil
	}
	return 0, fmt.Errorf("unknown determinization %q", s)
}

// World produces a fully observable projection of the true game state.
type World[A comparable] func(rng *rand.Rand) (game.State[A], error)

// rederive replaces child's cached state with a fresh realization of action
// applied to parent's current state. It reports false, leaving child untouched,
// when action is not legal in parent's state, which only happens after the root
// was re-determinized.
func (t *Tree[A]) rederive(parent *Node[A], action A, child *Node[A]) bool {
	player := game.TurnPlayer(parent.state)
	if !slices.Contains(parent.state.LegalActions(player), action) {
		return false
	}
	child.state = parent.state.Play(player, action, t.rng)
	t.metrics.AddResample()
	return true
}

// determinize draws a new root projection when the tree re-samples per iteration.
func (t *Tree[A]) determinize() error {
	if t.world == nil {
		return nil
	}
	state, err := t.world(t.rng)
	if err != nil {
		return fmt.Errorf("failed to determinize state for %s: %w", t.perspective, err)
	}
	t.root.state = state
	return nil
}
