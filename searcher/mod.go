package searcher

import (
	"fmt"
	"math"
	"strings"
)

// Hyperparameters for MCTS

const Exploration = math.Sqrt2 // UCT exploration constant C

// Score floor for unvisited children, jittered by up to the same amount again
const Unexplored = 1_000_000.0

const MaxCutoff = math.MaxInt // Rollouts run to the end of the game

// Ownership decides which nodes count as the perspective player's own when
// reading win rates. Statistics of nodes owned by an opponent are inverted.
type Ownership int

const (
	// A node belongs to the player whose turn it is in the node's state
	OwnerByTurn Ownership = iota
	// A node belongs to the player whose action produced it
	OwnerByMover
)

func (o Ownership) String() string {
	switch o {
	case OwnerByTurn:
		return "turn"
	case OwnerByMover:
		return "mover"
	default:
		return fmt.Sprintf("ownership(%d)", int(o))
	}
}

func ParseOwnership(s string) (Ownership, error) {
	switch strings.ToLower(s) {
	case "", "turn":
		return OwnerByTurn, nil
	case "mover":
		return OwnerByMover, nil
	}
	return 0, fmt.Errorf("unknown ownership %q", s)
}
