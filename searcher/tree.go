package searcher

import (
	"fmt"

	"disastle/experiments/metrics"
	"disastle/game"

	"golang.org/x/exp/rand"
)

// Tree is the search tree of a single decision. It is owned by one goroutine
// and discarded once the decision is extracted.
type Tree[A comparable] struct {
	root        *Node[A]
	perspective string
	rng         *rand.Rand
	exploration float64
	cutoff      int
	ownership   Ownership
	world       World[A] // Non-nil when the root is re-determinized every iteration
	metrics     metrics.Collector
}

// BuildTree roots a new tree at an already determinized state. Options other
// than the ones shaping a single tree (rand, exploration, cutoff, ownership,
// metrics) are ignored.
func BuildTree[A comparable](state game.State[A], perspective string, options ...Option) *Tree[A] {
	m := newMCTS(options...)
	return newTree(m, state, perspective, m.rng)
}

func newTree[A comparable](m *MCTS, state game.State[A], perspective string, rng *rand.Rand) *Tree[A] {
	return &Tree[A]{
		root:        newNode(state, perspective, "", false),
		perspective: perspective,
		rng:         rng,
		exploration: m.exploration,
		cutoff:      m.cutoff,
		ownership:   m.ownership,
		metrics:     m.metrics,
	}
}

func (t *Tree[A]) Root() *Node[A] {
	return t.root
}

func (t *Tree[A]) Perspective() string {
	return t.perspective
}

// Terminal reports whether the root state is terminal.
func (t *Tree[A]) Terminal() bool {
	return t.root.state.IsTerminal()
}

// RunIteration performs one selection, expansion, simulation and
// backpropagation cycle. It only fails when re-determinizing the root fails.
// A terminal root is left untouched.
func (t *Tree[A]) RunIteration() error {
	if t.Terminal() {
		return nil
	}
	if err := t.determinize(); err != nil {
		return err
	}

	path, leaf := t.selects()
	if action, child, ok := t.expands(leaf); ok {
		path = append(path, action)
		leaf = child
	}
	won := rollout(leaf.state, t.perspective, t.cutoff, t.rng, t.metrics)
	t.backup(path, won)
	return nil
}

// selects descends from the root by UCT until a node without children,
// refreshing the state of every random node on the way.
func (t *Tree[A]) selects() ([]A, *Node[A]) {
	var path []A
	node := t.root
	for !node.IsLeaf() {
		action := t.pick(node)
		child := node.children[action]
		if child.random || t.world != nil {
			if !t.rederive(node, action, child) {
				break // Stale branch in this world, simulate from here
			}
		}
		path = append(path, action)
		node = child
	}
	return path, node
}

// expands adds every legal child of a non-terminal, non-random leaf and picks
// one of them at random to continue the iteration.
func (t *Tree[A]) expands(leaf *Node[A]) (A, *Node[A], bool) {
	var none A
	if leaf.random || !leaf.IsLeaf() || leaf.state.IsTerminal() {
		return none, leaf, false
	}

	player := game.TurnPlayer(leaf.state)
	actions := leaf.state.LegalActions(player)
	if len(actions) == 0 {
		return none, leaf, false
	}
	round := leaf.state.Round()
	for _, action := range actions {
		state := leaf.state.Play(player, action, t.rng)
		leaf.addChild(action, newNode(state, t.perspective, player, state.Round() > round))
	}

	action := leaf.order[t.rng.Intn(len(leaf.order))]
	return action, leaf.children[action], true
}

// rollout plays uniformly random moves until the game ends and reports whether
// perspective won. A non-terminal state without legal actions ends the rollout.
func rollout[A comparable](state game.State[A], perspective string, cutoff int, rng *rand.Rand, collector metrics.Collector) bool {
	depth := 0
	for !state.IsTerminal() {
		if depth >= cutoff {
			collector.AddCutoff()
			return false
		}
		player := game.TurnPlayer(state)
		actions := state.LegalActions(player)
		if len(actions) == 0 {
			break
		}
		state = state.Play(player, actions[rng.Intn(len(actions))], rng)
		depth++
	}

	if state.IsTerminal() {
		collector.AddFullPlayout()
	}
	return state.IsWinner(perspective)
}

// backup walks the selected path again from the root, by key, and records the
// rollout outcome on every node it passes.
func (t *Tree[A]) backup(path []A, won bool) {
	node := t.root
	node.record(won)
	for _, action := range path {
		child, ok := node.children[action]
		if !ok {
			panic(fmt.Sprintf("backup path leaves the tree at action %v", action))
		}
		child.record(won)
		node = child
	}
}

// BestAction returns the root child with the best perspective-adjusted win
// rate. It reports false when the root has no visited children.
func (t *Tree[A]) BestAction() (A, bool) {
	return best(t.Stats())
}

// Stats returns the statistics of the root's children in expansion order.
func (t *Tree[A]) Stats() []ActionStats[A] {
	stats := make([]ActionStats[A], 0, len(t.root.order))
	for _, action := range t.root.order {
		child := t.root.children[action]
		stats = append(stats, ActionStats[A]{
			Action: action,
			Wins:   child.wins,
			Visits: child.visits,
			Owned:  child.owned(t.ownership),
		})
	}
	return stats
}
