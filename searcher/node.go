package searcher

import (
	"disastle/game"
)

// Node is one reachable position of a search tree. Statistics are always
// recorded from the perspective player's point of view.
type Node[A comparable] struct {
	state       game.State[A]
	perspective string
	mover       string // Player whose action produced this node, empty at the root
	random      bool   // The producing action crossed a round boundary
	wins        int
	visits      int
	children    map[A]*Node[A]
	order       []A // Insertion order of children keys
}

func newNode[A comparable](state game.State[A], perspective, mover string, random bool) *Node[A] {
	return &Node[A]{
		state:       state,
		perspective: perspective,
		mover:       mover,
		random:      random,
	}
}

func (n *Node[A]) State() game.State[A] {
	return n.state
}

func (n *Node[A]) Perspective() string {
	return n.perspective
}

func (n *Node[A]) Mover() string {
	return n.mover
}

func (n *Node[A]) Random() bool {
	return n.random
}

func (n *Node[A]) Wins() int {
	return n.wins
}

func (n *Node[A]) Visits() int {
	return n.visits
}

// Actions returns the keys of the expanded children in expansion order.
func (n *Node[A]) Actions() []A {
	return append([]A(nil), n.order...)
}

func (n *Node[A]) Child(action A) (*Node[A], bool) {
	child, ok := n.children[action]
	return child, ok
}

func (n *Node[A]) IsLeaf() bool {
	return len(n.order) == 0
}

func (n *Node[A]) addChild(action A, child *Node[A]) {
	if n.children == nil {
		n.children = make(map[A]*Node[A])
	}
	if _, ok := n.children[action]; ok {
		return
	}
	n.children[action] = child
	n.order = append(n.order, action)
}

func (n *Node[A]) record(won bool) {
	n.visits++
	if won {
		n.wins++
	}
}

// owned reports whether the node's statistics are read as-is for the perspective player.
func (n *Node[A]) owned(ownership Ownership) bool {
	if ownership == OwnerByMover {
		return n.mover == n.perspective
	}
	return n.state.OwnsTurn(n.perspective)
}

// WinRate is the perspective-adjusted win rate: wins/visits for owned nodes,
// 1 - wins/visits otherwise. It is undefined for unvisited nodes.
func (n *Node[A]) WinRate(ownership Ownership) (float64, bool) {
	return winRate(n.wins, n.visits, n.owned(ownership))
}

func winRate(wins, visits int, owned bool) (float64, bool) {
	if visits == 0 {
		return 0, false
	}
	rate := float64(wins) / float64(visits)
	if !owned { // Minimax: opponents pick what is worst for the perspective player
		rate = 1 - rate
	}
	return rate, true
}
