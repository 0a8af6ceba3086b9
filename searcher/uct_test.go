package searcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUCT(t *testing.T) {
	t.Run("computing UCT value", func(t *testing.T) {
		got := uct(0.5, 10, math.Log(100), Exploration)

		expected := 0.5 + math.Sqrt2*math.Sqrt(math.Log(100)/10.0)
		require.InDelta(t, expected, got, 0.0001, "Should compute rate + C*sqrt(ln(N)/n)")
	})

	t.Run("panics with zero child visits", func(t *testing.T) {
		require.Panics(t, func() {
			uct(0.5, 0, math.Log(100), Exploration)
		}, "Should panic when n is 0")
	})

	t.Run("exploration term increases with parent visits", func(t *testing.T) {
		score1 := uct(0.5, 10, math.Log(100), Exploration)
		score2 := uct(0.5, 10, math.Log(1000), Exploration)

		require.Greater(t, score2, score1, "More parent visits should increase exploration term")
	})

	t.Run("exploration term decreases with child visits", func(t *testing.T) {
		score1 := uct(0.5, 10, math.Log(100), Exploration)
		score2 := uct(0.5, 20, math.Log(100), Exploration)

		require.Greater(t, score1, score2, "More child visits should decrease exploration term")
	})
}

func TestTreeScore(t *testing.T) {
	t.Run("unvisited child outscores visited siblings", func(t *testing.T) {
		tree := BuildTree[mockAction](newMockRoot(), "p1", WithSeed(1))
		lnN := math.Log(1000)
		visited := []*Node[mockAction]{
			{state: mockState{}, perspective: "p1", mover: "p1", wins: 1, visits: 1},
			{state: mockState{}, perspective: "p1", mover: "p1", wins: 999, visits: 999},
			{state: mockState{}, perspective: "p1", mover: "p2", wins: 0, visits: 1},
		}
		unvisited := &Node[mockAction]{state: mockState{}, perspective: "p1", mover: "p1"}

		for range 100 {
			u := tree.score(unvisited, lnN)
			for _, v := range visited {
				require.Greater(t, u, tree.score(v, lnN), "Unvisited child should always be tried first")
			}
		}
	})

	t.Run("unvisited scores are jittered", func(t *testing.T) {
		tree := BuildTree[mockAction](newMockRoot(), "p1", WithSeed(1))
		unvisited := &Node[mockAction]{state: mockState{}, perspective: "p1"}

		first := tree.score(unvisited, 0)
		second := tree.score(unvisited, 0)

		require.GreaterOrEqual(t, first, Unexplored, "Score should not fall below the floor")
		require.Less(t, first, 2*Unexplored, "Jitter should stay below the floor")
		require.NotEqual(t, first, second, "Ties between unvisited children should be broken at random")
	})

	t.Run("opponent child is scored by the inverted rate", func(t *testing.T) {
		tree := BuildTree[mockAction](newMockRoot(), "p1", WithSeed(1))
		child := &Node[mockAction]{state: mockState{}, perspective: "p1", mover: "p2", wins: 1, visits: 4}

		got := tree.score(child, math.Log(10))

		require.InDelta(t, uct(0.75, 4, math.Log(10), Exploration), got, 1e-9, "Opponent nodes should use 1 - wins/visits")
	})

	t.Run("reading rates by turn ownership by default", func(t *testing.T) {
		tree := BuildTree[mockAction](newMockRoot(), "p1", WithSeed(1))
		child := &Node[mockAction]{state: mockState{turn: "p2"}, perspective: "p1", mover: "p1", wins: 3, visits: 4}

		got := tree.score(child, math.Log(10))

		require.Equal(t, OwnerByTurn, tree.ownership)
		require.InDelta(t, uct(0.25, 4, math.Log(10), Exploration), got, 1e-9, "Node whose state is an opponent's turn should be inverted")
	})
}

func TestTreePick(t *testing.T) {
	t.Run("selecting the max UCT child", func(t *testing.T) {
		tree := BuildTree[mockAction](newMockRoot(), "p1", WithSeed(1))
		node := &Node[mockAction]{state: newMockRoot(), perspective: "p1", visits: 20}
		node.addChild("A", &Node[mockAction]{state: mockState{turn: "p1"}, perspective: "p1", mover: "p1", wins: 2, visits: 10})
		node.addChild("B", &Node[mockAction]{state: mockState{turn: "p1"}, perspective: "p1", mover: "p1", wins: 9, visits: 10})

		require.Equal(t, mockAction("B"), tree.pick(node), "Node should select child with max UCT value")
	})

	t.Run("selecting the child that minimizes opponent rewards", func(t *testing.T) {
		tree := BuildTree[mockAction](newMockRoot(), "p2", WithSeed(1))
		node := &Node[mockAction]{state: newMockRoot(), perspective: "p2", visits: 20}
		node.addChild("A", &Node[mockAction]{state: mockState{turn: "p1"}, perspective: "p2", mover: "p1", wins: 9, visits: 10})
		node.addChild("B", &Node[mockAction]{state: mockState{turn: "p1"}, perspective: "p2", mover: "p1", wins: 2, visits: 10})

		require.Equal(t, mockAction("B"), tree.pick(node), "Opponent should pick the action worst for the perspective player")
	})

	t.Run("selecting an unvisited child first", func(t *testing.T) {
		tree := BuildTree[mockAction](newMockRoot(), "p1", WithSeed(1))
		node := &Node[mockAction]{state: newMockRoot(), perspective: "p1", visits: 20}
		node.addChild("A", &Node[mockAction]{state: mockState{}, perspective: "p1", mover: "p1", wins: 10, visits: 10})
		node.addChild("B", &Node[mockAction]{state: mockState{}, perspective: "p1", mover: "p1"})

		require.Equal(t, mockAction("B"), tree.pick(node), "Unvisited child should be selected")
	})
}
