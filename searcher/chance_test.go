package searcher

import (
	"errors"
	"slices"
	"testing"

	"disastle/experiments/metrics"
	"disastle/game"
	"disastle/game/castle"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestParseDeterminization(t *testing.T) {
	for input, want := range map[string]Determinization{
		"":          DeterminizeOnce,
		"once":      DeterminizeOnce,
		"Iteration": DeterminizeEachIteration,
		"each":      DeterminizeEachIteration,
	} {
		got, err := ParseDeterminization(input)
		require.NoError(t, err, "Should parse %q", input)
		require.Equal(t, want, got, "Should parse %q", input)
	}

	_, err := ParseDeterminization("never")
	require.Error(t, err, "Unknown names should be rejected")
}

func TestParseOwnership(t *testing.T) {
	got, err := ParseOwnership("mover")
	require.NoError(t, err)
	require.Equal(t, OwnerByMover, got)

	got, err = ParseOwnership("")
	require.NoError(t, err)
	require.Equal(t, OwnerByTurn, got, "Turn should be the default ownership")

	var zero Ownership
	require.Equal(t, OwnerByTurn, zero, "Zero value should be turn ownership")

	_, err = ParseOwnership("nobody")
	require.Error(t, err, "Unknown names should be rejected")
}

func TestRederive(t *testing.T) {
	t.Run("random node gets a fresh realization", func(t *testing.T) {
		start := newCastle(t, 1)
		// p2 moves last in the round so any action deals a new shop
		last := start.Play("p1", castle.Pass(), rand.New(rand.NewSource(1)))
		collector := metrics.NewCollector()
		collector.Start(1, MaxCutoff)
		tree := BuildTree[castle.Action](last, "p1", WithSeed(2))
		tree.metrics = collector

		require.NoError(t, tree.RunIteration())
		parent := tree.Root()
		child, ok := parent.Child(castle.Pass())
		require.True(t, ok, "Pass should always be expanded")
		require.True(t, child.Random(), "Crossing a round should tag the child random")

		first := child.State().(*castle.State).Shop()
		differs := false
		for range 20 {
			require.True(t, tree.rederive(parent, castle.Pass(), child), "Pass should stay legal")
			next := child.State().(*castle.State)
			require.Equal(t, 2, next.Round(), "Re-derived state should be in the same round")
			if !slices.Equal(first, next.Shop()) {
				differs = true
			}
		}
		require.True(t, differs, "Fresh realizations should deal different shops")
		require.Equal(t, 20, collector.Complete().Resamples, "Every re-derivation should be counted")
	})

	t.Run("stale action leaves the child untouched", func(t *testing.T) {
		tree := BuildTree[castle.Action](newCastle(t, 1), "p1", WithSeed(2))
		parent := tree.Root()
		state := newCastle(t, 5)
		child := newNode[castle.Action](state, "p1", "p1", true)

		require.False(t, tree.rederive(parent, castle.Buy(999), child), "Illegal action should not be replayed")
		require.Same(t, state, child.State(), "Child state should be kept")
	})
}

func TestTreeDeterminize(t *testing.T) {
	t.Run("no world keeps the root", func(t *testing.T) {
		root := newMockRoot()
		tree := BuildTree[mockAction](root, "p1", WithSeed(1))

		require.NoError(t, tree.determinize())
		require.Equal(t, root, tree.Root().State(), "Root should be unchanged")
	})

	t.Run("world replaces the root", func(t *testing.T) {
		tree := BuildTree[mockAction](newMockRoot(), "p1", WithSeed(1))
		replacement := mockState{turn: "p1", moves: []mockAction{"C"}}
		tree.world = func(rng *rand.Rand) (game.State[mockAction], error) {
			return replacement, nil
		}

		require.NoError(t, tree.determinize())
		require.Equal(t, replacement, tree.Root().State(), "Root should be the fresh projection")
	})

	t.Run("world errors are wrapped", func(t *testing.T) {
		tree := BuildTree[mockAction](newMockRoot(), "p1", WithSeed(1))
		tree.world = func(rng *rand.Rand) (game.State[mockAction], error) {
			return nil, game.ErrInconsistentKnowledge
		}

		err := tree.RunIteration()

		require.True(t, errors.Is(err, game.ErrInconsistentKnowledge), "Should surface the determinization error")
		require.Zero(t, tree.Root().Visits(), "Failed iteration should not be recorded")
	})
}
