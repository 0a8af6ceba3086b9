package engine

import (
	"errors"
	"testing"

	"disastle/experiments/metrics"
	"disastle/game"
	"disastle/game/castle"
	"disastle/searcher"
	"disastle/searcher/agent"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

type stubAgent struct {
	action castle.Action
	err    error
}

func (a stubAgent) FindMove(state game.Hidden[castle.Action], player string) (castle.Action, metrics.SearchMetric, error) {
	return a.action, metrics.SearchMetric{}, a.err
}

func newCastle(t *testing.T) *castle.State {
	t.Helper()
	state, err := castle.New([]string{"1", "2"}, castle.DefaultSetting(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	return state
}

func TestLocalRun(t *testing.T) {
	t.Run("playing to the end", func(t *testing.T) {
		agents := map[string]agent.Agent[castle.Action]{
			"1": agent.NewEvaluationAgent[castle.Action](searcher.NewMCTS(searcher.WithIterations(30), searcher.WithSeed(1), searcher.WithMetrics())),
			"2": agent.NewRandomAgent[castle.Action](rand.New(rand.NewSource(2))),
		}
		e := NewLocal[castle.Action](newCastle(t), agents, rand.New(rand.NewSource(3)), 0)

		winners, gameMetric, moveMetrics, err := e.Run()

		require.NoError(t, err)
		require.True(t, e.State().IsTerminal())
		require.NotEmpty(t, winners, "A finished game has at least one winner")
		require.Equal(t, winners, gameMetric.Winners)
		require.Equal(t, "1", gameMetric.StartingPlayer)
		require.Equal(t, 12, gameMetric.TotalMoves, "Six rounds of two moves")
		require.Len(t, moveMetrics, 12)
		for i, mm := range moveMetrics {
			require.Equal(t, i+1, mm.Step)
			if mm.Player == "1" {
				require.Equal(t, 30, mm.Episodes, "Search metrics should be recorded per move")
			} else {
				require.Zero(t, mm.Episodes)
			}
		}
	})

	t.Run("stopping at the turn limit", func(t *testing.T) {
		agents := map[string]agent.Agent[castle.Action]{
			"1": stubAgent{action: castle.Pass()},
			"2": stubAgent{action: castle.Pass()},
		}
		e := NewLocal[castle.Action](newCastle(t), agents, rand.New(rand.NewSource(3)), 3)

		winners, gameMetric, moveMetrics, err := e.Run()

		require.NoError(t, err)
		require.Nil(t, winners, "Unfinished game has no winners")
		require.Equal(t, 3, gameMetric.TotalMoves)
		require.Len(t, moveMetrics, 3)
		require.Equal(t, "pass", moveMetrics[0].Action)
	})

	t.Run("rejecting illegal moves", func(t *testing.T) {
		agents := map[string]agent.Agent[castle.Action]{
			"1": stubAgent{action: castle.Buy(999)},
			"2": stubAgent{action: castle.Pass()},
		}
		e := NewLocal[castle.Action](newCastle(t), agents, rand.New(rand.NewSource(3)), 0)

		_, _, _, err := e.Run()

		require.ErrorIs(t, err, ErrIllegalMove)
	})

	t.Run("aborting on agent errors", func(t *testing.T) {
		boom := errors.New("boom")
		agents := map[string]agent.Agent[castle.Action]{
			"1": stubAgent{action: castle.Pass()},
			"2": stubAgent{err: boom},
		}
		e := NewLocal[castle.Action](newCastle(t), agents, rand.New(rand.NewSource(3)), 0)

		_, _, moveMetrics, err := e.Run()

		require.ErrorIs(t, err, boom)
		require.Len(t, moveMetrics, 1, "Moves before the failure should be kept")
	})

	t.Run("panics without an agent per player", func(t *testing.T) {
		agents := map[string]agent.Agent[castle.Action]{"1": stubAgent{}}

		require.Panics(t, func() {
			NewLocal[castle.Action](newCastle(t), agents, rand.New(rand.NewSource(3)), 0)
		})
	})
}
