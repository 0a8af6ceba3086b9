package searcher

import (
	"fmt"
	"time"

	"disastle/experiments/metrics"
	"disastle/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

type Option func(mcts *MCTS)

type MCTS struct {
	goroutines      int
	iterations      int
	duration        time.Duration
	cutoff          int
	exploration     float64
	determinization Determinization
	ownership       Ownership
	rng             *rand.Rand
	metrics         metrics.Collector
}

// Result of one decision.
type Result[A comparable] struct {
	Action A
	Found  bool // False when the root is terminal
	Stats  []ActionStats[A]
	Metric metrics.SearchMetric
}

func WithIterations(iterations int) Option {
	return func(m *MCTS) {
		if iterations > 0 {
			m.iterations = iterations
		}
	}
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

// WithGoroutines searches n independent trees in parallel and sums their root statistics.
func WithGoroutines(n int) Option {
	return func(m *MCTS) {
		if n > 0 {
			m.goroutines = n
		}
	}
}

func WithCutoff(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.cutoff = depth
		}
	}
}

func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c >= 0 {
			m.exploration = c
		}
	}
}

func WithDeterminization(d Determinization) Option {
	return func(m *MCTS) {
		m.determinization = d
	}
}

func WithOwnership(o Ownership) Option {
	return func(m *MCTS) {
		m.ownership = o
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rng = rand.New(rand.NewSource(seed))
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(m *MCTS) {
		if rng != nil {
			m.rng = rng
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func newMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		goroutines:  1,
		cutoff:      MaxCutoff,
		exploration: Exploration,
		metrics:     metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return m
}

func NewMCTS(options ...Option) *MCTS {
	m := newMCTS(options...)
	if m.iterations <= 0 && m.duration <= 0 {
		panic("Must specify search iterations or duration")
	}
	return m
}

// Search determinizes state from perspective's point of view, grows a tree
// within the configured budget and extracts the best action. A terminal
// root yields a Result without an action.
func Search[A comparable](m *MCTS, state game.Hidden[A], perspective string) (Result[A], error) {
	m.metrics.Start(m.goroutines, m.cutoff)

	var stats []ActionStats[A]
	if m.goroutines <= 1 {
		tree, err := plant(m, state, perspective, m.rng)
		if err != nil {
			return Result[A]{}, err
		}
		if err := m.grow(tree, m.iterations); err != nil {
			return Result[A]{}, err
		}
		stats = tree.Stats()
	} else {
		var err error
		stats, err = searchParallel(m, state, perspective)
		if err != nil {
			return Result[A]{}, err
		}
	}

	action, found := best(stats)
	metric := m.metrics.Complete()
	log.Debug().Msgf("search for %s finished after %d episodes (%d cutoffs, %d resamples) in %s: %v (found=%t)",
		perspective, metric.Episodes, metric.Cutoffs, metric.Resamples, metric.Duration, action, found)

	return Result[A]{Action: action, Found: found, Stats: stats, Metric: metric}, nil
}

// searchParallel runs one tree per goroutine, each with its own projection of
// the hidden state and its own random source seeded from the master one.
func searchParallel[A comparable](m *MCTS, state game.Hidden[A], perspective string) ([]ActionStats[A], error) {
	seeds := make([]uint64, m.goroutines)
	for i := range seeds {
		seeds[i] = m.rng.Uint64()
	}
	iterations := (m.iterations + m.goroutines - 1) / m.goroutines

	results := make([][]ActionStats[A], m.goroutines)
	var g errgroup.Group
	for i := range m.goroutines {
		g.Go(func() error {
			tree, err := plant(m, state, perspective, rand.New(rand.NewSource(seeds[i])))
			if err != nil {
				return err
			}
			if err := m.grow(tree, iterations); err != nil {
				return err
			}
			results[i] = tree.Stats()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return merge(results), nil
}

// plant determinizes the hidden state and roots a tree at the projection.
func plant[A comparable](m *MCTS, state game.Hidden[A], perspective string, rng *rand.Rand) (*Tree[A], error) {
	world, err := state.Determinize(perspective, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to determinize state for %s: %w", perspective, err)
	}

	tree := newTree(m, world, perspective, rng)
	if m.determinization == DeterminizeEachIteration {
		tree.world = func(rng *rand.Rand) (game.State[A], error) {
			return state.Determinize(perspective, rng)
		}
	}
	return tree, nil
}

type growable interface {
	Terminal() bool
	RunIteration() error
}

// grow runs iterations until the budget is spent. A terminal root runs none.
func (m *MCTS) grow(tree growable, iterations int) error {
	if tree.Terminal() {
		return nil
	}

	if m.iterations > 0 {
		for range iterations {
			if err := tree.RunIteration(); err != nil {
				return err
			}
			m.metrics.AddEpisode()
		}
		return nil
	}

	deadline := time.Now().Add(m.duration)
	for time.Now().Before(deadline) {
		if err := tree.RunIteration(); err != nil {
			return err
		}
		m.metrics.AddEpisode()
	}
	return nil
}
