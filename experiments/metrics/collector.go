package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Goroutines   int
	Duration     time.Duration
	Episodes     int
	Cutoff       int
	FullPlayouts int
	Cutoffs      int // Rollouts stopped at the cutoff depth
	Resamples    int // States re-derived for random nodes or fresh determinizations
}

type MoveMetric struct {
	Step   int
	Player string
	Action string
	SearchMetric
}

type GameMetric struct {
	StartingPlayer string
	Winners        []string
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// Collector gathers search metrics. Implementations must be safe for
// concurrent use by the trees of a root-parallel search.
type Collector interface {
	Start(goroutines, cutoff int)
	AddEpisode()
	AddFullPlayout()
	AddCutoff()
	AddResample()
	Complete() SearchMetric
}

type collector struct {
	goroutines   int
	cutoff       int
	startTime    time.Time
	episodes     atomic.Int32
	fullPlayouts atomic.Int32
	cutoffs      atomic.Int32
	resamples    atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

// Start resets the counters for a new search.
func (m *collector) Start(goroutines, cutoff int) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.cutoff = cutoff
	m.episodes.Store(0)
	m.fullPlayouts.Store(0)
	m.cutoffs.Store(0)
	m.resamples.Store(0)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) AddCutoff() {
	m.cutoffs.Add(1)
}

func (m *collector) AddResample() {
	m.resamples.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Goroutines:   m.goroutines,
		Duration:     time.Since(m.startTime),
		Episodes:     int(m.episodes.Load()),
		Cutoff:       m.cutoff,
		FullPlayouts: int(m.fullPlayouts.Load()),
		Cutoffs:      int(m.cutoffs.Load()),
		Resamples:    int(m.resamples.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(goroutines, cutoff int) {}
func (m *dummyCollector) AddEpisode()                  {}
func (m *dummyCollector) AddFullPlayout()              {}
func (m *dummyCollector) AddCutoff()                   {}
func (m *dummyCollector) AddResample()                 {}
func (m *dummyCollector) Complete() SearchMetric       { return SearchMetric{} }
