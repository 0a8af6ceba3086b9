package experiments

import (
	"fmt"
	"os"

	"disastle/experiments/metrics"
	"disastle/game/castle"
	"disastle/meta"
	"disastle/searcher"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Name     string                `yaml:"name"`
	Dir      string                `yaml:"dir"`
	Games    int                   `yaml:"games"` // Per matchup
	Seed     *uint64               `yaml:"seed"`  // Nil picks meta.SEED, zero is a valid seed
	MaxTurns int                   `yaml:"maxTurns"`
	Rotate   bool                  `yaml:"rotate"` // Rotate seats between games so every agent starts
	Castle   *castle.Setting       `yaml:"castle"`
	Agents   []metrics.AgentConfig `yaml:"agents"`
	Matchups [][]int               `yaml:"matchups"` // Agent ids per seat
}

// DefaultConfig pits an MCTS agent against the random baseline.
func DefaultConfig() Config {
	cfg := Config{
		Name:   "mcts_vs_random",
		Rotate: true,
		Agents: []metrics.AgentConfig{
			{ID: 1, Kind: KindMCTS, Iterations: meta.ITERATIONS, Goroutines: meta.GO_ROUTINES, Cutoff: meta.WITH_CUTOFF},
			{ID: 2, Kind: KindRandom},
		},
		Matchups: [][]int{{1, 2}},
	}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads a YAML experiment file and fills in defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "experiment"
	}
	if c.Dir == "" {
		c.Dir = meta.RESULTS_DIR
	}
	if c.Games <= 0 {
		c.Games = meta.GAMES
	}
	if c.Seed == nil {
		seed := uint64(meta.SEED)
		c.Seed = &seed
	}
	if c.MaxTurns <= 0 {
		c.MaxTurns = meta.MAX_TURNS
	}
	if c.Castle == nil {
		setting := castle.DefaultSetting()
		c.Castle = &setting
	}
	for i := range c.Agents {
		if c.Agents[i].Kind == "" {
			c.Agents[i].Kind = KindMCTS
		}
	}
}

func (c Config) Validate() error {
	ids := make(map[int]bool, len(c.Agents))
	for _, a := range c.Agents {
		if ids[a.ID] {
			return fmt.Errorf("duplicate agent id %d", a.ID)
		}
		ids[a.ID] = true

		switch a.Kind {
		case KindMCTS, KindTraining:
			if a.Iterations <= 0 && a.Duration <= 0 {
				return fmt.Errorf("agent %d needs iterations or a duration", a.ID)
			}
			if _, err := searcher.ParseDeterminization(a.Determinization); err != nil {
				return fmt.Errorf("agent %d: %w", a.ID, err)
			}
			if _, err := searcher.ParseOwnership(a.Ownership); err != nil {
				return fmt.Errorf("agent %d: %w", a.ID, err)
			}
		case KindRandom:
		default:
			return fmt.Errorf("agent %d has unknown kind %q", a.ID, a.Kind)
		}
	}

	if len(c.Matchups) == 0 {
		return fmt.Errorf("no matchups")
	}
	for i, matchup := range c.Matchups {
		if len(matchup) == 0 {
			return fmt.Errorf("matchup %d has no seats", i+1)
		}
		if c.Castle != nil && len(matchup) > len(c.Castle.Thrones) {
			return fmt.Errorf("matchup %d seats %d players but only %d thrones exist", i+1, len(matchup), len(c.Castle.Thrones))
		}
		for _, id := range matchup {
			if !ids[id] {
				return fmt.Errorf("matchup %d references unknown agent %d", i+1, id)
			}
		}
	}
	return nil
}
