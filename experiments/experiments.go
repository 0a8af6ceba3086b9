package experiments

import (
	"fmt"
	"strconv"

	"disastle/engine"
	"disastle/experiments/metrics"
	"disastle/game/castle"
	"disastle/searcher"
	"disastle/searcher/agent"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

const (
	KindMCTS     = "mcts"
	KindTraining = "training"
	KindRandom   = "random"
)

// Run plays every matchup of cfg, stores the records with writer and
// returns the per-agent summary.
func Run(cfg Config, writer *metrics.Writer) ([]metrics.AgentSummary, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	configs := make(map[int]metrics.AgentConfig, len(cfg.Agents))
	for _, a := range cfg.Agents {
		configs[a.ID] = a
	}
	rng := rand.New(rand.NewSource(*cfg.Seed))

	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", cfg.Name)

	for mi, matchup := range cfg.Matchups {
		log.Info().Msgf("starting matchup %d of %d between agents %v...", mi+1, len(cfg.Matchups), matchup)

		for i := range cfg.Games {
			seats := matchup
			if cfg.Rotate {
				seats = rotate(matchup, i)
			}
			count++
			record, moves, err := runGame(cfg, count, seats, configs, rng)
			if err != nil {
				return nil, fmt.Errorf("failed to run game %d: %w", count, err)
			}
			gameRecords = append(gameRecords, record)
			moveRecords = append(moveRecords, moves...)

			log.Info().Msgf("completed matchup %d of %d game %d of %d with winners: %v", mi+1, len(cfg.Matchups), i+1, cfg.Games, record.Winners)
		}
		log.Info().Msgf("completed matchup %d of %d", mi+1, len(cfg.Matchups))
	}

	log.Info().Msgf("completed %s experiment", cfg.Name)

	if err := store(writer, cfg.Agents, gameRecords, moveRecords); err != nil {
		return nil, err
	}
	return metrics.Summarize(gameRecords, moveRecords), nil
}

func store(writer *metrics.Writer, configs []metrics.AgentConfig, games []metrics.GameRecord, moves []metrics.MoveRecord) error {
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(games); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(moves); err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msgf("stored move records in %s", writer.BaseDir())
	return nil
}

// runGame plays a single castle game with one agent per seat. Players are
// named "1".."n" in seat order.
func runGame(cfg Config, id int, seats []int, configs map[int]metrics.AgentConfig, rng *rand.Rand) (metrics.GameRecord, []metrics.MoveRecord, error) {
	players := make([]string, len(seats))
	agents := make(map[string]agent.Agent[castle.Action], len(seats))
	for i, agentID := range seats {
		players[i] = strconv.Itoa(i + 1)
		a, err := createAgent(configs[agentID], rng.Uint64())
		if err != nil {
			return metrics.GameRecord{}, nil, err
		}
		agents[players[i]] = a
	}

	gameRng := rand.New(rand.NewSource(rng.Uint64()))
	state, err := castle.New(players, *cfg.Castle, gameRng)
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}
	e := engine.NewLocal[castle.Action](state, agents, gameRng, cfg.MaxTurns)

	_, gameMetric, moveMetrics, err := e.Run()
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}

	record := metrics.GameRecord{
		ID:         id,
		Players:    players,
		Agents:     seats,
		GameMetric: gameMetric,
	}
	moves := make([]metrics.MoveRecord, len(moveMetrics))
	for i, mm := range moveMetrics {
		moves[i] = metrics.MoveRecord{Game: id, MoveMetric: mm}
	}
	return record, moves, nil
}

func createAgent(config metrics.AgentConfig, seed uint64) (agent.Agent[castle.Action], error) {
	if config.Kind == KindRandom {
		return agent.NewRandomAgent[castle.Action](rand.New(rand.NewSource(seed))), nil
	}

	mcts, err := createMCTS(config, seed)
	if err != nil {
		return nil, err
	}
	if config.Kind == KindTraining {
		return agent.NewTrainingAgent[castle.Action](mcts, config.Temperature, rand.New(rand.NewSource(seed+1))), nil
	}
	return agent.NewEvaluationAgent[castle.Action](mcts), nil
}

func createMCTS(config metrics.AgentConfig, seed uint64) (*searcher.MCTS, error) {
	determinization, err := searcher.ParseDeterminization(config.Determinization)
	if err != nil {
		return nil, err
	}
	ownership, err := searcher.ParseOwnership(config.Ownership)
	if err != nil {
		return nil, err
	}

	options := []searcher.Option{
		searcher.WithSeed(seed),
		searcher.WithDeterminization(determinization),
		searcher.WithOwnership(ownership),
	}
	if config.Iterations > 0 {
		options = append(options, searcher.WithIterations(config.Iterations))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	if config.Goroutines > 0 {
		options = append(options, searcher.WithGoroutines(config.Goroutines))
	}
	if config.Cutoff > 0 {
		options = append(options, searcher.WithCutoff(config.Cutoff))
	}

	options = append(options, searcher.WithMetrics())
	return searcher.NewMCTS(options...), nil
}

// rotate shifts seats by game so the starting seat cycles through the matchup.
func rotate(seats []int, game int) []int {
	rotated := make([]int, len(seats))
	for i := range seats {
		rotated[i] = seats[(i+game)%len(seats)]
	}
	return rotated
}
