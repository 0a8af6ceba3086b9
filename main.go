package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"disastle/experiments"
	"disastle/experiments/metrics"
	"disastle/meta"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "YAML experiment file, overrides the search flags below")
	games := flag.Int("games", meta.GAMES, "Number of games per matchup")
	iterations := flag.Int("iterations", meta.ITERATIONS, "Number of iterations per move")
	duration := flag.Duration("duration", 0, "Duration of the search per move, replaces iterations when set")
	goroutines := flag.Int("goroutines", meta.GO_ROUTINES, "Number of independent trees per search")
	cutoff := flag.Int("cutoff", meta.WITH_CUTOFF, "Rollout cutoff depth, 0 plays out to the end")
	determinization := flag.String("determinization", "once", "Hidden state sampling: once or iteration")
	ownership := flag.String("ownership", "turn", "Node ownership for win rates: turn or mover")
	seed := flag.Uint64("seed", meta.SEED, "Experiment seed")
	dir := flag.String("dir", meta.RESULTS_DIR, "Directory for experiment results")
	level := flag.String("log-level", "info", "Log level")
	flag.Parse()

	logLevel, err := zerolog.ParseLevel(*level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %q\n", *level)
		os.Exit(2)
	}
	zerolog.SetGlobalLevel(logLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	cfg := experiments.DefaultConfig()
	if *configPath != "" {
		cfg, err = experiments.LoadConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load experiment")
		}
	} else {
		cfg.Games = *games
		cfg.Seed = seed
		cfg.Dir = *dir
		searchAgent := &cfg.Agents[0]
		searchAgent.Iterations = *iterations
		searchAgent.Duration = *duration
		if *duration > 0 {
			searchAgent.Iterations = 0
		}
		searchAgent.Goroutines = *goroutines
		searchAgent.Cutoff = *cutoff
		searchAgent.Determinization = *determinization
		searchAgent.Ownership = *ownership
	}

	writer, err := metrics.NewWriter(cfg.Dir, cfg.Name)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create experiment writer")
	}

	summaries, err := experiments.Run(cfg, writer)
	if err != nil {
		log.Fatal().Err(err).Msg("experiment failed")
	}
	printSummary(cfg.Name, summaries)
}

func printSummary(name string, summaries []metrics.AgentSummary) {
	out := termenv.NewOutput(os.Stdout)
	fmt.Fprintln(out, out.String(fmt.Sprintf("Results of %s", name)).Bold())
	fmt.Fprintf(out, "%-6s %6s %6s %16s %18s\n", "agent", "games", "wins", "win rate", "episodes/move")

	best := -1.0
	for _, s := range summaries {
		best = max(best, s.WinRate)
	}
	for _, s := range summaries {
		rate := fmt.Sprintf("%5.1f%% ± %4.1f", 100*s.WinRate, 100*s.WinStdDev)
		styled := out.String(fmt.Sprintf("%16s", rate))
		if s.WinRate == best {
			styled = styled.Foreground(out.Color("2")).Bold()
		} else {
			styled = styled.Foreground(out.Color("1"))
		}
		fmt.Fprintf(out, "%-6d %6d %6d %s %11.0f ± %4.0f\n", s.Agent, s.Games, s.Wins, styled, s.MeanEpisodes, s.EpisodesStdDev)
	}
}
