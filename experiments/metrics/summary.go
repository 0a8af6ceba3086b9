package metrics

import (
	"slices"

	"gonum.org/v1/gonum/stat"
)

// AgentSummary aggregates the results of one agent over an experiment.
type AgentSummary struct {
	Agent          int
	Games          int
	Wins           int
	WinRate        float64
	WinStdDev      float64
	Decisions      int
	MeanEpisodes   float64
	EpisodesStdDev float64
}

// Summarize computes per-agent win rates and episodes per decision, ordered by agent id.
func Summarize(games []GameRecord, moves []MoveRecord) []AgentSummary {
	outcomes := make(map[int][]float64)
	byID := make(map[int]GameRecord, len(games))
	for _, game := range games {
		byID[game.ID] = game
		for i, player := range game.Players {
			if i >= len(game.Agents) {
				break
			}
			won := 0.0
			if slices.Contains(game.Winners, player) {
				won = 1.0
			}
			outcomes[game.Agents[i]] = append(outcomes[game.Agents[i]], won)
		}
	}

	episodes := make(map[int][]float64)
	for _, move := range moves {
		game, ok := byID[move.Game]
		if !ok {
			continue
		}
		agent, ok := game.Agent(move.Player)
		if !ok {
			continue
		}
		episodes[agent] = append(episodes[agent], float64(move.Episodes))
	}

	agents := make([]int, 0, len(outcomes))
	for agent := range outcomes {
		agents = append(agents, agent)
	}
	slices.Sort(agents)

	summaries := make([]AgentSummary, 0, len(agents))
	for _, agent := range agents {
		s := AgentSummary{Agent: agent, Games: len(outcomes[agent])}
		s.WinRate, s.WinStdDev = meanStdDev(outcomes[agent])
		for _, won := range outcomes[agent] {
			s.Wins += int(won)
		}
		s.Decisions = len(episodes[agent])
		s.MeanEpisodes, s.EpisodesStdDev = meanStdDev(episodes[agent])
		summaries = append(summaries, s)
	}
	return summaries
}

// meanStdDev is stat.MeanStdDev with a zero deviation for fewer than two samples.
func meanStdDev(x []float64) (float64, float64) {
	switch len(x) {
	case 0:
		return 0, 0
	case 1:
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}
