package searcher

// ActionStats are the root statistics of one action.
type ActionStats[A comparable] struct {
	Action A
	Wins   int
	Visits int
	Owned  bool // Statistics are read as-is, otherwise inverted
}

func (s ActionStats[A]) WinRate() (float64, bool) {
	return winRate(s.Wins, s.Visits, s.Owned)
}

// best returns the action with the highest adjusted win rate, skipping
// unvisited actions. Ties keep the earliest action.
func best[A comparable](stats []ActionStats[A]) (A, bool) {
	var bestAction A
	found := false
	maxRate := -1.0
	for _, s := range stats {
		rate, ok := s.WinRate()
		if !ok {
			continue
		}
		if rate > maxRate {
			maxRate = rate
			bestAction = s.Action
			found = true
		}
	}
	return bestAction, found
}

// merge sums the statistics of independent trees by action, keeping the
// order in which actions were first seen.
func merge[A comparable](trees [][]ActionStats[A]) []ActionStats[A] {
	index := make(map[A]int)
	var merged []ActionStats[A]
	for _, stats := range trees {
		for _, s := range stats {
			i, ok := index[s.Action]
			if !ok {
				index[s.Action] = len(merged)
				merged = append(merged, s)
				continue
			}
			merged[i].Wins += s.Wins
			merged[i].Visits += s.Visits
		}
	}
	return merged
}
