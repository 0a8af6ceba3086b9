// meta/meta.go
package meta

// GO_ROUTINES defines the number of goroutines (independent trees) per search.
const GO_ROUTINES = 1

// ITERATIONS defines the number of iterations per MCTS decision.
const ITERATIONS = 100

// WITH_CUTOFF defines the rollout cutoff depth for MCTS, 0 plays out to the end.
const WITH_CUTOFF = 0

// MAX_TURNS caps the length of a single game.
const MAX_TURNS = 300

// GAMES defines the number of games per matchup.
const GAMES = 10

// SEED seeds experiments unless overridden.
const SEED = 1

// RESULTS_DIR is where experiment results are written.
const RESULTS_DIR = "results"
