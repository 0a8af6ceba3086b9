package searcher

import (
	"math"

	"golang.org/x/exp/rand"
)

// uct = rate + c*sqrt(ln(N)/n)
func uct(rate float64, visits int, lnN float64, c float64) float64 {
	if visits == 0 { // Prevent division by zero
		panic("cannot compute UCT: 0 visits")
	}
	return rate + c*math.Sqrt(lnN/float64(visits))
}

// unexplored scores an unvisited child above any visited sibling. The jitter
// breaks ties between unvisited children independently of expansion order.
func unexplored(rng *rand.Rand) float64 {
	return Unexplored + rng.Float64()*Unexplored
}

// score returns the UCT score of child given its parent's log visit count.
func (t *Tree[A]) score(child *Node[A], lnN float64) float64 {
	if child.visits == 0 {
		return unexplored(t.rng)
	}
	rate, _ := child.WinRate(t.ownership)
	return uct(rate, child.visits, lnN, t.exploration)
}

// pick returns the action of the child with the highest UCT score.
func (t *Tree[A]) pick(node *Node[A]) A {
	lnN := math.Log(float64(node.visits))

	best := node.order[0]
	maxScore := math.Inf(-1)
	for _, action := range node.order {
		score := t.score(node.children[action], lnN)
		if score > maxScore {
			maxScore = score
			best = action
		}
	}
	return best
}
