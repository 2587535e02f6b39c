package searcher

import (
	"fmt"

	"blobwar/experiments/metrics"
	"blobwar/game"
)

// MinMax explores every line of play to a fixed depth.
type MinMax struct {
	depth int
	config
}

func NewMinMax(depth int, options ...Option) *MinMax {
	checkDepth(depth)
	return &MinMax{depth: depth, config: newConfig(options)}
}

func (m *MinMax) ComputeNextMove(state game.State) (game.Move, bool) {
	outcome := m.Search(state)
	return outcome.Move, outcome.Found
}

func (m *MinMax) Search(state game.State) Outcome {
	m.metrics.Start(KindMinMax, m.depth, 1)
	var best selection
	for move := range state.Movements() {
		best.offer(move, minMax(state.Play(move), m.depth, false, m.metrics))
	}
	return best.outcome(state, m.metrics.Complete())
}

// minMax returns the value of state for the root player, depth plies deep.
// Nodes without movements are scored like leaves.
func minMax(state game.State, depth int, maximizing bool, collector metrics.Collector) int {
	collector.AddNode()
	if depth == 0 {
		return evaluate(state, maximizing)
	}

	best, terminal := worst(maximizing), true
	for move := range state.Movements() {
		terminal = false
		score := minMax(state.Play(move), depth-1, !maximizing, collector)
		if maximizing {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}
	if terminal {
		return evaluate(state, maximizing)
	}
	return best
}

func (m *MinMax) String() string {
	return fmt.Sprintf("Min - Max (max level: %d)", m.depth)
}
