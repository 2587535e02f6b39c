package searcher

import (
	"math"

	"blobwar/experiments/metrics"
	"blobwar/game"

	"golang.org/x/exp/constraints"
)

// Scores are carried as int during the search so that negating an int8
// evaluation never wraps; they are clamped back to int8 in the Outcome.
const infinity = math.MaxInt32

func clamp[T constraints.Integer](value, low, high T) T {
	return min(max(value, low), high)
}

func narrow(score int) int8 {
	return int8(clamp(score, math.MinInt8, math.MaxInt8))
}

// evaluate scores a leaf for the root player. Value is seen by the last
// mover, which is the root player exactly at minimizing nodes; so a leaf
// reached after depth plies below the root's children is negated when depth
// is odd.
func evaluate(state game.State, maximizing bool) int {
	value := int(state.Value())
	if maximizing {
		return -value
	}
	return value
}

func worst(maximizing bool) int {
	if maximizing {
		return -infinity
	}
	return infinity
}

// selection keeps the first root move reaching the best score. Later moves
// must be strictly better to replace it.
type selection struct {
	move  game.Move
	score int
	found bool
}

func (s *selection) offer(move game.Move, score int) {
	if !s.found || score > s.score {
		s.move = move
		s.score = score
		s.found = true
	}
}

func (s *selection) outcome(root game.State, metric metrics.SearchMetric) Outcome {
	if !s.found {
		return Outcome{Score: narrow(evaluate(root, true)), Metric: metric}
	}
	return Outcome{Score: narrow(s.score), Move: s.move, Found: true, Metric: metric}
}
