package searcher

import (
	"fmt"

	"blobwar/experiments/metrics"
	"blobwar/game"
)

/*
function alphabeta(node, depth, α, β, maximizingPlayer) is
    if depth = 0 or node is a terminal node then
        return the heuristic value of node
    if maximizingPlayer then
        value := −∞
        for each child of node do
            value := max(value, alphabeta(child, depth − 1, α, β, FALSE))
            α := max(α, value)
            if α ≥ β then
                break (* β cut-off *)
        return value
    else
        value := +∞
        for each child of node do
            value := min(value, alphabeta(child, depth − 1, α, β, TRUE))
            β := min(β, value)
            if α ≥ β then
                break (* α cut-off *)
        return value
*/

// AlphaBeta returns the same move and score as MinMax while skipping
// subtrees that cannot change the decision.
type AlphaBeta struct {
	depth int
	config
}

func NewAlphaBeta(depth int, options ...Option) *AlphaBeta {
	checkDepth(depth)
	return &AlphaBeta{depth: depth, config: newConfig(options)}
}

func (a *AlphaBeta) ComputeNextMove(state game.State) (game.Move, bool) {
	outcome := a.Search(state)
	return outcome.Move, outcome.Found
}

func (a *AlphaBeta) Search(state game.State) Outcome {
	a.metrics.Start(KindAlphaBeta, a.depth, 1)
	var best selection
	alpha := -infinity
	for move := range state.Movements() {
		// Siblings scoring at most alpha come back as upper bounds; they
		// never beat the current best so the selection stays exact.
		score := alphaBeta(state.Play(move), a.depth, false, alpha, infinity, a.metrics)
		best.offer(move, score)
		alpha = max(alpha, best.score)
	}
	return best.outcome(state, a.metrics.Complete())
}

func alphaBeta(state game.State, depth int, maximizing bool, alpha, beta int, collector metrics.Collector) int {
	collector.AddNode()
	if depth == 0 {
		return evaluate(state, maximizing)
	}

	best, terminal := worst(maximizing), true
	for move := range state.Movements() {
		terminal = false
		score := alphaBeta(state.Play(move), depth-1, !maximizing, alpha, beta, collector)
		if maximizing {
			best = max(best, score)
			alpha = max(alpha, best)
		} else {
			best = min(best, score)
			beta = min(beta, best)
		}
		if alpha >= beta {
			break
		}
	}
	if terminal {
		return evaluate(state, maximizing)
	}
	return best
}

func (a *AlphaBeta) String() string {
	return fmt.Sprintf("Alpha - Beta (max level: %d)", a.depth)
}
