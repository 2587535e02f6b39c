package searcher

import (
	"blobwar/game"
)

// Greedy plays the move yielding the best immediate value.
type Greedy struct {
	config
}

func NewGreedy(options ...Option) *Greedy {
	return &Greedy{config: newConfig(options)}
}

func (g *Greedy) ComputeNextMove(state game.State) (game.Move, bool) {
	outcome := g.Search(state)
	return outcome.Move, outcome.Found
}

func (g *Greedy) Search(state game.State) Outcome {
	g.metrics.Start(KindGreedy, 0, 1)
	var best selection
	for move := range state.Movements() {
		g.metrics.AddNode()
		best.offer(move, int(state.Play(move).Value()))
	}
	return best.outcome(state, g.metrics.Complete())
}

func (g *Greedy) String() string {
	return "Greedy"
}
