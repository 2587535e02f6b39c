package searcher

import (
	"fmt"
	"slices"

	"blobwar/game"

	"golang.org/x/sync/errgroup"
)

// Parallel searches the subtree of every root move as an independent MinMax
// task on a bounded pool of goroutines.
type Parallel struct {
	depth int
	config
}

func NewParallel(depth int, options ...Option) *Parallel {
	checkDepth(depth)
	return &Parallel{depth: depth, config: newConfig(options)}
}

func (p *Parallel) ComputeNextMove(state game.State) (game.Move, bool) {
	outcome := p.Search(state)
	return outcome.Move, outcome.Found
}

func (p *Parallel) Search(state game.State) Outcome {
	p.metrics.Start(KindParallel, p.depth, p.goroutines)
	moves := slices.Collect(state.Movements())

	// Each task owns one slot of scores; nothing else is shared.
	scores := make([]int, len(moves))
	var g errgroup.Group
	g.SetLimit(p.goroutines)
	for i, move := range moves {
		g.Go(func() error {
			scores[i] = minMax(state.Play(move), p.depth, false, p.metrics)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		panic(err)
	}

	// Fold in generation order so ties resolve as in MinMax, whatever the
	// completion order was.
	var best selection
	for i, move := range moves {
		best.offer(move, scores[i])
	}
	return best.outcome(state, p.metrics.Complete())
}

func (p *Parallel) String() string {
	return fmt.Sprintf("Parallel Min - Max (max level: %d, goroutines: %d)", p.depth, p.goroutines)
}
