package searcher

import (
	"fmt"
	"slices"

	"blobwar/game"

	"golang.org/x/exp/rand"
)

// Random plays a uniformly drawn legal move. Two players built with the same
// seed draw the same sequence.
type Random struct {
	rng *rand.Rand
	config
}

func NewRandom(options ...Option) *Random {
	c := newConfig(options)
	return &Random{rng: rand.New(rand.NewSource(c.seed)), config: c}
}

func (r *Random) ComputeNextMove(state game.State) (game.Move, bool) {
	outcome := r.Search(state)
	return outcome.Move, outcome.Found
}

func (r *Random) Search(state game.State) Outcome {
	r.metrics.Start(KindRandom, 0, 1)
	moves := slices.Collect(state.Movements())
	if len(moves) == 0 {
		return Outcome{Score: narrow(evaluate(state, true)), Metric: r.metrics.Complete()}
	}
	move := moves[r.rng.Intn(len(moves))]
	r.metrics.AddNode()
	return Outcome{
		Score:  state.Play(move).Value(),
		Move:   move,
		Found:  true,
		Metric: r.metrics.Complete(),
	}
}

func (r *Random) String() string {
	return fmt.Sprintf("Random (seed: %d)", r.seed)
}
