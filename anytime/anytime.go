package anytime

import (
	"fmt"

	"blobwar/game"
	"blobwar/meta"
	"blobwar/searcher"
	"blobwar/shmem"

	"github.com/rs/zerolog/log"
)

// Publisher receives the answer of every completed depth. *shmem.AtomicMove
// is the production publisher.
type Publisher interface {
	Store(p shmem.Publication) error
}

// Factory builds the engine used for one depth of the deepening loop.
type Factory func(depth int) searcher.Engine

// NewFactory returns a factory for the engines that honour a depth limit.
func NewFactory(kind string, options ...searcher.Option) (Factory, error) {
	switch kind {
	case searcher.KindMinMax, searcher.KindAlphaBeta, searcher.KindParallel:
	default:
		return nil, fmt.Errorf("engine %q cannot be deepened", kind)
	}
	return func(depth int) searcher.Engine {
		engine, err := searcher.New(kind, depth, options...)
		if err != nil {
			panic(err) // kind was checked and depth is never negative
		}
		return engine
	}, nil
}

// Deepen searches state at depth 1, 2, ... maxDepth and publishes every
// result as soon as its depth completes. It never checks for cancellation:
// the process running it is expected to be killed, at which point the last
// publication is the answer. It returns once maxDepth is done, or with the
// first publishing error.
func Deepen(state game.State, factory Factory, publisher Publisher, maxDepth int) error {
	if maxDepth < 1 || maxDepth > meta.MAX_DEPTH {
		return fmt.Errorf("invalid max depth %d, expected 1 to %d", maxDepth, meta.MAX_DEPTH)
	}

	// The answer for a finished game cannot improve with depth.
	if game.IsTerminal(state) {
		log.Info().Msg("position is terminal, publishing no move")
		if err := publisher.Store(shmem.Publication{Depth: 1}); err != nil {
			return fmt.Errorf("failed publishing depth 1: %w", err)
		}
		return nil
	}

	for depth := 1; depth <= maxDepth; depth++ {
		engine := factory(depth)
		outcome := engine.Search(state)
		publication := shmem.Publication{Move: outcome.Move, Found: outcome.Found, Depth: uint8(depth)}
		if err := publisher.Store(publication); err != nil {
			return fmt.Errorf("failed publishing depth %d: %w", depth, err)
		}
		log.Debug().
			Int("depth", depth).
			Stringer("move", outcome.Move).
			Int8("score", outcome.Score).
			Int64("nodes", outcome.Metric.Nodes).
			Dur("duration", outcome.Metric.Duration).
			Msgf("%s completed", engine)
	}
	log.Info().Msgf("reached max depth %d", maxDepth)
	return nil
}
