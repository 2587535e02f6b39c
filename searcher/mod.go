package searcher

import (
	"fmt"
	"runtime"

	"blobwar/experiments/metrics"
	"blobwar/game"
)

const (
	KindGreedy    = "greedy"
	KindMinMax    = "minmax"
	KindAlphaBeta = "alphabeta"
	KindParallel  = "parallel"
	KindRandom    = "random"
)

var Kinds = []string{KindGreedy, KindMinMax, KindAlphaBeta, KindParallel, KindRandom}

// Strategy picks the move to play in a given state. It returns false when the
// state is terminal.
type Strategy interface {
	ComputeNextMove(state game.State) (game.Move, bool)
	fmt.Stringer
}

// Engine is a strategy exposing its full search result.
type Engine interface {
	Strategy
	Search(state game.State) Outcome
}

// Outcome is the result of one search. Score is seen from the player to move
// at the root. Found is false only when the root state is terminal.
type Outcome struct {
	Score  int8
	Move   game.Move
	Found  bool
	Metric metrics.SearchMetric
}

type Option func(c *config)

type config struct {
	goroutines int
	seed       uint64
	metrics    metrics.Collector
}

// WithGoroutines bounds the number of subtrees searched at once.
func WithGoroutines(goroutines int) Option {
	return func(c *config) {
		if goroutines > 0 {
			c.goroutines = goroutines
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(c *config) {
		if collector != nil {
			c.metrics = collector
		}
	}
}

func newConfig(options []Option) config {
	c := config{ // Default values
		goroutines: runtime.NumCPU(),
		seed:       1,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(&c)
	}
	return c
}

// New returns the engine of the given kind. Depth counts the plies searched
// below the root's children; greedy and random ignore it.
func New(kind string, depth int, options ...Option) (Engine, error) {
	if depth < 0 {
		return nil, fmt.Errorf("invalid depth %d", depth)
	}
	switch kind {
	case KindGreedy:
		return NewGreedy(options...), nil
	case KindMinMax:
		return NewMinMax(depth, options...), nil
	case KindAlphaBeta:
		return NewAlphaBeta(depth, options...), nil
	case KindParallel:
		return NewParallel(depth, options...), nil
	case KindRandom:
		return NewRandom(options...), nil
	default:
		return nil, fmt.Errorf("unknown engine %q, expected one of %v", kind, Kinds)
	}
}

func checkDepth(depth int) {
	if depth < 0 {
		panic("search depth must not be negative")
	}
}
