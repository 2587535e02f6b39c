package anytime

import (
	"errors"
	"flag"
	"fmt"
	"runtime"

	"blobwar/game"
	"blobwar/meta"
	"blobwar/searcher"
	"blobwar/shmem"

	"github.com/rs/zerolog/log"
)

type Config struct {
	Segment    string // name of a segment created by the supervisor
	Dir        string // empty for the default segment directory
	Engine     string
	Goroutines int
	MaxDepth   int
	Board      game.Board
}

// Run connects to the shared move and deepens on the configured board. A
// missing segment is fatal and is not retried.
func Run(cfg Config) error {
	factory, err := NewFactory(cfg.Engine, searcher.WithGoroutines(cfg.Goroutines))
	if err != nil {
		return err
	}
	slot, err := shmem.Connect(cfg.Segment, shmem.WithDir(cfg.Dir))
	if err != nil {
		return err
	}
	defer slot.Close()

	log.Info().Msgf("deepening %s for %s on segment %s", cfg.Engine, cfg.Board.Player(), slot.Path())
	return Deepen(cfg.Board, factory, slot, cfg.MaxDepth)
}

// Command parses the arguments of the anytime subcommand and runs it.
func Command(args []string) error {
	cfg := Config{}
	var board string
	fs := flag.NewFlagSet("anytime", flag.ContinueOnError)
	fs.StringVar(&cfg.Segment, "segment", "", "Name of the shared move segment")
	fs.StringVar(&cfg.Dir, "dir", "", "Directory holding the segment")
	fs.StringVar(&cfg.Engine, "engine", searcher.KindAlphaBeta, "Engine to deepen: minmax, alphabeta or parallel")
	fs.IntVar(&cfg.Goroutines, "goroutines", runtime.NumCPU(), "Number of goroutines for the parallel engine")
	fs.IntVar(&cfg.MaxDepth, "max-depth", meta.MAX_DEPTH, "Deepest level to search")
	fs.StringVar(&board, "board", "", "Position to search, in board text form")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if cfg.Segment == "" {
		return errors.New("missing -segment")
	}
	if board == "" {
		cfg.Board = game.NewBoard()
	} else if err := cfg.Board.UnmarshalText([]byte(board)); err != nil {
		return fmt.Errorf("failed parsing -board: %w", err)
	}
	return Run(cfg)
}
