package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"blobwar/anytime"
	"blobwar/engine"
	"blobwar/experiments"
	"blobwar/experiments/metrics"
	"blobwar/game"
	"blobwar/meta"
	"blobwar/searcher"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `usage: blobwar [-v] [-profile dir] <command> [flags]

commands:
  battle      play a game between two engines
  anytime     deepen a search and publish into a shared move segment
  experiment  run the matchups of an experiment file
`

func main() {
	os.Exit(run())
}

func run() int {
	verbose := flag.Bool("v", false, "Log every move and search depth")
	profileDir := flag.String("profile", "", "Write a CPU profile of the command into this directory")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	if *profileDir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*profileDir), profile.NoShutdownHook).Stop()
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		return 2
	}

	var err error
	switch args[0] {
	case "battle":
		err = battle(args[1:])
	case "anytime":
		err = anytime.Command(args[1:])
	case "experiment":
		err = experiment(args[1:])
	default:
		flag.Usage()
		return 2
	}
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		log.Error().Err(err).Msgf("%s failed", args[0])
		return 1
	}
	return 0
}

func agentFlags(fs *flag.FlagSet, color string, config *metrics.AgentConfig) {
	fs.StringVar(&config.Engine, color, searcher.KindAlphaBeta, fmt.Sprintf("Engine playing %s, one of %v", color, searcher.Kinds))
	fs.IntVar(&config.Depth, color+"-depth", 2, "Search depth below the root moves")
	fs.DurationVar(&config.Deadline, color+"-deadline", 0, "Run an anytime search with this deadline instead of a fixed depth")
	fs.Uint64Var(&config.Seed, color+"-seed", 1, "Seed of the random engine")
}

func battle(args []string) error {
	red := metrics.AgentConfig{ID: 1}
	blue := metrics.AgentConfig{ID: 2}
	var goroutines, maxTurns int
	var board string

	fs := flag.NewFlagSet("battle", flag.ContinueOnError)
	agentFlags(fs, "red", &red)
	agentFlags(fs, "blue", &blue)
	fs.IntVar(&goroutines, "goroutines", 0, "Number of goroutines for the parallel engine, 0 for one per CPU")
	fs.IntVar(&maxTurns, "max-turns", meta.MAX_TURNS, "Stop the game after this many moves")
	fs.StringVar(&board, "board", "", "Starting position in board text form")
	if err := fs.Parse(args); err != nil {
		return err
	}
	red.Goroutines, blue.Goroutines = goroutines, goroutines

	start := game.NewBoard()
	if board != "" {
		if err := start.UnmarshalText([]byte(board)); err != nil {
			return fmt.Errorf("failed parsing -board: %w", err)
		}
	}
	redStrategy, err := experiments.NewStrategy(red)
	if err != nil {
		return err
	}
	blueStrategy, err := experiments.NewStrategy(blue)
	if err != nil {
		return err
	}

	e := engine.LocalEngine(redStrategy, blueStrategy, start).WithMaxTurns(maxTurns)
	winner, gameMetric, _ := e.Run()
	if winner == "" {
		winner = "nobody"
	}
	fmt.Printf("%s\nwinner: %s (red %d - blue %d, %d moves in %s)\n",
		e.Board, winner, gameMetric.RedBlobs, gameMetric.BlueBlobs, gameMetric.TotalMoves, gameMetric.Duration)
	return nil
}

func experiment(args []string) error {
	fs := flag.NewFlagSet("experiment", flag.ContinueOnError)
	output := fs.String("output", "", "Directory receiving the results, overrides the file")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: blobwar experiment [-output dir] <config.yaml>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected one experiment file")
	}

	cfg, err := experiments.LoadConfig(fs.Arg(0))
	if err != nil {
		return err
	}
	if *output != "" {
		cfg.Output = *output
	}
	_, err = experiments.Run(cfg)
	return err
}
