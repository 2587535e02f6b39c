package experiments

import (
	"fmt"

	"blobwar/engine"
	"blobwar/experiments/metrics"
	"blobwar/game"
	"blobwar/searcher"
	"blobwar/supervisor"

	"github.com/rs/zerolog/log"
)

// Run plays every matchup of the experiment and stores agent configs, game
// records and move records as CSV. It returns the directory written to.
func Run(cfg Config) (string, error) {
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", cfg.Name)

	for mi, matchup := range cfg.Matchups {
		config1 := cfg.agent(matchup[0])
		config2 := cfg.agent(matchup[1])

		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(cfg.Matchups), config1, config2)

		for i := 0; i < cfg.Games; i++ {
			red, blue := config1, config2
			if i%2 == 1 {
				red, blue = blue, red
			}

			winner, gameMetric, moveMetrics, err := runGame(red, blue, cfg.MaxTurns)
			if err != nil {
				return "", err
			}
			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Red:        red.ID,
				Blue:       blue.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d of %d with winner: %q", mi+1, len(cfg.Matchups), i+1, cfg.Games, winner)
		}
	}

	log.Info().Msgf("completed %s experiment", cfg.Name)
	return store(cfg, gameRecords, moveRecords)
}

func store(cfg Config, gameRecords []metrics.GameRecord, moveRecords []metrics.MoveRecord) (string, error) {
	writer, err := metrics.NewWriter(cfg.Output, cfg.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(cfg.Agents); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msgf("stored results in %s", writer.Dir())
	return writer.Dir(), nil
}

// runGame executes a single game from the starting position
func runGame(red, blue metrics.AgentConfig, maxTurns int) (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	redStrategy, err := NewStrategy(red)
	if err != nil {
		return "", metrics.GameMetric{}, nil, err
	}
	blueStrategy, err := NewStrategy(blue)
	if err != nil {
		return "", metrics.GameMetric{}, nil, err
	}

	e := engine.LocalEngine(redStrategy, blueStrategy, game.NewBoard()).WithMaxTurns(maxTurns)
	winner, gameMetric, moveMetrics := e.Run()
	return winner, gameMetric, moveMetrics, nil
}

// NewStrategy builds the player described by config.
func NewStrategy(config metrics.AgentConfig) (searcher.Strategy, error) {
	if config.Deadline > 0 {
		if !deepens(config.Engine) {
			return nil, fmt.Errorf("agent %d: engine %q cannot run against a deadline", config.ID, config.Engine)
		}
		return supervisor.New(config.Engine, config.Deadline, supervisor.WithGoroutines(config.Goroutines)), nil
	}

	options := []searcher.Option{searcher.WithMetrics(metrics.NewCollector())}
	if config.Goroutines > 0 {
		options = append(options, searcher.WithGoroutines(config.Goroutines))
	}
	if config.Seed > 0 {
		options = append(options, searcher.WithSeed(config.Seed))
	}
	return searcher.New(config.Engine, config.Depth, options...)
}
