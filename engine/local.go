package engine

import (
	"time"

	"blobwar/experiments/metrics"
	"blobwar/game"
	"blobwar/meta"
	"blobwar/searcher"

	"github.com/rs/zerolog/log"
)

var _ Engine = (*Local)(nil)

type Local struct {
	Board      game.Board
	strategies [2]searcher.Strategy
	maxTurns   int
}

// LocalEngine plays red against blue in this process, starting from board.
func LocalEngine(red, blue searcher.Strategy, board game.Board) *Local {
	if red == nil || blue == nil {
		panic("both players need a strategy")
	}
	return &Local{
		Board:      board,
		strategies: [2]searcher.Strategy{game.Red: red, game.Blue: blue},
		maxTurns:   meta.MAX_TURNS,
	}
}

// WithMaxTurns overrides the turn limit of the game.
func (e *Local) WithMaxTurns(turns int) *Local {
	if turns > 0 {
		e.maxTurns = turns
	}
	return e
}

// Run plays the game and returns the winner, or "" on a draw.
func (e *Local) Run() (string, metrics.GameMetric, []metrics.MoveMetric) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: e.Board.Player().String(),
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("%s (%s) against %s (%s), %s is starting",
		game.Red, e.strategies[game.Red], game.Blue, e.strategies[game.Blue], e.Board.Player())

	for turn := 1; turn <= e.maxTurns; turn++ {
		player := e.Board.Player()
		move, searchMetric, ok := e.play(e.strategies[player])
		if !ok {
			log.Info().Msgf("%s cannot move", player)
			break
		}
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         turn,
			Player:       player.String(),
			Move:         move.String(),
			SearchMetric: searchMetric,
		})
		e.Board = e.Board.Apply(move)
		log.Debug().Msgf("turn %d: %s played %s\n%s", turn, player, move, e.Board)
	}

	winner := ""
	if player, ok := e.Board.Winner(); ok {
		winner = player.String()
	}
	gameMetric.Winner = winner
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)
	gameMetric.RedBlobs = e.Board.Count(game.Red)
	gameMetric.BlueBlobs = e.Board.Count(game.Blue)

	log.Info().Msgf("game over after %d moves, red %d - blue %d",
		gameMetric.TotalMoves, gameMetric.RedBlobs, gameMetric.BlueBlobs)
	return winner, gameMetric, moveMetrics
}

// play asks the strategy for a move. An illegal answer is replaced by the
// first legal move.
func (e *Local) play(strategy searcher.Strategy) (game.Move, metrics.SearchMetric, bool) {
	start := time.Now()
	var move game.Move
	var found bool
	var searchMetric metrics.SearchMetric
	if engine, ok := strategy.(searcher.Engine); ok {
		outcome := engine.Search(e.Board)
		move, found, searchMetric = outcome.Move, outcome.Found, outcome.Metric
	} else {
		move, found = strategy.ComputeNextMove(e.Board)
	}
	if searchMetric.Engine == "" {
		searchMetric.Engine = strategy.String()
		searchMetric.Duration = time.Since(start)
	}

	if found && e.legal(move) {
		return move, searchMetric, true
	}
	fallback, ok := game.FirstMovement(e.Board)
	if ok {
		log.Warn().Msgf("%s returned %s instead of a legal move, forcing %s", strategy, answer(move, found), fallback)
	}
	return fallback, searchMetric, ok
}

func (e *Local) legal(move game.Move) bool {
	for m := range e.Board.Movements() {
		if m == move {
			return true
		}
	}
	return false
}

func answer(move game.Move, found bool) string {
	if !found {
		return "no move"
	}
	return move.String()
}
