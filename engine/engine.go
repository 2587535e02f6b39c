package engine

import "blobwar/experiments/metrics"

type Engine interface {
	// Run plays a game until the player to move is stuck or the turn limit is reached
	Run() (winner string, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric)
}
