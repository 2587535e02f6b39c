package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Engine     string
	Depth      int
	Goroutines int
	Duration   time.Duration
	Nodes      int64
}

type MoveMetric struct {
	Step   int
	Player string
	Move   string
	SearchMetric
}

type GameMetric struct {
	StartingPlayer string
	Winner         string // "" on a draw
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
	RedBlobs       int
	BlueBlobs      int
}

// Collector counts the nodes visited by one search. AddNode may be called
// from several goroutines at once.
type Collector interface {
	Start(engine string, depth, goroutines int)
	AddNode()
	Complete() SearchMetric
}

type collector struct {
	engine     string
	depth      int
	goroutines int
	startTime  time.Time
	nodes      atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(engine string, depth, goroutines int) {
	m.startTime = time.Now()
	m.engine = engine
	m.depth = depth
	m.goroutines = goroutines
	m.nodes.Store(0)
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Engine:     m.engine,
		Depth:      m.depth,
		Goroutines: m.goroutines,
		Duration:   time.Since(m.startTime),
		Nodes:      m.nodes.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(engine string, depth, goroutines int) {}
func (m *dummyCollector) AddNode()                                   {}
func (m *dummyCollector) Complete() SearchMetric                     { return SearchMetric{} }
