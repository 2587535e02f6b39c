package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

// AgentConfig describes one player of an experiment. A positive Deadline
// runs the engine as a supervised anytime search instead of a fixed depth.
type AgentConfig struct {
	ID         int           `yaml:"id"`
	Engine     string        `yaml:"engine"`
	Depth      int           `yaml:"depth"`
	Goroutines int           `yaml:"goroutines"`
	Deadline   time.Duration `yaml:"deadline"`
	Seed       uint64        `yaml:"seed"`
}

type GameRecord struct {
	ID   int
	Red  int // AgentConfig.ID
	Blue int // AgentConfig.ID
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a directory named by the current timestamp under
// root/name.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := strings.ReplaceAll(time.Now().UTC().Format(time.RFC3339), ":", "-")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "engine", "depth", "goroutines", "deadline", "seed"}
	rows := lo.Map(configs, func(config AgentConfig, _ int) []string {
		return []string{
			strconv.Itoa(config.ID),
			config.Engine,
			strconv.Itoa(config.Depth),
			strconv.Itoa(config.Goroutines),
			config.Deadline.String(),
			strconv.FormatUint(config.Seed, 10),
		}
	})
	return w.write("agent_configs.csv", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "red_agent", "blue_agent", "starting_player", "winner", "start_time", "end_time",
		"duration", "total_moves", "red_blobs", "blue_blobs"}
	rows := lo.Map(records, func(record GameRecord, _ int) []string {
		return []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Red),
			strconv.Itoa(record.Blue),
			record.StartingPlayer,
			record.Winner,
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
			strconv.Itoa(record.RedBlobs),
			strconv.Itoa(record.BlueBlobs),
		}
	})
	return w.write("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "move", "engine", "depth", "goroutines", "duration", "nodes"}
	rows := lo.Map(records, func(record MoveRecord, _ int) []string {
		return []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Player,
			record.Move,
			record.Engine,
			strconv.Itoa(record.Depth),
			strconv.Itoa(record.Goroutines),
			record.Duration.String(),
			strconv.FormatInt(record.Nodes, 10),
		}
	})
	return w.write("move_records.csv", header, rows)
}

func (w *Writer) write(file string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", file, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	err = writer.WriteAll(append([][]string{header}, rows...))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", file, err)
	}
	return nil
}
