package experiments

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"blobwar/experiments/metrics"
	"blobwar/meta"
	"blobwar/searcher"

	"gopkg.in/yaml.v3"
)

// Config is an experiment file: the agents taking part and the pairs of
// agents playing each other.
type Config struct {
	Name     string                `yaml:"name"`
	Games    int                   `yaml:"games"` // per matchup, colours alternate
	MaxTurns int                   `yaml:"max_turns"`
	Output   string                `yaml:"output"`
	Agents   []metrics.AgentConfig `yaml:"agents"`
	Matchups [][]int               `yaml:"matchups"`
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read experiment config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates an experiment, filling in defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := Config{ // Default values
		Games:    1,
		MaxTurns: meta.MAX_TURNS,
		Output:   "experiments",
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse experiment config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid experiment %q: %w", cfg.Name, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Name == "" {
		return errors.New("missing name")
	}
	if c.Games < 1 || c.MaxTurns < 1 {
		return errors.New("games and max_turns must be positive")
	}
	ids := map[int]bool{}
	for _, agent := range c.Agents {
		if ids[agent.ID] {
			return fmt.Errorf("duplicate agent %d", agent.ID)
		}
		ids[agent.ID] = true
		if !slices.Contains(searcher.Kinds, agent.Engine) {
			return fmt.Errorf("agent %d: unknown engine %q", agent.ID, agent.Engine)
		}
		if agent.Depth < 0 || agent.Goroutines < 0 || agent.Deadline < 0 {
			return fmt.Errorf("agent %d: negative setting", agent.ID)
		}
		if agent.Deadline > 0 && !deepens(agent.Engine) {
			return fmt.Errorf("agent %d: engine %q cannot run against a deadline", agent.ID, agent.Engine)
		}
	}
	if len(c.Matchups) == 0 {
		return errors.New("no matchups")
	}
	for _, matchup := range c.Matchups {
		if len(matchup) != 2 {
			return fmt.Errorf("matchup %v must pair two agents", matchup)
		}
		for _, id := range matchup {
			if !ids[id] {
				return fmt.Errorf("matchup %v: unknown agent %d", matchup, id)
			}
		}
	}
	return nil
}

func (c Config) agent(id int) metrics.AgentConfig {
	i := slices.IndexFunc(c.Agents, func(a metrics.AgentConfig) bool { return a.ID == id })
	return c.Agents[i]
}

func deepens(engine string) bool {
	return engine == searcher.KindMinMax || engine == searcher.KindAlphaBeta || engine == searcher.KindParallel
}
