package supervisor

import (
	"bytes"
	"encoding"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"blobwar/game"
	"blobwar/meta"
	"blobwar/searcher"
	"blobwar/shmem"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Command builds the process running the anytime search with the given
// arguments.
type Command func(args ...string) *exec.Cmd

type Option func(c *config)

type config struct {
	command    Command
	dir        string
	goroutines int
	maxDepth   int
}

// WithCommand replaces the default child, which re-executes the current
// binary with the anytime subcommand.
func WithCommand(command Command) Option {
	return func(c *config) {
		if command != nil {
			c.command = command
		}
	}
}

func WithDir(dir string) Option {
	return func(c *config) {
		c.dir = dir
	}
}

func WithGoroutines(goroutines int) Option {
	return func(c *config) {
		if goroutines > 0 {
			c.goroutines = goroutines
		}
	}
}

func WithMaxDepth(depth int) Option {
	return func(c *config) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

func selfCommand(args ...string) *exec.Cmd {
	executable, err := os.Executable()
	if err != nil {
		executable = os.Args[0]
	}
	return exec.Command(executable, append([]string{"anytime"}, args...)...)
}

// Supervisor is a strategy that grants an anytime search a wall-clock
// deadline, kills it and plays the last move it published.
type Supervisor struct {
	engine   string
	deadline time.Duration
	config
}

func New(engine string, deadline time.Duration, options ...Option) *Supervisor {
	switch engine {
	case searcher.KindMinMax, searcher.KindAlphaBeta, searcher.KindParallel:
	default:
		panic(fmt.Sprintf("engine %q cannot be deepened", engine))
	}
	if deadline <= 0 {
		panic("deadline must be positive")
	}

	c := config{ // Default values
		command:    selfCommand,
		goroutines: runtime.NumCPU(),
		maxDepth:   meta.MAX_DEPTH,
	}
	for _, option := range options {
		option(&c)
	}
	if c.maxDepth > meta.MAX_DEPTH {
		panic(fmt.Sprintf("max depth %d is above %d", c.maxDepth, meta.MAX_DEPTH))
	}
	return &Supervisor{engine: engine, deadline: deadline, config: c}
}

// Decide runs one supervised search on state and returns the last
// publication. It returns shmem.ErrNotPublished when the search did not
// complete depth 1 before the deadline; the caller picks the fallback. A
// child failing before publishing anything is reported with its stderr.
func (s *Supervisor) Decide(state game.State) (shmem.Publication, error) {
	marshaler, ok := state.(encoding.TextMarshaler)
	if !ok {
		return shmem.Publication{}, fmt.Errorf("cannot hand a %T to the anytime search", state)
	}
	board, err := marshaler.MarshalText()
	if err != nil {
		return shmem.Publication{}, fmt.Errorf("failed encoding state: %w", err)
	}

	name := meta.SEGMENT_PREFIX + uuid.NewString()
	slot, err := shmem.Create(name, shmem.WithDir(s.dir))
	if err != nil {
		return shmem.Publication{}, err
	}
	defer func() {
		if err := slot.Remove(); err != nil {
			log.Warn().Err(err).Msg("failed removing shared move")
		}
	}()
	defer slot.Close()

	args := []string{
		"-segment", name,
		"-engine", s.engine,
		"-goroutines", strconv.Itoa(s.goroutines),
		"-max-depth", strconv.Itoa(s.maxDepth),
		"-board", string(board),
	}
	if s.dir != "" {
		args = append(args, "-dir", s.dir)
	}
	cmd := s.command(args...)
	var stderr bytes.Buffer
	if cmd.Stderr == nil {
		cmd.Stderr = &stderr
	}
	if err := cmd.Start(); err != nil {
		return shmem.Publication{}, fmt.Errorf("failed starting anytime search: %w", err)
	}

	exited := make(chan error, 1)
	go func() {
		exited <- cmd.Wait()
	}()

	var exitErr error
	timer := time.NewTimer(s.deadline)
	defer timer.Stop()
	select {
	case <-timer.C:
		if err := cmd.Process.Kill(); err != nil {
			log.Warn().Err(err).Msg("failed killing anytime search")
		}
		<-exited
	case exitErr = <-exited:
	}

	publication, err := slot.Load()
	if errors.Is(err, shmem.ErrNotPublished) && exitErr != nil {
		return shmem.Publication{}, fmt.Errorf("anytime search failed: %w: %s", exitErr, strings.TrimSpace(stderr.String()))
	}
	if err != nil {
		return shmem.Publication{}, err
	}
	if exitErr != nil {
		log.Warn().Err(exitErr).Msgf("anytime search exited before the deadline after publishing %s", publication)
	}
	log.Debug().Msgf("anytime search decided %s", publication)
	return publication, nil
}

func (s *Supervisor) ComputeNextMove(state game.State) (game.Move, bool) {
	publication, err := s.Decide(state)
	if err == nil {
		return publication.Move, publication.Found
	}

	move, ok := game.FirstMovement(state)
	if errors.Is(err, shmem.ErrNotPublished) {
		log.Warn().Msgf("no move published within %s, falling back to %s", s.deadline, move)
	} else {
		log.Error().Err(err).Msgf("supervised search failed, falling back to %s", move)
	}
	return move, ok
}

func (s *Supervisor) String() string {
	return fmt.Sprintf("Anytime %s (deadline: %s)", s.engine, s.deadline)
}
