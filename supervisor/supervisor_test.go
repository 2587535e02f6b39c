//go:build unix

package supervisor

import (
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
	"testing"
	"time"

	"blobwar/anytime"
	"blobwar/game"
	"blobwar/meta"
	"blobwar/searcher"
	"blobwar/shmem"

	"github.com/stretchr/testify/require"
)

const helperEnv = "BLOBWAR_SUPERVISOR_HELPER"

// TestHelperProcess is not a test: it plays the child process of the
// supervisor in the mode named by the environment.
func TestHelperProcess(t *testing.T) {
	mode := os.Getenv(helperEnv)
	if mode == "" {
		return
	}
	args := os.Args
	if i := slices.Index(args, "--"); i >= 0 {
		args = args[i+1:]
	}
	switch mode {
	case "anytime":
		if err := anytime.Command(args); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "silent":
		time.Sleep(time.Hour)
	case "fail":
		os.Exit(2)
	}
	os.Exit(0)
}

func helper(mode string) Command {
	return func(args ...string) *exec.Cmd {
		cmd := exec.Command(os.Args[0], append([]string{"-test.run=^TestHelperProcess$", "--"}, args...)...)
		cmd.Env = append(os.Environ(), helperEnv+"="+mode)
		return cmd
	}
}

func TestSupervisor(t *testing.T) {
	if testing.Short() {
		t.Skip("starts child processes")
	}

	t.Run("The last published move is played", func(t *testing.T) {
		dir := t.TempDir()
		state := game.NewBoard()
		s := New(searcher.KindAlphaBeta, 500*time.Millisecond, WithCommand(helper("anytime")), WithDir(dir))

		publication, err := s.Decide(state)
		require.NoError(t, err)
		require.True(t, publication.Found)
		require.GreaterOrEqual(t, publication.Depth, uint8(1))
		require.Contains(t, slices.Collect(state.Movements()), publication.Move, "Should play a legal move")

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Empty(t, entries, "Should remove the segment")
	})

	t.Run("A search reaching max depth returns before the deadline", func(t *testing.T) {
		s := New(searcher.KindParallel, time.Minute,
			WithCommand(helper("anytime")), WithDir(t.TempDir()), WithMaxDepth(1), WithGoroutines(2))

		start := time.Now()
		publication, err := s.Decide(game.NewBoard())
		require.NoError(t, err)
		require.Equal(t, uint8(1), publication.Depth)
		require.Less(t, time.Since(start), time.Minute)

		outcome := searcher.NewMinMax(1).Search(game.NewBoard())
		require.Equal(t, outcome.Move, publication.Move, "Should match a direct search at depth 1")
	})

	t.Run("A terminal position yields no move", func(t *testing.T) {
		var state game.Board
		require.NoError(t, state.UnmarshalText([]byte("B:R......."+strings.Repeat("/........", game.Size-1))))
		s := New(searcher.KindMinMax, 5*time.Second, WithCommand(helper("anytime")), WithDir(t.TempDir()))

		_, ok := s.ComputeNextMove(state)
		require.False(t, ok)
	})

	t.Run("A silent search is killed at the deadline", func(t *testing.T) {
		s := New(searcher.KindMinMax, 200*time.Millisecond, WithCommand(helper("silent")), WithDir(t.TempDir()))

		start := time.Now()
		_, err := s.Decide(game.NewBoard())
		require.ErrorIs(t, err, shmem.ErrNotPublished)
		require.Less(t, time.Since(start), 10*time.Second, "Should not wait for the child to finish")
	})

	t.Run("A child that cannot connect is reported with its error", func(t *testing.T) {
		other := t.TempDir()
		elsewhere := func(args ...string) *exec.Cmd {
			return helper("anytime")(append(args, "-dir", other)...)
		}
		s := New(searcher.KindAlphaBeta, time.Minute, WithCommand(elsewhere), WithDir(t.TempDir()))

		start := time.Now()
		_, err := s.Decide(game.NewBoard())
		require.Error(t, err)
		require.NotErrorIs(t, err, shmem.ErrNotPublished, "Should not look like a missed deadline")
		require.Contains(t, err.Error(), "failed connecting to shared move", "Should carry the child's stderr")
		require.Less(t, time.Since(start), time.Minute, "Should return as soon as the child exits")
	})

	t.Run("A child exiting with an error is not a missed deadline", func(t *testing.T) {
		s := New(searcher.KindMinMax, time.Minute, WithCommand(helper("fail")), WithDir(t.TempDir()))
		_, err := s.Decide(game.NewBoard())
		require.Error(t, err)
		require.NotErrorIs(t, err, shmem.ErrNotPublished)
	})

	t.Run("Nothing published falls back to the first legal move", func(t *testing.T) {
		state := game.NewBoard()
		want, _ := game.FirstMovement(state)
		for _, mode := range []string{"silent", "fail"} {
			s := New(searcher.KindMinMax, 200*time.Millisecond, WithCommand(helper(mode)), WithDir(t.TempDir()))
			move, ok := s.ComputeNextMove(state)
			require.True(t, ok)
			require.Equal(t, want, move, "Should fall back when the %s child publishes nothing", mode)
		}
	})
}

func TestNew(t *testing.T) {
	t.Run("Only deepening engines are supervised", func(t *testing.T) {
		require.Panics(t, func() { New(searcher.KindGreedy, time.Second) })
		require.Panics(t, func() { New(searcher.KindMinMax, 0) })
		require.Panics(t, func() { New(searcher.KindMinMax, time.Second, WithMaxDepth(1000)) }, "Should refuse depths the search rejects")
		require.NotPanics(t, func() { New(searcher.KindMinMax, time.Second, WithMaxDepth(meta.MAX_DEPTH)) })
		require.Equal(t, "Anytime alphabeta (deadline: 1s)", New(searcher.KindAlphaBeta, time.Second).String())
	})
}
