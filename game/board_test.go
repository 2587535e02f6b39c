package game

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var emptyRows = strings.Repeat("/........", Size-1)

func parse(t *testing.T, text string) Board {
	t.Helper()
	var b Board
	require.NoError(t, b.UnmarshalText([]byte(text)))
	return b
}

func TestBoardMovements(t *testing.T) {
	t.Run("starting position has duplications then jumps", func(t *testing.T) {
		moves := slices.Collect(NewBoard().Movements())

		require.Len(t, moves, 16, "Each corner blob should reach 3 cells by duplication and 5 by jump")
		require.Equal(t, Move{From: Cell{0, 0}, To: Cell{1, 0}}, moves[0], "First move should duplicate to the lowest free cell")
		for _, move := range moves[:6] {
			require.Equal(t, 1, distance(move), "Duplications should come first")
		}
		for _, move := range moves[6:] {
			require.Equal(t, 2, distance(move), "Jumps should come last")
		}
	})

	t.Run("duplication targets are listed once", func(t *testing.T) {
		b := parse(t, "R:RR......"+emptyRows)

		targets := map[Cell]int{}
		for move := range b.Movements() {
			if distance(move) == 1 {
				targets[move.To]++
			}
		}
		for cell, count := range targets {
			require.Equal(t, 1, count, "Target %s should be reachable by a single duplication", cell)
		}
	})

	t.Run("holes and blobs block targets", func(t *testing.T) {
		b := parse(t, "R:R#....../##......"+strings.Repeat("/........", 5)+"/.......B")

		moves := slices.Collect(b.Movements())

		require.NotContains(t, moves, Move{From: Cell{0, 0}, To: Cell{1, 0}}, "Holes cannot be entered")
		require.Contains(t, moves, Move{From: Cell{0, 0}, To: Cell{2, 0}}, "Jumps may pass over holes")
	})

	t.Run("stopping iteration early", func(t *testing.T) {
		count := 0
		for range NewBoard().Movements() {
			count++
			if count == 3 {
				break
			}
		}
		require.Equal(t, 3, count)
	})
}

func TestBoardApply(t *testing.T) {
	t.Run("duplication converts adjacent opponents", func(t *testing.T) {
		b := parse(t, "R:RB......"+emptyRows)

		next := b.Apply(Move{From: Cell{0, 0}, To: Cell{0, 1}})

		require.Equal(t, 3, next.Count(Red), "Red should keep its origin, gain the target and convert b1")
		require.Equal(t, 0, next.Count(Blue))
		require.Equal(t, Blue, next.Player(), "Turn should pass to blue")
		require.Equal(t, int8(3), next.Value(), "Value should be seen from red, the last mover")
		require.True(t, IsTerminal(next), "Blue without blobs has no movement")
		require.Equal(t, 2, b.Count(Red)+b.Count(Blue), "Original board should not change")
	})

	t.Run("jump empties its origin", func(t *testing.T) {
		b := parse(t, "R:RB......"+emptyRows)

		next := b.Apply(Move{From: Cell{0, 0}, To: Cell{2, 0}})

		require.Equal(t, 2, next.Count(Red), "Red should move to c1 and convert b1")
		require.Equal(t, byte('.'), next.symbol(0), "Origin should be empty after a jump")
	})
}

func TestBoardText(t *testing.T) {
	t.Run("encoding the starting position", func(t *testing.T) {
		text, err := NewBoard().MarshalText()

		require.NoError(t, err)
		require.Equal(t, "R:R......B"+strings.Repeat("/........", 6)+"/B......R", string(text))
		require.Equal(t, NewBoard(), parse(t, string(text)), "Decoding should restore the board")
	})

	t.Run("rejecting malformed boards", func(t *testing.T) {
		var b Board
		require.Error(t, b.UnmarshalText([]byte("R......B")), "Missing player")
		require.Error(t, b.UnmarshalText([]byte("X:R......B"+emptyRows)), "Unknown player")
		require.Error(t, b.UnmarshalText([]byte("R:R......B")), "Missing rows")
		require.Error(t, b.UnmarshalText([]byte("R:R.....xB"+emptyRows)), "Unknown cell")
	})
}

func TestBoardWinner(t *testing.T) {
	winner, ok := parse(t, "B:RRB....."+emptyRows).Winner()
	require.True(t, ok)
	require.Equal(t, Red, winner)

	_, ok = NewBoard().Winner()
	require.False(t, ok, "Equal blob counts should be a draw")
}

func distance(m Move) int {
	return max(abs(int(m.From.X)-int(m.To.X)), abs(int(m.From.Y)-int(m.To.Y)))
}
