package game

import (
	"fmt"
	"iter"
)

// Cell is a board coordinate, X is the column and Y the row.
type Cell struct {
	X uint8
	Y uint8
}

func (c Cell) String() string {
	return fmt.Sprintf("%c%d", 'a'+c.X, c.Y+1)
}

// Move is a blob movement from one cell to another. It is plain data and may
// be copied and compared freely.
type Move struct {
	From Cell
	To   Cell
}

func (m Move) String() string {
	return m.From.String() + m.To.String()
}

type Player uint8

const (
	Red Player = iota
	Blue
)

func (p Player) Opponent() Player {
	return 1 - p
}

func (p Player) String() string {
	if p == Red {
		return "red"
	}
	return "blue"
}

// State should be immutable - Play always returns a new state.
//
// Movements yields the legal moves of the player to move in a deterministic
// order; a state without movements is terminal. Value is the static
// evaluation from the point of view of the player who made the last move,
// i.e. the opponent of Player().
type State interface {
	Player() Player
	Movements() iter.Seq[Move]
	Play(Move) State
	Value() int8
}

// IsTerminal reports whether the state has no legal movement.
func IsTerminal(state State) bool {
	for range state.Movements() {
		return false
	}
	return true
}

// FirstMovement returns the first legal movement of the state, if any.
func FirstMovement(state State) (Move, bool) {
	for move := range state.Movements() {
		return move, true
	}
	return Move{}, false
}
