package game

import (
	"fmt"
	"iter"
	"math/bits"
	"strings"

	"github.com/samber/lo"
)

// Size is the width and height of the board.
const Size = 8

const numCells = Size * Size

type bitboard uint64

var (
	ring1 [numCells]bitboard // cells at distance 1
	ring2 [numCells]bitboard // cells at distance 2
)

func init() {
	for i := 0; i < numCells; i++ {
		x, y := i%Size, i/Size
		for dy := -2; dy <= 2; dy++ {
			for dx := -2; dx <= 2; dx++ {
				tx, ty := x+dx, y+dy
				if tx < 0 || ty < 0 || tx >= Size || ty >= Size {
					continue
				}
				switch max(abs(dx), abs(dy)) {
				case 1:
					ring1[i] |= 1 << (ty*Size + tx)
				case 2:
					ring2[i] |= 1 << (ty*Size + tx)
				}
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func index(c Cell) int {
	return int(c.Y)*Size + int(c.X)
}

func cellAt(i int) Cell {
	return Cell{X: uint8(i % Size), Y: uint8(i / Size)}
}

// Board is a Blobwar configuration: blobs of both players, holes and the
// player to move. It is a value type so copies never share state.
type Board struct {
	blobs  [2]bitboard
	holes  bitboard
	player Player
}

// NewBoard returns the standard starting position: red in the a1 and h8
// corners, blue in the h1 and a8 corners, red to move.
func NewBoard() Board {
	var b Board
	b.blobs[Red] = 1<<index(Cell{0, 0}) | 1<<index(Cell{Size - 1, Size - 1})
	b.blobs[Blue] = 1<<index(Cell{Size - 1, 0}) | 1<<index(Cell{0, Size - 1})
	return b
}

func (b Board) Player() Player {
	return b.player
}

// Count returns the number of blobs owned by p.
func (b Board) Count(p Player) int {
	return bits.OnesCount64(uint64(b.blobs[p]))
}

func (b Board) free() bitboard {
	return ^(b.blobs[Red] | b.blobs[Blue] | b.holes)
}

// Movements yields duplications first, one per reachable target in cell
// order, then jumps ordered by origin and target.
func (b Board) Movements() iter.Seq[Move] {
	return func(yield func(Move) bool) {
		own := b.blobs[b.player]
		free := b.free()

		var duplicates bitboard
		for from := own; from != 0; from &= from - 1 {
			duplicates |= ring1[bits.TrailingZeros64(uint64(from))]
		}
		for to := duplicates & free; to != 0; to &= to - 1 {
			t := bits.TrailingZeros64(uint64(to))
			f := bits.TrailingZeros64(uint64(ring1[t] & own))
			if !yield(Move{From: cellAt(f), To: cellAt(t)}) {
				return
			}
		}

		for from := own; from != 0; from &= from - 1 {
			f := bits.TrailingZeros64(uint64(from))
			for to := ring2[f] & free; to != 0; to &= to - 1 {
				t := bits.TrailingZeros64(uint64(to))
				if !yield(Move{From: cellAt(f), To: cellAt(t)}) {
					return
				}
			}
		}
	}
}

func (b Board) Play(move Move) State {
	return b.Apply(move)
}

// Apply plays a legal move and returns the resulting board. Adjacent
// opponent blobs are converted and the turn passes to the opponent.
func (b Board) Apply(move Move) Board {
	own, opp := b.player, b.player.Opponent()
	from, to := index(move.From), index(move.To)

	next := b
	if ring2[from]&(1<<to) != 0 {
		next.blobs[own] &^= 1 << from
	}
	next.blobs[own] |= 1 << to
	converted := ring1[to] & next.blobs[opp]
	next.blobs[opp] &^= converted
	next.blobs[own] |= converted
	next.player = opp
	return next
}

// Value returns how many more blobs the last mover owns than the player to move.
func (b Board) Value() int8 {
	return int8(b.Count(b.player.Opponent()) - b.Count(b.player))
}

// Winner returns the player owning more blobs, false on a draw.
func (b Board) Winner() (Player, bool) {
	red, blue := b.Count(Red), b.Count(Blue)
	switch {
	case red > blue:
		return Red, true
	case blue > red:
		return Blue, true
	default:
		return Red, false
	}
}

func (b Board) symbol(i int) byte {
	switch {
	case b.blobs[Red]&(1<<i) != 0:
		return 'R'
	case b.blobs[Blue]&(1<<i) != 0:
		return 'B'
	case b.holes&(1<<i) != 0:
		return '#'
	default:
		return '.'
	}
}

// MarshalText encodes the board as the player to move followed by the rows
// separated by slashes, e.g. "R:R......B/......../.../B......R".
func (b Board) MarshalText() ([]byte, error) {
	rows := lo.Times(Size, func(y int) string {
		row := make([]byte, Size)
		for x := range row {
			row[x] = b.symbol(y*Size + x)
		}
		return string(row)
	})
	player := "R"
	if b.player == Blue {
		player = "B"
	}
	return []byte(player + ":" + strings.Join(rows, "/")), nil
}

func (b *Board) UnmarshalText(text []byte) error {
	player, grid, ok := strings.Cut(string(text), ":")
	if !ok {
		return fmt.Errorf("invalid board %q: missing player", text)
	}
	var parsed Board
	switch player {
	case "R":
		parsed.player = Red
	case "B":
		parsed.player = Blue
	default:
		return fmt.Errorf("invalid board %q: unknown player %q", text, player)
	}

	rows := strings.Split(grid, "/")
	if len(rows) != Size {
		return fmt.Errorf("invalid board %q: expected %d rows, got %d", text, Size, len(rows))
	}
	for y, row := range rows {
		if len(row) != Size {
			return fmt.Errorf("invalid board %q: row %d has %d cells", text, y+1, len(row))
		}
		for x := 0; x < Size; x++ {
			bit := bitboard(1) << (y*Size + x)
			switch row[x] {
			case 'R':
				parsed.blobs[Red] |= bit
			case 'B':
				parsed.blobs[Blue] |= bit
			case '#':
				parsed.holes |= bit
			case '.':
			default:
				return fmt.Errorf("invalid board %q: unknown cell %q", text, row[x])
			}
		}
	}
	*b = parsed
	return nil
}

// String renders the board top row first, as it is displayed to humans.
func (b Board) String() string {
	rows := lo.Times(Size, func(i int) string {
		y := Size - 1 - i
		var sb strings.Builder
		fmt.Fprintf(&sb, "%d ", y+1)
		for x := 0; x < Size; x++ {
			sb.WriteByte(b.symbol(y*Size + x))
		}
		return sb.String()
	})
	return fmt.Sprintf("%s\n  abcdefgh\n%s to move (red %d, blue %d)",
		strings.Join(rows, "\n"), b.player, b.Count(Red), b.Count(Blue))
}
