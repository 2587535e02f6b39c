package searcher

import (
	"iter"

	"blobwar/game"

	"golang.org/x/exp/rand"
)

// mockState is an explicit game tree. Move i leads to children[i].
type mockState struct {
	value    int8
	children []*mockState
}

func (m *mockState) Player() game.Player {
	return game.Red
}

func (m *mockState) Movements() iter.Seq[game.Move] {
	return func(yield func(game.Move) bool) {
		for i := range m.children {
			if !yield(mockMove(i)) {
				return
			}
		}
	}
}

func (m *mockState) Play(move game.Move) game.State {
	return m.children[move.To.X]
}

func (m *mockState) Value() int8 {
	return m.value
}

func mockMove(i int) game.Move {
	return game.Move{To: game.Cell{X: uint8(i)}}
}

func leaf(value int8) *mockState {
	return &mockState{value: value}
}

func node(children ...*mockState) *mockState {
	return &mockState{children: children}
}

// randomTree builds a tree of the given height whose root always has
// movements. Values are drawn from a narrow range so that ties are common.
func randomTree(r *rand.Rand, height, maxBranching int) *mockState {
	root := randomSubtree(r, height, maxBranching)
	for len(root.children) == 0 && height > 0 {
		root.children = append(root.children, randomSubtree(r, height-1, maxBranching))
	}
	return root
}

func randomSubtree(r *rand.Rand, height, maxBranching int) *mockState {
	s := &mockState{value: int8(r.Intn(9) - 4)}
	if height == 0 {
		return s
	}
	for i := r.Intn(maxBranching + 1); i > 0; i-- {
		s.children = append(s.children, randomSubtree(r, height-1, maxBranching))
	}
	return s
}

// allEngines returns one engine of every searching kind at the given depth.
func allEngines(depth int, options ...Option) []Engine {
	return []Engine{
		NewMinMax(depth, options...),
		NewAlphaBeta(depth, options...),
		NewParallel(depth, options...),
	}
}
