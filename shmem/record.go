package shmem

import (
	"errors"
	"fmt"

	"blobwar/game"
)

var (
	// ErrNotPublished is returned by Load while the writer has not stored
	// anything yet, e.g. when the first search depth did not complete.
	ErrNotPublished = errors.New("no move published yet")
	ErrCorrupt      = errors.New("corrupt shared move record")
	ErrClosed       = errors.New("shared move is closed")
)

// Publication is the content of the shared slot. Found is false when the
// searched position has no legal move.
type Publication struct {
	Move  game.Move
	Found bool
	Depth uint8
}

func (p Publication) String() string {
	if !p.Found {
		return fmt.Sprintf("no move (depth %d)", p.Depth)
	}
	return fmt.Sprintf("%s (depth %d)", p.Move, p.Depth)
}

// A record packs a publication in one 64-bit word so that it can be written
// and read with a single atomic operation:
//
//	byte 0: tag, byte 1: depth, bytes 2-5: from.x, from.y, to.x, to.y
const recordSize = 8

const (
	tagEmpty uint64 = iota // zeroed segment, never written
	tagNoMove
	tagMove
)

func encode(p Publication) uint64 {
	if !p.Found {
		return tagNoMove | uint64(p.Depth)<<8
	}
	return tagMove |
		uint64(p.Depth)<<8 |
		uint64(p.Move.From.X)<<16 |
		uint64(p.Move.From.Y)<<24 |
		uint64(p.Move.To.X)<<32 |
		uint64(p.Move.To.Y)<<40
}

func decode(record uint64) (Publication, error) {
	if record>>48 != 0 {
		return Publication{}, fmt.Errorf("%w: %#x", ErrCorrupt, record)
	}
	depth := uint8(record >> 8)
	switch record & 0xff {
	case tagEmpty:
		if record != 0 {
			return Publication{}, fmt.Errorf("%w: %#x", ErrCorrupt, record)
		}
		return Publication{}, ErrNotPublished
	case tagNoMove:
		if record>>16 != 0 {
			return Publication{}, fmt.Errorf("%w: %#x", ErrCorrupt, record)
		}
		return Publication{Depth: depth}, nil
	case tagMove:
		return Publication{
			Move: game.Move{
				From: game.Cell{X: uint8(record >> 16), Y: uint8(record >> 24)},
				To:   game.Cell{X: uint8(record >> 32), Y: uint8(record >> 40)},
			},
			Found: true,
			Depth: depth,
		}, nil
	default:
		return Publication{}, fmt.Errorf("%w: %#x", ErrCorrupt, record)
	}
}
