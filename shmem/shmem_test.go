//go:build unix

package shmem

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"blobwar/game"

	"github.com/stretchr/testify/require"
)

func create(t *testing.T) (*AtomicMove, string, string) {
	t.Helper()
	dir := t.TempDir()
	name := "blobwar-test"
	m, err := Create(name, WithDir(dir))
	require.NoError(t, err)
	t.Cleanup(func() {
		m.Close()
		m.Remove()
	})
	return m, name, dir
}

func publication(k int) Publication {
	return Publication{
		Move: game.Move{
			From: game.Cell{X: uint8(k % 8), Y: uint8(k * 3 % 8)},
			To:   game.Cell{X: uint8(k * 5 % 8), Y: uint8(k * 7 % 8)},
		},
		Found: true,
		Depth: uint8(k),
	}
}

func TestAtomicMove(t *testing.T) {
	t.Run("Connecting to a missing segment fails", func(t *testing.T) {
		_, err := Connect("missing", WithDir(t.TempDir()))
		require.Error(t, err)
		require.True(t, errors.Is(err, fs.ErrNotExist), "Should wrap the open error")
	})

	t.Run("Names must not contain a path separator", func(t *testing.T) {
		_, err := Create("a/b", WithDir(t.TempDir()))
		require.Error(t, err)
		_, err = Connect("", WithDir(t.TempDir()))
		require.Error(t, err)
	})

	t.Run("A fresh segment has nothing published", func(t *testing.T) {
		m, _, _ := create(t)
		_, err := m.Load()
		require.ErrorIs(t, err, ErrNotPublished)
	})

	t.Run("Creating an existing segment fails", func(t *testing.T) {
		_, name, dir := create(t)
		_, err := Create(name, WithDir(dir))
		require.Error(t, err)
	})

	t.Run("A segment of the wrong size is rejected", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "short"), []byte{1, 2, 3}, 0o600))
		_, err := Connect("short", WithDir(dir))
		require.Error(t, err)
	})

	t.Run("Stores are visible through another handle", func(t *testing.T) {
		writer, name, dir := create(t)
		reader, err := Connect(name, WithDir(dir))
		require.NoError(t, err)
		defer reader.Close()

		for _, want := range []Publication{publication(3), {Depth: 4}, publication(5)} {
			require.NoError(t, writer.Store(want))
			got, err := reader.Load()
			require.NoError(t, err)
			require.Equal(t, want, got, "Should see the last store")
		}
	})

	t.Run("The record survives the writer closing", func(t *testing.T) {
		writer, name, dir := create(t)
		require.NoError(t, writer.Store(publication(6)))
		require.NoError(t, writer.Close())

		reader, err := Connect(name, WithDir(dir))
		require.NoError(t, err)
		defer reader.Close()
		got, err := reader.Load()
		require.NoError(t, err)
		require.Equal(t, publication(6), got)
	})

	t.Run("A closed handle refuses access", func(t *testing.T) {
		m, _, _ := create(t)
		require.NoError(t, m.Close())
		require.ErrorIs(t, m.Store(publication(1)), ErrClosed)
		_, err := m.Load()
		require.ErrorIs(t, err, ErrClosed)
		require.NoError(t, m.Close(), "Should allow closing twice")
	})

	t.Run("Concurrent loads never observe a torn record", func(t *testing.T) {
		writer, name, dir := create(t)
		reader, err := Connect(name, WithDir(dir))
		require.NoError(t, err)
		defer reader.Close()

		valid := map[Publication]bool{}
		for k := range 64 {
			valid[publication(k)] = true
		}

		var wg sync.WaitGroup
		done := make(chan struct{})
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer close(done)
			for i := range 200_000 {
				writer.Store(publication(i % 64))
			}
		}()

		loads := 0
	loop:
		for {
			select {
			case <-done:
				break loop
			default:
			}
			got, err := reader.Load()
			loads++
			if errors.Is(err, ErrNotPublished) {
				continue
			}
			require.NoError(t, err)
			require.True(t, valid[got], "Should only observe stored publications, got %v", got)
		}
		wg.Wait()
		require.Positive(t, loads)
	})
}
