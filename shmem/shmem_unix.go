//go:build unix

package shmem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"unsafe"

	"blobwar/meta"

	"golang.org/x/sys/unix"
)

type Option func(c *config)

type config struct {
	dir string
}

// WithDir places the segment in dir instead of the shared memory file system.
func WithDir(dir string) Option {
	return func(c *config) {
		if dir != "" {
			c.dir = dir
		}
	}
}

func defaultDir() string {
	if info, err := os.Stat(meta.SEGMENT_DIR); err == nil && info.IsDir() {
		return meta.SEGMENT_DIR
	}
	return os.TempDir()
}

func segmentPath(name string, options []Option) (string, error) {
	if name == "" || strings.ContainsRune(name, '/') {
		return "", fmt.Errorf("invalid shared move name %q", name)
	}
	c := config{dir: defaultDir()}
	for _, option := range options {
		option(&c)
	}
	return filepath.Join(c.dir, name), nil
}

// AtomicMove is a handle on a named shared memory segment holding the best
// move found so far. One process stores, any number of processes load; every
// access is a single atomic 64-bit operation so readers never see a partial
// write. A handle must not be closed while it is being used.
type AtomicMove struct {
	path string
	data []byte
	slot *atomic.Uint64
}

// Create makes a new zeroed segment; Load reports ErrNotPublished until the
// first Store. It fails if the segment already exists.
func Create(name string, options ...Option) (*AtomicMove, error) {
	path, err := segmentPath(name, options)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed creating shared move %q: %w", name, err)
	}
	defer f.Close()

	if err := f.Truncate(recordSize); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed sizing shared move %q: %w", name, err)
	}
	m, err := mapSegment(f, path)
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	return m, nil
}

// Connect opens a segment previously made by Create. It does not retry.
func Connect(name string, options ...Option) (*AtomicMove, error) {
	path, err := segmentPath(name, options)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("failed connecting to shared move %q: %w", name, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed connecting to shared move %q: %w", name, err)
	}
	if info.Size() != recordSize {
		return nil, fmt.Errorf("failed connecting to shared move %q: segment has %d bytes, expected %d",
			name, info.Size(), recordSize)
	}
	return mapSegment(f, path)
}

func mapSegment(f *os.File, path string) (*AtomicMove, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, recordSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("failed mapping %s: %w", path, err)
	}
	// Mappings are page aligned, so the word is aligned for atomic access.
	return &AtomicMove{
		path: path,
		data: data,
		slot: (*atomic.Uint64)(unsafe.Pointer(&data[0])),
	}, nil
}

// Store overwrites the slot with p.
func (m *AtomicMove) Store(p Publication) error {
	if m.slot == nil {
		return ErrClosed
	}
	m.slot.Store(encode(p))
	return nil
}

// Load returns the last stored publication, or ErrNotPublished.
func (m *AtomicMove) Load() (Publication, error) {
	if m.slot == nil {
		return Publication{}, ErrClosed
	}
	return decode(m.slot.Load())
}

func (m *AtomicMove) Path() string {
	return m.path
}

// Close unmaps the segment. The segment itself survives until Remove.
func (m *AtomicMove) Close() error {
	if m.data == nil {
		return nil
	}
	m.slot = nil
	err := unix.Munmap(m.data)
	m.data = nil
	if err != nil {
		return fmt.Errorf("failed unmapping %s: %w", m.path, err)
	}
	return nil
}

// Remove deletes the segment name. Open mappings keep working.
func (m *AtomicMove) Remove() error {
	err := os.Remove(m.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed removing %s: %w", m.path, err)
	}
	return nil
}
