// Package store is the byte addressed settings memory of the clock: an
// EEPROM image kept in a file, or in memory for tests and dry runs.
package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// ErrRange is returned for accesses past the end of the store.
var ErrRange = errors.New("store: access out of range")

// DefaultSize matches a small I2C EEPROM page.
const DefaultSize = 64

// erased is the content of never written cells.
const erased = 0xFF

type Store interface {
	Read(offset, n int) ([]byte, error)
	Write(offset int, b []byte) error
}

func check(offset, n, size int) error {
	if offset < 0 || n < 0 || offset+n > size {
		return fmt.Errorf("%w: [%d, %d) of %d", ErrRange, offset, offset+n, size)
	}
	return nil
}

type Memory struct {
	mu   sync.Mutex
	data []byte
}

func NewMemory(size int) *Memory {
	m := &Memory{data: make([]byte, size)}
	for i := range m.data {
		m.data[i] = erased
	}
	return m
}

func (m *Memory) Read(offset, n int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := check(offset, n, len(m.data)); err != nil {
		return nil, err
	}
	return append([]byte(nil), m.data[offset:offset+n]...), nil
}

func (m *Memory) Write(offset int, b []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := check(offset, len(b), len(m.data)); err != nil {
		return err
	}
	copy(m.data[offset:], b)
	return nil
}

// File keeps the image in a file of fixed size. Every write is synced.
type File struct {
	mu   sync.Mutex
	f    *os.File
	size int
}

// NewFile opens or creates the image at path, extending it with erased
// cells up to size.
func NewFile(path string, size int) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat store: %w", err)
	}
	if have := int(st.Size()); have < size {
		pad := make([]byte, size-have)
		for i := range pad {
			pad[i] = erased
		}
		if _, err := f.WriteAt(pad, int64(have)); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("init store: %w", err)
		}
	}
	return &File{f: f, size: size}, nil
}

func (s *File) Read(offset, n int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := check(offset, n, s.size); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := s.f.ReadAt(b, int64(offset)); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read store: %w", err)
	}
	return b, nil
}

func (s *File) Write(offset int, b []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := check(offset, len(b), s.size); err != nil {
		return err
	}
	if _, err := s.f.WriteAt(b, int64(offset)); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	return s.f.Sync()
}

func (s *File) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}
