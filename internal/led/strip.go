// Package led is the output side of the clock: a frame buffer that is
// pushed to a WS2812 strip in the background while the next frame is built.
package led

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// ErrBusy is returned by Refresh while the previous frame is still being
// written.
var ErrBusy = errors.New("led: transfer in progress")

// Writer pushes one frame of 3*N bytes (R, G, B per pixel) to the hardware.
type Writer interface {
	Write(pixels []byte) (int, error)
}

// Strip buffers pixels and writes them through a Writer on a background
// goroutine. Busy reports an in-flight transfer.
type Strip struct {
	w     Writer
	count int
	log   zerolog.Logger

	mu  sync.Mutex
	buf []byte
	tx  []byte
	err error

	busy     atomic.Bool
	inflight sync.WaitGroup
	frames   atomic.Uint64

	obsMu   sync.RWMutex
	onFrame []func(frame []byte)
}

type Option func(*Strip)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Strip) { s.log = l }
}

// NewStrip wraps w for count pixels.
func NewStrip(w Writer, count int, opts ...Option) (*Strip, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	s := &Strip{
		w:     w,
		count: count,
		log:   zerolog.Nop(),
		buf:   make([]byte, 3*count),
		tx:    make([]byte, 3*count),
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

func (s *Strip) Count() int { return s.count }

// SetLed sets pixel i. Indices outside the strip are ignored.
func (s *Strip) SetLed(i int, c RGB) {
	if i < 0 || i >= s.count {
		return
	}
	s.mu.Lock()
	s.buf[3*i], s.buf[3*i+1], s.buf[3*i+2] = c.R, c.G, c.B
	s.mu.Unlock()
}

func (s *Strip) SetAll(c RGB) {
	s.mu.Lock()
	for i := 0; i < s.count; i++ {
		s.buf[3*i], s.buf[3*i+1], s.buf[3*i+2] = c.R, c.G, c.B
	}
	s.mu.Unlock()
}

// Refresh starts writing the buffered frame. It returns ErrBusy while the
// previous transfer runs and otherwise the error of the previous transfer,
// if any.
func (s *Strip) Refresh() error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	s.mu.Lock()
	copy(s.tx, s.buf)
	prev := s.err
	s.err = nil
	s.mu.Unlock()

	s.inflight.Add(1)
	go s.transfer()
	return prev
}

// transfer clears busy as soon as the writer returns. Observers run after
// that on their own copy of the frame.
func (s *Strip) transfer() {
	defer s.inflight.Done()

	_, err := s.w.Write(s.tx)
	if err != nil {
		s.log.Warn().Err(err).Msg("led write failed")
		s.mu.Lock()
		s.err = fmt.Errorf("led write: %w", err)
		s.mu.Unlock()
		s.busy.Store(false)
		return
	}
	n := s.frames.Add(1)

	s.obsMu.RLock()
	obs := s.onFrame
	s.obsMu.RUnlock()
	var frame []byte
	if len(obs) > 0 {
		frame = append([]byte(nil), s.tx...)
	}
	s.busy.Store(false)
	s.log.Trace().Uint64("frame", n).Msg("frame written")

	for _, fn := range obs {
		fn(frame)
	}
}

func (s *Strip) Busy() bool { return s.busy.Load() }

// Frames is the number of frames written successfully.
func (s *Strip) Frames() uint64 { return s.frames.Load() }

// OnFrame registers fn to be called with every written frame. fn runs on
// the transfer goroutine after Busy has cleared, so calls for consecutive
// frames may overlap. The slice belongs to fn.
func (s *Strip) OnFrame(fn func(frame []byte)) {
	s.obsMu.Lock()
	s.onFrame = append(s.onFrame, fn)
	s.obsMu.Unlock()
}

// Snapshot copies the frame buffer.
func (s *Strip) Snapshot() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, len(s.buf))
	copy(out, s.buf)
	return out
}

// Wait blocks until the current transfer has finished.
func (s *Strip) Wait() { s.inflight.Wait() }

// Close waits for the last transfer and closes the writer when it can be
// closed.
func (s *Strip) Close() error {
	s.Wait()
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
