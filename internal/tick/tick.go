// Package tick is the scheduler clock of the main loop. A timer goroutine
// raises a pending flag; the loop takes it and runs one animation step.
package tick

import (
	"context"
	"sync/atomic"
	"time"
)

const DefaultFPS = 30

// Bounds of the tick rate.
const (
	MinFPS = 25
	MaxFPS = 40
)

// Source is a single-writer single-reader pending flag.
type Source struct {
	interval time.Duration
	pending  atomic.Bool
	fired    atomic.Uint64
	overrun  atomic.Uint64
	ch       chan struct{}
}

// New returns a source firing fps times per second, clamped to
// [MinFPS, MaxFPS].
func New(fps int) *Source {
	if fps < MinFPS {
		fps = MinFPS
	}
	if fps > MaxFPS {
		fps = MaxFPS
	}
	return &Source{
		interval: time.Second / time.Duration(fps),
		ch:       make(chan struct{}, 1),
	}
}

func (s *Source) Interval() time.Duration { return s.interval }

// Fire raises the pending flag. A tick that finds the flag still raised
// counts as an overrun.
func (s *Source) Fire() {
	s.fired.Add(1)
	if s.pending.Swap(true) {
		s.overrun.Add(1)
		return
	}
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// Take clears the flag and reports whether it was raised.
func (s *Source) Take() bool {
	return s.pending.CompareAndSwap(true, false)
}

// C is signalled whenever the flag goes up, so a loop can block instead
// of spinning. Take must still be called.
func (s *Source) C() <-chan struct{} { return s.ch }

func (s *Source) Fired() uint64    { return s.fired.Load() }
func (s *Source) Overruns() uint64 { return s.overrun.Load() }

// Run fires every interval until ctx is done.
func (s *Source) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Fire()
		case <-ctx.Done():
			return
		}
	}
}
