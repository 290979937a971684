// Package scene holds the per-LED state of the clock face.
//
// Every LED carries four flags. Target is what the next scene should show,
// Current is what is shown now. Next and Calc are scratch bits the
// animations use while building a frame.
package scene

import (
	"github.com/coreman2200/funtimes-wordclock/internal/layout"
	"github.com/coreman2200/funtimes-wordclock/internal/words"
)

// Flags is the 4-bit state of one LED.
type Flags uint8

const (
	Current Flags = 1 << iota
	Target
	Next
	Calc
)

func (f Flags) Has(m Flags) bool { return f&m == m }

// Scene is the double-buffered state of all LEDs of one layout.
type Scene struct {
	l     layout.Layout
	state []Flags
}

func New(l layout.Layout) *Scene {
	return &Scene{l: l, state: make([]Flags, l.Count())}
}

func (s *Scene) Layout() layout.Layout { return s.l }

func (s *Scene) Len() int { return len(s.state) }

// At returns the flags of LED i.
func (s *Scene) At(i int) Flags { return s.state[i] }

// AtPos returns the flags of the LED at row, col. Positions outside the
// matrix read as zero.
func (s *Scene) AtPos(row, col int) Flags {
	if !s.l.Contains(row, col) {
		return 0
	}
	return s.state[s.l.Index(row, col)]
}

func (s *Scene) Mark(i int, f Flags)   { s.state[i] |= f }
func (s *Scene) Unmark(i int, f Flags) { s.state[i] &^= f }

// MarkPos sets f on the LED at row, col if it is on the matrix.
func (s *Scene) MarkPos(row, col int, f Flags) {
	if s.l.Contains(row, col) {
		s.state[s.l.Index(row, col)] |= f
	}
}

// ClearAll removes f from every LED.
func (s *Scene) ClearAll(f Flags) {
	for i := range s.state {
		s.state[i] &^= f
	}
}

// SetTarget replaces the Target bits with the LEDs of ids. ES and IST are
// always part of a powered scene. Without power every flag is cleared.
func (s *Scene) SetTarget(ids []words.ID, power bool) {
	if !power {
		for i := range s.state {
			s.state[i] = 0
		}
		return
	}
	s.ClearAll(Target)
	s.markWord(words.ES)
	s.markWord(words.IST)
	for _, id := range ids {
		s.markWord(id)
	}
}

func (s *Scene) markWord(id words.ID) {
	w, ok := words.Lookup(id)
	if !ok {
		return
	}
	for _, i := range s.l.Word(w.Rect) {
		if i < len(s.state) {
			s.state[i] |= Target
		}
	}
}

// Flush makes Current equal Target on every LED. Next and Calc are left as
// they are.
func (s *Scene) Flush() {
	for i, f := range s.state {
		if f&Target != 0 {
			s.state[i] = f | Current
		} else {
			s.state[i] = f &^ Current
		}
	}
}

// ResetForNewAnimation sets Current on every target LED, as Flush does, and
// clears every flag of all other LEDs. Unlike Flush it also wipes the Next
// and Calc bits of LEDs outside the target.
func (s *Scene) ResetForNewAnimation() {
	for i, f := range s.state {
		if f&Target != 0 {
			s.state[i] = f | Current
		} else {
			s.state[i] = 0
		}
	}
}

// Diff counts LEDs whose Current and Target bits disagree.
func (s *Scene) Diff() int {
	n := 0
	for _, f := range s.state {
		if (f&Current != 0) != (f&Target != 0) {
			n++
		}
	}
	return n
}

func (s *Scene) Quiescent() bool { return s.Diff() == 0 }

// Mask returns, per LED, whether f is set.
func (s *Scene) Mask(f Flags) []bool {
	out := make([]bool, len(s.state))
	for i, v := range s.state {
		out[i] = v&f != 0
	}
	return out
}
