// Package selftest drives wiring checks across the plate: one LED at a
// time, each colour channel, one row at a time.
package selftest

import (
	"errors"
	"fmt"

	"github.com/coreman2200/funtimes-wordclock/internal/layout"
	"github.com/coreman2200/funtimes-wordclock/internal/led"
)

type Kind string

const (
	None       Kind = ""
	IndexSweep Kind = "index_sweep"
	RGBTest    Kind = "rgb_channels"
	RowSweep   Kind = "row_sweep"
)

// Kinds lists the runnable checks.
var Kinds = []Kind{IndexSweep, RGBTest, RowSweep}

var ErrUnknownKind = errors.New("unknown self test")

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return None, fmt.Errorf("%w %q", ErrUnknownKind, s)
}

// Output is the part of the strip a check draws on.
type Output interface {
	SetLed(i int, c led.RGB)
	SetAll(c led.RGB)
}

// rgbHold is the number of frames each channel of RGBTest stays lit.
const rgbHold = 15

var (
	white = led.RGB{R: 255, G: 255, B: 255}
	cyan  = led.RGB{G: 255, B: 255}
)

type Runner struct {
	kind Kind
	step int
}

func NewRunner(kind Kind) *Runner { return &Runner{kind: kind} }
func (r *Runner) Kind() Kind      { return r.kind }

// Step draws the next frame into out; returns false when complete, in which
// case out is left dark.
func (r *Runner) Step(l layout.Layout, out Output) bool {
	out.SetAll(led.Off)

	switch r.kind {
	case IndexSweep:
		idx := r.step
		if idx >= l.Count() {
			return false
		}
		out.SetLed(idx, white)
	case RGBTest:
		phase := r.step / rgbHold
		if phase >= 3 {
			return false
		}
		c := [3]led.RGB{{R: 255}, {G: 255}, {B: 255}}[phase]
		out.SetAll(c)
	case RowSweep:
		row := r.step
		if row >= l.Dim.Rows {
			return false
		}
		for col := 0; col < l.Dim.Columns; col++ {
			out.SetLed(l.Index(row, col), cyan)
		}
	default:
		return false
	}
	r.step++
	return true
}
