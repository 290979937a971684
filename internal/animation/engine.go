// Package animation moves the clock face from its current scene to the
// target scene, one frame per scheduler tick.
package animation

import (
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-wordclock/internal/brightness"
	"github.com/coreman2200/funtimes-wordclock/internal/led"
	"github.com/coreman2200/funtimes-wordclock/internal/scene"
)

// Output is the LED driver the frames go to.
type Output interface {
	SetLed(i int, c led.RGB)
	SetAll(c led.RGB)
	Refresh() error
	Busy() bool
}

// Levels supplies the colour levels of a fully lit LED.
type Levels interface {
	Levels() [brightness.Channels]int
}

// Rand picks roll directions and random effects. *math/rand.Rand satisfies
// it.
type Rand interface {
	Intn(n int) int
}

// Observer is told about animation progress.
type Observer interface {
	Started(e Effect)
	Finished(e Effect, ticks int)
	Skipped()
}

type nopObserver struct{}

func (nopObserver) Started(Effect)       {}
func (nopObserver) Finished(Effect, int) {}
func (nopObserver) Skipped()             {}

// DefaultBusyWait bounds the wait for the output before a tick is skipped.
const DefaultBusyWait = 2 * time.Millisecond

// Engine runs one animation at a time over a scene. It is not safe for
// concurrent use; the main loop owns it.
type Engine struct {
	sc       *scene.Scene
	out      Output
	br       Levels
	rng      Rand
	obs      Observer
	log      zerolog.Logger
	busyWait time.Duration

	effect  Effect
	stopped bool
	dirty   bool
	ticks   int

	// fade ramps per channel
	level, step, up, down [brightness.Channels]int

	// roll and explode progress
	k, steps int
}

type Option func(*Engine)

func WithRand(r Rand) Option { return func(e *Engine) { e.rng = r } }

func WithObserver(o Observer) Option { return func(e *Engine) { e.obs = o } }

func WithLogger(l zerolog.Logger) Option { return func(e *Engine) { e.log = l } }

// WithBusyWait sets how long a tick waits for a busy output.
func WithBusyWait(d time.Duration) Option { return func(e *Engine) { e.busyWait = d } }

func New(sc *scene.Scene, out Output, br Levels, opts ...Option) *Engine {
	e := &Engine{
		sc:       sc,
		out:      out,
		br:       br,
		obs:      nopObserver{},
		log:      zerolog.Nop(),
		busyWait: DefaultBusyWait,
		stopped:  true,
	}
	for _, o := range opts {
		o(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return e
}

// Stopped reports whether the last animation has finished. A new target
// may only be applied once it has.
func (e *Engine) Stopped() bool { return e.stopped }

// Effect is the running (or last) effect.
func (e *Engine) Effect() Effect { return e.effect }

// Start enters m for the scene's current difference. Roll picks its
// direction and Random its effect here. An animation still running is
// replaced without being completed; callers flush first.
func (e *Engine) Start(m Mode) Effect {
	eff := Effect{Mode: m}
	switch m {
	case Roll:
		eff.Dir = Direction(e.rng.Intn(int(directions)))
	case Random:
		eff = randomEffects[e.rng.Intn(len(randomEffects))]
	case None, Fade, Explode:
	default:
		eff = Effect{Mode: None}
	}
	e.Play(eff)
	return eff
}

// Play enters eff directly.
func (e *Engine) Play(eff Effect) {
	e.effect = eff
	e.stopped = false
	e.ticks = 0
	e.k = 0

	dim := e.sc.Layout().Dim
	switch eff.Mode {
	case Fade:
		e.level = e.br.Levels()
		for ch, l := range e.level {
			e.step[ch] = max(1, l/5)
			e.up[ch] = 0
			e.down[ch] = l
		}
	case Roll:
		e.steps = dim.Rows
		if eff.Dir.horizontal() {
			e.steps = dim.Columns
		}
	case Explode:
		e.steps = dim.Columns / 2
	}
	e.obs.Started(eff)
	e.log.Debug().Stringer("effect", eff).Int("diff", e.sc.Diff()).Msg("animation started")
}

// Tick advances the animation by one frame and pushes it. It returns true
// once the animation has stopped. When the output stays busy past the wait
// bound the tick is skipped and nothing advances.
func (e *Engine) Tick() (bool, error) {
	if e.stopped {
		if e.dirty {
			return true, e.redraw()
		}
		return true, nil
	}
	if !e.ready() {
		e.obs.Skipped()
		return false, nil
	}

	switch e.effect.Mode {
	case Fade:
		e.fade()
	case Roll:
		e.roll()
	case Explode:
		e.explode()
	default:
		e.none()
	}
	e.ticks++

	if e.stopped {
		e.dirty = false
		e.obs.Finished(e.effect, e.ticks)
		e.log.Debug().Stringer("effect", e.effect).Int("ticks", e.ticks).Msg("animation finished")
	}
	if err := e.out.Refresh(); err != nil {
		return e.stopped, fmt.Errorf("refresh: %w", err)
	}
	return e.stopped, nil
}

// Ticks is the number of frames the running (or last) animation pushed.
func (e *Engine) Ticks() int { return e.ticks }

// Flush ends the running animation at its target without drawing. The
// next frame pushed shows the flushed scene.
func (e *Engine) Flush() {
	e.sc.ClearAll(scene.Next | scene.Calc)
	e.sc.Flush()
	if !e.stopped {
		e.stopped = true
		e.obs.Finished(e.effect, e.ticks)
	}
	e.dirty = true
}

// Complete flushes and shows the target with the present colour. The frame
// goes out now if the output is free, otherwise on the next tick.
func (e *Engine) Complete() error {
	e.Flush()
	return e.redraw()
}

func (e *Engine) redraw() error {
	if !e.ready() {
		e.obs.Skipped()
		return nil
	}
	e.dirty = false
	e.show(scene.Current)
	if err := e.out.Refresh(); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	return nil
}

// ready waits at most busyWait for the output.
func (e *Engine) ready() bool {
	if !e.out.Busy() {
		return true
	}
	deadline := time.Now().Add(e.busyWait)
	for e.out.Busy() {
		if time.Now().After(deadline) {
			return false
		}
		runtime.Gosched()
	}
	return true
}

// show lights every LED carrying f at full colour.
func (e *Engine) show(f scene.Flags) {
	on := brightness.Color(e.br.Levels())
	e.out.SetAll(led.Off)
	for i := 0; i < e.sc.Len(); i++ {
		if e.sc.At(i)&f != 0 {
			e.out.SetLed(i, on)
		}
	}
}

func (e *Engine) none() {
	e.sc.Flush()
	e.show(scene.Current)
	e.stopped = true
}

func (e *Engine) fade() {
	done := true
	for ch := range e.up {
		e.up[ch] = min(e.up[ch]+e.step[ch], e.level[ch])
		e.down[ch] = max(e.down[ch]-e.step[ch], 0)
		if e.up[ch] != e.level[ch] || e.down[ch] != 0 {
			done = false
		}
	}

	full := brightness.Color(e.level)
	up := brightness.Color(e.up)
	down := brightness.Color(e.down)
	for i := 0; i < e.sc.Len(); i++ {
		f := e.sc.At(i)
		switch {
		case f.Has(scene.Current | scene.Target):
			e.out.SetLed(i, full)
		case f&scene.Target != 0:
			e.out.SetLed(i, up)
		case f&scene.Current != 0:
			e.out.SetLed(i, down)
		default:
			e.out.SetLed(i, led.Off)
		}
	}

	if done {
		e.sc.ResetForNewAnimation()
		e.stopped = true
	}
}

// roll slides the old scene out in the roll direction while the target
// follows from the opposite edge. At step k a cell shows the Current bit k
// cells behind it, or once that falls off the matrix, the Target bit at the
// wrapped position.
func (e *Engine) roll() {
	e.k++
	s := e.sc
	l := s.Layout()
	rows, cols := l.Dim.Rows, l.Dim.Columns

	s.ClearAll(scene.Next)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			sr, scol := r, c
			switch e.effect.Dir {
			case Right:
				scol = c - e.k
			case Left:
				scol = c + e.k
			case Down:
				sr = r - e.k
			case Up:
				sr = r + e.k
			}
			var lit bool
			if l.Contains(sr, scol) {
				lit = s.AtPos(sr, scol)&scene.Current != 0
			} else {
				lit = s.AtPos(wrap(sr, rows), wrap(scol, cols))&scene.Target != 0
			}
			if lit {
				s.MarkPos(r, c, scene.Next)
			}
		}
	}
	e.show(scene.Next)

	if e.k >= e.steps {
		s.ClearAll(scene.Next)
		s.ResetForNewAnimation()
		e.stopped = true
	}
}

func wrap(v, n int) int {
	return ((v % n) + n) % n
}

// explode bursts the old scene outward from the centre while a ghost of it
// collapses inward. Calc holds the collapse destinations of the tick and
// New the displayed frame. The last tick flushes and shows the target.
func (e *Engine) explode() {
	e.k++
	s := e.sc
	l := s.Layout()
	halfR, halfC := l.Dim.Rows/2, l.Dim.Columns/2

	s.ClearAll(scene.Next | scene.Calc)
	if e.k >= e.steps {
		s.Flush()
		e.show(scene.Target)
		e.stopped = true
		return
	}

	n := e.steps - e.k
	for i := 0; i < s.Len(); i++ {
		if s.At(i)&scene.Current == 0 {
			continue
		}
		r, c := l.Position(i)
		s.MarkPos(toward(r, n, halfR), toward(c, n, halfC), scene.Calc)
	}
	for i := 0; i < s.Len(); i++ {
		if s.At(i)&scene.Current == 0 {
			continue
		}
		r, c := l.Position(i)
		s.MarkPos(outward(r, e.k, halfR), outward(c, e.k, halfC), scene.Next)
	}
	for i := 0; i < s.Len(); i++ {
		if s.At(i)&scene.Calc != 0 {
			s.Mark(i, scene.Next)
		}
	}
	e.show(scene.Next)
}

// toward moves v by n towards the centre line half without crossing into
// the other quadrant.
func toward(v, n, half int) int {
	if v < half {
		return min(v+n, half-1)
	}
	return max(v-n, half)
}

func outward(v, n, half int) int {
	if v < half {
		return v - n
	}
	return v + n
}
