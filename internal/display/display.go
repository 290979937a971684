// Package display ties the word tables, the LED scene and the animation
// engine into the clock face the main loop drives.
package display

import (
	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-wordclock/internal/animation"
	"github.com/coreman2200/funtimes-wordclock/internal/brightness"
	"github.com/coreman2200/funtimes-wordclock/internal/events"
	"github.com/coreman2200/funtimes-wordclock/internal/layout"
	"github.com/coreman2200/funtimes-wordclock/internal/scene"
	"github.com/coreman2200/funtimes-wordclock/internal/store"
	"github.com/coreman2200/funtimes-wordclock/internal/words"
)

// input is what a scene was derived from.
type input struct {
	temperature bool
	power       bool
	hour        int
	minute      int
	index       int
}

// Display is the clock face. Only the main loop may call it.
type Display struct {
	log   zerolog.Logger
	sc    *scene.Scene
	eng   *animation.Engine
	br    *brightness.Model
	modes *Modes
	bus   *events.Bus
	st    store.Store

	engOpts []animation.Option

	last  input
	valid bool
	sel   words.Selection
}

type Option func(*Display)

func WithLogger(l zerolog.Logger) Option { return func(d *Display) { d.log = l } }

// WithBus publishes changes on b.
func WithBus(b *events.Bus) Option { return func(d *Display) { d.bus = b } }

// WithStore enables Save and Restore.
func WithStore(s store.Store) Option { return func(d *Display) { d.st = s } }

// WithEngineOptions passes opts on to the animation engine.
func WithEngineOptions(opts ...animation.Option) Option {
	return func(d *Display) { d.engOpts = append(d.engOpts, opts...) }
}

// New builds a display drawing to out. It takes over the change hooks of
// modes and br.
func New(out animation.Output, modes *Modes, br *brightness.Model, opts ...Option) *Display {
	d := &Display{
		log:   zerolog.Nop(),
		sc:    scene.New(layout.Default()),
		br:    br,
		modes: modes,
	}
	for _, o := range opts {
		o(d)
	}
	engOpts := append([]animation.Option{animation.WithLogger(d.log)}, d.engOpts...)
	d.eng = animation.New(d.sc, out, br, engOpts...)

	modes.onChange = d.modeChanged
	br.OnChange(d.brightnessChanged)
	return d
}

func (d *Display) Modes() *Modes                 { return d.modes }
func (d *Display) Brightness() *brightness.Model { return d.br }
func (d *Display) Scene() *scene.Scene           { return d.sc }

// Words is the word set of the current target.
func (d *Display) Words() []words.ID { return d.sel.Words }

// Hour is the hour the current phrase refers to.
func (d *Display) Hour() int { return d.sel.Hour }

// Stopped reports whether the display is at rest.
func (d *Display) Stopped() bool { return d.eng.Stopped() }

// Clock shows hour:minute. Calls repeating the previous arguments do
// nothing and return false.
func (d *Display) Clock(power bool, hour, minute int) bool {
	return d.show(input{power: power, hour: hour, minute: minute})
}

// Temperature shows a half-degree index in [words.TemperatureMin,
// words.TemperatureMax). Repeated calls with the same arguments do nothing.
func (d *Display) Temperature(power bool, index int) bool {
	return d.show(input{temperature: true, power: power, index: index})
}

func (d *Display) show(in input) bool {
	if d.valid && d.last == in {
		return false
	}
	d.apply(in)
	return true
}

// apply flushes whatever is still animating and starts the transition to
// the scene of in.
func (d *Display) apply(in input) {
	if !d.eng.Stopped() {
		d.log.Debug().Stringer("effect", d.eng.Effect()).Msg("flushing unfinished animation")
		d.eng.Flush()
	}

	if in.temperature {
		d.sel = words.SelectTemperature(in.index)
	} else {
		d.sel = words.Select(d.modes.Display(), in.hour, in.minute)
	}
	d.sc.SetTarget(d.sel.Words, in.power)
	eff := d.eng.Start(d.modes.Animation())
	d.last, d.valid = in, true

	labels := make([]string, 0, len(d.sel.Words))
	for _, id := range d.sel.Words {
		labels = append(labels, id.String())
	}
	d.log.Debug().
		Bool("power", in.power).
		Strs("words", labels).
		Stringer("effect", eff).
		Msg("scene changed")
	d.bus.Publish(events.SceneChanged{
		Power:       in.power,
		Temperature: in.temperature,
		Hour:        d.sel.Hour,
		Minute:      in.minute,
		Words:       labels,
		Effect:      eff.String(),
	})
}

// Animate runs one scheduler tick.
func (d *Display) Animate() error {
	wasRunning := !d.eng.Stopped()
	stopped, err := d.eng.Tick()
	if wasRunning && stopped {
		d.bus.Publish(events.AnimationFinished{Effect: d.eng.Effect().String(), Ticks: d.eng.Ticks()})
	}
	return err
}

// Redraw ends any running animation and pushes the current scene again,
// e.g. after something else has drawn on the strip.
func (d *Display) Redraw() error { return d.eng.Complete() }

func (d *Display) modeChanged() {
	d.eng.Flush()
	if d.valid {
		d.apply(d.last)
	}
	d.log.Info().Int("display", d.modes.Display()).Stringer("animation", d.modes.Animation()).Msg("mode changed")
	d.bus.Publish(events.ModeChanged{
		Display:     d.modes.Display(),
		Description: d.modes.Description(),
		Animation:   d.modes.Animation().String(),
	})
}

func (d *Display) brightnessChanged(levels [brightness.Channels]int) {
	if err := d.eng.Complete(); err != nil {
		d.log.Warn().Err(err).Msg("redraw after brightness change")
	}
	d.bus.Publish(events.BrightnessChanged{Levels: levels})
}

// Save writes modes and brightness to the store. It reports false when
// there is no store or the write failed; the display is unaffected.
func (d *Display) Save() bool {
	if d.st == nil {
		return false
	}
	err := store.SaveSettings(d.st, store.Settings{
		Display:   d.modes.Display(),
		Animation: int(d.modes.Animation()),
		Levels:    d.br.Levels(),
	})
	ok := err == nil
	if !ok {
		d.log.Warn().Err(err).Msg("saving settings failed")
	} else {
		d.log.Info().Msg("settings saved")
	}
	d.bus.Publish(events.SettingsSaved{OK: ok})
	return ok
}

// Restore loads saved settings. Out of range values are ignored field by
// field.
func (d *Display) Restore() bool {
	if d.st == nil {
		return false
	}
	s, err := store.LoadSettings(d.st)
	if err != nil {
		d.log.Info().Err(err).Msg("no settings restored")
		return false
	}
	d.modes.SetDisplay(s.Display)
	d.modes.SetAnimation(animation.Mode(s.Animation))
	d.br.SetAll(s.Levels[0], s.Levels[1], s.Levels[2])
	return true
}
