package app

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-wordclock/internal/animation"
	"github.com/coreman2200/funtimes-wordclock/internal/config"
	diag "github.com/coreman2200/funtimes-wordclock/internal/diagnostics"
	"github.com/coreman2200/funtimes-wordclock/internal/led"
	"github.com/coreman2200/funtimes-wordclock/internal/metrics"
	"github.com/coreman2200/funtimes-wordclock/internal/selftest"
	"github.com/coreman2200/funtimes-wordclock/internal/thermo"
	"github.com/coreman2200/funtimes-wordclock/internal/words"
	"github.com/coreman2200/funtimes-wordclock/internal/ws"
)

const (
	// overrunReport is how often, in ticks, the overrun count is published.
	overrunReport = 300
	// thermoPoll is how often, in ticks, the temperature is read.
	thermoPoll = 30
)

// Conductor is the main loop. It alone touches the display; everything
// else reaches it through the command and reload channels.
type Conductor struct {
	core *Core
	log  zerolog.Logger

	test     *selftest.Runner
	ticks    uint64
	lastTick atomic.Int64
	failing  bool

	tempIndex int
	tempRead  uint64
	tempValid bool
}

func NewConductor(core *Core) *Conductor {
	return &Conductor{core: core, log: core.log}
}

// LastTick is when the loop last handled a tick; the watchdog reads it.
func (c *Conductor) LastTick() time.Time {
	return time.Unix(0, c.lastTick.Load())
}

// Run drives the clock until ctx is done.
func (c *Conductor) Run(ctx context.Context) {
	src := c.core.Ticks
	go src.Run(ctx)
	c.lastTick.Store(time.Now().UnixNano())
	c.log.Info().Dur("interval", src.Interval()).Msg("main loop running")

	for {
		select {
		case <-ctx.Done():
			c.log.Info().Uint64("ticks", c.ticks).Uint64("overruns", src.Overruns()).Msg("main loop stopped")
			return
		case cmd := <-c.core.commands:
			c.apply(cmd)
		case cfg := <-c.core.reloads:
			c.reload(cfg)
		case <-src.C():
			if src.Take() {
				c.step()
			}
		}
	}
}

// step is one tick: a running self test owns the strip, otherwise the
// clock is polled and animated.
func (c *Conductor) step() {
	c.ticks++
	c.lastTick.Store(time.Now().UnixNano())
	if c.ticks%overrunReport == 0 {
		metrics.SetTickOverruns(c.core.Ticks.Overruns())
		if n := c.core.Ticks.Overruns(); n > 0 {
			c.core.Server.Push(diag.Overruns(n, c.core.Ticks.Fired()))
		}
	}

	d := c.core.Display
	if c.test != nil {
		c.stepTest()
		return
	}
	power, hour, minute := c.core.Clock.Now()
	if idx, ok := c.temperature(); ok {
		d.Temperature(power, idx)
	} else {
		d.Clock(power, hour, minute)
	}
	c.report(d.Animate())
}

// temperature returns the latest reading as a half-degree index. The
// sensor is read every thermoPoll ticks while the temperature mode is
// selected.
func (c *Conductor) temperature() (int, bool) {
	if c.core.Thermo == nil || c.core.Display.Modes().Display() != words.TemperatureMode {
		return 0, false
	}
	if c.tempValid && c.ticks-c.tempRead < thermoPoll {
		return c.tempIndex, true
	}
	c.tempRead = c.ticks
	celsius, err := c.core.Thermo.Celsius()
	if err != nil {
		c.log.Warn().Err(err).Msg("temperature read failed")
		return c.tempIndex, c.tempValid
	}
	c.tempIndex, c.tempValid = thermo.Index(celsius), true
	return c.tempIndex, true
}

func (c *Conductor) stepTest() {
	strip := c.core.Strip
	if strip.Busy() {
		return
	}
	if c.test.Step(c.core.Layout, strip) {
		c.report(strip.Refresh())
		return
	}
	kind := c.test.Kind()
	c.test = nil
	c.log.Info().Str("test", string(kind)).Msg("self test complete")
	c.core.Server.Push(diag.TestDone(string(kind)))
	c.report(c.core.Display.Redraw())
}

// report logs a failed frame once and again when it recovers.
func (c *Conductor) report(err error) {
	if errors.Is(err, led.ErrBusy) {
		return
	}
	switch {
	case err != nil && !c.failing:
		c.failing = true
		c.log.Error().Err(err).Msg("frame write failed")
		c.core.Server.Push(diag.WriteFailed(err))
	case err == nil && c.failing:
		c.failing = false
		c.log.Info().Msg("frame writes recovered")
	}
}

func (c *Conductor) apply(cmd ws.Command) {
	d := c.core.Display
	if cmd.Display != nil {
		d.Modes().SetDisplay(*cmd.Display)
	}
	if cmd.Animation != nil {
		d.Modes().SetAnimation(*cmd.Animation)
	}
	if cmd.Brightness != nil {
		b := *cmd.Brightness
		d.Brightness().SetAll(b[0], b[1], b[2])
	}
	if cmd.Save {
		d.Save()
	}
	if cmd.Test != selftest.None {
		c.log.Info().Str("test", string(cmd.Test)).Msg("self test started")
		c.core.Server.Push(diag.TestRunning(string(cmd.Test)))
		c.test = selftest.NewRunner(cmd.Test)
	}
}

// reload applies the display section of a changed config file. Hardware
// settings need a restart.
func (c *Conductor) reload(cfg *config.Config) {
	d := c.core.Display
	if m, err := animation.ParseMode(cfg.Display.Animation); err == nil {
		d.Modes().SetAnimation(m)
	} else {
		c.log.Warn().Err(err).Msg("reload: keeping animation")
	}
	d.Modes().SetDisplay(cfg.Display.Mode)
	b := cfg.Display.Brightness
	d.Brightness().SetAll(b.R, b.G, b.B)

	old := c.core.Config
	if cfg.Driver != old.Driver || cfg.SPI != old.SPI || cfg.FPS != old.FPS || cfg.Addr != old.Addr {
		c.log.Warn().Msg("reload: driver, fps and addr changes apply after a restart")
	}
	c.core.Config = cfg
	c.log.Info().Msg("config reloaded")
}
