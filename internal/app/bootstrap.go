// Package app assembles the clock from its configuration and runs the main
// loop.
package app

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/funtimes-wordclock/internal/animation"
	"github.com/coreman2200/funtimes-wordclock/internal/brightness"
	"github.com/coreman2200/funtimes-wordclock/internal/config"
	"github.com/coreman2200/funtimes-wordclock/internal/display"
	"github.com/coreman2200/funtimes-wordclock/internal/events"
	"github.com/coreman2200/funtimes-wordclock/internal/layout"
	"github.com/coreman2200/funtimes-wordclock/internal/led"
	"github.com/coreman2200/funtimes-wordclock/internal/metrics"
	"github.com/coreman2200/funtimes-wordclock/internal/store"
	"github.com/coreman2200/funtimes-wordclock/internal/thermo"
	"github.com/coreman2200/funtimes-wordclock/internal/tick"
	"github.com/coreman2200/funtimes-wordclock/internal/timesource"
	"github.com/coreman2200/funtimes-wordclock/internal/ws"
)

// commandQueue is how many control commands may wait for the loop.
const commandQueue = 8

type Core struct {
	Config  *config.Config
	Layout  layout.Layout
	Strip   *led.Strip
	Display *display.Display
	Ticks   *tick.Source
	Clock   timesource.Source
	Thermo  thermo.Source
	Bus     *events.Bus
	Server  *ws.Server
	Driver  string

	commands chan ws.Command
	reloads  chan *config.Config
	store    store.Store
	watcher  *config.Watcher
	log      zerolog.Logger
}

// openWriter picks the LED writer for cfg. A failing SPI setup falls back
// to the simulator so the preview keeps working.
func openWriter(cfg *config.Config, count int, log zerolog.Logger) (led.Writer, string) {
	if !strings.EqualFold(cfg.Driver, "spi") {
		return led.NewSim(log), "sim"
	}
	freq := physic.Frequency(cfg.SPI.FreqKHz) * physic.KiloHertz
	if freq == 0 {
		freq = led.DefaultFreq
	}
	nrz, err := led.OpenNRZ(cfg.SPI.Dev, count, freq)
	if err != nil {
		log.Warn().Err(err).
			Str("driver", "spi").
			Str("dev", cfg.SPI.Dev).
			Int("freq_khz", cfg.SPI.FreqKHz).
			Msg("SPI init failed; falling back to SIM")
		return led.NewSim(log), "sim"
	}
	log.Info().Stringer("dev", nrz).Msg("SPI strip ready")
	return nrz, "spi"
}

func openStore(path string, log zerolog.Logger) store.Store {
	if path == "" {
		return store.NewMemory(store.DefaultSize)
	}
	f, err := store.NewFile(path, store.DefaultSize)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("settings store unavailable; settings will not survive a restart")
		return store.NewMemory(store.DefaultSize)
	}
	return f
}

func newTimeSource(cfg *config.Config) (timesource.Source, error) {
	var opts []timesource.Option
	if cfg.Night.Off != "" {
		off, err := timesource.ParseClock(cfg.Night.Off)
		if err != nil {
			return nil, fmt.Errorf("night.off: %w", err)
		}
		on, err := timesource.ParseClock(cfg.Night.On)
		if err != nil {
			return nil, fmt.Errorf("night.on: %w", err)
		}
		opts = append(opts, timesource.WithNight(timesource.Window{Off: off, On: on}))
	}
	return timesource.NewSystem(cfg.Location, opts...)
}

// openThermo opens the configured sensor. Without one the temperature mode
// keeps showing the clock's ES IST only.
func openThermo(name string, log zerolog.Logger) thermo.Source {
	if name == "" {
		return nil
	}
	s, err := thermo.Open(name)
	if err != nil {
		log.Warn().Err(err).Msg("temperature sensor unavailable")
		return nil
	}
	log.Info().Stringer("sensor", s).Msg("temperature sensor ready")
	return s
}

// InitCore builds every component from cfg and restores saved settings.
func InitCore(cfg *config.Config, log zerolog.Logger) (*Core, error) {
	anim, err := animation.ParseMode(cfg.Display.Animation)
	if err != nil {
		return nil, err
	}
	clock, err := newTimeSource(cfg)
	if err != nil {
		return nil, err
	}

	l := layout.Default()
	w, driver := openWriter(cfg, l.Count(), log)
	strip, err := led.NewStrip(w, l.Count(), led.WithLogger(log))
	if err != nil {
		return nil, err
	}
	strip.OnFrame(func([]byte) { metrics.FrameWritten() })

	bus := events.New()
	bus.Subscribe(func(e events.ModeChanged) { metrics.SetDisplayMode(e.Display) })
	bus.Subscribe(func(e events.BrightnessChanged) { metrics.SetBrightness(e.Levels) })

	st := openStore(cfg.Store.Path, log)
	b := cfg.Display.Brightness
	br := brightness.New(b.R, b.G, b.B)
	d := display.New(strip, display.NewModes(cfg.Display.Mode, anim), br,
		display.WithLogger(log),
		display.WithBus(bus),
		display.WithStore(st),
		display.WithEngineOptions(animation.WithObserver(metrics.Observer{})),
	)
	if d.Restore() {
		levels := br.Levels()
		log.Info().
			Int("display", d.Modes().Display()).
			Stringer("animation", d.Modes().Animation()).
			Ints("levels", levels[:]).
			Msg("settings restored")
	}
	metrics.SetDisplayMode(d.Modes().Display())
	metrics.SetBrightness(br.Levels())

	cmds := make(chan ws.Command, commandQueue)
	srv := ws.NewServer(l, cmds,
		ws.WithLogger(log),
		ws.WithFPS(cfg.FPS),
		ws.WithDriver(driver),
	)
	srv.SetStatus(ws.Status{
		Display:     d.Modes().Display(),
		Description: d.Modes().Description(),
		Animation:   d.Modes().Animation().String(),
		Levels:      br.Levels(),
	})
	srv.Watch(bus)
	strip.OnFrame(srv.Frame)

	return &Core{
		Config:   cfg,
		Layout:   l,
		Strip:    strip,
		Display:  d,
		Ticks:    tick.New(cfg.FPS),
		Clock:    clock,
		Thermo:   openThermo(cfg.Temperature.Sensor, log),
		Bus:      bus,
		Server:   srv,
		Driver:   driver,
		commands: cmds,
		reloads:  make(chan *config.Config, 1),
		store:    st,
		log:      log,
	}, nil
}

// WatchConfig reloads path on change and hands the new config to the main
// loop.
func (c *Core) WatchConfig(path string, debounce time.Duration) error {
	w := config.NewWatcher(path, c.log, debounce)
	w.OnReload(func(cfg *config.Config) {
		// keep only the latest
		select {
		case <-c.reloads:
		default:
		}
		c.reloads <- cfg
	})
	if err := w.Start(); err != nil {
		return err
	}
	c.watcher = w
	return nil
}

// Close waits for the last frame and releases the hardware.
func (c *Core) Close() error {
	if c.watcher != nil {
		_ = c.watcher.Stop()
	}
	err := c.Strip.Close()
	if cl, ok := c.store.(io.Closer); ok {
		if cerr := cl.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
