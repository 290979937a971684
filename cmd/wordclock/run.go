package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/coreman2200/funtimes-wordclock/internal/app"
	"github.com/coreman2200/funtimes-wordclock/internal/config"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Drive the LED plate and serve the preview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := loadConfig(path, cmd.Flags())
			if err != nil {
				return err
			}
			watch, _ := cmd.Flags().GetBool("watch")
			if !watch {
				path = ""
			}
			return run(cmd.Context(), cfg, path)
		},
	}
	f := cmd.Flags()
	f.String("driver", "", "driver: spi | sim")
	f.String("spi-dev", "", "SPI port, e.g. /dev/spidev0.0")
	f.Int("fps", 0, "animation ticks per second (25..40)")
	f.String("addr", "", "HTTP listen address")
	f.String("location", "", "IANA time zone, e.g. Europe/Berlin")
	f.Int("mode", -1, "display mode")
	f.String("animation", "", "animation: none | fade | roll | explode | random")
	f.Bool("watch", true, "reload config.yaml when it changes")
	return cmd
}

// loadConfig reads path over the defaults and applies the flags that were
// set explicitly. A missing file is not an error.
func loadConfig(path string, flags *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("path", path).Msg("no config file; using defaults and flags")
		cfg, err = config.Default(), nil
	}
	if err != nil {
		return nil, err
	}

	if flags.Changed("driver") {
		cfg.Driver, _ = flags.GetString("driver")
	}
	if flags.Changed("spi-dev") {
		cfg.SPI.Dev, _ = flags.GetString("spi-dev")
	}
	if flags.Changed("fps") {
		cfg.FPS, _ = flags.GetInt("fps")
	}
	if flags.Changed("addr") {
		cfg.Addr, _ = flags.GetString("addr")
	}
	if flags.Changed("location") {
		cfg.Location, _ = flags.GetString("location")
	}
	if flags.Changed("mode") {
		cfg.Display.Mode, _ = flags.GetInt("mode")
	}
	if flags.Changed("animation") {
		cfg.Display.Animation, _ = flags.GetString("animation")
	}
	return cfg, cfg.Validate()
}

func run(parent context.Context, cfg *config.Config, watchPath string) error {
	logger := setupLogging(cfg.Logging)

	core, err := app.InitCore(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := core.Close(); err != nil {
			logger.Warn().Err(err).Msg("close")
		}
	}()
	if watchPath != "" {
		if err := core.WatchConfig(watchPath, config.DefaultDebounce); err != nil {
			logger.Warn().Err(err).Str("path", watchPath).Msg("config watch disabled")
		}
	}

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      withCORS(core.Server.Routes()),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("driver", core.Driver).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server crashed")
		}
	}()

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cond := app.NewConductor(core)
	go watchdog(ctx, cond, logger)
	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		logger.Debug().Err(err).Msg("sd_notify")
	} else if ok {
		logger.Debug().Msg("notified systemd")
	}

	cond.Run(ctx)

	logger.Info().Msg("shutting down")
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return srv.Shutdown(shutdown)
}

// watchdog pings systemd while the main loop keeps ticking.
func watchdog(ctx context.Context, cond *app.Conductor, logger zerolog.Logger) {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil || interval == 0 {
		return
	}
	ticker := time.NewTicker(interval / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if time.Since(cond.LastTick()) > interval/2 {
				logger.Warn().Time("last_tick", cond.LastTick()).Msg("main loop stalled; withholding watchdog ping")
				continue
			}
			_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
		}
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
