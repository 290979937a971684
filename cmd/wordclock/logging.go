package main

import (
	"os"
	"strings"
	"time"

	"github.com/coreos/go-systemd/v22/journal"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-wordclock/internal/config"
)

// journalWriter hands each JSON log line to the systemd journal.
type journalWriter struct{}

func (journalWriter) Write(p []byte) (int, error) {
	return journalWriter{}.WriteLevel(zerolog.NoLevel, p)
}

func (journalWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\n")
	err := journal.Send(msg, priority(l), map[string]string{"SYSLOG_IDENTIFIER": "wordclock"})
	return len(p), err
}

func priority(l zerolog.Level) journal.Priority {
	switch l {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		return journal.PriDebug
	case zerolog.WarnLevel:
		return journal.PriWarning
	case zerolog.ErrorLevel:
		return journal.PriErr
	case zerolog.FatalLevel, zerolog.PanicLevel:
		return journal.PriCrit
	default:
		return journal.PriInfo
	}
}

// setupLogging points the global logger at the configured sink. Journal
// output falls back to the console when no journal is reachable.
func setupLogging(c config.Logging) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil || c.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	switch {
	case c.Format == "json":
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	case c.Format == "journal" && journal.Enabled():
		log.Logger = zerolog.New(journalWriter{}).With().Logger()
	default:
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	return log.Logger
}
