// Package logging configures the zerolog logger shared by nttcalc and the ntt library.
package logging

import (
	"io"
	"time"

	"github.com/jonathanmweiss/go-ntt"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds a logger writing to w at the given level ("debug", "info", ...),
// as JSON lines or human-readable console output. It is installed as the global
// log.Logger and, tagged component=ntt, as the ntt package logger.
func New(level string, json bool, w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}

	// ParseLevel maps "" to NoLevel, which would log everything.
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	out := w
	if !json {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: true}
	}

	logger := zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	log.Logger = logger
	ntt.SetLogger(logger.With().Str("component", "ntt").Logger())

	return logger, nil
}

// Component returns a child of the global logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}
