package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds the process logger. Development gets a human readable console
// writer, every other environment writes JSON to stdout.
//
// The level parameter can be one of: debug, info, warn, error. An empty
// level defaults to debug in development and info elsewhere.
func New(environment, level string) (zerolog.Logger, error) {
	return NewWithWriter(environment, level, os.Stdout)
}

func NewWithWriter(environment, level string, w io.Writer) (zerolog.Logger, error) {
	if level == "" {
		level = "info"
		if environment == "development" {
			level = "debug"
		}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, err
	}

	if environment == "development" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	return zerolog.New(w).
		With().
		Timestamp().
		Str("env", environment).
		Logger().
		Level(lvl), nil
}

// SetGlobal replaces the package level zerolog logger used by log.Info() and friends.
func SetGlobal(l zerolog.Logger) {
	log.Logger = l
}

func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}
