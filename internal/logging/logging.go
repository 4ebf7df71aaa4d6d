// SPDX-License-Identifier: MPL-2.0

// Package logging sets up the process-wide slog logger backed by
// charmbracelet/log.
package logging

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"

	"github.com/invowk/deliver/internal/config"
)

// New returns a styled logger writing to w at the given level. Unknown levels
// fall back to info.
func New(w io.Writer, level config.LogLevel) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
		Level:  toLevel(level),
	})
}

// Install makes a logger for w the slog default and returns it, so package
// code can keep calling slog.Debug and friends.
func Install(w io.Writer, level config.LogLevel) *slog.Logger {
	logger := slog.New(New(w, level))
	slog.SetDefault(logger)
	return logger
}

func toLevel(level config.LogLevel) log.Level {
	switch level {
	case config.LogLevelDebug:
		return log.DebugLevel
	case config.LogLevelWarn:
		return log.WarnLevel
	case config.LogLevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
