// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Trackside Labs

package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// newLogger builds the console logger shared by the non-TUI commands.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// zerologConsole routes the throttle's diagnostic trace into zerolog at
// debug level, so protocol chatter is visible with --verbose and silent
// otherwise.
type zerologConsole struct {
	log zerolog.Logger
}

func (c zerologConsole) Printf(format string, args ...interface{}) {
	c.log.Debug().Msgf(format, args...)
}
