// Package log builds the slog loggers used by the jsonfmt commands.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Debug forces debug output regardless of verbosity. Set by JSONFMT_DEBUG environment variable by default.
var Debug = os.Getenv("JSONFMT_DEBUG") != ""

// Level maps a -v count to a slog level: warnings only by default, info
// summaries with one -v, debug detail with two or more.
func Level(verbosity int) slog.Level {
	switch {
	case Debug || verbosity >= 2:
		return slog.LevelDebug
	case verbosity == 1:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// New returns a text logger writing to w at the level for verbosity.
func New(w io.Writer, verbosity int) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: Level(verbosity),
	}))
}
