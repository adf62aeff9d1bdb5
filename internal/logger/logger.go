package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New creates a console logger on w. Debug level when verbose, info otherwise.
func New(w io.Writer, verbose bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// WithRun tags every event with the run id.
func WithRun(log zerolog.Logger, runID string) zerolog.Logger {
	return log.With().Str("run_id", runID).Logger()
}
