// Package logging builds the structured debug logger. User-facing output goes
// through the logbook package instead.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Options controls where debug records go.
type Options struct {
	// Level is one of debug, info, warn, error. Unknown values mean warn.
	Level string
	// Writer receives records when File is empty. Defaults to stderr.
	Writer io.Writer
	// File, when set, appends records to this path instead.
	File string
}

// Logger is a slog logger stamped with a per-invocation run id.
type Logger struct {
	*slog.Logger
	RunID string
	file  *os.File
}

// ParseLevel maps a --log-level value to a slog level.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// New creates the logger for one run.
func New(opts Options) (*Logger, error) {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	var file *os.File
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("logging: ensure log dir: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logging: open log file: %w", err)
		}
		file, w = f, f
	}
	runID := uuid.NewString()
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(opts.Level)})
	return &Logger{
		Logger: slog.New(handler).With("run_id", runID),
		RunID:  runID,
		file:   file,
	}, nil
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
