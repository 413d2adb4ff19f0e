// Package logging sets up the diagnostics logger. The terminal belongs to the
// UI, so by default everything goes to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// Open returns a logger writing JSON lines to path ("-" means stderr).
// The returned closer releases the file.
func Open(path string, debug bool) (zerolog.Logger, io.Closer, error) {
	var w io.WriteCloser
	if path == "-" {
		w = nopCloser{zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}}
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("mkdir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
	}
	return New(w, debug), w, nil
}

// New builds a timestamped logger on w.
func New(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Str("app", "cards").Logger()
}
