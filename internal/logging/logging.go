// Package logging builds the structured loggers used across quadmorph.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

const prefix = "quadmorph"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger at the given level. An empty path logs to stderr,
// "-" or "off" discards, anything else appends to that file. The closer
// must be called when the logger is no longer used.
func New(level, path string) (*log.Logger, io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	switch path {
	case "":
	case "-", "off":
		w = io.Discard
	default:
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("logging: open %s: %w", path, err)
		}
		w, closer = f, f
	}

	return NewWriter(w, lvl), closer, nil
}

func NewWriter(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          prefix,
		ReportTimestamp: true,
	})
}

// Discard is a logger that drops everything.
func Discard() *log.Logger {
	return NewWriter(io.Discard, log.FatalLevel)
}

// ParseLevel accepts debug, info, warn, error and fatal. Empty means info.
func ParseLevel(s string) (log.Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(strings.ToLower(s))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("logging: %w", err)
	}
	return lvl, nil
}
