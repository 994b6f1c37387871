// Package logging installs the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/s4sachin/dynamic-form-builder/internal/gelf"
)

// ParseLevel accepts debug, info, warn (or warning) and error.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// New builds a JSON logger writing to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Init installs the default logger on stderr. When gelfAddr is set, records
// are also shipped to that GELF UDP endpoint. The returned func releases
// the GELF connection.
func Init(level, gelfAddr string) (func() error, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var out io.Writer = os.Stderr
	closeFn := func() error { return nil }
	var gelfErr error
	if gelfAddr != "" {
		g, err := gelf.New(gelfAddr, "formbuilder")
		if err != nil {
			gelfErr = err
		} else {
			out = io.MultiWriter(os.Stderr, g)
			closeFn = g.Close
		}
	}

	slog.SetDefault(New(out, lvl))
	if gelfErr != nil {
		slog.Warn("GELF init failed", "addr", gelfAddr, "error", gelfErr)
	} else if gelfAddr != "" {
		slog.Info("GELF logging enabled", "addr", gelfAddr)
	}
	return closeFn, nil
}
