// Package logging builds the process-wide slog logger for the catalog
// server and carries the shared request-log attribute set.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Options selects where and how verbosely the server logs. Both fields map
// straight onto config.Config's LOG_LEVEL and LOG_FILE keys.
type Options struct {
	// Level is one of debug, info, warn, error. Unknown values fall back
	// to info.
	Level string

	// File, when set, receives a copy of everything written to stderr.
	File string
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// ParseLevel maps a config level string onto a slog level, defaulting to
// info.
func ParseLevel(s string) slog.Level {
	if lvl, ok := levels[strings.ToLower(strings.TrimSpace(s))]; ok {
		return lvl
	}
	return slog.LevelInfo
}

// Setup creates the JSON logger described by opts and installs it as the
// slog default so package-level slog calls land in the same place. The
// returned cleanup func closes the log file if one was opened; callers must
// defer it.
func Setup(opts Options) (*slog.Logger, func(), error) {
	out := io.Writer(os.Stderr)
	cleanup := func() {}

	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = io.MultiWriter(os.Stderr, f)
		cleanup = func() { _ = f.Close() }
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: ParseLevel(opts.Level)})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, cleanup, nil
}

// RequestAttrs is the attribute set logged for every handled HTTP request.
func RequestAttrs(method, path string, status int, elapsed time.Duration) []any {
	return []any{
		"method", method,
		"path", path,
		"status", status,
		"duration_ms", elapsed.Milliseconds(),
	}
}
