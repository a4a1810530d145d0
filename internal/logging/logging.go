// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"askpdf/internal/config"
)

// ParseLevel maps a config level name to a slog level. Empty means info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// New returns a text logger writing to w at the configured level.
func New(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// ToFile installs a default logger appending to cfg.File. The terminal UI
// owns stdout, so interactive runs log here. The returned closer flushes the file.
func ToFile(cfg config.LogConfig) (*slog.Logger, io.Closer, error) {
	if dir := filepath.Dir(cfg.File); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger, err := New(cfg, f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return logger, f, nil
}

// ToStderr installs a default logger writing to stderr, used by the
// non-interactive subcommands.
func ToStderr(cfg config.LogConfig) (*slog.Logger, error) {
	logger, err := New(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}
