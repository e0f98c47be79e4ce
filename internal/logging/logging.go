// Package logging sets up structured logging for the service and the CLI.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/piwi3910/FurniCut/internal/model"
)

// Config selects the level and the optional rotating log file.
type Config struct {
	Level      string
	File       string // empty = console only
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// ConfigFrom copies the logging settings out of the application config.
func ConfigFrom(cfg model.AppConfig) Config {
	return Config{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	}
}

// Logger is a slog.Logger that may own a log file.
type Logger struct {
	*slog.Logger
	file io.WriteCloser
}

// New builds a logger writing to console and, when cfg.File is set, to a
// rotating file. The console gets text output on a terminal and JSON
// otherwise; the file always gets JSON at debug level.
func New(cfg Config, console io.Writer) (*Logger, error) {
	level := ParseLevel(cfg.Level)
	l := &Logger{}

	handlers := []slog.Handler{consoleHandler(console, level)}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0750); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		rotating := rotatingWriter(cfg)
		l.file = rotating
		handlers = append(handlers, slog.NewJSONHandler(rotating, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	l.Logger = slog.New(&multiHandler{handlers: handlers})
	return l, nil
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func consoleHandler(w io.Writer, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if IsTerminal(w) {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// rotatingWriter creates the lumberjack file writer. FURNICUT_LOG_MAX_SIZE,
// FURNICUT_LOG_MAX_BACKUPS and FURNICUT_LOG_MAX_AGE override the config.
func rotatingWriter(cfg Config) *lumberjack.Logger {
	w := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}

	if v, ok := envInt("FURNICUT_LOG_MAX_SIZE"); ok && v > 0 {
		w.MaxSize = v
	}
	if v, ok := envInt("FURNICUT_LOG_MAX_BACKUPS"); ok && v >= 0 {
		w.MaxBackups = v
	}
	if v, ok := envInt("FURNICUT_LOG_MAX_AGE"); ok && v > 0 {
		w.MaxAge = v
	}
	return w
}

func envInt(key string) (int, bool) {
	s := os.Getenv(key)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels.
// Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// multiHandler fans out log records to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: next}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: next}
}
