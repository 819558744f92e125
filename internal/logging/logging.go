// Package logging wires log/slog to a rotated file. The binary runs as
// short-lived hook and keybinding invocations, so logs go to one shared
// file rather than stderr, which tmux would swallow or flash into the
// user's status line.
package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Component constants for structured logging.
const (
	CompCmd     = "cmd"
	CompStore   = "store"
	CompHop     = "hop"
	CompNotify  = "notify"
	CompPicker  = "picker"
	CompDoctor  = "doctor"
	CompInstall = "install"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Empty or "off" discards everything.
	Level string

	// File is the log file path; empty means DefaultLogPath().
	File string

	// Format is "json" (default) or "text".
	Format string

	// MaxSizeMB is the max size in MB before rotation (default: 5)
	MaxSizeMB int

	// MaxBackups is rotated files to keep (default: 3)
	MaxBackups int

	// MaxAgeDays is days to keep rotated files (default: 14)
	MaxAgeDays int
}

var (
	globalLogger *slog.Logger
	globalMu     sync.RWMutex
	lumberjackW  *lumberjack.Logger
)

// Init initializes the global logging system. With no level configured
// everything stays on the discard handler.
func Init(cfg Config) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if cfg.Level == "" || cfg.Level == "off" {
		globalLogger = nil
		return
	}

	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 5
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 3
	}
	if cfg.MaxAgeDays <= 0 {
		cfg.MaxAgeDays = 14
	}

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	path := cfg.File
	if path == "" {
		path = DefaultLogPath()
	}
	// Logging failures cannot be logged; an unwritable directory just
	// leaves the discard handler in place.
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		globalLogger = nil
		return
	}

	lumberjackW = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(lumberjackW, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(lumberjackW, handlerOpts)
	}
	globalLogger = slog.New(handler)
}

// Logger returns the global logger. Safe to call before Init.
func Logger() *slog.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalLogger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return globalLogger
}

// ForComponent returns a sub-logger with the component field set. It
// delegates to the current global handler at log time, so package-level
// loggers created before Init still pick up the real handler once Init
// runs instead of permanently capturing the discard handler.
func ForComponent(name string) *slog.Logger {
	return slog.New(&dynamicHandler{component: name})
}

// dynamicHandler implements slog.Handler by resolving the global handler
// on every call.
type dynamicHandler struct {
	component string
	attrs     []slog.Attr
	group     string
}

func (h *dynamicHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return Logger().Handler().Enabled(ctx, level)
}

func (h *dynamicHandler) Handle(ctx context.Context, r slog.Record) error {
	handler := Logger().Handler()
	handler = handler.WithAttrs([]slog.Attr{slog.String("component", h.component)})
	if len(h.attrs) > 0 {
		handler = handler.WithAttrs(h.attrs)
	}
	if h.group != "" {
		handler = handler.WithGroup(h.group)
	}
	return handler.Handle(ctx, r)
}

func (h *dynamicHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)
	return &dynamicHandler{component: h.component, attrs: newAttrs, group: h.group}
}

func (h *dynamicHandler) WithGroup(name string) slog.Handler {
	return &dynamicHandler{component: h.component, attrs: h.attrs, group: name}
}

// Shutdown closes the log writer. Called once per command on exit.
func Shutdown() {
	globalMu.Lock()
	defer globalMu.Unlock()

	if lumberjackW != nil {
		lumberjackW.Close()
		lumberjackW = nil
	}
	globalLogger = nil
}

// DefaultLogPath places the log under the XDG state directory, falling
// back to ~/.local/state.
func DefaultLogPath() string {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "claude-tmux-hop", "hop.log")
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "claude-tmux-hop", "hop.log")
}
