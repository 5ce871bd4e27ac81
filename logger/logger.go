// Package logger is the diagnostic channel of the widget: a small slog wrapper
// whose output can be redirected into the terminal UI while it is running.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Config describes logger settings.
type Config struct {
	Enabled bool
	Level   string
	Console bool // write to stderr when not intercepted
	File    string

	// Session tags every file record, so runs sharing one log file can be
	// told apart. Empty means no tag.
	Session string
}

// destination is where a record ends up.
type destination int

const (
	destConsole destination = iota
	destPanel
	destFile
)

var (
	mu   sync.RWMutex
	base *slog.Logger

	savedCfg  Config
	savedFile *os.File
	intercept io.Writer // non-nil while the TUI owns the terminal
)

// Init configures the logger. Relative file paths are resolved against configDir.
func Init(cfg Config, configDir string) error {
	mu.Lock()
	defer mu.Unlock()

	if savedFile != nil {
		_ = savedFile.Close()
		savedFile = nil
	}
	savedCfg = cfg

	var initErr error
	if cfg.Enabled && cfg.File != "" {
		path := FilePath(cfg.File, configDir)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			initErr = fmt.Errorf("logger: create log dir: %w", err)
		} else if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err != nil {
			initErr = fmt.Errorf("logger: open log file: %w", err)
		} else {
			savedFile = f
		}
	}

	rebuild()
	return initErr
}

// Intercept routes console output to w (the TUI log panel).
// The log file, if any, keeps receiving records.
func Intercept(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	intercept = w
	rebuild()
}

// Restore undoes Intercept.
func Restore() {
	mu.Lock()
	defer mu.Unlock()
	intercept = nil
	rebuild()
}

// rebuild reconstructs the logger from current state. Caller holds mu.
func rebuild() {
	if !savedCfg.Enabled {
		base = nil
		return
	}
	level := parseLevel(savedCfg.Level)

	var handlers []slog.Handler
	switch {
	case intercept != nil:
		handlers = append(handlers, newHandler(destPanel, intercept, level, ""))
	case savedCfg.Console:
		handlers = append(handlers, newHandler(destConsole, os.Stderr, level, ""))
	}
	if savedFile != nil {
		handlers = append(handlers, newHandler(destFile, savedFile, level, savedCfg.Session))
	}

	if len(handlers) == 0 {
		base = nil
		return
	}
	base = slog.New(fanout(handlers))
}

func newHandler(dest destination, w io.Writer, level slog.Level, session string) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if dest == destPanel {
		// The panel is narrow and live; the timestamp only costs width.
		opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		}
	}
	var h slog.Handler = slog.NewTextHandler(w, opts)
	if session != "" {
		h = h.WithAttrs([]slog.Attr{slog.String("session", session)})
	}
	return h
}

// fanout sends each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

func Debug(msg string, args ...any) { log(slog.LevelDebug, msg, args...) }
func Info(msg string, args ...any)  { log(slog.LevelInfo, msg, args...) }
func Warn(msg string, args ...any)  { log(slog.LevelWarn, msg, args...) }
func Error(msg string, args ...any) { log(slog.LevelError, msg, args...) }

func log(level slog.Level, msg string, args ...any) {
	mu.RLock()
	l := base
	mu.RUnlock()
	if l == nil {
		return
	}
	l.Log(context.Background(), level, msg, args...)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// FilePath resolves a log file path the way Init does: "~" expands to the home
// directory and relative paths are joined to configDir.
func FilePath(path, configDir string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	if filepath.IsAbs(path) || configDir == "" {
		return path
	}
	return filepath.Join(configDir, path)
}
