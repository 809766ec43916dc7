package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with a component name. untagged carries the same
// attributes minus the component, so re-tagging replaces it.
type Logger struct {
	*slog.Logger
	untagged  *slog.Logger
	component string
}

// defaultUntagged backs Default once SetDefault has installed a Logger.
var defaultUntagged *slog.Logger

// Config holds logger configuration
type Config struct {
	Level     slog.Level
	Format    string // "text" or "json"
	Component string
	Writer    io.Writer
	Handler   slog.Handler
}

// DefaultConfig returns sensible defaults for logging
func DefaultConfig() Config {
	return Config{
		Level:     slog.LevelInfo,
		Format:    "text",
		Component: ComponentApp,
		Writer:    os.Stdout,
	}
}

// ParseLevel maps debug/info/warn/error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// New creates a new logger with the given configuration
func New(config Config) *Logger {
	handler := config.Handler
	if handler == nil {
		w := config.Writer
		if w == nil {
			w = os.Stdout
		}
		opts := &slog.HandlerOptions{Level: config.Level}
		if config.Format == "json" {
			handler = slog.NewJSONHandler(w, opts)
		} else {
			handler = slog.NewTextHandler(w, opts)
		}
	}

	component := config.Component
	if component == "" {
		component = ComponentApp
	}
	base := slog.New(handler)
	return &Logger{
		Logger:    base.With(FieldComponent, component),
		untagged:  base,
		component: component,
	}
}

// Default wraps slog.Default so packages can log before wiring is done.
func Default() *Logger {
	return &Logger{Logger: slog.Default(), untagged: defaultUntagged, component: ComponentApp}
}

// With returns a new logger with the given attributes
func (l *Logger) With(args ...any) *Logger {
	var untagged *slog.Logger
	if l.untagged != nil {
		untagged = l.untagged.With(args...)
	}
	return &Logger{
		Logger:    l.Logger.With(args...),
		untagged:  untagged,
		component: l.component,
	}
}

// WithComponent returns a logger tagged with a different component.
func (l *Logger) WithComponent(component string) *Logger {
	if component == l.component {
		return l
	}
	if l.untagged == nil {
		return &Logger{
			Logger:    l.Logger.With(FieldComponent, component),
			component: component,
		}
	}
	return &Logger{
		Logger:    l.untagged.With(FieldComponent, component),
		untagged:  l.untagged,
		component: component,
	}
}

// SetDefault sets the default logger for the application
func SetDefault(logger *Logger) {
	slog.SetDefault(logger.Logger)
	defaultUntagged = logger.untagged
}

// Component returns the logger's component name
func (l *Logger) Component() string {
	return l.component
}
