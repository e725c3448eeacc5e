// Package logger configures structured logging: coloured text on a terminal
// during development, JSON in production, and an optional rotating log file.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// Format types for logging.
	formatJSON   = "json"
	formatPretty = "pretty"
)

// Logger wraps slog.Logger and owns the log file, if any.
type Logger struct {
	*slog.Logger
	closer io.Closer
}

// FileConfig describes a size-rotated log file.
type FileConfig struct {
	Path       string
	MaxSizeMB  int // default 10
	MaxBackups int // default 3
	MaxAgeDays int // default 28
	Compress   bool
}

// Config holds logger configuration.
type Config struct {
	// Writer defaults to stderr; stdout is reserved for command output.
	Writer      io.Writer
	File        *FileConfig // takes precedence over Writer
	Format      string
	Environment string
	Level       slog.Level
	AddSource   bool
}

// New creates a new logger with the given configuration.
func New(cfg Config) *Logger {
	var closer io.Closer
	colour := true

	switch {
	case cfg.File != nil && cfg.File.Path != "":
		rotation := newRotation(*cfg.File)
		cfg.Writer = rotation
		closer = rotation
		colour = false
	case cfg.Writer == nil:
		cfg.Writer = os.Stderr
	}

	if cfg.Format == "" {
		if cfg.Environment == "production" {
			cfg.Format = formatJSON
		} else {
			cfg.Format = formatPretty
		}
	}

	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = filepath.Base(source.File)
				}
			}
			return a
		},
	}

	var handler slog.Handler
	if cfg.Format == formatJSON {
		handler = slog.NewJSONHandler(cfg.Writer, opts)
	} else {
		pretty := NewPrettyHandler(cfg.Writer, opts)
		pretty.noColour = !colour
		handler = pretty
	}

	return &Logger{
		Logger: slog.New(handler),
		closer: closer,
	}
}

func newRotation(cfg FileConfig) *lumberjack.Logger {
	rotation := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB, // megabytes
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays, // days
		Compress:   cfg.Compress,
	}
	if rotation.MaxSize == 0 {
		rotation.MaxSize = 10
	}
	if rotation.MaxBackups == 0 {
		rotation.MaxBackups = 3
	}
	if rotation.MaxAge == 0 {
		rotation.MaxAge = 28
	}
	return rotation
}

// Close releases the log file. Loggers writing to a plain writer have nothing to close.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// ParseLevel converts a string to slog.Level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
