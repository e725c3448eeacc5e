package logger

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CustomWriter(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{
		Level:  slog.LevelInfo,
		Format: "json",
		Writer: &buf,
	})

	log.Info("test message")

	assert.Contains(t, buf.String(), "test message")
	assert.Contains(t, buf.String(), "\"level\":\"INFO\"")
	assert.NoError(t, log.Close())
}

func TestNew_FormatAutoDetection(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		wantJSON    bool
	}{
		{"production uses json", "production", true},
		{"development uses pretty", "development", false},
		{"empty uses pretty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(Config{
				Level:       slog.LevelInfo,
				Environment: tt.environment,
				Writer:      &buf,
			})
			log.Info("hello")

			assert.Equal(t, tt.wantJSON, strings.HasPrefix(buf.String(), "{"))
		})
	}
}

func TestNew_FileRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "studyplus.log")
	log := New(Config{
		Level: slog.LevelDebug,
		File:  &FileConfig{Path: path},
	})

	log.Debug("written to file", "book", "bk_1")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
	assert.Contains(t, string(data), "book=bk_1")
	assert.NotContains(t, string(data), "\033[")
}

func TestNewRotation_Defaults(t *testing.T) {
	r := newRotation(FileConfig{Path: "x.log"})
	assert.Equal(t, 10, r.MaxSize)
	assert.Equal(t, 3, r.MaxBackups)
	assert.Equal(t, 28, r.MaxAge)

	r = newRotation(FileConfig{Path: "x.log", MaxSizeMB: 1, MaxBackups: 9, MaxAgeDays: 2, Compress: true})
	assert.Equal(t, 1, r.MaxSize)
	assert.Equal(t, 9, r.MaxBackups)
	assert.Equal(t, 2, r.MaxAge)
	assert.True(t, r.Compress)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	h := NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))

	// Nil level defaults to info.
	h = NewPrettyHandler(&bytes.Buffer{}, nil)
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
}

func TestPrettyHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	log.Info("test message", "key1", "value1", "key2", 42, "memo", "two words")

	output := buf.String()
	assert.Contains(t, output, "test message")
	assert.Contains(t, output, "key1=value1")
	assert.Contains(t, output, "key2=42")
	assert.Contains(t, output, `memo="two words"`)
	assert.Contains(t, output, "INF")
	assert.True(t, strings.HasSuffix(output, "\n"))
}

func TestPrettyHandler_LevelFormatting(t *testing.T) {
	tests := []struct {
		level      slog.Level
		wantString string
	}{
		{slog.LevelDebug, "DBG"},
		{slog.LevelInfo, "INF"},
		{slog.LevelWarn, "WRN"},
		{slog.LevelError, "ERR"},
		{slog.LevelError + 4, "ERROR+4"},
	}

	for _, tt := range tests {
		t.Run(tt.wantString, func(t *testing.T) {
			var buf bytes.Buffer
			log := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			log.Log(context.Background(), tt.level, "test")

			assert.Contains(t, buf.String(), tt.wantString)
		})
	}
}

func TestPrettyHandler_WithAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	assert.Same(t, h, h.WithGroup(""))

	log := slog.New(h).
		With("component", "state").
		WithGroup("import").
		With("mode", "merge")
	log.Info("done", "books", 3, slog.Group("skipped", "plans", 1))

	output := buf.String()
	assert.Contains(t, output, "component=state")
	assert.Contains(t, output, "import.mode=merge")
	assert.Contains(t, output, "import.books=3")
	assert.Contains(t, output, "import.skipped.plans=1")
}

func TestPrettyHandler_WithSource(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
	}))

	log.Info("test message")

	assert.Contains(t, buf.String(), "logger_test.go:")
}

func TestPrettyHandler_NoColour(t *testing.T) {
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, nil)
	h.noColour = true

	slog.New(h).Info("plain", "k", "v")

	output := buf.String()
	assert.NotContains(t, output, "\033[")
	assert.Regexp(t, `^\d{2}:\d{2}:\d{2} INF plain k=v\n$`, output)
}

func TestPrettyHandler_NoAttributes(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewPrettyHandler(&buf, nil)).Info("simple message")

	parts := strings.SplitN(buf.String(), "simple message", 2)
	require.Len(t, parts, 2)
	assert.NotContains(t, parts[1], "=")
}

func TestFormatValue(t *testing.T) {
	ts := time.Date(2024, 5, 15, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value slog.Value
		want  string
	}{
		{"string", slog.StringValue("hello"), "hello"},
		{"empty string", slog.StringValue(""), `""`},
		{"spaces", slog.StringValue("a b"), `"a b"`},
		{"int", slog.IntValue(42), "42"},
		{"bool", slog.BoolValue(true), "true"},
		{"float", slog.Float64Value(3.14), "3.14"},
		{"time", slog.TimeValue(ts), "2024-05-15T09:30:00Z"},
		{"duration", slog.DurationValue(1500 * time.Millisecond), "1.5s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatValue(tt.value))
		})
	}
}
