package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONLogger(level LogLevel) (*HeroLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewLogger(&LoggerConfig{Level: level, Format: "json", Output: buf}), buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var records []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		records = append(records, rec)
	}
	return records
}

func TestLogLevelString(t *testing.T) {
	testCases := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(42), "UNKNOWN"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.level.String())
		})
	}
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, LevelDebug, level)

	level, err = ParseLevel("WARNING")
	require.NoError(t, err)
	assert.Equal(t, LevelWarn, level)

	level, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, LevelInfo, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestLoggerFiltersByLevel(t *testing.T) {
	logger, buf := newJSONLogger(LevelWarn)
	ctx := context.Background()

	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	logger.Warn(ctx, nil, "warn message")
	logger.Error(ctx, errors.New("boom"), "error message")

	records := decodeLines(t, buf)
	require.Len(t, records, 2)
	assert.Equal(t, "warn message", records[0]["msg"])
	assert.Equal(t, "error message", records[1]["msg"])
	assert.Equal(t, "boom", records[1]["error"])
}

func TestLoggerFieldsAndComponent(t *testing.T) {
	logger, buf := newJSONLogger(LevelDebug)

	scoped := logger.WithComponent("icons").With("root", "/tmp/icons")
	scoped.Info(context.Background(), "catalog built", "entries", 3, "dangling")

	records := decodeLines(t, buf)
	require.Len(t, records, 1)
	assert.Equal(t, "icons", records[0]["component"])
	assert.Equal(t, "/tmp/icons", records[0]["root"])
	assert.Equal(t, float64(3), records[0]["entries"])
	assert.NotContains(t, records[0], "dangling")
}

func TestWithDoesNotMutateParent(t *testing.T) {
	logger, buf := newJSONLogger(LevelInfo)
	_ = logger.With("child", true)

	logger.Info(context.Background(), "parent")

	records := decodeLines(t, buf)
	require.Len(t, records, 1)
	assert.NotContains(t, records[0], "child")
}

func TestTextFormatUsesCharmHandler(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(&LoggerConfig{Level: LevelInfo, Format: "text", Output: buf})

	logger.Info(context.Background(), "stylesheet written", "path", "icons.css")

	out := buf.String()
	assert.Contains(t, out, "stylesheet written")
	assert.Contains(t, out, "icons.css")
}

func TestPerfLogger(t *testing.T) {
	logger, buf := newJSONLogger(LevelInfo)
	ctx := context.Background()

	op := logger.StartOperation("build")
	op.End(ctx, "rules", 2)

	op = logger.StartOperation("build")
	op.EndWithError(ctx, errors.New("unreadable"))

	records := decodeLines(t, buf)
	require.Len(t, records, 2)
	assert.Equal(t, "build completed", records[0]["msg"])
	assert.Equal(t, "build", records[0]["operation"])
	assert.Contains(t, records[0], "duration_ms")
	assert.Equal(t, "build failed", records[1]["msg"])
	assert.Equal(t, "unreadable", records[1]["error"])
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.NotPanics(t, func() {
		logger.Error(context.Background(), errors.New("x"), "ignored")
	})
}
