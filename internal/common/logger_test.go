package common

import (
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// captureLogs routes the default logger into a buffer for the test.
func captureLogs(t *testing.T, level slog.Level) *strings.Builder {
	t.Helper()

	var buf strings.Builder
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLogError(t *testing.T) {
	buf := captureLogs(t, slog.LevelError)

	LogError(errors.New("connection reset"), "Valuation poll failed", Fields{"id": "val-1"})

	out := buf.String()
	assert.Contains(t, out, "Valuation poll failed")
	assert.Contains(t, out, "connection reset")
	assert.Contains(t, out, "id=val-1")
}

func TestLogInfoAndDebug(t *testing.T) {
	buf := captureLogs(t, slog.LevelDebug)

	LogInfo("Watching valuation", Fields{"id": "val-2", "status": "processing"})
	LogDebug("Observed valuation snapshot", Fields{"step": "analysis"})

	out := buf.String()
	assert.Contains(t, out, "Watching valuation")
	assert.Contains(t, out, "status=processing")
	assert.Contains(t, out, "step=analysis")
}

func TestLogDebugSuppressedBelowLevel(t *testing.T) {
	buf := captureLogs(t, slog.LevelInfo)

	LogDebug("Observed valuation snapshot", Fields{"step": "vector"})
	assert.Empty(t, buf.String())
}
