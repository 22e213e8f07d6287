package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunIDIsAttached(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{JSON: true}).With("component", "test")
	ctx := WithRunID(context.Background(), "abc-123")
	log.InfoContext(ctx, "ran")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "abc-123", rec["run_id"])
	assert.Equal(t, "test", rec["component"])
	assert.Equal(t, "ran", rec["msg"])
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, Options{}).Debug("hidden")
	assert.Empty(t, buf.String())

	New(&buf, Options{Debug: true}).Debug("shown")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	warn := New(&buf, Options{Level: "warn"})
	warn.Info("quiet")
	warn.Warn("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")

	buf.Reset()
	New(&buf, Options{Level: "error", Debug: true}).Debug("forced")
	assert.Contains(t, buf.String(), "forced")

	assert.Equal(t, slog.LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
