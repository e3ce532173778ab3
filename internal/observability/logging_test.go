package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_ProductionWritesJSONWithContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "production", "info")

	ctx := WithCorrelationID(context.Background(), "corr-1")
	ctx = context.WithValue(ctx, SessionUserID, "user-001")
	logger.InfoContext(ctx, "hello", slog.String("k", "v"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "corr-1", line["correlation_id"])
	assert.Equal(t, "user-001", line["session_user_id"])
	assert.Equal(t, "v", line["k"])
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "development", "warn")

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestStoreLogger_LogError(t *testing.T) {
	var buf bytes.Buffer
	prev := GlobalLogger
	GlobalLogger = NewLogger(&buf, "production", "debug")
	t.Cleanup(func() { GlobalLogger = prev })

	l := NewStoreLogger("notes-storage")
	l.LogError(context.Background(), assert.AnError, "save")

	assert.Contains(t, buf.String(), `"slot":"notes-storage"`)
	assert.Contains(t, buf.String(), `"operation":"save"`)
}

func TestExtractCorrelationID_Missing(t *testing.T) {
	assert.Equal(t, "", ExtractCorrelationID(context.Background()))
}
