package lorelog

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTextHandlerWritesPlainLines(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Format: FormatText, Output: &buf})
	logger.Info("hello", "key", "value")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "key=value")
}

func TestNewJSONHandlerWritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Format: FormatJSON, Output: &buf})
	logger.Info("hello")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "{"))
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Format: FormatText, Output: &buf, Level: slog.LevelWarn})
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestDiscardDropsRecords(t *testing.T) {
	logger := Discard()
	logger.Error("should not panic or be observable")
}

func TestInitMetricsIsNoOpWithoutEnv(t *testing.T) {
	t.Setenv("LORE_METRICS", "")
	shutdown, err := InitMetrics(context.Background())
	assert.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitMetricsInstallsProviderWhenEnabled(t *testing.T) {
	t.Setenv("LORE_METRICS", "1")
	shutdown, err := InitMetrics(context.Background())
	assert.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
