package logging_test

import (
	"testing"

	"github.com/code42/code42-go/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_Levels(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := logging.NewZapLogger(zap.New(core))

	logger.Debug("debug message", map[string]interface{}{"path": "org/my"})
	logger.Info("info message", nil)
	logger.Warn("warn message", map[string]interface{}{"status": 500})
	logger.Error("error message", map[string]interface{}{"error": "boom"})

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)

	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "org/my", entries[0].ContextMap()["path"])
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Empty(t, entries[1].Context)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, int64(500), entries[2].ContextMap()["status"])
	assert.Equal(t, "error message", entries[3].Message)
}

func TestZapLogger_FiltersBelowLevel(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	logger := logging.NewZapLogger(zap.New(core))

	logger.Debug("hidden", nil)
	logger.Info("hidden", nil)
	logger.Warn("shown", nil)

	assert.Equal(t, 1, logs.Len())
}

func TestNew(t *testing.T) {
	t.Parallel()

	quiet, err := logging.New(false)
	require.NoError(t, err)
	assert.False(t, quiet.Zap().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, quiet.Zap().Core().Enabled(zapcore.WarnLevel))

	verbose, err := logging.New(true)
	require.NoError(t, err)
	assert.True(t, verbose.Zap().Core().Enabled(zapcore.DebugLevel))
}
