package logger

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapWrapper_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).With(map[string]interface{}{"taskType": "generate-reply"})

	log.Warn("Reply generation degraded", map[string]interface{}{
		"stage": "variation",
		"cause": stderrors.New("connection refused"),
	})
	log.WithError(stderrors.New("boom")).Error("Job failed", nil)

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "generate-reply", first["taskType"])
	assert.Equal(t, "variation", first["stage"])
	assert.Equal(t, "connection refused", first["cause"])

	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestUnwrap(t *testing.T) {
	z := zap.NewNop()
	assert.Same(t, z, Unwrap(NewZapAdapter(z)))
	assert.NotNil(t, Unwrap(nil))
}
