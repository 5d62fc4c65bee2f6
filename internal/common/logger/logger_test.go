package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestZapAdapter_CarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).
		With(map[string]interface{}{"handler": "predict-cost"}).
		WithError(errors.New("boom"))

	log.Warn("prediction saved with warnings", map[string]interface{}{"userEmail": "a@b.c"})

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "prediction saved with warnings", entries[0].Message)
		assert.Equal(t, "predict-cost", ctx["handler"])
		assert.Equal(t, "a@b.c", ctx["userEmail"])
		assert.Equal(t, "boom", ctx["error"])
	}
}

func TestNoOpLogger(t *testing.T) {
	log := NewNoOpLogger()
	assert.NotPanics(t, func() {
		log.Info("ignored", nil)
		log.WithFields(nil).Error("ignored", map[string]interface{}{"k": 1})
	})
}

func TestZapAdapter_FieldOrderAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core))

	assert.Same(t, log, log.WithError(nil))

	log.Error("history save failed", map[string]interface{}{
		"userEmail": "a@b.c",
		"cause":     errors.New("index closed"),
		"attempt":   2,
	})

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].Context
		keys := make([]string, 0, len(fields))
		for _, f := range fields {
			keys = append(keys, f.Key)
		}
		assert.Equal(t, []string{"attempt", "cause", "userEmail"}, keys)
		assert.Equal(t, "index closed", entries[0].ContextMap()["cause"])
	}
}

func TestNew_WritesToConfiguredOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")
	l := New("debug", "json", path)
	l.Debug("model loaded", zap.Int("members", 3))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"model loaded"`)
	assert.Contains(t, string(data), `"timestamp":`)
	assert.Contains(t, string(data), `"members":3`)
}
