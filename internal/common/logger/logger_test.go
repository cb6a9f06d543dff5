package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestZapAdapter_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"taskType": "estimate-salary"})

	log.Info("estimate computed", map[string]interface{}{"predictedSalary": 111500.0})
	log.WithError(errors.New("boom")).Error("job failed", nil)

	entries := logs.All()
	assert.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "estimate-salary", first["taskType"])
	assert.Equal(t, 111500.0, first["predictedSalary"])

	second := entries[1].ContextMap()
	assert.Equal(t, "boom", second["error"])
}

func TestMapToZapFields_Empty(t *testing.T) {
	assert.Nil(t, mapToZapFields(nil))
}

func TestNewStructured_DoesNotPanic(t *testing.T) {
	log := NewStructured("debug", "json")
	log.Debug("hello", map[string]interface{}{"k": "v"})
	NewNoOpLogger().Info("ignored", nil)
	NewTestLogger(t).Warn("visible in -v", nil)
}
