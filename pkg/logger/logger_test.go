package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLoggerWithLevel(t *testing.T) {
	tests := []struct {
		name          string
		level         string
		expectedLevel zerolog.Level
	}{
		{"debug level", "debug", zerolog.DebugLevel},
		{"info level", "info", zerolog.InfoLevel},
		{"warn level", "warn", zerolog.WarnLevel},
		{"warning level", "warning", zerolog.WarnLevel},
		{"error level", "error", zerolog.ErrorLevel},
		{"fatal level", "fatal", zerolog.FatalLevel},
		{"panic level", "panic", zerolog.PanicLevel},
		{"disabled level", "disabled", zerolog.Disabled},
		{"off level", "off", zerolog.Disabled},
		{"unknown level defaults to info", "unknown", zerolog.InfoLevel},
		{"empty string defaults to info", "", zerolog.InfoLevel},
		{"mixed case", "DEBUG", zerolog.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := NewLoggerWithLevel(tt.level)
			assert.NotNil(t, log)
			assert.IsType(t, &zerologLogger{}, log)
			assert.Equal(t, tt.expectedLevel, zerolog.GlobalLevel())
		})
	}

	// reset for other tests
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func TestWithField(t *testing.T) {
	base := NewLogger()
	derived := base.WithField("workspace_id", "ws1")
	assert.NotNil(t, derived)
	// the derived logger must be a distinct instance
	assert.NotSame(t, base, derived)
}

func TestTestLogger(t *testing.T) {
	log := NewTestLogger(t)
	log.Debug("debug")
	log.Info("info")
	log.Warn("warn")
	log.Error("error")
	assert.Same(t, log, log.WithField("k", "v"))
	assert.Same(t, log, log.WithFields(map[string]interface{}{"k": "v"}))
}
