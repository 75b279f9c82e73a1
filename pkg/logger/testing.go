package logger

import (
	"testing"
)

// TestLogger routes log output through testing.T so it shows up attached to
// the failing test. Fields are accepted and dropped.
type TestLogger struct {
	T *testing.T
}

// NewTestLogger creates a logger bound to t.
func NewTestLogger(t *testing.T) Logger {
	return &TestLogger{T: t}
}

func (l *TestLogger) log(level, msg string) {
	if l.T != nil {
		l.T.Logf("[%s] %s", level, msg)
	}
}

func (l *TestLogger) Debug(msg string) { l.log("DEBUG", msg) }

func (l *TestLogger) Info(msg string) { l.log("INFO", msg) }

func (l *TestLogger) Warn(msg string) { l.log("WARN", msg) }

func (l *TestLogger) Error(msg string) { l.log("ERROR", msg) }

func (l *TestLogger) Fatal(msg string) { l.log("FATAL", msg) }

func (l *TestLogger) WithField(key string, value interface{}) Logger { return l }

func (l *TestLogger) WithFields(fields map[string]interface{}) Logger { return l }
