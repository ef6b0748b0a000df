package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestDefaultLoggerIsUsable(t *testing.T) {
	if Log == nil {
		t.Fatal("Log should never be nil")
	}
	Log.Info("no-op logger should accept entries")
}

func TestSetLevel(t *testing.T) {
	SetLevel("debug")
	if level.Level() != zapcore.DebugLevel {
		t.Errorf("expected debug level, got %v", level.Level())
	}

	SetLevel("not-a-level")
	if level.Level() != zapcore.DebugLevel {
		t.Error("unknown level should leave the level untouched")
	}

	SetLevel("info")
}
