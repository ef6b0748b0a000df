package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the engine wide logger. It is a no-op logger until Init is called.
var Log = zap.NewNop()

var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// Init builds the global logger. Development mode uses a console encoder
// with caller and stacktrace info.
func Init(development bool) {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = level

	l, err := cfg.Build()
	if err != nil {
		// Keep the previous logger, there is nowhere to report this.
		return
	}
	Log = l
}

// SetLevel changes the level of the global logger at runtime.
// Unknown level names leave the level untouched.
func SetLevel(name string) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		Log.Warn("Unknown log level", zap.String("level", name))
		return
	}
	level.SetLevel(lvl)
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Log.Sync()
}
