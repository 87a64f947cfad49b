package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// The no-op default keeps uninitialized use (tests, one-off tooling) quiet
// and safe.
var log = zap.NewNop()

// Init builds the global logger. Production gets structured JSON logs,
// anything else gets the colorized development encoder.
func Init(env, level string) {
	var logConfig zap.Config
	if env == "production" {
		logConfig = zap.NewProductionConfig()
	} else {
		logConfig = zap.NewDevelopmentConfig()
		logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var parsed zapcore.Level
	if err := parsed.UnmarshalText([]byte(level)); err != nil {
		parsed = zapcore.InfoLevel
	}
	logConfig.Level.SetLevel(parsed)

	built, err := logConfig.Build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	log = built
}

// L returns the global logger.
func L() *zap.Logger {
	return log
}

// Sync flushes buffered log entries.
func Sync() {
	_ = log.Sync()
}
