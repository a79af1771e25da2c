// Package logging constructs the process-wide zap logger, leveled by
// DEBUG_LEVEL the way the rest of the environment-driven config is read.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger writing structured JSON to stderr (stdout is
// reserved for the stdio transport's JSON-RPC frames). debugLevel 0 logs
// warnings and above; 3 logs debug and above.
func New(debugLevel int) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	switch {
	case debugLevel <= 0:
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case debugLevel == 1:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
