package util

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LoggerConfig picks the encoding and verbosity of the service logger.
type LoggerConfig struct {
	Service string
	Env     string
	// Level is a zap level name; empty means info in production and debug
	// everywhere else.
	Level string
}

// InitLogger builds the process-wide logger: JSON in production, colored
// console output otherwise. Every entry carries the service name.
func InitLogger(cfg LoggerConfig) error {
	zc := zap.NewDevelopmentConfig()
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if cfg.Env == "production" {
		zc = zap.NewProductionConfig()
	}

	if cfg.Level != "" {
		lvl, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("log level %q: %w", cfg.Level, err)
		}
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}

	built, err := zc.Build(zap.Fields(zap.String("service", cfg.Service)))
	if err != nil {
		return err
	}
	logger = built.Named(cfg.Service)
	zap.ReplaceGlobals(logger)
	return nil
}

// GetLogger returns the service logger, or a no-op logger before
// InitLogger has run (as in tests).
func GetLogger() *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

func SyncLogger() {
	if logger != nil {
		_ = logger.Sync()
	}
}
