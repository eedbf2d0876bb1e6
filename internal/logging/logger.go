// Package logging sets up the shared zap logger for postall.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// L is the global sugared logger. It defaults to a no-op logger so packages
// can log before Initialize is called without nil checks.
var L *zap.SugaredLogger

func init() {
	L = zap.NewNop().Sugar()
}

// Initialize sets up the global logger.
//
// With jsonOutput, logs are emitted as structured JSON for machine
// consumption. Otherwise a human-readable console encoder is used. verbose
// lowers the level to debug.
func Initialize(verbose, jsonOutput bool) error {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}

	var cfg zap.Config
	if jsonOutput {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := cfg.Build()
	if err != nil {
		return err
	}

	L = logger.Sugar()
	return nil
}
