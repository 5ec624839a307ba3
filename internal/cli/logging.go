package cli

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"claimmap/internal/config"
)

// newLogger writes JSON to the configured file for the viewer, and
// human-readable lines to stderr for one-shot subcommands.
func newLogger(lc config.LogConfig, toFile, verbose bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if lc.Level != "" {
		l, err := zapcore.ParseLevel(lc.Level)
		if err != nil {
			return nil, fmt.Errorf("log.level: %w", err)
		}
		level = l
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	var zc zap.Config
	if toFile && lc.File != "" {
		zc = zap.NewProductionConfig()
		zc.OutputPaths = []string{lc.File}
		zc.ErrorOutputPaths = []string{lc.File}
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.DisableStacktrace = true
		zc.OutputPaths = []string{"stderr"}
		zc.ErrorOutputPaths = []string{"stderr"}
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
