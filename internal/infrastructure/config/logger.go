package config

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger. Everything goes to stderr so the
// event stream on stdout stays clean. The default level is warn; verbose
// raises it to info and debug to full development output.
func NewLogger(cfg LoggingConfig) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	switch {
	case cfg.Debug:
		level = zapcore.DebugLevel
	case cfg.Verbose:
		level = zapcore.InfoLevel
	}

	zc := zap.NewProductionConfig()
	if cfg.Debug {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
