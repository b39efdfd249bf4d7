package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is a no-op logger until Init is called.
var Log *zap.SugaredLogger = zap.NewNop().Sugar()

type Config struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Init replaces Log with a production logger writing to cfg.File. The
// terminal belongs to the game, so an empty file keeps logging disabled.
func Init(cfg Config) error {
	if cfg.File == "" {
		Log = zap.NewNop().Sugar()
		return nil
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{cfg.File}
	zcfg.ErrorOutputPaths = []string{cfg.File}

	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	Log = logger.Sugar()
	return nil
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Log.Sync()
}
