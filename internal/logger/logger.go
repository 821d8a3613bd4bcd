package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the package-wide SugaredLogger shared by handlers, services and
// repositories. It is a no-op until Initialize is called, so packages can log
// unconditionally and tests stay silent.
var Log *zap.SugaredLogger = zap.NewNop().Sugar()

// Initialize replaces Log with a production zap logger at the given level
// ("debug", "info", "warn", ...).
func Initialize(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return err
	}

	Log = logger.Sugar()
	return nil
}
