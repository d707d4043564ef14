// Package logger provides the application-wide zap logger.
package logger

import (
	"strings"

	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Module = fx.Module("logger",
	fx.Provide(New),
	fx.Invoke(func(log *zap.Logger) {
		zap.ReplaceGlobals(log)
	}),
)

// New builds a zap logger tuned to the configured environment.
func New(cfg config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(parseLevel(cfg.LogLevel))

	log, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return log.With(
		zap.String("service", cfg.ServiceName),
		zap.String("env", cfg.Environment),
	), nil
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
