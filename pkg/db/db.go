// Package db provides the shared gorm connection.
package db

import (
	"context"

	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var Module = fx.Module("db",
	fx.Provide(Open),
	fx.Invoke(registerClose),
)

// Open connects to the configured Postgres database.
func Open(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	}
	conn, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), gormCfg)
	if err != nil {
		return nil, err
	}
	log.Info("database connected")
	return conn, nil
}

func registerClose(lc fx.Lifecycle, conn *gorm.DB) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
}
