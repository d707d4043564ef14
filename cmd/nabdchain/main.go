package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/casbin/casbin/v2"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/audit"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/authorization"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/clock"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/config"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/events"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/ledger"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/logger"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/migration"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/observability/metrics"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payout"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payout/batch"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payoutsettings"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/seed"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/server"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var version = "dev"

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		fx.Provide(func(cfg config.Config) *metrics.PayoutMetrics {
			return metrics.PayoutWithConfig(metrics.Config{
				ServiceName: cfg.ServiceName,
				Environment: cfg.Environment,
			})
		}),
		db.Module,
		fx.Invoke(func(conn *gorm.DB) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return migration.RunMigrations(sqlDB)
		}),
		clock.Module,
		fx.Provide(events.NewOutbox),
		audit.Module,
		ledger.Module,
		authorization.Module,
		fx.Invoke(func(enforcer *casbin.Enforcer) error {
			return seed.EnsurePayoutPolicies(enforcer)
		}),
		payoutsettings.Module,
		payout.Module,
		batch.Module,
		server.Module,
	)
	app.Run()
}
