// Package service implements the payout lifecycle service.
package service

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/clock"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/config"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/events"
	ledgerdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/ledger/domain"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/observability/metrics"
	payoutdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payout/domain"
	settingsdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payoutsettings/domain"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Config      config.Config
	Repo        payoutdomain.Repository
	SettingsSvc settingsdomain.Service
	LedgerSvc   ledgerdomain.Service
	Outbox      *events.Outbox
	Metrics     *metrics.PayoutMetrics
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock

	defaultCurrency string
	repo            payoutdomain.Repository
	settingsSvc     settingsdomain.Service
	ledgerSvc       ledgerdomain.Service
	outbox          *events.Outbox
	payoutStore     repository.Repository[payoutdomain.Payout]
	metrics         *metrics.PayoutMetrics
}

func NewService(p ServiceParam) payoutdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("payout.service"),
		genID: p.GenID,
		clock: p.Clock,

		defaultCurrency: p.Config.Payout.DefaultCurrency,
		repo:            p.Repo,
		settingsSvc:     p.SettingsSvc,
		ledgerSvc:       p.LedgerSvc,
		outbox:          p.Outbox,
		payoutStore:     repository.ProvideStore[payoutdomain.Payout](p.DB),
		metrics:         p.Metrics,
	}
}

func (s *Service) now() time.Time {
	if s.clock != nil {
		return s.clock.Now().UTC()
	}
	return time.Now().UTC()
}
