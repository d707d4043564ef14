// Package service implements the payout settings service.
package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/audit/domain"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/cache"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/config"
	settingsdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payoutsettings/domain"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const cacheTTL = time.Minute

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Config   config.Config
	AuditSvc auditdomain.Service
	Cache    cache.Cache[snowflake.ID, settingsdomain.PayoutSettings]
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node

	defaultCurrency string
	auditSvc        auditdomain.Service
	cache           cache.Cache[snowflake.ID, settingsdomain.PayoutSettings]
	store           repository.Repository[settingsdomain.PayoutSettings]
}

func NewService(p ServiceParam) settingsdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("payoutsettings.service"),
		genID: p.GenID,

		defaultCurrency: p.Config.Payout.DefaultCurrency,
		auditSvc:        p.AuditSvc,
		cache:           p.Cache,
		store:           repository.ProvideStore[settingsdomain.PayoutSettings](p.DB),
	}
}

// NewSettingsCache provides the TTL cache used for hot-path settings reads.
func NewSettingsCache() cache.Cache[snowflake.ID, settingsdomain.PayoutSettings] {
	return cache.NewTTLCache[snowflake.ID, settingsdomain.PayoutSettings]()
}

func (s *Service) Get(ctx context.Context, sellerID snowflake.ID) (*settingsdomain.PayoutSettings, error) {
	if sellerID == 0 {
		return nil, settingsdomain.ErrInvalidSeller
	}
	if cached, ok := s.cache.Get(sellerID); ok {
		return &cached, nil
	}

	settings, err := s.store.FindOne(ctx, &settingsdomain.PayoutSettings{SellerID: sellerID})
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings, err = s.createDefaults(ctx, sellerID)
		if err != nil {
			return nil, err
		}
	}

	s.cache.Set(sellerID, *settings, cacheTTL)
	return settings, nil
}

func (s *Service) Update(ctx context.Context, sellerID snowflake.ID, req settingsdomain.UpdateRequest, actorID *snowflake.ID) (*settingsdomain.PayoutSettings, error) {
	settings, err := s.Get(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if req.Schedule != nil {
		if !settingsdomain.ValidSchedule(*req.Schedule) {
			return nil, settingsdomain.ErrInvalidSchedule
		}
		settings.Schedule = *req.Schedule
		changes["schedule"] = string(*req.Schedule)
	}
	if req.PayoutDay != nil {
		if !settingsdomain.ValidPayoutDay(settings.Schedule, *req.PayoutDay) {
			return nil, settingsdomain.ErrInvalidPayoutDay
		}
		settings.PayoutDay = *req.PayoutDay
		changes["payout_day"] = *req.PayoutDay
	} else if req.Schedule != nil && !settingsdomain.ValidPayoutDay(settings.Schedule, settings.PayoutDay) {
		// Switching schedule can strand the stored day out of range, e.g.
		// monthly day 28 back to weekly. Reset to the first day.
		settings.PayoutDay = 1
		changes["payout_day"] = 1
	}
	if req.MinPayoutAmount != nil {
		if req.MinPayoutAmount.IsNegative() {
			return nil, settingsdomain.ErrInvalidMinAmount
		}
		settings.MinPayoutAmount = *req.MinPayoutAmount
		changes["min_payout_amount"] = req.MinPayoutAmount.String()
	}
	if req.HoldEnabled != nil {
		settings.HoldEnabled = *req.HoldEnabled
		changes["hold_enabled"] = *req.HoldEnabled
	}
	if req.HoldDays != nil {
		if *req.HoldDays < 0 || *req.HoldDays > 90 {
			return nil, settingsdomain.ErrInvalidHoldDays
		}
		settings.HoldDays = *req.HoldDays
		changes["hold_days"] = *req.HoldDays
	}
	if req.AutoPayoutEnabled != nil {
		settings.AutoPayoutEnabled = *req.AutoPayoutEnabled
		changes["auto_payout_enabled"] = *req.AutoPayoutEnabled
	}
	if len(changes) == 0 {
		return settings, nil
	}

	settings.UpdatedAt = time.Now().UTC()
	if err := s.store.Update(ctx, settings); err != nil {
		return nil, err
	}
	s.cache.Delete(sellerID)

	actorType := string(auditdomain.ActorTypeSeller)
	var actorRef *string
	if actorID != nil {
		actorType = string(auditdomain.ActorTypeAdmin)
		v := actorID.String()
		actorRef = &v
	}
	targetID := settings.ID.String()
	if err := s.auditSvc.AuditLog(ctx, &sellerID, actorType, actorRef, "payout_settings.update", "payout_settings", &targetID, changes); err != nil {
		s.log.Warn("audit log write failed",
			zap.String("action", "payout_settings.update"),
			zap.String("seller_id", sellerID.String()),
			zap.Error(err))
	}

	return settings, nil
}

func (s *Service) createDefaults(ctx context.Context, sellerID snowflake.ID) (*settingsdomain.PayoutSettings, error) {
	defaults := settingsdomain.Defaults(sellerID, s.defaultCurrency)
	defaults.ID = s.genID.Generate()
	now := time.Now().UTC()
	defaults.CreatedAt = now
	defaults.UpdatedAt = now

	// Two concurrent first reads may race on the insert; the unique seller
	// index plus DoNothing keeps exactly one row, re-read below wins either way.
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&defaults).Error
	if err != nil {
		return nil, err
	}

	settings, err := s.store.FindOne(ctx, &settingsdomain.PayoutSettings{SellerID: sellerID})
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, gorm.ErrRecordNotFound
	}
	s.log.Info("created default payout settings", zap.String("seller_id", sellerID.String()))
	return settings, nil
}
