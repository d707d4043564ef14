// Package service implements the audit log service.
package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/audit/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  auditdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  auditdomain.Repository
}

func NewService(p ServiceParam) auditdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) AuditLog(ctx context.Context, sellerID *snowflake.ID, actorType string, actorID *string, action string, targetType string, targetID *string, metadata map[string]any) error {
	if actorType == "" {
		actorType = string(auditdomain.ActorTypeSystem)
	}
	entry := &auditdomain.AuditLog{
		ID:         s.genID.Generate(),
		SellerID:   sellerID,
		ActorType:  actorType,
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Metadata:   datatypes.JSONMap{},
		CreatedAt:  time.Now().UTC(),
	}
	if metadata != nil {
		entry.Metadata = datatypes.JSONMap(metadata)
	}
	if err := s.repo.Insert(ctx, s.db, entry); err != nil {
		s.log.Warn("audit write failed",
			zap.String("action", action),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context, filter auditdomain.ListFilter) ([]*auditdomain.AuditLog, error) {
	return s.repo.List(ctx, s.db, filter)
}
