package authorization

import (
	"context"
	"strings"

	"github.com/casbin/casbin/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubjectSystem is the implicit superuser for background operations.
const SubjectSystem = "system"

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Enforcer *casbin.Enforcer
}

type ServiceImpl struct {
	db       *gorm.DB
	log      *zap.Logger
	enforcer *casbin.Enforcer
}

func NewService(p ServiceParam) Service {
	return &ServiceImpl{
		db:       p.DB,
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, actor string, object string, action string) error {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return ErrInvalidActor
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	if actor == SubjectSystem {
		return nil
	}

	allowed, err := s.enforcer.Enforce(actor, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Debug("authorization denied",
			zap.String("actor", actor),
			zap.String("object", object),
			zap.String("action", action),
		)
		return ErrForbidden
	}
	return nil
}
