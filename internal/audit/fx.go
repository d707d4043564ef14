package audit

import (
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/audit/repository"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
