package payout

import (
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payout/repository"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payout/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payout.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
