package payoutsettings

import (
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payoutsettings/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payoutsettings.service",
	fx.Provide(service.NewSettingsCache),
	fx.Provide(service.NewService),
)
