package ledger

import (
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/ledger/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ledger.service",
	fx.Provide(service.NewService),
)
