package batch

import (
	"context"

	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("payout.batch",
	fx.Provide(NewConfig),
	fx.Provide(NewWorker),
	fx.Invoke(runWorker),
)

func NewConfig(cfg config.Config) Config {
	return Config{
		Enabled:      cfg.Payout.BatchEnabled,
		PollInterval: cfg.Payout.BatchInterval,
	}
}

func runWorker(lc fx.Lifecycle, worker *Worker) {
	if !worker.cfg.Enabled {
		return
	}

	runCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go worker.RunForever(runCtx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
