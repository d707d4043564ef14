// Package batch runs scheduled payout creation across all sellers.
package batch

import (
	"context"
	"errors"
	"time"

	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/clock"
	payoutdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payout/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Clock     clock.Clock
	PayoutSvc payoutdomain.Service
	Config    Config `optional:"true"`
}

type Worker struct {
	log       *zap.Logger
	clock     clock.Clock
	payoutSvc payoutdomain.Service
	cfg       Config
}

func NewWorker(p Params) *Worker {
	return &Worker{
		log:       p.Log.Named("payout.batch"),
		clock:     p.Clock,
		payoutSvc: p.PayoutSvc,
		cfg:       p.Config.withDefaults(),
	}
}

func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if err := w.RunOnce(ctx); err != nil {
			w.log.Warn("batch payout run failed", zap.Error(err))
		}
	}
}

func (w *Worker) RunOnce(ctx context.Context) error {
	if w.payoutSvc == nil {
		return errors.New("batch_worker_unavailable")
	}
	runCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	result, err := w.payoutSvc.CreateBatch(runCtx, w.clock.Now())
	if err != nil {
		return err
	}
	for _, failure := range result.Errors {
		w.log.Warn("batch seller failed",
			zap.String("seller_id", failure.SellerID),
			zap.String("error", failure.Error),
		)
	}
	return nil
}
