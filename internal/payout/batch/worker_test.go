package batch

import (
	"context"
	"testing"
	"time"

	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/clock"
	payoutdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payout/domain"
	"go.uber.org/zap"
)

type stubPayoutService struct {
	payoutdomain.Service

	calls      int
	payoutDate time.Time
	result     payoutdomain.BatchResult
	err        error
}

func (s *stubPayoutService) CreateBatch(ctx context.Context, payoutDate time.Time) (payoutdomain.BatchResult, error) {
	s.calls++
	s.payoutDate = payoutDate
	return s.result, s.err
}

func TestRunOnce(t *testing.T) {
	now := time.Date(2026, time.March, 18, 3, 0, 0, 0, time.UTC)
	stub := &stubPayoutService{
		result: payoutdomain.BatchResult{
			Created: 2,
			Errors:  []payoutdomain.BatchError{{SellerID: "9", Error: "no bank"}},
		},
	}
	worker := NewWorker(Params{
		Log:       zap.NewNop(),
		Clock:     clock.FixedClock{At: now},
		PayoutSvc: stub,
	})

	if err := worker.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if stub.calls != 1 {
		t.Fatalf("calls = %d, want 1", stub.calls)
	}
	if !stub.payoutDate.Equal(now) {
		t.Fatalf("payout date = %v, want %v", stub.payoutDate, now)
	}
}

func TestRunOnceWithoutService(t *testing.T) {
	worker := &Worker{log: zap.NewNop(), clock: clock.SystemClock{}}
	if err := worker.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected an error without a payout service")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.PollInterval != time.Hour {
		t.Fatalf("poll interval = %v, want 1h", cfg.PollInterval)
	}
	cfg = Config{PollInterval: 5 * time.Minute}.withDefaults()
	if cfg.PollInterval != 5*time.Minute {
		t.Fatalf("poll interval = %v, want 5m", cfg.PollInterval)
	}
}
