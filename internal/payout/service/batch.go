package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	payoutdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payout/domain"
	"go.uber.org/zap"
)

// batchPeriodDays is the trailing window a batch payout covers.
const batchPeriodDays = 7

// CreateBatch runs eligibility and creation for every seller with automatic
// payouts enabled or an approved bank account. One seller's failure never
// blocks the rest of the batch.
func (s *Service) CreateBatch(ctx context.Context, payoutDate time.Time) (payoutdomain.BatchResult, error) {
	if payoutDate.IsZero() {
		payoutDate = s.now()
	}
	started := time.Now()

	sellerIDs, err := s.batchSellerIDs(ctx)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ObserveBatchRun(time.Since(started), true)
		}
		return payoutdomain.BatchResult{}, err
	}

	result := payoutdomain.BatchResult{Errors: []payoutdomain.BatchError{}}
	periodEnd := payoutDate.UTC()
	periodStart := periodEnd.AddDate(0, 0, -batchPeriodDays)

	for _, sellerID := range sellerIDs {
		outcome := s.runSeller(ctx, sellerID, periodStart, periodEnd)
		switch {
		case outcome.err != "":
			result.Errors = append(result.Errors, payoutdomain.BatchError{
				SellerID: sellerID.String(),
				Error:    outcome.err,
			})
		case outcome.created:
			result.Created++
		default:
			result.Skipped++
		}
	}

	if s.metrics != nil {
		s.metrics.ObserveBatchRun(time.Since(started), false)
		s.metrics.AddBatchSellers("created", result.Created)
		s.metrics.AddBatchSellers("skipped", result.Skipped)
		s.metrics.AddBatchSellers("error", len(result.Errors))
	}
	s.log.Info("batch payout run finished",
		zap.Int("sellers", len(sellerIDs)),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

type sellerOutcome struct {
	created bool
	err     string
}

// runSeller isolates one seller's payout attempt: panics and errors are
// captured into the outcome so the batch loop keeps going.
func (s *Service) runSeller(ctx context.Context, sellerID snowflake.ID, periodStart, periodEnd time.Time) (outcome sellerOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = sellerOutcome{err: fmt.Sprintf("panic: %v", r)}
			s.log.Error("batch seller panicked",
				zap.String("seller_id", sellerID.String()),
				zap.Any("panic", r),
			)
		}
	}()

	eligibility, err := s.CalculateEligible(ctx, sellerID)
	if err != nil {
		return sellerOutcome{err: err.Error()}
	}
	if !eligibility.Eligible {
		return sellerOutcome{}
	}

	// Settings may have flipped since the union query; respect the latest.
	settings, err := s.settingsSvc.Get(ctx, sellerID)
	if err != nil {
		return sellerOutcome{err: err.Error()}
	}
	if !settings.AutoPayoutEnabled {
		return sellerOutcome{}
	}

	created, err := s.Create(ctx, payoutdomain.CreateRequest{
		SellerID:    sellerID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
	})
	if err != nil {
		return sellerOutcome{err: err.Error()}
	}
	if !created.Success {
		return sellerOutcome{err: created.Error}
	}
	return sellerOutcome{created: true}
}

// batchSellerIDs unions sellers who enabled auto payout with sellers holding
// an approved bank account. A seller who verified their bank before touching
// settings still shows up.
func (s *Service) batchSellerIDs(ctx context.Context) ([]snowflake.ID, error) {
	autoIDs, err := s.repo.AutoPayoutSellerIDs(ctx, s.db)
	if err != nil {
		return nil, err
	}
	bankIDs, err := s.repo.ApprovedBankSellerIDs(ctx, s.db)
	if err != nil {
		return nil, err
	}

	seen := make(map[snowflake.ID]struct{}, len(autoIDs)+len(bankIDs))
	ids := make([]snowflake.ID, 0, len(autoIDs)+len(bankIDs))
	for _, id := range append(autoIDs, bankIDs...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
