package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/invoice/domain"
	orderdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/order/domain"
	payoutdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payout/domain"
	settingsdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payoutsettings/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CalculateEligible returns the invoices that currently qualify for payout
// along with totals and a verdict. The invoice list and totals come back
// even on a negative verdict.
func (s *Service) CalculateEligible(ctx context.Context, sellerID snowflake.ID) (payoutdomain.EligibilityResult, error) {
	if sellerID == 0 {
		return payoutdomain.EligibilityResult{}, payoutdomain.ErrInvalidSeller
	}
	settings, err := s.settingsSvc.Get(ctx, sellerID)
	if err != nil {
		return payoutdomain.EligibilityResult{}, err
	}
	return s.calculateEligible(ctx, s.db, sellerID, settings)
}

func (s *Service) calculateEligible(ctx context.Context, db *gorm.DB, sellerID snowflake.ID, settings *settingsdomain.PayoutSettings) (payoutdomain.EligibilityResult, error) {
	result := payoutdomain.EligibilityResult{
		Invoices:         []invoicedomain.Invoice{},
		TotalGross:       decimal.Zero,
		TotalPlatformFee: decimal.Zero,
		TotalNet:         decimal.Zero,
		Currency:         settings.Currency,
	}
	if result.Currency == "" {
		result.Currency = s.defaultCurrency
	}

	cutoff := s.now().Add(-settings.HoldDuration())
	candidates, err := s.repo.ListPayoutCandidates(ctx, db, sellerID, cutoff)
	if err != nil {
		return result, err
	}

	// Per-candidate order and dispute lookups are deliberate N+1: payout
	// batches are small and correctness wins over query count here.
	for _, invoice := range candidates {
		order, err := s.repo.FindOrder(ctx, db, invoice.OrderID)
		if err != nil {
			return result, err
		}
		if order == nil || order.Status != orderdomain.OrderStatusClosed {
			continue
		}
		disputed, err := s.repo.HasOpenDispute(ctx, db, invoice.OrderID)
		if err != nil {
			return result, err
		}
		if disputed {
			continue
		}
		result.Invoices = append(result.Invoices, invoice)
	}

	if len(result.Invoices) == 0 {
		result.Reason = payoutdomain.ReasonNoEligibleInvoices
		return result, nil
	}

	result.Currency = result.Invoices[0].Currency
	for _, invoice := range result.Invoices {
		if invoice.Currency != result.Currency {
			result.Reason = "Invoices span multiple currencies; payout requires a single currency"
			return result, nil
		}
		result.TotalGross = result.TotalGross.Add(invoice.TotalAmount)
		result.TotalPlatformFee = result.TotalPlatformFee.Add(invoice.PlatformFeeAmount)
		result.TotalNet = result.TotalNet.Add(invoice.NetForPayout())
	}

	if result.TotalNet.LessThan(settings.MinPayoutAmount) {
		result.Reason = fmt.Sprintf(
			"Total amount (%s %s) is below minimum payout threshold (%s %s)",
			result.TotalNet.StringFixed(2), result.Currency,
			settings.MinPayoutAmount.String(), result.Currency,
		)
		return result, nil
	}

	result.Eligible = true
	return result, nil
}

// EnhancedEligibility layers bank verification and the projected next payout
// date on top of the base eligibility verdict.
func (s *Service) EnhancedEligibility(ctx context.Context, sellerID snowflake.ID) (payoutdomain.EnhancedEligibilityResult, error) {
	base, err := s.CalculateEligible(ctx, sellerID)
	if err != nil {
		return payoutdomain.EnhancedEligibilityResult{}, err
	}
	settings, err := s.settingsSvc.Get(ctx, sellerID)
	if err != nil {
		return payoutdomain.EnhancedEligibilityResult{}, err
	}

	result := payoutdomain.EnhancedEligibilityResult{
		EligibilityResult: base,
		AutoPayoutEnabled: settings.AutoPayoutEnabled,
		MinPayoutAmount:   settings.MinPayoutAmount,
	}

	account, err := s.repo.FindBankAccount(ctx, s.db, sellerID)
	if err != nil {
		return payoutdomain.EnhancedEligibilityResult{}, err
	}
	if account != nil && account.Verified() {
		result.BankVerified = true
	}

	if settings.AutoPayoutEnabled {
		next := nextScheduledPayout(s.now(), settings.Schedule, settings.PayoutDay)
		result.NextPayoutDate = &next
	}

	if !result.BankVerified {
		s.log.Debug("seller bank not verified", zap.String("seller_id", sellerID.String()))
	}
	return result, nil
}

// nextScheduledPayout projects the next automatic run from the schedule and
// the seller's payout day. Daily runs the next day; weekly and biweekly land
// on the configured ISO weekday (1 = Monday); monthly on the configured day
// of month. All at midnight UTC.
func nextScheduledPayout(now time.Time, schedule settingsdomain.Schedule, payoutDay int) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !settingsdomain.ValidPayoutDay(schedule, payoutDay) {
		payoutDay = 1
	}
	switch schedule {
	case settingsdomain.ScheduleDaily:
		return day.AddDate(0, 0, 1)
	case settingsdomain.ScheduleMonthly:
		next := time.Date(now.Year(), now.Month(), payoutDay, 0, 0, 0, 0, time.UTC)
		if !next.After(day) {
			next = next.AddDate(0, 1, 0)
		}
		return next
	case settingsdomain.ScheduleBiweekly:
		return nextWeekday(day.AddDate(0, 0, 7), isoWeekday(payoutDay))
	default:
		return nextWeekday(day, isoWeekday(payoutDay))
	}
}

// isoWeekday maps ISO day numbers (1 = Monday .. 7 = Sunday) to time.Weekday.
func isoWeekday(day int) time.Weekday {
	return time.Weekday(day % 7)
}

func nextWeekday(from time.Time, weekday time.Weekday) time.Time {
	days := (int(weekday) - int(from.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return from.AddDate(0, 0, days)
}
