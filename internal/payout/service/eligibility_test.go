package service

import (
	"context"
	"testing"
	"time"

	disputedomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/dispute/domain"
	orderdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/order/domain"
	payoutdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payout/domain"
	settingsdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payoutsettings/domain"
	"github.com/shopspring/decimal"
)

func TestCalculateEligibleHoldBoundary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sellerID := env.node.Generate()

	// Exactly at the 7-day boundary counts; one second inside the window
	// does not.
	boundary := seedPaidInvoice(t, env, sellerID, "INV-001", "300", "30", paidDaysAgo(7), orderdomain.OrderStatusClosed)
	seedPaidInvoice(t, env, sellerID, "INV-002", "400", "40", paidDaysAgo(7).Add(time.Second), orderdomain.OrderStatusClosed)

	result, err := env.svc.CalculateEligible(ctx, sellerID)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if !result.Eligible {
		t.Fatalf("expected eligible, reason: %s", result.Reason)
	}
	if len(result.Invoices) != 1 || result.Invoices[0].ID != boundary.ID {
		t.Fatalf("expected only the boundary invoice, got %d", len(result.Invoices))
	}
	if !result.TotalNet.Equal(decimal.RequireFromString("270")) {
		t.Fatalf("net = %s, want 270", result.TotalNet)
	}
	if !result.TotalGross.Equal(decimal.RequireFromString("300")) {
		t.Fatalf("gross = %s, want 300", result.TotalGross)
	}
}

func TestCalculateEligibleRequiresClosedOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sellerID := env.node.Generate()

	seedPaidInvoice(t, env, sellerID, "INV-010", "500", "50", paidDaysAgo(10), orderdomain.OrderStatusDelivered)

	result, err := env.svc.CalculateEligible(ctx, sellerID)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if result.Eligible {
		t.Fatalf("delivered order must not be eligible")
	}
	if result.Reason != payoutdomain.ReasonNoEligibleInvoices {
		t.Fatalf("reason = %q", result.Reason)
	}
}

func TestCalculateEligibleDisputeBlocks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sellerID := env.node.Generate()

	blocked := seedPaidInvoice(t, env, sellerID, "INV-020", "500", "50", paidDaysAgo(10), orderdomain.OrderStatusClosed)
	openDispute(t, env, blocked.OrderID, disputedomain.DisputeStatusUnderReview)

	cleared := seedPaidInvoice(t, env, sellerID, "INV-021", "200", "20", paidDaysAgo(10), orderdomain.OrderStatusClosed)
	openDispute(t, env, cleared.OrderID, disputedomain.DisputeStatusResolved)

	result, err := env.svc.CalculateEligible(ctx, sellerID)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if !result.Eligible {
		t.Fatalf("expected eligible, reason: %s", result.Reason)
	}
	if len(result.Invoices) != 1 || result.Invoices[0].ID != cleared.ID {
		t.Fatalf("expected only the resolved-dispute invoice")
	}
}

func TestCalculateEligibleThresholdBoundary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Net exactly at the 100 default threshold passes.
	atSeller := env.node.Generate()
	seedPaidInvoice(t, env, atSeller, "INV-030", "110", "10", paidDaysAgo(10), orderdomain.OrderStatusClosed)
	result, err := env.svc.CalculateEligible(ctx, atSeller)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if !result.Eligible {
		t.Fatalf("net equal to threshold must be eligible, reason: %s", result.Reason)
	}

	// One cent below fails with the contractual reason string.
	belowSeller := env.node.Generate()
	seedPaidInvoice(t, env, belowSeller, "INV-031", "109.99", "10", paidDaysAgo(10), orderdomain.OrderStatusClosed)
	result, err = env.svc.CalculateEligible(ctx, belowSeller)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if result.Eligible {
		t.Fatalf("net below threshold must not be eligible")
	}
	want := "Total amount (99.99 SAR) is below minimum payout threshold (100 SAR)"
	if result.Reason != want {
		t.Fatalf("reason = %q, want %q", result.Reason, want)
	}
	if len(result.Invoices) != 1 {
		t.Fatalf("invoices must still be returned on a negative verdict")
	}
}

func TestCalculateEligibleExcludesPaidOutInvoices(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sellerID := env.node.Generate()

	claimed := seedPaidInvoice(t, env, sellerID, "INV-040", "500", "50", paidDaysAgo(10), orderdomain.OrderStatusClosed)

	// Exclusion is global: the claiming payout belongs to a different seller.
	other := insertPayoutRow(t, env, env.node.Generate(), "PAY-OUT-2026-0042", payoutdomain.StatusSettled, "450", testNow.AddDate(0, 0, -2))
	item := payoutdomain.PayoutLineItem{
		ID:            env.node.Generate(),
		PayoutID:      other.ID,
		InvoiceID:     claimed.ID,
		InvoiceNumber: claimed.InvoiceNumber,
		OrderID:       claimed.OrderID,
		GrossAmount:   claimed.TotalAmount,
		PlatformFee:   claimed.PlatformFeeAmount,
		NetAmount:     claimed.NetForPayout(),
		PaidAt:        *claimed.PaidAt,
		CreatedAt:     testNow,
	}
	if err := env.db.Create(&item).Error; err != nil {
		t.Fatalf("insert line item: %v", err)
	}

	result, err := env.svc.CalculateEligible(ctx, sellerID)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if result.Eligible {
		t.Fatalf("already paid-out invoice must be excluded")
	}
	if result.Reason != payoutdomain.ReasonNoEligibleInvoices {
		t.Fatalf("reason = %q", result.Reason)
	}
}

func TestCalculateEligibleMixedCurrencies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sellerID := env.node.Generate()

	seedPaidInvoice(t, env, sellerID, "INV-050", "300", "30", paidDaysAgo(10), orderdomain.OrderStatusClosed)
	usd := seedPaidInvoice(t, env, sellerID, "INV-051", "200", "20", paidDaysAgo(9), orderdomain.OrderStatusClosed)
	if err := env.db.Model(&usd).Update("currency", "USD").Error; err != nil {
		t.Fatalf("update currency: %v", err)
	}

	result, err := env.svc.CalculateEligible(ctx, sellerID)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if result.Eligible {
		t.Fatalf("mixed currencies must not be eligible")
	}
	if result.Reason != "Invoices span multiple currencies; payout requires a single currency" {
		t.Fatalf("reason = %q", result.Reason)
	}
}

func TestCalculateEligibleInvalidSeller(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.svc.CalculateEligible(context.Background(), 0); err != payoutdomain.ErrInvalidSeller {
		t.Fatalf("expected ErrInvalidSeller, got %v", err)
	}
}

func TestEnhancedEligibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sellerID := env.node.Generate()

	approveBank(t, env, sellerID)
	enableAutoPayout(t, env, sellerID)
	seedPaidInvoice(t, env, sellerID, "INV-060", "500", "50", paidDaysAgo(10), orderdomain.OrderStatusClosed)

	result, err := env.svc.EnhancedEligibility(ctx, sellerID)
	if err != nil {
		t.Fatalf("enhanced: %v", err)
	}
	if !result.Eligible {
		t.Fatalf("expected eligible, reason: %s", result.Reason)
	}
	if !result.BankVerified {
		t.Fatalf("expected bank verified")
	}
	if !result.AutoPayoutEnabled {
		t.Fatalf("expected auto payout enabled")
	}
	if !result.MinPayoutAmount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("min payout = %s, want 100", result.MinPayoutAmount)
	}
	// Weekly schedule: next Monday after Wednesday 2026-03-18.
	wantNext := time.Date(2026, time.March, 23, 0, 0, 0, 0, time.UTC)
	if result.NextPayoutDate == nil || !result.NextPayoutDate.Equal(wantNext) {
		t.Fatalf("next payout date = %v, want %v", result.NextPayoutDate, wantNext)
	}
}

func TestEnhancedEligibilityUnverifiedBank(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sellerID := env.node.Generate()

	result, err := env.svc.EnhancedEligibility(ctx, sellerID)
	if err != nil {
		t.Fatalf("enhanced: %v", err)
	}
	if result.BankVerified {
		t.Fatalf("seller without a bank account must not be verified")
	}
	if result.NextPayoutDate != nil {
		t.Fatalf("auto payout disabled must not project a next date")
	}
}

func TestNextScheduledPayout(t *testing.T) {
	// testNow is Wednesday, 2026-03-18.
	cases := []struct {
		schedule  settingsdomain.Schedule
		payoutDay int
		want      time.Time
	}{
		{settingsdomain.ScheduleDaily, 1, time.Date(2026, time.March, 19, 0, 0, 0, 0, time.UTC)},
		{settingsdomain.ScheduleWeekly, 1, time.Date(2026, time.March, 23, 0, 0, 0, 0, time.UTC)},
		{settingsdomain.ScheduleWeekly, 5, time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)},
		// Same weekday as now projects a full week out, never today.
		{settingsdomain.ScheduleWeekly, 3, time.Date(2026, time.March, 25, 0, 0, 0, 0, time.UTC)},
		{settingsdomain.ScheduleWeekly, 7, time.Date(2026, time.March, 22, 0, 0, 0, 0, time.UTC)},
		{settingsdomain.ScheduleBiweekly, 1, time.Date(2026, time.March, 30, 0, 0, 0, 0, time.UTC)},
		{settingsdomain.ScheduleMonthly, 1, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)},
		{settingsdomain.ScheduleMonthly, 25, time.Date(2026, time.March, 25, 0, 0, 0, 0, time.UTC)},
		{settingsdomain.ScheduleMonthly, 18, time.Date(2026, time.April, 18, 0, 0, 0, 0, time.UTC)},
		// Out-of-range stored day falls back to the first day.
		{settingsdomain.ScheduleWeekly, 28, time.Date(2026, time.March, 23, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		if got := nextScheduledPayout(testNow, tc.schedule, tc.payoutDay); !got.Equal(tc.want) {
			t.Fatalf("nextScheduledPayout(%s, %d) = %v, want %v", tc.schedule, tc.payoutDay, got, tc.want)
		}
	}
}
