package service

import (
	"context"
	"testing"

	orderdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/order/domain"
	payoutdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payout/domain"
)

func TestCreateBatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Eligible, auto payout on, bank verified: created.
	sellerA := env.node.Generate()
	approveBank(t, env, sellerA)
	enableAutoPayout(t, env, sellerA)
	seedPaidInvoice(t, env, sellerA, "INV-B-A1", "500", "50", paidDaysAgo(10), orderdomain.OrderStatusClosed)

	// Auto payout on but nothing to pay: skipped.
	sellerB := env.node.Generate()
	approveBank(t, env, sellerB)
	enableAutoPayout(t, env, sellerB)

	// Eligible with a verified bank but auto payout off: skipped.
	sellerC := env.node.Generate()
	approveBank(t, env, sellerC)
	seedPaidInvoice(t, env, sellerC, "INV-B-C1", "500", "50", paidDaysAgo(10), orderdomain.OrderStatusClosed)

	// Eligible with auto payout on but no bank account: error entry.
	sellerD := env.node.Generate()
	enableAutoPayout(t, env, sellerD)
	seedPaidInvoice(t, env, sellerD, "INV-B-D1", "500", "50", paidDaysAgo(10), orderdomain.OrderStatusClosed)

	result, err := env.svc.CreateBatch(ctx, testNow)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if result.Created != 1 {
		t.Fatalf("created = %d, want 1", result.Created)
	}
	if result.Skipped != 2 {
		t.Fatalf("skipped = %d, want 2", result.Skipped)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(result.Errors))
	}
	failure := result.Errors[0]
	if failure.SellerID != sellerD.String() {
		t.Fatalf("failed seller = %s, want %s", failure.SellerID, sellerD)
	}
	if failure.Error != payoutdomain.ReasonNoVerifiedBank {
		t.Fatalf("failure error = %q", failure.Error)
	}

	// The one payout created belongs to seller A and covers a 7-day period.
	var payouts []payoutdomain.Payout
	if err := env.db.Find(&payouts).Error; err != nil {
		t.Fatalf("list payouts: %v", err)
	}
	if len(payouts) != 1 {
		t.Fatalf("payouts = %d, want 1", len(payouts))
	}
	payout := payouts[0]
	if payout.SellerID != sellerA {
		t.Fatalf("payout seller = %s, want %s", payout.SellerID, sellerA)
	}
	if got := payout.PeriodEnd.Sub(payout.PeriodStart).Hours(); got != 7*24 {
		t.Fatalf("period = %v hours, want 168", got)
	}
}

func TestCreateBatchIsolatesSellerFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// First seller fails its creation precondition; the run must still
	// process the second.
	sellerBad := env.node.Generate()
	enableAutoPayout(t, env, sellerBad)
	seedPaidInvoice(t, env, sellerBad, "INV-I-1", "500", "50", paidDaysAgo(10), orderdomain.OrderStatusClosed)

	sellerGood := env.node.Generate()
	approveBank(t, env, sellerGood)
	enableAutoPayout(t, env, sellerGood)
	seedPaidInvoice(t, env, sellerGood, "INV-I-2", "500", "50", paidDaysAgo(10), orderdomain.OrderStatusClosed)

	result, err := env.svc.CreateBatch(ctx, testNow)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if result.Created != 1 {
		t.Fatalf("created = %d, want 1", result.Created)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(result.Errors))
	}
	if result.Errors[0].SellerID != sellerBad.String() {
		t.Fatalf("failed seller = %s", result.Errors[0].SellerID)
	}
}

func TestCreateBatchEmpty(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.svc.CreateBatch(context.Background(), testNow)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if result.Created != 0 || result.Skipped != 0 || len(result.Errors) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}
