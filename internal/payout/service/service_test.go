package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/audit/domain"
	auditrepository "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/audit/repository"
	auditservice "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/audit/service"
	bankdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/bankaccount/domain"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/cache"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/clock"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/config"
	disputedomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/dispute/domain"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/events"
	invoicedomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/invoice/domain"
	ledgerdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/ledger/domain"
	ledgerservice "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/ledger/service"
	orderdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/order/domain"
	payoutdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payout/domain"
	payoutrepository "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payout/repository"
	settingsdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payoutsettings/domain"
	settingsservice "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payoutsettings/service"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testNow is a Wednesday; schedule projections in the eligibility tests
// depend on the weekday.
var testNow = time.Date(2026, time.March, 18, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	db       *gorm.DB
	node     *snowflake.Node
	svc      *Service
	settings settingsdomain.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupPayoutTestDB(t)
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	log := zap.NewNop()
	cfg := config.Config{Payout: config.PayoutConfig{DefaultCurrency: "SAR"}}

	auditSvc := auditservice.NewService(auditservice.ServiceParam{
		DB:    db,
		Log:   log,
		GenID: node,
		Repo:  auditrepository.Provide(),
	})
	settingsSvc := settingsservice.NewService(settingsservice.ServiceParam{
		DB:       db,
		Log:      log,
		GenID:    node,
		Config:   cfg,
		AuditSvc: auditSvc,
		Cache:    cache.NoopCache[snowflake.ID, settingsdomain.PayoutSettings]{},
	})
	ledgerSvc := ledgerservice.NewService(ledgerservice.ServiceParam{
		DB:    db,
		Log:   log,
		GenID: node,
	})

	svc := NewService(ServiceParam{
		DB:          db,
		Log:         log,
		GenID:       node,
		Clock:       clock.FixedClock{At: testNow},
		Config:      cfg,
		Repo:        payoutrepository.Provide(),
		SettingsSvc: settingsSvc,
		LedgerSvc:   ledgerSvc,
		Outbox:      events.NewOutbox(db, node),
	}).(*Service)

	return &testEnv{db: db, node: node, svc: svc, settings: settingsSvc}
}

func setupPayoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&orderdomain.Order{},
		&invoicedomain.Invoice{},
		&disputedomain.Dispute{},
		&bankdomain.BankAccount{},
		&settingsdomain.PayoutSettings{},
		&payoutdomain.Payout{},
		&payoutdomain.PayoutLineItem{},
		&payoutdomain.PayoutEvent{},
		&auditdomain.AuditLog{},
		&ledgerdomain.LedgerAccount{},
		&ledgerdomain.LedgerEntry{},
		&ledgerdomain.LedgerEntryLine{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Exec(
		`CREATE TABLE IF NOT EXISTS outbox_events (
			id INTEGER PRIMARY KEY,
			seller_id INTEGER NOT NULL,
			event_type TEXT NOT NULL,
			payload TEXT NOT NULL,
			dedupe_key TEXT,
			published BOOLEAN NOT NULL DEFAULT false,
			created_at DATETIME NOT NULL
		)`,
	).Error; err != nil {
		t.Fatalf("create outbox_events: %v", err)
	}
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_outbox_events_dedupe
		 ON outbox_events (seller_id, dedupe_key)`,
	).Error; err != nil {
		t.Fatalf("create outbox index: %v", err)
	}
	return db
}

func approveBank(t *testing.T, env *testEnv, sellerID snowflake.ID) {
	t.Helper()
	account := bankdomain.BankAccount{
		ID:                 env.node.Generate(),
		SellerID:           sellerID,
		BankName:           "Alinma Bank",
		AccountHolder:      "Test Seller",
		IBAN:               "SA4420000001234567891234",
		VerificationStatus: bankdomain.VerificationStatusApproved,
		CreatedAt:          testNow,
		UpdatedAt:          testNow,
	}
	if err := env.db.Create(&account).Error; err != nil {
		t.Fatalf("create bank account: %v", err)
	}
}

// seedPaidInvoice creates an order in the given status and one paid invoice
// against it. Net to seller is gross minus fee.
func seedPaidInvoice(t *testing.T, env *testEnv, sellerID snowflake.ID, number, gross, fee string, paidAt time.Time, orderStatus orderdomain.OrderStatus) invoicedomain.Invoice {
	t.Helper()
	order := orderdomain.Order{
		ID:        env.node.Generate(),
		SellerID:  sellerID,
		BuyerID:   env.node.Generate(),
		Status:    orderStatus,
		CreatedAt: paidAt,
		UpdatedAt: paidAt,
	}
	if err := env.db.Create(&order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}

	grossAmount := decimal.RequireFromString(gross)
	feeAmount := decimal.RequireFromString(fee)
	invoice := invoicedomain.Invoice{
		ID:                env.node.Generate(),
		SellerID:          sellerID,
		OrderID:           order.ID,
		InvoiceNumber:     number,
		Status:            invoicedomain.InvoiceStatusPaid,
		TotalAmount:       grossAmount,
		PlatformFeeAmount: feeAmount,
		NetToSeller:       decimal.NewNullDecimal(grossAmount.Sub(feeAmount)),
		Currency:          "SAR",
		PaidAt:            &paidAt,
		CreatedAt:         paidAt,
		UpdatedAt:         paidAt,
	}
	if err := env.db.Create(&invoice).Error; err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	return invoice
}

func openDispute(t *testing.T, env *testEnv, orderID snowflake.ID, status string) {
	t.Helper()
	dispute := disputedomain.Dispute{
		ID:         env.node.Generate(),
		OrderID:    orderID,
		RaisedByID: env.node.Generate(),
		Status:     status,
		Reason:     "item not received",
		OpenedAt:   testNow.AddDate(0, 0, -1),
		CreatedAt:  testNow.AddDate(0, 0, -1),
	}
	if err := env.db.Create(&dispute).Error; err != nil {
		t.Fatalf("create dispute: %v", err)
	}
}

func insertPayoutRow(t *testing.T, env *testEnv, sellerID snowflake.ID, number string, status payoutdomain.Status, net string, createdAt time.Time) payoutdomain.Payout {
	t.Helper()
	netAmount := decimal.RequireFromString(net)
	payout := payoutdomain.Payout{
		ID:               env.node.Generate(),
		PayoutNumber:     number,
		SellerID:         sellerID,
		PeriodStart:      createdAt.AddDate(0, 0, -7),
		PeriodEnd:        createdAt,
		GrossAmount:      netAmount,
		PlatformFeeTotal: decimal.Zero,
		NetAmount:        netAmount,
		Currency:         "SAR",
		Status:           status,
		BankName:         "Alinma Bank",
		AccountHolder:    "Test Seller",
		IBANMasked:       "********************1234",
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}
	if err := env.db.Create(&payout).Error; err != nil {
		t.Fatalf("insert payout: %v", err)
	}
	return payout
}

// paidDaysAgo places a paid_at the given number of days before testNow.
func paidDaysAgo(days int) time.Time {
	return testNow.AddDate(0, 0, -days)
}

func outboxCount(t *testing.T, env *testEnv, eventType string) int64 {
	t.Helper()
	var count int64
	err := env.db.Raw(
		`SELECT COUNT(1) FROM outbox_events WHERE event_type = ?`, eventType,
	).Scan(&count).Error
	if err != nil {
		t.Fatalf("count outbox events: %v", err)
	}
	return count
}

func enableAutoPayout(t *testing.T, env *testEnv, sellerID snowflake.ID) {
	t.Helper()
	enabled := true
	if _, err := env.settings.Update(context.Background(), sellerID, settingsdomain.UpdateRequest{
		AutoPayoutEnabled: &enabled,
	}, nil); err != nil {
		t.Fatalf("enable auto payout: %v", err)
	}
}
