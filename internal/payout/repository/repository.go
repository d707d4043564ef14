// Package repository implements the payout persistence gateway on gorm.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	bankdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/bankaccount/domain"
	disputedomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/dispute/domain"
	invoicedomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/invoice/domain"
	orderdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/order/domain"
	payoutdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payout/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormRepository struct{}

// Provide builds the payout repository.
func Provide() payoutdomain.Repository {
	return &gormRepository{}
}

func (r *gormRepository) ListPayoutCandidates(ctx context.Context, db *gorm.DB, sellerID snowflake.ID, cutoff time.Time) ([]invoicedomain.Invoice, error) {
	var invoices []invoicedomain.Invoice
	err := db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Where("status = ?", invoicedomain.InvoiceStatusPaid).
		Where("paid_at IS NOT NULL AND paid_at <= ?", cutoff).
		// Exclusion is global across sellers: an invoice is paid out once, ever.
		Where("id NOT IN (?)", db.Session(&gorm.Session{NewDB: true}).
			Model(&payoutdomain.PayoutLineItem{}).
			Select("invoice_id")).
		Order("paid_at ASC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *gormRepository) ListPaidInvoices(ctx context.Context, db *gorm.DB, sellerID snowflake.ID, limit int) ([]invoicedomain.Invoice, error) {
	if limit <= 0 {
		limit = 100
	}
	var invoices []invoicedomain.Invoice
	err := db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Where("status = ?", invoicedomain.InvoiceStatusPaid).
		Where("paid_at IS NOT NULL").
		Order("paid_at DESC").
		Limit(limit).
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *gormRepository) FindOrder(ctx context.Context, db *gorm.DB, orderID snowflake.ID) (*orderdomain.Order, error) {
	var order orderdomain.Order
	err := db.WithContext(ctx).First(&order, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *gormRepository) HasOpenDispute(ctx context.Context, db *gorm.DB, orderID snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&disputedomain.Dispute{}).
		Where("order_id = ?", orderID).
		Where("status NOT IN ?", disputedomain.TerminalStatuses).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gormRepository) FindBankAccount(ctx context.Context, db *gorm.DB, sellerID snowflake.ID) (*bankdomain.BankAccount, error) {
	var account bankdomain.BankAccount
	err := db.WithContext(ctx).First(&account, "seller_id = ?", sellerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *gormRepository) MaxPayoutNumber(ctx context.Context, db *gorm.DB, prefix string) (string, error) {
	var number string
	err := db.WithContext(ctx).Raw(
		`SELECT payout_number
		 FROM payouts
		 WHERE payout_number LIKE ?
		 ORDER BY LENGTH(payout_number) DESC, payout_number DESC
		 LIMIT 1`,
		prefix+"%",
	).Scan(&number).Error
	if err != nil {
		return "", err
	}
	return number, nil
}

func (r *gormRepository) InsertPayout(ctx context.Context, db *gorm.DB, payout *payoutdomain.Payout) error {
	return db.WithContext(ctx).Create(payout).Error
}

func (r *gormRepository) InsertLineItems(ctx context.Context, db *gorm.DB, items []payoutdomain.PayoutLineItem) error {
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *gormRepository) InsertEvent(ctx context.Context, db *gorm.DB, event *payoutdomain.PayoutEvent) error {
	return db.WithContext(ctx).Create(event).Error
}

func (r *gormRepository) FindPayout(ctx context.Context, db *gorm.DB, id snowflake.ID) (*payoutdomain.Payout, error) {
	var payout payoutdomain.Payout
	err := db.WithContext(ctx).First(&payout, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payout, nil
}

func (r *gormRepository) FindPayoutForUpdate(ctx context.Context, db *gorm.DB, id snowflake.ID) (*payoutdomain.Payout, error) {
	query := db.WithContext(ctx)
	// sqlite (tests) has no row locks.
	if db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var payout payoutdomain.Payout
	err := query.First(&payout, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payout, nil
}

func (r *gormRepository) UpdatePayout(ctx context.Context, db *gorm.DB, payout *payoutdomain.Payout) error {
	return db.WithContext(ctx).Save(payout).Error
}

func (r *gormRepository) ListLineItems(ctx context.Context, db *gorm.DB, payoutID snowflake.ID) ([]payoutdomain.PayoutLineItem, error) {
	var items []payoutdomain.PayoutLineItem
	err := db.WithContext(ctx).
		Where("payout_id = ?", payoutID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *gormRepository) FindLineItemByInvoice(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) (*payoutdomain.PayoutLineItem, error) {
	var item payoutdomain.PayoutLineItem
	err := db.WithContext(ctx).First(&item, "invoice_id = ?", invoiceID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *gormRepository) ListEvents(ctx context.Context, db *gorm.DB, payoutID snowflake.ID) ([]payoutdomain.PayoutEvent, error) {
	var events []payoutdomain.PayoutEvent
	err := db.WithContext(ctx).
		Where("payout_id = ?", payoutID).
		Order("created_at ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *gormRepository) StatusTotals(ctx context.Context, db *gorm.DB, sellerID snowflake.ID) ([]payoutdomain.StatusTotal, error) {
	var totals []payoutdomain.StatusTotal
	err := db.WithContext(ctx).Raw(
		`SELECT status, COUNT(1) AS count, COALESCE(SUM(net_amount), 0) AS net_amount
		 FROM payouts
		 WHERE seller_id = ?
		 GROUP BY status`,
		sellerID,
	).Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *gormRepository) AutoPayoutSellerIDs(ctx context.Context, db *gorm.DB) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := db.WithContext(ctx).Raw(
		`SELECT seller_id FROM payout_settings WHERE auto_payout_enabled = ?`,
		true,
	).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *gormRepository) ApprovedBankSellerIDs(ctx context.Context, db *gorm.DB) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := db.WithContext(ctx).Raw(
		`SELECT seller_id FROM seller_bank_accounts WHERE verification_status = ?`,
		bankdomain.VerificationStatusApproved,
	).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
