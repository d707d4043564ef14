package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	bankdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/bankaccount/domain"
	invoicedomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/invoice/domain"
	orderdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/order/domain"
	"gorm.io/gorm"
)

// Repository is the persistence gateway for the payout subsystem. Methods
// take the connection (or transaction) explicitly so they compose with a
// surrounding transactional scope.
type Repository interface {
	// ListPayoutCandidates returns paid invoices for the seller whose paid_at
	// is at or before the cutoff and which are not referenced by any payout
	// line item, for any seller.
	ListPayoutCandidates(ctx context.Context, db *gorm.DB, sellerID snowflake.ID, cutoff time.Time) ([]invoicedomain.Invoice, error)
	ListPaidInvoices(ctx context.Context, db *gorm.DB, sellerID snowflake.ID, limit int) ([]invoicedomain.Invoice, error)

	FindOrder(ctx context.Context, db *gorm.DB, orderID snowflake.ID) (*orderdomain.Order, error)
	HasOpenDispute(ctx context.Context, db *gorm.DB, orderID snowflake.ID) (bool, error)
	FindBankAccount(ctx context.Context, db *gorm.DB, sellerID snowflake.ID) (*bankdomain.BankAccount, error)

	MaxPayoutNumber(ctx context.Context, db *gorm.DB, prefix string) (string, error)
	InsertPayout(ctx context.Context, db *gorm.DB, payout *Payout) error
	InsertLineItems(ctx context.Context, db *gorm.DB, items []PayoutLineItem) error
	InsertEvent(ctx context.Context, db *gorm.DB, event *PayoutEvent) error

	FindPayout(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Payout, error)
	FindPayoutForUpdate(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Payout, error)
	UpdatePayout(ctx context.Context, db *gorm.DB, payout *Payout) error

	ListLineItems(ctx context.Context, db *gorm.DB, payoutID snowflake.ID) ([]PayoutLineItem, error)
	FindLineItemByInvoice(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) (*PayoutLineItem, error)
	ListEvents(ctx context.Context, db *gorm.DB, payoutID snowflake.ID) ([]PayoutEvent, error)

	StatusTotals(ctx context.Context, db *gorm.DB, sellerID snowflake.ID) ([]StatusTotal, error)

	// Batch seller discovery: sellers with auto payout enabled in settings
	// plus sellers holding an approved bank account.
	AutoPayoutSellerIDs(ctx context.Context, db *gorm.DB) ([]snowflake.ID, error)
	ApprovedBankSellerIDs(ctx context.Context, db *gorm.DB) ([]snowflake.ID, error)
}
