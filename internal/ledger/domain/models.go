package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// LedgerEntryDirection represents debit or credit postings.
type LedgerEntryDirection string

const (
	LedgerEntryDirectionDebit  LedgerEntryDirection = "debit"
	LedgerEntryDirectionCredit LedgerEntryDirection = "credit"
)

const (
	SourceTypePayout     = "payout"
	SourceTypeAdjustment = "adjustment"
	SourceTypeRefund     = "refund"
)

const (
	AccountCodeSellerPayable   = "seller_payable"
	AccountCodeCashClearing    = "cash_clearing"
	AccountCodePlatformRevenue = "platform_revenue"
)

// LedgerAccount defines a chart-of-accounts entry, scoped per seller.
type LedgerAccount struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	SellerID  snowflake.ID `gorm:"not null;index;uniqueIndex:ux_ledger_accounts_seller_code,priority:1"`
	Code      string       `gorm:"type:text;not null;uniqueIndex:ux_ledger_accounts_seller_code,priority:2"`
	Name      string       `gorm:"type:text;not null"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (LedgerAccount) TableName() string { return "ledger_accounts" }

// LedgerEntry captures the immutable header for a financial event.
type LedgerEntry struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	SellerID   snowflake.ID `gorm:"not null;index"`
	SourceType string       `gorm:"type:text;not null;index"`
	SourceID   snowflake.ID `gorm:"not null;index"`
	Currency   string       `gorm:"type:text;not null"`
	OccurredAt time.Time    `gorm:"not null"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (LedgerEntry) TableName() string { return "ledger_entries" }

// LedgerEntryLine is a double-entry posting line. Amounts are minor units of
// the entry currency. AccountCode is resolved to AccountID at write time.
type LedgerEntryLine struct {
	ID            snowflake.ID         `gorm:"primaryKey"`
	LedgerEntryID snowflake.ID         `gorm:"not null;index"`
	AccountCode   string               `gorm:"-" json:"-"`
	AccountID     snowflake.ID         `gorm:"not null;index"`
	Direction     LedgerEntryDirection `gorm:"type:text;not null"`
	Amount        int64                `gorm:"not null"`
	CreatedAt     time.Time            `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (LedgerEntryLine) TableName() string { return "ledger_entry_lines" }
