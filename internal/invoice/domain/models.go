// Package domain contains the seller invoice model consumed by payouts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// InvoiceStatus tracks the billing lifecycle of a seller invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// Invoice is a seller invoice. The payout subsystem reads invoices but never
// mutates them; only paid invoices with a recorded paid_at participate in
// payout eligibility.
type Invoice struct {
	ID                snowflake.ID        `gorm:"primaryKey" json:"id"`
	SellerID          snowflake.ID        `gorm:"not null;index" json:"seller_id"`
	OrderID           snowflake.ID        `gorm:"not null;index" json:"order_id"`
	InvoiceNumber     string              `gorm:"type:text;not null;uniqueIndex" json:"invoice_number"`
	Status            InvoiceStatus       `gorm:"type:text;not null;default:'draft'" json:"status"`
	TotalAmount       decimal.Decimal     `gorm:"type:numeric;not null" json:"total_amount"`
	PlatformFeeAmount decimal.Decimal     `gorm:"type:numeric;not null" json:"platform_fee_amount"`
	NetToSeller       decimal.NullDecimal `gorm:"type:numeric" json:"net_to_seller"`
	Currency          string              `gorm:"type:text;not null" json:"currency"`
	PaidAt            *time.Time          `json:"paid_at"`
	CreatedAt         time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// NetForPayout resolves the amount a payout owes the seller for this invoice,
// falling back to the invoice total when net_to_seller was never computed.
func (i Invoice) NetForPayout() decimal.Decimal {
	if i.NetToSeller.Valid {
		return i.NetToSeller.Decimal
	}
	return i.TotalAmount
}
