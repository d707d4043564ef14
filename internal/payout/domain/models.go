// Package domain contains the payout lifecycle models and contracts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Status is the payout lifecycle state. Transitions between states are
// governed by CanTransition; settled is terminal.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSettled    Status = "settled"
	StatusOnHold     Status = "on_hold"
	StatusFailed     Status = "failed"
)

// ActorType identifies who drove a lifecycle transition.
type ActorType string

const (
	ActorTypeSeller ActorType = "seller"
	ActorTypeSystem ActorType = "system"
	ActorTypeAdmin  ActorType = "admin"
)

// Payout event types recorded in the audit trail.
const (
	EventPayoutCreated    = "PAYOUT_CREATED"
	EventPayoutApproved   = "PAYOUT_APPROVED"
	EventPayoutProcessing = "PAYOUT_PROCESSING"
	EventPayoutSettled    = "PAYOUT_SETTLED"
	EventPayoutFailed     = "PAYOUT_FAILED"
	EventPayoutHeld       = "PAYOUT_HELD"
)

// Payout is a batched disbursement of settled invoice funds to a seller.
// Amounts and bank fields are immutable after creation; only the status and
// lifecycle fields change, always through the lifecycle operations.
type Payout struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	PayoutNumber string       `gorm:"type:text;not null;uniqueIndex" json:"payout_number"`
	SellerID     snowflake.ID `gorm:"not null;index" json:"seller_id"`
	PeriodStart  time.Time    `gorm:"not null" json:"period_start"`
	PeriodEnd    time.Time    `gorm:"not null" json:"period_end"`

	GrossAmount      decimal.Decimal `gorm:"type:numeric;not null" json:"gross_amount"`
	PlatformFeeTotal decimal.Decimal `gorm:"type:numeric;not null" json:"platform_fee_total"`
	NetAmount        decimal.Decimal `gorm:"type:numeric;not null" json:"net_amount"`
	Currency         string          `gorm:"type:text;not null" json:"currency"`

	Status Status `gorm:"type:text;not null;default:'pending';index" json:"status"`

	// Bank destination snapshot taken at creation time; the IBAN is masked
	// once and never re-derived from the live bank account.
	BankName      string `gorm:"type:text;not null" json:"bank_name"`
	AccountHolder string `gorm:"type:text;not null" json:"account_holder"`
	IBANMasked    string `gorm:"column:iban_masked;type:text;not null" json:"iban_masked"`

	InitiatedAt          *time.Time    `json:"initiated_at"`
	InitiatedBy          *snowflake.ID `json:"initiated_by"`
	SettledAt            *time.Time    `json:"settled_at"`
	FailedAt             *time.Time    `json:"failed_at"`
	BankConfirmationDate *time.Time    `json:"bank_confirmation_date"`
	BankReference        *string       `gorm:"type:text" json:"bank_reference"`
	HoldReason           *string       `gorm:"type:text" json:"hold_reason"`
	HoldUntil            *time.Time    `json:"hold_until"`
	FailureReason        *string       `gorm:"type:text" json:"failure_reason"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Payout) TableName() string { return "payouts" }

// PayoutLineItem links a payout to one invoice it settles. Line items are
// written once inside the creation transaction and never touched again; the
// unique invoice index makes double-payout impossible even under races.
type PayoutLineItem struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	PayoutID      snowflake.ID    `gorm:"not null;index" json:"payout_id"`
	InvoiceID     snowflake.ID    `gorm:"not null;uniqueIndex" json:"invoice_id"`
	InvoiceNumber string          `gorm:"type:text;not null" json:"invoice_number"`
	OrderID       snowflake.ID    `gorm:"not null" json:"order_id"`
	GrossAmount   decimal.Decimal `gorm:"type:numeric;not null" json:"gross_amount"`
	PlatformFee   decimal.Decimal `gorm:"type:numeric;not null" json:"platform_fee"`
	NetAmount     decimal.Decimal `gorm:"type:numeric;not null" json:"net_amount"`
	PaidAt        time.Time       `gorm:"not null" json:"paid_at"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (PayoutLineItem) TableName() string { return "payout_line_items" }

// PayoutEvent is one append-only audit record per lifecycle transition or
// significant action. A nil ActorID means the system acted on its own.
type PayoutEvent struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	PayoutID   snowflake.ID      `gorm:"not null;index" json:"payout_id"`
	EventType  string            `gorm:"type:text;not null" json:"event_type"`
	ActorID    *snowflake.ID     `json:"actor_id"`
	ActorType  ActorType         `gorm:"type:text;not null" json:"actor_type"`
	FromStatus *Status           `gorm:"type:text" json:"from_status"`
	ToStatus   *Status           `gorm:"type:text" json:"to_status"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (PayoutEvent) TableName() string { return "payout_events" }
