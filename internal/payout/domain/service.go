package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/invoice/domain"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

// EligibilityResult reports which invoices currently qualify for a payout.
// The invoice list and totals are returned even when the seller is not
// eligible so callers can show how close the seller is to the threshold.
type EligibilityResult struct {
	Eligible         bool                    `json:"eligible"`
	Invoices         []invoicedomain.Invoice `json:"invoices"`
	TotalGross       decimal.Decimal         `json:"total_gross"`
	TotalPlatformFee decimal.Decimal         `json:"total_platform_fee"`
	TotalNet         decimal.Decimal         `json:"total_net"`
	Currency         string                  `json:"currency"`
	Reason           string                  `json:"reason,omitempty"`
}

// EnhancedEligibilityResult adds bank verification state and the next
// scheduled payout date projected from the seller's settings.
type EnhancedEligibilityResult struct {
	EligibilityResult
	BankVerified      bool            `json:"bank_verified"`
	AutoPayoutEnabled bool            `json:"auto_payout_enabled"`
	MinPayoutAmount   decimal.Decimal `json:"min_payout_amount"`
	NextPayoutDate    *time.Time      `json:"next_payout_date"`
}

// CreateRequest materializes a payout for one seller over a period.
type CreateRequest struct {
	SellerID    snowflake.ID
	PeriodStart time.Time
	PeriodEnd   time.Time
	// ActorID attributes creation to an admin; nil means the system acted.
	ActorID *snowflake.ID
}

// OperationResult is the outcome of a single payout operation. Business-rule
// rejections land here with a display-grade Error string; infrastructure
// failures are returned as errors instead.
type OperationResult struct {
	Success bool    `json:"success"`
	Payout  *Payout `json:"payout,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// BatchError records one seller's failure inside a batch run.
type BatchError struct {
	SellerID string `json:"seller_id"`
	Error    string `json:"error"`
}

// BatchResult summarizes a batch payout run across all sellers.
type BatchResult struct {
	Created int          `json:"created"`
	Skipped int          `json:"skipped"`
	Errors  []BatchError `json:"errors"`
}

// ListRequest filters a seller's payout history.
type ListRequest struct {
	SellerID  snowflake.ID
	Status    Status
	From      *time.Time
	To        *time.Time
	PageToken string
	PageSize  int32
}

// ListResponse is one page of payouts.
type ListResponse struct {
	pagination.PageInfo
	Payouts []Payout `json:"payouts"`
}

// Detail is a payout with its immutable line items and full event history.
type Detail struct {
	Payout    Payout           `json:"payout"`
	LineItems []PayoutLineItem `json:"line_items"`
	Events    []PayoutEvent    `json:"events"`
}

// StatusTotal aggregates payouts in one status.
type StatusTotal struct {
	Status    Status          `json:"status"`
	Count     int64           `json:"count"`
	NetAmount decimal.Decimal `json:"net_amount"`
}

// Stats summarizes a seller's payout history by status.
type Stats struct {
	ByStatus    []StatusTotal   `json:"by_status"`
	TotalCount  int64           `json:"total_count"`
	LifetimeNet decimal.Decimal `json:"lifetime_net"`
	Currency    string          `json:"currency"`
}

// Funds timeline stages for one invoice.
const (
	TimelineStageOnHold   = "on_hold"
	TimelineStageDisputed = "disputed"
	TimelineStageEligible = "eligible"
	TimelineStagePaidOut  = "paid_out"
)

// TimelineEntry is one invoice's position in the funds lifecycle.
type TimelineEntry struct {
	InvoiceID     snowflake.ID    `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	OrderID       snowflake.ID    `json:"order_id"`
	NetAmount     decimal.Decimal `json:"net_amount"`
	Currency      string          `json:"currency"`
	PaidAt        time.Time       `json:"paid_at"`
	Stage         string          `json:"stage"`
	AvailableAt   *time.Time      `json:"available_at,omitempty"`
	PayoutID      *snowflake.ID   `json:"payout_id,omitempty"`
	PayoutNumber  string          `json:"payout_number,omitempty"`
	PayoutStatus  Status          `json:"payout_status,omitempty"`
}

// Service is the payout subsystem contract.
type Service interface {
	CalculateEligible(ctx context.Context, sellerID snowflake.ID) (EligibilityResult, error)
	EnhancedEligibility(ctx context.Context, sellerID snowflake.ID) (EnhancedEligibilityResult, error)

	Create(ctx context.Context, req CreateRequest) (OperationResult, error)
	CreateBatch(ctx context.Context, payoutDate time.Time) (BatchResult, error)

	Approve(ctx context.Context, payoutID snowflake.ID, adminID snowflake.ID) (OperationResult, error)
	Process(ctx context.Context, payoutID snowflake.ID, adminID snowflake.ID) (OperationResult, error)
	Settle(ctx context.Context, payoutID snowflake.ID, bankReference string, adminID *snowflake.ID) (OperationResult, error)
	Fail(ctx context.Context, payoutID snowflake.ID, reason string, adminID *snowflake.ID) (OperationResult, error)
	Hold(ctx context.Context, payoutID snowflake.ID, reason string, holdUntil *time.Time, adminID *snowflake.ID) (OperationResult, error)

	List(ctx context.Context, req ListRequest) (ListResponse, error)
	GetByID(ctx context.Context, payoutID snowflake.ID) (*Detail, error)
	Stats(ctx context.Context, sellerID snowflake.ID) (Stats, error)
	Timeline(ctx context.Context, sellerID snowflake.ID, limit int) ([]TimelineEntry, error)
}

var (
	ErrInvalidSeller = errors.New("invalid_seller")
	ErrInvalidPayout = errors.New("invalid_payout")
	ErrInvalidPeriod = errors.New("invalid_period")
	ErrInvalidStatus = errors.New("invalid_status")
	// ErrEligibilityChanged surfaces a unique-constraint hit on a line item
	// invoice: another payout claimed the invoice between the eligibility
	// read and the insert. Callers may retry.
	ErrEligibilityChanged = errors.New("eligibility_changed")
)

// Contractual reason strings surfaced to callers.
const (
	ReasonNoVerifiedBank     = "Seller must have a verified bank account"
	ReasonNoEligibleInvoices = "No eligible invoices for payout"
	ReasonPayoutNotFound     = "Payout not found"
)
