package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// LedgerService defines the ledger entry writer.
type LedgerService interface {
	CreateEntry(
		ctx context.Context,
		sellerID snowflake.ID,
		sourceType string,
		sourceID snowflake.ID,
		currency string,
		occurredAt time.Time,
		lines []LedgerEntryLine,
	) error

	// CreateEntryTx writes the entry inside an existing transaction so the
	// posting commits or rolls back with the source operation.
	CreateEntryTx(
		ctx context.Context,
		tx *gorm.DB,
		sellerID snowflake.ID,
		sourceType string,
		sourceID snowflake.ID,
		currency string,
		occurredAt time.Time,
		lines []LedgerEntryLine,
	) error
}

// Service is the package alias for LedgerService.
type Service = LedgerService

var (
	ErrInvalidSeller        = errors.New("invalid_seller")
	ErrInvalidSourceType    = errors.New("invalid_source_type")
	ErrInvalidSourceID      = errors.New("invalid_source_id")
	ErrInvalidCurrency      = errors.New("invalid_currency")
	ErrInvalidOccurredAt    = errors.New("invalid_occurred_at")
	ErrInvalidEntryLines    = errors.New("invalid_entry_lines")
	ErrInvalidLineAmount    = errors.New("invalid_line_amount")
	ErrInvalidLineDirection = errors.New("invalid_line_direction")
	ErrInvalidAccount       = errors.New("invalid_account")
	ErrUnbalancedEntry      = errors.New("unbalanced_entry")
)
