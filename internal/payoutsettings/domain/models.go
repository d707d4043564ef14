// Package domain contains the per-seller payout settings model and contract.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Schedule is how often automatic payouts run for a seller.
type Schedule string

const (
	ScheduleDaily    Schedule = "daily"
	ScheduleWeekly   Schedule = "weekly"
	ScheduleBiweekly Schedule = "biweekly"
	ScheduleMonthly  Schedule = "monthly"
)

// ValidSchedule reports whether s is a known schedule.
func ValidSchedule(s Schedule) bool {
	switch s {
	case ScheduleDaily, ScheduleWeekly, ScheduleBiweekly, ScheduleMonthly:
		return true
	}
	return false
}

// ValidPayoutDay reports whether day is a valid payout day for the given
// schedule: ISO weekday 1 (Monday) through 7 (Sunday) for weekly and
// biweekly, day of month 1 through 28 for monthly. Daily schedules ignore
// the payout day, so any stored value is accepted.
func ValidPayoutDay(s Schedule, day int) bool {
	switch s {
	case ScheduleWeekly, ScheduleBiweekly:
		return day >= 1 && day <= 7
	case ScheduleMonthly:
		return day >= 1 && day <= 28
	}
	return true
}

// PayoutSettings holds one seller's payout configuration. A row is created
// lazily with defaults on first read, so callers never see a missing row.
type PayoutSettings struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	SellerID snowflake.ID `gorm:"not null;uniqueIndex" json:"seller_id"`

	Schedule          Schedule        `gorm:"type:text;not null;default:'weekly'" json:"schedule"`
	PayoutDay         int             `gorm:"not null;default:1" json:"payout_day"`
	MinPayoutAmount   decimal.Decimal `gorm:"type:numeric;not null" json:"min_payout_amount"`
	Currency          string          `gorm:"type:text;not null" json:"currency"`
	HoldEnabled       bool            `gorm:"not null;default:true" json:"hold_enabled"`
	HoldDays          int             `gorm:"not null;default:7" json:"hold_days"`
	AutoPayoutEnabled bool            `gorm:"not null;default:false" json:"auto_payout_enabled"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (PayoutSettings) TableName() string { return "payout_settings" }

// Defaults returns the settings applied to a seller who never configured
// anything: weekly schedule on Mondays, a minimum of 100 in the platform
// currency, a 7-day settlement hold, and automatic payouts off.
func Defaults(sellerID snowflake.ID, currency string) PayoutSettings {
	return PayoutSettings{
		SellerID:          sellerID,
		Schedule:          ScheduleWeekly,
		PayoutDay:         1,
		MinPayoutAmount:   decimal.NewFromInt(100),
		Currency:          currency,
		HoldEnabled:       true,
		HoldDays:          7,
		AutoPayoutEnabled: false,
	}
}

// HoldDuration is the hold window as a duration; zero when holds are off.
func (s PayoutSettings) HoldDuration() time.Duration {
	if !s.HoldEnabled || s.HoldDays <= 0 {
		return 0
	}
	return time.Duration(s.HoldDays) * 24 * time.Hour
}

// UpdateRequest patches a seller's settings. Nil fields are left unchanged.
type UpdateRequest struct {
	Schedule          *Schedule        `json:"schedule"`
	PayoutDay         *int             `json:"payout_day"`
	MinPayoutAmount   *decimal.Decimal `json:"min_payout_amount"`
	HoldEnabled       *bool            `json:"hold_enabled"`
	HoldDays          *int             `json:"hold_days"`
	AutoPayoutEnabled *bool            `json:"auto_payout_enabled"`
}

// Service reads and updates per-seller payout settings.
type Service interface {
	// Get returns the seller's settings, creating the default row when the
	// seller has none yet.
	Get(ctx context.Context, sellerID snowflake.ID) (*PayoutSettings, error)
	Update(ctx context.Context, sellerID snowflake.ID, req UpdateRequest, actorID *snowflake.ID) (*PayoutSettings, error)
}

var (
	ErrInvalidSeller    = errors.New("invalid_seller")
	ErrInvalidSchedule  = errors.New("invalid_schedule")
	ErrInvalidPayoutDay = errors.New("invalid_payout_day")
	ErrInvalidMinAmount = errors.New("invalid_min_payout_amount")
	ErrInvalidHoldDays  = errors.New("invalid_hold_days")
)
