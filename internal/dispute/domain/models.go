// Package domain contains the order dispute model. An open dispute on an
// order parks the related invoice funds until the dispute terminates.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	DisputeStatusOpen        = "open"
	DisputeStatusUnderReview = "under_review"
	DisputeStatusEscalated   = "escalated"
	DisputeStatusResolved    = "resolved"
	DisputeStatusClosed      = "closed"
	DisputeStatusRejected    = "rejected"
)

// TerminalStatuses are the dispute states that no longer block payouts.
var TerminalStatuses = []string{
	DisputeStatusResolved,
	DisputeStatusClosed,
	DisputeStatusRejected,
}

type Dispute struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	OrderID    snowflake.ID `gorm:"not null;index" json:"order_id"`
	RaisedByID snowflake.ID `gorm:"not null" json:"raised_by_id"`
	Status     string       `gorm:"type:text;not null;default:'open'" json:"status"`
	Reason     string       `gorm:"type:text" json:"reason"`
	OpenedAt   time.Time    `gorm:"not null" json:"opened_at"`
	ResolvedAt *time.Time   `json:"resolved_at"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Dispute) TableName() string { return "disputes" }

// Blocking reports whether a dispute in the given status parks funds.
func Blocking(status string) bool {
	for _, terminal := range TerminalStatuses {
		if status == terminal {
			return false
		}
	}
	return true
}
