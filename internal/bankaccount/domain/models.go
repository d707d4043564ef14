// Package domain contains the seller bank account used for payout
// destinations. Payouts snapshot these fields at creation time.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// VerificationStatus tracks manual bank account review.
type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusApproved VerificationStatus = "approved"
	VerificationStatusRejected VerificationStatus = "rejected"
)

type BankAccount struct {
	ID                 snowflake.ID       `gorm:"primaryKey" json:"id"`
	SellerID           snowflake.ID       `gorm:"not null;uniqueIndex" json:"seller_id"`
	BankName           string             `gorm:"type:text;not null" json:"bank_name"`
	AccountHolder      string             `gorm:"type:text;not null" json:"account_holder"`
	IBAN               string             `gorm:"column:iban;type:text;not null" json:"-"`
	VerificationStatus VerificationStatus `gorm:"type:text;not null;default:'pending'" json:"verification_status"`
	VerifiedAt         *time.Time         `json:"verified_at"`
	CreatedAt          time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (BankAccount) TableName() string { return "seller_bank_accounts" }

// Verified reports whether the account may receive payouts.
func (a BankAccount) Verified() bool {
	return a.VerificationStatus == VerificationStatusApproved
}
