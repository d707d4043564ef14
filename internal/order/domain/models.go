// Package domain contains the marketplace order model read by payouts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// OrderStatus tracks order fulfilment. Payouts only follow closed orders.
type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "open"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusClosed    OrderStatus = "closed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	SellerID  snowflake.ID `gorm:"not null;index" json:"seller_id"`
	BuyerID   snowflake.ID `gorm:"not null;index" json:"buyer_id"`
	Status    OrderStatus  `gorm:"type:text;not null;default:'open'" json:"status"`
	ClosedAt  *time.Time   `json:"closed_at"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Order) TableName() string { return "orders" }
