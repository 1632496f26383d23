package models

import (
	"time"
)

const (
	OrderStatusPending  = "PENDING"
	OrderStatusExecuted = "EXECUTED"
	OrderStatusRejected = "REJECTED"
)

const (
	OrderTypeMarket = "MARKET"
	OrderTypeLimit  = "LIMIT"

	ProductIntraday = "INTRADAY"
)

// Trade is an append-only audit row for every brokerage order attempt,
// correlated to the resulting position when one exists. Only status and
// executed_at are touched after insert, once the broker has responded.
type Trade struct {
	ID         uint64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint64  `gorm:"not null;index" json:"user_id"`
	PositionID *uint64 `gorm:"index" json:"position_id"`

	BrokerOrderID string `gorm:"type:varchar(100);index" json:"broker_order_id"`
	ClientRef     string `gorm:"type:varchar(40);index" json:"client_ref"`

	Symbol      string `gorm:"type:varchar(100);not null" json:"symbol"`
	Side        string `gorm:"type:varchar(10);not null" json:"side"`
	Quantity    int    `gorm:"not null" json:"quantity"`
	OrderType   string `gorm:"type:varchar(20);not null;default:'MARKET'" json:"order_type"`
	ProductType string `gorm:"type:varchar(20);not null;default:'INTRADAY'" json:"product_type"`

	Status     string     `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	ExecutedAt *time.Time `gorm:"type:timestamptz" json:"executed_at"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index" json:"created_at"`
}

func (Trade) TableName() string {
	return "trades"
}
