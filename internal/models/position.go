package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PositionStatusOpen    = "OPEN"
	PositionStatusClosed  = "CLOSED"
	PositionStatusPending = "PENDING"
)

const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// Position is one open or historical option position. StrategyID is a weak
// reference: it survives strategy deletion, and a position with no strategy
// has no automatic exit rule.
type Position struct {
	ID         uint64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint64  `gorm:"not null;index" json:"user_id"`
	StrategyID *uint64 `gorm:"index" json:"strategy_id"`

	BrokerOrderID string `gorm:"type:varchar(100);index" json:"broker_order_id"`

	Symbol     string          `gorm:"type:varchar(100);not null;index" json:"symbol"`
	OptionType string          `gorm:"type:varchar(4)" json:"option_type"`
	Strike     decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"strike"`
	Expiry     *time.Time      `gorm:"type:timestamptz" json:"expiry"`

	Side     string          `gorm:"type:varchar(10);not null" json:"side"`
	Quantity int             `gorm:"not null" json:"quantity"`

	EntryPrice   decimal.Decimal  `gorm:"type:numeric(20,2);not null;default:0" json:"entry_price"`
	CurrentPrice decimal.Decimal  `gorm:"type:numeric(20,2);not null;default:0" json:"current_price"`
	ExitPrice    *decimal.Decimal `gorm:"type:numeric(20,2)" json:"exit_price"`
	PnL          decimal.Decimal  `gorm:"column:pnl;type:numeric(30,2);not null;default:0" json:"pnl"`

	Status string `gorm:"type:varchar(10);not null;default:'OPEN';index" json:"status"`

	OpenedAt time.Time  `gorm:"type:timestamptz;not null" json:"opened_at"`
	ClosedAt *time.Time `gorm:"type:timestamptz" json:"closed_at"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (Position) TableName() string {
	return "positions"
}

// DirectionSign is +1 for BUY positions and -1 for SELL positions.
func (p Position) DirectionSign() int64 {
	if p.Side == SideSell {
		return -1
	}
	return 1
}
