package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserSettings holds per-user trading limits; one row per user. The risk
// gate reads it, the settings API writes it.
type UserSettings struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint64 `gorm:"not null;uniqueIndex" json:"user_id"`

	AutoTradeEnabled bool `gorm:"default:false" json:"auto_trade_enabled"`

	MaxDailyLoss     decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"max_daily_loss"`
	MaxPositionSize  decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"max_position_size"`
	MaxOpenPositions int             `gorm:"not null;default:0" json:"max_open_positions"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (UserSettings) TableName() string {
	return "user_settings"
}
