package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Instrument is reference metadata for a tradable contract family, keyed by
// symbol. Lot sizes come from here rather than from symbol-name heuristics.
type Instrument struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Symbol string `gorm:"type:varchar(100);not null;uniqueIndex" json:"symbol"`

	Underlying string          `gorm:"type:varchar(50);index" json:"underlying"`
	Exchange   string          `gorm:"type:varchar(20);not null;default:'NSE'" json:"exchange"`
	LotSize    int             `gorm:"not null" json:"lot_size"`
	TickSize   decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0.05" json:"tick_size"`
	FreezeQty  int             `gorm:"not null;default:0" json:"freeze_qty"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (Instrument) TableName() string {
	return "instruments"
}
