package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Instrument universe the service trades. Kept as a closed set; anything
// else is rejected at the API boundary.
const (
	InstrumentNifty     = "NIFTY"
	InstrumentBankNifty = "BANKNIFTY"
	InstrumentFinNifty  = "FINNIFTY"
	InstrumentSensex    = "SENSEX"
)

func ValidInstrument(name string) bool {
	switch name {
	case InstrumentNifty, InstrumentBankNifty, InstrumentFinNifty, InstrumentSensex:
		return true
	}
	return false
}

// Strategy is a user-configured trading strategy. TargetProfit and MaxLoss
// are the strategy's risk parameters and the sole source of exit thresholds
// for positions that reference it.
type Strategy struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint64 `gorm:"not null;index" json:"user_id"`

	Name         string `gorm:"type:varchar(100);not null" json:"name"`
	StrategyType string `gorm:"type:varchar(50);not null;index" json:"strategy_type"`
	Instrument   string `gorm:"type:varchar(20);not null;index" json:"instrument"`

	Active bool `gorm:"default:false;index" json:"active"`

	// Entry/exit time of day in "HH:MM" (exchange local time).
	EntryTime string `gorm:"type:varchar(5)" json:"entry_time"`
	ExitTime  string `gorm:"type:varchar(5)" json:"exit_time"`

	TargetProfit *decimal.Decimal `gorm:"type:numeric(20,2)" json:"target_profit"`
	MaxLoss      *decimal.Decimal `gorm:"type:numeric(20,2)" json:"max_loss"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (Strategy) TableName() string {
	return "strategies"
}
