package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	LogTypeInfo    = "INFO"
	LogTypeWarning = "WARNING"
	LogTypeError   = "ERROR"
	LogTypeTrade   = "TRADE"
)

// SystemLog is the append-only audit trail written as a side effect of every
// state-changing operation. The workflow never reads it back; only the logs
// API does.
type SystemLog struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint64 `gorm:"index" json:"user_id"`

	LogType  string         `gorm:"type:varchar(10);not null;index" json:"log_type"`
	Message  string         `gorm:"type:text;not null" json:"message"`
	Metadata datatypes.JSON `gorm:"type:jsonb" json:"metadata"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index" json:"created_at"`
}

func (SystemLog) TableName() string {
	return "system_logs"
}
