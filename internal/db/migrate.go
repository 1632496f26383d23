package db

import (
	"github.com/techkaran9/AlgoTrader-India/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Strategy{},
		&models.Position{},
		&models.UserSettings{},
		&models.Trade{},
		&models.SystemLog{},
		&models.Instrument{},
	)
}
