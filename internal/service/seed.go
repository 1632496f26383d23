package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/techkaran9/AlgoTrader-India/internal/models"
	"github.com/techkaran9/AlgoTrader-India/internal/repository"
)

// SeedInstruments upserts the reference rows for the supported index option
// families so lot-size lookups work from the first tick. Exchange lot sizes
// change occasionally; rows already edited by an operator keep their values
// only until the next boot.
func SeedInstruments(ctx context.Context, repo repository.Repository, logger *zap.Logger) error {
	if repo == nil {
		return nil
	}
	tick := decimal.NewFromFloat(0.05)
	defaults := []models.Instrument{
		{Symbol: models.InstrumentNifty, Underlying: "NIFTY 50", Exchange: "NSE", LotSize: 50, TickSize: tick, FreezeQty: 1800},
		{Symbol: models.InstrumentBankNifty, Underlying: "NIFTY BANK", Exchange: "NSE", LotSize: 15, TickSize: tick, FreezeQty: 900},
		{Symbol: models.InstrumentFinNifty, Underlying: "NIFTY FIN SERVICE", Exchange: "NSE", LotSize: 40, TickSize: tick, FreezeQty: 1800},
		{Symbol: models.InstrumentSensex, Underlying: "SENSEX", Exchange: "BSE", LotSize: 10, TickSize: tick, FreezeQty: 1000},
	}
	for i := range defaults {
		if err := repo.UpsertInstrument(ctx, &defaults[i]); err != nil {
			return err
		}
	}
	if logger != nil {
		logger.Info("instrument reference data seeded", zap.Int("count", len(defaults)))
	}
	return nil
}
