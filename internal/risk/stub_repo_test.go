package risk

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/techkaran9/AlgoTrader-India/internal/models"
	"github.com/techkaran9/AlgoTrader-India/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
// Gate tests exercise settings, open counts, daily P&L and the audit log;
// everything else is a no-op.
type stubRepo struct {
	settings    *models.UserSettings
	settingsErr error

	openCount    int64
	openCountErr error

	todayPnL decimal.Decimal
	pnlErr   error
	pnlSince time.Time

	logs []models.SystemLog
}

func (s *stubRepo) GetUserSettings(ctx context.Context, userID uint64) (*models.UserSettings, error) {
	return s.settings, s.settingsErr
}
func (s *stubRepo) UpsertUserSettings(ctx context.Context, item *models.UserSettings) error {
	return nil
}
func (s *stubRepo) InsertStrategy(ctx context.Context, item *models.Strategy) error { return nil }
func (s *stubRepo) UpdateStrategy(ctx context.Context, item *models.Strategy) error { return nil }
func (s *stubRepo) GetStrategyByID(ctx context.Context, id uint64) (*models.Strategy, error) {
	return nil, nil
}
func (s *stubRepo) ListStrategies(ctx context.Context, params repository.ListStrategiesParams) ([]models.Strategy, error) {
	return nil, nil
}
func (s *stubRepo) CountStrategies(ctx context.Context, params repository.ListStrategiesParams) (int64, error) {
	return 0, nil
}
func (s *stubRepo) ListStrategiesByIDs(ctx context.Context, ids []uint64) ([]models.Strategy, error) {
	return nil, nil
}
func (s *stubRepo) SetStrategyActive(ctx context.Context, id uint64, active bool) error { return nil }
func (s *stubRepo) InsertPosition(ctx context.Context, item *models.Position) error     { return nil }
func (s *stubRepo) UpsertPosition(ctx context.Context, item *models.Position) error     { return nil }
func (s *stubRepo) GetPositionByID(ctx context.Context, id uint64) (*models.Position, error) {
	return nil, nil
}
func (s *stubRepo) ListPositions(ctx context.Context, params repository.ListPositionsParams) ([]models.Position, error) {
	return nil, nil
}
func (s *stubRepo) CountPositions(ctx context.Context, params repository.ListPositionsParams) (int64, error) {
	return 0, nil
}
func (s *stubRepo) ListOpenPositions(ctx context.Context, userID uint64) ([]models.Position, error) {
	return nil, nil
}
func (s *stubRepo) CountOpenPositions(ctx context.Context, userID uint64) (int64, error) {
	return s.openCount, s.openCountErr
}
func (s *stubRepo) SumPositionPnLSince(ctx context.Context, userID uint64, since time.Time) (decimal.Decimal, error) {
	s.pnlSince = since
	return s.todayPnL, s.pnlErr
}
func (s *stubRepo) ClosePosition(ctx context.Context, id uint64, exitPrice, pnl decimal.Decimal, closedAt time.Time) error {
	return nil
}
func (s *stubRepo) ListUserIDsWithOpenPositions(ctx context.Context) ([]uint64, error) {
	return nil, nil
}
func (s *stubRepo) PositionsSummary(ctx context.Context, userID uint64) (repository.PositionsSummary, error) {
	return repository.PositionsSummary{}, nil
}
func (s *stubRepo) InsertTrade(ctx context.Context, item *models.Trade) error { return nil }
func (s *stubRepo) UpdateTradeStatus(ctx context.Context, id uint64, brokerOrderID, status string, executedAt *time.Time) error {
	return nil
}
func (s *stubRepo) ListTrades(ctx context.Context, params repository.ListTradesParams) ([]models.Trade, error) {
	return nil, nil
}
func (s *stubRepo) CountTrades(ctx context.Context, params repository.ListTradesParams) (int64, error) {
	return 0, nil
}
func (s *stubRepo) InsertSystemLog(ctx context.Context, item *models.SystemLog) error {
	s.logs = append(s.logs, *item)
	return nil
}
func (s *stubRepo) ListSystemLogs(ctx context.Context, params repository.ListSystemLogsParams) ([]models.SystemLog, error) {
	return s.logs, nil
}
func (s *stubRepo) CountSystemLogs(ctx context.Context, params repository.ListSystemLogsParams) (int64, error) {
	return int64(len(s.logs)), nil
}
func (s *stubRepo) UpsertInstrument(ctx context.Context, item *models.Instrument) error { return nil }
func (s *stubRepo) GetInstrumentBySymbol(ctx context.Context, symbol string) (*models.Instrument, error) {
	return nil, nil
}
func (s *stubRepo) ListInstruments(ctx context.Context) ([]models.Instrument, error) {
	return nil, nil
}
