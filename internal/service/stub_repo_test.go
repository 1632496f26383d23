package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/techkaran9/AlgoTrader-India/internal/models"
	"github.com/techkaran9/AlgoTrader-India/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
// Executor and monitor tests drive strategies, positions, trades, logs and
// instruments; the list/count query surface is a no-op.
type stubRepo struct {
	settings   *models.UserSettings
	strategies map[uint64]*models.Strategy
	positions  map[uint64]*models.Position
	nextPosID  uint64

	trades []models.Trade
	logs   []models.SystemLog

	instruments map[string]*models.Instrument

	insertPositionErr error
	upsertPositionErr error
	listOpenErr       error
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		strategies:  map[uint64]*models.Strategy{},
		positions:   map[uint64]*models.Position{},
		instruments: map[string]*models.Instrument{},
	}
}

func (s *stubRepo) GetUserSettings(ctx context.Context, userID uint64) (*models.UserSettings, error) {
	return s.settings, nil
}
func (s *stubRepo) UpsertUserSettings(ctx context.Context, item *models.UserSettings) error {
	s.settings = item
	return nil
}
func (s *stubRepo) InsertStrategy(ctx context.Context, item *models.Strategy) error {
	s.strategies[item.ID] = item
	return nil
}
func (s *stubRepo) UpdateStrategy(ctx context.Context, item *models.Strategy) error {
	s.strategies[item.ID] = item
	return nil
}
func (s *stubRepo) GetStrategyByID(ctx context.Context, id uint64) (*models.Strategy, error) {
	return s.strategies[id], nil
}
func (s *stubRepo) ListStrategies(ctx context.Context, params repository.ListStrategiesParams) ([]models.Strategy, error) {
	return nil, nil
}
func (s *stubRepo) CountStrategies(ctx context.Context, params repository.ListStrategiesParams) (int64, error) {
	return 0, nil
}
func (s *stubRepo) ListStrategiesByIDs(ctx context.Context, ids []uint64) ([]models.Strategy, error) {
	var out []models.Strategy
	for _, id := range ids {
		if st, ok := s.strategies[id]; ok {
			out = append(out, *st)
		}
	}
	return out, nil
}
func (s *stubRepo) SetStrategyActive(ctx context.Context, id uint64, active bool) error {
	if st, ok := s.strategies[id]; ok {
		st.Active = active
	}
	return nil
}
func (s *stubRepo) InsertPosition(ctx context.Context, item *models.Position) error {
	if s.insertPositionErr != nil {
		return s.insertPositionErr
	}
	if item.ID == 0 {
		s.nextPosID++
		item.ID = s.nextPosID
	}
	clone := *item
	s.positions[item.ID] = &clone
	return nil
}
func (s *stubRepo) UpsertPosition(ctx context.Context, item *models.Position) error {
	if s.upsertPositionErr != nil {
		return s.upsertPositionErr
	}
	return s.InsertPosition(ctx, item)
}
func (s *stubRepo) GetPositionByID(ctx context.Context, id uint64) (*models.Position, error) {
	return s.positions[id], nil
}
func (s *stubRepo) ListPositions(ctx context.Context, params repository.ListPositionsParams) ([]models.Position, error) {
	return nil, nil
}
func (s *stubRepo) CountPositions(ctx context.Context, params repository.ListPositionsParams) (int64, error) {
	return 0, nil
}
func (s *stubRepo) ListOpenPositions(ctx context.Context, userID uint64) ([]models.Position, error) {
	if s.listOpenErr != nil {
		return nil, s.listOpenErr
	}
	var out []models.Position
	for _, p := range s.positions {
		if p.UserID == userID && p.Status == models.PositionStatusOpen {
			out = append(out, *p)
		}
	}
	return out, nil
}
func (s *stubRepo) CountOpenPositions(ctx context.Context, userID uint64) (int64, error) {
	items, _ := s.ListOpenPositions(ctx, userID)
	return int64(len(items)), nil
}
func (s *stubRepo) SumPositionPnLSince(ctx context.Context, userID uint64, since time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}
func (s *stubRepo) ClosePosition(ctx context.Context, id uint64, exitPrice, pnl decimal.Decimal, closedAt time.Time) error {
	if p, ok := s.positions[id]; ok {
		p.Status = models.PositionStatusClosed
		p.ExitPrice = &exitPrice
		p.PnL = pnl
		p.ClosedAt = &closedAt
	}
	return nil
}
func (s *stubRepo) ListUserIDsWithOpenPositions(ctx context.Context) ([]uint64, error) {
	seen := map[uint64]struct{}{}
	var out []uint64
	for _, p := range s.positions {
		if p.Status != models.PositionStatusOpen {
			continue
		}
		if _, ok := seen[p.UserID]; ok {
			continue
		}
		seen[p.UserID] = struct{}{}
		out = append(out, p.UserID)
	}
	return out, nil
}
func (s *stubRepo) PositionsSummary(ctx context.Context, userID uint64) (repository.PositionsSummary, error) {
	return repository.PositionsSummary{}, nil
}
func (s *stubRepo) InsertTrade(ctx context.Context, item *models.Trade) error {
	item.ID = uint64(len(s.trades) + 1)
	s.trades = append(s.trades, *item)
	return nil
}
func (s *stubRepo) UpdateTradeStatus(ctx context.Context, id uint64, brokerOrderID, status string, executedAt *time.Time) error {
	for i := range s.trades {
		if s.trades[i].ID == id {
			s.trades[i].BrokerOrderID = brokerOrderID
			s.trades[i].Status = status
			s.trades[i].ExecutedAt = executedAt
		}
	}
	return nil
}
func (s *stubRepo) ListTrades(ctx context.Context, params repository.ListTradesParams) ([]models.Trade, error) {
	return s.trades, nil
}
func (s *stubRepo) CountTrades(ctx context.Context, params repository.ListTradesParams) (int64, error) {
	return int64(len(s.trades)), nil
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
func (s *stubRepo) UpsertInstrument(ctx context.Context, item *models.Instrument) error {
	s.instruments[item.Symbol] = item
	return nil
}
func (s *stubRepo) GetInstrumentBySymbol(ctx context.Context, symbol string) (*models.Instrument, error) {
	return s.instruments[symbol], nil
}
func (s *stubRepo) ListInstruments(ctx context.Context) ([]models.Instrument, error) {
	var out []models.Instrument
	for _, inst := range s.instruments {
		out = append(out, *inst)
	}
	return out, nil
}

func (s *stubRepo) logsOfType(logType string) []models.SystemLog {
	var out []models.SystemLog
	for _, entry := range s.logs {
		if entry.LogType == logType {
			out = append(out, entry)
		}
	}
	return out
}
