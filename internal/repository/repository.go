package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/techkaran9/AlgoTrader-India/internal/models"
)

// Repository is the persistence surface the workflow needs. Any store
// implementing it suffices; the gorm subpackage is the production one.
type Repository interface {
	// User settings (one row per user).
	GetUserSettings(ctx context.Context, userID uint64) (*models.UserSettings, error)
	UpsertUserSettings(ctx context.Context, item *models.UserSettings) error

	// Strategies.
	InsertStrategy(ctx context.Context, item *models.Strategy) error
	UpdateStrategy(ctx context.Context, item *models.Strategy) error
	GetStrategyByID(ctx context.Context, id uint64) (*models.Strategy, error)
	ListStrategies(ctx context.Context, params ListStrategiesParams) ([]models.Strategy, error)
	CountStrategies(ctx context.Context, params ListStrategiesParams) (int64, error)
	ListStrategiesByIDs(ctx context.Context, ids []uint64) ([]models.Strategy, error)
	SetStrategyActive(ctx context.Context, id uint64, active bool) error

	// Positions.
	InsertPosition(ctx context.Context, item *models.Position) error
	UpsertPosition(ctx context.Context, item *models.Position) error
	GetPositionByID(ctx context.Context, id uint64) (*models.Position, error)
	ListPositions(ctx context.Context, params ListPositionsParams) ([]models.Position, error)
	CountPositions(ctx context.Context, params ListPositionsParams) (int64, error)
	ListOpenPositions(ctx context.Context, userID uint64) ([]models.Position, error)
	CountOpenPositions(ctx context.Context, userID uint64) (int64, error)
	SumPositionPnLSince(ctx context.Context, userID uint64, since time.Time) (decimal.Decimal, error)
	ClosePosition(ctx context.Context, id uint64, exitPrice, pnl decimal.Decimal, closedAt time.Time) error
	ListUserIDsWithOpenPositions(ctx context.Context) ([]uint64, error)
	PositionsSummary(ctx context.Context, userID uint64) (PositionsSummary, error)

	// Trades (append-only order audit).
	InsertTrade(ctx context.Context, item *models.Trade) error
	UpdateTradeStatus(ctx context.Context, id uint64, brokerOrderID, status string, executedAt *time.Time) error
	ListTrades(ctx context.Context, params ListTradesParams) ([]models.Trade, error)
	CountTrades(ctx context.Context, params ListTradesParams) (int64, error)

	// System audit log (append-only).
	InsertSystemLog(ctx context.Context, item *models.SystemLog) error
	ListSystemLogs(ctx context.Context, params ListSystemLogsParams) ([]models.SystemLog, error)
	CountSystemLogs(ctx context.Context, params ListSystemLogsParams) (int64, error)

	// Instrument reference data.
	UpsertInstrument(ctx context.Context, item *models.Instrument) error
	GetInstrumentBySymbol(ctx context.Context, symbol string) (*models.Instrument, error)
	ListInstruments(ctx context.Context) ([]models.Instrument, error)
}

type ListStrategiesParams struct {
	Limit  int
	Offset int

	UserID     *uint64
	Active     *bool
	Instrument *string

	OrderBy string
	Asc     *bool
}

type ListPositionsParams struct {
	Limit  int
	Offset int

	UserID       *uint64
	Status       *string
	StrategyID   *uint64
	Symbol       *string
	CreatedSince *time.Time

	OrderBy string
	Asc     *bool
}

type ListTradesParams struct {
	Limit  int
	Offset int

	UserID     *uint64
	PositionID *uint64
	Status     *string

	OrderBy string
	Asc     *bool
}

type ListSystemLogsParams struct {
	Limit  int
	Offset int

	UserID  *uint64
	LogType *string
	Since   *time.Time

	OrderBy string
	Asc     *bool
}

type PositionsSummary struct {
	TotalOpen     int64           `json:"total_open"`
	TotalClosed   int64           `json:"total_closed"`
	OpenPnL       decimal.Decimal `json:"open_pnl"`
	TodayPnL      decimal.Decimal `json:"today_pnl"`
	TotalQuantity int64           `json:"total_quantity"`
}
