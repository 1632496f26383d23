package gormrepository

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/techkaran9/AlgoTrader-India/internal/models"
	"github.com/techkaran9/AlgoTrader-India/internal/repository"
)

type Store struct {
	db  *gorm.DB
	loc *time.Location
}

// New wraps db in a Store. loc is the exchange-local timezone used to bound
// same-day aggregates; nil falls back to the process-local zone.
func New(db *gorm.DB, loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	return &Store{db: db, loc: loc}
}

// dayStart is local midnight of the current calendar day.
func (s *Store) dayStart() time.Time {
	loc := s.loc
	if loc == nil {
		loc = time.Local
	}
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
}

// --- user settings ----------------------------------------------------------

func (s *Store) GetUserSettings(ctx context.Context, userID uint64) (*models.UserSettings, error) {
	if s == nil || s.db == nil || userID == 0 {
		return nil, nil
	}
	var item models.UserSettings
	err := s.db.WithContext(ctx).Model(&models.UserSettings{}).Where("user_id = ?", userID).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) UpsertUserSettings(ctx context.Context, item *models.UserSettings) error {
	if s == nil || s.db == nil || item == nil || item.UserID == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"auto_trade_enabled",
			"max_daily_loss",
			"max_position_size",
			"max_open_positions",
			"updated_at",
		}),
	}).Create(item).Error
}

// --- strategies -------------------------------------------------------------

func (s *Store) InsertStrategy(ctx context.Context, item *models.Strategy) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpdateStrategy(ctx context.Context, item *models.Strategy) error {
	if s == nil || s.db == nil || item == nil || item.ID == 0 {
		return nil
	}
	item.UpdatedAt = time.Now().UTC()
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) GetStrategyByID(ctx context.Context, id uint64) (*models.Strategy, error) {
	if s == nil || s.db == nil || id == 0 {
		return nil, nil
	}
	var item models.Strategy
	err := s.db.WithContext(ctx).Model(&models.Strategy{}).Where("id = ?", id).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) strategiesQuery(ctx context.Context, params repository.ListStrategiesParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Strategy{})
	if params.UserID != nil && *params.UserID > 0 {
		query = query.Where("user_id = ?", *params.UserID)
	}
	if params.Active != nil {
		query = query.Where("active = ?", *params.Active)
	}
	if params.Instrument != nil && strings.TrimSpace(*params.Instrument) != "" {
		query = query.Where("instrument = ?", strings.TrimSpace(*params.Instrument))
	}
	return query
}

func (s *Store) ListStrategies(ctx context.Context, params repository.ListStrategiesParams) ([]models.Strategy, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyOrder(s.strategiesQuery(ctx, params), params.OrderBy, params.Asc, "created_at")
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.Strategy
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountStrategies(ctx context.Context, params repository.ListStrategiesParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.strategiesQuery(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) ListStrategiesByIDs(ctx context.Context, ids []uint64) ([]models.Strategy, error) {
	if s == nil || s.db == nil || len(ids) == 0 {
		return nil, nil
	}
	var items []models.Strategy
	if err := s.db.WithContext(ctx).Model(&models.Strategy{}).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) SetStrategyActive(ctx context.Context, id uint64, active bool) error {
	if s == nil || s.db == nil || id == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&models.Strategy{}).Where("id = ?", id).Updates(map[string]any{
		"active":     active,
		"updated_at": time.Now().UTC(),
	}).Error
}

// --- positions --------------------------------------------------------------

func (s *Store) InsertPosition(ctx context.Context, item *models.Position) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpsertPosition(ctx context.Context, item *models.Position) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if item.ID == 0 {
		return s.db.WithContext(ctx).Create(item).Error
	}
	item.UpdatedAt = time.Now().UTC()
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) GetPositionByID(ctx context.Context, id uint64) (*models.Position, error) {
	if s == nil || s.db == nil || id == 0 {
		return nil, nil
	}
	var item models.Position
	err := s.db.WithContext(ctx).Model(&models.Position{}).Where("id = ?", id).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) positionsQuery(ctx context.Context, params repository.ListPositionsParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Position{})
	if params.UserID != nil && *params.UserID > 0 {
		query = query.Where("user_id = ?", *params.UserID)
	}
	if params.Status != nil && strings.TrimSpace(*params.Status) != "" {
		query = query.Where("status = ?", strings.ToUpper(strings.TrimSpace(*params.Status)))
	}
	if params.StrategyID != nil && *params.StrategyID > 0 {
		query = query.Where("strategy_id = ?", *params.StrategyID)
	}
	if params.Symbol != nil && strings.TrimSpace(*params.Symbol) != "" {
		query = query.Where("symbol = ?", strings.TrimSpace(*params.Symbol))
	}
	if params.CreatedSince != nil && !params.CreatedSince.IsZero() {
		query = query.Where("created_at >= ?", *params.CreatedSince)
	}
	return query
}

func (s *Store) ListPositions(ctx context.Context, params repository.ListPositionsParams) ([]models.Position, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyOrder(s.positionsQuery(ctx, params), params.OrderBy, params.Asc, "opened_at")
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.Position
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountPositions(ctx context.Context, params repository.ListPositionsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.positionsQuery(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) ListOpenPositions(ctx context.Context, userID uint64) ([]models.Position, error) {
	if s == nil || s.db == nil || userID == 0 {
		return nil, nil
	}
	var items []models.Position
	err := s.db.WithContext(ctx).
		Model(&models.Position{}).
		Where("user_id = ?", userID).
		Where("status = ?", models.PositionStatusOpen).
		Order("opened_at asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountOpenPositions(ctx context.Context, userID uint64) (int64, error) {
	if s == nil || s.db == nil || userID == 0 {
		return 0, nil
	}
	var total int64
	err := s.db.WithContext(ctx).
		Model(&models.Position{}).
		Where("user_id = ?", userID).
		Where("status = ?", models.PositionStatusOpen).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) SumPositionPnLSince(ctx context.Context, userID uint64, since time.Time) (decimal.Decimal, error) {
	if s == nil || s.db == nil || userID == 0 || since.IsZero() {
		return decimal.Zero, nil
	}
	var out float64
	err := s.db.WithContext(ctx).
		Table("positions").
		Select("COALESCE(SUM(pnl),0)").
		Where("user_id = ?", userID).
		Where("created_at >= ?", since).
		Scan(&out).Error
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(out), nil
}

func (s *Store) ClosePosition(ctx context.Context, id uint64, exitPrice, pnl decimal.Decimal, closedAt time.Time) error {
	if s == nil || s.db == nil || id == 0 {
		return nil
	}
	if closedAt.IsZero() {
		closedAt = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Model(&models.Position{}).Where("id = ?", id).Updates(map[string]any{
		"status":     models.PositionStatusClosed,
		"exit_price": exitPrice,
		"pnl":        pnl,
		"closed_at":  &closedAt,
		"updated_at": time.Now().UTC(),
	}).Error
}

func (s *Store) ListUserIDsWithOpenPositions(ctx context.Context) ([]uint64, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var ids []uint64
	err := s.db.WithContext(ctx).
		Model(&models.Position{}).
		Where("status = ?", models.PositionStatusOpen).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Store) PositionsSummary(ctx context.Context, userID uint64) (repository.PositionsSummary, error) {
	if s == nil || s.db == nil {
		return repository.PositionsSummary{}, nil
	}
	dayStart := s.dayStart()
	var row struct {
		TotalOpen     int64
		TotalClosed   int64
		OpenPnL       float64
		TodayPnL      float64
		TotalQuantity int64
	}
	err := s.db.WithContext(ctx).
		Table("positions").
		Select(`
			COALESCE(SUM(CASE WHEN status = 'OPEN' THEN 1 ELSE 0 END),0) AS total_open,
			COALESCE(SUM(CASE WHEN status = 'CLOSED' THEN 1 ELSE 0 END),0) AS total_closed,
			COALESCE(SUM(CASE WHEN status = 'OPEN' THEN pnl ELSE 0 END),0) AS open_pn_l,
			COALESCE(SUM(CASE WHEN created_at >= ? THEN pnl ELSE 0 END),0) AS today_pn_l,
			COALESCE(SUM(CASE WHEN status = 'OPEN' THEN quantity ELSE 0 END),0) AS total_quantity
		`, dayStart).
		Where("user_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return repository.PositionsSummary{}, err
	}
	return repository.PositionsSummary{
		TotalOpen:     row.TotalOpen,
		TotalClosed:   row.TotalClosed,
		OpenPnL:       decimal.NewFromFloat(row.OpenPnL),
		TodayPnL:      decimal.NewFromFloat(row.TodayPnL),
		TotalQuantity: row.TotalQuantity,
	}, nil
}

// --- trades -----------------------------------------------------------------

func (s *Store) InsertTrade(ctx context.Context, item *models.Trade) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpdateTradeStatus(ctx context.Context, id uint64, brokerOrderID, status string, executedAt *time.Time) error {
	if s == nil || s.db == nil || id == 0 {
		return nil
	}
	updates := map[string]any{
		"status": strings.ToUpper(strings.TrimSpace(status)),
	}
	if strings.TrimSpace(brokerOrderID) != "" {
		updates["broker_order_id"] = strings.TrimSpace(brokerOrderID)
	}
	if executedAt != nil {
		updates["executed_at"] = executedAt
	}
	return s.db.WithContext(ctx).Model(&models.Trade{}).Where("id = ?", id).Updates(updates).Error
}

func (s *Store) tradesQuery(ctx context.Context, params repository.ListTradesParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Trade{})
	if params.UserID != nil && *params.UserID > 0 {
		query = query.Where("user_id = ?", *params.UserID)
	}
	if params.PositionID != nil && *params.PositionID > 0 {
		query = query.Where("position_id = ?", *params.PositionID)
	}
	if params.Status != nil && strings.TrimSpace(*params.Status) != "" {
		query = query.Where("status = ?", strings.ToUpper(strings.TrimSpace(*params.Status)))
	}
	return query
}

func (s *Store) ListTrades(ctx context.Context, params repository.ListTradesParams) ([]models.Trade, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyOrder(s.tradesQuery(ctx, params), params.OrderBy, params.Asc, "created_at")
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.Trade
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountTrades(ctx context.Context, params repository.ListTradesParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.tradesQuery(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// --- system logs ------------------------------------------------------------

func (s *Store) InsertSystemLog(ctx context.Context, item *models.SystemLog) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) logsQuery(ctx context.Context, params repository.ListSystemLogsParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.SystemLog{})
	if params.UserID != nil && *params.UserID > 0 {
		query = query.Where("user_id = ?", *params.UserID)
	}
	if params.LogType != nil && strings.TrimSpace(*params.LogType) != "" {
		query = query.Where("log_type = ?", strings.ToUpper(strings.TrimSpace(*params.LogType)))
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("created_at >= ?", *params.Since)
	}
	return query
}

func (s *Store) ListSystemLogs(ctx context.Context, params repository.ListSystemLogsParams) ([]models.SystemLog, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyOrder(s.logsQuery(ctx, params), params.OrderBy, params.Asc, "created_at")
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.SystemLog
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountSystemLogs(ctx context.Context, params repository.ListSystemLogsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.logsQuery(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// --- instruments ------------------------------------------------------------

func (s *Store) UpsertInstrument(ctx context.Context, item *models.Instrument) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	item.Symbol = strings.TrimSpace(item.Symbol)
	if item.Symbol == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"underlying",
			"exchange",
			"lot_size",
			"tick_size",
			"freeze_qty",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) GetInstrumentBySymbol(ctx context.Context, symbol string) (*models.Instrument, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, nil
	}
	var item models.Instrument
	err := s.db.WithContext(ctx).Model(&models.Instrument{}).Where("symbol = ?", symbol).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListInstruments(ctx context.Context) ([]models.Instrument, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Instrument
	if err := s.db.WithContext(ctx).Model(&models.Instrument{}).Order("symbol asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- helpers ----------------------------------------------------------------

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if column == "" {
		column = fallback
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
