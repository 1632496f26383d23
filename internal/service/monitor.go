package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/techkaran9/AlgoTrader-India/internal/broker"
	"github.com/techkaran9/AlgoTrader-India/internal/metrics"
	"github.com/techkaran9/AlgoTrader-India/internal/models"
	"github.com/techkaran9/AlgoTrader-India/internal/repository"
)

// PositionMonitor polls quotes for every open position, refreshes unrealized
// P&L and auto-exits positions that breach their strategy's stop-loss or
// target. Each position is handled independently; any single failure is
// logged, counted and skipped so one bad quote never stops the sweep.
type PositionMonitor struct {
	Repo    repository.Repository
	Gateway broker.Gateway
	Logger  *zap.Logger
}

// TickAll runs one monitoring pass over every user that currently holds open
// positions.
func (m *PositionMonitor) TickAll(ctx context.Context) {
	if m == nil || m.Repo == nil {
		return
	}
	userIDs, err := m.Repo.ListUserIDsWithOpenPositions(ctx)
	if err != nil {
		metrics.MonitorTickFailures.Inc()
		if m.Logger != nil {
			m.Logger.Warn("monitor: list users", zap.Error(err))
		}
		return
	}
	for _, userID := range userIDs {
		m.Tick(ctx, userID)
	}
}

// Tick monitors one user's open positions. It never returns an error; with
// zero open positions it performs no gateway or write calls at all.
func (m *PositionMonitor) Tick(ctx context.Context, userID uint64) {
	if m == nil || m.Repo == nil || m.Gateway == nil {
		return
	}
	positions, err := m.Repo.ListOpenPositions(ctx, userID)
	if err != nil {
		metrics.MonitorTickFailures.Inc()
		if m.Logger != nil {
			m.Logger.Warn("monitor: list open positions", zap.Uint64("user_id", userID), zap.Error(err))
		}
		return
	}
	if len(positions) == 0 {
		return
	}

	strategyByID := m.loadStrategies(ctx, positions)
	for _, pos := range positions {
		m.monitorPosition(ctx, pos, strategyByID)
	}
}

func (m *PositionMonitor) loadStrategies(ctx context.Context, positions []models.Position) map[uint64]models.Strategy {
	ids := make([]uint64, 0, len(positions))
	seen := map[uint64]struct{}{}
	for _, p := range positions {
		if p.StrategyID == nil || *p.StrategyID == 0 {
			continue
		}
		if _, ok := seen[*p.StrategyID]; ok {
			continue
		}
		seen[*p.StrategyID] = struct{}{}
		ids = append(ids, *p.StrategyID)
	}
	out := map[uint64]models.Strategy{}
	if len(ids) == 0 {
		return out
	}
	strategies, err := m.Repo.ListStrategiesByIDs(ctx, ids)
	if err != nil {
		metrics.MonitorTickFailures.Inc()
		if m.Logger != nil {
			m.Logger.Warn("monitor: load strategies", zap.Error(err))
		}
		return out
	}
	for _, s := range strategies {
		out[s.ID] = s
	}
	return out
}

func (m *PositionMonitor) monitorPosition(ctx context.Context, pos models.Position, strategyByID map[uint64]models.Strategy) {
	quote, err := m.Gateway.GetQuote(ctx, pos.Symbol)
	if err != nil {
		metrics.MonitorTickFailures.Inc()
		if m.Logger != nil {
			m.Logger.Warn("monitor: get quote",
				zap.Uint64("position_id", pos.ID),
				zap.String("symbol", pos.Symbol),
				zap.Error(err))
		}
		return
	}
	current := quote.LastPrice

	// Entry price zero means the executor created this position before any
	// quote was seen; adopt the first observed price as the entry.
	if pos.EntryPrice.IsZero() {
		pos.EntryPrice = current
	}

	lotSize := m.lotSize(ctx, pos.Symbol)
	pnl := current.Sub(pos.EntryPrice).
		Mul(decimal.NewFromInt(pos.DirectionSign())).
		Mul(decimal.NewFromInt(int64(lotSize))).
		Mul(decimal.NewFromInt(int64(pos.Quantity)))

	pos.CurrentPrice = current
	pos.PnL = pnl
	if err := m.Repo.UpsertPosition(ctx, &pos); err != nil {
		metrics.MonitorTickFailures.Inc()
		if m.Logger != nil {
			m.Logger.Warn("monitor: update position", zap.Uint64("position_id", pos.ID), zap.Error(err))
		}
		return
	}

	if pos.StrategyID == nil {
		return
	}
	strat, ok := strategyByID[*pos.StrategyID]
	if !ok {
		return
	}

	// Stop-loss is checked before target; at most one exit fires per tick.
	if strat.MaxLoss != nil && strat.MaxLoss.IsPositive() && pnl.LessThanOrEqual(strat.MaxLoss.Neg()) {
		m.exitPosition(ctx, pos, current, pnl, "stop_loss",
			fmt.Sprintf("stop loss hit on %s: pnl %s breached max loss %s",
				pos.Symbol, pnl.StringFixed(2), strat.MaxLoss.StringFixed(2)))
		return
	}
	if strat.TargetProfit != nil && strat.TargetProfit.IsPositive() && pnl.GreaterThanOrEqual(*strat.TargetProfit) {
		m.exitPosition(ctx, pos, current, pnl, "target",
			fmt.Sprintf("target hit on %s: pnl %s reached target %s",
				pos.Symbol, pnl.StringFixed(2), strat.TargetProfit.StringFixed(2)))
	}
}

func (m *PositionMonitor) exitPosition(ctx context.Context, pos models.Position, exitPrice, pnl decimal.Decimal, trigger, message string) {
	if _, err := m.Gateway.ExitPosition(ctx, pos.ID); err != nil {
		metrics.MonitorTickFailures.Inc()
		if m.Logger != nil {
			m.Logger.Warn("monitor: exit position",
				zap.Uint64("position_id", pos.ID),
				zap.String("trigger", trigger),
				zap.Error(err))
		}
		return
	}
	if err := m.Repo.ClosePosition(ctx, pos.ID, exitPrice, pnl, time.Now().UTC()); err != nil {
		metrics.MonitorTickFailures.Inc()
		if m.Logger != nil {
			m.Logger.Warn("monitor: close position", zap.Uint64("position_id", pos.ID), zap.Error(err))
		}
		return
	}
	metrics.PositionsClosed.WithLabelValues(trigger).Inc()

	logType := models.LogTypeInfo
	if trigger == "stop_loss" {
		logType = models.LogTypeWarning
	}
	err := m.Repo.InsertSystemLog(ctx, &models.SystemLog{
		UserID:  pos.UserID,
		LogType: logType,
		Message: message,
	})
	if err != nil && m.Logger != nil {
		m.Logger.Warn("monitor: write exit log", zap.Uint64("position_id", pos.ID), zap.Error(err))
	}
	if m.Logger != nil {
		m.Logger.Info("monitor: position closed",
			zap.Uint64("position_id", pos.ID),
			zap.String("symbol", pos.Symbol),
			zap.String("trigger", trigger),
			zap.String("pnl", pnl.StringFixed(2)))
	}
}

// lotSize resolves the contract multiplier from the instruments table,
// falling back to the legacy symbol-name heuristic when no row exists.
func (m *PositionMonitor) lotSize(ctx context.Context, symbol string) int {
	inst, err := m.Repo.GetInstrumentBySymbol(ctx, symbol)
	if err == nil && inst != nil && inst.LotSize > 0 {
		return inst.LotSize
	}
	upper := strings.ToUpper(symbol)
	if strings.Contains(upper, "NIFTY") && !strings.Contains(upper, "BANKNIFTY") {
		return 50
	}
	return 15
}
