package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/techkaran9/AlgoTrader-India/internal/broker"
	"github.com/techkaran9/AlgoTrader-India/internal/metrics"
	"github.com/techkaran9/AlgoTrader-India/internal/models"
	"github.com/techkaran9/AlgoTrader-India/internal/repository"
	"github.com/techkaran9/AlgoTrader-India/internal/risk"
)

// ErrRiskDenied wraps every risk-gate denial raised by the executor.
var ErrRiskDenied = errors.New("risk limits exceeded")

// Leg is one component order of a strategy execution request.
type Leg struct {
	Symbol     string          `json:"symbol" binding:"required"`
	Side       string          `json:"side" binding:"required"`
	Quantity   int             `json:"quantity" binding:"required"`
	OptionType string          `json:"option_type"`
	Strike     decimal.Decimal `json:"strike"`
}

type legOutcome struct {
	Leg     Leg    `json:"leg"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// StrategyExecutor turns a strategy's legs into broker orders. Partial fills
// are accepted: a rejected leg is skipped, the rest proceed. Store or gateway
// failures are recorded to the audit log and then raised; nothing filled so
// far is unwound.
type StrategyExecutor struct {
	Repo    repository.Repository
	Gateway broker.Gateway
	Gate    *risk.Gate
	Logger  *zap.Logger
}

// Execute places every leg of the strategy sequentially as a market intraday
// order. Re-invoking with the same strategy places new orders again.
func (e *StrategyExecutor) Execute(ctx context.Context, userID, strategyID uint64, legs []Leg) error {
	if e == nil || e.Repo == nil || e.Gateway == nil {
		return errors.New("executor: not configured")
	}
	if len(legs) == 0 {
		return errors.New("executor: no legs to execute")
	}

	strat, err := e.Repo.GetStrategyByID(ctx, strategyID)
	if err != nil {
		return e.recordAndRaise(ctx, userID, strategyID, "load strategy", err)
	}
	if strat == nil || strat.UserID != userID {
		return fmt.Errorf("executor: strategy %d not found", strategyID)
	}

	if e.Gate != nil {
		allowed, reason := e.Gate.CanTrade(ctx, userID)
		if !allowed {
			metadata, _ := json.Marshal(map[string]any{"strategy_id": strategyID})
			e.audit(ctx, userID, models.LogTypeError,
				fmt.Sprintf("execution of strategy %d %q blocked: %s", strategyID, strat.Name, reason), metadata)
			if e.Logger != nil {
				e.Logger.Error("executor: risk gate denied",
					zap.Uint64("user_id", userID),
					zap.Uint64("strategy_id", strategyID),
					zap.String("reason", reason))
			}
			return fmt.Errorf("%w: %s", ErrRiskDenied, reason)
		}
	}

	outcomes := make([]legOutcome, 0, len(legs))
	for _, leg := range legs {
		outcome, err := e.placeLeg(ctx, userID, strat, leg)
		if err != nil {
			return e.recordAndRaise(ctx, userID, strategyID, fmt.Sprintf("place order %s %s", leg.Side, leg.Symbol), err)
		}
		outcomes = append(outcomes, outcome)
	}

	metadata, _ := json.Marshal(map[string]any{
		"strategy_id":   strategyID,
		"strategy_name": strat.Name,
		"legs":          outcomes,
	})
	e.audit(ctx, userID, models.LogTypeTrade,
		fmt.Sprintf("executed strategy %q: %s", strat.Name, summarizeLegs(outcomes)),
		metadata)

	return nil
}

// placeLeg submits one order and records its Trade row. A broker response
// with a non-EXECUTED status is not an error; only transport or store
// failures are.
func (e *StrategyExecutor) placeLeg(ctx context.Context, userID uint64, strat *models.Strategy, leg Leg) (legOutcome, error) {
	clientRef := uuid.NewString()
	trade := &models.Trade{
		UserID:      userID,
		ClientRef:   clientRef,
		Symbol:      leg.Symbol,
		Side:        strings.ToUpper(leg.Side),
		Quantity:    leg.Quantity,
		OrderType:   models.OrderTypeMarket,
		ProductType: models.ProductIntraday,
		Status:      models.OrderStatusPending,
	}
	if err := e.Repo.InsertTrade(ctx, trade); err != nil {
		return legOutcome{}, err
	}

	resp, err := e.Gateway.PlaceOrder(ctx, broker.OrderRequest{
		Symbol:      leg.Symbol,
		Side:        strings.ToUpper(leg.Side),
		Quantity:    leg.Quantity,
		OrderType:   models.OrderTypeMarket,
		ProductType: models.ProductIntraday,
		ClientRef:   clientRef,
	})
	if err != nil {
		return legOutcome{}, err
	}
	metrics.OrdersSubmitted.WithLabelValues(resp.Status).Inc()

	now := time.Now().UTC()
	var executedAt *time.Time
	if resp.Status == models.OrderStatusExecuted {
		executedAt = &now
	}
	if err := e.Repo.UpdateTradeStatus(ctx, trade.ID, resp.OrderID, resp.Status, executedAt); err != nil {
		return legOutcome{}, err
	}

	if resp.Status == models.OrderStatusExecuted {
		// Entry price starts at zero; the monitor fills it from the first
		// quote after the order.
		pos := &models.Position{
			UserID:        userID,
			StrategyID:    &strat.ID,
			BrokerOrderID: resp.OrderID,
			Symbol:        leg.Symbol,
			OptionType:    leg.OptionType,
			Strike:        leg.Strike,
			Side:          strings.ToUpper(leg.Side),
			Quantity:      leg.Quantity,
			EntryPrice:    decimal.Zero,
			Status:        models.PositionStatusOpen,
			OpenedAt:      now,
		}
		if err := e.Repo.InsertPosition(ctx, pos); err != nil {
			return legOutcome{}, err
		}
	} else if e.Logger != nil {
		e.Logger.Info("executor: leg not executed, skipping position",
			zap.Uint64("user_id", userID),
			zap.String("symbol", leg.Symbol),
			zap.String("status", resp.Status))
	}

	return legOutcome{Leg: leg, OrderID: resp.OrderID, Status: resp.Status}, nil
}

func (e *StrategyExecutor) recordAndRaise(ctx context.Context, userID, strategyID uint64, op string, err error) error {
	metadata, _ := json.Marshal(map[string]any{"strategy_id": strategyID})
	e.audit(ctx, userID, models.LogTypeError,
		fmt.Sprintf("execution of strategy %d failed: %s: %v", strategyID, op, err), metadata)
	if e.Logger != nil {
		e.Logger.Error("executor: "+op,
			zap.Uint64("user_id", userID),
			zap.Uint64("strategy_id", strategyID),
			zap.Error(err))
	}
	return fmt.Errorf("executor: %s: %w", op, err)
}

func (e *StrategyExecutor) audit(ctx context.Context, userID uint64, logType, message string, metadata []byte) {
	entry := &models.SystemLog{
		UserID:  userID,
		LogType: logType,
		Message: message,
	}
	if len(metadata) > 0 {
		entry.Metadata = datatypes.JSON(metadata)
	}
	if err := e.Repo.InsertSystemLog(ctx, entry); err != nil && e.Logger != nil {
		e.Logger.Error("executor: write audit log", zap.Uint64("user_id", userID), zap.Error(err))
	}
}

func summarizeLegs(outcomes []legOutcome) string {
	parts := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		parts = append(parts, fmt.Sprintf("%s %d %s [%s]", o.Leg.Side, o.Leg.Quantity, o.Leg.Symbol, o.Status))
	}
	return strings.Join(parts, ", ")
}
