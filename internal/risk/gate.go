package risk

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/techkaran9/AlgoTrader-India/internal/metrics"
	"github.com/techkaran9/AlgoTrader-India/internal/models"
	"github.com/techkaran9/AlgoTrader-India/internal/repository"
)

const (
	DenyReasonNotConfigured = "auto trading not enabled"
	DenyReasonMaxPositions  = "max open positions reached"
	DenyReasonDailyLoss     = "max daily loss breached"
	DenyReasonCheckFailed   = "risk check failed"
)

// Gate decides whether a user may open new positions right now. It never
// returns an error: any failure to evaluate the limits denies the trade.
// Loc is the exchange-local timezone used to bound "today"; nil falls back
// to the process-local zone.
type Gate struct {
	Repo   repository.Repository
	Logger *zap.Logger
	Loc    *time.Location
}

// dayStart is local midnight of the current calendar day.
func (g *Gate) dayStart() time.Time {
	loc := g.Loc
	if loc == nil {
		loc = time.Local
	}
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
}

// CanTrade returns false with a descriptive reason when any risk limit
// blocks the trade, true otherwise.
func (g *Gate) CanTrade(ctx context.Context, userID uint64) (bool, string) {
	if g == nil || g.Repo == nil {
		metrics.RiskDenials.WithLabelValues("check_failed").Inc()
		return false, DenyReasonCheckFailed
	}

	settings, err := g.Repo.GetUserSettings(ctx, userID)
	if err != nil {
		g.logError("risk: load settings", userID, err)
		metrics.RiskDenials.WithLabelValues("check_failed").Inc()
		return false, DenyReasonCheckFailed
	}
	if settings == nil || !settings.AutoTradeEnabled {
		metrics.RiskDenials.WithLabelValues("disabled").Inc()
		return false, DenyReasonNotConfigured
	}

	openCount, err := g.Repo.CountOpenPositions(ctx, userID)
	if err != nil {
		g.logError("risk: count open positions", userID, err)
		metrics.RiskDenials.WithLabelValues("check_failed").Inc()
		return false, DenyReasonCheckFailed
	}
	if settings.MaxOpenPositions > 0 && openCount >= int64(settings.MaxOpenPositions) {
		metrics.RiskDenials.WithLabelValues("max_positions").Inc()
		return false, DenyReasonMaxPositions
	}

	todayPnL, err := g.Repo.SumPositionPnLSince(ctx, userID, g.dayStart())
	if err != nil {
		g.logError("risk: sum daily pnl", userID, err)
		metrics.RiskDenials.WithLabelValues("check_failed").Inc()
		return false, DenyReasonCheckFailed
	}
	if settings.MaxDailyLoss.IsPositive() && todayPnL.IsNegative() {
		loss := todayPnL.Abs()
		if loss.GreaterThan(settings.MaxDailyLoss) {
			g.warnDailyLoss(ctx, userID, loss, settings.MaxDailyLoss)
			metrics.RiskDenials.WithLabelValues("daily_loss").Inc()
			return false, DenyReasonDailyLoss
		}
	}

	return true, ""
}

func (g *Gate) warnDailyLoss(ctx context.Context, userID uint64, loss, limit decimal.Decimal) {
	msg := fmt.Sprintf("daily loss %s exceeds limit %s, trading blocked", loss.StringFixed(0), limit.StringFixed(0))
	if g.Logger != nil {
		g.Logger.Warn("risk: daily loss limit breached",
			zap.Uint64("user_id", userID),
			zap.String("loss", loss.StringFixed(2)),
			zap.String("limit", limit.StringFixed(2)))
	}
	metadata, _ := json.Marshal(map[string]string{
		"loss":  loss.StringFixed(2),
		"limit": limit.StringFixed(2),
	})
	err := g.Repo.InsertSystemLog(ctx, &models.SystemLog{
		UserID:   userID,
		LogType:  models.LogTypeWarning,
		Message:  msg,
		Metadata: datatypes.JSON(metadata),
	})
	if err != nil && g.Logger != nil {
		g.Logger.Error("risk: write warning log", zap.Uint64("user_id", userID), zap.Error(err))
	}
}

func (g *Gate) logError(msg string, userID uint64, err error) {
	if g.Logger != nil {
		g.Logger.Error(msg, zap.Uint64("user_id", userID), zap.Error(err))
	}
}
