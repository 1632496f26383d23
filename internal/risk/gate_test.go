package risk

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/techkaran9/AlgoTrader-India/internal/models"
)

func enabledSettings(maxOpen int, maxDailyLoss int64) *models.UserSettings {
	return &models.UserSettings{
		UserID:           1,
		AutoTradeEnabled: true,
		MaxOpenPositions: maxOpen,
		MaxDailyLoss:     decimal.NewFromInt(maxDailyLoss),
	}
}

func TestCanTradeDeniesWithoutSettings(t *testing.T) {
	repo := &stubRepo{}
	gate := &Gate{Repo: repo, Logger: zap.NewNop()}

	allowed, reason := gate.CanTrade(context.Background(), 1)
	if allowed {
		t.Fatalf("expected deny without settings")
	}
	if reason != DenyReasonNotConfigured {
		t.Fatalf("reason = %q, want %q", reason, DenyReasonNotConfigured)
	}
}

func TestCanTradeDeniesWhenDisabled(t *testing.T) {
	repo := &stubRepo{settings: &models.UserSettings{UserID: 1, AutoTradeEnabled: false}}
	gate := &Gate{Repo: repo, Logger: zap.NewNop()}

	allowed, reason := gate.CanTrade(context.Background(), 1)
	if allowed || reason != DenyReasonNotConfigured {
		t.Fatalf("got (%v, %q), want deny with %q", allowed, reason, DenyReasonNotConfigured)
	}
}

func TestCanTradeFailsClosedOnSettingsError(t *testing.T) {
	repo := &stubRepo{settingsErr: errors.New("connection refused")}
	gate := &Gate{Repo: repo, Logger: zap.NewNop()}

	allowed, reason := gate.CanTrade(context.Background(), 1)
	if allowed || reason != DenyReasonCheckFailed {
		t.Fatalf("got (%v, %q), want deny with %q", allowed, reason, DenyReasonCheckFailed)
	}
}

func TestCanTradeFailsClosedOnCountError(t *testing.T) {
	repo := &stubRepo{
		settings:     enabledSettings(5, 10000),
		openCountErr: errors.New("timeout"),
	}
	gate := &Gate{Repo: repo, Logger: zap.NewNop()}

	allowed, reason := gate.CanTrade(context.Background(), 1)
	if allowed || reason != DenyReasonCheckFailed {
		t.Fatalf("got (%v, %q), want deny with %q", allowed, reason, DenyReasonCheckFailed)
	}
}

func TestCanTradeDeniesAtMaxOpenPositions(t *testing.T) {
	repo := &stubRepo{
		settings:  enabledSettings(3, 10000),
		openCount: 3,
	}
	gate := &Gate{Repo: repo, Logger: zap.NewNop()}

	allowed, reason := gate.CanTrade(context.Background(), 1)
	if allowed || reason != DenyReasonMaxPositions {
		t.Fatalf("got (%v, %q), want deny with %q", allowed, reason, DenyReasonMaxPositions)
	}
}

func TestCanTradeDailyLossDenialWritesOneWarning(t *testing.T) {
	repo := &stubRepo{
		settings: enabledSettings(10, 10000),
		todayPnL: decimal.NewFromInt(-12000),
	}
	gate := &Gate{Repo: repo, Logger: zap.NewNop()}

	allowed, reason := gate.CanTrade(context.Background(), 1)
	if allowed || reason != DenyReasonDailyLoss {
		t.Fatalf("got (%v, %q), want deny with %q", allowed, reason, DenyReasonDailyLoss)
	}
	if len(repo.logs) != 1 {
		t.Fatalf("system logs = %d, want 1", len(repo.logs))
	}
	entry := repo.logs[0]
	if entry.LogType != models.LogTypeWarning {
		t.Fatalf("log type = %q, want WARNING", entry.LogType)
	}
	if !strings.Contains(entry.Message, "12000") {
		t.Fatalf("warning message %q should contain the loss magnitude", entry.Message)
	}
}

func TestCanTradeAllowsAtExactLossLimit(t *testing.T) {
	repo := &stubRepo{
		settings: enabledSettings(10, 10000),
		todayPnL: decimal.NewFromInt(-10000),
	}
	gate := &Gate{Repo: repo, Logger: zap.NewNop()}

	allowed, reason := gate.CanTrade(context.Background(), 1)
	if !allowed {
		t.Fatalf("loss equal to the limit should still allow, got deny with %q", reason)
	}
	if len(repo.logs) != 0 {
		t.Fatalf("no warning expected at the exact limit, got %d logs", len(repo.logs))
	}
}

func TestCanTradeDailyWindowStartsAtLocalMidnight(t *testing.T) {
	// Exchange-local midnight in India is 05:30 UTC of the previous clock
	// day, so an early-morning IST loss must land in today's window.
	ist := time.FixedZone("IST", 5*3600+30*60)
	repo := &stubRepo{
		settings: enabledSettings(10, 10000),
		todayPnL: decimal.NewFromInt(-500),
	}
	gate := &Gate{Repo: repo, Logger: zap.NewNop(), Loc: ist}

	gate.CanTrade(context.Background(), 1)

	since := repo.pnlSince
	if since.IsZero() {
		t.Fatalf("daily pnl was never queried")
	}
	if got := since.Location().String(); got != ist.String() {
		t.Fatalf("window location = %q, want %q", got, ist.String())
	}
	h, m, s := since.Clock()
	if h != 0 || m != 0 || s != 0 {
		t.Fatalf("window start = %02d:%02d:%02d local, want midnight", h, m, s)
	}
	if elapsed := time.Now().In(ist).Sub(since); elapsed < 0 || elapsed >= 24*time.Hour {
		t.Fatalf("window start %v is not within the current local day", since)
	}
}

func TestCanTradeZeroMaxOpenPositionsMeansNoLimit(t *testing.T) {
	repo := &stubRepo{
		settings:  enabledSettings(0, 10000),
		openCount: 25,
	}
	gate := &Gate{Repo: repo, Logger: zap.NewNop()}

	allowed, reason := gate.CanTrade(context.Background(), 1)
	if !allowed {
		t.Fatalf("zero max open positions should not cap, got deny with %q", reason)
	}
}

func TestCanTradeZeroDailyLossMeansNoLimit(t *testing.T) {
	repo := &stubRepo{
		settings: enabledSettings(10, 0),
		todayPnL: decimal.NewFromInt(-50000),
	}
	gate := &Gate{Repo: repo, Logger: zap.NewNop()}

	allowed, reason := gate.CanTrade(context.Background(), 1)
	if !allowed {
		t.Fatalf("zero daily loss limit should not block, got deny with %q", reason)
	}
	if len(repo.logs) != 0 {
		t.Fatalf("no warning expected when no limit is set, got %d logs", len(repo.logs))
	}
}

func TestCanTradeAllowsWithinLimits(t *testing.T) {
	repo := &stubRepo{
		settings:  enabledSettings(5, 10000),
		openCount: 2,
		todayPnL:  decimal.NewFromInt(1500),
	}
	gate := &Gate{Repo: repo, Logger: zap.NewNop()}

	allowed, reason := gate.CanTrade(context.Background(), 1)
	if !allowed || reason != "" {
		t.Fatalf("got (%v, %q), want allow", allowed, reason)
	}
}
