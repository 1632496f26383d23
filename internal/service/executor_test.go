package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/techkaran9/AlgoTrader-India/internal/models"
	"github.com/techkaran9/AlgoTrader-India/internal/risk"
)

func newTestExecutor(repo *stubRepo, gw *stubGateway) *StrategyExecutor {
	return &StrategyExecutor{
		Repo:    repo,
		Gateway: gw,
		Gate:    &risk.Gate{Repo: repo, Logger: zap.NewNop()},
		Logger:  zap.NewNop(),
	}
}

func seedStrategy(repo *stubRepo, userID uint64) *models.Strategy {
	strat := &models.Strategy{
		ID:           7,
		UserID:       userID,
		Name:         "short straddle",
		StrategyType: "STRADDLE",
		Instrument:   models.InstrumentNifty,
	}
	repo.strategies[strat.ID] = strat
	return strat
}

func allowTrading(repo *stubRepo, userID uint64) {
	repo.settings = &models.UserSettings{
		UserID:           userID,
		AutoTradeEnabled: true,
		MaxDailyLoss:     decimal.NewFromInt(100000),
		MaxOpenPositions: 20,
	}
}

func threeLegs() []Leg {
	return []Leg{
		{Symbol: "NIFTY25SEP24500CE", Side: "SELL", Quantity: 50},
		{Symbol: "NIFTY25SEP24500PE", Side: "SELL", Quantity: 50},
		{Symbol: "NIFTY25SEP25000CE", Side: "BUY", Quantity: 50},
	}
}

func TestExecutePartialFillAcceptsTwoOfThreeLegs(t *testing.T) {
	repo := newStubRepo()
	strat := seedStrategy(repo, 1)
	allowTrading(repo, 1)
	gw := &stubGateway{statuses: []string{"EXECUTED", "REJECTED", "EXECUTED"}}
	exec := newTestExecutor(repo, gw)

	err := exec.Execute(context.Background(), 1, strat.ID, threeLegs())
	if err != nil {
		t.Fatalf("partial fill should not raise: %v", err)
	}
	if len(gw.placed) != 3 {
		t.Fatalf("orders placed = %d, want 3", len(gw.placed))
	}
	if len(repo.positions) != 2 {
		t.Fatalf("positions = %d, want 2 (rejected leg skipped)", len(repo.positions))
	}
	if len(repo.trades) != 3 {
		t.Fatalf("trade rows = %d, want one per attempt", len(repo.trades))
	}

	tradeLogs := repo.logsOfType(models.LogTypeTrade)
	if len(tradeLogs) != 1 {
		t.Fatalf("TRADE logs = %d, want exactly 1", len(tradeLogs))
	}
	msg := tradeLogs[0].Message
	for _, sym := range []string{"NIFTY25SEP24500CE", "NIFTY25SEP24500PE", "NIFTY25SEP25000CE"} {
		if !strings.Contains(msg, sym) {
			t.Fatalf("TRADE log %q should list leg %s", msg, sym)
		}
	}
}

func TestExecuteCreatesPositionWithZeroEntryPrice(t *testing.T) {
	repo := newStubRepo()
	strat := seedStrategy(repo, 1)
	allowTrading(repo, 1)
	gw := &stubGateway{}
	exec := newTestExecutor(repo, gw)

	err := exec.Execute(context.Background(), 1, strat.ID, threeLegs()[:1])
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(repo.positions) != 1 {
		t.Fatalf("positions = %d, want 1", len(repo.positions))
	}
	for _, pos := range repo.positions {
		if !pos.EntryPrice.IsZero() {
			t.Fatalf("entry price = %s, want zero until the first monitor tick", pos.EntryPrice)
		}
		if pos.Status != models.PositionStatusOpen {
			t.Fatalf("status = %q, want OPEN", pos.Status)
		}
		if pos.StrategyID == nil || *pos.StrategyID != strat.ID {
			t.Fatalf("position should reference strategy %d", strat.ID)
		}
	}
}

func TestExecuteRiskDenialRaisesAndAudits(t *testing.T) {
	repo := newStubRepo()
	strat := seedStrategy(repo, 1)
	// No settings row: the gate denies everything.
	gw := &stubGateway{}
	exec := newTestExecutor(repo, gw)

	err := exec.Execute(context.Background(), 1, strat.ID, threeLegs())
	if !errors.Is(err, ErrRiskDenied) {
		t.Fatalf("err = %v, want ErrRiskDenied", err)
	}
	if len(gw.placed) != 0 {
		t.Fatalf("no orders should be placed after a denial, got %d", len(gw.placed))
	}
	errLogs := repo.logsOfType(models.LogTypeError)
	if len(errLogs) != 1 {
		t.Fatalf("denial should write one ERROR log, got %d", len(errLogs))
	}
	if !strings.Contains(errLogs[0].Message, "strategy 7") {
		t.Fatalf("denial log %q should name the strategy id", errLogs[0].Message)
	}
}

func TestExecuteGatewayFailureRecordedThenRaised(t *testing.T) {
	repo := newStubRepo()
	strat := seedStrategy(repo, 1)
	allowTrading(repo, 1)
	gw := &stubGateway{placeErr: errors.New("connection reset")}
	exec := newTestExecutor(repo, gw)

	err := exec.Execute(context.Background(), 1, strat.ID, threeLegs()[:1])
	if err == nil {
		t.Fatalf("gateway failure must propagate")
	}
	errLogs := repo.logsOfType(models.LogTypeError)
	if len(errLogs) != 1 {
		t.Fatalf("gateway failure should be audit-logged before raising")
	}
	msg := errLogs[0].Message
	if !strings.Contains(msg, "strategy 7") {
		t.Fatalf("failure log %q should name the strategy id", msg)
	}
	if !strings.Contains(msg, "connection reset") {
		t.Fatalf("failure log %q should carry the failure message", msg)
	}
	if len(repo.positions) != 0 {
		t.Fatalf("no position should exist for a failed order")
	}
}

func TestExecuteUnknownStrategy(t *testing.T) {
	repo := newStubRepo()
	allowTrading(repo, 1)
	exec := newTestExecutor(repo, &stubGateway{})

	if err := exec.Execute(context.Background(), 1, 99, threeLegs()); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}
}
