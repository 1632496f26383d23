package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Completer is the single operation delegated to the hosted model: one
// prompt, one strict output schema, one completion. Implementations do not
// retry or cache.
type Completer interface {
	Complete(ctx context.Context, prompt, schemaName string, schema map[string]any) (json.RawMessage, error)
}

// Service exposes the four advisory functions. Every call is read-only and
// fully delegated to the model; the only local logic is prompt assembly and
// JSON decoding.
type Service struct {
	Completer Completer
	Logger    *zap.Logger
}

type SuggestRequest struct {
	Instrument       string  `json:"instrument" binding:"required"`
	MarketView       string  `json:"market_view" binding:"required"`
	RiskAppetite     string  `json:"risk_appetite"`
	CapitalAvailable float64 `json:"capital_available"`
}

type SuggestedLeg struct {
	Action       string `json:"action"`
	OptionType   string `json:"option_type"`
	StrikeOffset int    `json:"strike_offset"`
	Quantity     int    `json:"quantity"`
}

type StrategySuggestion struct {
	Name         string         `json:"name"`
	StrategyType string         `json:"strategy_type"`
	Instrument   string         `json:"instrument"`
	Legs         []SuggestedLeg `json:"legs"`
	MaxProfit    float64        `json:"max_profit"`
	MaxLoss      float64        `json:"max_loss"`
	Rationale    string         `json:"rationale"`
}

func (s *Service) SuggestStrategy(ctx context.Context, req SuggestRequest) (*StrategySuggestion, error) {
	if s == nil || s.Completer == nil {
		return nil, errors.New("advisor: not configured")
	}
	prompt := fmt.Sprintf(
		"You are an Indian index-options strategist. Suggest one options strategy for %s. "+
			"Market view: %s. Risk appetite: %s. Capital available: %.0f INR. "+
			"Use realistic strikes expressed as offsets from ATM in points and lot-multiple quantities.",
		strings.ToUpper(req.Instrument), req.MarketView, orDefault(req.RiskAppetite, "MEDIUM"), req.CapitalAvailable)
	raw, err := s.Completer.Complete(ctx, prompt, "strategy_suggestion", suggestionSchema())
	if err != nil {
		return nil, fmt.Errorf("advisor: suggest strategy: %w", err)
	}
	var out StrategySuggestion
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("advisor: suggest strategy: %w", err)
	}
	return &out, nil
}

type BacktestRequest struct {
	StrategyType string  `json:"strategy_type" binding:"required"`
	Instrument   string  `json:"instrument" binding:"required"`
	EntryTime    string  `json:"entry_time"`
	ExitTime     string  `json:"exit_time"`
	TargetProfit float64 `json:"target_profit"`
	MaxLoss      float64 `json:"max_loss"`
	LookbackDays int     `json:"lookback_days"`
}

type BacktestReport struct {
	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"`
	TotalPnL      float64 `json:"total_pnl"`
	AveragePnL    float64 `json:"average_pnl"`
	MaxDrawdown   float64 `json:"max_drawdown"`
	Summary       string  `json:"summary"`
}

func (s *Service) RunBacktest(ctx context.Context, req BacktestRequest) (*BacktestReport, error) {
	if s == nil || s.Completer == nil {
		return nil, errors.New("advisor: not configured")
	}
	days := req.LookbackDays
	if days <= 0 {
		days = 30
	}
	prompt := fmt.Sprintf(
		"Estimate a hypothetical backtest of a %s strategy on %s over the last %d trading days. "+
			"Entry %s, exit %s, target profit %.0f INR, max loss %.0f INR per trade. "+
			"Report aggregate statistics, not per-day detail.",
		req.StrategyType, strings.ToUpper(req.Instrument), days,
		orDefault(req.EntryTime, "09:20"), orDefault(req.ExitTime, "15:15"),
		req.TargetProfit, req.MaxLoss)
	raw, err := s.Completer.Complete(ctx, prompt, "backtest_report", backtestSchema())
	if err != nil {
		return nil, fmt.Errorf("advisor: run backtest: %w", err)
	}
	var out BacktestReport
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("advisor: run backtest: %w", err)
	}
	return &out, nil
}

type TopPicksRequest struct {
	Instrument string `json:"instrument"`
	Count      int    `json:"count"`
}

type TopPick struct {
	Rank         int     `json:"rank"`
	Name         string  `json:"name"`
	StrategyType string  `json:"strategy_type"`
	Instrument   string  `json:"instrument"`
	Confidence   float64 `json:"confidence"`
	Rationale    string  `json:"rationale"`
}

type TopPicksResult struct {
	Picks []TopPick `json:"picks"`
}

func (s *Service) TopPicks(ctx context.Context, req TopPicksRequest) (*TopPicksResult, error) {
	if s == nil || s.Completer == nil {
		return nil, errors.New("advisor: not configured")
	}
	count := req.Count
	if count <= 0 || count > 10 {
		count = 5
	}
	scope := "Indian index options"
	if strings.TrimSpace(req.Instrument) != "" {
		scope = strings.ToUpper(req.Instrument) + " options"
	}
	prompt := fmt.Sprintf(
		"List the top %d intraday strategies for %s under current typical market conditions, "+
			"ranked by expected risk-adjusted return.", count, scope)
	raw, err := s.Completer.Complete(ctx, prompt, "top_picks", topPicksSchema())
	if err != nil {
		return nil, fmt.Errorf("advisor: top picks: %w", err)
	}
	var out TopPicksResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("advisor: top picks: %w", err)
	}
	return &out, nil
}

type FindRequest struct {
	ProfitTarget      float64 `json:"profit_target" binding:"required"`
	MaxAcceptableLoss float64 `json:"max_acceptable_loss" binding:"required"`
	Instrument        string  `json:"instrument"`
}

type FoundStrategy struct {
	Name           string  `json:"name"`
	StrategyType   string  `json:"strategy_type"`
	Instrument     string  `json:"instrument"`
	ExpectedProfit float64 `json:"expected_profit"`
	WorstCaseLoss  float64 `json:"worst_case_loss"`
	Rationale      string  `json:"rationale"`
}

type FindResult struct {
	Strategies []FoundStrategy `json:"strategies"`
}

func (s *Service) FindStrategies(ctx context.Context, req FindRequest) (*FindResult, error) {
	if s == nil || s.Completer == nil {
		return nil, errors.New("advisor: not configured")
	}
	scope := "NIFTY, BANKNIFTY, FINNIFTY or SENSEX"
	if strings.TrimSpace(req.Instrument) != "" {
		scope = strings.ToUpper(req.Instrument)
	}
	prompt := fmt.Sprintf(
		"Find intraday option strategies on %s with an expected profit near %.0f INR per trade "+
			"and a worst-case loss no larger than %.0f INR.",
		scope, req.ProfitTarget, req.MaxAcceptableLoss)
	raw, err := s.Completer.Complete(ctx, prompt, "found_strategies", findSchema())
	if err != nil {
		return nil, fmt.Errorf("advisor: find strategies: %w", err)
	}
	var out FindResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("advisor: find strategies: %w", err)
	}
	return &out, nil
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
