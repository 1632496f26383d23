package advisor

// Output schemas for the model's structured responses. These are boundary
// contracts: the model fills them, the service only JSON-decodes them.

func suggestionSchema() map[string]any {
	return objectSchema(map[string]any{
		"name":          map[string]any{"type": "string"},
		"strategy_type": map[string]any{"type": "string"},
		"instrument":    map[string]any{"type": "string"},
		"legs": map[string]any{
			"type": "array",
			"items": objectSchema(map[string]any{
				"action":        map[string]any{"type": "string", "enum": []string{"BUY", "SELL"}},
				"option_type":   map[string]any{"type": "string", "enum": []string{"CE", "PE"}},
				"strike_offset": map[string]any{"type": "integer"},
				"quantity":      map[string]any{"type": "integer"},
			}, "action", "option_type", "strike_offset", "quantity"),
		},
		"max_profit": map[string]any{"type": "number"},
		"max_loss":   map[string]any{"type": "number"},
		"rationale":  map[string]any{"type": "string"},
	}, "name", "strategy_type", "instrument", "legs", "max_profit", "max_loss", "rationale")
}

func backtestSchema() map[string]any {
	return objectSchema(map[string]any{
		"total_trades":   map[string]any{"type": "integer"},
		"winning_trades": map[string]any{"type": "integer"},
		"losing_trades":  map[string]any{"type": "integer"},
		"win_rate":       map[string]any{"type": "number"},
		"total_pnl":      map[string]any{"type": "number"},
		"average_pnl":    map[string]any{"type": "number"},
		"max_drawdown":   map[string]any{"type": "number"},
		"summary":        map[string]any{"type": "string"},
	}, "total_trades", "winning_trades", "losing_trades", "win_rate", "total_pnl", "average_pnl", "max_drawdown", "summary")
}

func topPicksSchema() map[string]any {
	return objectSchema(map[string]any{
		"picks": map[string]any{
			"type": "array",
			"items": objectSchema(map[string]any{
				"rank":          map[string]any{"type": "integer"},
				"name":          map[string]any{"type": "string"},
				"strategy_type": map[string]any{"type": "string"},
				"instrument":    map[string]any{"type": "string"},
				"confidence":    map[string]any{"type": "number"},
				"rationale":     map[string]any{"type": "string"},
			}, "rank", "name", "strategy_type", "instrument", "confidence", "rationale"),
		},
	}, "picks")
}

func findSchema() map[string]any {
	return objectSchema(map[string]any{
		"strategies": map[string]any{
			"type": "array",
			"items": objectSchema(map[string]any{
				"name":            map[string]any{"type": "string"},
				"strategy_type":   map[string]any{"type": "string"},
				"instrument":      map[string]any{"type": "string"},
				"expected_profit": map[string]any{"type": "number"},
				"worst_case_loss": map[string]any{"type": "number"},
				"rationale":       map[string]any{"type": "string"},
			}, "name", "strategy_type", "instrument", "expected_profit", "worst_case_loss", "rationale"),
		},
	}, "strategies")
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}
