package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/techkaran9/AlgoTrader-India/internal/broker"
)

// stubGateway records calls and replays canned responses.
type stubGateway struct {
	quotes   map[string]decimal.Decimal
	quoteErr error

	// statuses is consumed in order, one per PlaceOrder call; when exhausted
	// every order reports EXECUTED.
	statuses []string
	placeErr error
	placed   []broker.OrderRequest

	exited  []uint64
	exitErr error

	quoteCalls int
}

func (g *stubGateway) GetQuote(ctx context.Context, symbol string) (*broker.Quote, error) {
	g.quoteCalls++
	if g.quoteErr != nil {
		return nil, g.quoteErr
	}
	price, ok := g.quotes[symbol]
	if !ok {
		return nil, errors.New("no quote for " + symbol)
	}
	return &broker.Quote{Symbol: symbol, LastPrice: price, FetchedAt: time.Now().UTC()}, nil
}

func (g *stubGateway) PlaceOrder(ctx context.Context, req broker.OrderRequest) (*broker.OrderResponse, error) {
	if g.placeErr != nil {
		return nil, g.placeErr
	}
	status := "EXECUTED"
	if len(g.placed) < len(g.statuses) {
		status = g.statuses[len(g.placed)]
	}
	g.placed = append(g.placed, req)
	return &broker.OrderResponse{OrderID: "ord-" + req.Symbol, Status: status}, nil
}

func (g *stubGateway) ExitPosition(ctx context.Context, positionID uint64) (*broker.OrderResponse, error) {
	if g.exitErr != nil {
		return nil, g.exitErr
	}
	g.exited = append(g.exited, positionID)
	return &broker.OrderResponse{OrderID: "exit", Status: "EXECUTED"}, nil
}
