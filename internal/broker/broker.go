package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a last-traded-price snapshot for one tradable symbol.
type Quote struct {
	Symbol       string          `json:"symbol"`
	LastPrice    decimal.Decimal `json:"last_price"`
	BidPrice     decimal.Decimal `json:"bid_price"`
	AskPrice     decimal.Decimal `json:"ask_price"`
	Volume       int64           `json:"volume"`
	OpenInterest int64           `json:"open_interest"`
	FetchedAt    time.Time       `json:"fetched_at"`
}

// OrderRequest describes one order leg to submit.
type OrderRequest struct {
	Symbol      string `json:"symbol"`
	Side        string `json:"side"`
	Quantity    int    `json:"quantity"`
	OrderType   string `json:"order_type"`
	ProductType string `json:"product_type"`
	ClientRef   string `json:"client_ref"`
}

// OrderResponse is the broker's acknowledgement of a submitted order.
type OrderResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// Gateway is everything the rest of the system needs from the brokerage.
// Implementations must not retry: callers decide whether a failure is
// swallowed (monitor) or raised (executor).
type Gateway interface {
	GetQuote(ctx context.Context, symbol string) (*Quote, error)
	PlaceOrder(ctx context.Context, req OrderRequest) (*OrderResponse, error)
	ExitPosition(ctx context.Context, positionID uint64) (*OrderResponse, error)
}

// APIError is a non-2xx response from the brokerage API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if e == nil {
		return "broker: api error"
	}
	return fmt.Sprintf("broker: status %d: %s", e.Status, e.Body)
}
