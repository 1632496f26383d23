package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/techkaran9/AlgoTrader-India/internal/config"
	"github.com/techkaran9/AlgoTrader-India/internal/models"
	"github.com/techkaran9/AlgoTrader-India/internal/repository"
)

var ErrNotAuthenticated = errors.New("broker: not authenticated")

// Client talks to the brokerage REST API. It keeps a repository handle so
// ExitPosition can resolve the stored side and quantity of the position it
// is flattening.
type Client struct {
	http   *resty.Client
	repo   repository.Repository
	logger *zap.Logger

	clientID    string
	accessToken string
}

func NewClient(cfg config.BrokerConfig, repo repository.Repository, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:        httpClient,
		repo:        repo,
		logger:      logger,
		clientID:    cfg.ClientID,
		accessToken: cfg.AccessToken,
	}
}

func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	if c == nil || c.http == nil {
		return nil, errors.New("broker: client not configured")
	}
	if strings.TrimSpace(c.accessToken) == "" {
		return nil, ErrNotAuthenticated
	}
	return c.http.R().
		SetContext(ctx).
		SetHeader("access-token", c.accessToken).
		SetHeader("client-id", c.clientID), nil
}

type quotePayload struct {
	Symbol       string  `json:"symbol"`
	LastPrice    float64 `json:"last_price"`
	BidPrice     float64 `json:"bid_price"`
	AskPrice     float64 `json:"ask_price"`
	Volume       int64   `json:"volume"`
	OpenInterest int64   `json:"open_interest"`
}

func (c *Client) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, errors.New("broker: empty symbol")
	}
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := req.Get("/v2/marketfeed/quote/" + symbol)
	if err != nil {
		return nil, fmt.Errorf("broker: get quote %s: %w", symbol, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &APIError{Status: resp.StatusCode(), Body: string(resp.Body())}
	}
	var payload quotePayload
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("broker: decode quote %s: %w", symbol, err)
	}
	return &Quote{
		Symbol:       symbol,
		LastPrice:    decimal.NewFromFloat(payload.LastPrice),
		BidPrice:     decimal.NewFromFloat(payload.BidPrice),
		AskPrice:     decimal.NewFromFloat(payload.AskPrice),
		Volume:       payload.Volume,
		OpenInterest: payload.OpenInterest,
		FetchedAt:    time.Now().UTC(),
	}, nil
}

type orderPayload struct {
	OrderID string `json:"orderId"`
	Status  string `json:"orderStatus"`
}

func (c *Client) PlaceOrder(ctx context.Context, orderReq OrderRequest) (*OrderResponse, error) {
	if strings.TrimSpace(orderReq.Symbol) == "" || orderReq.Quantity <= 0 {
		return nil, errors.New("broker: invalid order request")
	}
	if orderReq.OrderType == "" {
		orderReq.OrderType = models.OrderTypeMarket
	}
	if orderReq.ProductType == "" {
		orderReq.ProductType = models.ProductIntraday
	}
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := req.SetBody(orderReq).Post("/v2/orders")
	if err != nil {
		return nil, fmt.Errorf("broker: place order %s: %w", orderReq.Symbol, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &APIError{Status: resp.StatusCode(), Body: string(resp.Body())}
	}
	var payload orderPayload
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("broker: decode order response: %w", err)
	}
	return &OrderResponse{
		OrderID: payload.OrderID,
		Status:  strings.ToUpper(strings.TrimSpace(payload.Status)),
	}, nil
}

// ExitPosition flattens an open position by submitting a market order on the
// opposite side for the stored quantity.
func (c *Client) ExitPosition(ctx context.Context, positionID uint64) (*OrderResponse, error) {
	if c == nil || c.repo == nil {
		return nil, errors.New("broker: client not configured")
	}
	pos, err := c.repo.GetPositionByID(ctx, positionID)
	if err != nil {
		return nil, fmt.Errorf("broker: load position %d: %w", positionID, err)
	}
	if pos == nil {
		return nil, fmt.Errorf("broker: position %d not found", positionID)
	}
	side := models.SideSell
	if pos.Side == models.SideSell {
		side = models.SideBuy
	}
	resp, err := c.PlaceOrder(ctx, OrderRequest{
		Symbol:      pos.Symbol,
		Side:        side,
		Quantity:    pos.Quantity,
		OrderType:   models.OrderTypeMarket,
		ProductType: models.ProductIntraday,
	})
	if err != nil {
		return nil, err
	}
	c.logger.Info("exit order submitted",
		zap.Uint64("position_id", positionID),
		zap.String("symbol", pos.Symbol),
		zap.String("side", side),
		zap.Int("quantity", pos.Quantity),
		zap.String("order_id", resp.OrderID))
	return resp, nil
}
