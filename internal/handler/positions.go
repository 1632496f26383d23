package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/techkaran9/AlgoTrader-India/internal/broker"
	"github.com/techkaran9/AlgoTrader-India/internal/metrics"
	"github.com/techkaran9/AlgoTrader-India/internal/models"
	"github.com/techkaran9/AlgoTrader-India/internal/repository"
)

type PositionHandler struct {
	Repo    repository.Repository
	Gateway broker.Gateway
}

func (h *PositionHandler) Register(r *gin.Engine) {
	g := r.Group("/api/v1/positions")
	g.GET("", h.list)
	g.GET("/summary", h.summary)
	g.GET("/:id", h.get)
	g.POST("/:id/exit", h.exit)
}

func (h *PositionHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	uid := userID(c)
	if uid == 0 {
		Error(c, http.StatusBadRequest, "missing X-User-ID", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	orderBy := parseOrder(c.Query("order_by"), map[string]string{
		"opened_at":  "opened_at",
		"created_at": "created_at",
		"pnl":        "pnl",
	})
	asc := strings.EqualFold(strings.TrimSpace(c.Query("order")), "asc")

	params := repository.ListPositionsParams{
		UserID:     &uid,
		Status:     strQueryPtr(c, "status"),
		StrategyID: uint64QueryPtr(c, "strategy_id"),
		Symbol:     strQueryPtr(c, "symbol"),
		Limit:      limit,
		Offset:     offset,
		OrderBy:    orderBy,
		Asc:        boolPtr(asc),
	}
	items, err := h.Repo.ListPositions(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountPositions(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

func (h *PositionHandler) summary(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	uid := userID(c)
	if uid == 0 {
		Error(c, http.StatusBadRequest, "missing X-User-ID", nil)
		return
	}
	out, err := h.Repo.PositionsSummary(c.Request.Context(), uid)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, out, nil)
}

func (h *PositionHandler) ownPosition(c *gin.Context) *models.Position {
	uid := userID(c)
	if uid == 0 {
		Error(c, http.StatusBadRequest, "missing X-User-ID", nil)
		return nil
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return nil
	}
	item, err := h.Repo.GetPositionByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return nil
	}
	if item == nil || item.UserID != uid {
		Error(c, http.StatusNotFound, "position not found", nil)
		return nil
	}
	return item
}

func (h *PositionHandler) get(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	item := h.ownPosition(c)
	if item == nil {
		return
	}
	Ok(c, item, nil)
}

// exit flattens one open position on demand. P&L is settled from the last
// price the monitor observed.
func (h *PositionHandler) exit(c *gin.Context) {
	if h.Repo == nil || h.Gateway == nil {
		Error(c, http.StatusInternalServerError, "gateway unavailable", nil)
		return
	}
	item := h.ownPosition(c)
	if item == nil {
		return
	}
	if item.Status != models.PositionStatusOpen {
		Error(c, http.StatusConflict, "position is not open", nil)
		return
	}
	resp, err := h.Gateway.ExitPosition(c.Request.Context(), item.ID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if err := h.Repo.ClosePosition(c.Request.Context(), item.ID, item.CurrentPrice, item.PnL, time.Now().UTC()); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	metrics.PositionsClosed.WithLabelValues("manual").Inc()
	Ok(c, gin.H{"position_id": item.ID, "order_id": resp.OrderID, "status": resp.Status}, nil)
}
