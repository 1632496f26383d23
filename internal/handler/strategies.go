package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/techkaran9/AlgoTrader-India/internal/models"
	"github.com/techkaran9/AlgoTrader-India/internal/repository"
	"github.com/techkaran9/AlgoTrader-India/internal/service"
)

type StrategyHandler struct {
	Repo     repository.Repository
	Executor *service.StrategyExecutor
}

func (h *StrategyHandler) Register(r *gin.Engine) {
	g := r.Group("/api/v1/strategies")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.POST("/:id/activate", h.activate)
	g.POST("/:id/deactivate", h.deactivate)
	g.POST("/:id/execute", h.execute)
}

type strategyRequest struct {
	Name         string           `json:"name" binding:"required"`
	StrategyType string           `json:"strategy_type" binding:"required"`
	Instrument   string           `json:"instrument" binding:"required"`
	EntryTime    string           `json:"entry_time"`
	ExitTime     string           `json:"exit_time"`
	TargetProfit *decimal.Decimal `json:"target_profit"`
	MaxLoss      *decimal.Decimal `json:"max_loss"`
}

func (h *StrategyHandler) list(c *gin.Context) {
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
		"name":       "name",
		"created_at": "created_at",
		"updated_at": "updated_at",
	})
	asc := strings.EqualFold(strings.TrimSpace(c.Query("order")), "asc")

	params := repository.ListStrategiesParams{
		UserID:     &uid,
		Instrument: strQueryPtr(c, "instrument"),
		Limit:      limit,
		Offset:     offset,
		OrderBy:    orderBy,
		Asc:        boolPtr(asc),
	}
	if val := strings.TrimSpace(c.Query("active")); val != "" {
		params.Active = boolPtr(val == "true" || val == "1")
	}

	items, err := h.Repo.ListStrategies(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountStrategies(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

func (h *StrategyHandler) create(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	uid := userID(c)
	if uid == 0 {
		Error(c, http.StatusBadRequest, "missing X-User-ID", nil)
		return
	}
	var req strategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	instrument := strings.ToUpper(strings.TrimSpace(req.Instrument))
	if !models.ValidInstrument(instrument) {
		Error(c, http.StatusBadRequest, "unknown instrument", nil)
		return
	}
	item := &models.Strategy{
		UserID:       uid,
		Name:         strings.TrimSpace(req.Name),
		StrategyType: strings.TrimSpace(req.StrategyType),
		Instrument:   instrument,
		EntryTime:    req.EntryTime,
		ExitTime:     req.ExitTime,
		TargetProfit: req.TargetProfit,
		MaxLoss:      req.MaxLoss,
	}
	if err := h.Repo.InsertStrategy(c.Request.Context(), item); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, item, nil)
}

func (h *StrategyHandler) ownStrategy(c *gin.Context) *models.Strategy {
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
	item, err := h.Repo.GetStrategyByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return nil
	}
	if item == nil || item.UserID != uid {
		Error(c, http.StatusNotFound, "strategy not found", nil)
		return nil
	}
	return item
}

func (h *StrategyHandler) get(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	item := h.ownStrategy(c)
	if item == nil {
		return
	}
	Ok(c, item, nil)
}

func (h *StrategyHandler) update(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	item := h.ownStrategy(c)
	if item == nil {
		return
	}
	var req strategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	instrument := strings.ToUpper(strings.TrimSpace(req.Instrument))
	if !models.ValidInstrument(instrument) {
		Error(c, http.StatusBadRequest, "unknown instrument", nil)
		return
	}
	item.Name = strings.TrimSpace(req.Name)
	item.StrategyType = strings.TrimSpace(req.StrategyType)
	item.Instrument = instrument
	item.EntryTime = req.EntryTime
	item.ExitTime = req.ExitTime
	item.TargetProfit = req.TargetProfit
	item.MaxLoss = req.MaxLoss
	if err := h.Repo.UpdateStrategy(c.Request.Context(), item); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, item, nil)
}

func (h *StrategyHandler) activate(c *gin.Context) {
	h.setActive(c, true)
}

func (h *StrategyHandler) deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *StrategyHandler) setActive(c *gin.Context, active bool) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	item := h.ownStrategy(c)
	if item == nil {
		return
	}
	if err := h.Repo.SetStrategyActive(c.Request.Context(), item.ID, active); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	item.Active = active
	Ok(c, item, nil)
}

type executeRequest struct {
	Legs []service.Leg `json:"legs" binding:"required,min=1,dive"`
}

func (h *StrategyHandler) execute(c *gin.Context) {
	if h.Executor == nil {
		Error(c, http.StatusInternalServerError, "executor unavailable", nil)
		return
	}
	item := h.ownStrategy(c)
	if item == nil {
		return
	}
	var req executeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	err := h.Executor.Execute(c.Request.Context(), item.UserID, item.ID, req.Legs)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, service.ErrRiskDenied) {
			status = http.StatusForbidden
		}
		Error(c, status, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"strategy_id": item.ID, "legs": len(req.Legs)}, nil)
}
