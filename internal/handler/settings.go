package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/techkaran9/AlgoTrader-India/internal/models"
	"github.com/techkaran9/AlgoTrader-India/internal/repository"
)

type SettingsHandler struct {
	Repo repository.Repository
}

func (h *SettingsHandler) Register(r *gin.Engine) {
	g := r.Group("/api/v1/settings")
	g.GET("", h.get)
	g.PUT("", h.put)
}

func (h *SettingsHandler) get(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	uid := userID(c)
	if uid == 0 {
		Error(c, http.StatusBadRequest, "missing X-User-ID", nil)
		return
	}
	item, err := h.Repo.GetUserSettings(c.Request.Context(), uid)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		// No row yet: auto trading is off until the user saves settings.
		item = &models.UserSettings{UserID: uid}
	}
	Ok(c, item, nil)
}

type settingsRequest struct {
	AutoTradeEnabled bool            `json:"auto_trade_enabled"`
	MaxDailyLoss     decimal.Decimal `json:"max_daily_loss"`
	MaxPositionSize  decimal.Decimal `json:"max_position_size"`
	MaxOpenPositions int             `json:"max_open_positions"`
}

func (h *SettingsHandler) put(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	uid := userID(c)
	if uid == 0 {
		Error(c, http.StatusBadRequest, "missing X-User-ID", nil)
		return
	}
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if req.MaxDailyLoss.IsNegative() || req.MaxPositionSize.IsNegative() || req.MaxOpenPositions < 0 {
		Error(c, http.StatusBadRequest, "limits must not be negative", nil)
		return
	}
	item := &models.UserSettings{
		UserID:           uid,
		AutoTradeEnabled: req.AutoTradeEnabled,
		MaxDailyLoss:     req.MaxDailyLoss,
		MaxPositionSize:  req.MaxPositionSize,
		MaxOpenPositions: req.MaxOpenPositions,
	}
	if err := h.Repo.UpsertUserSettings(c.Request.Context(), item); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, item, nil)
}
