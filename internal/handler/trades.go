package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/techkaran9/AlgoTrader-India/internal/repository"
)

type TradeHandler struct {
	Repo repository.Repository
}

func (h *TradeHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/trades", h.list)
}

func (h *TradeHandler) list(c *gin.Context) {
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
	asc := strings.EqualFold(strings.TrimSpace(c.Query("order")), "asc")

	params := repository.ListTradesParams{
		UserID:     &uid,
		PositionID: uint64QueryPtr(c, "position_id"),
		Status:     strQueryPtr(c, "status"),
		Limit:      limit,
		Offset:     offset,
		Asc:        boolPtr(asc),
	}
	items, err := h.Repo.ListTrades(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountTrades(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}
