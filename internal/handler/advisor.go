package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/techkaran9/AlgoTrader-India/internal/advisor"
	"github.com/techkaran9/AlgoTrader-India/internal/metrics"
)

type AdvisorHandler struct {
	Advisor *advisor.Service
}

func (h *AdvisorHandler) Register(r *gin.Engine) {
	g := r.Group("/api/v1/advisor")
	g.POST("/suggest", h.suggest)
	g.POST("/backtest", h.backtest)
	g.POST("/top-picks", h.topPicks)
	g.POST("/find", h.find)
}

func (h *AdvisorHandler) suggest(c *gin.Context) {
	if h.Advisor == nil {
		Error(c, http.StatusInternalServerError, "advisor unavailable", nil)
		return
	}
	var req advisor.SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	out, err := h.Advisor.SuggestStrategy(c.Request.Context(), req)
	if err != nil {
		metrics.AdvisorCalls.WithLabelValues("suggest", "error").Inc()
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	metrics.AdvisorCalls.WithLabelValues("suggest", "ok").Inc()
	Ok(c, out, nil)
}

func (h *AdvisorHandler) backtest(c *gin.Context) {
	if h.Advisor == nil {
		Error(c, http.StatusInternalServerError, "advisor unavailable", nil)
		return
	}
	var req advisor.BacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	out, err := h.Advisor.RunBacktest(c.Request.Context(), req)
	if err != nil {
		metrics.AdvisorCalls.WithLabelValues("backtest", "error").Inc()
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	metrics.AdvisorCalls.WithLabelValues("backtest", "ok").Inc()
	Ok(c, out, nil)
}

func (h *AdvisorHandler) topPicks(c *gin.Context) {
	if h.Advisor == nil {
		Error(c, http.StatusInternalServerError, "advisor unavailable", nil)
		return
	}
	var req advisor.TopPicksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	out, err := h.Advisor.TopPicks(c.Request.Context(), req)
	if err != nil {
		metrics.AdvisorCalls.WithLabelValues("top_picks", "error").Inc()
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	metrics.AdvisorCalls.WithLabelValues("top_picks", "ok").Inc()
	Ok(c, out, nil)
}

func (h *AdvisorHandler) find(c *gin.Context) {
	if h.Advisor == nil {
		Error(c, http.StatusInternalServerError, "advisor unavailable", nil)
		return
	}
	var req advisor.FindRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	out, err := h.Advisor.FindStrategies(c.Request.Context(), req)
	if err != nil {
		metrics.AdvisorCalls.WithLabelValues("find", "error").Inc()
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	metrics.AdvisorCalls.WithLabelValues("find", "ok").Inc()
	Ok(c, out, nil)
}
