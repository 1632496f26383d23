package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/techkaran9/AlgoTrader-India/internal/repository"
)

type InstrumentHandler struct {
	Repo repository.Repository
}

func (h *InstrumentHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/instruments", h.list)
}

func (h *InstrumentHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	items, err := h.Repo.ListInstruments(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}
