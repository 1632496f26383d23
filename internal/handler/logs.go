package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/techkaran9/AlgoTrader-India/internal/repository"
)

type LogHandler struct {
	Repo repository.Repository
}

func (h *LogHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/logs", h.list)
}

func (h *LogHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	uid := userID(c)
	if uid == 0 {
		Error(c, http.StatusBadRequest, "missing X-User-ID", nil)
		return
	}
	limit := intQuery(c, "limit", 100)
	offset := intQuery(c, "offset", 0)
	asc := strings.EqualFold(strings.TrimSpace(c.Query("order")), "asc")

	params := repository.ListSystemLogsParams{
		UserID:  &uid,
		LogType: strQueryPtr(c, "type"),
		Limit:   limit,
		Offset:  offset,
		Asc:     boolPtr(asc),
	}
	if raw := strings.TrimSpace(c.Query("since")); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			t := ts.UTC()
			params.Since = &t
		}
	}
	items, err := h.Repo.ListSystemLogs(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountSystemLogs(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}
