package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jellyjae/cliftonstrengths/internal/http/middleware"
	"github.com/jellyjae/cliftonstrengths/internal/http/response"
	"github.com/jellyjae/cliftonstrengths/internal/services"
)

type StatsHandler struct {
	stats services.StatsService
}

func NewStatsHandler(stats services.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func queryDays(c *gin.Context) (int, bool) {
	raw := c.Query("days")
	if raw == "" {
		return 0, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_days", fmt.Errorf("days must be an integer"))
		return 0, false
	}
	return days, true
}

// GET /api/stats/streaks?today=YYYY-MM-DD
func (h *StatsHandler) Streaks(c *gin.Context) {
	out, err := h.stats.Streaks(c.Request.Context(), middleware.DeviceID(c, ""), c.Query("today"))
	if err != nil {
		response.RespondServiceError(c, "stats_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/stats/aspects?today=YYYY-MM-DD&days=30
func (h *StatsHandler) Aspects(c *gin.Context) {
	days, ok := queryDays(c)
	if !ok {
		return
	}
	out, err := h.stats.ByAspect(c.Request.Context(), middleware.DeviceID(c, ""), c.Query("today"), days)
	if err != nil {
		response.RespondServiceError(c, "stats_failed", err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/stats/strengths?today=YYYY-MM-DD&days=30
func (h *StatsHandler) Strengths(c *gin.Context) {
	days, ok := queryDays(c)
	if !ok {
		return
	}
	out, err := h.stats.ByStrength(c.Request.Context(), middleware.DeviceID(c, ""), c.Query("today"), days)
	if err != nil {
		response.RespondServiceError(c, "stats_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"strengths": out})
}

// GET /api/stats/summary?today=YYYY-MM-DD&days=30
func (h *StatsHandler) Summary(c *gin.Context) {
	days, ok := queryDays(c)
	if !ok {
		return
	}
	out, err := h.stats.Summary(c.Request.Context(), middleware.DeviceID(c, ""), c.Query("today"), days)
	if err != nil {
		response.RespondServiceError(c, "stats_failed", err)
		return
	}
	response.RespondOK(c, out)
}
