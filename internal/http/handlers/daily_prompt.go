package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jellyjae/cliftonstrengths/internal/http/middleware"
	"github.com/jellyjae/cliftonstrengths/internal/http/response"
	"github.com/jellyjae/cliftonstrengths/internal/services"
)

type DailyPromptHandler struct {
	daily services.DailyPromptService
}

func NewDailyPromptHandler(daily services.DailyPromptService) *DailyPromptHandler {
	return &DailyPromptHandler{daily: daily}
}

type dayRequest struct {
	DeviceID string `json:"deviceId"`
	Date     string `json:"date"`
}

func bindDayRequest(c *gin.Context) (dayRequest, bool) {
	var req dayRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return req, false
	}
	req.DeviceID = middleware.DeviceID(c, req.DeviceID)
	return req, true
}

// POST /api/daily-prompts
// body: { "deviceId": "...", "date": "YYYY-MM-DD" }
func (h *DailyPromptHandler) Today(c *gin.Context) {
	req, ok := bindDayRequest(c)
	if !ok {
		return
	}
	view, err := h.daily.Today(c.Request.Context(), req.DeviceID, req.Date)
	if err != nil {
		response.RespondServiceError(c, "daily_prompts_failed", err)
		return
	}
	response.RespondOK(c, view)
}

// POST /api/clear-prompts
// body: { "deviceId": "...", "date": "YYYY-MM-DD" }
func (h *DailyPromptHandler) Clear(c *gin.Context) {
	req, ok := bindDayRequest(c)
	if !ok {
		return
	}
	n, err := h.daily.Clear(c.Request.Context(), req.DeviceID, req.Date)
	if err != nil {
		response.RespondServiceError(c, "clear_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "deleted": n})
}
