package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jellyjae/cliftonstrengths/internal/http/middleware"
	"github.com/jellyjae/cliftonstrengths/internal/http/response"
	"github.com/jellyjae/cliftonstrengths/internal/services"
)

type StrengthHandler struct {
	strengths services.StrengthService
}

func NewStrengthHandler(strengths services.StrengthService) *StrengthHandler {
	return &StrengthHandler{strengths: strengths}
}

// GET /api/strengths
func (h *StrengthHandler) Get(c *gin.Context) {
	rows, err := h.strengths.Get(c.Request.Context(), middleware.DeviceID(c, ""))
	if err != nil {
		response.RespondServiceError(c, "get_strengths_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"strengths": rows})
}

// PUT /api/strengths
// body: { "theme_ids": ["...", x5], "date": "YYYY-MM-DD" }
func (h *StrengthHandler) Replace(c *gin.Context) {
	var req struct {
		ThemeIDs []uuid.UUID `json:"theme_ids"`
		Date     string      `json:"date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rows, err := h.strengths.Replace(c.Request.Context(), middleware.DeviceID(c, ""), req.ThemeIDs, req.Date)
	if err != nil {
		response.RespondServiceError(c, "save_strengths_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"strengths": rows})
}

// DELETE /api/profile
func (h *StrengthHandler) Reset(c *gin.Context) {
	if err := h.strengths.Reset(c.Request.Context(), middleware.DeviceID(c, "")); err != nil {
		response.RespondServiceError(c, "reset_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
