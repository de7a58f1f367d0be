package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jellyjae/cliftonstrengths/internal/http/middleware"
	"github.com/jellyjae/cliftonstrengths/internal/http/response"
	"github.com/jellyjae/cliftonstrengths/internal/services"
)

type CompletionHandler struct {
	completions services.CompletionService
}

func NewCompletionHandler(completions services.CompletionService) *CompletionHandler {
	return &CompletionHandler{completions: completions}
}

// GET /api/completions?date=YYYY-MM-DD
func (h *CompletionHandler) List(c *gin.Context) {
	rows, err := h.completions.ListForDate(c.Request.Context(), middleware.DeviceID(c, ""), c.Query("date"))
	if err != nil {
		response.RespondServiceError(c, "list_completions_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"completions": rows})
}

// POST /api/completions/toggle
// body: { "prompt_id": "...", "aspect": "career", "for_date": "YYYY-MM-DD" }
func (h *CompletionHandler) Toggle(c *gin.Context) {
	var req struct {
		PromptID uuid.UUID `json:"prompt_id"`
		Aspect   string    `json:"aspect"`
		ForDate  string    `json:"for_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	completed, err := h.completions.Toggle(c.Request.Context(), middleware.DeviceID(c, ""), req.PromptID, req.Aspect, req.ForDate)
	if err != nil {
		response.RespondServiceError(c, "toggle_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"completed": completed})
}
