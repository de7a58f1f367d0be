package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/jellyjae/cliftonstrengths/internal/http/response"
	"github.com/jellyjae/cliftonstrengths/internal/services"
)

type ThemeHandler struct {
	themes services.ThemeService
}

func NewThemeHandler(themes services.ThemeService) *ThemeHandler {
	return &ThemeHandler{themes: themes}
}

// GET /api/themes
func (h *ThemeHandler) List(c *gin.Context) {
	themes, err := h.themes.List(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, "list_themes_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"themes": themes})
}
