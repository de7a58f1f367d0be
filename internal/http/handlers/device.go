package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jellyjae/cliftonstrengths/internal/platform/deviceid"
)

type DeviceHandler struct{}

func NewDeviceHandler() *DeviceHandler { return &DeviceHandler{} }

// POST /api/device
func (h *DeviceHandler) Issue(c *gin.Context) {
	c.JSON(http.StatusCreated, gin.H{"device_id": deviceid.New()})
}
