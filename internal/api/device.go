package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hydromate/backend/internal/service"
	"github.com/hydromate/backend/internal/types"
)

// DeviceHandler handles push device registration
type DeviceHandler struct {
	push *service.PushService
}

// NewDeviceHandler creates a new DeviceHandler instance
func NewDeviceHandler(push *service.PushService) *DeviceHandler {
	return &DeviceHandler{push: push}
}

// RegisterDevice handles POST /devices.
func (h *DeviceHandler) RegisterDevice(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req types.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	device, err := h.push.RegisterDevice(c.Request.Context(), userID, req.Platform, req.Token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register device"})
		return
	}

	c.JSON(http.StatusCreated, device)
}
