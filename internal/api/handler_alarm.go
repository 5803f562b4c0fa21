package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"boo-display-backend/internal/device"
)

// GetAlarm handles GET /alarm.
func (h *Handler) GetAlarm(c *gin.Context) {
	armed, err := h.device.ReadBinarySensor(c.Request.Context(), device.SensorBlinking)
	if err != nil {
		h.fail(c, "Failed to read alarm state", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"armed": armed})
}
