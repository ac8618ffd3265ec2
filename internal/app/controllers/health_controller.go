package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/classhub/internal/app/models/dto"
)

// HealthController answers liveness probes
type HealthController struct {
	message string
}

// NewHealthController creates a new HealthController
func NewHealthController(message string) *HealthController {
	return &HealthController{message: message}
}

// Health reports that the API is running
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{
		Status:    "OK",
		Message:   c.message,
		Timestamp: time.Now(),
	})
}
