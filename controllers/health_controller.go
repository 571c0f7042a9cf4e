package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Health reports liveness only; it touches no dependency.
func (ctl *Controller) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"uptime": time.Since(ctl.started).String(),
		"time":   time.Now().Unix(),
	})
}

// Ready reports whether the document store answers a ping.
func (ctl *Controller) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := ctl.store.Ping(ctx); err != nil {
		ctl.logger.Warn("Store not ready", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "time": time.Now().Unix()})
}
