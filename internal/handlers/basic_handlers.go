package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PingHandler GET /ping
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// ConnectionChecker reports whether a message bus connection is live.
type ConnectionChecker interface {
	IsConnected() bool
}

// HealthCheckHandler reports service, database and NATS health; nats may be
// nil when NATS is not configured
// GET /health
func HealthCheckHandler(db *gorm.DB, nats ConnectionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ok"
		dbStatus := "ok"
		code := http.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = "degraded"
			dbStatus = "unreachable"
			code = http.StatusServiceUnavailable
		}
		natsStatus := "disabled"
		if nats != nil {
			natsStatus = "ok"
			if !nats.IsConnected() {
				natsStatus = "disconnected"
				status = "degraded"
			}
		}
		c.JSON(code, gin.H{
			"status":   status,
			"service":  "xchain-backend",
			"database": dbStatus,
			"nats":     natsStatus,
		})
	}
}
