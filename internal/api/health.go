package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthCheck is one dependency the health endpoint pings.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Health handles GET /api/health. It is public so load balancers can call
// it without a token.
func Health(checks []HealthCheck, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		for _, hc := range checks {
			if err := hc.Check(ctx); err != nil {
				logger.Warn("health check failed", zap.String("dependency", hc.Name), zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": hc.Name + " unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
