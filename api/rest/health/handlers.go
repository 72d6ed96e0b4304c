package health

import (
	"context"
	"net/http"
	"time"

	"codeberg.org/codewithacp/server/internal/logger"
	"github.com/gin-gonic/gin"
)

const (
	serviceName = "codewithacp"
	version     = "1.0.0"
	pingTimeout = 2 * time.Second
)

// Handler godoc
// @Summary Health check
// @Description Reports service health including database reachability
// @Tags health
// @Produce json
// @Success 200 {object} Response
// @Failure 503 {object} Response
// @Router /health [get]
func Handler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := Response{
			Status:   "healthy",
			Service:  serviceName,
			Version:  version,
			Database: "ok",
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logger.FromContext(c.Request.Context()).Warn("database health check failed", "error", err)

			resp.Status = "unhealthy"
			resp.Database = "unreachable"
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

// responds with pong for testing
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{Message: "pong"})
}
