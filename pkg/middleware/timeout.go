package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/transitpadi/transit-backend/pkg/logger"
	"go.uber.org/zap"
)

// RequestTimeout sets a deadline on the request context. Handlers observe it
// through their database and gateway calls; an expired deadline yields 504.
func RequestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			c.Abort()
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"success": false,
				"error":   gin.H{"code": http.StatusGatewayTimeout, "message": "request timeout"},
			})

			logger.WithContext(c.Request.Context()).Warn("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Duration("timeout", timeout),
			)
		}
	}
}
