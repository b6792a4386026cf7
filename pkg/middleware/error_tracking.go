package middleware

import (
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/transitpadi/transit-backend/pkg/errors"
)

// SentryMiddleware attaches the Sentry hub to each request context.
func SentryMiddleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
}

// ErrorHandler captures unexpected handler errors and reports them to Sentry.
// It should run after CorrelationID so events carry the request ID tag.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		statusCode := c.Writer.Status()
		if len(c.Errors) == 0 {
			return
		}

		for _, ginErr := range c.Errors {
			if errors.ShouldReportError(ginErr.Err, statusCode) {
				errors.CaptureError(ginErr.Err, map[string]string{
					"path":           c.Request.URL.Path,
					"method":         c.Request.Method,
					"correlation_id": GetCorrelationID(c),
				})
			}
		}
	}
}
