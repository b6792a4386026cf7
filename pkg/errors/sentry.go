package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/transitpadi/transit-backend/pkg/common"
)

// SentryConfig holds configuration for Sentry integration
type SentryConfig struct {
	DSN              string
	Environment      string
	Release          string
	SampleRate       float64
	Debug            bool
	ServerName       string
	AttachStacktrace bool
}

// DefaultSentryConfig returns configuration read from the environment.
func DefaultSentryConfig() *SentryConfig {
	sampleRate := 1.0
	if v, err := strconv.ParseFloat(os.Getenv("SENTRY_SAMPLE_RATE"), 64); err == nil && v > 0 && v <= 1 {
		sampleRate = v
	}

	return &SentryConfig{
		DSN:              os.Getenv("SENTRY_DSN"),
		Environment:      os.Getenv("ENVIRONMENT"),
		Release:          os.Getenv("SENTRY_RELEASE"),
		SampleRate:       sampleRate,
		Debug:            os.Getenv("SENTRY_DEBUG") == "true",
		ServerName:       os.Getenv("SERVICE_NAME"),
		AttachStacktrace: true,
	}
}

// InitSentry initializes the Sentry SDK with the given configuration.
// A missing DSN is not an error; error tracking is simply disabled.
func InitSentry(config *SentryConfig) (bool, error) {
	if config.DSN == "" {
		return false, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              config.DSN,
		Environment:      config.Environment,
		Release:          config.Release,
		SampleRate:       config.SampleRate,
		Debug:            config.Debug,
		ServerName:       config.ServerName,
		AttachStacktrace: config.AttachStacktrace,
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			// Business rejections (4xx AppErrors) are noise, not defects
			if hint != nil && hint.OriginalException != nil && !ShouldReportError(hint.OriginalException, 0) {
				return nil
			}
			return event
		},
	})
	if err != nil {
		return false, fmt.Errorf("failed to initialize sentry: %w", err)
	}

	return true, nil
}

// Flush waits for buffered events to be delivered.
func Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}

// ShouldReportError filters out expected business errors from Sentry.
func ShouldReportError(err error, statusCode int) bool {
	if err == nil {
		return false
	}

	var appErr *common.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code >= http.StatusInternalServerError
	}

	if statusCode > 0 && statusCode < http.StatusInternalServerError {
		return false
	}

	return true
}

// CaptureError reports an error with optional key/value context.
func CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}
