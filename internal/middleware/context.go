package middleware

import (
	"context"

	"github.com/deppfellow/countyhealth/internal/logger"
	"github.com/deppfellow/countyhealth/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// LoggerKey is used as the key for storing the request-scoped logger in Echo context.
const LoggerKey = "logger"

type contextKey string

const loggerContextKey contextKey = "logger"

// ContextEnhancer builds a request-scoped logger and stores it in both the
// Echo context and the request's context.Context.
type ContextEnhancer struct {
	server *server.Server
}

// NewContextEnhancer creates a new ContextEnhancer using the app Server container.
func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

// EnhanceContext returns an Echo middleware.
//
// The logger carries request_id, method, path and ip, plus trace.id and
// span.id when a New Relic transaction is active. It must run after
// RequestID and the New Relic middleware.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			contextLogger := ce.server.Logger.With().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("ip", c.RealIP()).
				Logger()

			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				contextLogger = logger.WithTraceContext(contextLogger, txn)
			}

			c.Set(LoggerKey, &contextLogger)

			ctx := context.WithValue(c.Request().Context(), loggerContextKey, &contextLogger)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetLogger retrieves the request-scoped logger from Echo context.
//
// If EnhanceContext middleware didn't run, it returns a no-op logger.
func GetLogger(c echo.Context) *zerolog.Logger {
	if logger, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return logger
	}

	logger := zerolog.Nop()
	return &logger
}

// LoggerFromContext retrieves the request-scoped logger for code that only
// sees a context.Context. Falls back to fallback when none is set.
func LoggerFromContext(ctx context.Context, fallback *zerolog.Logger) *zerolog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*zerolog.Logger); ok {
		return logger
	}
	return fallback
}
