package middleware

import (
	"github.com/deppfellow/countyhealth/internal/errs"
	"github.com/deppfellow/countyhealth/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware enforces the per-client request rate and reports hits.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Enabled reports whether the limiter should be installed.
func (r *RateLimitMiddleware) Enabled() bool {
	return r.server.Config.RateLimit.Enabled
}

// Limit returns an in-memory limiter keyed by client IP. Rejected requests
// get a 429 through the global error handler.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	cfg := r.server.Config.RateLimit

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:  rate.Limit(cfg.RequestsPerSecond),
		Burst: cfg.Burst,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewInternalServerError()
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Path())
			GetLogger(c).Warn().Str("client", identifier).Msg("rate limit exceeded")
			return errs.NewTooManyRequestsError()
		},
	})
}

// RecordRateLimitHit records a RateLimitHit custom event in New Relic.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if app := r.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}
