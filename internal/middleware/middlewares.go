package middleware

import (
	"github.com/deppfellow/countyhealth/internal/server"
)

// Middlewares groups all middleware components used by the HTTP server so
// they are built once during router setup.
type Middlewares struct {
	Global          *GlobalMiddlewares
	ContextEnhancer *ContextEnhancer
	Tracing         *TracingMiddleware
	RateLimit       *RateLimitMiddleware
}

// NewMiddlewares constructs all middleware components using the application container.
//
// Without New Relic, GetApplication returns nil and tracing degrades to a no-op.
func NewMiddlewares(s *server.Server) *Middlewares {
	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, s.LoggerService.GetApplication()),
		RateLimit:       NewRateLimitMiddleware(s),
	}
}
