package middleware

import (
	"errors"

	"github.com/deppfellow/countyhealth/internal/errs"
	"github.com/deppfellow/countyhealth/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// TracingMiddleware owns New Relic related Echo middleware.
//
// nrApp is nil when New Relic is disabled; every method then degrades to a
// pass-through.
type TracingMiddleware struct {
	server *server.Server
	nrApp  *newrelic.Application
}

// NewTracingMiddleware constructs TracingMiddleware.
func NewTracingMiddleware(s *server.Server, nrApp *newrelic.Application) *TracingMiddleware {
	return &TracingMiddleware{
		server: s,
		nrApp:  nrApp,
	}
}

// NewRelicMiddleware starts a New Relic transaction per request and stores
// it in the request context so newrelic.FromContext works downstream.
func (tm *TracingMiddleware) NewRelicMiddleware() echo.MiddlewareFunc {
	if tm.nrApp == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}
	return nrecho.Middleware(tm.nrApp)
}

// EnhanceTracing adds request attributes to the active transaction and
// notices server-side errors. Client errors (4xx) are expected outcomes of
// the lookup API and are not reported as errors.
func (tm *TracingMiddleware) EnhanceTracing() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// No transaction means New Relic is off or NewRelicMiddleware
			// did not run first.
			txn := newrelic.FromContext(c.Request().Context())
			if txn == nil {
				return next(c)
			}

			// RealIP honours X-Forwarded-For.
			txn.AddAttribute("http.real_ip", c.RealIP())
			txn.AddAttribute("http.user_agent", c.Request().UserAgent())

			if requestID := GetRequestID(c); requestID != "" {
				txn.AddAttribute("request.id", requestID)
			}

			err := next(c)

			// Bad ZIPs, unknown measures and empty joins are 4xx and only
			// get their code attached. Everything else is noticed with its
			// pkg/errors stack.
			if err != nil {
				var httpErr *errs.HTTPError
				if errors.As(err, &httpErr) && httpErr.Status < 500 {
					txn.AddAttribute("error.code", httpErr.Code)
				} else {
					txn.NoticeError(nrpkgerrors.Wrap(err))
				}
			}

			// Status is read after next so it reflects what was written.
			txn.AddAttribute("http.status_code", c.Response().Status)

			return err
		}
	}
}
