package middleware

import (
	"net/http"

	"github.com/deppfellow/countyhealth/internal/errs"
	"github.com/deppfellow/countyhealth/internal/server"
	"github.com/deppfellow/countyhealth/internal/sqlerr"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// requestBodyLimit caps POST bodies; a lookup request is a few dozen bytes.
const requestBodyLimit = "64K"

// GlobalMiddlewares groups "global" middleware and the global error handler.
type GlobalMiddlewares struct {
	server *server.Server
}

// NewGlobalMiddlewares constructs the middleware bundle.
func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

// CORS returns Echo's CORS middleware configured by the server config.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
	})
}

// RequestLogger emits one "API" log line per request, with the level
// picked from the final status.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status

			// The error handler has not written the response yet when a
			// handler returns an error, so v.Status would still read 200.
			// https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
			if v.Error != nil {
				statusCode = statusFromError(v.Error)
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

// Recover turns handler panics into errors for the global error handler.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

// Secure returns Echo's secure headers middleware.
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// BodyLimit rejects oversized request bodies with 413.
func (global *GlobalMiddlewares) BodyLimit() echo.MiddlewareFunc {
	return middleware.BodyLimit(requestBodyLimit)
}

// GlobalErrorHandler is the final error funnel for the entire HTTP server.
//
// Every failure leaves the service as {"error": "<message>"} with the
// matching status. Codes, field errors and the original cause only go to
// the log.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	originalErr := err
	httpErr := toHTTPError(err)

	logger := *GetLogger(c)

	var e *zerolog.Event
	if httpErr.Status >= 500 {
		e = logger.Error().Stack().Err(originalErr)
		if hint := sqlerr.Describe(originalErr); hint != originalErr.Error() {
			e = e.Str("hint", hint)
		}
	} else {
		e = logger.Warn().Err(originalErr)
	}

	if len(httpErr.Errors) > 0 {
		e = e.Interface("field_errors", httpErr.Errors)
	}

	e.Int("status", httpErr.Status).
		Str("error_code", httpErr.Code).
		Msg(httpErr.Message)

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(httpErr.Status)
		return
	}

	_ = c.JSON(httpErr.Status, httpErr.Body())
}

// toHTTPError classifies any error into the response the client receives.
func toHTTPError(err error) *errs.HTTPError {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		switch echoErr.Code {
		case http.StatusNotFound:
			return errs.NewNotFoundError(errs.MessageRouteNotFound, nil)
		case http.StatusMethodNotAllowed:
			return errs.NewMethodNotAllowedError()
		case http.StatusTooManyRequests:
			return errs.NewTooManyRequestsError()
		}

		message := http.StatusText(echoErr.Code)
		if echoErr.Code < 500 {
			if msg, ok := echoErr.Message.(string); ok {
				message = msg
			}
		}
		return &errs.HTTPError{
			Code:    errs.MakeUpperCaseWithUnderscores(http.StatusText(echoErr.Code)),
			Message: message,
			Status:  echoErr.Code,
		}
	}

	// Driver, panic and unknown errors.
	converted := sqlerr.HandleError(err)
	if errors.As(converted, &httpErr) {
		return httpErr
	}
	return errs.NewInternalServerError()
}

func statusFromError(err error) int {
	return toHTTPError(err).Status
}
