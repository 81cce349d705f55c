package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// RequestIDHeader carries the correlation ID in both directions.
	RequestIDHeader = "X-Request-ID"

	// RequestIDKey is where the ID lives in the Echo context.
	RequestIDKey = "request_id"

	// maxRequestIDLength caps caller-supplied IDs. Anything longer is
	// replaced rather than written into every log line.
	maxRequestIDLength = 128
)

// RequestID tags each request with a correlation ID.
//
// A caller-supplied X-Request-ID is kept when it is short printable ASCII, so
// a lookup can be followed from a proxy or client into our logs. Missing or
// unusable IDs are replaced with a fresh UUID. The final ID is stored on the
// context and echoed in the response header.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(RequestIDHeader)
			if !usableRequestID(requestID) {
				requestID = uuid.New().String()
			}

			c.Set(RequestIDKey, requestID)
			c.Response().Header().Set(RequestIDHeader, requestID)

			return next(c)
		}
	}
}

// usableRequestID rejects empty, oversized and non-printable IDs. Control
// characters would otherwise end up in console logs and response headers.
func usableRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// GetRequestID returns the ID assigned by RequestID, or "" outside of it.
func GetRequestID(c echo.Context) string {
	if requestID, ok := c.Get(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
