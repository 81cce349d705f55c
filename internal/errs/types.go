// Package errs define custom error types and utilities.
//
// Its purpose is to create specific error structures
// (HTTPError for API responses) so the client receives
// meaningful and consistent error messages.
//
// - Return a consistent error shape to API clients: {"error": "..."}.
// - Keep a machine-friendly code and field details for logs.
// - Provide errors that play nicely with Go's standard errors package.
package errs

import "strings"

// FieldError represents a field-level validation error.
// It never reaches the client; it is attached to logs so a rejected request
// can be diagnosed.
type FieldError struct {
	// Field is the request field the error relates to (e.g. "zip").
	Field string `json:"field"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// Response is the body written for every failed request.
//
//	{ "error": "No data found for the specified ZIP code and measure" }
type Response struct {
	Error string `json:"error"`
}

// HTTPError is the main custom error type for API responses.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "MISSING_PARAMETER").
//   - Message: human-friendly message, the only thing sent to the client.
//   - Status: HTTP status code.
//   - Errors: list of per-field errors (validation), logged only.
type HTTPError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Status  int          `json:"status"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also a *HTTPError.
//
// It does NOT compare Code/Status; use errors.As and inspect the fields
// when the exact condition matters.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// Body returns the client-facing JSON body for this error.
func (e *HTTPError) Body() Response {
	return Response{Error: e.Message}
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
//
// Used to create stable machine-readable error codes from HTTP status text.
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
