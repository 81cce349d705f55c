package errs

import (
	"net/http"
)

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// This supports extra payload:
//   - code: optional custom code string (if nil, defaults to "BAD_REQUEST")
//   - errors: optional slice of field errors (validation errors)
func NewBadRequestError(message string, code *string, errors []FieldError) *HTTPError {
	// http.StatusText(400) => "Bad Request" => "BAD_REQUEST"
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))

	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:    formattedCode,
		Message: message,
		Status:  http.StatusBadRequest,
		Errors:  errors,
	}
}

// NewMissingParameterError reports that zip or measure_name is absent.
func NewMissingParameterError(errors []FieldError) *HTTPError {
	code := CodeMissingParameter
	return NewBadRequestError(MessageMissingParameter, &code, errors)
}

// NewInvalidInputError reports a present but malformed value.
func NewInvalidInputError(message string, errors []FieldError) *HTTPError {
	code := CodeInvalidInput
	return NewBadRequestError(message, &code, errors)
}

// NewNotFoundError creates a 404 Not Found HTTPError.
//
// Supports optional custom code override similar to NewBadRequestError.
func NewNotFoundError(message string, code *string) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound))

	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:    formattedCode,
		Message: message,
		Status:  http.StatusNotFound,
	}
}

// NewMethodNotAllowedError creates a 405 Method Not Allowed HTTPError.
func NewMethodNotAllowedError() *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusMethodNotAllowed)),
		Message: MessageMethodNotAllowed,
		Status:  http.StatusMethodNotAllowed,
	}
}

// NewTeapotError creates the 418 response for coffee=teapot requests.
func NewTeapotError() *HTTPError {
	return &HTTPError{
		Code:    CodeTeapot,
		Message: MessageTeapot,
		Status:  http.StatusTeapot,
	}
}

// NewTooManyRequestsError creates a 429 Too Many Requests HTTPError.
func NewTooManyRequestsError() *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusTooManyRequests)),
		Message: MessageTooManyRequests,
		Status:  http.StatusTooManyRequests,
	}
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is the generic status text, never the underlying error.
// The real cause is logged by the global error handler.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message: http.StatusText(http.StatusInternalServerError),
		Status:  http.StatusInternalServerError,
	}
}
