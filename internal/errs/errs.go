package errs

// Error codes for the conditions the county data endpoint can report.
//
// Each code maps to exactly one HTTP status (see http.go). Codes are logged
// next to the message so rejected requests can be grouped without parsing
// free-form text.
const (
	CodeMissingParameter = "MISSING_PARAMETER"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeNotFound         = "NOT_FOUND"
	CodeTeapot           = "IM_A_TEAPOT"
)

// Client-facing messages. These strings are part of the API contract.
const (
	MessageMissingParameter = "Both 'zip' and 'measure_name' are required"
	MessageInvalidZip       = "ZIP code must be exactly 5 digits"
	MessageInvalidJSON      = "Invalid JSON in request body"
	MessageNoData           = "No data found for the specified ZIP code and measure"
	MessageTeapot           = "I'm a teapot"
	MessageRouteNotFound    = "Endpoint not found"
	MessageMethodNotAllowed = "Method not allowed"
	MessageTooManyRequests  = "Too many requests"
)
