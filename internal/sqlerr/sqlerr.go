// Package sqlerr specifically handles database driver errors.
//
// It parses cryptic error codes from the database driver and
// converts them into application errors (e.g. a missing imported
// table becomes a logged 500 with a hint to run the importer).
package sqlerr

import "fmt"

// Code is a driver-independent category for a database error.
type Code string

const (
	Other               Code = "other"
	UndefinedTable      Code = "undefined_table"
	UndefinedColumn     Code = "undefined_column"
	DuplicateTable      Code = "duplicate_table"
	UniqueViolation     Code = "unique_violation"
	NotNullViolation    Code = "not_null_violation"
	CheckViolation      Code = "check_violation"
	ForeignKeyViolation Code = "foreign_key_violation"
	InsufficientPrivs   Code = "insufficient_privilege"
	ConnectionFailure   Code = "connection_failure"
	QueryCanceled       Code = "query_canceled"
)

// Severity is the PostgreSQL message severity.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityUnknown Severity = "UNKNOWN"
)

// Error is a normalized database error. It keeps the original driver error
// for Unwrap so errors.As can still reach *pgconn.PgError.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Severity, e.DatabaseCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// sqlStateCodes maps the SQLSTATE values this service cares about.
var sqlStateCodes = map[string]Code{
	"42P01": UndefinedTable,
	"42703": UndefinedColumn,
	"42P07": DuplicateTable,
	"23505": UniqueViolation,
	"23502": NotNullViolation,
	"23514": CheckViolation,
	"23503": ForeignKeyViolation,
	"42501": InsufficientPrivs,
	"08000": ConnectionFailure,
	"08003": ConnectionFailure,
	"08006": ConnectionFailure,
	"57014": QueryCanceled,
}

// MapCode converts a SQLSTATE into a Code.
func MapCode(sqlState string) Code {
	if code, ok := sqlStateCodes[sqlState]; ok {
		return code
	}
	return Other
}

// MapSeverity converts the driver's severity string into a Severity.
func MapSeverity(severity string) Severity {
	switch Severity(severity) {
	case SeverityError, SeverityFatal, SeverityPanic, SeverityWarning, SeverityNotice:
		return Severity(severity)
	default:
		return SeverityUnknown
	}
}
