package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/countyhealth/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrCode reports the mapped Code for a given error.
//
// It understands both an already converted *Error and a raw *pgconn.PgError
// anywhere in the chain. Everything else is Other.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return MapCode(pgerr.Code)
	}
	return Other
}

// ConvertPgError converts a pgconn.PgError into our custom Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// Describe produces an operator-facing explanation of a database error.
// It goes to logs and importer diagnostics, never to API clients.
func Describe(err error) string {
	var pgerr *pgconn.PgError
	if !errors.As(err, &pgerr) {
		return err.Error()
	}

	sqlErr := ConvertPgError(pgerr)
	switch sqlErr.Code {
	case UndefinedTable:
		return fmt.Sprintf("table is missing (%s); run the importer for %s and %s first",
			sqlErr.Message, "zip_county", "county_health_rankings")
	case UndefinedColumn:
		return fmt.Sprintf("imported table lacks an expected column (%s); check the CSV header", sqlErr.Message)
	case InsufficientPrivs:
		return fmt.Sprintf("database user lacks privileges: %s", sqlErr.Message)
	case NotNullViolation, CheckViolation, UniqueViolation, ForeignKeyViolation:
		return fmt.Sprintf("%s on %s", humanizeText(string(sqlErr.Code)), describeTarget(sqlErr))
	default:
		return sqlErr.Error()
	}
}

func describeTarget(sqlErr *Error) string {
	var parts []string
	if sqlErr.TableName != "" {
		parts = append(parts, sqlErr.TableName)
	}
	if sqlErr.ColumnName != "" {
		parts = append(parts, sqlErr.ColumnName)
	}
	if sqlErr.ConstraintName != "" {
		parts = append(parts, sqlErr.ConstraintName)
	}
	if len(parts) == 0 {
		return "record"
	}
	return strings.Join(parts, ".")
}

// humanizeText converts snake_case into Title Case.
//
//	"unique_violation" -> "Unique Violation"
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// HandleError converts a low-level database error into an application-level error.
//
// Output:
//   - If already *errs.HTTPError: returned unchanged
//   - If ErrNoRows: errs.NewNotFoundError with the generic no-data message
//   - Anything else, including every *pgconn.PgError: errs.NewInternalServerError
//
// Store failures are terminal for the request. Driver details never reach
// the client; the global error handler logs the original error.
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return errs.NewNotFoundError(errs.MessageNoData, nil)
	}

	return errs.NewInternalServerError()
}
