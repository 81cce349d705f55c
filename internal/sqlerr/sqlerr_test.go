package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/countyhealth/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapCode(t *testing.T) {
	assert.Equal(t, UndefinedTable, MapCode("42P01"))
	assert.Equal(t, UniqueViolation, MapCode("23505"))
	assert.Equal(t, Other, MapCode("99999"))
}

func TestMapSeverity(t *testing.T) {
	assert.Equal(t, SeverityFatal, MapSeverity("FATAL"))
	assert.Equal(t, SeverityUnknown, MapSeverity("LOG"))
}

func TestErrCode_WrappedPgError(t *testing.T) {
	pgerr := &pgconn.PgError{Code: "42P01", Severity: "ERROR", Message: `relation "zip_county" does not exist`}
	err := fmt.Errorf("query county data: %w", pgerr)

	assert.Equal(t, UndefinedTable, ErrCode(err))
	assert.Equal(t, UndefinedTable, ErrCode(ConvertPgError(pgerr)))
	assert.Equal(t, Other, ErrCode(errors.New("boom")))
}

func TestConvertPgError_Unwrap(t *testing.T) {
	pgerr := &pgconn.PgError{Code: "23505", Severity: "ERROR", TableName: "data_imports"}
	converted := ConvertPgError(pgerr)

	var target *pgconn.PgError
	require.True(t, errors.As(converted, &target))
	assert.Same(t, pgerr, target)
	assert.Equal(t, "data_imports", converted.TableName)
}

func TestDescribe(t *testing.T) {
	missing := &pgconn.PgError{Code: "42P01", Message: `relation "zip_county" does not exist`}
	assert.Contains(t, Describe(missing), "run the importer")

	unique := &pgconn.PgError{Code: "23505", TableName: "data_imports", ConstraintName: "data_imports_pkey"}
	assert.Equal(t, "Unique Violation on data_imports.data_imports_pkey", Describe(unique))

	assert.Equal(t, "plain", Describe(errors.New("plain")))
}

func TestHandleError(t *testing.T) {
	t.Run("http error passes through", func(t *testing.T) {
		in := errs.NewTeapotError()
		assert.Same(t, in, HandleError(in))
	})

	t.Run("no rows becomes not found", func(t *testing.T) {
		var httpErr *errs.HTTPError
		require.True(t, errors.As(HandleError(pgx.ErrNoRows), &httpErr))
		assert.Equal(t, http.StatusNotFound, httpErr.Status)
		assert.Equal(t, errs.MessageNoData, httpErr.Message)
	})

	t.Run("driver errors become internal errors", func(t *testing.T) {
		var httpErr *errs.HTTPError
		require.True(t, errors.As(HandleError(&pgconn.PgError{Code: "42P01"}), &httpErr))
		assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
		assert.Equal(t, "Internal Server Error", httpErr.Message)
	})
}
