package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/countyhealth/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lookupPayload struct {
	Zip     *string `json:"zip" validate:"required,zipcode"`
	Measure *string `json:"measure_name" validate:"required,measure"`
}

func (p *lookupPayload) Validate() error {
	return Validator().Struct(p)
}

type teapotPayload struct {
	Coffee string `json:"coffee"`
}

func (p *teapotPayload) Validate() error {
	if p.Coffee == "teapot" {
		return errs.NewTeapotError()
	}
	return nil
}

func strPtr(s string) *string { return &s }

func newContext(body, contentType string) echo.Context {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestIsValidZip(t *testing.T) {
	tests := []struct {
		zip  string
		want bool
	}{
		{"02138", true},
		{"99999", true},
		{"2138", false},
		{"021380", false},
		{"0213a", false},
		{" 2138", false},
		{"٠٢١٣٨", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.zip, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidZip(tt.zip))
		})
	}
}

func TestValidator_CustomTags(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		p := &lookupPayload{Zip: strPtr("02138"), Measure: strPtr("Adult obesity")}
		assert.NoError(t, p.Validate())
	})

	t.Run("missing fields use required tag", func(t *testing.T) {
		err := (&lookupPayload{}).Validate()
		require.Error(t, err)
		assert.True(t, HasTag(err, "required"))
		assert.True(t, HasFieldError(err, "zip"))
		assert.True(t, HasFieldError(err, "measure_name"))
	})

	t.Run("bad zip", func(t *testing.T) {
		err := (&lookupPayload{Zip: strPtr("2138"), Measure: strPtr("Adult obesity")}).Validate()
		require.Error(t, err)
		assert.False(t, HasTag(err, "required"))
		assert.True(t, HasTag(err, TagZipCode))
		assert.False(t, HasFieldError(err, "measure_name"))
	})

	t.Run("measure names are case sensitive", func(t *testing.T) {
		err := (&lookupPayload{Zip: strPtr("02138"), Measure: strPtr("adult obesity")}).Validate()
		require.Error(t, err)
		assert.True(t, HasTag(err, TagMeasure))
	})
}

func TestExtractValidationError(t *testing.T) {
	err := (&lookupPayload{Zip: strPtr("abc")}).Validate()

	msg, fields := ExtractValidationError(err)
	assert.Equal(t, "Validation failed", msg)
	require.Len(t, fields, 2)
	assert.Equal(t, errs.FieldError{Field: "zip", Error: "must be exactly 5 digits"}, fields[0])
	assert.Equal(t, errs.FieldError{Field: "measure_name", Error: "is required"}, fields[1])

	msg, fields = ExtractValidationError(CustomValidationErrors{{Field: "coffee", Message: "is hot"}})
	assert.Equal(t, "Validation failed", msg)
	assert.Equal(t, []errs.FieldError{{Field: "coffee", Error: "is hot"}}, fields)

	msg, fields = ExtractValidationError(errors.New("plain"))
	assert.Equal(t, "plain", msg)
	assert.Nil(t, fields)
}

func TestBindAndValidate(t *testing.T) {
	t.Run("malformed json", func(t *testing.T) {
		err := BindAndValidate(newContext(`{"zip":`, echo.MIMEApplicationJSON), &lookupPayload{})

		var httpErr *errs.HTTPError
		require.True(t, errors.As(err, &httpErr))
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		assert.Equal(t, errs.MessageInvalidJSON, httpErr.Message)
	})

	t.Run("unsupported content type", func(t *testing.T) {
		err := BindAndValidate(newContext(`zip=02138`, echo.MIMETextPlain), &lookupPayload{})

		var httpErr *errs.HTTPError
		require.True(t, errors.As(err, &httpErr))
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		assert.Equal(t, "Content-Type must be application/json", httpErr.Message)
	})

	t.Run("payload http error passes through", func(t *testing.T) {
		err := BindAndValidate(newContext(`{"coffee":"teapot"}`, echo.MIMEApplicationJSON), &teapotPayload{})

		var httpErr *errs.HTTPError
		require.True(t, errors.As(err, &httpErr))
		assert.Equal(t, http.StatusTeapot, httpErr.Status)
	})

	t.Run("validator errors become bad request", func(t *testing.T) {
		err := BindAndValidate(newContext(`{"zip":"02138"}`, echo.MIMEApplicationJSON), &lookupPayload{})

		var httpErr *errs.HTTPError
		require.True(t, errors.As(err, &httpErr))
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		require.Len(t, httpErr.Errors, 1)
		assert.Equal(t, "measure_name", httpErr.Errors[0].Field)
	})

	t.Run("valid payload", func(t *testing.T) {
		p := &lookupPayload{}
		err := BindAndValidate(newContext(`{"zip":"02138","measure_name":"Adult obesity"}`, echo.MIMEApplicationJSON), p)
		require.NoError(t, err)
		assert.Equal(t, "02138", *p.Zip)
	})
}
