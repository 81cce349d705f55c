package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/countyhealth/internal/errs"
	"github.com/deppfellow/countyhealth/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRequest(t *testing.T, body string) *CountyDataRequest {
	t.Helper()
	req := &CountyDataRequest{}
	require.NoError(t, json.Unmarshal([]byte(body), req))
	return req
}

func TestCountyDataRequest_UnmarshalJSON(t *testing.T) {
	t.Run("string fields", func(t *testing.T) {
		req := decodeRequest(t, `{"zip":"02138","measure_name":"Adult obesity","coffee":"teapot","x":1}`)
		require.NotNil(t, req.Zip)
		assert.Equal(t, "02138", *req.Zip)
		assert.Equal(t, "Adult obesity", *req.MeasureName)
		assert.Equal(t, "teapot", req.Coffee())
		assert.Contains(t, req.Extra, "x")
		assert.NotContains(t, req.Extra, "zip")
	})

	t.Run("absent fields stay nil", func(t *testing.T) {
		req := decodeRequest(t, `{}`)
		assert.Nil(t, req.Zip)
		assert.Nil(t, req.MeasureName)
		assert.Equal(t, "", req.Coffee())
	})

	t.Run("non-string values keep raw text", func(t *testing.T) {
		req := decodeRequest(t, `{"zip":2138,"measure_name":true,"coffee":42}`)
		assert.Equal(t, "2138", *req.Zip)
		assert.Equal(t, "true", *req.MeasureName)
		assert.Equal(t, "", req.Coffee())
	})

	t.Run("non-object bodies are rejected", func(t *testing.T) {
		for _, body := range []string{`[]`, `"zip"`, `null`, `3`} {
			assert.Error(t, json.Unmarshal([]byte(body), &CountyDataRequest{}), body)
		}
	})

	t.Run("decoding resets previous values", func(t *testing.T) {
		req := decodeRequest(t, `{"zip":"02138","measure_name":"Uninsured"}`)
		require.NoError(t, json.Unmarshal([]byte(`{"coffee":"latte"}`), req))
		assert.Nil(t, req.Zip)
		assert.Nil(t, req.MeasureName)
	})
}

func TestCountyDataRequest_Validate(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantMessage string
	}{
		{"valid", `{"zip":"02138","measure_name":"Adult obesity"}`, 0, ""},
		{"every measure", `{"zip":"00501","measure_name":"Daily fine particulate matter"}`, 0, ""},
		{"teapot", `{"coffee":"teapot"}`, http.StatusTeapot, errs.MessageTeapot},
		{"missing zip", `{"measure_name":"Adult obesity"}`, http.StatusBadRequest, errs.MessageMissingParameter},
		{"six digits", `{"zip":"021380","measure_name":"Adult obesity"}`, http.StatusBadRequest, errs.MessageInvalidZip},
		{"padded zip", `{"zip":" 02138","measure_name":"Adult obesity"}`, http.StatusBadRequest, errs.MessageInvalidZip},
		{"empty zip", `{"zip":"","measure_name":"Adult obesity"}`, http.StatusBadRequest, errs.MessageInvalidZip},
		{"empty measure", `{"zip":"02138","measure_name":""}`, http.StatusBadRequest, InvalidMeasureMessage()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := decodeRequest(t, tt.body).Validate()
			if tt.wantStatus == 0 {
				assert.NoError(t, err)
				return
			}

			var httpErr *errs.HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, tt.wantStatus, httpErr.Status)
			assert.Equal(t, tt.wantMessage, httpErr.Message)
		})
	}
}

func TestInvalidMeasureMessage(t *testing.T) {
	msg := InvalidMeasureMessage()
	for _, m := range model.Measures {
		assert.Contains(t, msg, m)
	}
	assert.Contains(t, msg, "Invalid measure_name. Must be one of: Violent crime rate, Unemployment")
}

func TestNewRequest(t *testing.T) {
	proto := &CountyDataRequest{}
	first := newRequest(proto)
	second := newRequest(proto)

	assert.NotSame(t, proto, first)
	assert.NotSame(t, first, second)
}
