package handler

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/deppfellow/countyhealth/internal/errs"
	"github.com/deppfellow/countyhealth/internal/model"
	"github.com/deppfellow/countyhealth/internal/server"
	"github.com/deppfellow/countyhealth/internal/service"
	"github.com/deppfellow/countyhealth/internal/validation"
	"github.com/labstack/echo/v4"
)

const teapotCoffee = "teapot"

var errBodyNotObject = errors.New("request body must be a JSON object")

// CountyDataRequest is the body of POST /county_data.
//
// Zip and MeasureName are nil when absent. A present value that is not a
// JSON string keeps its raw JSON text so it fails the format checks instead
// of reading as missing. Every other key lands in Extra.
type CountyDataRequest struct {
	Zip         *string                    `json:"zip" validate:"required,zipcode"`
	MeasureName *string                    `json:"measure_name" validate:"required,measure"`
	Extra       map[string]json.RawMessage `json:"-"`
}

func (r *CountyDataRequest) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errBodyNotObject
	}

	r.Zip = textField(fields, "zip")
	r.MeasureName = textField(fields, "measure_name")
	delete(fields, "zip")
	delete(fields, "measure_name")
	r.Extra = fields

	return nil
}

// textField returns the string value of key, the raw JSON text for
// non-string values, or nil when key is absent.
func textField(fields map[string]json.RawMessage, key string) *string {
	raw, ok := fields[key]
	if !ok {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}

	text := strings.TrimSpace(string(raw))
	return &text
}

// Coffee returns the optional coffee field, or "" when absent or not a string.
func (r *CountyDataRequest) Coffee() string {
	raw, ok := r.Extra["coffee"]
	if !ok {
		return ""
	}
	var coffee string
	if err := json.Unmarshal(raw, &coffee); err != nil {
		return ""
	}
	return coffee
}

// Validate checks the request in a fixed order: teapot, presence, ZIP
// format, measure name. Only the first failure is reported.
func (r *CountyDataRequest) Validate() error {
	if r.Coffee() == teapotCoffee {
		return errs.NewTeapotError()
	}

	err := validation.Validator().Struct(r)
	if err == nil {
		return nil
	}

	_, fieldErrors := validation.ExtractValidationError(err)

	switch {
	case validation.HasTag(err, "required"):
		return errs.NewMissingParameterError(fieldErrors)
	case validation.HasFieldError(err, "zip"):
		return errs.NewInvalidInputError(errs.MessageInvalidZip, fieldErrors)
	case validation.HasFieldError(err, "measure_name"):
		return errs.NewInvalidInputError(InvalidMeasureMessage(), fieldErrors)
	default:
		return err
	}
}

// InvalidMeasureMessage lists every accepted measure in documentation order.
func InvalidMeasureMessage() string {
	return "Invalid measure_name. Must be one of: " + strings.Join(model.Measures, ", ")
}

type CountyDataHandler struct {
	Handler
	countyService *service.CountyService
}

func NewCountyDataHandler(s *server.Server, countyService *service.CountyService) *CountyDataHandler {
	return &CountyDataHandler{
		Handler:       NewHandler(s),
		countyService: countyService,
	}
}

// GetCountyData answers a validated lookup.
func (h *CountyDataHandler) GetCountyData(c echo.Context, req *CountyDataRequest) ([]model.CountyHealthRecord, error) {
	return h.countyService.Lookup(c.Request().Context(), *req.Zip, *req.MeasureName)
}
