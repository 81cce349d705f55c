// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce rules (required
// fields, ZIP format, canonical measure names) defined in struct
// tags and extracts validation errors into field errors for logs.
package validation

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/deppfellow/countyhealth/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Validate may return:
//   - *errs.HTTPError: used as-is (the payload decided the exact response)
//   - validator.ValidationErrors or CustomValidationErrors: turned into a 400
type Validatable interface {
	Validate() error
}

// CustomValidationError represents a single validation issue for a specific field.
// This is used for validation errors that cannot be expressed via validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator instance with the custom tags
// registered. Field names in errors are taken from the json tag.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})

		// Registration only fails on empty tag names or nil functions.
		_ = validate.RegisterValidation(TagZipCode, validateZipCode)
		_ = validate.RegisterValidation(TagMeasure, validateMeasure)
	})
	return validate
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
//  1. c.Bind(payload) populates the request struct from the body.
//  2. payload.Validate() applies validation rules.
//  3. Returns *errs.HTTPError describing the first failing rule.
//
// c.Bind expects a pointer to a struct.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) && echoErr.Code == http.StatusUnsupportedMediaType {
			return errs.NewInvalidInputError("Content-Type must be application/json", nil)
		}
		return errs.NewInvalidInputError(errs.MessageInvalidJSON, nil)
	}

	if err := payload.Validate(); err != nil {
		var httpErr *errs.HTTPError
		if errors.As(err, &httpErr) {
			return httpErr
		}
		msg, fieldErrors := ExtractValidationError(err)
		return errs.NewBadRequestError(msg, nil, fieldErrors)
	}

	return nil
}

// ExtractValidationError converts validator or custom errors into field errors.
func ExtractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var customValidationErrors CustomValidationErrors
	if errors.As(err, &customValidationErrors) {
		for _, err := range customValidationErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: err.Field,
				Error: err.Message,
			})
		}
		return "Validation failed", fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error(), nil
	}

	for _, err := range validationErrors {
		var msg string

		switch err.Tag() {
		case "required":
			msg = "is required"

		case "min":
			if err.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", err.Param())
			}

		case "max":
			if err.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", err.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", err.Param())

		case TagZipCode:
			msg = "must be exactly 5 digits"

		case TagMeasure:
			msg = "must be a known measure name"

		default:
			if err.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", err.Field(), err.Tag(), err.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", err.Field(), err.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: err.Field(),
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}

// HasTag reports whether any failed rule in err used the given tag.
func HasTag(err error, tag string) bool {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return false
	}
	for _, fe := range validationErrors {
		if fe.Tag() == tag {
			return true
		}
	}
	return false
}

// HasFieldError reports whether the named field failed any rule in err.
func HasFieldError(err error, field string) bool {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return false
	}
	for _, fe := range validationErrors {
		if fe.Field() == field {
			return true
		}
	}
	return false
}
