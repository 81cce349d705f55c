package validation

import (
	"regexp"

	"github.com/deppfellow/countyhealth/internal/model"
	"github.com/go-playground/validator/v10"
)

// Custom validator tags.
const (
	TagZipCode = "zipcode"
	TagMeasure = "measure"
)

// zipRegex matches exactly five ASCII digits. \d would also be ASCII-only
// in Go's RE2, but the explicit class documents the intent.
var zipRegex = regexp.MustCompile(`^[0-9]{5}$`)

// IsValidZip checks whether a string is a 5-digit ZIP code. Leading zeros
// are significant; the value is never parsed as a number.
func IsValidZip(zip string) bool {
	return zipRegex.MatchString(zip)
}

func validateZipCode(fl validator.FieldLevel) bool {
	return IsValidZip(fl.Field().String())
}

func validateMeasure(fl validator.FieldLevel) bool {
	return model.IsMeasure(fl.Field().String())
}
