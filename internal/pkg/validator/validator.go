package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate runs struct-tag validation (e.g. `gte=-90,lte=90` on a
// latitude field) over s.
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// GetValidator exposes the shared validator for registering custom tags.
func GetValidator() *validator.Validate {
	return validate
}
