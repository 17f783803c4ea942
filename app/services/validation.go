package services

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/josebdo/Cristal-Event-Planner/app/helpers"
)

// validateInput runs struct validation and converts failures into a
// *ValidationError keyed by lower-cased field name.
func validateInput(v *validator.Validate, input interface{}) error {
	err := v.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return &ValidationError{Fields: helpers.FormatValidationErrors(verrs)}
	}
	return err
}
