package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/grindsup/trainer-gateway/pkg/errors"
)

// NewValidator returns a validator that reports fields by their JSON name.
func NewValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

// validationError turns validator output into a VALIDATION_ERROR carrying one
// entry per invalid field.
func validationError(err error, message string) error {
	appErr := appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return appErr
	}
	details := make([]appErrors.FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Namespace()
		if idx := strings.Index(field, "."); idx >= 0 {
			field = field[idx+1:]
		}
		details = append(details, appErrors.FieldError{Field: field, Rule: fe.Tag()})
	}
	return appErrors.WithDetails(appErr, details)
}

// ValidateQuery checks bound query parameters the same way request bodies are
// checked.
func ValidateQuery(validate *validator.Validate, query interface{}, message string) error {
	if validate == nil {
		validate = NewValidator()
	}
	if err := validate.Struct(query); err != nil {
		return validationError(err, message)
	}
	return nil
}
