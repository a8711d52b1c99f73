package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	// Report fields by the name clients send them under.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
}

// ValidateStruct validates a struct and returns validator.ValidationErrors on failure
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// FieldErrors returns the validation errors in struct field order, or nil
// if err is not a validation failure.
func FieldErrors(err error) []validator.FieldError {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	return validationErrors
}

// ValidationMessage formats a validation failure as a single sentence.
func ValidationMessage(err error) string {
	fieldErrors := FieldErrors(err)
	if len(fieldErrors) == 0 {
		return err.Error()
	}
	msgs := make([]string, 0, len(fieldErrors))
	for _, e := range fieldErrors {
		msgs = append(msgs, FormatValidationError(e))
	}
	return strings.Join(msgs, "; ")
}

func FormatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " must not be empty"
	case "len":
		return e.Field() + " must be exactly " + e.Param() + " characters"
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	default:
		return e.Field() + " is invalid"
	}
}
