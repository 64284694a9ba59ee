package validatorx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError contains structured information about a single validation error
// This structure is designed to be returned to the API client
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationError is a custom error type that wraps one or more FieldErrors
// This allows us to return all validation failures at once
type ValidationError struct {
	Errors []FieldError
}

// Error implements the error interface for ValidationError
func (ve ValidationError) Error() string {
	if len(ve.Errors) == 0 {
		return "validation failed"
	}

	fields := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		fields[i] = fmt.Sprintf("%s (%s)", fe.Field, fe.Tag)
	}
	return fmt.Sprintf("validation failed with %d error(s): %s", len(ve.Errors), strings.Join(fields, ", "))
}

// Validator wraps go-playground/validator. It satisfies echo.Validator and is
// also used to check the process configuration at startup
type Validator struct {
	validator *validator.Validate
}

// NewValidator creates a new instance of Validator
func NewValidator() *Validator {
	return &Validator{validator: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate performs struct validation and, if it fails, returns a ValidationError
// containing detailed information about each field error
func (v *Validator) Validate(i any) error {
	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		out := ValidationError{
			Errors: make([]FieldError, len(validationErrors)),
		}

		for i, fe := range validationErrors {
			out.Errors[i] = FieldError{
				Field:   fe.Namespace(),
				Tag:     fe.Tag(),
				Message: msgForTag(fe.Tag(), fe.Param()),
			}
		}
		return out
	}
	return err
}

func msgForTag(tag, param string) string {
	switch tag {
	case "required", "required_if":
		return "This field is required"
	case "oneof":
		return fmt.Sprintf("This field must be one of: %s", param)
	case "min":
		return fmt.Sprintf("This field must be at least %s", param)
	case "max":
		return fmt.Sprintf("This field must not exceed %s", param)
	case "uuid", "uuid4":
		return "Invalid UUID format"
	default:
		return fmt.Sprintf("Failed validation on rule: %s", tag)
	}
}
