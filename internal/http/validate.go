package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/example/timeclock/internal/application"
)

var requestValidator = validator.New(validator.WithRequiredStructEnabled())

// validateRequest runs struct tag validation on a decoded request body and
// folds tag failures into the field error shape the service layer produces,
// so handlers surface a single validation payload regardless of which layer
// rejected the input.
func validateRequest(req any) *application.ValidationError {
	err := requestValidator.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &application.ValidationError{FieldErrors: map[string]string{
			"request": "invalid request",
		}}
	}

	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fieldName(fe)] = fieldMessage(fe)
	}
	return &application.ValidationError{FieldErrors: details}
}

func fieldName(fe validator.FieldError) string {
	// Namespace is Type.Field; drop the type prefix and lower the first rune
	// so error keys line up with the JSON payload field names.
	name := fe.Field()
	if name == "" {
		return "request"
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "hexcolor":
		return "must be a hex color code"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
