package utils

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AndreaCerratoSP/CIAMS/shared/go-dtos"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names instead of Go struct field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// ValidationError is returned when a request value violates its field rules.
type ValidationError struct {
	Message string
	Details []dtos.ValidationErrorDetail
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "Validation error"
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message, tag string) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: []dtos.ValidationErrorDetail{{
			Field:   field,
			Message: message,
			Code:    "validation_" + tag,
		}},
	}
}

// ValidateStruct checks v against its `validate` tags. It is a pure
// function of v and returns nil when v is valid.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	return &ValidationError{
		Message: "Validation error",
		Details: FormatValidationErrors(errs),
	}
}

// FormatValidationErrors converts validator errors into response details.
func FormatValidationErrors(errs validator.ValidationErrors) []dtos.ValidationErrorDetail {
	details := make([]dtos.ValidationErrorDetail, 0, len(errs))
	for _, err := range errs {
		field := fieldPath(err)
		var message string
		switch err.Tag() {
		case "required", "notblank":
			message = fmt.Sprintf("Field '%s' is required", field)
		case "gt":
			message = fmt.Sprintf("Field '%s' must be greater than %s", field, err.Param())
		case "min":
			message = fmt.Sprintf("Field '%s' must be at least %s in length", field, err.Param())
		case "max":
			message = fmt.Sprintf("Field '%s' must not exceed %s in length", field, err.Param())
		default:
			message = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", field, err.Tag())
		}
		details = append(details, dtos.ValidationErrorDetail{
			Field:   field,
			Message: message,
			Code:    "validation_" + err.Tag(),
		})
	}
	return details
}

// fieldPath drops the top-level struct name from the namespace, so
// "CreateAssetRequest.office.id" is reported as "office.id".
func fieldPath(err validator.FieldError) string {
	ns := err.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return err.Field()
}
