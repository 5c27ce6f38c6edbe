package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"accountd/internal/models"

	"github.com/go-playground/validator/v10"
)

type validationValuer interface {
	ValidationValue() any
}

// newValidator returns a validator that reports JSON field names and looks
// inside models.Optional wrappers.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if valuer, ok := field.Interface().(validationValuer); ok {
			return valuer.ValidationValue()
		}
		return nil
	}, models.Optional[string]{}, models.Optional[bool]{})
	return v
}

// validateStruct converts validator failures into models.FieldErrors.
func validateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("failed to validate input: %w", err)
	}
	fields := make(models.FieldErrors, len(validationErrors))
	for _, e := range validationErrors {
		fields[e.Field()] = describe(e)
	}
	return fields
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", e.Param())
	default:
		return fmt.Sprintf("failed on the '%s' rule", e.Tag())
	}
}
