package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ValidationErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func msgForTag(tag, param string) string {
	switch tag {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", param)
	case "max":
		return fmt.Sprintf("Must not exceed %s characters", param)
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", param)
	case "number", "numeric":
		return "Value must be numeric"
	default:
		return "Invalid value"
	}
}

func jsonFieldName(structType reflect.Type, fieldName string) string {
	if structType == nil {
		return fieldName
	}

	field, found := structType.FieldByName(fieldName)
	if !found {
		return fieldName
	}

	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" {
		return fieldName
	}

	return name
}

// FormatValidationErrors turns request binding failures into per-field messages.
// It returns nil for errors that are neither type mismatches nor validator errors,
// e.g. malformed JSON.
func FormatValidationErrors(err error, model any) []ValidationErrorResponse {
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []ValidationErrorResponse{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("Invalid type for field %s. Expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value),
		}}
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	var structType reflect.Type
	if model != nil {
		structType = reflect.TypeOf(model)
		if structType.Kind() == reflect.Ptr {
			structType = structType.Elem()
		}
	}

	out := make([]ValidationErrorResponse, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		out = append(out, ValidationErrorResponse{
			Field:   jsonFieldName(structType, fieldError.Field()),
			Message: msgForTag(fieldError.Tag(), fieldError.Param()),
		})
	}

	return out
}
