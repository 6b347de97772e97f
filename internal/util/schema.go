// Package util contains internal helpers shared across packages: a minimal
// JSON-Schema subset used for tool parameter declaration and validation.
package util

import (
	"fmt"
	"reflect"
	"strings"
)

// ValidationError represents parameter validation errors with detailed information.
type ValidationError struct {
	Field   string `json:"field"`   // Field that failed validation
	Value   any    `json:"value"`   // Value that was provided
	Message string `json:"message"` // Human-readable error message
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// CreateSchema creates a JSON schema from a Go struct using reflection.
// This is a convenience for deriving tool parameter schemas from argument
// container structs.
func CreateSchema(structType any) map[string]any {
	t := reflect.TypeOf(structType)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		}
	}

	properties := make(map[string]any)
	required := make([]string, 0)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		fieldName := field.Name
		if jsonTag != "" {
			parts := strings.Split(jsonTag, ",")
			if parts[0] != "" {
				fieldName = parts[0]
			}
		}

		fieldSchema := map[string]any{
			"type": getJSONType(field.Type),
		}

		if description := field.Tag.Get("description"); description != "" {
			fieldSchema["description"] = description
		}

		properties[fieldName] = fieldSchema

		if !hasOmitEmpty(field.Tag.Get("json")) && field.Type.Kind() != reflect.Ptr {
			required = append(required, fieldName)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}

	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}

// ValidateParameters validates parameters against a JSON schema. Required
// fields must be present; typed properties must match; extra fields pass
// through untouched (argument semantics beyond the schema are the tool
// body's concern).
func ValidateParameters(params map[string]any, schema map[string]any) error {
	for _, fieldName := range requiredFields(schema) {
		if _, exists := params[fieldName]; !exists {
			return &ValidationError{
				Field:   fieldName,
				Message: "required field is missing",
			}
		}
	}

	properties, _ := schema["properties"].(map[string]any)
	for fieldName, value := range params {
		propSchema, exists := properties[fieldName]
		if !exists {
			continue // Allow extra fields
		}

		propMap, ok := propSchema.(map[string]any)
		if !ok {
			continue
		}

		expectedType, _ := propMap["type"].(string)
		if expectedType == "" {
			continue
		}
		if !isValidType(value, expectedType) {
			return &ValidationError{
				Field:   fieldName,
				Value:   value,
				Message: fmt.Sprintf("expected type %s, got %T", expectedType, value),
			}
		}
	}

	return nil
}

// requiredFields tolerates both []string (hand-written schemas) and []any
// (schemas round-tripped through JSON).
func requiredFields(schema map[string]any) []string {
	switch req := schema["required"].(type) {
	case []string:
		return req
	case []any:
		out := make([]string, 0, len(req))
		for _, r := range req {
			if s, ok := r.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// getJSONType returns the JSON schema type for a given Go type.
func getJSONType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Ptr:
		return getJSONType(t.Elem())
	default:
		return "string"
	}
}

// hasOmitEmpty checks if a JSON tag has the "omitempty" option.
func hasOmitEmpty(tag string) bool {
	parts := strings.Split(tag, ",")
	for _, part := range parts[1:] {
		if strings.TrimSpace(part) == "omitempty" {
			return true
		}
	}
	return false
}

// isValidType checks whether a decoded JSON value matches the schema type.
// Numbers arrive as float64 from encoding/json, so "integer" accepts whole
// floats as well as native ints.
func isValidType(value any, expectedType string) bool {
	if value == nil {
		return true
	}
	switch expectedType {
	case "string":
		_, ok := value.(string)
		return ok
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "number":
		switch value.(type) {
		case float32, float64, int, int32, int64:
			return true
		}
		return false
	case "integer":
		switch v := value.(type) {
		case int, int32, int64:
			return true
		case float64:
			return v == float64(int64(v))
		case float32:
			return v == float32(int32(v))
		}
		return false
	case "array":
		return reflect.ValueOf(value).Kind() == reflect.Slice
	case "object":
		return reflect.ValueOf(value).Kind() == reflect.Map
	default:
		return true
	}
}
