package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

// ValidationError is returned when tool arguments do not satisfy the schema.
// Field is empty for errors about the arguments as a whole.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the message
func (e *ValidationError) Error() string {
	return e.Message
}

func fieldError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validate checks args against schema and returns them as a map. Values are
// never coerced; nil args are treated as an empty object.
func Validate(schema Schema, args interface{}) (map[string]interface{}, error) {
	var params map[string]interface{}
	switch v := args.(type) {
	case nil:
		params = map[string]interface{}{}
	case map[string]interface{}:
		params = v
	default:
		return nil, &ValidationError{Message: "Arguments must be an object"}
	}

	for _, name := range schema.Required {
		if _, ok := params[name]; !ok {
			return nil, fieldError(name, "Missing required field: %s", name)
		}
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		prop, known := schema.Properties[k]
		if !known {
			if !schema.AllowsAdditional() {
				return nil, fieldError(k, "Unknown field: %s", k)
			}
			continue
		}
		if err := checkValue(k, prop, params[k]); err != nil {
			return nil, err
		}
	}

	if len(schema.AnyOf) > 0 && !satisfiesAny(schema.AnyOf, params) {
		alternatives := make([]string, len(schema.AnyOf))
		for i, g := range schema.AnyOf {
			alternatives[i] = strings.Join(g.Required, " and ")
		}
		return nil, &ValidationError{
			Message: fmt.Sprintf("Either %s must be provided", strings.Join(alternatives, " or ")),
		}
	}

	return params, nil
}

func satisfiesAny(groups []RequiredGroup, params map[string]interface{}) bool {
	for _, g := range groups {
		ok := true
		for _, name := range g.Required {
			if _, present := params[name]; !present {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func checkValue(field string, prop *Property, value interface{}) error {
	if prop.Type != "" && !hasType(prop.Type, value) {
		return fieldError(field, "Field '%s' must be of type %s", field, prop.Type)
	}

	if len(prop.Enum) > 0 && !inEnum(prop.Enum, value) {
		allowed := make([]string, len(prop.Enum))
		for i, e := range prop.Enum {
			allowed[i] = fmt.Sprint(e)
		}
		return fieldError(field, "Field '%s' must be one of: %s", field, strings.Join(allowed, ", "))
	}

	switch v := value.(type) {
	case string:
		n := utf8.RuneCountInString(v)
		if prop.MinLength != nil && n < *prop.MinLength {
			return fieldError(field, "Field '%s' must be at least %d characters long", field, *prop.MinLength)
		}
		if prop.MaxLength != nil && n > *prop.MaxLength {
			return fieldError(field, "Field '%s' must be at most %d characters long", field, *prop.MaxLength)
		}
	case []interface{}:
		if prop.MinItems != nil && len(v) < *prop.MinItems {
			return fieldError(field, "Field '%s' must contain at least %d items", field, *prop.MinItems)
		}
		if prop.MaxItems != nil && len(v) > *prop.MaxItems {
			return fieldError(field, "Field '%s' must contain at most %d items", field, *prop.MaxItems)
		}
		if prop.Items != nil && prop.Items.Type != "" {
			for i, item := range v {
				if !hasType(prop.Items.Type, item) {
					return fieldError(field, "Field '%s' item %d must be of type %s", field, i+1, prop.Items.Type)
				}
			}
		}
	}

	if prop.Type == "integer" || prop.Type == "number" {
		n, _ := toFloat(value)
		if prop.Minimum != nil && n < *prop.Minimum {
			return fieldError(field, "Field '%s' must be >= %s", field, formatBound(*prop.Minimum))
		}
		if prop.Maximum != nil && n > *prop.Maximum {
			return fieldError(field, "Field '%s' must be <= %s", field, formatBound(*prop.Maximum))
		}
	}

	return nil
}

func hasType(want string, value interface{}) bool {
	switch want {
	case "string":
		_, ok := value.(string)
		return ok
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "integer":
		return isInteger(value)
	case "number":
		_, ok := toFloat(value)
		return ok
	case "array":
		_, ok := value.([]interface{})
		return ok
	case "object":
		_, ok := value.(map[string]interface{})
		return ok
	default:
		return true
	}
}

func isInteger(value interface{}) bool {
	switch v := value.(type) {
	case int, int32, int64:
		return true
	case float64:
		return !math.IsInf(v, 0) && v == math.Trunc(v)
	case json.Number:
		_, err := v.Int64()
		return err == nil
	default:
		return false
	}
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func inEnum(enum []interface{}, value interface{}) bool {
	for _, e := range enum {
		if e == value {
			return true
		}
		if ef, ok := toFloat(e); ok {
			if vf, ok := toFloat(value); ok && ef == vf {
				return true
			}
		}
	}
	return false
}

func formatBound(f float64) string {
	if f == math.Trunc(f) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprint(f)
}
