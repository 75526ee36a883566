package core

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// FlexibleUnmarshal unmarshals JSON with flexible type conversion for string
// fields. When a string field in the target struct receives a non-string
// value (number, boolean), it is converted to a string instead of failing.
// The Insights payloads are not strict about numeric vs string encoding of
// identifier and status fields, so the strict decoder is too brittle here.
func FlexibleUnmarshal(data []byte, target any) error {
	var rawData map[string]any
	if err := json.Unmarshal(data, &rawData); err != nil {
		return err
	}

	targetValue := reflect.ValueOf(target)
	if targetValue.Kind() != reflect.Ptr {
		return fmt.Errorf("target must be a pointer")
	}
	targetElem := targetValue.Elem()
	if targetElem.Kind() != reflect.Struct {
		return fmt.Errorf("target must be a pointer to struct")
	}

	convertedData := coerceMapToStruct(rawData, targetElem.Type())

	convertedJSON, err := json.Marshal(convertedData)
	if err != nil {
		return err
	}
	return json.Unmarshal(convertedJSON, target)
}

// coerceMapToStruct recursively converts map values to match struct field types.
func coerceMapToStruct(data map[string]any, structType reflect.Type) map[string]any {
	result := make(map[string]any)
	for key, value := range data {
		field, found := findFieldByJSONTag(structType, key)
		if !found {
			result[key] = value
			continue
		}
		result[key] = coerceValue(value, field.Type)
	}
	return result
}

// coerceValue converts a value to match the target type.
func coerceValue(value any, targetType reflect.Type) any {
	if value == nil {
		return nil
	}
	switch targetType.Kind() {
	case reflect.String:
		return coerceToString(value)
	case reflect.Slice:
		if arr, ok := value.([]any); ok {
			result := make([]any, len(arr))
			elemType := targetType.Elem()
			for i, item := range arr {
				result[i] = coerceValue(item, elemType)
			}
			return result
		}
	case reflect.Ptr:
		return coerceValue(value, targetType.Elem())
	case reflect.Struct:
		if m, ok := value.(map[string]any); ok {
			return coerceMapToStruct(m, targetType)
		}
	}
	return value
}

func coerceToString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// findFieldByJSONTag finds a struct field by its JSON tag name,
// ignoring tag options such as ",omitempty".
func findFieldByJSONTag(structType reflect.Type, jsonTag string) (reflect.StructField, bool) {
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		tag := field.Tag.Get("json")
		if tag == "" {
			continue
		}
		tagName, _, _ := strings.Cut(tag, ",")
		if tagName == jsonTag {
			return field, true
		}
	}
	return reflect.StructField{}, false
}
