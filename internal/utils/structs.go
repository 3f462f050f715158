package utils

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// PatchToMap flattens a patch struct into a map keyed by the given struct
// tag ("db", "json" or "bson"). Only non-nil pointer fields are included,
// dereferenced, so a store can apply exactly the fields the caller set.
func PatchToMap(patch any, tag string) map[string]any {

	result := make(map[string]any)

	itemValue := reflect.ValueOf(patch)
	if itemValue.Kind() == reflect.Ptr {
		itemValue = itemValue.Elem()
	}

	if itemValue.Kind() != reflect.Struct {
		panic("patch must be a pointer to a struct or a struct")
	}

	itemType := itemValue.Type()

	for i := 0; i < itemValue.NumField(); i++ {

		if itemType.Field(i).PkgPath != "" {
			continue
		}

		tagValue := tagName(itemType.Field(i).Tag.Get(tag))
		if tagValue == "" || tagValue == "-" {
			continue
		}

		field := itemValue.Field(i)
		if field.Kind() != reflect.Ptr || field.IsNil() {
			continue
		}

		result[tagValue] = field.Elem().Interface()

	}

	return result

}

// RecordToMap round-trips a record through encoding/json so it can be
// merged field-by-field with a patch keyed by json names.
func RecordToMap(record any) (map[string]any, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}

	result := make(map[string]any)
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("unmarshal record map: %w", err)
	}

	return result, nil
}

func tagName(raw string) string {
	if idx := strings.Index(raw, ","); idx >= 0 {
		return raw[:idx]
	}
	return raw
}
