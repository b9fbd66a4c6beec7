package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// detectUnknownFields compares the raw document with known struct fields.
// Unknown fields are reported as warnings and otherwise ignored.
func detectUnknownFields(doc any) []string {
	raw, ok := doc.(map[string]any)
	if !ok {
		return nil
	}
	return checkUnknownFields("", raw, reflect.TypeOf(Config{}))
}

func checkUnknownFields(section string, raw map[string]any, t reflect.Type) []string {
	var warnings []string

	known := getJSONFields(t)
	for _, key := range sortedKeys(raw) {
		if section == "" && key == "$schema" {
			continue // $schema is explicitly allowed and ignored
		}
		field, ok := known[key]
		if !ok {
			if section == "" {
				warnings = append(warnings, fmt.Sprintf("unknown field %q at root level (ignored)", key))
			} else {
				warnings = append(warnings, fmt.Sprintf("unknown field %q in section %q (ignored)", key, section))
			}
			continue
		}

		nested, isMap := raw[key].(map[string]any)
		ft := field.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if isMap && ft.Kind() == reflect.Struct {
			name := key
			if section != "" {
				name = section + "." + key
			}
			warnings = append(warnings, checkUnknownFields(name, nested, ft)...)
		}
	}

	return warnings
}

// getJSONFields returns the struct fields of t keyed by their JSON names.
func getJSONFields(t reflect.Type) map[string]reflect.StructField {
	fields := make(map[string]reflect.StructField)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		// Extract field name from tag (before comma)
		name := strings.Split(tag, ",")[0]
		if name != "" {
			fields[name] = field
		}
	}
	return fields
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
