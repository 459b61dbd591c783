package adapter

import (
	"encoding/json"
	"reflect"
	"strings"
)

// TagInfo contains all parsed information from struct field tags
type TagInfo struct {
	JSONName  string // Field name from json tag
	OmitEmpty bool   // Whether json tag has omitempty
	Ignore    bool   // json:"-" or jsonschema:"-"
	Required  bool   // Whether field is required (from binding/validate tags)
	Optional  bool   // Whether field is explicitly optional
	Default   string // Raw default tag
	Enum      []string
}

// parseTags collects every tag the adapter reads from a struct field.
func parseTags(tag reflect.StructTag) TagInfo {
	jsonName, omitEmpty, ignore := parseJSONTag(tag)
	required, optional := parseValidationTags(tag)

	return TagInfo{
		JSONName:  jsonName,
		OmitEmpty: omitEmpty,
		Ignore:    ignore || isSchemaIgnore(tag),
		Required:  required,
		Optional:  optional,
		Default:   tag.Get("default"),
		Enum:      extractEnumValues(tag),
	}
}

// parseJSONTag parses the json struct tag and returns field name, omitempty flag, and ignore flag.
// If no json tag is present, falls back to column tag for custom model systems.
//
// Examples:
//   - `json:"first_name"` → ("first_name", false, false)
//   - `json:"count,omitempty"` → ("count", true, false)
//   - `json:"-"` → ("", false, true)
//   - `json:"-,"` → ("-", false, false)
//   - `column:"external_id"` (no json tag) → ("external_id", false, false)
func parseJSONTag(tag reflect.StructTag) (name string, omitEmpty bool, ignore bool) {
	jsonTag, ok := tag.Lookup("json")
	if !ok {
		columnTag := tag.Get("column")
		if columnTag != "" {
			return strings.TrimSpace(columnTag), false, false
		}
		return "", false, false
	}

	if jsonTag == "-" {
		return "", false, true
	}

	parts := strings.Split(jsonTag, ",")
	name = strings.TrimSpace(parts[0])

	for i := 1; i < len(parts); i++ {
		if strings.TrimSpace(parts[i]) == "omitempty" {
			omitEmpty = true
			break
		}
	}

	return name, omitEmpty, false
}

// parseValidationTags parses binding and validate struct tags.
//
// Examples:
//   - `binding:"required"` → (true, false)
//   - `validate:"required,min=1,max=100"` → (true, false)
//   - `validate:"optional"` → (false, true)
func parseValidationTags(tag reflect.StructTag) (required bool, optional bool) {
	rules := make([]string, 0, 4)
	for _, key := range []string{"binding", "validate"} {
		if value := tag.Get(key); value != "" {
			rules = append(rules, strings.Split(value, ",")...)
		}
	}

	for _, rule := range rules {
		switch strings.TrimSpace(rule) {
		case "required":
			required = true
		case "optional", "omitempty":
			optional = true
		}
	}

	return required, optional
}

// isSchemaIgnore checks if the field has jsonschema:"-".
func isSchemaIgnore(tag reflect.StructTag) bool {
	return strings.TrimSpace(tag.Get("jsonschema")) == "-"
}

// extractEnumValues extracts enum values from oneof validation tag.
//
// Examples:
//   - `validate:"oneof=red green blue"` → ["red", "green", "blue"]
//   - `validate:"oneof='value 1' 'value 2'"` → ["value 1", "value 2"]
//   - No oneof tag → nil
func extractEnumValues(tag reflect.StructTag) []string {
	validateTag := tag.Get("validate")
	if validateTag == "" {
		return nil
	}

	for _, rule := range strings.Split(validateTag, ",") {
		rule = strings.TrimSpace(rule)
		if strings.HasPrefix(rule, "oneof=") {
			valuesPart := strings.TrimPrefix(rule, "oneof=")
			if valuesPart == "" {
				return nil
			}
			return parseOneOfValues(valuesPart)
		}
	}

	return nil
}

// parseOneOfValues parses space-separated values, handling single-quoted strings.
func parseOneOfValues(input string) []string {
	var values []string
	var current strings.Builder
	inQuote := false

	for i := 0; i < len(input); i++ {
		char := input[i]

		switch {
		case char == '\'':
			inQuote = !inQuote
		case char == ' ' && !inQuote:
			if current.Len() > 0 {
				values = append(values, current.String())
				current.Reset()
			}
		default:
			current.WriteByte(char)
		}
	}

	if current.Len() > 0 {
		values = append(values, current.String())
	}

	return values
}

// decodeTagValue parses a tag value as JSON and falls back to the raw text.
func decodeTagValue(raw string) interface{} {
	raw = strings.TrimSpace(raw)
	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}
