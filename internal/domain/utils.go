package domain

import (
	"regexp"
	"strings"
)

const (
	// ARRAY represent a array value.
	ARRAY = "array"
	// OBJECT represent a object value.
	OBJECT = "object"
	// BOOLEAN represent a boolean value.
	BOOLEAN = "boolean"
	// INTEGER represent a integer value.
	INTEGER = "integer"
	// NUMBER represent a number value.
	NUMBER = "number"
	// STRING represent a string value.
	STRING = "string"
	// NULL represent a null value.
	NULL = "null"
	// ANY represent a any value.
	ANY = "any"
)

const (
	// IgnoreNameOverridePrefix character used in name comment to disable an override
	IgnoreNameOverridePrefix = '!'
)

var overrideNameRegex = regexp.MustCompile(`(?im)^\s*@name\s+(\S+)`)

// IsGolangPrimitiveType checks if a type is a Go primitive type.
// For extended primitives (time.Time, UUID, decimal) use IsExtendedPrimitiveType.
func IsGolangPrimitiveType(typeName string) bool {
	switch typeName {
	case "uint",
		"int",
		"uint8",
		"int8",
		"uint16",
		"int16",
		"byte",
		"uint32",
		"int32",
		"rune",
		"uint64",
		"int64",
		"uintptr",
		"float32",
		"float64",
		"bool",
		"string":
		return true
	}

	return false
}

// IsExtendedPrimitiveType checks if a qualified type is described as a primitive,
// including time.Time, UUID and decimal types.
func IsExtendedPrimitiveType(typeName string) bool {
	cleanType := strings.TrimPrefix(typeName, "*")

	if IsGolangPrimitiveType(cleanType) {
		return true
	}

	_, ok := extendedPrimitives[cleanType]
	return ok
}

var extendedPrimitives = map[string]Primitive{
	"time.Time":                             {Type: STRING, Format: "date-time"},
	"time.Duration":                         {Type: INTEGER, Format: "int64"},
	"github.com/google/uuid.UUID":           {Type: STRING, Format: "uuid"},
	"github.com/gofrs/uuid.UUID":            {Type: STRING, Format: "uuid"},
	"github.com/griffnb/core/lib/types.UUID": {Type: STRING, Format: "uuid"},
	"github.com/shopspring/decimal.Decimal": {Type: NUMBER},
	"encoding/json.RawMessage":              {},
	"encoding/json.Number":                  {Type: NUMBER},
	"net/url.URL":                           {Type: STRING, Format: "uri"},
	"net.IP":                                {Type: STRING, Format: "ipv4"},
	"math/big.Int":                          {Type: INTEGER},
	"math/big.Float":                        {Type: NUMBER},
}

// TransToValidPrimitive maps a Go basic or extended primitive to its JSON type and format.
// The boolean is false when typeName is not a known primitive.
func TransToValidPrimitive(typeName string) (Primitive, bool) {
	cleanType := strings.TrimPrefix(typeName, "*")

	switch cleanType {
	case "int", "uint", "uintptr":
		return Primitive{Type: INTEGER}, true
	case "uint8", "int8", "uint16", "int16", "byte", "int32", "uint32", "rune":
		return Primitive{Type: INTEGER, Format: "int32"}, true
	case "uint64", "int64":
		return Primitive{Type: INTEGER, Format: "int64"}, true
	case "float32":
		return Primitive{Type: NUMBER, Format: "float"}, true
	case "float64":
		return Primitive{Type: NUMBER, Format: "double"}, true
	case "bool":
		return Primitive{Type: BOOLEAN}, true
	case "string":
		return Primitive{Type: STRING}, true
	case "[]byte", "[]uint8":
		return Primitive{Type: STRING, Format: "byte"}, true
	case ANY, "interface{}", "interface {}":
		return Primitive{}, true
	}
	p, ok := extendedPrimitives[cleanType]
	return p, ok
}

// PrimitiveKeyword maps a keyword used in manifests and override files
// ("integer", "int64", "uuid", ...) to a primitive.
func PrimitiveKeyword(keyword string) (Primitive, bool) {
	switch strings.ToLower(keyword) {
	case STRING:
		return Primitive{Type: STRING}, true
	case INTEGER:
		return Primitive{Type: INTEGER}, true
	case NUMBER:
		return Primitive{Type: NUMBER}, true
	case BOOLEAN:
		return Primitive{Type: BOOLEAN}, true
	case NULL:
		return Primitive{Type: NULL}, true
	case "date-time", "datetime":
		return Primitive{Type: STRING, Format: "date-time"}, true
	case "uuid":
		return Primitive{Type: STRING, Format: "uuid"}, true
	case "double":
		return Primitive{Type: NUMBER, Format: "double"}, true
	}
	return TransToValidPrimitive(keyword)
}

// IgnoreNameOverride reports whether an @name value is disabled with '!'.
func IgnoreNameOverride(name string) bool {
	return len(name) != 0 && name[0] == IgnoreNameOverridePrefix
}

// NameOverride returns the value of the first `@name X` line in doc.
func NameOverride(doc string) string {
	texts := overrideNameRegex.FindStringSubmatch(doc)
	if len(texts) > 1 && !IgnoreNameOverride(texts[1]) {
		return texts[1]
	}

	return ""
}
