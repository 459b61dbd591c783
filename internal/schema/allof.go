package schema

import (
	"github.com/go-openapi/spec"
	"github.com/griffnb/core-jsonschema/internal/domain"
)

// buildAllOfSchema composes a subtype from its supertypes and its own members.
//
// Examples:
//   - [$ref Shape] + {radius} → allOf: [{$ref: Shape}, {type: object, properties: {radius}}]
//   - [] + {radius} → {type: object, properties: {radius}} (no composition needed)
//   - [$ref A, $ref B] + {} → allOf: [{$ref: A}, {$ref: B}, {type: object}]
func buildAllOfSchema(supers []spec.Schema, own *spec.Schema) *spec.Schema {
	if own == nil {
		own = &spec.Schema{SchemaProps: spec.SchemaProps{Type: spec.StringOrArray{domain.OBJECT}}}
	}

	if len(supers) == 0 {
		return own
	}

	parts := make([]spec.Schema, 0, len(supers)+1)
	parts = append(parts, supers...)
	parts = append(parts, *own)

	return spec.ComposedSchema(parts...)
}
