package schema

import (
	"github.com/go-openapi/spec"
)

// IsRefSchema determines whether a schema is a reference schema.
func IsRefSchema(schema *spec.Schema) bool {
	if schema == nil {
		return false
	}
	return schema.Ref.Ref.GetURL() != nil
}

// CollectRefs returns every $ref string reachable inside schema, in traversal order.
func CollectRefs(schema *spec.Schema) []string {
	var refs []string
	walkRefs(schema, func(ref string) {
		refs = append(refs, ref)
	})
	return refs
}

func walkRefs(schema *spec.Schema, visit func(string)) {
	if schema == nil {
		return
	}
	if IsRefSchema(schema) {
		visit(schema.Ref.String())
	}

	if schema.Items != nil {
		walkRefs(schema.Items.Schema, visit)
		for i := range schema.Items.Schemas {
			walkRefs(&schema.Items.Schemas[i], visit)
		}
	}
	if schema.AdditionalProperties != nil {
		walkRefs(schema.AdditionalProperties.Schema, visit)
	}
	for _, name := range sortedKeys(schema.Properties) {
		property := schema.Properties[name]
		walkRefs(&property, visit)
	}
	for _, group := range [][]spec.Schema{schema.AllOf, schema.AnyOf, schema.OneOf} {
		for i := range group {
			walkRefs(&group[i], visit)
		}
	}
}
