package schema

import (
	"encoding/json"
	"strings"

	"github.com/go-openapi/spec"
	"github.com/griffnb/core-jsonschema/internal/comment"
	"github.com/griffnb/core-jsonschema/internal/domain"
)

var recognizedTags = map[string]struct{}{
	comment.TagDeprecated: {},
	comment.TagExample:    {},
	comment.TagDefault:    {},
	comment.TagTitle:      {},
	comment.TagFormat:     {},
	comment.TagName:       {},
}

// annotate copies description and recognized tags from doc onto fragment.
func (t *Translator) annotate(id domain.Identity, fragment *spec.Schema, doc comment.DocComment) {
	for _, w := range doc.Warnings {
		t.warn(id, w.Error())
	}

	if doc.Description != "" {
		fragment.Description = joinDescription(doc.Description, fragment.Description)
	}
	if title, ok := doc.First(comment.TagTitle); ok && title != "" {
		fragment.Title = title
	}
	if format, ok := doc.First(comment.TagFormat); ok && format != "" && !IsRefSchema(fragment) {
		fragment.Format = format
	}
	if example, ok := doc.First(comment.TagExample); ok {
		fragment.Example = decodeValue(example)
	}
	if def, ok := doc.First(comment.TagDefault); ok && fragment.Default == nil {
		fragment.Default = decodeValue(def)
	}
	if doc.Has(comment.TagDeprecated) {
		if fragment.ExtraProps == nil {
			fragment.ExtraProps = make(map[string]interface{})
		}
		fragment.ExtraProps[comment.TagDeprecated] = true
	}

	if t.emitTags {
		extra := make(map[string][]string)
		for _, name := range doc.Order {
			if _, known := recognizedTags[name]; known {
				continue
			}
			extra[name] = doc.Tags[name]
		}
		if len(extra) > 0 {
			fragment.AddExtension(tagsExtension, extra)
		}
	}
}

// annotateMember applies the member's own documentation and default.
func (t *Translator) annotateMember(owner domain.Identity, fragment *spec.Schema, member domain.MemberDescriptor) {
	if member.Default != nil {
		fragment.Default = member.Default
	}
	t.annotate(owner, fragment, comment.Parse(member.Doc))
}

// decorateDefinition sets a derived title on a definition without one.
func (t *Translator) decorateDefinition(name string, fragment *spec.Schema) {
	if !t.titles || fragment.Title != "" {
		return
	}
	fragment.Title = Title(name)
}

func joinDescription(first, second string) string {
	switch {
	case second == "":
		return first
	case first == "":
		return second
	}
	return first + "\n\n" + second
}

// decodeValue parses a tag body as JSON and falls back to the raw text.
func decodeValue(body string) interface{} {
	body = strings.TrimSpace(body)
	var v interface{}
	if err := json.Unmarshal([]byte(body), &v); err == nil {
		return v
	}
	return body
}

// jsonTypeOf returns the JSON type of a Go literal value.
func jsonTypeOf(v interface{}) string {
	switch x := v.(type) {
	case string:
		return domain.STRING
	case bool:
		return domain.BOOLEAN
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return domain.INTEGER
	case float32:
		return domain.NUMBER
	case float64:
		if x == float64(int64(x)) {
			return domain.INTEGER
		}
		return domain.NUMBER
	case json.Number:
		if _, err := x.Int64(); err == nil {
			return domain.INTEGER
		}
		return domain.NUMBER
	case nil:
		return domain.NULL
	}
	return ""
}

// PrimitiveSchema builds an inline primitive schema. An empty type accepts any value.
func PrimitiveSchema(p domain.Primitive) *spec.Schema {
	s := &spec.Schema{}
	if p.Type != "" {
		s.Type = spec.StringOrArray{p.Type}
	}
	s.Format = p.Format
	return s
}
