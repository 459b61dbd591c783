// Package document assembles the translated definitions of a set of root
// types into one self contained JSON Schema document.
package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-openapi/spec"
	"github.com/griffnb/core-jsonschema/internal/domain"
	"github.com/griffnb/core-jsonschema/internal/registry"
	"github.com/griffnb/core-jsonschema/internal/schema"
)

// Dialect selects the JSON Schema draft of the document.
type Dialect string

const (
	// Draft07 uses "definitions" and #/definitions/ references.
	Draft07 Dialect = "draft-07"
	// Draft2020 uses "$defs" and #/$defs/ references.
	Draft2020 Dialect = "2020-12"
)

// SchemaURI is the $schema value of the dialect.
func (d Dialect) SchemaURI() string {
	if d == Draft2020 {
		return "https://json-schema.org/draft/2020-12/schema"
	}
	return "http://json-schema.org/draft-07/schema#"
}

// DefinitionsKey is the top level keyword holding the definitions.
func (d Dialect) DefinitionsKey() string {
	if d == Draft2020 {
		return "$defs"
	}
	return "definitions"
}

// RefPrefix is the JSON pointer prefix of references into the definitions.
func (d Dialect) RefPrefix() string {
	if d == Draft2020 {
		return registry.DefsPrefix
	}
	return registry.DefinitionsPrefix
}

// ParseDialect accepts "draft-07", "draft7", "2020-12" and "draft-2020-12".
func ParseDialect(s string) (Dialect, error) {
	switch s {
	case "", "draft-07", "draft07", "draft7", "7":
		return Draft07, nil
	case "2020-12", "draft-2020-12", "draft2020-12":
		return Draft2020, nil
	}
	return "", fmt.Errorf("unknown JSON Schema dialect %q", s)
}

// Debugger is the interface that wraps the basic Printf method.
type Debugger interface {
	Printf(format string, v ...interface{})
}

// Options configures one assembly.
type Options struct {
	Dialect  Dialect
	Titles   bool
	EmitTags bool
	Debugger Debugger
}

// Document is a generated schema document. It does no I/O.
type Document struct {
	Dialect Dialect
	// Roots the root identities in the order they were requested
	Roots []domain.Identity
	// Root is {$ref} for one root and {anyOf: [$ref...]} for several
	Root        spec.Schema
	Definitions []registry.Definition
	Warnings    []domain.Warning
}

// Assemble translates roots with a fresh registry and collects the result.
func Assemble(ctx context.Context, source domain.Source, roots []domain.Identity, opts Options) (*Document, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("no root types to assemble")
	}
	if opts.Dialect == "" {
		opts.Dialect = Draft07
	}

	reg := registry.NewService(
		registry.WithRefPrefix(opts.Dialect.RefPrefix()),
		registry.WithDebugger(opts.Debugger),
	)
	translator := schema.NewTranslator(source, reg,
		schema.WithTitles(opts.Titles),
		schema.WithEmitTags(opts.EmitTags),
		schema.WithDebugger(opts.Debugger),
	)

	refs := make([]spec.Schema, 0, len(roots))
	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ref, err := translateRoot(translator, reg, source, root)
		if err != nil {
			return nil, fmt.Errorf("root %s: %w", root, err)
		}
		refs = append(refs, *ref)
	}

	doc := &Document{
		Dialect:     opts.Dialect,
		Roots:       roots,
		Definitions: reg.Definitions(),
		Warnings:    translator.Warnings(),
	}
	if len(refs) == 1 {
		doc.Root = refs[0]
	} else {
		doc.Root = spec.Schema{SchemaProps: spec.SchemaProps{AnyOf: refs}}
	}

	if err := doc.checkReferences(reg); err != nil {
		return nil, err
	}

	return doc, nil
}

// translateRoot returns a reference to the root's definition. Roots that
// translate inline, such as primitives or unsupported types, are defined
// under their own name so the document always points into its definitions.
func translateRoot(translator *schema.Translator, reg *registry.Service, source domain.Source, root domain.Identity) (*spec.Schema, error) {
	fragment, err := translator.Translate(domain.Ref(root))
	if err != nil {
		return nil, err
	}
	if schema.IsRefSchema(fragment) {
		return fragment, nil
	}

	if name, ok := reg.Lookup(root); ok {
		return reg.Ref(name), nil
	}

	descriptor, err := source.Descriptor(root)
	if err != nil {
		descriptor = &domain.TypeDescriptor{ID: root}
	}

	name := reg.Resolve(descriptor)
	if err := reg.Begin(root); err != nil {
		return nil, err
	}
	if err := reg.Register(name, *fragment); err != nil {
		return nil, err
	}
	reg.Finish(root)

	return reg.Ref(name), nil
}

// checkReferences verifies that every reference resolves to a definition.
func (d *Document) checkReferences(reg *registry.Service) error {
	defined := make(map[string]struct{}, len(d.Definitions))
	for _, def := range d.Definitions {
		defined[def.Name] = struct{}{}
	}

	check := func(owner string, s *spec.Schema) error {
		for _, ref := range schema.CollectRefs(s) {
			name, ok := reg.RefName(ref)
			if !ok {
				return fmt.Errorf("%s: reference %s is outside %s", owner, ref, reg.RefPrefix())
			}
			if _, ok := defined[name]; !ok {
				return fmt.Errorf("%s: dangling reference %s", owner, ref)
			}
		}
		return nil
	}

	if err := check("document root", &d.Root); err != nil {
		return err
	}
	for i := range d.Definitions {
		if err := check(d.Definitions[i].Name, &d.Definitions[i].Schema); err != nil {
			return err
		}
	}
	return nil
}

// Definition returns the named definition.
func (d *Document) Definition(name string) (spec.Schema, bool) {
	for _, def := range d.Definitions {
		if def.Name == name {
			return def.Schema, true
		}
	}
	return spec.Schema{}, false
}

// Names returns the definition names in document order.
func (d *Document) Names() []string {
	names := make([]string, 0, len(d.Definitions))
	for _, def := range d.Definitions {
		names = append(names, def.Name)
	}
	return names
}

// RootName returns the definition name a single root document points to.
func (d *Document) RootName() (string, bool) {
	if !schema.IsRefSchema(&d.Root) {
		return "", false
	}
	name, ok := strings.CutPrefix(d.Root.Ref.String(), d.Dialect.RefPrefix())
	return name, ok && name != ""
}
