// Package schema translates type descriptors into JSON Schema fragments.
package schema

import (
	"fmt"

	"github.com/go-openapi/spec"
	"github.com/griffnb/core-jsonschema/internal/comment"
	"github.com/griffnb/core-jsonschema/internal/domain"
	"github.com/griffnb/core-jsonschema/internal/registry"
)

const (
	enumVarNamesExtension     = "x-enum-varnames"
	enumDescriptionsExtension = "x-enum-descriptions"
	tagsExtension             = "x-tags"
	orderExtension            = "x-order"
)

// Debugger is the interface that wraps the basic Printf method.
type Debugger interface {
	Printf(format string, v ...interface{})
}

type noOpDebugger struct{}

func (n *noOpDebugger) Printf(format string, v ...interface{}) {}

// Translator converts descriptors into fragments for a single run. Named
// descriptors are registered in the registry and returned as references.
type Translator struct {
	source   domain.Source
	registry *registry.Service
	titles   bool
	emitTags bool
	debug    Debugger
	warnings []domain.Warning
	warned   map[string]struct{}
}

// Option is a functional option for configuring Translator
type Option func(*Translator)

// WithTitles derives a title for every definition from its name.
func WithTitles(enabled bool) Option {
	return func(t *Translator) {
		t.titles = enabled
	}
}

// WithEmitTags emits unrecognized comment tags under x-tags.
func WithEmitTags(enabled bool) Option {
	return func(t *Translator) {
		t.emitTags = enabled
	}
}

// WithDebugger sets the debugger for logging
func WithDebugger(debugger Debugger) Option {
	return func(t *Translator) {
		if debugger != nil {
			t.debug = debugger
		}
	}
}

// NewTranslator creates a translator pulling descriptors from source.
func NewTranslator(source domain.Source, reg *registry.Service, options ...Option) *Translator {
	t := &Translator{
		source:   source,
		registry: reg,
		debug:    &noOpDebugger{},
		warned:   make(map[string]struct{}),
	}

	for _, opt := range options {
		opt(t)
	}

	return t
}

// Warnings returns the warnings collected so far.
func (t *Translator) Warnings() []domain.Warning {
	return t.warnings
}

// Registry returns the registry of this run.
func (t *Translator) Registry() *registry.Service {
	return t.registry
}

// Translate converts a descriptor into a fragment. Named kinds yield a
// reference to their definition. The only error that escapes is fatal.
func (t *Translator) Translate(descriptor *domain.TypeDescriptor) (*spec.Schema, error) {
	if descriptor == nil {
		return &spec.Schema{}, nil
	}

	if descriptor.Kind == domain.KindReference {
		return t.translateReference(descriptor.ID)
	}

	if descriptor.Named() {
		return t.translateNamed(descriptor)
	}

	return t.build(descriptor)
}

func (t *Translator) translateReference(id domain.Identity) (*spec.Schema, error) {
	if name, ok := t.registry.Lookup(id); ok {
		t.traceReuse(id, name)
		return t.registry.Ref(name), nil
	}

	descriptor, err := t.source.Descriptor(id)
	if err != nil {
		if unsupported, ok := domain.IsUnsupported(err); ok {
			return t.fallback(unsupported), nil
		}
		return nil, fmt.Errorf("resolve %s: %w", id, err)
	}
	if descriptor.Kind == domain.KindReference {
		return nil, fmt.Errorf("resolve %s: source returned another reference", id)
	}

	// reached by identity, so it is a declared type with its own definition
	// even when it has no package
	switch descriptor.Kind {
	case domain.KindCollection, domain.KindMap:
		if descriptor.ID.Name == "" {
			declared := *descriptor
			declared.ID = id
			descriptor = &declared
		}
		return t.translateNamed(descriptor)
	}

	return t.Translate(descriptor)
}

func (t *Translator) translateNamed(descriptor *domain.TypeDescriptor) (*spec.Schema, error) {
	if name, ok := t.registry.Lookup(descriptor.ID); ok {
		t.traceReuse(descriptor.ID, name)
		return t.registry.Ref(name), nil
	}

	name := t.registry.Resolve(descriptor)
	if err := t.registry.Begin(descriptor.ID); err != nil {
		return nil, err
	}

	fragment, err := t.build(descriptor)
	if err != nil {
		return nil, err
	}

	t.decorateDefinition(name, fragment)

	if err := t.registry.Register(name, *fragment); err != nil {
		return nil, fmt.Errorf("%s: %w", descriptor.ID, err)
	}
	t.registry.Finish(descriptor.ID)

	t.debug.Printf("Translator: defined %s as %s", descriptor.ID, name)

	return t.registry.Ref(name), nil
}

func (t *Translator) traceReuse(id domain.Identity, name string) {
	if t.registry.State(id) == registry.InProgress {
		t.debug.Printf("Translator: cycle-breaking reference to %s", name)
	}
}

// build dispatches on kind and produces the fragment body.
func (t *Translator) build(descriptor *domain.TypeDescriptor) (*spec.Schema, error) {
	var (
		fragment *spec.Schema
		err      error
	)

	switch descriptor.Kind {
	case domain.KindPrimitive:
		return PrimitiveSchema(descriptor.Primitive), nil
	case domain.KindEnum:
		fragment = t.buildEnum(descriptor)
	case domain.KindCollection:
		fragment, err = t.buildCollection(descriptor)
	case domain.KindMap:
		fragment, err = t.buildMap(descriptor)
	case domain.KindComposite:
		fragment, err = t.buildComposite(descriptor)
	case domain.KindUnion:
		fragment, err = t.buildUnion(descriptor)
	case domain.KindUnsupported:
		unsupported := descriptor.Unsupported
		if unsupported == nil {
			unsupported = &domain.UnsupportedTypeError{ID: descriptor.ID, Reason: "no reason given"}
		}
		return t.fallback(unsupported), nil
	case domain.KindReference:
		return t.translateReference(descriptor.ID)
	default:
		return t.fallback(&domain.UnsupportedTypeError{
			ID:     descriptor.ID,
			Reason: fmt.Sprintf("unknown kind %d", descriptor.Kind),
		}), nil
	}
	if err != nil {
		return nil, err
	}

	t.annotate(descriptor.ID, fragment, comment.Parse(descriptor.Doc))

	return fragment, nil
}

func (t *Translator) buildEnum(descriptor *domain.TypeDescriptor) *spec.Schema {
	fragment := &spec.Schema{}

	var (
		varNames     = make([]string, 0, len(descriptor.Values))
		descriptions = make([]string, 0, len(descriptor.Values))
		described    bool
		jsonType     string
	)
	for i, value := range descriptor.Values {
		fragment.Enum = append(fragment.Enum, value.Value)
		varNames = append(varNames, value.Key)
		descriptions = append(descriptions, value.Comment)
		if value.Comment != "" {
			described = true
		}

		valueType := jsonTypeOf(value.Value)
		if i == 0 {
			jsonType = valueType
		} else if jsonType != valueType {
			jsonType = ""
		}
	}

	if jsonType != "" {
		fragment.Type = spec.StringOrArray{jsonType}
	}
	if hasNames(varNames, descriptor.Values) {
		fragment.AddExtension(enumVarNamesExtension, varNames)
	}
	if described {
		fragment.AddExtension(enumDescriptionsExtension, descriptions)
	}

	return fragment
}

// hasNames reports whether the keys add information over the values.
func hasNames(names []string, values []domain.EnumValue) bool {
	for i, name := range names {
		if name == "" {
			return false
		}
		if s, ok := values[i].Value.(string); !ok || s != name {
			return true
		}
	}
	return false
}

func (t *Translator) buildCollection(descriptor *domain.TypeDescriptor) (*spec.Schema, error) {
	items, err := t.Translate(descriptor.Elem)
	if err != nil {
		return nil, err
	}
	return spec.ArrayProperty(items), nil
}

func (t *Translator) buildMap(descriptor *domain.TypeDescriptor) (*spec.Schema, error) {
	if descriptor.Key != nil && !t.stringCoercible(descriptor.Key) {
		t.warn(descriptor.ID, fmt.Sprintf("map key type %s is not a string; keys are assumed to be string-coercible", descriptor.Key.ID))
	}

	value, err := t.Translate(descriptor.Value)
	if err != nil {
		return nil, err
	}
	return spec.MapProperty(value), nil
}

func (t *Translator) stringCoercible(key *domain.TypeDescriptor) bool {
	if key.Kind == domain.KindReference {
		full, err := t.source.Descriptor(key.ID)
		if err != nil {
			return false
		}
		key = full
	}

	switch key.Kind {
	case domain.KindPrimitive:
		return key.Primitive.Type == domain.STRING
	case domain.KindEnum:
		for _, v := range key.Values {
			if _, ok := v.Value.(string); !ok {
				return false
			}
		}
		return true
	}
	return false
}

func (t *Translator) buildComposite(descriptor *domain.TypeDescriptor) (*spec.Schema, error) {
	supers := make([]spec.Schema, 0, len(descriptor.Supers))
	for _, super := range descriptor.Supers {
		superSchema, err := t.Translate(super)
		if err != nil {
			return nil, fmt.Errorf("%s embeds %s: %w", descriptor.ID, super.ID, err)
		}
		supers = append(supers, *superSchema)
	}

	own := &spec.Schema{
		SchemaProps: spec.SchemaProps{
			Type:       spec.StringOrArray{domain.OBJECT},
			Properties: make(spec.SchemaProperties, len(descriptor.Members)),
		},
	}

	for _, member := range descriptor.Members {
		if _, exists := own.Properties[member.Name]; exists {
			t.warn(descriptor.ID, fmt.Sprintf("member %s declared twice, keeping the first", member.Name))
			continue
		}

		memberSchema, err := t.Translate(member.Type)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", descriptor.ID, member.Name, err)
		}

		t.annotateMember(descriptor.ID, memberSchema, member)
		own.Properties[member.Name] = withOrder(*memberSchema, len(own.Properties))

		if member.Required {
			own.Required = append(own.Required, member.Name)
		}
	}

	if len(own.Properties) == 0 && len(supers) > 0 {
		own.Properties = nil
	}

	return buildAllOfSchema(supers, own), nil
}

func (t *Translator) buildUnion(descriptor *domain.TypeDescriptor) (*spec.Schema, error) {
	variants := make([]spec.Schema, 0, len(descriptor.Variants))
	for _, variant := range descriptor.Variants {
		variantSchema, err := t.Translate(variant)
		if err != nil {
			return nil, fmt.Errorf("%s variant %s: %w", descriptor.ID, variant.ID, err)
		}
		variants = append(variants, *variantSchema)
	}

	fragment := &spec.Schema{}
	if descriptor.Exclusive {
		fragment.OneOf = variants
	} else {
		fragment.AnyOf = variants
	}
	return fragment, nil
}

// fallback is the permissive schema substituted for an unsupported type.
func (t *Translator) fallback(unsupported *domain.UnsupportedTypeError) *spec.Schema {
	t.warn(unsupported.ID, unsupported.Error())
	return &spec.Schema{
		SchemaProps: spec.SchemaProps{
			Description: "@" + comment.TagWarning + " " + unsupported.Error(),
		},
	}
}

func (t *Translator) warn(id domain.Identity, message string) {
	key := id.String() + "\x00" + message
	if _, seen := t.warned[key]; seen {
		return
	}
	t.warned[key] = struct{}{}
	t.debug.Printf("Translator: warning: %s: %s", id, message)
	t.warnings = append(t.warnings, domain.Warning{ID: id, Message: message})
}

// withOrder stamps the declaration position so properties serialize in
// member order rather than by name.
func withOrder(fragment spec.Schema, position int) spec.Schema {
	extensions := make(spec.Extensions, len(fragment.Extensions)+1)
	for k, v := range fragment.Extensions {
		extensions[k] = v
	}
	extensions.Add(orderExtension, float64(position))
	fragment.Extensions = extensions
	return fragment
}
