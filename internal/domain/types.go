// Package domain contains the language-agnostic type model shared by the
// adapters, the schema registry and the translator.
// A TypeDescriptor is a tagged variant: Kind selects which fields are meaningful.
package domain

import (
	"strings"
)

// Kind discriminates a TypeDescriptor.
type Kind int

const (
	// KindPrimitive a JSON primitive, optionally with a format.
	KindPrimitive Kind = iota
	// KindEnum a closed set of literal values.
	KindEnum
	// KindCollection an ordered collection of Elem.
	KindCollection
	// KindMap a string keyed mapping of Key to Value.
	KindMap
	// KindComposite an object with members and optional supertypes.
	KindComposite
	// KindUnion one of several variants.
	KindUnion
	// KindReference points at another descriptor by identity only.
	KindReference
	// KindUnsupported a type the adapter could not represent.
	KindUnsupported
)

var kindNames = [...]string{
	KindPrimitive:   "primitive",
	KindEnum:        "enum",
	KindCollection:  "collection",
	KindMap:         "map",
	KindComposite:   "composite",
	KindUnion:       "union",
	KindReference:   "reference",
	KindUnsupported: "unsupported",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind parses the textual form produced by Kind.String.
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if strings.EqualFold(name, s) {
			return Kind(i), true
		}
	}
	switch strings.ToLower(s) {
	case "object", "struct", "class":
		return KindComposite, true
	case "array", "list", "slice":
		return KindCollection, true
	}
	return 0, false
}

// Identity names one concrete type usage. Two instantiations of the same
// generic declaration differ in Args.
type Identity struct {
	// Package import path, empty for builtins and anonymous types
	Package string
	// Name declared type name, or the type expression for anonymous types
	Name string
	// Args fully qualified generic arguments
	Args []string
	// ArgNames short display form of Args, used for naming only
	ArgNames []string
}

// String returns the canonical key of the identity.
func (id Identity) String() string {
	var sb strings.Builder
	if id.Package != "" {
		sb.WriteString(id.Package)
		sb.WriteByte('.')
	}
	sb.WriteString(id.Name)
	if len(id.Args) > 0 {
		sb.WriteByte('[')
		sb.WriteString(strings.Join(id.Args, ","))
		sb.WriteByte(']')
	}
	return sb.String()
}

// IsZero reports whether the identity is empty.
func (id Identity) IsZero() bool {
	return id.Package == "" && id.Name == "" && len(id.Args) == 0
}

// Equal compares two identities by canonical key.
func (id Identity) Equal(other Identity) bool {
	return id.String() == other.String()
}

// SimpleName is the unqualified name with the generic argument signature appended.
//
//	Box[int, geo.Point] -> Box_int_Point
func (id Identity) SimpleName() string {
	if len(id.Args) == 0 {
		return id.Name
	}
	names := id.ArgNames
	if len(names) != len(id.Args) {
		names = make([]string, len(id.Args))
		for i, arg := range id.Args {
			names[i] = shortTypeName(arg)
		}
	}
	parts := make([]string, 0, len(names)+1)
	parts = append(parts, id.Name)
	for _, n := range names {
		parts = append(parts, SanitizeName(n))
	}
	return strings.Join(parts, "_")
}

// NewIdentity builds an identity from a qualified name like "github.com/x/geo.Point".
func NewIdentity(qualified string) Identity {
	idx := strings.LastIndex(qualified, ".")
	slash := strings.LastIndex(qualified, "/")
	if idx <= 0 || idx < slash {
		return Identity{Name: qualified}
	}
	return Identity{Package: qualified[:idx], Name: qualified[idx+1:]}
}

// shortTypeName strips package paths from a type expression.
//
//	[]github.com/x/geo.Point -> []Point
func shortTypeName(typeName string) string {
	var (
		sb    strings.Builder
		token strings.Builder
	)
	flush := func() {
		t := token.String()
		if i := strings.LastIndex(t, "."); i >= 0 {
			t = t[i+1:]
		}
		sb.WriteString(t)
		token.Reset()
	}
	for _, r := range typeName {
		switch r {
		case '[', ']', '*', ',', ' ':
			flush()
			sb.WriteRune(r)
		default:
			token.WriteRune(r)
		}
	}
	flush()
	return sb.String()
}

// SanitizeName maps characters that do not read well in a definition name to '_'.
func SanitizeName(name string) string {
	name = strings.NewReplacer("[]", "Array_", "*", "", "map[", "Map_").Replace(name)
	return strings.Map(func(r rune) rune {
		switch r {
		case '\\', '/', '.', '-', '[', ']', ',', ' ':
			return '_'
		}
		return r
	}, name)
}

// Primitive is the JSON type and format of a primitive descriptor.
// An empty Type means any value.
type Primitive struct {
	Type   string
	Format string
}

// EnumValue an enum literal.
type EnumValue struct {
	Key     string
	Value   interface{}
	Comment string
}

// MemberDescriptor a member of a composite.
type MemberDescriptor struct {
	Name     string
	Type     *TypeDescriptor
	Required bool
	// Default nil when the member has no default value
	Default interface{}
	Doc     string
}

// TypeDescriptor the normalized form of one concrete type usage.
type TypeDescriptor struct {
	ID   Identity
	Kind Kind
	Doc  string

	// KindPrimitive
	Primitive Primitive

	// KindEnum, in declaration order
	Values []EnumValue

	// KindComposite
	Members []MemberDescriptor
	// Supers are references to embedded supertypes
	Supers []*TypeDescriptor

	// KindCollection and KindMap
	Elem  *TypeDescriptor
	Key   *TypeDescriptor
	Value *TypeDescriptor

	// KindUnion
	Variants []*TypeDescriptor
	// Exclusive variants are mutually exclusive by construction
	Exclusive bool

	// KindUnsupported
	Unsupported *UnsupportedTypeError
}

// Named reports whether the descriptor should live in the definitions table.
func (t *TypeDescriptor) Named() bool {
	if t == nil || t.ID.Name == "" {
		return false
	}
	switch t.Kind {
	case KindEnum, KindComposite, KindUnion:
		return true
	case KindCollection, KindMap:
		return t.ID.Package != ""
	}
	return false
}

// Ref creates a reference descriptor for id.
func Ref(id Identity) *TypeDescriptor {
	return &TypeDescriptor{ID: id, Kind: KindReference}
}

// PrimitiveOf creates an anonymous primitive descriptor.
func PrimitiveOf(jsonType, format string) *TypeDescriptor {
	name := jsonType
	if name == "" {
		name = ANY
	}
	return &TypeDescriptor{
		ID:        Identity{Name: name},
		Kind:      KindPrimitive,
		Primitive: Primitive{Type: jsonType, Format: format},
	}
}

// Unsupported creates an inline unsupported descriptor.
func Unsupported(id Identity, reason string) *TypeDescriptor {
	return &TypeDescriptor{
		ID:          id,
		Kind:        KindUnsupported,
		Unsupported: &UnsupportedTypeError{ID: id, Reason: reason},
	}
}

// Source supplies descriptors on demand.
type Source interface {
	// Roots returns the root identities in order.
	Roots() []Identity
	// Descriptor returns the full descriptor for id. It returns an
	// *UnsupportedTypeError for types it cannot represent.
	Descriptor(id Identity) (*TypeDescriptor, error)
}

// Warning a non-fatal problem attached to a generated document.
type Warning struct {
	ID      Identity
	Message string
}

func (w Warning) String() string {
	if w.ID.IsZero() {
		return w.Message
	}
	return w.ID.String() + ": " + w.Message
}
