// Package manifest reads a declarative type model from YAML or JSON so hosts
// other than Go can feed the translator.
package manifest

import (
	"fmt"
	"io"
	"os"

	"github.com/griffnb/core-jsonschema/internal/domain"
	"sigs.k8s.io/yaml"
)

// Manifest is the document root.
type Manifest struct {
	// Roots type references translated as the document roots; every declared type when empty
	Roots []string `json:"roots,omitempty"`
	Types []Type   `json:"types"`
}

// Type declares one named type.
type Type struct {
	Name    string   `json:"name"`
	Package string   `json:"package,omitempty"`
	Args    []string `json:"args,omitempty"`
	Kind    string   `json:"kind"`
	Doc     string   `json:"doc,omitempty"`

	// primitive
	Primitive string `json:"primitive,omitempty"`
	Format    string `json:"format,omitempty"`

	// enum
	Values []Value `json:"values,omitempty"`

	// composite
	Members []Member `json:"members,omitempty"`
	Supers  []string `json:"supers,omitempty"`

	// collection and map
	Elem  string `json:"elem,omitempty"`
	Key   string `json:"key,omitempty"`
	Value string `json:"value,omitempty"`

	// union
	Variants  []string `json:"variants,omitempty"`
	Exclusive bool     `json:"exclusive,omitempty"`

	// unsupported
	Reason string `json:"reason,omitempty"`
}

// Member declares a composite member.
type Member struct {
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	Required bool        `json:"required,omitempty"`
	Default  interface{} `json:"default,omitempty"`
	Doc      string      `json:"doc,omitempty"`
}

// Value declares an enum literal.
type Value struct {
	Key     string      `json:"key,omitempty"`
	Value   interface{} `json:"value"`
	Comment string      `json:"comment,omitempty"`
}

// Identity returns the identity the type is declared under.
func (t Type) Identity() domain.Identity {
	id := domain.Identity{Package: t.Package, Name: t.Name}
	for _, arg := range t.Args {
		ref, err := ParseTypeRef(arg)
		if err != nil {
			id.Args = append(id.Args, arg)
			continue
		}
		id.Args = append(id.Args, ref.ID.String())
	}
	return id
}

// Parse decodes a YAML or JSON manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.UnmarshalStrict(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// Read decodes a manifest from r.
func Read(r io.Reader) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(data)
}

// LoadFile reads and builds the catalog of a manifest file.
func LoadFile(path string) (*domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m.Catalog()
}
