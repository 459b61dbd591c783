package manifest

import (
	"fmt"

	"github.com/griffnb/core-jsonschema/internal/domain"
)

// Catalog converts the manifest into a descriptor source. A type with an
// unknown kind or an unresolvable reference fails on its own without
// affecting the others; structural problems of the manifest are errors.
func (m *Manifest) Catalog() (*domain.Catalog, error) {
	catalog := domain.NewCatalog()
	declared := make(map[string]struct{}, len(m.Types))

	for i, t := range m.Types {
		if t.Name == "" {
			return nil, fmt.Errorf("types[%d]: name is required", i)
		}
		key := t.Identity().String()
		if _, dup := declared[key]; dup {
			return nil, fmt.Errorf("types[%d]: %s declared twice", i, key)
		}
		declared[key] = struct{}{}
	}

	for _, t := range m.Types {
		id := t.Identity()
		descriptor, err := t.descriptor(id)
		if err != nil {
			reason := err.Error()
			if unsupported, ok := domain.IsUnsupported(err); ok {
				reason = unsupported.Reason
			}
			catalog.Fail(id, reason)
			continue
		}
		if missing := unresolved(descriptor, declared); missing != "" {
			catalog.Fail(id, fmt.Sprintf("unresolved type reference %s", missing))
			continue
		}
		if err := catalog.Add(descriptor); err != nil {
			return nil, err
		}
	}

	if len(m.Roots) == 0 {
		for _, t := range m.Types {
			catalog.AddRoot(t.Identity())
		}
		return catalog, nil
	}

	for _, root := range m.Roots {
		ref, err := ParseTypeRef(root)
		if err != nil {
			return nil, fmt.Errorf("root %q: %w", root, err)
		}
		if ref.Kind != domain.KindReference {
			return nil, fmt.Errorf("root %q: roots must name declared types", root)
		}
		if _, ok := declared[ref.ID.String()]; !ok {
			return nil, fmt.Errorf("root %q: %w", root, domain.ErrNotFound)
		}
		catalog.AddRoot(ref.ID)
	}

	return catalog, nil
}

func (t Type) descriptor(id domain.Identity) (*domain.TypeDescriptor, error) {
	kind, ok := domain.ParseKind(t.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown kind %q", t.Kind)
	}

	d := &domain.TypeDescriptor{ID: id, Kind: kind, Doc: t.Doc}

	var err error
	switch kind {
	case domain.KindPrimitive:
		p, ok := domain.PrimitiveKeyword(t.Primitive)
		if !ok && t.Primitive != "" {
			return nil, fmt.Errorf("unknown primitive %q", t.Primitive)
		}
		if t.Format != "" {
			p.Format = t.Format
		}
		d.Primitive = p
	case domain.KindEnum:
		if len(t.Values) == 0 {
			return nil, fmt.Errorf("enum without values")
		}
		for _, v := range t.Values {
			d.Values = append(d.Values, domain.EnumValue{Key: v.Key, Value: v.Value, Comment: v.Comment})
		}
	case domain.KindCollection:
		d.Elem, err = ParseTypeRef(t.Elem)
	case domain.KindMap:
		d.Key = domain.PrimitiveOf(domain.STRING, "")
		if t.Key != "" {
			if d.Key, err = ParseTypeRef(t.Key); err != nil {
				return nil, err
			}
		}
		d.Value, err = ParseTypeRef(t.Value)
	case domain.KindComposite:
		err = t.composite(d)
	case domain.KindUnion:
		if len(t.Variants) == 0 {
			return nil, fmt.Errorf("union without variants")
		}
		d.Exclusive = t.Exclusive
		for _, variant := range t.Variants {
			ref, verr := ParseTypeRef(variant)
			if verr != nil {
				return nil, verr
			}
			d.Variants = append(d.Variants, ref)
		}
	case domain.KindUnsupported:
		reason := t.Reason
		if reason == "" {
			reason = "declared unsupported"
		}
		return nil, &domain.UnsupportedTypeError{ID: id, Reason: reason}
	case domain.KindReference:
		return nil, fmt.Errorf("kind reference cannot be declared")
	}
	if err != nil {
		return nil, err
	}

	return d, nil
}

func (t Type) composite(d *domain.TypeDescriptor) error {
	for _, super := range t.Supers {
		ref, err := ParseTypeRef(super)
		if err != nil {
			return err
		}
		if ref.Kind != domain.KindReference {
			return fmt.Errorf("supertype %s is not a declared type", super)
		}
		d.Supers = append(d.Supers, ref)
	}

	for _, m := range t.Members {
		if m.Name == "" {
			return fmt.Errorf("member without name")
		}
		ref, err := ParseTypeRef(m.Type)
		if err != nil {
			return fmt.Errorf("member %s: %w", m.Name, err)
		}
		d.Members = append(d.Members, domain.MemberDescriptor{
			Name:     m.Name,
			Type:     ref,
			Required: m.Required,
			Default:  m.Default,
			Doc:      m.Doc,
		})
	}
	return nil
}

// unresolved returns the first reference in d that names an undeclared type.
func unresolved(d *domain.TypeDescriptor, declared map[string]struct{}) string {
	if d == nil {
		return ""
	}
	if d.Kind == domain.KindReference {
		if _, ok := declared[d.ID.String()]; !ok {
			return d.ID.String()
		}
		return ""
	}

	children := []*domain.TypeDescriptor{d.Elem, d.Key, d.Value}
	children = append(children, d.Supers...)
	children = append(children, d.Variants...)
	for _, m := range d.Members {
		children = append(children, m.Type)
	}
	for _, child := range children {
		if missing := unresolved(child, declared); missing != "" {
			return missing
		}
	}
	return ""
}
