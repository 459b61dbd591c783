package adapter

import (
	"fmt"
	"go/types"
	"reflect"
	"sort"

	"github.com/griffnb/core-jsonschema/internal/domain"
)

// describeNamed builds the full descriptor of a declared type.
func (s *Service) describeNamed(id domain.Identity, named *types.Named) (*domain.TypeDescriptor, error) {
	doc := s.docs.typeDoc(named.Origin().Obj())

	switch underlying := named.Underlying().(type) {
	case *types.Struct:
		return s.describeStruct(id, underlying, doc), nil
	case *types.Interface:
		return s.describeInterface(id, named, underlying, doc)
	case *types.Basic:
		if values := s.enumValues(named); len(values) > 0 {
			return &domain.TypeDescriptor{ID: id, Kind: domain.KindEnum, Doc: doc, Values: values}, nil
		}
		p, ok := basicPrimitive(underlying)
		if !ok {
			return nil, &domain.UnsupportedTypeError{ID: id, Reason: fmt.Sprintf("%s has no JSON representation", underlying.Name())}
		}
		return primitive(id, p, doc), nil
	case *types.Slice, *types.Array, *types.Map:
		d := s.describeType(underlying)
		d.ID = id
		d.Doc = doc
		return d, nil
	case *types.Pointer:
		d := s.describeType(underlying.Elem())
		if d.Kind != domain.KindReference {
			return d, nil
		}
		target, ok := s.named[d.ID.String()]
		if !ok {
			return nil, fmt.Errorf("%s: %w", d.ID, domain.ErrNotFound)
		}
		return s.describeNamed(d.ID, target)
	case *types.Chan:
		return nil, &domain.UnsupportedTypeError{ID: id, Reason: "channels have no JSON representation"}
	case *types.Signature:
		return nil, &domain.UnsupportedTypeError{ID: id, Reason: "functions have no JSON representation"}
	}

	return nil, &domain.UnsupportedTypeError{ID: id, Reason: fmt.Sprintf("unhandled underlying type %T", named.Underlying())}
}

// describeType describes a type at a use site. Declared types become
// references; everything else is described inline.
func (s *Service) describeType(t types.Type) *domain.TypeDescriptor {
	switch tt := types.Unalias(t).(type) {
	case *types.Pointer:
		return s.describeType(tt.Elem())
	case *types.Named:
		return s.describeNamedUse(tt)
	case *types.Basic:
		if p, ok := basicPrimitive(tt); ok {
			return primitive(domain.Identity{Name: tt.Name()}, p, "")
		}
		return domain.Unsupported(domain.Identity{Name: tt.Name()}, "no JSON representation")
	case *types.Slice:
		return s.describeSequence(tt, tt.Elem(), true)
	case *types.Array:
		return s.describeSequence(tt, tt.Elem(), false)
	case *types.Map:
		return &domain.TypeDescriptor{
			ID:    anonymous(tt),
			Kind:  domain.KindMap,
			Key:   s.describeType(tt.Key()),
			Value: s.describeType(tt.Elem()),
		}
	case *types.Struct:
		return s.describeStruct(anonymous(tt), tt, "")
	case *types.Interface:
		if tt.Empty() {
			return domain.PrimitiveOf("", "")
		}
		return domain.Unsupported(anonymous(tt), "anonymous interfaces with methods have no JSON representation")
	case *types.TypeParam:
		return domain.Unsupported(domain.Identity{Name: tt.Obj().Name()}, "unresolved type parameter")
	case *types.Chan:
		return domain.Unsupported(anonymous(tt), "channels have no JSON representation")
	case *types.Signature:
		return domain.Unsupported(anonymous(tt), "functions have no JSON representation")
	}

	return domain.Unsupported(anonymous(t), fmt.Sprintf("unhandled type %T", t))
}

func (s *Service) describeSequence(t types.Type, elem types.Type, slice bool) *domain.TypeDescriptor {
	if basic, ok := types.Unalias(elem).(*types.Basic); ok && slice && basic.Kind() == types.Byte {
		p, _ := domain.TransToValidPrimitive("[]byte")
		return primitive(anonymous(t), p, "")
	}

	return &domain.TypeDescriptor{
		ID:   anonymous(t),
		Kind: domain.KindCollection,
		Elem: s.describeType(elem),
	}
}

// describeNamedUse applies overrides and well known primitives before falling back to a reference.
func (s *Service) describeNamedUse(named *types.Named) *domain.TypeDescriptor {
	obj := named.Obj()
	if obj.Pkg() == nil {
		return domain.Unsupported(domain.Identity{Name: obj.Name()}, "error values have no JSON representation")
	}

	qualified := qualifiedName(obj)
	if replacement, ok := s.overrides[qualified]; ok && replacement != "" {
		return s.describeReplacement(qualified, replacement)
	}

	return s.reference(named)
}

func (s *Service) describeReplacement(qualified, replacement string) *domain.TypeDescriptor {
	if p, ok := domain.PrimitiveKeyword(replacement); ok {
		return primitive(domain.NewIdentity(qualified), p, "")
	}

	target := s.lookupNamed(domain.NewIdentity(replacement))
	if target == nil {
		return domain.Unsupported(domain.NewIdentity(qualified), fmt.Sprintf("override target %s not found", replacement))
	}
	return s.reference(target)
}

func (s *Service) reference(named *types.Named) *domain.TypeDescriptor {
	id := identityOf(named)
	if named.TypeArgs().Len() == 0 {
		if p, ok := domain.TransToValidPrimitive(id.String()); ok {
			return primitive(id, p, "")
		}
	}

	s.named[id.String()] = named
	return domain.Ref(id)
}

// describeStruct maps fields to members; embedded structs without a json name become supertypes.
func (s *Service) describeStruct(id domain.Identity, st *types.Struct, doc string) *domain.TypeDescriptor {
	d := &domain.TypeDescriptor{ID: id, Kind: domain.KindComposite, Doc: doc}

	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)
		tag := parseTags(reflect.StructTag(st.Tag(i)))
		if tag.Ignore {
			continue
		}

		if field.Embedded() && tag.JSONName == "" {
			if super := s.superOf(field.Type()); super != nil {
				d.Supers = append(d.Supers, super)
				continue
			}
		}
		if !field.Exported() && !s.includeUnexported {
			continue
		}
		if s.skipsType(field.Type()) {
			continue
		}

		name := tag.JSONName
		if name == "" {
			name = ApplyNamingStrategy(field.Name(), s.namingStrategy)
		}

		member := domain.MemberDescriptor{
			Name: name,
			Type: s.describeType(field.Type()),
			Doc:  s.docs.fieldDoc(field),
		}
		if len(tag.Enum) > 0 && member.Type.Kind == domain.KindPrimitive {
			member.Type = enumOf(member.Type, tag.Enum)
		}
		if tag.Default != "" {
			member.Default = decodeTagValue(tag.Default)
		}
		member.Required = tag.Required ||
			(s.requiredByDefault && !isPointer(field.Type()) && !tag.OmitEmpty && !tag.Optional)

		d.Members = append(d.Members, member)
	}

	return d
}

// superOf returns a reference to an embedded struct type, or nil when the
// embedded type is not a declared struct.
func (s *Service) superOf(t types.Type) *domain.TypeDescriptor {
	if ptr, ok := types.Unalias(t).(*types.Pointer); ok {
		t = ptr.Elem()
	}
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return nil
	}
	if _, ok := named.Underlying().(*types.Struct); !ok {
		return nil
	}
	if s.isSkipped(qualifiedName(named.Obj())) {
		return nil
	}

	d := s.describeNamedUse(named)
	if d.Kind != domain.KindReference {
		return nil
	}
	return d
}

func (s *Service) skipsType(t types.Type) bool {
	for {
		switch tt := types.Unalias(t).(type) {
		case *types.Pointer:
			t = tt.Elem()
		case *types.Slice:
			t = tt.Elem()
		case *types.Array:
			t = tt.Elem()
		case *types.Named:
			return s.isSkipped(qualifiedName(tt.Obj()))
		default:
			return false
		}
	}
}

// describeInterface turns a named interface into a union of its implementations.
// An unexported method seals the interface, so its variants are exclusive.
func (s *Service) describeInterface(id domain.Identity, named *types.Named, iface *types.Interface, doc string) (*domain.TypeDescriptor, error) {
	if iface.Empty() {
		return primitive(id, domain.Primitive{}, doc), nil
	}
	if !iface.IsMethodSet() {
		return nil, &domain.UnsupportedTypeError{ID: id, Reason: "constraint interfaces have no JSON representation"}
	}

	implementations := s.implementations(named, iface)
	if len(implementations) == 0 {
		return nil, &domain.UnsupportedTypeError{ID: id, Reason: "no implementation found in the loaded packages"}
	}

	d := &domain.TypeDescriptor{ID: id, Kind: domain.KindUnion, Doc: doc}
	for _, impl := range implementations {
		d.Variants = append(d.Variants, s.describeNamedUse(impl))
	}
	for i := 0; i < iface.NumMethods(); i++ {
		if !iface.Method(i).Exported() {
			d.Exclusive = true
			break
		}
	}

	return d, nil
}

// implementations lists the declared non interface types of the loaded
// packages implementing iface, sorted by identity.
func (s *Service) implementations(named *types.Named, iface *types.Interface) []*types.Named {
	var found []*types.Named
	seen := make(map[string]struct{})

	for _, pkg := range s.packages {
		if pkg.Types == nil {
			continue
		}
		if _, ok := seen[pkg.PkgPath]; ok {
			continue
		}
		seen[pkg.PkgPath] = struct{}{}

		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || tn.IsAlias() {
				continue
			}
			candidate, ok := tn.Type().(*types.Named)
			if !ok || candidate == named || candidate.TypeParams().Len() > 0 || types.IsInterface(candidate) {
				continue
			}
			if s.isSkipped(qualifiedName(tn)) {
				continue
			}
			if types.Implements(candidate, iface) || types.Implements(types.NewPointer(candidate), iface) {
				found = append(found, candidate)
			}
		}
	}

	sort.Slice(found, func(i, j int) bool {
		return qualifiedName(found[i].Obj()) < qualifiedName(found[j].Obj())
	})
	return found
}

func identityOf(named *types.Named) domain.Identity {
	obj := named.Obj()
	id := domain.Identity{Name: obj.Name()}
	if obj.Pkg() != nil {
		id.Package = obj.Pkg().Path()
	}

	args := named.TypeArgs()
	for i := 0; i < args.Len(); i++ {
		arg := args.At(i)
		id.Args = append(id.Args, types.TypeString(arg, nil))
		id.ArgNames = append(id.ArgNames, types.TypeString(arg, func(*types.Package) string { return "" }))
	}

	return id
}

func anonymous(t types.Type) domain.Identity {
	return domain.Identity{Name: types.TypeString(t, nil)}
}

func basicPrimitive(basic *types.Basic) (domain.Primitive, bool) {
	if basic.Info()&types.IsUntyped != 0 {
		return domain.Primitive{}, false
	}
	return domain.TransToValidPrimitive(basic.Name())
}

func primitive(id domain.Identity, p domain.Primitive, doc string) *domain.TypeDescriptor {
	return &domain.TypeDescriptor{ID: id, Kind: domain.KindPrimitive, Primitive: p, Doc: doc}
}

// enumOf restricts a primitive member to the values of a oneof rule.
func enumOf(base *domain.TypeDescriptor, raw []string) *domain.TypeDescriptor {
	values := make([]domain.EnumValue, 0, len(raw))
	for _, r := range raw {
		var v interface{} = r
		if base.Primitive.Type != domain.STRING {
			v = decodeTagValue(r)
		}
		values = append(values, domain.EnumValue{Value: v})
	}
	return &domain.TypeDescriptor{Kind: domain.KindEnum, Values: values}
}

func isPointer(t types.Type) bool {
	_, ok := types.Unalias(t).(*types.Pointer)
	return ok
}
