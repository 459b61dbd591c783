package adapter

import (
	"context"
	"sync"
	"testing"

	"github.com/griffnb/core-jsonschema/internal/domain"
	"github.com/griffnb/core-jsonschema/internal/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modelPkg = "github.com/griffnb/core-jsonschema/internal/adapter/testdata/model"

var (
	loadOnce   sync.Once
	loadResult *loader.LoadResult
	loadErr    error
)

func loadModel(t *testing.T) *loader.LoadResult {
	t.Helper()
	loadOnce.Do(func() {
		loadResult, loadErr = loader.NewService().Load(context.Background(), []string{"testdata/model"})
	})
	require.NoError(t, loadErr)
	return loadResult
}

func newService(t *testing.T, options ...Option) *Service {
	t.Helper()
	return NewService(loadModel(t), options...)
}

func modelID(name string) domain.Identity {
	return domain.Identity{Package: modelPkg, Name: name}
}

func describe(t *testing.T, s *Service, name string) *domain.TypeDescriptor {
	t.Helper()
	d, err := s.Descriptor(modelID(name))
	require.NoError(t, err)
	return d
}

func member(t *testing.T, d *domain.TypeDescriptor, name string) domain.MemberDescriptor {
	t.Helper()
	for _, m := range d.Members {
		if m.Name == name {
			return m
		}
	}
	require.Failf(t, "member not found", "%s has no member %s", d.ID, name)
	return domain.MemberDescriptor{}
}

func memberNames(d *domain.TypeDescriptor) []string {
	names := make([]string, 0, len(d.Members))
	for _, m := range d.Members {
		names = append(names, m.Name)
	}
	return names
}

func TestDefaultRoots(t *testing.T) {
	// Arrange
	s := newService(t)

	// Act
	roots := s.Roots()

	// Assert
	names := make([]string, 0, len(roots))
	for _, id := range roots {
		names = append(names, id.Name)
	}
	assert.Equal(t, []string{
		"Point", "Color", "Level", "Node", "Shape", "Circle", "Holder",
		"Animal", "Named", "Cat", "Dog", "Weird", "Registry", "Plain",
	}, names, "exported non generic types in source order")
}

func TestSetRoots(t *testing.T) {
	t.Run("bare, package qualified and import path forms", func(t *testing.T) {
		s := newService(t)

		err := s.SetRoots([]string{"Point", "model.Color", modelPkg + ".Node"})

		require.NoError(t, err)
		assert.Equal(t, []domain.Identity{modelID("Point"), modelID("Color"), modelID("Node")}, s.Roots())
	})

	t.Run("unknown type", func(t *testing.T) {
		s := newService(t)

		err := s.SetRoots([]string{"Missing"})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("empty restores defaults", func(t *testing.T) {
		s := newService(t)
		require.NoError(t, s.SetRoots([]string{"Point"}))

		require.NoError(t, s.SetRoots(nil))

		assert.Greater(t, len(s.Roots()), 1)
	})
}

func TestDescriptor_Struct(t *testing.T) {
	s := newService(t)

	d := describe(t, s, "Point")

	assert.Equal(t, domain.KindComposite, d.Kind)
	assert.Equal(t, "Point is a location on a plane.\n", d.Doc)
	assert.Equal(t, []string{"x", "y", "label", "tags", "created", "kind", "weight"}, memberNames(d),
		"json:\"-\", jsonschema:\"-\" and unexported fields are skipped")

	t.Run("docs from doc and line comments", func(t *testing.T) {
		assert.Equal(t, "X is the horizontal position.\n", member(t, d, "x").Doc)
		assert.Equal(t, "vertical position\n", member(t, d, "y").Doc)
	})

	t.Run("primitives", func(t *testing.T) {
		x := member(t, d, "x").Type
		assert.Equal(t, domain.KindPrimitive, x.Kind)
		assert.Equal(t, domain.Primitive{Type: domain.INTEGER}, x.Primitive)

		created := member(t, d, "created").Type
		assert.Equal(t, domain.Primitive{Type: domain.STRING, Format: "date-time"}, created.Primitive)
	})

	t.Run("pointer is its pointee", func(t *testing.T) {
		assert.Equal(t, domain.Primitive{Type: domain.STRING}, member(t, d, "label").Type.Primitive)
	})

	t.Run("slice is a collection", func(t *testing.T) {
		tags := member(t, d, "tags").Type
		require.Equal(t, domain.KindCollection, tags.Kind)
		assert.Equal(t, domain.Primitive{Type: domain.STRING}, tags.Elem.Primitive)
	})

	t.Run("required only from validation tags by default", func(t *testing.T) {
		assert.True(t, member(t, d, "tags").Required)
		assert.False(t, member(t, d, "x").Required)
	})

	t.Run("oneof becomes an inline enum", func(t *testing.T) {
		kind := member(t, d, "kind").Type
		require.Equal(t, domain.KindEnum, kind.Kind)
		assert.False(t, kind.Named())
		assert.Equal(t, []domain.EnumValue{{Value: "a"}, {Value: "b"}}, kind.Values)
	})

	t.Run("default tag", func(t *testing.T) {
		assert.Equal(t, 1.5, member(t, d, "weight").Default)
		assert.Nil(t, member(t, d, "x").Default)
	})
}

func TestDescriptor_RequiredByDefault(t *testing.T) {
	s := newService(t, WithRequiredByDefault(true))

	d := describe(t, s, "Point")

	assert.True(t, member(t, d, "x").Required)
	assert.False(t, member(t, d, "label").Required, "pointer with omitempty stays optional")
}

func TestDescriptor_Enum(t *testing.T) {
	s := newService(t)

	t.Run("string constants in declaration order, deduplicated", func(t *testing.T) {
		d := describe(t, s, "Color")

		require.Equal(t, domain.KindEnum, d.Kind)
		assert.Equal(t, []domain.EnumValue{
			{Key: "Red", Value: "red", Comment: "Red is warm."},
			{Key: "Green", Value: "green", Comment: "the middle one"},
			{Key: "Blue", Value: "blue"},
		}, d.Values)
	})

	t.Run("iota constants", func(t *testing.T) {
		d := describe(t, s, "Level")

		assert.Equal(t, []domain.EnumValue{{Key: "Low", Value: 0}, {Key: "High", Value: 1}}, d.Values)
	})
}

func TestDescriptor_SelfReference(t *testing.T) {
	s := newService(t)

	d := describe(t, s, "Node")

	children := member(t, d, "children").Type
	require.Equal(t, domain.KindCollection, children.Kind)
	assert.Equal(t, domain.KindReference, children.Elem.Kind)
	assert.Equal(t, modelID("Node"), children.Elem.ID)
}

func TestDescriptor_EmbeddedStructIsSupertype(t *testing.T) {
	s := newService(t)

	d := describe(t, s, "Circle")

	require.Len(t, d.Supers, 1)
	assert.Equal(t, modelID("Shape"), d.Supers[0].ID)
	assert.Equal(t, []string{"radius"}, memberNames(d))
}

func TestDescriptor_Generics(t *testing.T) {
	s := newService(t)

	holder := describe(t, s, "Holder")
	ints := member(t, holder, "ints").Type
	strs := member(t, holder, "strings").Type

	t.Run("instantiations have distinct identities", func(t *testing.T) {
		require.Equal(t, domain.KindReference, ints.Kind)
		assert.Equal(t, []string{"int"}, ints.ID.Args)
		assert.Equal(t, []string{"string"}, strs.ID.Args)
		assert.NotEqual(t, ints.ID.String(), strs.ID.String())
		assert.Equal(t, "Box_int", ints.ID.SimpleName())
	})

	t.Run("type arguments are substituted", func(t *testing.T) {
		box, err := s.Descriptor(ints.ID)
		require.NoError(t, err)

		value := member(t, box, "value").Type
		assert.Equal(t, domain.Primitive{Type: domain.INTEGER}, value.Primitive)
		assert.Equal(t, "Box holds one value.\n", box.Doc)
	})

	t.Run("declaration without arguments leaves the parameter unresolved", func(t *testing.T) {
		box := describe(t, s, "Box")

		value := member(t, box, "value").Type
		assert.Equal(t, domain.KindUnsupported, value.Kind)
		assert.Contains(t, value.Unsupported.Error(), "unresolved type parameter")
	})
}

func TestDescriptor_Interfaces(t *testing.T) {
	s := newService(t)

	t.Run("sealed interface is exclusive", func(t *testing.T) {
		d := describe(t, s, "Animal")

		require.Equal(t, domain.KindUnion, d.Kind)
		assert.True(t, d.Exclusive)
		require.Len(t, d.Variants, 2)
		assert.Equal(t, modelID("Cat"), d.Variants[0].ID)
		assert.Equal(t, modelID("Dog"), d.Variants[1].ID, "pointer receivers count")
	})

	t.Run("open interface is not exclusive", func(t *testing.T) {
		d := describe(t, s, "Named")

		require.Equal(t, domain.KindUnion, d.Kind)
		assert.False(t, d.Exclusive)
		assert.Len(t, d.Variants, 2)
	})
}

func TestDescriptor_Unsupported(t *testing.T) {
	s := newService(t)

	d := describe(t, s, "Weird")

	assert.Equal(t, domain.KindUnsupported, member(t, d, "events").Type.Kind)
	assert.Equal(t, domain.KindUnsupported, member(t, d, "callback").Type.Kind)
	assert.Equal(t, domain.KindUnsupported, member(t, d, "err").Type.Kind)

	anyType := member(t, d, "any").Type
	assert.Equal(t, domain.KindPrimitive, anyType.Kind)
	assert.Equal(t, domain.Primitive{}, anyType.Primitive)
}

func TestDescriptor_NamedMap(t *testing.T) {
	s := newService(t)

	d := describe(t, s, "Registry")

	require.Equal(t, domain.KindMap, d.Kind)
	assert.True(t, d.Named())
	assert.Equal(t, modelID("Point"), d.Value.ID)
	assert.Equal(t, domain.Primitive{Type: domain.STRING}, d.Key.Primitive)
}

func TestDescriptor_NotFound(t *testing.T) {
	s := newService(t)

	_, err := s.Descriptor(modelID("Missing"))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDescriptor_Overrides(t *testing.T) {
	s := newService(t, WithOverrides(map[string]string{
		"time.Time":             "integer",
		modelPkg + ".Shape":     "",
		modelPkg + ".Color":     modelPkg + ".Level",
		modelPkg + ".Undefined": "",
	}))

	t.Run("replace with primitive", func(t *testing.T) {
		d := describe(t, s, "Point")
		assert.Equal(t, domain.Primitive{Type: domain.INTEGER}, member(t, d, "created").Type.Primitive)
	})

	t.Run("skipped supertype is dropped", func(t *testing.T) {
		d := describe(t, s, "Circle")
		assert.Empty(t, d.Supers)
		assert.Equal(t, []string{"radius"}, memberNames(d))
	})

	t.Run("skipped types are not roots", func(t *testing.T) {
		for _, id := range s.Roots() {
			assert.NotEqual(t, "Shape", id.Name)
		}
	})
}

func TestDescriptor_NamingStrategy(t *testing.T) {
	tests := map[string][]string{
		PascalCase: {"FirstName", "URLPath"},
		CamelCase:  {"firstName", "urlpath"},
		SnakeCase:  {"first_name", "url_path"},
	}

	for strategy, want := range tests {
		t.Run(strategy, func(t *testing.T) {
			s := newService(t, WithNamingStrategy(strategy))

			assert.Equal(t, want, memberNames(describe(t, s, "Plain")))
		})
	}
}
