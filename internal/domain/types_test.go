package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	t.Run("string includes package and args", func(t *testing.T) {
		id := Identity{Package: "github.com/acme/box", Name: "Box", Args: []string{"int", "github.com/acme/geo.Point"}}

		assert.Equal(t, "github.com/acme/box.Box[int,github.com/acme/geo.Point]", id.String())
	})

	t.Run("generic instantiations are distinct", func(t *testing.T) {
		a := Identity{Package: "p", Name: "Box", Args: []string{"int"}}
		b := Identity{Package: "p", Name: "Box", Args: []string{"string"}}

		assert.False(t, a.Equal(b))
		assert.True(t, a.Equal(Identity{Package: "p", Name: "Box", Args: []string{"int"}}))
	})

	t.Run("simple name carries argument signature", func(t *testing.T) {
		id := Identity{Package: "p", Name: "Box", Args: []string{"int", "github.com/acme/geo.Point"}}
		assert.Equal(t, "Box_int_Point", id.SimpleName())

		id.Args = []string{"[]github.com/acme/geo.Point"}
		assert.Equal(t, "Box_Array_Point", id.SimpleName())

		id.Args = []string{"map[string]int"}
		assert.Equal(t, "Box_Map_string_int", id.SimpleName())
	})

	t.Run("display names win over derived names", func(t *testing.T) {
		id := Identity{Name: "Pair", Args: []string{"a.K", "b.V"}, ArgNames: []string{"Key", "Val"}}
		assert.Equal(t, "Pair_Key_Val", id.SimpleName())
	})

	t.Run("new identity splits qualified name", func(t *testing.T) {
		assert.Equal(t, Identity{Package: "github.com/acme/geo", Name: "Point"}, NewIdentity("github.com/acme/geo.Point"))
		assert.Equal(t, Identity{Name: "Point"}, NewIdentity("Point"))
		assert.Equal(t, Identity{Name: "github.com/acme"}, NewIdentity("github.com/acme"))
	})
}

func TestKind(t *testing.T) {
	for k := KindPrimitive; k <= KindUnsupported; k++ {
		parsed, ok := ParseKind(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, parsed)
	}

	k, ok := ParseKind("object")
	assert.True(t, ok)
	assert.Equal(t, KindComposite, k)

	_, ok = ParseKind("tuple")
	assert.False(t, ok)
}

func TestNamed(t *testing.T) {
	assert.True(t, (&TypeDescriptor{ID: Identity{Name: "Point"}, Kind: KindComposite}).Named())
	assert.True(t, (&TypeDescriptor{ID: Identity{Name: "Color"}, Kind: KindEnum}).Named())
	assert.False(t, PrimitiveOf(INTEGER, "").Named())
	assert.False(t, (&TypeDescriptor{ID: Identity{Name: "[]int"}, Kind: KindCollection}).Named())
	assert.True(t, (&TypeDescriptor{ID: Identity{Package: "p", Name: "Tags"}, Kind: KindCollection}).Named())
	assert.False(t, (*TypeDescriptor)(nil).Named())
}

func TestErrors(t *testing.T) {
	id := Identity{Package: "p", Name: "Ch"}
	err := fmt.Errorf("member c: %w", &UnsupportedTypeError{ID: id, Reason: "channel"})

	unsupported, ok := IsUnsupported(err)
	require.True(t, ok)
	assert.Equal(t, "channel", unsupported.Reason)
	assert.Contains(t, err.Error(), "unsupported type p.Ch: channel")

	_, ok = IsUnsupported(errors.New("other"))
	assert.False(t, ok)

	dup := &DuplicateDefinitionError{Name: "Point", ID: Identity{Package: "a", Name: "Point"}}
	assert.Equal(t, `duplicate definition "Point" for a.Point: a different schema is already registered`, dup.Error())
}
