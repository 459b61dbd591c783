package manifest

import (
	"fmt"
	"strings"

	"github.com/griffnb/core-jsonschema/internal/domain"
)

// ParseTypeRef parses a type reference:
//
//	string | integer | number | boolean | any | date-time | uuid ...
//	[]T
//	map[K]V
//	pkg/path.Name or pkg/path.Name[Arg, ...]
//
// Declared types come back as references; everything else is described inline.
func ParseTypeRef(ref string) (*domain.TypeDescriptor, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("empty type reference")
	}

	if strings.HasPrefix(ref, "[]") {
		elem, err := ParseTypeRef(ref[2:])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ref, err)
		}
		return &domain.TypeDescriptor{ID: domain.Identity{Name: ref}, Kind: domain.KindCollection, Elem: elem}, nil
	}

	if strings.HasPrefix(ref, "map[") {
		end := matchingBracket(ref, len("map"))
		if end < 0 {
			return nil, fmt.Errorf("%s: unbalanced brackets", ref)
		}
		key, err := ParseTypeRef(ref[len("map["):end])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ref, err)
		}
		value, err := ParseTypeRef(ref[end+1:])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ref, err)
		}
		return &domain.TypeDescriptor{ID: domain.Identity{Name: ref}, Kind: domain.KindMap, Key: key, Value: value}, nil
	}

	if p, ok := domain.PrimitiveKeyword(ref); ok {
		return &domain.TypeDescriptor{ID: domain.Identity{Name: ref}, Kind: domain.KindPrimitive, Primitive: p}, nil
	}

	base, args := ref, ""
	if open := strings.IndexByte(ref, '['); open >= 0 {
		end := matchingBracket(ref, open)
		if end != len(ref)-1 {
			return nil, fmt.Errorf("%s: malformed generic arguments", ref)
		}
		base, args = ref[:open], ref[open+1:end]
	}

	id := domain.NewIdentity(base)
	if id.Name == "" || strings.ContainsAny(id.Name, " ,]*") {
		return nil, fmt.Errorf("%s: malformed type name", ref)
	}

	for _, arg := range splitArgs(args) {
		argRef, err := ParseTypeRef(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ref, err)
		}
		id.Args = append(id.Args, argRef.ID.String())
	}

	return domain.Ref(id), nil
}

// matchingBracket returns the index of the ']' closing the '[' at open.
func matchingBracket(s string, open int) int {
	if open >= len(s) || s[open] != '[' {
		return -1
	}
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitArgs splits on commas outside brackets.
func splitArgs(args string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}

	var (
		parts []string
		depth int
		start int
	)
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(args[start:i]))
				start = i + 1
			}
		}
	}
	return append(parts, strings.TrimSpace(args[start:]))
}
