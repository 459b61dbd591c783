package adapter

import (
	"go/constant"
	"go/types"
	"sort"

	"github.com/griffnb/core-jsonschema/internal/domain"
)

// enumValues collects the constants declared with type named in its own
// package, in declaration order and deduplicated by value.
func (s *Service) enumValues(named *types.Named) []domain.EnumValue {
	obj := named.Obj()
	if obj.Pkg() == nil || named.TypeArgs().Len() > 0 {
		return nil
	}

	scope := obj.Pkg().Scope()
	var consts []*types.Const
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if ok && types.Identical(c.Type(), named) {
			consts = append(consts, c)
		}
	}
	sort.SliceStable(consts, func(i, j int) bool { return consts[i].Pos() < consts[j].Pos() })

	values := make([]domain.EnumValue, 0, len(consts))
	seen := make(map[interface{}]struct{}, len(consts))
	for _, c := range consts {
		value := constantValue(c.Val())
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}

		values = append(values, domain.EnumValue{
			Key:     c.Name(),
			Value:   value,
			Comment: s.docs.constDoc(c),
		})
	}

	return values
}

// constantValue converts a constant to the Go value it marshals as.
func constantValue(value constant.Value) interface{} {
	switch value.Kind() {
	case constant.Int:
		if v, ok := constant.Int64Val(value); ok {
			return int(v)
		}
	case constant.String:
		return constant.StringVal(value)
	case constant.Bool:
		return constant.BoolVal(value)
	case constant.Float:
		v, _ := constant.Float64Val(value)
		return v
	}
	return value.ExactString()
}
