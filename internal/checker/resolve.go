package checker

import (
	"typeforge/internal/ast"
	"typeforge/internal/types"
)

// builtinPrimitives maps the source dialect's primitive type-reference names
// (spec §3's "type names") onto the checker's Primitive singletons. Names
// not listed here (object, and anything user-declared) fall through to
// resolveNamedType.
var builtinPrimitives = map[string]types.Type{
	"number":    types.NumberType,
	"string":    types.StringType,
	"boolean":   types.BooleanType,
	"void":      types.VoidType,
	"null":      types.NullType,
	"undefined": types.UndefinedType,
	"symbol":    types.SymbolType,
	"bigint":    types.BigIntType,
	"any":       types.Any,
	"unknown":   types.Unknown,
	"never":     types.Never,
	"object":    types.NewInterface("object", nil),
}

// resolveType maps a syntax-level type expression onto the checker's type
// value sum. Unresolvable names produce the reported diagnostic and resolve
// to Any so downstream checking can continue.
func (c *Checker) resolveType(te ast.TypeExpr, env *Environment) types.Type {
	if te == nil {
		return types.Any
	}
	switch t := te.(type) {
	case *ast.TypeRef:
		return c.resolveTypeRef(t, env)
	case *ast.ArrayTypeExpr:
		return &types.Array{Element: c.resolveType(t.Element, env)}
	case *ast.TupleTypeExpr:
		elems := make([]types.Type, len(t.Elements))
		for i, e := range t.Elements {
			elems[i] = c.resolveType(e, env)
		}
		return &types.Tuple{Elements: elems}
	case *ast.UnionTypeExpr:
		arms := make([]types.Type, len(t.Arms))
		for i, a := range t.Arms {
			arms[i] = c.resolveType(a, env)
		}
		return types.NewUnion(arms...)
	case *ast.IntersectionTypeExpr:
		arms := make([]types.Type, len(t.Arms))
		for i, a := range t.Arms {
			arms[i] = c.resolveType(a, env)
		}
		return types.NewIntersection(arms...)
	case *ast.FunctionTypeExpr:
		params := make([]types.Param, len(t.Params))
		for i, p := range t.Params {
			params[i] = types.Param{
				Name: p.Name, Type: c.resolveType(p.Type, env), Optional: p.Optional, Rest: p.Rest,
			}
		}
		return &types.Function{Params: params, Return: c.resolveType(t.ReturnType, env)}
	case *ast.ObjectTypeExpr:
		members := make([]types.Member, len(t.Members))
		for i, m := range t.Members {
			mt := c.resolveType(m.Type, env)
			if m.Method {
				params := make([]types.Param, len(m.Params))
				for j, p := range m.Params {
					params[j] = types.Param{Name: p.Name, Type: c.resolveType(p.Type, env), Optional: p.Optional, Rest: p.Rest}
				}
				mt = &types.Function{Params: params, Return: mt}
			}
			members[i] = types.Member{Name: m.Name, Type: mt, Optional: m.Optional, Readonly: m.Readonly}
		}
		return types.NewInterface("", members)
	case *ast.LiteralTypeExpr:
		switch t.Kind {
		case ast.LiteralTypeString:
			return &types.Literal{Prim: types.String, Value: t.Value}
		case ast.LiteralTypeNumber:
			return &types.Literal{Prim: types.Number, Value: t.Value}
		default:
			return &types.Literal{Prim: types.Boolean, Value: t.Value}
		}
	case *ast.ConditionalTypeExpr:
		check := c.resolveType(t.Check, env)
		extends := c.resolveType(t.Extends, env)
		if types.AssignableTo(check, extends) {
			return c.resolveType(t.True, env)
		}
		return c.resolveType(t.False, env)
	case *ast.IndexedAccessTypeExpr:
		obj := c.resolveType(t.Object, env)
		if lit, ok := c.resolveType(t.Index, env).(*types.Literal); ok {
			if key, isStr := lit.Value.(string); isStr {
				if iface, ok := obj.(*types.Interface); ok {
					if m, found := iface.Get(key); found {
						return m.Type
					}
				}
			}
		}
		return types.Any
	case *ast.ParenTypeExpr:
		return c.resolveType(t.Inner, env)
	case *ast.KeyofTypeExpr:
		operand := c.resolveType(t.Operand, env)
		if iface, ok := operand.(*types.Interface); ok {
			arms := make([]types.Type, len(iface.Members))
			for i, m := range iface.Members {
				arms[i] = &types.Literal{Prim: types.String, Value: m.Name}
			}
			return types.NewUnion(arms...)
		}
		return types.StringType
	case *ast.TypeQueryExpr:
		if vt, ok := env.Get(t.ExprName); ok {
			return vt
		}
		return types.Any
	case *ast.InferTypeExpr:
		return types.Any
	case *ast.MappedTypeExpr:
		return types.Any
	case *ast.OptionalTypeExpr:
		return c.resolveType(t.Inner, env)
	case *ast.RestTypeExpr:
		return c.resolveType(t.Inner, env)
	default:
		return types.Any
	}
}

func (c *Checker) resolveTypeRef(t *ast.TypeRef, env *Environment) types.Type {
	if prim, ok := builtinPrimitives[t.Name]; ok {
		return prim
	}
	// Array<T> is treated as first-class alongside T[] even though generic
	// instantiation in general is erased without substitution (spec §1
	// Non-goals) — Array specifically already has a first-class literal
	// syntax (T[]) in this dialect, so giving its generic spelling the same
	// meaning costs nothing and matches how the source dialect is actually
	// written.
	if t.Name == "Array" && len(t.Args) == 1 {
		return &types.Array{Element: c.resolveType(t.Args[0], env)}
	}
	if named, ok := env.GetType(t.Name); ok {
		return named
	}
	c.errorf(codeNotFound, t.Span, "type '%s' is not found", t.Name)
	return types.Any
}
