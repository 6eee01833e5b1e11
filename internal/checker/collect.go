package checker

import (
	"typeforge/internal/ast"
	"typeforge/internal/types"
)

// declOf unwraps an export wrapper to the declaration it carries, or returns
// stmt unchanged if it isn't an export (or is a bare `export default expr`
// with no declaration).
func declOf(stmt ast.Stmt) ast.Stmt {
	if exp, ok := stmt.(*ast.ExportStmt); ok && exp.Decl != nil {
		return exp.Decl
	}
	return stmt
}

// collectTypeAliasesAndEnums is pass 1: type-alias and enum declarations may
// reference each other and must exist before interfaces/classes resolve.
func (c *Checker) collectTypeAliasesAndEnums(body []ast.Stmt) {
	for _, raw := range body {
		switch decl := declOf(raw).(type) {
		case *ast.EnumDecl:
			c.collectEnum(decl)
		case *ast.TypeAliasDecl:
			// Alias bodies may reference other aliases/enums declared later
			// in program order; resolve lazily via env.GetType at use sites
			// is not possible for a single up-front value, so aliases are
			// resolved in declaration order and forward references to a
			// not-yet-collected name fall back to Any with a diagnostic —
			// matching how the checker treats any other unresolved name.
			t := c.resolveType(decl.Type, c.global)
			if !c.global.DefineType(decl.Name, t) {
				c.errorf(codeAlreadyDeclared, decl.Span, "type '%s' is already declared", decl.Name)
			}
		}
	}
}

func (c *Checker) collectEnum(decl *ast.EnumDecl) {
	members := make([]types.EnumMember, len(decl.Members))
	nextNumeric := 0.0
	for i, m := range decl.Members {
		var value interface{}
		switch init := m.Init.(type) {
		case nil:
			value = nextNumeric
			nextNumeric++
		case *ast.NumberLit:
			value = init.Value
			nextNumeric = init.Value + 1
		case *ast.StringLit:
			value = init.Value
		default:
			// Non-literal initializer: emitted verbatim by the emitter: the
			// checker records a numeric placeholder so member lookups still
			// resolve to a type, continuing the auto-increment sequence.
			value = nextNumeric
			nextNumeric++
		}
		members[i] = types.EnumMember{Name: m.Name, Value: value}
	}
	enumType := &types.Enumerated{Name: decl.Name, Members: members}
	if !c.global.DefineType(decl.Name, enumType) {
		c.errorf(codeAlreadyDeclared, decl.Span, "type '%s' is already declared", decl.Name)
		return
	}
	// The enum's own name is also a value (the lowered object, or the const
	// enum's inlined uses) so member access `Color.Red` resolves.
	c.global.Define(decl.Name, enumType, false)
}

// collectInterfaces is pass 2: interfaces may reference type aliases from
// pass 1.
func (c *Checker) collectInterfaces(body []ast.Stmt) {
	for _, raw := range body {
		decl, ok := declOf(raw).(*ast.InterfaceDecl)
		if !ok {
			continue
		}
		members := make([]types.Member, len(decl.Members))
		for i, m := range decl.Members {
			mt := c.resolveType(m.Type, c.global)
			if m.Method {
				params := make([]types.Param, len(m.Params))
				for j, p := range m.Params {
					params[j] = types.Param{Name: p.Name, Type: c.resolveType(p.Type, c.global), Optional: p.Optional, Rest: p.Rest}
				}
				mt = &types.Function{Params: params, Return: mt}
			}
			members[i] = types.Member{Name: m.Name, Type: mt, Optional: m.Optional, Readonly: m.Readonly}
		}
		// extends: seed with the extended interfaces' members first, own
		// members override on name collision (WithMember semantics).
		iface := types.NewInterface(decl.Name, nil)
		for _, ext := range decl.Extends {
			if super, ok := c.resolveType(ext, c.global).(*types.Interface); ok {
				for _, m := range super.Members {
					iface = iface.WithMember(m)
				}
			}
		}
		for _, m := range members {
			iface = iface.WithMember(m)
		}
		iface.Name = decl.Name
		if !c.global.DefineType(decl.Name, iface) {
			c.errorf(codeAlreadyDeclared, decl.Span, "type '%s' is already declared", decl.Name)
		}
	}
}

// collectClasses is pass 3: classes may extend other classes; the subclass's
// member maps are seeded with a shallow copy of the superclass's before its
// own members are added (spec §4.3).
func (c *Checker) collectClasses(body []ast.Stmt) {
	// Two passes so extends-order doesn't matter: register empty shells
	// first (by name only), then fill members with super-seeding resolved.
	pending := map[string]*ast.ClassDecl{}
	for _, raw := range body {
		if decl, ok := declOf(raw).(*ast.ClassDecl); ok && decl.Name != "" {
			pending[decl.Name] = decl
		}
	}
	resolved := map[string]*types.Class{}
	var resolve func(name string, decl *ast.ClassDecl) *types.Class
	resolve = func(name string, decl *ast.ClassDecl) *types.Class {
		if cls, ok := resolved[name]; ok {
			return cls
		}
		instance := types.NewInterface(decl.Name, nil)
		static := types.NewInterface(decl.Name, nil)
		var super *types.Class
		if decl.SuperClass != nil {
			if ref, ok := decl.SuperClass.(*ast.TypeRef); ok {
				if superDecl, ok := pending[ref.Name]; ok {
					super = resolve(ref.Name, superDecl)
				} else if existing, ok := c.global.GetType(ref.Name); ok {
					if sc, ok := existing.(*types.Class); ok {
						super = sc
					}
				}
			}
		}
		if super != nil {
			for _, m := range super.Instance.Members {
				instance = instance.WithMember(m)
			}
			for _, m := range super.Static.Members {
				static = static.WithMember(m)
			}
		}
		for _, p := range decl.Properties {
			mt := c.resolveType(p.Type, c.global)
			if p.Init != nil && p.Type == nil {
				mt = c.inferExpr(p.Init, c.global)
			}
			member := types.Member{Name: p.Name, Type: mt, Optional: p.Optional, Readonly: p.Readonly}
			if p.Static {
				static = static.WithMember(member)
			} else {
				instance = instance.WithMember(member)
			}
		}
		for _, meth := range decl.Methods {
			if meth.Kind == ast.MethodKindConstructor {
				c.classCtors[decl.Name] = c.functionType(meth.Params, nil, c.global)
				continue
			}
			params := make([]types.Param, len(meth.Params))
			for i, p := range meth.Params {
				params[i] = types.Param{Name: p.Name, Type: c.resolveType(p.Type, c.global), Optional: p.Optional, Rest: p.Rest}
			}
			ret := c.resolveType(meth.ReturnType, c.global)
			fnType := &types.Function{Params: params, Return: ret}
			var memberType types.Type = fnType
			if meth.Kind == ast.MethodKindGetter {
				memberType = ret
			}
			member := types.Member{Name: meth.Name, Type: memberType}
			if meth.Static {
				static = static.WithMember(member)
			} else {
				instance = instance.WithMember(member)
			}
		}
		cls := &types.Class{Name: decl.Name, Instance: instance, Static: static, Super: super}
		resolved[name] = cls
		return cls
	}
	for name, decl := range pending {
		cls := resolve(name, decl)
		if !c.global.DefineType(name, cls) {
			c.errorf(codeAlreadyDeclared, decl.Span, "type '%s' is already declared", name)
			continue
		}
		c.global.Define(name, cls, false)
	}
}

// collectFunctionSignatures is pass 4: function declarations are hoisted
// into the global value scope so mutually-recursive/forward calls resolve.
func (c *Checker) collectFunctionSignatures(body []ast.Stmt) {
	for _, raw := range body {
		decl, ok := declOf(raw).(*ast.FunctionDecl)
		if !ok || decl.Name == "" {
			continue
		}
		fnType := c.functionType(decl.Params, decl.ReturnType, c.global)
		if !c.global.Define(decl.Name, fnType, false) {
			c.errorf(codeAlreadyDeclared, decl.Span, "'%s' is already declared", decl.Name)
		}
	}
}

func (c *Checker) functionType(params []ast.Param, returnType ast.TypeExpr, env *Environment) *types.Function {
	tparams := make([]types.Param, len(params))
	for i, p := range params {
		pt := c.resolveType(p.Type, env)
		if p.Type == nil {
			pt = types.Any
		}
		tparams[i] = types.Param{Name: p.Name, Type: pt, Optional: p.Optional, Rest: p.Rest}
	}
	var ret types.Type = types.VoidType
	if returnType != nil {
		ret = c.resolveType(returnType, env)
	}
	return &types.Function{Params: tparams, Return: ret}
}
