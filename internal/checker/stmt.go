package checker

import (
	"typeforge/internal/ast"
	"typeforge/internal/types"
)

// checkStmt type-checks a single statement in env, pushing/popping child
// scopes as spec §4.3's "Scope discipline" requires.
func (c *Checker) checkStmt(stmt ast.Stmt, env *Environment) {
	switch s := stmt.(type) {
	case *ast.VarDeclStmt:
		c.checkVarDecl(s, env)
	case *ast.FunctionDecl:
		c.checkFunctionDecl(s, env)
	case *ast.ExprStmt:
		c.inferExpr(s.Expr, env)
	case *ast.BlockStmt:
		c.checkBlock(s, env)
	case *ast.IfStmt:
		c.inferExpr(s.Condition, env)
		c.checkBlock(s.Then, env)
		if s.Else != nil {
			c.checkStmt(s.Else, env)
		}
	case *ast.WhileStmt:
		c.inferExpr(s.Condition, env)
		c.checkBlock(s.Body, env)
	case *ast.DoWhileStmt:
		c.checkBlock(s.Body, env)
		c.inferExpr(s.Condition, env)
	case *ast.ForStmt:
		c.checkForStmt(s, env)
	case *ast.ForInStmt:
		c.checkForInStmt(s, env)
	case *ast.ForOfStmt:
		c.checkForOfStmt(s, env)
	case *ast.SwitchStmt:
		c.checkSwitchStmt(s, env)
	case *ast.TryStmt:
		c.checkTryStmt(s, env)
	case *ast.ThrowStmt:
		c.inferExpr(s.Value, env)
	case *ast.ReturnStmt:
		c.checkReturnStmt(s, env)
	case *ast.BreakStmt, *ast.ContinueStmt, *ast.EmptyStmt:
		// nothing to check
	case *ast.ClassDecl:
		c.checkClassBody(s, env)
	case *ast.InterfaceDecl, *ast.TypeAliasDecl, *ast.EnumDecl:
		// fully handled in the collection passes; no per-statement body to walk
	case *ast.ImportStmt:
		// no cross-file resolution (module resolution is a non-goal);
		// imported names are treated as implicitly-any bindings so uses
		// don't cascade into spurious "not found" diagnostics.
		for _, spec := range s.Specifiers {
			env.Define(spec.Local, types.Any, true)
		}
	case *ast.ExportStmt:
		c.checkExportStmt(s, env)
	default:
		// unreachable for a well-formed tree; nothing to do
	}
}

func (c *Checker) checkExportStmt(s *ast.ExportStmt, env *Environment) {
	if s.Decl != nil {
		c.checkStmt(s.Decl, env)
		return
	}
	if s.Value != nil {
		c.inferExpr(s.Value, env)
	}
}

// checkBlock pushes a fresh environment for the block's own bindings.
func (c *Checker) checkBlock(block *ast.BlockStmt, env *Environment) {
	if block == nil {
		return
	}
	child := NewEnvironment(env)
	for _, stmt := range block.Stmts {
		c.checkStmt(stmt, child)
	}
}

// checkVarDecl implements spec §4.3's local-inference rules for a
// declarator's final type.
func (c *Checker) checkVarDecl(decl *ast.VarDeclStmt, env *Environment) {
	for _, d := range decl.Declarations {
		var finalType types.Type
		switch {
		case d.Type != nil && d.Init != nil:
			declared := c.resolveType(d.Type, env)
			initType := c.inferExpr(d.Init, env)
			if !types.AssignableTo(initType, declared) {
				c.errorf(codeNotAssignable, d.Init.GetSpan(),
					"type '%s' is not assignable to type '%s'", initType.String(), declared.String())
			}
			finalType = declared
		case d.Type != nil:
			finalType = c.resolveType(d.Type, env)
		case d.Init != nil:
			finalType = c.inferExpr(d.Init, env)
			if lit, ok := finalType.(*types.Literal); ok && decl.Kind != ast.VarKindConst {
				// `let`/`var` do not narrow to the literal type of their
				// initializer (spec §4.3); `const` keeps the literal.
				finalType = lit.Widen()
			}
		default:
			finalType = types.Any
		}
		if !env.Define(d.Name, finalType, decl.Kind != ast.VarKindConst) {
			c.errorf(codeAlreadyDeclared, d.Span, "'%s' is already declared", d.Name)
		}
	}
}

func (c *Checker) checkFunctionDecl(decl *ast.FunctionDecl, env *Environment) {
	fnType := c.functionType(decl.Params, decl.ReturnType, env)
	if env != c.global {
		// Nested function declarations aren't hoisted by pass 4 (which only
		// scans top-level statements), so define them locally on first
		// encounter.
		env.Define(decl.Name, fnType, false)
	}
	c.checkFuncLike(decl.Params, fnType, decl.Body)
}

// checkFuncLike checks a function/method/arrow body. Per spec §4.3 and
// Open Question 1, every function-like body's environment is parented to
// the *global* scope, not the lexical enclosing scope that produced it —
// capturing outer locals is therefore never validated here. This is kept
// verbatim rather than "fixed" per spec §9.
func (c *Checker) checkFuncLike(params []ast.Param, fnType *types.Function, body *ast.BlockStmt) {
	if body == nil {
		return
	}
	fnEnv := NewEnvironment(c.global)
	for i, p := range params {
		pt := types.Any
		if i < len(fnType.Params) {
			pt = fnType.Params[i].Type
		}
		fnEnv.Define(p.Name, pt, true)
	}
	c.funcReturnStack = append(c.funcReturnStack, fnType.Return)
	for _, stmt := range body.Stmts {
		c.checkStmt(stmt, fnEnv)
	}
	c.funcReturnStack = c.funcReturnStack[:len(c.funcReturnStack)-1]
}

func (c *Checker) checkReturnStmt(s *ast.ReturnStmt, env *Environment) {
	declared, inFunc := c.currentReturnType()
	if !inFunc {
		c.errorf(codeReturnOutsideFunc, s.Span, "return statement outside of a function")
		if s.Value != nil {
			c.inferExpr(s.Value, env)
		}
		return
	}
	var actual types.Type = types.VoidType
	if s.Value != nil {
		actual = c.inferExpr(s.Value, env)
	}
	if declared != nil && !types.AssignableTo(actual, declared) {
		c.errorf(codeReturnMismatch, s.Span,
			"type '%s' is not assignable to return type '%s'", actual.String(), declared.String())
	}
}

func (c *Checker) checkForStmt(s *ast.ForStmt, env *Environment) {
	child := NewEnvironment(env)
	if s.Init != nil {
		c.checkStmt(asStmt(s.Init), child)
	}
	if s.Condition != nil {
		c.inferExpr(s.Condition, child)
	}
	if s.Update != nil {
		c.inferExpr(s.Update, child)
	}
	c.checkBlock(s.Body, child)
}

func asStmt(n ast.Node) ast.Stmt {
	if s, ok := n.(ast.Stmt); ok {
		return s
	}
	if e, ok := n.(ast.Expr); ok {
		return &ast.ExprStmt{Expr: e}
	}
	return nil
}

// checkForInStmt: the key variable is always string (spec §4.3).
func (c *Checker) checkForInStmt(s *ast.ForInStmt, env *Environment) {
	c.inferExpr(s.Object, env)
	child := NewEnvironment(env)
	if s.IsDecl {
		child.Define(s.VarName, types.StringType, s.Kind != ast.VarKindConst)
	}
	c.checkBlock(s.Body, child)
}

// checkForOfStmt: the loop variable's type is the iterable's element type
// when the iterable is an array, else any (spec §4.3).
func (c *Checker) checkForOfStmt(s *ast.ForOfStmt, env *Environment) {
	iterType := c.inferExpr(s.Iterable, env)
	elemType := types.Any
	if arr, ok := iterType.(*types.Array); ok {
		elemType = arr.Element
	}
	child := NewEnvironment(env)
	if s.IsDecl {
		child.Define(s.VarName, elemType, s.Kind != ast.VarKindConst)
	}
	c.checkBlock(s.Body, child)
}

func (c *Checker) checkSwitchStmt(s *ast.SwitchStmt, env *Environment) {
	c.inferExpr(s.Discriminant, env)
	for _, cs := range s.Cases {
		if cs.Test != nil {
			c.inferExpr(cs.Test, env)
		}
		child := NewEnvironment(env)
		for _, stmt := range cs.Body {
			c.checkStmt(stmt, child)
		}
	}
}

func (c *Checker) checkTryStmt(s *ast.TryStmt, env *Environment) {
	c.checkBlock(s.Block, env)
	if s.Catch != nil {
		child := NewEnvironment(env)
		if s.Catch.Param != "" {
			child.Define(s.Catch.Param, types.Any, true)
		}
		for _, stmt := range s.Catch.Body.Stmts {
			c.checkStmt(stmt, child)
		}
	}
	if s.Finally != nil {
		c.checkBlock(s.Finally, env)
	}
}

// checkClassBody checks constructor/method bodies and property initializers
// against the class's already-collected member map (pass 3). `this` inside a
// method resolves to the class's instance interface.
func (c *Checker) checkClassBody(decl *ast.ClassDecl, env *Environment) {
	classType, ok := c.global.GetType(decl.Name)
	var instance *types.Interface
	if ok {
		if cls, ok := classType.(*types.Class); ok {
			instance = cls.Instance
		}
	}
	for _, p := range decl.Properties {
		if p.Init == nil {
			continue
		}
		initType := c.inferExpr(p.Init, env)
		if p.Type != nil {
			declared := c.resolveType(p.Type, env)
			if !types.AssignableTo(initType, declared) {
				c.errorf(codeNotAssignable, p.Init.GetSpan(),
					"type '%s' is not assignable to type '%s'", initType.String(), declared.String())
			}
		}
	}
	for _, m := range decl.Methods {
		if m.Body == nil {
			continue // abstract method: no body to check
		}
		fnType := c.functionType(m.Params, m.ReturnType, env)
		methodEnv := NewEnvironment(c.global)
		if instance != nil {
			methodEnv.Define("this", instance, false)
		}
		for i, p := range m.Params {
			pt := types.Any
			if i < len(fnType.Params) {
				pt = fnType.Params[i].Type
			}
			methodEnv.Define(p.Name, pt, true)
		}
		c.funcReturnStack = append(c.funcReturnStack, fnType.Return)
		for _, stmt := range m.Body.Stmts {
			c.checkStmt(stmt, methodEnv)
		}
		c.funcReturnStack = c.funcReturnStack[:len(c.funcReturnStack)-1]
	}
}
