package checker

import (
	"typeforge/internal/ast"
	"typeforge/internal/span"
	"typeforge/internal/token"
	"typeforge/internal/types"
)

// knownArrayMethods and knownStringMethods are the fixed method lists spec
// §4.3 mentions for member access on array/string that fall back to any
// (only `length` gets a precise type).
var knownArrayMethods = map[string]bool{
	"push": true, "pop": true, "shift": true, "unshift": true, "slice": true,
	"splice": true, "concat": true, "join": true, "indexOf": true, "includes": true,
	"map": true, "filter": true, "forEach": true, "reduce": true, "find": true,
	"findIndex": true, "some": true, "every": true, "sort": true, "reverse": true, "flat": true,
}

var knownStringMethods = map[string]bool{
	"charAt": true, "charCodeAt": true, "indexOf": true, "includes": true,
	"slice": true, "substring": true, "split": true, "trim": true, "toUpperCase": true,
	"toLowerCase": true, "replace": true, "repeat": true, "startsWith": true, "endsWith": true,
	"padStart": true, "padEnd": true, "concat": true,
}

// inferExpr computes the type of expr under env, per spec §4.3's local
// inference rules, appending diagnostics for any rule violations found
// along the way.
func (c *Checker) inferExpr(expr ast.Expr, env *Environment) types.Type {
	if expr == nil {
		return types.Any
	}
	switch e := expr.(type) {
	case *ast.NumberLit:
		return &types.Literal{Prim: types.Number, Value: e.Value}
	case *ast.StringLit:
		return &types.Literal{Prim: types.String, Value: e.Value}
	case *ast.BoolLit:
		return &types.Literal{Prim: types.Boolean, Value: e.Value}
	case *ast.NullLit:
		return types.NullType
	case *ast.UndefinedLit:
		return types.UndefinedType
	case *ast.ThisExpr:
		if t, ok := env.Get("this"); ok {
			return t
		}
		return types.Any
	case *ast.SuperExpr:
		return types.Any
	case *ast.Ident:
		if t, ok := env.Get(e.Name); ok {
			return t
		}
		c.errorf(codeNotFound, e.Span, "name '%s' is not found", e.Name)
		return types.Any
	case *ast.ParenExpr:
		return c.inferExpr(e.Expression, env)
	case *ast.BinaryExpr:
		return c.inferBinary(e, env)
	case *ast.LogicalExpr:
		return c.inferLogical(e, env)
	case *ast.UnaryExpr:
		return c.inferUnary(e, env)
	case *ast.UpdateExpr:
		operandType := c.inferExpr(e.Operand, env)
		if !numericOrAny(operandType) {
			c.errorf(codeUpdateNotNumber, e.Span, "operand of '%s' must be of type 'number'", e.Op.String())
		}
		return types.NumberType
	case *ast.AssignExpr:
		return c.inferAssign(e, env)
	case *ast.ConditionalExpr:
		c.inferExpr(e.Condition, env)
		return types.NewUnion(c.inferExpr(e.Then, env), c.inferExpr(e.Else, env))
	case *ast.CallExpr:
		return c.inferCall(e, env)
	case *ast.NewExpr:
		return c.inferNew(e, env)
	case *ast.MemberExpr:
		return c.inferMember(e, env)
	case *ast.ComputedMemberExpr:
		return c.inferComputedMember(e, env)
	case *ast.ArrayLit:
		return c.inferArrayLit(e, env)
	case *ast.ObjectLit:
		return c.inferObjectLit(e, env)
	case *ast.ArrowFunctionExpr:
		return c.inferArrow(e, env)
	case *ast.FunctionExpr:
		fnType := c.functionType(e.Params, e.ReturnType, env)
		c.checkFuncLike(e.Params, fnType, e.Body)
		return fnType
	case *ast.SpreadExpr:
		return c.inferExpr(e.Argument, env)
	case *ast.AwaitExpr:
		return c.inferExpr(e.Argument, env)
	case *ast.YieldExpr:
		if e.Argument != nil {
			return c.inferExpr(e.Argument, env)
		}
		return types.Any
	case *ast.TemplateLiteral:
		for _, x := range e.Exprs {
			c.inferExpr(x, env)
		}
		return types.StringType
	case *ast.TaggedTemplateExpr:
		c.inferExpr(e.Tag, env)
		return c.inferExpr(e.Template, env)
	case *ast.TypeAssertionExpr:
		c.inferExpr(e.Expression, env)
		return c.resolveType(e.Type, env)
	case *ast.AsExpr:
		c.inferExpr(e.Expression, env)
		return c.resolveType(e.Type, env)
	case *ast.NonNullExpr:
		t := c.inferExpr(e.Expression, env)
		return stripNullish(t)
	case *ast.ClassExpr:
		c.checkClassBody(e.Class, env)
		return types.Any
	default:
		return types.Any
	}
}

func stripNullish(t types.Type) types.Type {
	u, ok := t.(*types.Union)
	if !ok {
		return t
	}
	var arms []types.Type
	for _, a := range u.Arms {
		if types.IsNullOrUndefined(a) {
			continue
		}
		arms = append(arms, a)
	}
	if len(arms) == 0 {
		return t
	}
	return types.NewUnion(arms...)
}

func numericOrAny(t types.Type) bool {
	if types.IsAny(t) {
		return true
	}
	if p, ok := t.(*types.Primitive); ok {
		return p.Prim == types.Number
	}
	if l, ok := t.(*types.Literal); ok {
		return l.Prim == types.Number
	}
	return false
}

func isStringy(t types.Type) bool {
	if p, ok := t.(*types.Primitive); ok {
		return p.Prim == types.String
	}
	if l, ok := t.(*types.Literal); ok {
		return l.Prim == types.String
	}
	return false
}

// inferBinary implements spec §4.3's "Operator typing" for BinaryExpr.
func (c *Checker) inferBinary(e *ast.BinaryExpr, env *Environment) types.Type {
	left := c.inferExpr(e.Left, env)
	right := c.inferExpr(e.Right, env)
	switch e.Op {
	case token.PLUS:
		if isStringy(left) || isStringy(right) {
			return types.StringType
		}
		if !numericOrAny(left) || !numericOrAny(right) {
			c.errorf(codeOperandNotNumber, e.Span, "operands of '+' must both be 'number' or one must be 'string'")
		}
		return types.NumberType
	case token.MINUS, token.STAR, token.SLASH, token.PERCENT, token.STAR_STAR:
		if !numericOrAny(left) {
			c.errorf(codeOperandNotNumber, e.Left.GetSpan(), "operand must be of type 'number'")
		}
		if !numericOrAny(right) {
			c.errorf(codeOperandNotNumber, e.Right.GetSpan(), "operand must be of type 'number'")
		}
		return types.NumberType
	case token.AMP, token.PIPE, token.CARET, token.SHL, token.SHR, token.USHR:
		return types.NumberType
	case token.EQ, token.NEQ, token.EQ_STRICT, token.NEQ_STRICT,
		token.LT, token.LTE, token.GT, token.GTE, token.KW_INSTANCEOF, token.KW_IN:
		return types.BooleanType
	default:
		return types.Any
	}
}

// inferLogical implements &&, ||, ?? — spec explicitly gives ?? the union of
// both sides; && and || are given the same treatment here since neither has
// a narrower rule stated and both flow either operand's value through at
// runtime.
func (c *Checker) inferLogical(e *ast.LogicalExpr, env *Environment) types.Type {
	left := c.inferExpr(e.Left, env)
	right := c.inferExpr(e.Right, env)
	if e.Op == token.QUESTION_QUESTION {
		return types.NewUnion(stripNullish(left), right)
	}
	return types.NewUnion(left, right)
}

func (c *Checker) inferUnary(e *ast.UnaryExpr, env *Environment) types.Type {
	operand := c.inferExpr(e.Operand, env)
	switch e.Op {
	case token.BANG:
		return types.BooleanType
	case token.MINUS, token.PLUS, token.TILDE:
		if !numericOrAny(operand) {
			c.errorf(codeOperandNotNumber, e.Span, "operand must be of type 'number'")
		}
		return types.NumberType
	case token.KW_TYPEOF:
		return types.StringType
	case token.KW_DELETE:
		return types.BooleanType
	case token.KW_AWAIT:
		return operand
	default:
		return types.Any
	}
}

var compoundBaseOp = map[token.Kind]token.Kind{
	token.PLUS_ASSIGN: token.PLUS, token.MINUS_ASSIGN: token.MINUS,
	token.STAR_ASSIGN: token.STAR, token.SLASH_ASSIGN: token.SLASH,
	token.PERCENT_ASSIGN: token.PERCENT, token.STAR_STAR_ASSIGN: token.STAR_STAR,
	token.SHL_ASSIGN: token.SHL, token.SHR_ASSIGN: token.SHR, token.USHR_ASSIGN: token.USHR,
	token.AMP_ASSIGN: token.AMP, token.PIPE_ASSIGN: token.PIPE, token.CARET_ASSIGN: token.CARET,
}

var compoundLogicalOp = map[token.Kind]token.Kind{
	token.AMP_AMP_ASSIGN: token.AMP_AMP, token.PIPE_PIPE_ASSIGN: token.PIPE_PIPE,
	token.QUESTION_QUESTION_ASSIGN: token.QUESTION_QUESTION,
}

func (c *Checker) inferAssign(e *ast.AssignExpr, env *Environment) types.Type {
	targetType := c.inferExpr(e.Target, env)
	if e.Op == token.ASSIGN {
		valueType := c.inferExpr(e.Value, env)
		if !types.AssignableTo(valueType, targetType) {
			c.errorf(codeNotAssignable, e.Value.GetSpan(),
				"type '%s' is not assignable to type '%s'", valueType.String(), targetType.String())
		}
		return targetType
	}
	if base, ok := compoundBaseOp[e.Op]; ok {
		result := c.inferBinary(&ast.BinaryExpr{ExprBase: e.ExprBase, Op: base, Left: e.Target, Right: e.Value}, env)
		if !types.AssignableTo(result, targetType) {
			c.errorf(codeNotAssignable, e.Span,
				"type '%s' is not assignable to type '%s'", result.String(), targetType.String())
		}
		return targetType
	}
	if _, ok := compoundLogicalOp[e.Op]; ok {
		c.inferExpr(e.Value, env)
		return targetType
	}
	return targetType
}

// inferCall implements spec §4.3's call-site arity/variance checks.
func (c *Checker) inferCall(e *ast.CallExpr, env *Environment) types.Type {
	calleeType := c.inferExpr(e.Callee, env)
	argTypes := make([]types.Type, len(e.Args))
	for i, a := range e.Args {
		argTypes[i] = c.inferExpr(a, env)
	}
	if types.IsAny(calleeType) {
		return types.Any
	}
	fn, ok := calleeType.(*types.Function)
	if !ok {
		return types.Any
	}
	c.checkCallArity(fn, argTypes, e.Args, e.Span)
	return fn.Return
}

// checkCallArity implements spec §4.3's call-site arity/variance rules
// verbatim: required-count check, upper-bound check absent a rest
// parameter, then pairwise assignability for the overlapping prefix. A
// spread argument's inner type is inferred by the caller (so member access
// and the like inside it is still checked) but, per spec §4.3, it is not
// matched positionally: it expands to an unknown number of slots at
// runtime, so it and any arity bound built on an exact count are excluded.
func (c *Checker) checkCallArity(fn *types.Function, argTypes []types.Type, args []ast.Expr, callSpan span.Span) {
	hasSpread := false
	positionalTypes := make([]types.Type, 0, len(argTypes))
	positionalArgs := make([]ast.Expr, 0, len(args))
	for i, a := range args {
		if _, ok := a.(*ast.SpreadExpr); ok {
			hasSpread = true
			continue
		}
		positionalTypes = append(positionalTypes, argTypes[i])
		positionalArgs = append(positionalArgs, a)
	}

	required := fn.RequiredCount()
	k := len(positionalTypes)
	n := len(fn.Params)
	if !hasSpread && k < required {
		c.errorf(codeArgCount, callSpan, "expected at least %d arguments, but got %d", required, k)
		return
	}
	if !hasSpread && !fn.HasRest() && k > n {
		c.errorf(codeArgCount, callSpan, "expected at most %d arguments, but got %d", n, k)
		return
	}
	restAdjust := 0
	if fn.HasRest() {
		restAdjust = 1
	}
	limit := k
	if n-restAdjust < limit {
		limit = n - restAdjust
	}
	for i := 0; i < limit; i++ {
		if !types.AssignableTo(positionalTypes[i], fn.Params[i].Type) {
			c.errorf(codeParamMismatch, positionalArgs[i].GetSpan(),
				"argument of type '%s' is not assignable to parameter of type '%s'",
				positionalTypes[i].String(), fn.Params[i].Type.String())
		}
	}
}

// inferNew checks `new Ctor(args)` against the class's constructor
// signature, when one was recorded during collection.
func (c *Checker) inferNew(e *ast.NewExpr, env *Environment) types.Type {
	calleeType := c.inferExpr(e.Callee, env)
	argTypes := make([]types.Type, len(e.Args))
	for i, a := range e.Args {
		argTypes[i] = c.inferExpr(a, env)
	}
	cls, ok := calleeType.(*types.Class)
	if !ok {
		return types.Any
	}
	if ref, ok := e.Callee.(*ast.Ident); ok {
		if ctor, ok := c.classCtors[ref.Name]; ok {
			c.checkCallArity(ctor, argTypes, e.Args, e.Span)
		}
	}
	return cls
}

func (c *Checker) inferMember(e *ast.MemberExpr, env *Environment) types.Type {
	objType := c.inferExpr(e.Object, env)
	if e.Optional {
		objType = stripNullish(objType)
	}
	return c.memberType(objType, e.Property, e.Span)
}

func (c *Checker) memberType(objType types.Type, name string, sp span.Span) types.Type {
	if types.IsAny(objType) {
		return types.Any
	}
	switch t := objType.(type) {
	case *types.Interface:
		if m, ok := t.Get(name); ok {
			return m.Type
		}
		c.errorf(codeMissingMember, sp, "property '%s' does not exist on type '%s'", name, t.String())
		return types.Any
	case *types.Class:
		if m, ok := t.Instance.Get(name); ok {
			return m.Type
		}
		if m, ok := t.Static.Get(name); ok {
			return m.Type
		}
		c.errorf(codeMissingMember, sp, "property '%s' does not exist on type '%s'", name, t.String())
		return types.Any
	case *types.Array:
		if name == "length" {
			return types.NumberType
		}
		if knownArrayMethods[name] {
			return types.Any
		}
		c.errorf(codeMissingMember, sp, "property '%s' does not exist on array type", name)
		return types.Any
	case *types.Primitive:
		if t.Prim == types.String {
			if name == "length" {
				return types.NumberType
			}
			if knownStringMethods[name] {
				return types.Any
			}
			c.errorf(codeMissingMember, sp, "property '%s' does not exist on type 'string'", name)
			return types.Any
		}
		return types.Any
	case *types.Enumerated:
		if _, ok := t.Get(name); ok {
			return t
		}
		c.errorf(codeMissingMember, sp, "member '%s' does not exist on enum '%s'", name, t.Name)
		return types.Any
	case *types.Union:
		var results []types.Type
		for _, arm := range t.Arms {
			results = append(results, c.memberType(arm, name, sp))
		}
		return types.NewUnion(results...)
	default:
		return types.Any
	}
}

func (c *Checker) inferComputedMember(e *ast.ComputedMemberExpr, env *Environment) types.Type {
	objType := c.inferExpr(e.Object, env)
	c.inferExpr(e.Property, env)
	if e.Optional {
		objType = stripNullish(objType)
	}
	if arr, ok := objType.(*types.Array); ok {
		return arr.Element
	}
	if tup, ok := objType.(*types.Tuple); ok {
		return types.NewUnion(tup.Elements...)
	}
	if types.IsAny(objType) {
		return types.Any
	}
	if lit, ok := e.Property.(*ast.StringLit); ok {
		return c.memberType(objType, lit.Value, e.Span)
	}
	return types.Any
}

// inferArrayLit: element type is the union of element types (deduplicated by
// structural stringification, which types.NewUnion already performs); an
// empty array is array<any>.
func (c *Checker) inferArrayLit(e *ast.ArrayLit, env *Environment) types.Type {
	if len(e.Elements) == 0 {
		return &types.Array{Element: types.Any}
	}
	elemTypes := make([]types.Type, 0, len(e.Elements))
	for _, el := range e.Elements {
		elemTypes = append(elemTypes, c.inferExpr(el, env))
	}
	return &types.Array{Element: types.NewUnion(elemTypes...)}
}

// inferObjectLit: an anonymous interface with a member per property (spec
// §4.3).
func (c *Checker) inferObjectLit(e *ast.ObjectLit, env *Environment) types.Type {
	var members []types.Member
	for _, p := range e.Properties {
		if p.Spread {
			if src, ok := c.inferExpr(p.Value, env).(*types.Interface); ok {
				members = append(members, src.Members...)
			}
			continue
		}
		if p.Computed {
			c.inferExpr(p.KeyExpr, env)
			c.inferExpr(p.Value, env)
			continue // computed keys don't contribute a statically-named member
		}
		var valueType types.Type
		if p.Value != nil {
			valueType = c.inferExpr(p.Value, env)
		} else if t, ok := env.Get(p.Key); ok {
			valueType = t // shorthand { x }
		} else {
			valueType = types.Any
		}
		members = append(members, types.Member{Name: p.Key, Type: valueType})
	}
	return types.NewInterface("", members)
}

// inferArrow: a function type with declared parameter types (missing → any)
// and declared return (missing → void, or the checked type of a concise
// expression body).
func (c *Checker) inferArrow(e *ast.ArrowFunctionExpr, env *Environment) types.Type {
	params := make([]types.Param, len(e.Params))
	for i, p := range e.Params {
		pt := types.Any
		if p.Type != nil {
			pt = c.resolveType(p.Type, env)
		}
		params[i] = types.Param{Name: p.Name, Type: pt, Optional: p.Optional, Rest: p.Rest}
	}

	fnEnv := NewEnvironment(c.global)
	for _, p := range params {
		fnEnv.Define(p.Name, p.Type, true)
	}

	var ret types.Type
	switch body := e.Body.(type) {
	case ast.Expr:
		ret = c.inferExpr(body, fnEnv)
		if e.ReturnType != nil {
			declared := c.resolveType(e.ReturnType, env)
			if !types.AssignableTo(ret, declared) {
				c.errorf(codeReturnMismatch, body.GetSpan(),
					"type '%s' is not assignable to return type '%s'", ret.String(), declared.String())
			}
			ret = declared
		}
	case *ast.BlockStmt:
		ret = types.VoidType
		if e.ReturnType != nil {
			ret = c.resolveType(e.ReturnType, env)
		}
		c.funcReturnStack = append(c.funcReturnStack, ret)
		for _, stmt := range body.Stmts {
			c.checkStmt(stmt, fnEnv)
		}
		c.funcReturnStack = c.funcReturnStack[:len(c.funcReturnStack)-1]
	default:
		ret = types.VoidType
	}
	return &types.Function{Params: params, Return: ret}
}
