// Package emitter renders a checked syntax tree back to source text in the
// target dialect: type surface stripped, enum declarations lowered to their
// runtime object form, everything else reproduced structurally.
//
// The printer's block shape (two-space indent, brace on the same line as the
// header, one statement per line) follows the same convention the parser's
// own block/statement productions assume when describing source layout.
package emitter

import (
	"fmt"
	"strconv"
	"strings"

	"typeforge/internal/ast"
	"typeforge/internal/token"
)

// Emit renders program as output source text, applying spec.md §4.4's
// lowerings. Emit never fails: a tree that reached this stage already
// parsed (and, typically, type-checked) successfully.
func Emit(program *ast.Program) string {
	e := &emitter{}
	for _, stmt := range program.Body {
		e.writeStmt(stmt, 0)
	}
	return e.b.String()
}

type emitter struct {
	b strings.Builder
}

func pad(indent int) string { return strings.Repeat("  ", indent) }

func (e *emitter) line(indent int, text string) {
	e.b.WriteString(pad(indent))
	e.b.WriteString(text)
	e.b.WriteByte('\n')
}

// writeStmt appends stmt (and its trailing newline) at indent.
func (e *emitter) writeStmt(stmt ast.Stmt, indent int) {
	switch s := stmt.(type) {
	case *ast.VarDeclStmt:
		e.line(indent, e.varDecl(s)+";")
	case *ast.FunctionDecl:
		e.writeFunctionDecl(s, indent)
	case *ast.ExprStmt:
		e.line(indent, e.expr(s.Expr)+";")
	case *ast.EmptyStmt:
		e.line(indent, ";")
	case *ast.BlockStmt:
		e.line(indent, "{")
		e.writeBlockBody(s, indent+1)
		e.line(indent, "}")
	case *ast.IfStmt:
		e.line(indent, e.ifChain(s, indent, false))
	case *ast.WhileStmt:
		e.line(indent, "while ("+e.expr(s.Condition)+") {")
		e.writeBlockBody(s.Body, indent+1)
		e.line(indent, "}")
	case *ast.DoWhileStmt:
		e.line(indent, "do {")
		e.writeBlockBody(s.Body, indent+1)
		e.line(indent, "} while ("+e.expr(s.Condition)+");")
	case *ast.ForStmt:
		e.writeForStmt(s, indent)
	case *ast.ForInStmt:
		e.line(indent, fmt.Sprintf("for (%s %s in %s) {", varKindWord(s.Kind), s.VarName, e.expr(s.Object)))
		e.writeBlockBody(s.Body, indent+1)
		e.line(indent, "}")
	case *ast.ForOfStmt:
		e.line(indent, fmt.Sprintf("for (%s %s of %s) {", varKindWord(s.Kind), s.VarName, e.expr(s.Iterable)))
		e.writeBlockBody(s.Body, indent+1)
		e.line(indent, "}")
	case *ast.SwitchStmt:
		e.writeSwitchStmt(s, indent)
	case *ast.TryStmt:
		e.writeTryStmt(s, indent)
	case *ast.ThrowStmt:
		e.line(indent, "throw "+e.expr(s.Value)+";")
	case *ast.ReturnStmt:
		if s.Value == nil {
			e.line(indent, "return;")
		} else {
			e.line(indent, "return "+e.expr(s.Value)+";")
		}
	case *ast.BreakStmt:
		if s.Label != "" {
			e.line(indent, "break "+s.Label+";")
		} else {
			e.line(indent, "break;")
		}
	case *ast.ContinueStmt:
		if s.Label != "" {
			e.line(indent, "continue "+s.Label+";")
		} else {
			e.line(indent, "continue;")
		}
	case *ast.InterfaceDecl:
		e.line(indent, "// interface "+s.Name+" removed")
	case *ast.TypeAliasDecl:
		e.line(indent, "// type "+s.Name+" removed")
	case *ast.EnumDecl:
		e.writeEnumDecl(s, indent)
	case *ast.ClassDecl:
		e.writeClassDecl(s, indent)
	case *ast.ImportStmt:
		e.line(indent, e.importStmt(s))
	case *ast.ExportStmt:
		e.writeExportStmt(s, indent)
	default:
		// unreachable for a well-formed tree
	}
}

func (e *emitter) writeBlockBody(block *ast.BlockStmt, indent int) {
	if block == nil {
		return
	}
	for _, s := range block.Stmts {
		e.writeStmt(s, indent)
	}
}

func varKindWord(k ast.VarKind) string {
	switch k {
	case ast.VarKindLet:
		return "let"
	case ast.VarKindConst:
		return "const"
	default:
		return "var"
	}
}

// varDecl renders a var/let/const statement without its trailing semicolon,
// stripping every declarator's type annotation.
func (e *emitter) varDecl(s *ast.VarDeclStmt) string {
	parts := make([]string, len(s.Declarations))
	for i, d := range s.Declarations {
		if d.Init != nil {
			parts[i] = d.Name + " = " + e.expr(d.Init)
		} else {
			parts[i] = d.Name
		}
	}
	return varKindWord(s.Kind) + " " + strings.Join(parts, ", ")
}

func (e *emitter) writeFunctionDecl(s *ast.FunctionDecl, indent int) {
	prefix := ""
	if s.Exported {
		prefix = "export "
		if s.Default {
			prefix += "default "
		}
	}
	async := ""
	if s.Async {
		async = "async "
	}
	e.line(indent, prefix+async+"function "+s.Name+"("+e.paramList(s.Params)+") {")
	e.writeBlockBody(s.Body, indent+1)
	e.line(indent, "}")
}

func (e *emitter) paramList(params []ast.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = e.param(p)
	}
	return strings.Join(parts, ", ")
}

func (e *emitter) param(p ast.Param) string {
	name := p.Name
	if p.Rest {
		name = "..." + name
	}
	if p.Default != nil {
		name += " = " + e.expr(p.Default)
	}
	return name
}

// ifChain renders an if/else-if/else chain per spec.md §4.4: else-if joins
// stay on the closing brace's line instead of opening a fresh block.
func (e *emitter) ifChain(s *ast.IfStmt, indent int, bareHeader bool) string {
	var b strings.Builder
	if !bareHeader {
		b.WriteString(pad(indent))
	}
	b.WriteString("if (" + e.expr(s.Condition) + ") {\n")
	b.WriteString(e.blockBodyString(s.Then, indent+1))
	b.WriteString(pad(indent) + "}")
	switch els := s.Else.(type) {
	case *ast.IfStmt:
		b.WriteString(" else " + e.ifChain(els, indent, true))
		return b.String()
	case *ast.BlockStmt:
		b.WriteString(" else {\n")
		b.WriteString(e.blockBodyString(els, indent+1))
		b.WriteString(pad(indent) + "}")
	}
	return b.String()
}

func (e *emitter) blockBodyString(block *ast.BlockStmt, indent int) string {
	inner := &emitter{}
	inner.writeBlockBody(block, indent)
	return inner.b.String()
}

func (e *emitter) writeForStmt(s *ast.ForStmt, indent int) {
	init := ""
	if s.Init != nil {
		if vd, ok := s.Init.(*ast.VarDeclStmt); ok {
			init = e.varDecl(vd)
		} else if es, ok := s.Init.(*ast.ExprStmt); ok {
			init = e.expr(es.Expr)
		}
	}
	cond := ""
	if s.Condition != nil {
		cond = e.expr(s.Condition)
	}
	update := ""
	if s.Update != nil {
		update = e.expr(s.Update)
	}
	e.line(indent, fmt.Sprintf("for (%s; %s; %s) {", init, cond, update))
	e.writeBlockBody(s.Body, indent+1)
	e.line(indent, "}")
}

func (e *emitter) writeSwitchStmt(s *ast.SwitchStmt, indent int) {
	e.line(indent, "switch ("+e.expr(s.Discriminant)+") {")
	for _, c := range s.Cases {
		if c.Test != nil {
			e.line(indent+1, "case "+e.expr(c.Test)+":")
		} else {
			e.line(indent+1, "default:")
		}
		for _, cs := range c.Body {
			e.writeStmt(cs, indent+2)
		}
	}
	e.line(indent, "}")
}

func (e *emitter) writeTryStmt(s *ast.TryStmt, indent int) {
	e.line(indent, "try {")
	e.writeBlockBody(s.Block, indent+1)
	if s.Catch != nil {
		if s.Catch.Param != "" {
			e.line(indent, "} catch ("+s.Catch.Param+") {")
		} else {
			e.line(indent, "} catch {")
		}
		e.writeBlockBody(s.Catch.Body, indent+1)
	}
	if s.Finally != nil {
		e.line(indent, "} finally {")
		e.writeBlockBody(s.Finally, indent+1)
	}
	e.line(indent, "}")
}

func (e *emitter) importStmt(s *ast.ImportStmt) string {
	if len(s.Specifiers) == 0 {
		return fmt.Sprintf("import %q;", s.Source)
	}
	var def string
	var ns string
	var named []string
	for _, spec := range s.Specifiers {
		switch {
		case spec.IsDefault:
			def = spec.Local
		case spec.IsNamespace:
			ns = "* as " + spec.Local
		case spec.Imported == spec.Local:
			named = append(named, spec.Local)
		default:
			named = append(named, spec.Imported+" as "+spec.Local)
		}
	}
	var clauses []string
	if def != "" {
		clauses = append(clauses, def)
	}
	if ns != "" {
		clauses = append(clauses, ns)
	}
	if len(named) > 0 {
		clauses = append(clauses, "{ "+strings.Join(named, ", ")+" }")
	}
	return fmt.Sprintf("import %s from %q;", strings.Join(clauses, ", "), s.Source)
}

func (e *emitter) writeExportStmt(s *ast.ExportStmt, indent int) {
	switch {
	case s.Decl != nil:
		if vd, ok := s.Decl.(*ast.VarDeclStmt); ok {
			e.line(indent, "export "+e.varDecl(vd)+";")
			return
		}
		e.writeStmt(withExported(s.Decl, s.Default), indent)
	case s.Value != nil:
		if s.Default {
			e.line(indent, "export default "+e.expr(s.Value)+";")
		} else {
			e.line(indent, "export "+e.expr(s.Value)+";")
		}
	case s.Source != "":
		e.line(indent, fmt.Sprintf("export { %s } from %q;", strings.Join(s.Names, ", "), s.Source))
	default:
		e.line(indent, "export { "+strings.Join(s.Names, ", ")+" };")
	}
}

// withExported marks a function declaration as exported so writeFunctionDecl
// prints its export prefix. Class and enum declarations already carry the
// Exported flag set by the parser, variable statements are prefixed in
// writeExportStmt, and interfaces and type aliases erase to comments.
func withExported(decl ast.Stmt, isDefault bool) ast.Stmt {
	switch d := decl.(type) {
	case *ast.FunctionDecl:
		cp := *d
		cp.Exported = true
		cp.Default = isDefault
		return &cp
	default:
		return decl
	}
}

// ---- enum lowering ----

func (e *emitter) writeEnumDecl(s *ast.EnumDecl, indent int) {
	if s.Const {
		e.line(indent, "// const enum "+s.Name+" - inlined")
		return
	}
	header := "var " + s.Name + ";"
	if s.Exported {
		header = "export " + header
	}
	e.line(indent, header)
	e.line(indent, "(function ("+s.Name+") {")
	nextNumeric := 0.0
	for _, m := range s.Members {
		e.line(indent+1, e.enumMemberLine(s.Name, m, &nextNumeric))
	}
	e.line(indent, fmt.Sprintf("})(%s || (%s = {}));", s.Name, s.Name))
}

func (e *emitter) enumMemberLine(enumName string, m ast.EnumMember, nextNumeric *float64) string {
	switch init := m.Init.(type) {
	case nil:
		v := *nextNumeric
		*nextNumeric++
		return twoWayEnumLine(enumName, m.Name, formatEnumNumber(v))
	case *ast.NumberLit:
		*nextNumeric = init.Value + 1
		return twoWayEnumLine(enumName, m.Name, numberLitText(init))
	case *ast.StringLit:
		return oneWayEnumLine(enumName, m.Name, strconv.Quote(init.Value))
	default:
		// Non-literal initializer: emitted verbatim, following the numeric
		// (two-way, reverse-mappable) convention since computed enum members
		// are conventionally numeric in this dialect.
		return twoWayEnumLine(enumName, m.Name, e.expr(init))
	}
}

func twoWayEnumLine(enumName, member, value string) string {
	return fmt.Sprintf("%s[%s[%q] = %s] = %q;", enumName, enumName, member, value, member)
}

func oneWayEnumLine(enumName, member, quotedValue string) string {
	return fmt.Sprintf("%s[%q] = %s;", enumName, member, quotedValue)
}

func formatEnumNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func numberLitText(n *ast.NumberLit) string {
	if n.Raw != "" {
		return n.Raw
	}
	return formatEnumNumber(n.Value)
}

// ---- classes ----

// writeDecorators prints each decorator's expression verbatim as a leading
// "@expr" line, one per decorator, immediately before the declaration it
// annotates. Decorators have no lowering here (spec.md note 5) — they are
// emitted unchanged and rely on the output dialect's own decorator runtime.
func (e *emitter) writeDecorators(decorators []ast.Decorator, indent int) {
	for _, d := range decorators {
		e.line(indent, "@"+e.expr(d.Expression))
	}
}

func (e *emitter) writeClassDecl(s *ast.ClassDecl, indent int) {
	e.writeDecorators(s.Decorators, indent)
	header := "class"
	if s.Name != "" {
		header += " " + s.Name
	}
	if s.SuperClass != nil {
		header += " extends " + typeRefName(s.SuperClass)
	}
	header += " {"
	if s.Exported {
		prefix := "export "
		if s.Default {
			prefix += "default "
		}
		header = prefix + header
	}
	e.line(indent, header)
	for _, p := range s.Properties {
		e.writePropertyDecl(p, indent+1)
	}
	for _, m := range s.Methods {
		e.writeMethodDecl(m, indent+1)
	}
	e.line(indent, "}")
}

func (e *emitter) writePropertyDecl(p ast.PropertyDecl, indent int) {
	if p.Init == nil {
		// A field declaration with no initializer is pure type surface
		// (definite-assignment bookkeeping); nothing to emit at runtime.
		return
	}
	e.writeDecorators(p.Decorators, indent)
	prefix := ""
	if p.Static {
		prefix = "static "
	}
	e.line(indent, prefix+p.Name+" = "+e.expr(p.Init)+";")
}

func (e *emitter) writeMethodDecl(m ast.MethodDecl, indent int) {
	if m.Abstract || m.Body == nil {
		e.writeDecorators(m.Decorators, indent)
		e.line(indent, fmt.Sprintf("// abstract %s(%s)", m.Name, e.paramNamesOnly(m.Params)))
		return
	}
	e.writeDecorators(m.Decorators, indent)
	prefix := ""
	if m.Static {
		prefix = "static "
	}
	if m.Async {
		prefix += "async "
	}
	switch m.Kind {
	case ast.MethodKindGetter:
		prefix += "get "
	case ast.MethodKindSetter:
		prefix += "set "
	}
	name := m.Name
	if m.Kind == ast.MethodKindConstructor {
		name = "constructor"
	}
	e.line(indent, prefix+name+"("+e.paramList(m.Params)+") {")
	e.writeBlockBody(m.Body, indent+1)
	e.line(indent, "}")
}

func (e *emitter) paramNamesOnly(params []ast.Param) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

func typeRefName(te ast.TypeExpr) string {
	if ref, ok := te.(*ast.TypeRef); ok {
		return ref.Name
	}
	return ""
}

// ---- expressions ----

// expr renders expr with no re-parenthesization: precedence is respected
// only through the tree shape the parser already produced, and explicit
// ParenExpr nodes are the sole source of printed parentheses.
func (e *emitter) expr(expr ast.Expr) string {
	if expr == nil {
		return ""
	}
	switch x := expr.(type) {
	case *ast.Ident:
		return x.Name
	case *ast.NumberLit:
		return numberLitText(x)
	case *ast.StringLit:
		return strconv.Quote(x.Value)
	case *ast.BoolLit:
		if x.Value {
			return "true"
		}
		return "false"
	case *ast.NullLit:
		return "null"
	case *ast.UndefinedLit:
		return "undefined"
	case *ast.ThisExpr:
		return "this"
	case *ast.SuperExpr:
		return "super"
	case *ast.BinaryExpr:
		return e.expr(x.Left) + " " + x.Op.String() + " " + e.expr(x.Right)
	case *ast.LogicalExpr:
		return e.expr(x.Left) + " " + x.Op.String() + " " + e.expr(x.Right)
	case *ast.UnaryExpr:
		if x.Op == token.KW_TYPEOF || x.Op == token.KW_DELETE || x.Op == token.KW_AWAIT {
			return x.Op.String() + " " + e.expr(x.Operand)
		}
		return x.Op.String() + e.expr(x.Operand)
	case *ast.UpdateExpr:
		if x.Prefix {
			return x.Op.String() + e.expr(x.Operand)
		}
		return e.expr(x.Operand) + x.Op.String()
	case *ast.AssignExpr:
		return e.expr(x.Target) + " " + x.Op.String() + " " + e.expr(x.Value)
	case *ast.ConditionalExpr:
		return e.expr(x.Condition) + " ? " + e.expr(x.Then) + " : " + e.expr(x.Else)
	case *ast.CallExpr:
		opt := ""
		if x.Optional {
			opt = "?."
		}
		return e.expr(x.Callee) + opt + "(" + e.exprList(x.Args) + ")"
	case *ast.NewExpr:
		return "new " + e.expr(x.Callee) + "(" + e.exprList(x.Args) + ")"
	case *ast.MemberExpr:
		if x.Optional {
			return e.expr(x.Object) + "?." + x.Property
		}
		return e.expr(x.Object) + "." + x.Property
	case *ast.ComputedMemberExpr:
		if x.Optional {
			return e.expr(x.Object) + "?.[" + e.expr(x.Property) + "]"
		}
		return e.expr(x.Object) + "[" + e.expr(x.Property) + "]"
	case *ast.ArrayLit:
		return "[" + e.exprList(x.Elements) + "]"
	case *ast.ObjectLit:
		return e.objectLit(x)
	case *ast.ArrowFunctionExpr:
		return e.arrowFunc(x)
	case *ast.FunctionExpr:
		async := ""
		if x.Async {
			async = "async "
		}
		return async + "function " + x.Name + "(" + e.paramList(x.Params) + ") {\n" + e.blockBodyString(x.Body, 1) + "}"
	case *ast.SpreadExpr:
		return "..." + e.expr(x.Argument)
	case *ast.AwaitExpr:
		return "await " + e.expr(x.Argument)
	case *ast.YieldExpr:
		star := ""
		if x.Delegate {
			star = "*"
		}
		if x.Argument == nil {
			return "yield" + star
		}
		return "yield" + star + " " + e.expr(x.Argument)
	case *ast.TemplateLiteral:
		return e.templateLiteral(x)
	case *ast.TaggedTemplateExpr:
		return e.expr(x.Tag) + e.templateLiteral(x.Template)
	case *ast.TypeAssertionExpr:
		return e.expr(x.Expression)
	case *ast.AsExpr:
		return e.expr(x.Expression)
	case *ast.NonNullExpr:
		return e.expr(x.Expression)
	case *ast.ClassExpr:
		inner := &emitter{}
		inner.writeClassDecl(x.Class, 0)
		return strings.TrimSuffix(inner.b.String(), "\n")
	case *ast.ParenExpr:
		return "(" + e.expr(x.Expression) + ")"
	default:
		return ""
	}
}

func (e *emitter) exprList(exprs []ast.Expr) string {
	parts := make([]string, len(exprs))
	for i, x := range exprs {
		parts[i] = e.expr(x)
	}
	return strings.Join(parts, ", ")
}

func (e *emitter) objectLit(x *ast.ObjectLit) string {
	parts := make([]string, len(x.Properties))
	for i, p := range x.Properties {
		switch {
		case p.Spread:
			parts[i] = "..." + e.expr(p.Value)
		case p.Computed:
			parts[i] = "[" + e.expr(p.KeyExpr) + "]: " + e.expr(p.Value)
		case p.Value == nil:
			parts[i] = p.Key
		default:
			parts[i] = p.Key + ": " + e.expr(p.Value)
		}
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func (e *emitter) arrowFunc(x *ast.ArrowFunctionExpr) string {
	async := ""
	if x.Async {
		async = "async "
	}
	switch body := x.Body.(type) {
	case ast.Expr:
		return async + "(" + e.paramList(x.Params) + ") => " + e.expr(body)
	case *ast.BlockStmt:
		return async + "(" + e.paramList(x.Params) + ") => {\n" + e.blockBodyString(body, 1) + "}"
	default:
		return async + "(" + e.paramList(x.Params) + ") => {}"
	}
}

func (e *emitter) templateLiteral(t *ast.TemplateLiteral) string {
	var b strings.Builder
	b.WriteByte('`')
	for i, part := range t.Parts {
		b.WriteString(part)
		if i < len(t.Exprs) {
			b.WriteString("${" + e.expr(t.Exprs[i]) + "}")
		}
	}
	b.WriteByte('`')
	return b.String()
}
