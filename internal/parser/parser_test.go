package parser

import (
	"encoding/json"
	"testing"

	"typeforge/internal/ast"
	"typeforge/internal/lexer"
)

func parseOK(t *testing.T, source string) *ast.Program {
	t.Helper()
	l := lexer.New(source, "test.tf")
	tokens, lexDiags := l.Tokenize()
	if len(lexDiags) > 0 {
		t.Fatalf("lex errors: %v", lexDiags)
	}
	program, err := Parse(tokens)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return program
}

func parseErr(t *testing.T, source string) error {
	t.Helper()
	l := lexer.New(source, "test.tf")
	tokens, _ := l.Tokenize()
	_, err := Parse(tokens)
	if err == nil {
		t.Fatalf("%q: expected a syntax error, got none", source)
	}
	return err
}

func TestParseVarDecl(t *testing.T) {
	prog := parseOK(t, `let x: number = 42;`)
	if len(prog.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Body))
	}
	decl, ok := prog.Body[0].(*ast.VarDeclStmt)
	if !ok {
		t.Fatalf("expected VarDeclStmt, got %T", prog.Body[0])
	}
	if decl.Kind != ast.VarKindLet {
		t.Errorf("expected let, got %v", decl.Kind)
	}
	if len(decl.Declarations) != 1 || decl.Declarations[0].Name != "x" {
		t.Fatalf("unexpected declarators: %+v", decl.Declarations)
	}
	if _, ok := decl.Declarations[0].Type.(*ast.TypeRef); !ok {
		t.Errorf("expected TypeRef annotation, got %T", decl.Declarations[0].Type)
	}
}

func TestParseConstMultiDecl(t *testing.T) {
	prog := parseOK(t, `const a = 1, b = 2;`)
	decl := prog.Body[0].(*ast.VarDeclStmt)
	if decl.Kind != ast.VarKindConst {
		t.Errorf("expected const, got %v", decl.Kind)
	}
	if len(decl.Declarations) != 2 {
		t.Fatalf("expected 2 declarators, got %d", len(decl.Declarations))
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	prog := parseOK(t, `let z = 1 + 2 * 3;`)
	decl := prog.Body[0].(*ast.VarDeclStmt)
	bin, ok := decl.Declarations[0].Init.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected BinaryExpr, got %T", decl.Declarations[0].Init)
	}
	if bin.Op.String() != "+" {
		t.Errorf("expected '+', got %q", bin.Op.String())
	}
	rhs, ok := bin.Right.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected right BinaryExpr, got %T", bin.Right)
	}
	if rhs.Op.String() != "*" {
		t.Errorf("expected '*', got %q", rhs.Op.String())
	}
}

func TestParseExponentiationRightAssoc(t *testing.T) {
	prog := parseOK(t, `let z = 2 ** 3 ** 2;`)
	decl := prog.Body[0].(*ast.VarDeclStmt)
	bin := decl.Declarations[0].Init.(*ast.BinaryExpr)
	if bin.Op.String() != "**" {
		t.Fatalf("expected top-level '**', got %q", bin.Op.String())
	}
	if _, ok := bin.Right.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected right-associative nesting on the right, got left=%T right=%T", bin.Left, bin.Right)
	}
	if _, ok := bin.Left.(*ast.NumberLit); !ok {
		t.Fatalf("expected a flat literal on the left, got %T", bin.Left)
	}
}

func TestParseLogicalVsBinary(t *testing.T) {
	prog := parseOK(t, `let ok = a && b || c;`)
	decl := prog.Body[0].(*ast.VarDeclStmt)
	if _, ok := decl.Declarations[0].Init.(*ast.LogicalExpr); !ok {
		t.Fatalf("expected LogicalExpr, got %T", decl.Declarations[0].Init)
	}
}

func TestParseCompoundAssignment(t *testing.T) {
	prog := parseOK(t, `x += 1;`)
	stmt := prog.Body[0].(*ast.ExprStmt)
	assign, ok := stmt.Expr.(*ast.AssignExpr)
	if !ok {
		t.Fatalf("expected AssignExpr, got %T", stmt.Expr)
	}
	if assign.Op.String() != "+=" {
		t.Errorf("expected '+=', got %q", assign.Op.String())
	}
}

func TestParseTernaryRightAssoc(t *testing.T) {
	prog := parseOK(t, `let v = a ? b : c ? d : e;`)
	decl := prog.Body[0].(*ast.VarDeclStmt)
	cond, ok := decl.Declarations[0].Init.(*ast.ConditionalExpr)
	if !ok {
		t.Fatalf("expected ConditionalExpr, got %T", decl.Declarations[0].Init)
	}
	if _, ok := cond.Else.(*ast.ConditionalExpr); !ok {
		t.Fatalf("expected nested ConditionalExpr in else arm, got %T", cond.Else)
	}
}

func TestParseIfElseIfChain(t *testing.T) {
	source := `
if (x > 0) {
  print(x);
} else if (x == 0) {
  print(0);
} else {
  print(-1);
}`
	prog := parseOK(t, source)
	ifStmt, ok := prog.Body[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt, got %T", prog.Body[0])
	}
	elseIf, ok := ifStmt.Else.(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected nested IfStmt for else-if, got %T", ifStmt.Else)
	}
	if _, ok := elseIf.Else.(*ast.BlockStmt); !ok {
		t.Fatalf("expected trailing else block, got %T", elseIf.Else)
	}
}

func TestParseWhileStmt(t *testing.T) {
	prog := parseOK(t, `while (i < 10) { i = i + 1; }`)
	w, ok := prog.Body[0].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("expected WhileStmt, got %T", prog.Body[0])
	}
	if len(w.Body.Stmts) != 1 {
		t.Errorf("expected 1 body statement, got %d", len(w.Body.Stmts))
	}
}

func TestParseCStyleForLoop(t *testing.T) {
	prog := parseOK(t, `for (let i = 0; i < 10; i++) { sum += i; }`)
	f, ok := prog.Body[0].(*ast.ForStmt)
	if !ok {
		t.Fatalf("expected ForStmt, got %T", prog.Body[0])
	}
	if _, ok := f.Init.(*ast.VarDeclStmt); !ok {
		t.Fatalf("expected VarDeclStmt init, got %T", f.Init)
	}
	if f.Condition == nil || f.Update == nil {
		t.Fatal("expected condition and update to be set")
	}
}

func TestParseForOf(t *testing.T) {
	prog := parseOK(t, `for (const x of items) { use(x); }`)
	f, ok := prog.Body[0].(*ast.ForOfStmt)
	if !ok {
		t.Fatalf("expected ForOfStmt, got %T", prog.Body[0])
	}
	if f.VarName != "x" || !f.IsDecl {
		t.Errorf("unexpected loop variable: %+v", f)
	}
}

func TestParseForIn(t *testing.T) {
	prog := parseOK(t, `for (const k in obj) { use(k); }`)
	if _, ok := prog.Body[0].(*ast.ForInStmt); !ok {
		t.Fatalf("expected ForInStmt, got %T", prog.Body[0])
	}
}

func TestParseFuncDeclWithTypes(t *testing.T) {
	prog := parseOK(t, `function add(a: number, b: number): number { return a + b; }`)
	fn, ok := prog.Body[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("expected FunctionDecl, got %T", prog.Body[0])
	}
	if fn.Name != "add" {
		t.Errorf("expected name 'add', got %q", fn.Name)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if fn.ReturnType == nil {
		t.Error("expected a return type annotation")
	}
}

func TestParseOptionalAndDefaultParams(t *testing.T) {
	prog := parseOK(t, `function greet(name?: string, greeting: string = "hi") {}`)
	fn := prog.Body[0].(*ast.FunctionDecl)
	if !fn.Params[0].Optional {
		t.Error("expected first param to be optional")
	}
	if fn.Params[1].Default == nil {
		t.Error("expected second param to carry a default value")
	}
}

func TestParseRestParam(t *testing.T) {
	prog := parseOK(t, `function sum(...nums: number[]) {}`)
	fn := prog.Body[0].(*ast.FunctionDecl)
	if !fn.Params[0].Rest {
		t.Error("expected rest parameter")
	}
	if _, ok := fn.Params[0].Type.(*ast.ArrayTypeExpr); !ok {
		t.Errorf("expected ArrayTypeExpr, got %T", fn.Params[0].Type)
	}
}

func TestParseArrowFunctionSingleIdent(t *testing.T) {
	prog := parseOK(t, `let f = x => x + 1;`)
	decl := prog.Body[0].(*ast.VarDeclStmt)
	arrow, ok := decl.Declarations[0].Init.(*ast.ArrowFunctionExpr)
	if !ok {
		t.Fatalf("expected ArrowFunctionExpr, got %T", decl.Declarations[0].Init)
	}
	if len(arrow.Params) != 1 || arrow.Params[0].Name != "x" {
		t.Fatalf("unexpected params: %+v", arrow.Params)
	}
	if _, ok := arrow.Body.(ast.Expr); !ok {
		t.Fatalf("expected concise expression body, got %T", arrow.Body)
	}
}

func TestParseArrowFunctionParenParams(t *testing.T) {
	prog := parseOK(t, `let f = (a: number, b: number): number => a + b;`)
	decl := prog.Body[0].(*ast.VarDeclStmt)
	arrow, ok := decl.Declarations[0].Init.(*ast.ArrowFunctionExpr)
	if !ok {
		t.Fatalf("expected ArrowFunctionExpr, got %T", decl.Declarations[0].Init)
	}
	if len(arrow.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(arrow.Params))
	}
	if arrow.ReturnType == nil {
		t.Error("expected return type annotation")
	}
}

func TestParseArrowVsParenExprAmbiguity(t *testing.T) {
	// (x) is a parenthesized expression here, not an arrow function.
	prog := parseOK(t, `let v = (x);`)
	decl := prog.Body[0].(*ast.VarDeclStmt)
	if _, ok := decl.Declarations[0].Init.(*ast.ParenExpr); !ok {
		t.Fatalf("expected ParenExpr, got %T", decl.Declarations[0].Init)
	}
}

func TestParseClassDecl(t *testing.T) {
	source := `
class Point {
  x: number;
  y: number;
  constructor(x: number, y: number) {
    this.x = x;
    this.y = y;
  }
  move(dx: number, dy: number): void {
    this.x = this.x + dx;
  }
}`
	prog := parseOK(t, source)
	cls, ok := prog.Body[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("expected ClassDecl, got %T", prog.Body[0])
	}
	if cls.Name != "Point" {
		t.Errorf("expected name 'Point', got %q", cls.Name)
	}
	if len(cls.Properties) != 2 {
		t.Errorf("expected 2 properties, got %d", len(cls.Properties))
	}
	if len(cls.Methods) != 2 {
		t.Fatalf("expected 2 methods (constructor + move), got %d", len(cls.Methods))
	}
	var sawCtor bool
	for _, m := range cls.Methods {
		if m.Kind == ast.MethodKindConstructor {
			sawCtor = true
		}
	}
	if !sawCtor {
		t.Error("expected a constructor method")
	}
}

func TestParseClassExtendsImplements(t *testing.T) {
	prog := parseOK(t, `class Dog extends Animal implements Named, Ageable { }`)
	cls := prog.Body[0].(*ast.ClassDecl)
	if cls.SuperClass == nil {
		t.Fatal("expected a superclass reference")
	}
	if len(cls.Implements) != 2 {
		t.Fatalf("expected 2 implemented interfaces, got %d", len(cls.Implements))
	}
}

func TestParseAbstractClassAndMethod(t *testing.T) {
	prog := parseOK(t, `abstract class Shape { abstract area(): number; }`)
	cls, ok := prog.Body[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("expected ClassDecl, got %T", prog.Body[0])
	}
	if !cls.Abstract {
		t.Error("expected class to be abstract")
	}
	if len(cls.Methods) != 1 || !cls.Methods[0].Abstract || cls.Methods[0].Body != nil {
		t.Fatalf("expected one bodyless abstract method, got %+v", cls.Methods)
	}
}

func TestParseGetterSetter(t *testing.T) {
	prog := parseOK(t, `class Box { get value(): number { return 1; } set value(v: number) {} }`)
	cls := prog.Body[0].(*ast.ClassDecl)
	if len(cls.Methods) != 2 {
		t.Fatalf("expected 2 accessor methods, got %d", len(cls.Methods))
	}
	if cls.Methods[0].Kind != ast.MethodKindGetter || cls.Methods[1].Kind != ast.MethodKindSetter {
		t.Fatalf("unexpected accessor kinds: %v %v", cls.Methods[0].Kind, cls.Methods[1].Kind)
	}
}

func TestParseInterfaceDecl(t *testing.T) {
	prog := parseOK(t, `interface Point { x: number; y: number; move(dx: number): void; }`)
	iface, ok := prog.Body[0].(*ast.InterfaceDecl)
	if !ok {
		t.Fatalf("expected InterfaceDecl, got %T", prog.Body[0])
	}
	if len(iface.Members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(iface.Members))
	}
	if !iface.Members[2].Method {
		t.Error("expected 'move' member to be a method")
	}
}

func TestParseInterfaceIndexSignature(t *testing.T) {
	prog := parseOK(t, `interface Dict { [key: string]: number; }`)
	iface := prog.Body[0].(*ast.InterfaceDecl)
	if iface.IndexSignature == nil {
		t.Fatal("expected an index signature")
	}
	if iface.IndexSignature.KeyName != "key" {
		t.Errorf("unexpected key name: %q", iface.IndexSignature.KeyName)
	}
}

func TestParseTypeAliasUnionIntersection(t *testing.T) {
	prog := parseOK(t, `type Id = string | number;`)
	alias, ok := prog.Body[0].(*ast.TypeAliasDecl)
	if !ok {
		t.Fatalf("expected TypeAliasDecl, got %T", prog.Body[0])
	}
	union, ok := alias.Type.(*ast.UnionTypeExpr)
	if !ok {
		t.Fatalf("expected UnionTypeExpr, got %T", alias.Type)
	}
	if len(union.Arms) != 2 {
		t.Fatalf("expected 2 arms, got %d", len(union.Arms))
	}
}

func TestParseConditionalType(t *testing.T) {
	prog := parseOK(t, `type IsString<T> = T extends string ? true : false;`)
	alias := prog.Body[0].(*ast.TypeAliasDecl)
	if _, ok := alias.Type.(*ast.ConditionalTypeExpr); !ok {
		t.Fatalf("expected ConditionalTypeExpr, got %T", alias.Type)
	}
}

func TestParseEnumDecl(t *testing.T) {
	prog := parseOK(t, `enum Color { Red, Green, Blue = 5 }`)
	e, ok := prog.Body[0].(*ast.EnumDecl)
	if !ok {
		t.Fatalf("expected EnumDecl, got %T", prog.Body[0])
	}
	if len(e.Members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(e.Members))
	}
	if e.Members[2].Init == nil {
		t.Error("expected explicit initializer on Blue")
	}
}

func TestParseCallExpr(t *testing.T) {
	prog := parseOK(t, `print(1, 2, 3);`)
	stmt := prog.Body[0].(*ast.ExprStmt)
	call, ok := stmt.Expr.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected CallExpr, got %T", stmt.Expr)
	}
	if len(call.Args) != 3 {
		t.Errorf("expected 3 args, got %d", len(call.Args))
	}
}

func TestParseGenericCallSiteVsLessThan(t *testing.T) {
	prog := parseOK(t, `let a = f<number>(x);`)
	decl := prog.Body[0].(*ast.VarDeclStmt)
	if _, ok := decl.Declarations[0].Init.(*ast.CallExpr); !ok {
		t.Fatalf("expected CallExpr (generic call site), got %T", decl.Declarations[0].Init)
	}

	prog2 := parseOK(t, `let b = a < c;`)
	decl2 := prog2.Body[0].(*ast.VarDeclStmt)
	if _, ok := decl2.Declarations[0].Init.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected BinaryExpr ('<' operator), got %T", decl2.Declarations[0].Init)
	}
}

func TestParseNestedGenericClosingAngleBrackets(t *testing.T) {
	prog := parseOK(t, `let m: Array<Array<number>> = [];`)
	decl := prog.Body[0].(*ast.VarDeclStmt)
	outer, ok := decl.Declarations[0].Type.(*ast.TypeRef)
	if !ok {
		t.Fatalf("expected TypeRef, got %T", decl.Declarations[0].Type)
	}
	if outer.Name != "Array" || len(outer.Args) != 1 {
		t.Fatalf("unexpected outer type ref: %+v", outer)
	}
	if _, ok := outer.Args[0].(*ast.TypeRef); !ok {
		t.Fatalf("expected nested TypeRef, got %T", outer.Args[0])
	}
}

func TestParseMemberAndOptionalChain(t *testing.T) {
	prog := parseOK(t, `obj?.method(1)?.prop;`)
	stmt := prog.Body[0].(*ast.ExprStmt)
	member, ok := stmt.Expr.(*ast.MemberExpr)
	if !ok {
		t.Fatalf("expected MemberExpr, got %T", stmt.Expr)
	}
	if member.Property != "prop" || !member.Optional {
		t.Errorf("expected optional '.prop' access, got %+v", member)
	}
}

func TestParseNewExpr(t *testing.T) {
	prog := parseOK(t, `let p = new Point(1, 2);`)
	decl := prog.Body[0].(*ast.VarDeclStmt)
	newExpr, ok := decl.Declarations[0].Init.(*ast.NewExpr)
	if !ok {
		t.Fatalf("expected NewExpr, got %T", decl.Declarations[0].Init)
	}
	if len(newExpr.Args) != 2 {
		t.Errorf("expected 2 args, got %d", len(newExpr.Args))
	}
}

func TestParseAsAndNonNullAssertion(t *testing.T) {
	prog := parseOK(t, `let v = (x as number)!;`)
	decl := prog.Body[0].(*ast.VarDeclStmt)
	if _, ok := decl.Declarations[0].Init.(*ast.NonNullExpr); !ok {
		t.Fatalf("expected NonNullExpr, got %T", decl.Declarations[0].Init)
	}
}

func TestParseTemplateLiteralWithInterpolation(t *testing.T) {
	prog := parseOK(t, "let s = `a${x}b`;")
	decl := prog.Body[0].(*ast.VarDeclStmt)
	tmpl, ok := decl.Declarations[0].Init.(*ast.TemplateLiteral)
	if !ok {
		t.Fatalf("expected TemplateLiteral, got %T", decl.Declarations[0].Init)
	}
	if len(tmpl.Exprs) != 1 {
		t.Fatalf("expected 1 interpolated expression, got %d", len(tmpl.Exprs))
	}
}

func TestParseObjectLiteralComputedAndSpread(t *testing.T) {
	prog := parseOK(t, `let o = { [k]: 1, ...rest, x };`)
	decl := prog.Body[0].(*ast.VarDeclStmt)
	obj, ok := decl.Declarations[0].Init.(*ast.ObjectLit)
	if !ok {
		t.Fatalf("expected ObjectLit, got %T", decl.Declarations[0].Init)
	}
	if len(obj.Properties) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(obj.Properties))
	}
	if !obj.Properties[0].Computed || obj.Properties[0].KeyExpr == nil {
		t.Errorf("expected first property to be computed with a key expression")
	}
	if !obj.Properties[1].Spread {
		t.Errorf("expected second property to be a spread")
	}
}

func TestParseImportExport(t *testing.T) {
	prog := parseOK(t, `
import { a, b as c } from "./mod";
export function f() {}
export default 42;`)
	if len(prog.Body) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(prog.Body))
	}
	imp, ok := prog.Body[0].(*ast.ImportStmt)
	if !ok {
		t.Fatalf("expected ImportStmt, got %T", prog.Body[0])
	}
	if len(imp.Specifiers) != 2 || imp.Specifiers[1].Local != "c" {
		t.Fatalf("unexpected specifiers: %+v", imp.Specifiers)
	}
	exp, ok := prog.Body[2].(*ast.ExportStmt)
	if !ok || !exp.Default || exp.Value == nil {
		t.Fatalf("expected export default expr, got %+v", prog.Body[2])
	}
}

func TestParseTryCatchFinally(t *testing.T) {
	prog := parseOK(t, `try { risky(); } catch (e) { handle(e); } finally { cleanup(); }`)
	tryStmt, ok := prog.Body[0].(*ast.TryStmt)
	if !ok {
		t.Fatalf("expected TryStmt, got %T", prog.Body[0])
	}
	if tryStmt.Catch == nil || tryStmt.Catch.Param != "e" {
		t.Fatalf("unexpected catch clause: %+v", tryStmt.Catch)
	}
	if tryStmt.Finally == nil {
		t.Error("expected a finally block")
	}
}

func TestParseSwitchStmt(t *testing.T) {
	prog := parseOK(t, `switch (x) { case 1: a(); break; default: b(); }`)
	sw, ok := prog.Body[0].(*ast.SwitchStmt)
	if !ok {
		t.Fatalf("expected SwitchStmt, got %T", prog.Body[0])
	}
	if len(sw.Cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(sw.Cases))
	}
	if sw.Cases[1].Test != nil {
		t.Error("expected default case to have a nil test")
	}
}

func TestParseNoErrorRecoveryStopsOnFirstError(t *testing.T) {
	err := parseErr(t, `let x = add(1, 2
let y = 3;`)
	se, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("expected *SyntaxError, got %T", err)
	}
	if se.Message == "" {
		t.Error("expected a descriptive message")
	}
}

func TestParseJSONOutput(t *testing.T) {
	prog := parseOK(t, `let x = 1;`)
	m := ast.NodeToMap(prog)
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		t.Fatalf("json error: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["kind"] != "Program" {
		t.Errorf("expected kind 'Program', got %v", decoded["kind"])
	}
}
