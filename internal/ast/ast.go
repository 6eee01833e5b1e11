// Package ast defines the syntax tree produced by the parser.
package ast

import (
	"typeforge/internal/span"
	"typeforge/internal/token"
)

// ============================================================
// Node interfaces
// ============================================================

// Node is the interface implemented by every syntax tree node.
type Node interface {
	nodeNode()
	GetSpan() span.Span
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// TypeExpr is the interface for type-expression nodes.
type TypeExpr interface {
	Node
	typeExprNode()
}

// ============================================================
// Base types (embedded to provide the common Span field)
// ============================================================

// NodeBase provides the common Span field for all nodes.
type NodeBase struct {
	Span span.Span
}

func (n NodeBase) nodeNode()          {}
func (n NodeBase) GetSpan() span.Span { return n.Span }

// ExprBase is embedded by all expression nodes.
type ExprBase struct{ NodeBase }

func (ExprBase) exprNode() {}

// StmtBase is embedded by all statement nodes.
type StmtBase struct{ NodeBase }

func (StmtBase) stmtNode() {}

// TypeExprBase is embedded by all type-expression nodes.
type TypeExprBase struct{ NodeBase }

func (TypeExprBase) typeExprNode() {}

// ============================================================
// Program root
// ============================================================

// Program is the root node: an ordered sequence of top-level statements.
type Program struct {
	NodeBase
	Body []Stmt
}

// ============================================================
// Expressions
// ============================================================

// Ident represents an identifier reference.
type Ident struct {
	ExprBase
	Name string
}

// NumberLit represents a numeric literal.
type NumberLit struct {
	ExprBase
	Value float64
	IsBig bool   // trailing 'n' suffix (bigint)
	Raw   string // original lexeme, preserved for emission
}

// StringLit represents a single/double quoted string literal.
type StringLit struct {
	ExprBase
	Value string
}

// BoolLit represents true/false.
type BoolLit struct {
	ExprBase
	Value bool
}

// NullLit represents the null literal.
type NullLit struct{ ExprBase }

// UndefinedLit represents the undefined literal.
type UndefinedLit struct{ ExprBase }

// ThisExpr represents the 'this' keyword.
type ThisExpr struct{ ExprBase }

// SuperExpr represents the 'super' keyword.
type SuperExpr struct{ ExprBase }

// BinaryExpr represents a binary operation: a + b, x === y, a instanceof B.
type BinaryExpr struct {
	ExprBase
	Op    token.Kind
	Left  Expr
	Right Expr
}

// LogicalExpr represents &&, ||, ?? — kept distinct from BinaryExpr because
// the checker's typing rule for these differs (result type, not always boolean).
type LogicalExpr struct {
	ExprBase
	Op    token.Kind
	Left  Expr
	Right Expr
}

// UnaryExpr represents a prefix unary operation: !x, -x, +x, ~x, typeof x, delete x, await x.
type UnaryExpr struct {
	ExprBase
	Op      token.Kind
	Operand Expr
}

// UpdateExpr represents ++x, x++, --x, x--.
type UpdateExpr struct {
	ExprBase
	Op      token.Kind // PLUS_PLUS or MINUS_MINUS
	Operand Expr
	Prefix  bool
}

// AssignExpr represents an assignment expression: target = value (also
// carries compound-assign operators verbatim, e.g. PLUS_ASSIGN-equivalents
// are represented at the token level via Op).
type AssignExpr struct {
	ExprBase
	Op     token.Kind
	Target Expr
	Value  Expr
}

// ConditionalExpr represents a ternary: cond ? then : else.
type ConditionalExpr struct {
	ExprBase
	Condition Expr
	Then      Expr
	Else      Expr
}

// CallExpr represents a function call: f(a, b), and optional-chained calls: f?.(a).
type CallExpr struct {
	ExprBase
	Callee   Expr
	Args     []Expr
	Optional bool
}

// NewExpr represents object creation: new Ctor(args).
type NewExpr struct {
	ExprBase
	Callee Expr
	Args   []Expr
}

// MemberExpr represents dotted member access: a.b, a?.b.
type MemberExpr struct {
	ExprBase
	Object   Expr
	Property string
	Optional bool
}

// ComputedMemberExpr represents indexed member access: a[b], a?.[b].
type ComputedMemberExpr struct {
	ExprBase
	Object   Expr
	Property Expr
	Optional bool
}

// ArrayLit represents an array literal: [a, b, ...c].
type ArrayLit struct {
	ExprBase
	Elements []Expr // a SpreadExpr may appear as an element
}

// ObjectProperty represents a single key/value pair in an object literal.
type ObjectProperty struct {
	Span     span.Span
	Key      string
	KeyExpr  Expr // set instead of Key when Computed is true
	Computed bool
	Value    Expr // nil for shorthand { x } (value is an Ident with the same name)
	Spread   bool // true for { ...rest }
}

// ObjectLit represents an object literal: { a: 1, b, ...c }.
type ObjectLit struct {
	ExprBase
	Properties []ObjectProperty
}

// Param represents a single function/arrow parameter.
type Param struct {
	Span     span.Span
	Name     string
	Type     TypeExpr // nil if unannotated
	Optional bool     // trailing '?'
	Rest     bool     // leading '...'
	Default  Expr     // nil if no default value
}

// ArrowFunctionExpr represents (params) => body or (params): T => body.
type ArrowFunctionExpr struct {
	ExprBase
	Params     []Param
	ReturnType TypeExpr // nil if unannotated
	Body       Node     // *BlockStmt, or an Expr for a concise arrow body
	Async      bool
}

// FunctionExpr represents a function expression: function [name](params) { body }.
type FunctionExpr struct {
	ExprBase
	Name       string // may be empty
	Params     []Param
	ReturnType TypeExpr
	Body       *BlockStmt
	Async      bool
}

// SpreadExpr represents ...expr used inside call arguments or array/object literals.
type SpreadExpr struct {
	ExprBase
	Argument Expr
}

// AwaitExpr represents await expr.
type AwaitExpr struct {
	ExprBase
	Argument Expr
}

// YieldExpr represents yield [expr] / yield* [expr].
type YieldExpr struct {
	ExprBase
	Argument Expr // nil for bare yield
	Delegate bool
}

// TemplateLiteral represents a template string: `text ${expr} text`.
// Parts has len(Exprs)+1 elements; Parts[i] is the static text before Exprs[i].
type TemplateLiteral struct {
	ExprBase
	Parts []string
	Exprs []Expr
}

// TaggedTemplateExpr represents tag`text ${expr}`.
type TaggedTemplateExpr struct {
	ExprBase
	Tag      Expr
	Template *TemplateLiteral
}

// TypeAssertionExpr represents the prefix cast: <T>expr.
type TypeAssertionExpr struct {
	ExprBase
	Type       TypeExpr
	Expression Expr
}

// AsExpr represents the postfix cast: expr as T.
type AsExpr struct {
	ExprBase
	Expression Expr
	Type       TypeExpr
}

// NonNullExpr represents the postfix non-null assertion: expr!.
type NonNullExpr struct {
	ExprBase
	Expression Expr
}

// ClassExpr represents a class used as an expression.
type ClassExpr struct {
	ExprBase
	Class *ClassDecl
}

// ParenExpr represents an explicitly parenthesized expression, preserved so
// the emitter can reproduce it verbatim.
type ParenExpr struct {
	ExprBase
	Expression Expr
}

// Decorator represents a single @expr applied to a class or class member.
type Decorator struct {
	Span       span.Span
	Expression Expr
}

// ============================================================
// Statements
// ============================================================

// ExprStmt wraps an expression used as a statement.
type ExprStmt struct {
	StmtBase
	Expr Expr
}

// EmptyStmt represents a bare ';'.
type EmptyStmt struct{ StmtBase }

// VarKind distinguishes var/let/const declarations.
type VarKind int

const (
	VarKindVar VarKind = iota
	VarKindLet
	VarKindConst
)

// VarDeclarator is a single binding within a variable statement.
type VarDeclarator struct {
	Span span.Span
	Name string
	Type TypeExpr // nil if unannotated
	Init Expr     // nil if no initializer
}

// VarDeclStmt represents a var/let/const statement, possibly with several
// comma-separated declarators.
type VarDeclStmt struct {
	StmtBase
	Kind         VarKind
	Declarations []VarDeclarator
}

// FunctionDecl represents a top-level or nested function declaration.
type FunctionDecl struct {
	StmtBase
	Name       string
	Params     []Param
	ReturnType TypeExpr
	Body       *BlockStmt
	Async      bool
	Exported   bool
	Default    bool
}

// ReturnStmt represents a return statement.
type ReturnStmt struct {
	StmtBase
	Value Expr // may be nil
}

// BreakStmt represents a break [label] statement.
type BreakStmt struct {
	StmtBase
	Label string
}

// ContinueStmt represents a continue [label] statement.
type ContinueStmt struct {
	StmtBase
	Label string
}

// BlockStmt represents a block of statements: { ... }.
type BlockStmt struct {
	StmtBase
	Stmts []Stmt
}

// IfStmt represents an if/else chain. A trailing "else if" is represented by
// nesting: Else is itself an *IfStmt.
type IfStmt struct {
	StmtBase
	Condition Expr
	Then      *BlockStmt
	Else      Stmt // *BlockStmt, *IfStmt, or nil
}

// WhileStmt represents a while loop.
type WhileStmt struct {
	StmtBase
	Condition Expr
	Body      *BlockStmt
}

// DoWhileStmt represents a do { ... } while (cond) loop.
type DoWhileStmt struct {
	StmtBase
	Body      *BlockStmt
	Condition Expr
}

// ForStmt represents a C-style for loop: for (init; cond; update) body.
type ForStmt struct {
	StmtBase
	Init      Node // VarDeclStmt, ExprStmt, or nil
	Condition Expr // or nil
	Update    Expr // or nil
	Body      *BlockStmt
}

// ForInStmt represents for (var k in obj) body.
type ForInStmt struct {
	StmtBase
	Kind    VarKind
	VarName string
	VarType TypeExpr
	IsDecl  bool // false if the loop variable is a pre-existing binding, not a declaration
	Object  Expr
	Body    *BlockStmt
}

// ForOfStmt represents for (var x of iterable) body.
type ForOfStmt struct {
	StmtBase
	Kind     VarKind
	VarName  string
	VarType  TypeExpr
	IsDecl   bool
	Iterable Expr
	Body     *BlockStmt
}

// SwitchCase represents a single case/default arm of a switch statement.
type SwitchCase struct {
	Span span.Span
	Test Expr // nil for default
	Body []Stmt
}

// SwitchStmt represents a switch statement.
type SwitchStmt struct {
	StmtBase
	Discriminant Expr
	Cases        []SwitchCase
}

// CatchClause represents the catch(param) { body } part of a try statement.
type CatchClause struct {
	Span  span.Span
	Param string // may be empty for catch {}
	Body  *BlockStmt
}

// TryStmt represents try { } [catch (e) { }] [finally { }].
type TryStmt struct {
	StmtBase
	Block   *BlockStmt
	Catch   *CatchClause // may be nil
	Finally *BlockStmt   // may be nil
}

// ThrowStmt represents a throw statement.
type ThrowStmt struct {
	StmtBase
	Value Expr
}

// ImportSpecifier represents one imported binding in an import statement.
type ImportSpecifier struct {
	Span        span.Span
	Imported    string // name in the source module, "*" for namespace, "default" for default
	Local       string // local binding name
	IsDefault   bool
	IsNamespace bool
}

// ImportStmt represents an import statement, reproduced verbatim by the emitter.
type ImportStmt struct {
	StmtBase
	Specifiers []ImportSpecifier
	Source     string
}

// ExportStmt represents export [default] <decl-or-expr>, or a bare re-export.
type ExportStmt struct {
	StmtBase
	Default bool
	Decl    Stmt     // FunctionDecl, ClassDecl, VarDeclStmt, InterfaceDecl, TypeAliasDecl, EnumDecl, or nil
	Value   Expr     // set instead of Decl for `export default <expr>`
	Names   []string // for `export { a, b }` with no declaration
	Source  string   // for `export { a } from "mod"`, else empty
}

// ============================================================
// Type declarations
// ============================================================

// InterfaceMember describes one member of an interface or object type.
type InterfaceMember struct {
	Span     span.Span
	Name     string
	Type     TypeExpr
	Optional bool
	Readonly bool
	// Method is true when the member was declared with call syntax
	// (name(params): T) rather than name: T.
	Method bool
	Params []Param
}

// IndexSignature describes { [key: K]: V } inside an interface/object type.
type IndexSignature struct {
	Span      span.Span
	KeyName   string
	KeyType   TypeExpr
	ValueType TypeExpr
}

// TypeParam represents a single generic type parameter; generics are parsed
// but erased without substitution (spec Non-goal), so only the name is kept
// for erasure/printing purposes.
type TypeParam struct {
	Span       span.Span
	Name       string
	Constraint TypeExpr // extends clause, may be nil
	Default    TypeExpr // may be nil
}

// InterfaceDecl represents an interface declaration.
type InterfaceDecl struct {
	StmtBase
	Name           string
	TypeParams     []TypeParam
	Extends        []TypeExpr
	Members        []InterfaceMember
	IndexSignature *IndexSignature // may be nil
	Exported       bool
}

// TypeAliasDecl represents a type alias: type Name = T;
type TypeAliasDecl struct {
	StmtBase
	Name       string
	TypeParams []TypeParam
	Type       TypeExpr
	Exported   bool
}

// EnumMember represents a single member of an enum declaration.
type EnumMember struct {
	Span span.Span
	Name string
	Init Expr // nil if auto-numbered
}

// EnumDecl represents an enum declaration.
type EnumDecl struct {
	StmtBase
	Name     string
	Const    bool
	Members  []EnumMember
	Exported bool
}

// PropertyDecl represents a class field.
type PropertyDecl struct {
	Span       span.Span
	Decorators []Decorator
	Name       string
	Type       TypeExpr
	Init       Expr // may be nil
	Static     bool
	Readonly   bool
	Optional   bool
	Abstract   bool
	Visibility Visibility
}

// Visibility captures a class member's accessibility keyword. Recorded but
// not enforced (spec §4.3 "Accessibility is recorded but not enforced").
type Visibility int

const (
	VisibilityPublic Visibility = iota
	VisibilityPrivate
	VisibilityProtected
)

// MethodDecl represents a method (or constructor) inside a class.
type MethodDecl struct {
	Span       span.Span
	Decorators []Decorator
	Name       string // "constructor" for the constructor
	Params     []Param
	ReturnType TypeExpr
	Body       *BlockStmt // nil for an abstract method (no body)
	Static     bool
	Abstract   bool
	Async      bool
	Kind       MethodKind
	Visibility Visibility
}

// MethodKind distinguishes plain methods from accessors.
type MethodKind int

const (
	MethodKindMethod MethodKind = iota
	MethodKindGetter
	MethodKindSetter
	MethodKindConstructor
)

// ClassDecl represents a class declaration.
type ClassDecl struct {
	StmtBase
	Decorators []Decorator
	Name       string // may be empty for an anonymous class expression
	TypeParams []TypeParam
	SuperClass TypeExpr // reference type expr, nil if no extends
	SuperArgs  []Expr
	Implements []TypeExpr
	Properties []PropertyDecl
	Methods    []MethodDecl
	Abstract   bool
	Exported   bool
	Default    bool
}
