package ast

// TypeRef represents a named type reference, optionally with a type-argument
// list: Foo, Array<number>, Map<string, T>.
type TypeRef struct {
	TypeExprBase
	Name string
	Args []TypeExpr // type arguments, may be empty
}

// ArrayTypeExpr represents T[].
type ArrayTypeExpr struct {
	TypeExprBase
	Element TypeExpr
}

// TupleTypeExpr represents [T, U, ...].
type TupleTypeExpr struct {
	TypeExprBase
	Elements []TypeExpr
}

// UnionTypeExpr represents A | B | C.
type UnionTypeExpr struct {
	TypeExprBase
	Arms []TypeExpr
}

// IntersectionTypeExpr represents A & B & C.
type IntersectionTypeExpr struct {
	TypeExprBase
	Arms []TypeExpr
}

// FunctionTypeParam is a single parameter within a function type.
type FunctionTypeParam struct {
	Name     string
	Type     TypeExpr
	Optional bool
	Rest     bool
}

// FunctionTypeExpr represents (a: T, b?: U) => R.
type FunctionTypeExpr struct {
	TypeExprBase
	Params     []FunctionTypeParam
	ReturnType TypeExpr
}

// ObjectTypeMember is a single member of an inline object type literal.
type ObjectTypeMember struct {
	Name     string
	Type     TypeExpr
	Optional bool
	Readonly bool
	Method   bool
	Params   []FunctionTypeParam
}

// ObjectTypeExpr represents an inline object type: { a: number; b?: string }.
type ObjectTypeExpr struct {
	TypeExprBase
	Members        []ObjectTypeMember
	IndexSignature *IndexSignature
}

// LiteralTypeExpr represents a literal type: "red", 42, true.
type LiteralTypeExpr struct {
	TypeExprBase
	Kind  LiteralTypeKind
	Value interface{} // string, float64, or bool depending on Kind
}

// LiteralTypeKind distinguishes the carried scalar kind of a literal type.
type LiteralTypeKind int

const (
	LiteralTypeString LiteralTypeKind = iota
	LiteralTypeNumber
	LiteralTypeBoolean
)

// ConditionalTypeExpr represents Check extends Extends ? True : False.
type ConditionalTypeExpr struct {
	TypeExprBase
	Check   TypeExpr
	Extends TypeExpr
	True    TypeExpr
	False   TypeExpr
}

// IndexedAccessTypeExpr represents T[K].
type IndexedAccessTypeExpr struct {
	TypeExprBase
	Object TypeExpr
	Index  TypeExpr
}

// ParenTypeExpr represents an explicitly parenthesized type: (A | B)[].
type ParenTypeExpr struct {
	TypeExprBase
	Inner TypeExpr
}

// MappedTypeExpr represents { [K in Keys]: T }. Rarely used; parsed and
// erased but not otherwise interpreted by the checker.
type MappedTypeExpr struct {
	TypeExprBase
	KeyName string
	InKeys  TypeExpr
	Value   TypeExpr
	Optional bool
	Readonly bool
}

// InferTypeExpr represents `infer X` inside a conditional type's Extends arm.
type InferTypeExpr struct {
	TypeExprBase
	Name string
}

// TypeQueryExpr represents `typeof x` used in type position.
type TypeQueryExpr struct {
	TypeExprBase
	ExprName string
}

// KeyofTypeExpr represents `keyof T`.
type KeyofTypeExpr struct {
	TypeExprBase
	Operand TypeExpr
}

// OptionalTypeExpr represents a trailing `?` inside a tuple element: [T?].
type OptionalTypeExpr struct {
	TypeExprBase
	Inner TypeExpr
}

// RestTypeExpr represents a leading `...` inside a tuple element: [...T[]].
type RestTypeExpr struct {
	TypeExprBase
	Inner TypeExpr
}
