// Package types implements the checker's tagged sum of type values (spec §3
// "Type values"), grounded on the teacher's runtime.Value interface pattern:
// one interface, satisfied by a handful of small concrete kinds.
package types

import (
	"fmt"
	"strings"
)

// Kind discriminates the tagged sum.
type Kind int

const (
	KindPrimitive Kind = iota
	KindLiteral
	KindArray
	KindTuple
	KindUnion
	KindIntersection
	KindFunction
	KindInterface
	KindClass
	KindEnumerated
	KindAny
	KindUnknown
	KindNever
)

// Type is satisfied by every concrete type value.
type Type interface {
	Kind() Kind
	String() string
}

// PrimitiveKind enumerates the built-in scalar kinds.
type PrimitiveKind int

const (
	Number PrimitiveKind = iota
	String
	Boolean
	Void
	Null
	Undefined
	Symbol
	BigInt
)

func (p PrimitiveKind) String() string {
	switch p {
	case Number:
		return "number"
	case String:
		return "string"
	case Boolean:
		return "boolean"
	case Void:
		return "void"
	case Null:
		return "null"
	case Undefined:
		return "undefined"
	case Symbol:
		return "symbol"
	case BigInt:
		return "bigint"
	default:
		return "unknown"
	}
}

// Primitive represents one of the built-in scalar types.
type Primitive struct {
	Prim PrimitiveKind
}

func (p *Primitive) Kind() Kind     { return KindPrimitive }
func (p *Primitive) String() string { return p.Prim.String() }

// Convenience singletons for the common primitives; the checker constructs
// these instead of allocating a fresh *Primitive at every call site.
var (
	NumberType    = &Primitive{Prim: Number}
	StringType    = &Primitive{Prim: String}
	BooleanType   = &Primitive{Prim: Boolean}
	VoidType      = &Primitive{Prim: Void}
	NullType      = &Primitive{Prim: Null}
	UndefinedType = &Primitive{Prim: Undefined}
	SymbolType    = &Primitive{Prim: Symbol}
	BigIntType    = &Primitive{Prim: BigInt}
)

// Literal represents a type whose value set is exactly one scalar.
type Literal struct {
	Prim  PrimitiveKind // Number, String, or Boolean
	Value interface{}   // float64, string, or bool
}

func (l *Literal) Kind() Kind { return KindLiteral }
func (l *Literal) String() string {
	switch v := l.Value.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Widen returns the primitive type underlying a literal (e.g. the literal
// type for 42 widens to number). Used when a `var` binding needs its
// declared type rather than the narrow literal type of its initializer.
func (l *Literal) Widen() *Primitive {
	return &Primitive{Prim: l.Prim}
}

// Array represents T[].
type Array struct {
	Element Type
}

func (a *Array) Kind() Kind     { return KindArray }
func (a *Array) String() string { return a.Element.String() + "[]" }

// Tuple represents [T, U, ...].
type Tuple struct {
	Elements []Type
}

func (t *Tuple) Kind() Kind { return KindTuple }
func (t *Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Union represents A | B | C. Never contains a nested Union in normalized
// form; NewUnion flattens on construction.
type Union struct {
	Arms []Type
}

func (u *Union) Kind() Kind { return KindUnion }
func (u *Union) String() string {
	parts := make([]string, len(u.Arms))
	for i, a := range u.Arms {
		parts[i] = a.String()
	}
	return strings.Join(parts, " | ")
}

// NewUnion builds a Union with nested unions flattened and duplicate arms
// (by structural stringification) removed. A single resulting arm collapses
// to that arm directly rather than a one-element Union.
func NewUnion(arms ...Type) Type {
	flat := flattenUnion(arms)
	if len(flat) == 1 {
		return flat[0]
	}
	if len(flat) == 0 {
		return Never
	}
	return &Union{Arms: flat}
}

func flattenUnion(arms []Type) []Type {
	seen := make(map[string]bool)
	var out []Type
	var walk func(Type)
	walk = func(t Type) {
		if u, ok := t.(*Union); ok {
			for _, a := range u.Arms {
				walk(a)
			}
			return
		}
		key := t.String()
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, t)
	}
	for _, a := range arms {
		walk(a)
	}
	return out
}

// Intersection represents A & B & C, flattened the same way as Union.
type Intersection struct {
	Arms []Type
}

func (i *Intersection) Kind() Kind { return KindIntersection }
func (i *Intersection) String() string {
	parts := make([]string, len(i.Arms))
	for idx, a := range i.Arms {
		parts[idx] = a.String()
	}
	return strings.Join(parts, " & ")
}

// NewIntersection builds an Intersection with nested intersections flattened
// and duplicate arms removed, collapsing to a single arm when possible.
func NewIntersection(arms ...Type) Type {
	seen := make(map[string]bool)
	var out []Type
	var walk func(Type)
	walk = func(t Type) {
		if i, ok := t.(*Intersection); ok {
			for _, a := range i.Arms {
				walk(a)
			}
			return
		}
		key := t.String()
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, t)
	}
	for _, a := range arms {
		walk(a)
	}
	if len(out) == 1 {
		return out[0]
	}
	if len(out) == 0 {
		return Never
	}
	return &Intersection{Arms: out}
}

// Param is a single positional parameter of a Function type.
type Param struct {
	Name     string
	Type     Type
	Optional bool
	Rest     bool
}

// Function represents a callable signature.
type Function struct {
	Params []Param
	Return Type
}

func (f *Function) Kind() Kind { return KindFunction }
func (f *Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		suffix := ""
		if p.Rest {
			suffix = "..."
		} else if p.Optional {
			suffix = "?"
		}
		parts[i] = fmt.Sprintf("%s%s: %s", suffix, p.Name, p.Type.String())
	}
	ret := "void"
	if f.Return != nil {
		ret = f.Return.String()
	}
	return "(" + strings.Join(parts, ", ") + ") => " + ret
}

// RequiredCount returns the number of leading parameters that are neither
// optional nor a rest parameter, per spec §4.3's call-site arity rule.
func (f *Function) RequiredCount() int {
	n := 0
	for _, p := range f.Params {
		if p.Optional || p.Rest {
			continue
		}
		n++
	}
	return n
}

// HasRest reports whether the function's final parameter is a rest parameter.
func (f *Function) HasRest() bool {
	if len(f.Params) == 0 {
		return false
	}
	return f.Params[len(f.Params)-1].Rest
}

// Member describes one member of an Interface or a Class's member map.
type Member struct {
	Name     string
	Type     Type
	Optional bool
	Readonly bool
}

// Interface is a named, ordered mapping from member name to {type, optional,
// readonly}. Order matches declaration order; lookups are case-sensitive.
type Interface struct {
	Name    string
	Members []Member
	order   map[string]int
}

// NewInterface builds an Interface from an ordered member list.
func NewInterface(name string, members []Member) *Interface {
	order := make(map[string]int, len(members))
	for i, m := range members {
		order[m.Name] = i
	}
	return &Interface{Name: name, Members: members, order: order}
}

func (i *Interface) Kind() Kind { return KindInterface }
func (i *Interface) String() string {
	if i.Name != "" {
		return i.Name
	}
	parts := make([]string, len(i.Members))
	for idx, m := range i.Members {
		opt := ""
		if m.Optional {
			opt = "?"
		}
		parts[idx] = fmt.Sprintf("%s%s: %s", m.Name, opt, m.Type.String())
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

// Get looks up a member by name.
func (i *Interface) Get(name string) (Member, bool) {
	idx, ok := i.order[name]
	if !ok {
		return Member{}, false
	}
	return i.Members[idx], true
}

// WithMember returns a new Interface with m appended (or replacing an
// existing member of the same name), preserving declaration order for
// members inherited from elsewhere. Used to seed a subclass's own members
// on top of the copied superclass map.
func (i *Interface) WithMember(m Member) *Interface {
	members := make([]Member, len(i.Members))
	copy(members, i.Members)
	if idx, ok := i.order[m.Name]; ok {
		members[idx] = m
	} else {
		members = append(members, m)
	}
	return NewInterface(i.Name, members)
}

// Class carries an instance-member map and a static-member map, plus an
// optional superclass. spec §4.3: extending seeds the subclass's maps with a
// shallow copy of the superclass's members before its own members are added.
type Class struct {
	Name     string
	Instance *Interface
	Static   *Interface
	Super    *Class
}

func (c *Class) Kind() Kind     { return KindClass }
func (c *Class) String() string { return c.Name }

// EnumMember is one member of an Enumerated type: an ordered name mapped to
// either an int or a string value.
type EnumMember struct {
	Name  string
	Value interface{} // float64 or string
}

// Enumerated represents an enum declaration's type: an ordered mapping from
// member name to int-or-string.
type Enumerated struct {
	Name    string
	Members []EnumMember
}

func (e *Enumerated) Kind() Kind     { return KindEnumerated }
func (e *Enumerated) String() string { return e.Name }

// Get looks up an enum member by name.
func (e *Enumerated) Get(name string) (EnumMember, bool) {
	for _, m := range e.Members {
		if m.Name == name {
			return m, true
		}
	}
	return EnumMember{}, false
}

// ---- fixed singletons ----

type anyType struct{}

func (anyType) Kind() Kind     { return KindAny }
func (anyType) String() string { return "any" }

type unknownType struct{}

func (unknownType) Kind() Kind     { return KindUnknown }
func (unknownType) String() string { return "unknown" }

type neverType struct{}

func (neverType) Kind() Kind     { return KindNever }
func (neverType) String() string { return "never" }

// Any, Unknown, and Never are semantically fixed singletons (spec §3); they
// need not be interned, but sharing one instance each avoids needless churn.
var (
	Any     Type = anyType{}
	Unknown Type = unknownType{}
	Never   Type = neverType{}
)

// IsAny reports whether t is the Any singleton.
func IsAny(t Type) bool { return t != nil && t.Kind() == KindAny }

// IsNever reports whether t is the Never singleton.
func IsNever(t Type) bool { return t != nil && t.Kind() == KindNever }

// IsNullOrUndefined reports whether t is the null or undefined primitive.
func IsNullOrUndefined(t Type) bool {
	p, ok := t.(*Primitive)
	return ok && (p.Prim == Null || p.Prim == Undefined)
}
