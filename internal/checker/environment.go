package checker

import "typeforge/internal/types"

// valueBinding is what the value-name mapping stores: the binding's type and
// whether it is mutable.
type valueBinding struct {
	Type    types.Type
	Mutable bool
}

// Environment is the checker's lexical scope: a pair of mappings (values,
// types) plus a parent link, generalizing the teacher's runtime.Environment
// (a single value map with a parent chain) to carry a second, independent
// mapping for type-level names (aliases, interfaces, classes, enums).
type Environment struct {
	values map[string]valueBinding
	types  map[string]types.Type
	parent *Environment
}

// NewEnvironment creates a new environment with an optional parent scope.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]valueBinding),
		types:  make(map[string]types.Type),
		parent: parent,
	}
}

// Define declares a new value binding in the current scope. Returns false if
// the name is already bound locally (spec: "redeclaration in the same local
// environment is a diagnostic").
func (e *Environment) Define(name string, t types.Type, mutable bool) bool {
	if _, exists := e.values[name]; exists {
		return false
	}
	e.values[name] = valueBinding{Type: t, Mutable: mutable}
	return true
}

// Get looks up a value binding by walking the scope chain.
func (e *Environment) Get(name string) (types.Type, bool) {
	for env := e; env != nil; env = env.parent {
		if b, exists := env.values[name]; exists {
			return b.Type, true
		}
	}
	return nil, false
}

// GetBinding is like Get but also reports mutability, for assignment checks.
func (e *Environment) GetBinding(name string) (valueBinding, bool) {
	for env := e; env != nil; env = env.parent {
		if b, exists := env.values[name]; exists {
			return b, true
		}
	}
	return valueBinding{}, false
}

// HasLocal reports whether name is bound in this environment specifically,
// not an ancestor.
func (e *Environment) HasLocal(name string) bool {
	_, exists := e.values[name]
	return exists
}

// DefineType declares a new type-name binding (alias, interface, class,
// enum) in the current scope.
func (e *Environment) DefineType(name string, t types.Type) bool {
	if _, exists := e.types[name]; exists {
		return false
	}
	e.types[name] = t
	return true
}

// GetType looks up a type-name binding by walking the scope chain.
func (e *Environment) GetType(name string) (types.Type, bool) {
	for env := e; env != nil; env = env.parent {
		if t, exists := env.types[name]; exists {
			return t, true
		}
	}
	return nil, false
}
