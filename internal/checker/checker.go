// Package checker implements the multi-pass structural type checker: a
// syntax tree in, a diagnostic list out. It never panics; every rule
// violation appends a diag.Diagnostic and the walk continues, mirroring the
// teacher's lexer/parser habit of accumulating into a diagnostics slice
// rather than aborting.
package checker

import (
	"typeforge/internal/ast"
	"typeforge/internal/diag"
	"typeforge/internal/span"
	"typeforge/internal/types"
)

// Checker walks a syntax tree and produces diagnostics.
type Checker struct {
	global *Environment
	diags  []diag.Diagnostic

	// funcReturnStack tracks the declared return type of each function-like
	// body currently being checked, innermost last; empty means "not inside
	// a function", used to flag a return statement at top level.
	funcReturnStack []types.Type

	// classCtors records each class's constructor signature, keyed by class
	// name, so `new C(args)` can arity/type-check against it. Constructors
	// aren't members of the instance/static interfaces (spec: instance-
	// member mapping has no constructor slot), so they're tracked apart.
	classCtors map[string]*types.Function
}

// New creates a Checker with a fresh global environment.
func New() *Checker {
	return &Checker{global: NewEnvironment(nil), classCtors: make(map[string]*types.Function)}
}

// Check runs all five passes over program and returns the accumulated
// diagnostics (empty iff the program is well-typed).
func Check(program *ast.Program) []diag.Diagnostic {
	c := New()
	c.collectTypeAliasesAndEnums(program.Body)
	c.collectInterfaces(program.Body)
	c.collectClasses(program.Body)
	c.collectFunctionSignatures(program.Body)
	for _, stmt := range program.Body {
		c.checkStmt(stmt, c.global)
	}
	return c.diags
}

// errorf appends a checker (TypeError-taxonomy) diagnostic at sp.
func (c *Checker) errorf(code string, sp span.Span, format string, args ...interface{}) {
	c.diags = append(c.diags, diag.Errorf(code, sp, format, args...))
}

// currentReturnType reports the declared return type of the innermost
// function-like body being checked, and whether one is active at all.
func (c *Checker) currentReturnType() (types.Type, bool) {
	if len(c.funcReturnStack) == 0 {
		return nil, false
	}
	return c.funcReturnStack[len(c.funcReturnStack)-1], true
}
