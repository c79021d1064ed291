// Package environment implements the lexical scope chain the
// evaluator walks: each block, function call, and the top-level
// program gets its own Environment, linked to the scope it was
// created inside of.
package environment

import "github.com/oarkflow/spl/internal/object"

// Environment is one lexical scope: a flat name-to-value store plus a
// link to the enclosing scope (nil at the top level).
type Environment struct {
	store map[string]object.Value
	outer *Environment
}

// New creates a fresh top-level environment with no enclosing scope.
func New() *Environment {
	return &Environment{store: make(map[string]object.Value)}
}

// NewEnclosed creates a child scope of outer, the shape every block,
// function call, and loop iteration uses to introduce its own
// bindings without leaking them outward.
func NewEnclosed(outer *Environment) *Environment {
	return &Environment{store: make(map[string]object.Value), outer: outer}
}

// Get resolves name by walking outward from this scope, the same
// chain Assign and Define rely on for correct lexical shadowing.
func (e *Environment) Get(name string) (object.Value, bool) {
	if v, ok := e.store[name]; ok {
		return v, true
	}
	if e.outer != nil {
		return e.outer.Get(name)
	}
	return nil, false
}

// Define binds name in this scope specifically, shadowing any binding
// of the same name in an enclosing scope. Used for `var` declarations
// and for binding function parameters on each call.
func (e *Environment) Define(name string, val object.Value) {
	e.store[name] = val
}

// Assign rewrites an existing binding of name in the nearest enclosing
// scope that already defines it, without creating a new binding.
// It reports false if no scope in the chain defines name.
func (e *Environment) Assign(name string, val object.Value) bool {
	if _, ok := e.store[name]; ok {
		e.store[name] = val
		return true
	}
	if e.outer != nil {
		return e.outer.Assign(name, val)
	}
	return false
}
