package interpreter

import "github.com/noahgmlee/lox/internal/token"

// Environment is one frame of the lexical scope chain: a mapping from
// identifier to runtime value, plus a reference to the enclosing frame.
// Frames are shared by reference — a closure, an
// active call, and a block all hold the same *Environment, and cyclic
// closure<->frame references are permitted and simply leak (acceptable
// for a reference interpreter with no GC pressure of its own).
type Environment struct {
	parent *Environment
	values map[string]Value
}

// NewEnvironment returns a frame enclosed by parent (nil for globals).
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{parent: parent, values: make(map[string]Value)}
}

// Define unconditionally inserts name into the current frame, shadowing
// any binding of the same name in this frame. Redeclaration of globals
// is permitted this way; the resolver rejects redeclaration of locals
// before execution ever reaches here.
func (e *Environment) Define(name string, v Value) {
	e.values[name] = v
}

// Get reads name from this frame or, failing that, recursively from
// enclosing frames. Used only for the fallback path: names the
// resolver did not record a distance for (i.e. globals).
func (e *Environment) Get(name token.Token) Value {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[name.Lexeme]; ok {
			return v
		}
	}
	panic(&runtimeError{token: name, message: "Undefined variable '" + name.Lexeme + "'."})
}

// Assign updates the first frame along the chain that already contains
// name, without creating a new binding. Fails if no frame does.
func (e *Environment) Assign(name token.Token, v Value) {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name.Lexeme]; ok {
			env.values[name.Lexeme] = v
			return
		}
	}
	panic(&runtimeError{token: name, message: "Undefined variable '" + name.Lexeme + "'."})
}

// ancestor skips exactly distance enclosing frames.
func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.parent
	}
	return env
}

// GetAt reads name at exactly distance frame hops, with no further
// chain search. The evaluator uses this for every resolved local.
func (e *Environment) GetAt(distance int, name string) Value {
	return e.ancestor(distance).values[name]
}

// AssignAt writes name at exactly distance frame hops.
func (e *Environment) AssignAt(distance int, name string, v Value) {
	e.ancestor(distance).values[name] = v
}
