// Package resolver implements the static resolution pass: a second
// walk over the parsed program, before any evaluation, that assigns
// every name-referencing expression a lexical scope distance.
//
// This is a single type switch over the closed ast.Expr/ast.Stmt union
// rather than a visitor interface — the AST is closed and the resolver
// is one of exactly two consumers (the other being the interpreter).
package resolver

import (
	"github.com/noahgmlee/lox/internal/ast"
	"github.com/noahgmlee/lox/internal/diagnostics"
	"github.com/noahgmlee/lox/internal/token"
)

type functionType int

const (
	functionNone functionType = iota
	functionFunction
	functionMethod
	functionInitializer
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// Locals is the resolver's output: the side table mapping a resolved
// expression to its scope distance. Expressions absent from the table
// refer to globals.
type Locals map[ast.Expr]int

// Resolver walks a Program without executing it, recording scope
// distances into Locals.
type Resolver struct {
	scopes []map[string]bool // does not include the global scope
	locals Locals

	currentFunction functionType
	currentClass    classType

	Errors diagnostics.Bag
}

// New returns a Resolver ready to resolve a Program.
func New() *Resolver {
	return &Resolver{locals: make(Locals)}
}

// Resolve walks prog and returns the accumulated side table. Check
// Errors.HasErrors() before trusting the result: a program with
// resolve errors is rejected before evaluation ever starts.
func (r *Resolver) Resolve(prog *ast.Program) Locals {
	for _, s := range prog.Stmts {
		r.stmt(s)
	}
	return r.locals
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, map[string]bool{}) }
func (r *Resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, exists := scope[name.Lexeme]; exists {
		r.Errors.AtToken(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *Resolver) defineName(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = true
}

// resolveLocal scans the scope stack innermost-out; on the first frame
// containing name it records the hop distance against expr's identity.
// If no frame contains it, nothing is recorded and the interpreter will
// treat it as a global.
func (r *Resolver) resolveLocal(expr ast.Expr, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) stmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Expression:
		r.expr(n.Expr)
	case *ast.Print:
		r.expr(n.Expr)
	case *ast.Var:
		r.declare(n.Name)
		if n.Init != nil {
			r.expr(n.Init)
		}
		r.define(n.Name)
	case *ast.Block:
		r.beginScope()
		for _, inner := range n.Stmts {
			r.stmt(inner)
		}
		r.endScope()
	case *ast.If:
		r.expr(n.Cond)
		r.stmt(n.Then)
		if n.Else != nil {
			r.stmt(n.Else)
		}
	case *ast.While:
		r.expr(n.Cond)
		r.stmt(n.Body)
	case *ast.Function:
		r.declare(n.Name)
		r.define(n.Name)
		r.resolveFunction(n, functionFunction)
	case *ast.Return:
		if r.currentFunction == functionNone {
			r.Errors.AtToken(n.Keyword, "Can't return from top-level code.")
		}
		if n.Value != nil {
			if r.currentFunction == functionInitializer {
				r.Errors.AtToken(n.Keyword, "Can't return a value from an initializer.")
			}
			r.expr(n.Value)
		}
	case *ast.Class:
		r.resolveClass(n)
	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *Resolver) resolveFunction(fn *ast.Function, kind functionType) {
	enclosing := r.currentFunction
	r.currentFunction = kind

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	for _, s := range fn.Body {
		r.stmt(s)
	}
	r.endScope()

	r.currentFunction = enclosing
}

func (r *Resolver) resolveClass(c *ast.Class) {
	enclosingClass := r.currentClass
	r.currentClass = classClass

	r.declare(c.Name)
	r.define(c.Name)

	if c.Superclass != nil {
		if c.Superclass.Name.Lexeme == c.Name.Lexeme {
			r.Errors.AtToken(c.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentClass = classSubclass
		r.expr(c.Superclass)

		r.beginScope()
		r.defineName("super")
	}

	r.beginScope()
	r.defineName("this")

	for _, method := range c.Methods {
		kind := functionMethod
		if method.Name.Lexeme == "init" {
			kind = functionInitializer
		}
		r.resolveFunction(method, kind)
	}

	r.endScope()

	if c.Superclass != nil {
		r.endScope()
	}

	r.currentClass = enclosingClass
}

func (r *Resolver) expr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.Literal:
		// nothing to resolve
	case *ast.Grouping:
		r.expr(n.Inner)
	case *ast.Unary:
		r.expr(n.Operand)
	case *ast.Binary:
		r.expr(n.Left)
		r.expr(n.Right)
	case *ast.Logical:
		r.expr(n.Left)
		r.expr(n.Right)
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, declared := r.scopes[len(r.scopes)-1][n.Name.Lexeme]; declared && !defined {
				r.Errors.AtToken(n.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(n, n.Name.Lexeme)
	case *ast.Assign:
		r.expr(n.Value)
		r.resolveLocal(n, n.Name.Lexeme)
	case *ast.Call:
		r.expr(n.Callee)
		for _, a := range n.Args {
			r.expr(a)
		}
	case *ast.Get:
		r.expr(n.Object)
	case *ast.Set:
		r.expr(n.Value)
		r.expr(n.Object)
	case *ast.This:
		if r.currentClass == classNone {
			r.Errors.AtToken(n.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(n, n.Keyword.Lexeme)
	case *ast.Super:
		switch r.currentClass {
		case classNone:
			r.Errors.AtToken(n.Keyword, "Can't use 'super' outside of a class.")
		case classClass:
			r.Errors.AtToken(n.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(n, n.Keyword.Lexeme)
	default:
		panic("resolver: unhandled expression type")
	}
}
