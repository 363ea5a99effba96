package interpreter

import (
	"fmt"
	"io"
	"time"

	"github.com/noahgmlee/lox/internal/ast"
	"github.com/noahgmlee/lox/internal/diagnostics"
	"github.com/noahgmlee/lox/internal/resolver"
	"github.com/noahgmlee/lox/internal/token"
)

// runtimeError is a fatal error that aborts the statement currently
// executing. It is carried up the call stack via panic/recover — a
// two-arm result rather than conflating `return` with exceptions:
// runtimeError is the "error" arm; controlReturn below is
// the "return-unwind" arm, and they are never confused because they are
// distinct Go types.
type runtimeError struct {
	token   token.Token
	message string
}

func (e *runtimeError) Error() string { return e.message }

// controlReturn carries a `return` statement's value up to the nearest
// enclosing Function.Call.
type controlReturn struct {
	value Value
}

// Interpreter is the single-threaded, synchronous tree-walking
// evaluator. It is reentrant (a Lox function may call another) but
// never concurrent.
type Interpreter struct {
	globals *Environment
	env     *Environment
	locals  resolver.Locals

	Stdout io.Writer
	Stderr io.Writer
}

// New returns an Interpreter with globals populated with the sole
// built-in, clock().
func New(locals resolver.Locals, stdout, stderr io.Writer) *Interpreter {
	globals := NewEnvironment(nil)
	globals.Define("clock", &NativeFunction{
		name:  "clock",
		arity: 0,
		fn: func(_ []Value) Value {
			return Number(float64(time.Now().UnixNano()) / 1e9)
		},
	})

	return &Interpreter{
		globals: globals,
		env:     globals,
		locals:  locals,
		Stdout:  stdout,
		Stderr:  stderr,
	}
}

// SetLocals merges the resolver's side table for the program about to
// run into the interpreter's accumulated one. Each RunFile/RunLine call
// resolves only its own freshly-parsed statements, so a function closed
// over on an earlier line keeps the *ast.Function it was declared
// with — its body's distances must stay reachable from i.locals after
// later lines add their own, or calling it back crashes with a
// spurious "Undefined variable" once i.locals no longer covers it.
func (i *Interpreter) SetLocals(locals resolver.Locals) {
	if i.locals == nil {
		i.locals = make(resolver.Locals, len(locals))
	}
	for expr, distance := range locals {
		i.locals[expr] = distance
	}
}

// Run executes prog's statements in order. If a runtime error aborts
// one, execution of the remaining statements in this call stops and the
// error is returned (mapped to exit 70 for a script; for a REPL, the
// caller runs one line per Run call, so only the rest of the current
// line is skipped and the next line still executes).
func (i *Interpreter) Run(prog *ast.Program) (err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(*runtimeError)
			if !ok {
				panic(r)
			}
			diagnostics.RuntimeError(i.Stderr, rerr.token.Line, rerr.message)
			err = rerr
		}
	}()

	for _, s := range prog.Stmts {
		i.exec(s)
	}
	return nil
}

func (i *Interpreter) exec(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Expression:
		i.eval(n.Expr)
	case *ast.Print:
		v := i.eval(n.Expr)
		fmt.Fprintln(i.Stdout, v.String())
	case *ast.Var:
		var v Value = Nil{}
		if n.Init != nil {
			v = i.eval(n.Init)
		}
		i.env.Define(n.Name.Lexeme, v)
	case *ast.Block:
		i.executeBlock(n.Stmts, NewEnvironment(i.env))
	case *ast.If:
		if IsTruthy(i.eval(n.Cond)) {
			i.exec(n.Then)
		} else if n.Else != nil {
			i.exec(n.Else)
		}
	case *ast.While:
		for IsTruthy(i.eval(n.Cond)) {
			i.exec(n.Body)
		}
	case *ast.Function:
		fn := &Function{decl: n, closure: i.env}
		i.env.Define(n.Name.Lexeme, fn)
	case *ast.Return:
		var v Value = Nil{}
		if n.Value != nil {
			v = i.eval(n.Value)
		}
		panic(controlReturn{value: v})
	case *ast.Class:
		i.execClass(n)
	default:
		panic("interpreter: unhandled statement type")
	}
}

// executeBlock runs stmts against env, restoring the previous
// environment on every exit path (normal, runtime error, or
// return-unwind).
func (i *Interpreter) executeBlock(stmts []ast.Stmt, env *Environment) {
	previous := i.env
	i.env = env
	defer func() { i.env = previous }()

	for _, s := range stmts {
		i.exec(s)
	}
}

func (i *Interpreter) execClass(c *ast.Class) {
	var superclass *Class
	if c.Superclass != nil {
		sv := i.eval(c.Superclass)
		sc, ok := sv.(*Class)
		if !ok {
			panic(&runtimeError{token: c.Superclass.Name, message: "Superclass must be a class."})
		}
		superclass = sc
	}

	i.env.Define(c.Name.Lexeme, Nil{})

	env := i.env
	if c.Superclass != nil {
		env = NewEnvironment(i.env)
		env.Define("super", superclass)
	}

	methods := make(map[string]*Function, len(c.Methods))
	for _, m := range c.Methods {
		methods[m.Name.Lexeme] = &Function{
			decl:          m,
			closure:       env,
			isInitializer: m.Name.Lexeme == "init",
		}
	}

	class := &Class{name: c.Name.Lexeme, superclass: superclass, methods: methods}
	i.env.Assign(c.Name, class)
}

func (i *Interpreter) eval(e ast.Expr) Value {
	switch n := e.(type) {
	case *ast.Literal:
		return literalValue(n.Value)
	case *ast.Grouping:
		return i.eval(n.Inner)
	case *ast.Unary:
		return i.evalUnary(n)
	case *ast.Binary:
		return i.evalBinary(n)
	case *ast.Logical:
		return i.evalLogical(n)
	case *ast.Variable:
		return i.lookUpVariable(n.Name, n)
	case *ast.Assign:
		v := i.eval(n.Value)
		if distance, ok := i.locals[n]; ok {
			i.env.AssignAt(distance, n.Name.Lexeme, v)
		} else {
			i.globals.Assign(n.Name, v)
		}
		return v
	case *ast.Call:
		return i.evalCall(n)
	case *ast.Get:
		return i.evalGet(n)
	case *ast.Set:
		return i.evalSet(n)
	case *ast.This:
		return i.lookUpVariable(n.Keyword, n)
	case *ast.Super:
		return i.evalSuper(n)
	default:
		panic("interpreter: unhandled expression type")
	}
}

func literalValue(v any) Value {
	switch x := v.(type) {
	case nil:
		return Nil{}
	case bool:
		return Bool(x)
	case float64:
		return Number(x)
	case string:
		return String(x)
	default:
		panic("interpreter: unhandled literal payload")
	}
}

func (i *Interpreter) lookUpVariable(name token.Token, expr ast.Expr) Value {
	if distance, ok := i.locals[expr]; ok {
		return i.env.GetAt(distance, name.Lexeme)
	}
	return i.globals.Get(name)
}

func (i *Interpreter) evalUnary(n *ast.Unary) Value {
	right := i.eval(n.Operand)
	switch n.Op.Kind {
	case token.Bang:
		return Bool(!IsTruthy(right))
	case token.Minus:
		return Number(-i.number(n.Op, right))
	default:
		panic("interpreter: unhandled unary operator")
	}
}

func (i *Interpreter) evalLogical(n *ast.Logical) Value {
	left := i.eval(n.Left)
	switch n.Op.Kind {
	case token.Or:
		if IsTruthy(left) {
			return left
		}
	case token.And:
		if !IsTruthy(left) {
			return left
		}
	}
	return i.eval(n.Right)
}

func (i *Interpreter) evalBinary(n *ast.Binary) Value {
	left := i.eval(n.Left)
	right := i.eval(n.Right)

	switch n.Op.Kind {
	case token.Plus:
		if ls, ok := left.(String); ok {
			if rs, ok := right.(String); ok {
				return ls + rs
			}
		}
		if ln, ok := left.(Number); ok {
			if rn, ok := right.(Number); ok {
				return ln + rn
			}
		}
		panic(&runtimeError{token: n.Op, message: "Operands must be two numbers or two strings."})
	case token.Minus:
		a, b := i.numbers(n.Op, left, right)
		return Number(a - b)
	case token.Star:
		a, b := i.numbers(n.Op, left, right)
		return Number(a * b)
	case token.Slash:
		a, b := i.numbers(n.Op, left, right)
		return Number(a / b)
	case token.Greater:
		a, b := i.numbers(n.Op, left, right)
		return Bool(a > b)
	case token.GreaterEqual:
		a, b := i.numbers(n.Op, left, right)
		return Bool(a >= b)
	case token.Less:
		a, b := i.numbers(n.Op, left, right)
		return Bool(a < b)
	case token.LessEqual:
		a, b := i.numbers(n.Op, left, right)
		return Bool(a <= b)
	case token.EqualEqual:
		return Bool(Equal(left, right))
	case token.BangEqual:
		return Bool(!Equal(left, right))
	default:
		panic("interpreter: unhandled binary operator")
	}
}

func (i *Interpreter) number(op token.Token, v Value) float64 {
	n, ok := v.(Number)
	if !ok {
		panic(&runtimeError{token: op, message: "Operand must be a number."})
	}
	return float64(n)
}

func (i *Interpreter) numbers(op token.Token, a, b Value) (float64, float64) {
	an, aok := a.(Number)
	bn, bok := b.(Number)
	if !aok || !bok {
		panic(&runtimeError{token: op, message: "Operands must be numbers."})
	}
	return float64(an), float64(bn)
}

func (i *Interpreter) evalCall(n *ast.Call) Value {
	callee := i.eval(n.Callee)

	args := make([]Value, len(n.Args))
	for idx, a := range n.Args {
		args[idx] = i.eval(a)
	}

	fn, ok := callee.(Callable)
	if !ok {
		panic(&runtimeError{token: n.Paren, message: "Can only call functions and classes."})
	}
	if len(args) != fn.Arity() {
		panic(&runtimeError{token: n.Paren, message: fmt.Sprintf(
			"Expected %d arguments but got %d.", fn.Arity(), len(args),
		)})
	}

	return fn.Call(i, args)
}

func (i *Interpreter) evalGet(n *ast.Get) Value {
	obj := i.eval(n.Object)
	instance, ok := obj.(*Instance)
	if !ok {
		panic(&runtimeError{token: n.Name, message: "Only instances have properties."})
	}

	v, method := instance.get(n.Name.Lexeme)
	if method != nil {
		return method.bind(instance)
	}
	if v == nil {
		panic(&runtimeError{token: n.Name, message: "Undefined property '" + n.Name.Lexeme + "'."})
	}
	return v
}

func (i *Interpreter) evalSet(n *ast.Set) Value {
	obj := i.eval(n.Object)
	instance, ok := obj.(*Instance)
	if !ok {
		panic(&runtimeError{token: n.Name, message: "Only instances have fields."})
	}

	v := i.eval(n.Value)
	instance.set(n.Name.Lexeme, v)
	return v
}

func (i *Interpreter) evalSuper(n *ast.Super) Value {
	distance := i.locals[n]
	superclass := i.env.GetAt(distance, "super").(*Class)
	instance := i.env.GetAt(distance-1, "this").(*Instance)

	method := superclass.findMethod(n.Method.Lexeme)
	if method == nil {
		panic(&runtimeError{token: n.Method, message: "Undefined property '" + n.Method.Lexeme + "'."})
	}
	return method.bind(instance)
}
