package interpreter

import (
	"fmt"

	"github.com/noahgmlee/lox/internal/ast"
)

// Callable is any Value that can appear as the callee of a Call
// expression: a user-defined Function or a Class (constructing an
// Instance).
type Callable interface {
	Value
	Arity() int
	Call(i *Interpreter, args []Value) Value
}

// Function is a function descriptor: the declaration AST node bundled
// with the environment it closed over, plus whether it is a class
// initializer.
type Function struct {
	decl          *ast.Function
	closure       *Environment
	isInitializer bool
}

func (f *Function) Kind() ValueKind { return KindFunction }
func (f *Function) String() string  { return fmt.Sprintf("<fn %s>", f.decl.Name.Lexeme) }
func (f *Function) Arity() int      { return len(f.decl.Params) }

// Call runs the function body in a fresh frame enclosing its closure,
// with parameters bound to args. A `return` inside the body is caught
// here via the controlReturn panic (see interpreter.go); falling off
// the end of the body returns Nil (or, for an initializer, the bound
// `this`).
func (f *Function) Call(i *Interpreter, args []Value) (result Value) {
	env := NewEnvironment(f.closure)
	for idx, param := range f.decl.Params {
		env.Define(param.Lexeme, args[idx])
	}

	defer func() {
		if r := recover(); r != nil {
			ret, ok := r.(controlReturn)
			if !ok {
				panic(r)
			}
			if f.isInitializer {
				result = f.closure.GetAt(0, "this")
				return
			}
			result = ret.value
		}
	}()

	i.executeBlock(f.decl.Body, env)

	if f.isInitializer {
		return f.closure.GetAt(0, "this")
	}
	return Nil{}
}

// bind produces a fresh Function descriptor whose captured environment
// adds a single `this -> instance` frame atop the method's original
// closure.
func (f *Function) bind(instance *Instance) *Function {
	env := NewEnvironment(f.closure)
	env.Define("this", instance)
	return &Function{decl: f.decl, closure: env, isInitializer: f.isInitializer}
}

// Class is a runtime class value: its method table and optional
// superclass.
type Class struct {
	name       string
	superclass *Class
	methods    map[string]*Function
}

func (c *Class) Kind() ValueKind { return KindClass }
func (c *Class) String() string  { return c.name }

// Arity is the arity of `init`, or 0 if the class has none.
func (c *Class) Arity() int {
	if init := c.findMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call constructs a new Instance and, if the class (or an ancestor)
// defines `init`, binds and invokes it. Construction always returns the
// instance regardless of what `init` itself returns.
func (c *Class) Call(i *Interpreter, args []Value) Value {
	instance := &Instance{class: c, fields: make(map[string]Value)}
	if init := c.findMethod("init"); init != nil {
		init.bind(instance).Call(i, args)
	}
	return instance
}

func (c *Class) findMethod(name string) *Function {
	if m, ok := c.methods[name]; ok {
		return m
	}
	if c.superclass != nil {
		return c.superclass.findMethod(name)
	}
	return nil
}

// Instance is a runtime object: a class reference plus a mutable
// property map. Property lookup checks instance fields first, then
// walks the class/superclass method chain.
type Instance struct {
	class  *Class
	fields map[string]Value
}

func (o *Instance) Kind() ValueKind { return KindInstance }
func (o *Instance) String() string  { return o.class.name + " instance" }

func (o *Instance) get(name string) (Value, *Function) {
	if v, ok := o.fields[name]; ok {
		return v, nil
	}
	if m := o.class.findMethod(name); m != nil {
		return nil, m
	}
	return nil, nil
}

func (o *Instance) set(name string, v Value) {
	o.fields[name] = v
}

// NativeFunction wraps a host-implemented builtin (e.g. clock()).
type NativeFunction struct {
	name  string
	arity int
	fn    func(args []Value) Value
}

func (n *NativeFunction) Kind() ValueKind { return KindFunction }
func (n *NativeFunction) String() string  { return fmt.Sprintf("<native fn %s>", n.name) }
func (n *NativeFunction) Arity() int      { return n.arity }
func (n *NativeFunction) Call(_ *Interpreter, args []Value) Value {
	return n.fn(args)
}
