package lox

import (
	"fmt"
	"strconv"
	"unicode"
)

// loxCallable is any value that can appear on the left of a call expression:
// a user-defined function or method, a class (whose call constructs an
// instance), or a native function provided by the runtime.
type loxCallable interface {
	arity() int
	call(interp *Interpreter, args []interface{}) (interface{}, error)
	String() string
}

// loxNativeFn wraps a Go function as a callable Lox value. clock() is the
// only one the runtime registers, but the shape is general so more can be
// added without inventing a new callable type per builtin.
type loxNativeFn struct {
	name string
	ar   int
	fn   func(interp *Interpreter, args []interface{}) (interface{}, error)
}

func (f *loxNativeFn) arity() int { return f.ar }

func (f *loxNativeFn) call(interp *Interpreter, args []interface{}) (interface{}, error) {
	return f.fn(interp, args)
}

func (f *loxNativeFn) String() string {
	return fmt.Sprintf("<native fn %s>", f.name)
}

// loxFn is a user-defined function or method. It closes over the environment
// active at the point of its declaration, so nested functions and methods
// see the variables of their enclosing scopes even after that scope has
// returned.
type loxFn struct {
	decl          *FunctionStmt
	closure       *Environment
	isInitializer bool
}

func newLoxFn(decl *FunctionStmt, closure *Environment, isInitializer bool) *loxFn {
	return &loxFn{decl, closure, isInitializer}
}

func (f *loxFn) arity() int {
	return len(f.decl.Params)
}

// bind returns a copy of f whose closure is a fresh frame binding "this" to
// instance, enclosing the original closure. Every bind makes its own frame,
// so two instances never share a "this" binding.
func (f *loxFn) bind(instance *loxInstance) *loxFn {
	env := NewEnvironment(f.closure)
	env.DefineName("this", instance)
	return newLoxFn(f.decl, env, f.isInitializer)
}

func (f *loxFn) call(interp *Interpreter, args []interface{}) (interface{}, error) {
	env := NewEnvironment(f.closure)
	for i, param := range f.decl.Params {
		env.Define(param, args[i])
	}

	err := interp.execBlock(f.decl.Body, env)
	if ret, ok := err.(*loxReturn); ok {
		if f.isInitializer {
			return f.closure.getAt(0, "this"), nil
		}
		return ret.val, nil
	}
	if err != nil {
		return nil, err
	}

	if f.isInitializer {
		return f.closure.getAt(0, "this"), nil
	}
	return nil, nil
}

func (f *loxFn) String() string {
	return fmt.Sprintf("<fn %s>", f.decl.Name.Lexeme)
}

// loxClass is a runtime class value: its own method table plus, if it
// inherits from one, a pointer to its superclass. Methods are looked up by
// walking the superclass chain, so an override in a subclass shadows the
// same name further up without copying anything.
type loxClass struct {
	name       string
	superclass *loxClass
	methods    map[string]*loxFn
}

func newLoxClass(name string, superclass *loxClass, methods map[string]*loxFn) *loxClass {
	return &loxClass{name, superclass, methods}
}

func (c *loxClass) findMethod(name string) *loxFn {
	if method, ok := c.methods[name]; ok {
		return method
	}
	if c.superclass != nil {
		return c.superclass.findMethod(name)
	}
	return nil
}

// arity defers to init's arity so calling the class with the wrong number of
// constructor arguments is caught the same way a bad function call is;
// classes without an init take no arguments.
func (c *loxClass) arity() int {
	if init := c.findMethod("init"); init != nil {
		return init.arity()
	}
	return 0
}

func (c *loxClass) call(interp *Interpreter, args []interface{}) (interface{}, error) {
	instance := newLoxInstance(c)
	if init := c.findMethod("init"); init != nil {
		if _, err := init.bind(instance).call(interp, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

func (c *loxClass) String() string {
	return c.name
}

// loxInstance is a runtime instance of a loxClass: a class pointer plus a
// bag of fields assigned via property-set expressions. Field lookups shadow
// methods of the same name, matching the "fields over methods" precedence
// used by class-based Lox implementations.
type loxInstance struct {
	class  *loxClass
	fields map[string]interface{}
}

func newLoxInstance(class *loxClass) *loxInstance {
	return &loxInstance{class, make(map[string]interface{})}
}

func (inst *loxInstance) get(name *Token) (interface{}, error) {
	if value, ok := inst.fields[name.Lexeme]; ok {
		return value, nil
	}
	if method := inst.class.findMethod(name.Lexeme); method != nil {
		return method.bind(inst), nil
	}
	return nil, NewRuntimeError(name, fmt.Sprintf("Undefined property '%s'.", name.Lexeme))
}

func (inst *loxInstance) set(name *Token, value interface{}) {
	inst.fields[name.Lexeme] = value
}

func (inst *loxInstance) String() string {
	return fmt.Sprintf("%s instance", inst.class.name)
}

// isTruthy implements Lox's truthiness: nil and false are falsy, everything
// else (including 0 and "") is truthy.
func isTruthy(value interface{}) bool {
	if value == nil {
		return false
	}
	if b, ok := value.(bool); ok {
		return b
	}
	return true
}

// stringify renders a Lox runtime value the way print and the REPL echo it.
// Numbers use the shortest round-tripping decimal representation, with no
// trailing ".0" for integral values.
func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		text := strconv.FormatFloat(v, 'f', -1, 64)
		return text
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func isBeginIdent(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isAlphanumeric(r rune) bool {
	return isBeginIdent(r) || unicode.IsDigit(r)
}
