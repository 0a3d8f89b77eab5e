package lox

import (
	"fmt"
	"io"
	"time"
)

// Interpreter walks a resolved syntax tree and evaluates it directly,
// statement by statement, rather than compiling it to any intermediate
// form. It implements both ExprVisitor and StmtVisitor.
type Interpreter struct {
	globals     *Environment
	environment *Environment
	locals      map[Expr]int
	output      io.Writer
	reporter    Reporter
	isREPL      bool
}

// NewInterpreter creates an interpreter that writes print and REPL-echo
// output to output and reports uncaught runtime errors to reporter.
func NewInterpreter(output io.Writer, reporter Reporter, isREPL bool) *Interpreter {
	globals := NewEnvironment(nil)
	globals.DefineName("clock", &loxNativeFn{
		name: "clock",
		ar:   0,
		fn: func(interp *Interpreter, args []interface{}) (interface{}, error) {
			return float64(time.Now().UnixNano()) / float64(time.Second), nil
		},
	})
	return &Interpreter{
		globals:     globals,
		environment: globals,
		locals:      make(map[Expr]int),
		output:      output,
		reporter:    reporter,
		isREPL:      isREPL,
	}
}

// Interpret executes each statement in order, stopping and reporting the
// first runtime error. Earlier effects (prints, assignments) are not undone;
// a REPL driver can still accept input on the next line since only this
// batch of statements aborts.
func (in *Interpreter) Interpret(statements []Stmt) {
	for _, stmt := range statements {
		if _, err := in.exec(stmt); err != nil {
			in.reporter.Report(err)
			break
		}
	}
}

// resolve records that expr, a variable/this/super reference, is bound d
// scopes out from wherever it is evaluated. The resolver calls this once per
// reference before Interpret ever runs.
func (in *Interpreter) resolve(expr Expr, depth int) {
	in.locals[expr] = depth
}

func (in *Interpreter) VisitBlockStmt(stmt *BlockStmt) (interface{}, error) {
	return nil, in.execBlock(stmt.Stmts, NewEnvironment(in.environment))
}

// VisitClassStmt evaluates the superclass (if any), binds the class name to
// nil before building the method table, then overwrites it with the real
// class value. This lets a method body reference its own class by name even
// though the class object doesn't exist yet while its methods are being
// built.
func (in *Interpreter) VisitClassStmt(stmt *ClassStmt) (interface{}, error) {
	var superclass *loxClass
	if stmt.Superclass != nil {
		superVal, err := in.eval(stmt.Superclass)
		if err != nil {
			return nil, err
		}
		sc, ok := superVal.(*loxClass)
		if !ok {
			return nil, NewRuntimeError(stmt.Superclass.Name, "Superclass must be a class.")
		}
		superclass = sc
	}

	in.environment.Define(stmt.Name, nil)

	if stmt.Superclass != nil {
		in.environment = NewEnvironment(in.environment)
		in.environment.DefineName("super", superclass)
	}

	methods := make(map[string]*loxFn)
	for _, method := range stmt.Methods {
		fn := newLoxFn(method, in.environment, method.Name.Lexeme == "init")
		methods[method.Name.Lexeme] = fn
	}

	class := newLoxClass(stmt.Name.Lexeme, superclass, methods)

	if stmt.Superclass != nil {
		in.environment = in.environment.enclosing
	}

	if err := in.environment.Assign(stmt.Name, class); err != nil {
		return nil, err
	}
	return nil, nil
}

func (in *Interpreter) VisitExprStmt(stmt *ExprStmt) (interface{}, error) {
	val, err := in.eval(stmt.Expr)
	if err != nil {
		return nil, err
	}
	if in.isREPL {
		if _, ok := stmt.Expr.(*AssignExpr); !ok {
			fmt.Fprintln(in.output, stringify(val))
		}
	}
	return nil, nil
}

func (in *Interpreter) VisitFunctionStmt(stmt *FunctionStmt) (interface{}, error) {
	fn := newLoxFn(stmt, in.environment, false)
	in.environment.Define(stmt.Name, fn)
	return nil, nil
}

func (in *Interpreter) VisitIfStmt(stmt *IfStmt) (interface{}, error) {
	cond, err := in.eval(stmt.Cond)
	if err != nil {
		return nil, err
	}
	if isTruthy(cond) {
		return in.exec(stmt.ThenBranch)
	}
	if stmt.ElseBranch != nil {
		return in.exec(stmt.ElseBranch)
	}
	return nil, nil
}

func (in *Interpreter) VisitPrintStmt(stmt *PrintStmt) (interface{}, error) {
	val, err := in.eval(stmt.Expr)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(in.output, stringify(val))
	return nil, nil
}

func (in *Interpreter) VisitReturnStmt(stmt *ReturnStmt) (interface{}, error) {
	var val interface{}
	if stmt.Val != nil {
		var err error
		val, err = in.eval(stmt.Val)
		if err != nil {
			return nil, err
		}
	}
	return nil, newLoxReturn(val)
}

func (in *Interpreter) VisitVarStmt(stmt *VarStmt) (interface{}, error) {
	var initVal interface{}
	if stmt.Init != nil {
		var err error
		initVal, err = in.eval(stmt.Init)
		if err != nil {
			return nil, err
		}
	}
	in.environment.Define(stmt.Name, initVal)
	return nil, nil
}

func (in *Interpreter) VisitWhileStmt(stmt *WhileStmt) (interface{}, error) {
	for {
		cond, err := in.eval(stmt.Cond)
		if err != nil {
			return nil, err
		}
		if !isTruthy(cond) {
			return nil, nil
		}
		if _, err := in.exec(stmt.Body); err != nil {
			return nil, err
		}
	}
}

func (in *Interpreter) VisitAssignExpr(expr *AssignExpr) (interface{}, error) {
	val, err := in.eval(expr.Val)
	if err != nil {
		return nil, err
	}
	if depth, ok := in.locals[expr]; ok {
		in.environment.assignAt(depth, expr.Name.Lexeme, val)
		return val, nil
	}
	if err := in.globals.Assign(expr.Name, val); err != nil {
		return nil, err
	}
	return val, nil
}

func (in *Interpreter) VisitBinaryExpr(expr *BinaryExpr) (interface{}, error) {
	lhs, err := in.eval(expr.Lhs)
	if err != nil {
		return nil, err
	}
	rhs, err := in.eval(expr.Rhs)
	if err != nil {
		return nil, err
	}

	switch expr.Op.Typ {
	case BANG_EQUAL:
		return lhs != rhs, nil
	case EQUAL_EQUAL:
		return lhs == rhs, nil
	case GREATER:
		l, r, ok := bothNumbers(lhs, rhs)
		if !ok {
			return nil, NewRuntimeError(expr.Op, "Operands must be numbers.")
		}
		return l > r, nil
	case GREATER_EQUAL:
		l, r, ok := bothNumbers(lhs, rhs)
		if !ok {
			return nil, NewRuntimeError(expr.Op, "Operands must be numbers.")
		}
		return l >= r, nil
	case LESS:
		l, r, ok := bothNumbers(lhs, rhs)
		if !ok {
			return nil, NewRuntimeError(expr.Op, "Operands must be numbers.")
		}
		return l < r, nil
	case LESS_EQUAL:
		l, r, ok := bothNumbers(lhs, rhs)
		if !ok {
			return nil, NewRuntimeError(expr.Op, "Operands must be numbers.")
		}
		return l <= r, nil
	case MINUS:
		l, r, ok := bothNumbers(lhs, rhs)
		if !ok {
			return nil, NewRuntimeError(expr.Op, "Operands must be numbers.")
		}
		return l - r, nil
	case PLUS:
		if l, r, ok := bothStrings(lhs, rhs); ok {
			return l + r, nil
		}
		if l, r, ok := bothNumbers(lhs, rhs); ok {
			return l + r, nil
		}
		return nil, NewRuntimeError(expr.Op, "Operands must be two numbers or two strings.")
	case SLASH:
		l, r, ok := bothNumbers(lhs, rhs)
		if !ok {
			return nil, NewRuntimeError(expr.Op, "Operands must be numbers.")
		}
		return l / r, nil
	case STAR:
		l, r, ok := bothNumbers(lhs, rhs)
		if !ok {
			return nil, NewRuntimeError(expr.Op, "Operands must be numbers.")
		}
		return l * r, nil
	}
	panic("unreachable binary operator " + string(expr.Op.Typ))
}

func bothNumbers(lhs, rhs interface{}) (float64, float64, bool) {
	l, ok1 := lhs.(float64)
	r, ok2 := rhs.(float64)
	return l, r, ok1 && ok2
}

func bothStrings(lhs, rhs interface{}) (string, string, bool) {
	l, ok1 := lhs.(string)
	r, ok2 := rhs.(string)
	return l, r, ok1 && ok2
}

// VisitCallExpr evaluates the callee and arguments, checks that the callee
// is something callable with the right arity, then dispatches to it. A
// class value used here constructs and returns a new instance.
func (in *Interpreter) VisitCallExpr(expr *CallExpr) (interface{}, error) {
	callee, err := in.eval(expr.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]interface{}, len(expr.Args))
	for i, a := range expr.Args {
		val, err := in.eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = val
	}

	callable, ok := callee.(loxCallable)
	if !ok {
		return nil, NewRuntimeError(expr.Paren, "Can only call functions and classes.")
	}
	if len(args) != callable.arity() {
		return nil, NewRuntimeError(expr.Paren,
			fmt.Sprintf("Expected %d arguments but got %d.", callable.arity(), len(args)))
	}
	return callable.call(in, args)
}

func (in *Interpreter) VisitGetExpr(expr *GetExpr) (interface{}, error) {
	obj, err := in.eval(expr.Obj)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*loxInstance)
	if !ok {
		return nil, NewRuntimeError(expr.Name, "Only instances have properties.")
	}
	return instance.get(expr.Name)
}

func (in *Interpreter) VisitGroupExpr(expr *GroupExpr) (interface{}, error) {
	return in.eval(expr.Expr)
}

func (in *Interpreter) VisitLiteralExpr(expr *LiteralExpr) (interface{}, error) {
	return expr.Val, nil
}

func (in *Interpreter) VisitLogicalExpr(expr *LogicalExpr) (interface{}, error) {
	lhs, err := in.eval(expr.Lhs)
	if err != nil {
		return nil, err
	}

	switch expr.Op.Typ {
	case OR:
		if isTruthy(lhs) {
			return lhs, nil
		}
	case AND:
		if !isTruthy(lhs) {
			return lhs, nil
		}
	default:
		panic("unreachable logical operator " + string(expr.Op.Typ))
	}
	return in.eval(expr.Rhs)
}

func (in *Interpreter) VisitSetExpr(expr *SetExpr) (interface{}, error) {
	obj, err := in.eval(expr.Obj)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*loxInstance)
	if !ok {
		return nil, NewRuntimeError(expr.Name, "Only instances have fields.")
	}
	val, err := in.eval(expr.Val)
	if err != nil {
		return nil, err
	}
	instance.set(expr.Name, val)
	return val, nil
}

func (in *Interpreter) VisitSuperExpr(expr *SuperExpr) (interface{}, error) {
	depth, ok := in.locals[expr]
	if !ok {
		return nil, NewRuntimeError(expr.Keyword, fmt.Sprintf("Undefined variable '%s'.", expr.Keyword.Lexeme))
	}
	superclass, ok := in.environment.getAt(depth, "super").(*loxClass)
	if !ok {
		return nil, NewRuntimeError(expr.Keyword, fmt.Sprintf("Undefined variable '%s'.", expr.Keyword.Lexeme))
	}
	instance, ok := in.environment.getAt(depth-1, "this").(*loxInstance)
	if !ok {
		return nil, NewRuntimeError(expr.Keyword, "Undefined variable 'this'.")
	}

	method := superclass.findMethod(expr.Method.Lexeme)
	if method == nil {
		return nil, NewRuntimeError(expr.Method, fmt.Sprintf("Undefined property '%s'.", expr.Method.Lexeme))
	}
	return method.bind(instance), nil
}

func (in *Interpreter) VisitThisExpr(expr *ThisExpr) (interface{}, error) {
	return in.lookupVariable(expr.Keyword, expr)
}

func (in *Interpreter) VisitUnaryExpr(expr *UnaryExpr) (interface{}, error) {
	val, err := in.eval(expr.Expr)
	if err != nil {
		return nil, err
	}

	switch expr.Op.Typ {
	case BANG:
		return !isTruthy(val), nil
	case MINUS:
		num, ok := val.(float64)
		if !ok {
			return nil, NewRuntimeError(expr.Op, "Operand must be a number.")
		}
		return -num, nil
	}
	panic("unreachable unary operator " + string(expr.Op.Typ))
}

func (in *Interpreter) VisitVarExpr(expr *VarExpr) (interface{}, error) {
	return in.lookupVariable(expr.Name, expr)
}

// lookupVariable reads a name either from the environment chain at the
// depth the resolver recorded for expr, or (when expr has no recorded
// depth, meaning the resolver judged it global) directly from globals.
func (in *Interpreter) lookupVariable(name *Token, expr Expr) (interface{}, error) {
	if depth, ok := in.locals[expr]; ok {
		return in.environment.getAt(depth, name.Lexeme), nil
	}
	return in.globals.Get(name)
}

// execBlock runs statements in environment, restoring whatever environment
// was active before the call on every exit path, including a propagated
// error or loxReturn signal.
func (in *Interpreter) execBlock(statements []Stmt, environment *Environment) error {
	previous := in.environment
	in.environment = environment
	defer func() {
		in.environment = previous
	}()
	for _, stmt := range statements {
		if _, err := in.exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) exec(stmt Stmt) (interface{}, error) {
	return stmt.Accept(in)
}

func (in *Interpreter) eval(expr Expr) (interface{}, error) {
	return expr.Accept(in)
}
