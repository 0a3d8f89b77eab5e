package lox

import "container/list"

// Each map represents a single block scope; variables at the global scope
// are not tracked by the resolver. If it cannot resolve a variable in the
// local scopes, it assumes the variable to be global and leaves it for the
// interpreter to look up by name at runtime.
type scopeMap = map[string]bool

type loxFnType int

const (
	fnTypeNone loxFnType = iota
	fnTypeFunction
	fnTypeInitializer
	fnTypeMethod
)

type loxClassType int

const (
	classTypeNone loxClassType = iota
	classTypeClass
	classTypeSubclass
)

// Resolver performs a static pass over the syntax tree between parsing and
// interpretation. For every variable, this, and super reference it counts
// how many scopes out the binding lives and records that depth on the
// interpreter, keyed by the expression node itself; it also rejects a
// handful of errors that are cheaper to catch once here than on every
// execution (bad return, self-referencing initializer, self-inheritance).
type Resolver struct {
	scopes       *list.List
	interpreter  *Interpreter
	reporter     Reporter
	currentFn    loxFnType
	currentClass loxClassType
}

// NewResolver creates a resolver that records resolved depths on interpreter
// and reports static errors to reporter.
func NewResolver(interpreter *Interpreter, reporter Reporter) *Resolver {
	return &Resolver{
		scopes:       list.New(),
		interpreter:  interpreter,
		reporter:     reporter,
		currentFn:    fnTypeNone,
		currentClass: classTypeNone,
	}
}

// Resolve walks every top-level statement. It never returns an error;
// problems it finds are reported through the same reporter the parser uses,
// so a single run can surface more than one.
func (r *Resolver) Resolve(statements []Stmt) {
	for _, stmt := range statements {
		r.resolveStmt(stmt)
	}
}

func (r *Resolver) VisitBlockStmt(stmt *BlockStmt) (interface{}, error) {
	r.beginScope()
	for _, s := range stmt.Stmts {
		r.resolveStmt(s)
	}
	r.endScope()
	return nil, nil
}

func (r *Resolver) VisitExprStmt(stmt *ExprStmt) (interface{}, error) {
	r.resolveExpr(stmt.Expr)
	return nil, nil
}

// VisitClassStmt resolves the superclass expression (if any) in the
// enclosing scope, then opens a scope binding "super" before a second scope
// binding "this", so every method body sees both without either leaking
// past the class declaration.
func (r *Resolver) VisitClassStmt(stmt *ClassStmt) (interface{}, error) {
	enclosingClass := r.currentClass
	r.currentClass = classTypeClass

	r.declare(stmt.Name)
	r.define(stmt.Name)

	if stmt.Superclass != nil {
		if stmt.Name.Lexeme == stmt.Superclass.Name.Lexeme {
			r.reporter.Report(NewResolveError(stmt.Superclass.Name, "A class cannot inherit from itself."))
		}
		r.currentClass = classTypeSubclass
		r.resolveExpr(stmt.Superclass)
	}

	if stmt.Superclass != nil {
		r.beginScope()
		r.scopeAt(0)["super"] = true
	}

	r.beginScope()
	r.scopeAt(0)["this"] = true

	for _, method := range stmt.Methods {
		fnType := fnTypeMethod
		if method.Name.Lexeme == "init" {
			fnType = fnTypeInitializer
		}
		r.resolveFunction(method, fnType)
	}

	r.endScope()

	if stmt.Superclass != nil {
		r.endScope()
	}

	r.currentClass = enclosingClass
	return nil, nil
}

func (r *Resolver) VisitFunctionStmt(stmt *FunctionStmt) (interface{}, error) {
	r.declare(stmt.Name)
	r.define(stmt.Name)
	r.resolveFunction(stmt, fnTypeFunction)
	return nil, nil
}

func (r *Resolver) VisitIfStmt(stmt *IfStmt) (interface{}, error) {
	r.resolveExpr(stmt.Cond)
	r.resolveStmt(stmt.ThenBranch)
	if stmt.ElseBranch != nil {
		r.resolveStmt(stmt.ElseBranch)
	}
	return nil, nil
}

func (r *Resolver) VisitPrintStmt(stmt *PrintStmt) (interface{}, error) {
	r.resolveExpr(stmt.Expr)
	return nil, nil
}

func (r *Resolver) VisitReturnStmt(stmt *ReturnStmt) (interface{}, error) {
	if r.currentFn == fnTypeNone {
		r.reporter.Report(NewResolveError(stmt.Keyword, "Cannot return from top-level code."))
	}
	if stmt.Val != nil {
		if r.currentFn == fnTypeInitializer {
			r.reporter.Report(NewResolveError(stmt.Keyword, "Cannot return a value from an initializer."))
		}
		r.resolveExpr(stmt.Val)
	}
	return nil, nil
}

func (r *Resolver) VisitVarStmt(stmt *VarStmt) (interface{}, error) {
	r.declare(stmt.Name)
	if stmt.Init != nil {
		r.resolveExpr(stmt.Init)
	}
	r.define(stmt.Name)
	return nil, nil
}

func (r *Resolver) VisitWhileStmt(stmt *WhileStmt) (interface{}, error) {
	r.resolveExpr(stmt.Cond)
	r.resolveStmt(stmt.Body)
	return nil, nil
}

func (r *Resolver) VisitAssignExpr(expr *AssignExpr) (interface{}, error) {
	r.resolveExpr(expr.Val)
	r.resolveLocal(expr, expr.Name)
	return nil, nil
}

func (r *Resolver) VisitBinaryExpr(expr *BinaryExpr) (interface{}, error) {
	r.resolveExpr(expr.Lhs)
	r.resolveExpr(expr.Rhs)
	return nil, nil
}

func (r *Resolver) VisitCallExpr(expr *CallExpr) (interface{}, error) {
	r.resolveExpr(expr.Callee)
	for _, arg := range expr.Args {
		r.resolveExpr(arg)
	}
	return nil, nil
}

func (r *Resolver) VisitGetExpr(expr *GetExpr) (interface{}, error) {
	r.resolveExpr(expr.Obj)
	return nil, nil
}

func (r *Resolver) VisitGroupExpr(expr *GroupExpr) (interface{}, error) {
	r.resolveExpr(expr.Expr)
	return nil, nil
}

func (r *Resolver) VisitLiteralExpr(expr *LiteralExpr) (interface{}, error) {
	return nil, nil
}

func (r *Resolver) VisitLogicalExpr(expr *LogicalExpr) (interface{}, error) {
	r.resolveExpr(expr.Lhs)
	r.resolveExpr(expr.Rhs)
	return nil, nil
}

func (r *Resolver) VisitSetExpr(expr *SetExpr) (interface{}, error) {
	r.resolveExpr(expr.Val)
	r.resolveExpr(expr.Obj)
	return nil, nil
}

func (r *Resolver) VisitSuperExpr(expr *SuperExpr) (interface{}, error) {
	if r.currentClass == classTypeNone {
		r.reporter.Report(NewResolveError(expr.Keyword, "Can't use 'super' outside of a class."))
	} else if r.currentClass != classTypeSubclass {
		r.reporter.Report(NewResolveError(expr.Keyword, "Can't use 'super' in a class with no superclass."))
	}
	r.resolveLocal(expr, expr.Keyword)
	return nil, nil
}

func (r *Resolver) VisitThisExpr(expr *ThisExpr) (interface{}, error) {
	if r.currentClass == classTypeNone {
		r.reporter.Report(NewResolveError(expr.Keyword, "Can't use 'this' outside of a class."))
		return nil, nil
	}
	r.resolveLocal(expr, expr.Keyword)
	return nil, nil
}

func (r *Resolver) VisitUnaryExpr(expr *UnaryExpr) (interface{}, error) {
	r.resolveExpr(expr.Expr)
	return nil, nil
}

func (r *Resolver) VisitVarExpr(expr *VarExpr) (interface{}, error) {
	if r.scopes.Front() != nil {
		scope := r.scopes.Front().Value.(scopeMap)
		if defined, exist := scope[expr.Name.Lexeme]; exist && !defined {
			r.reporter.Report(NewResolveError(expr.Name, "Cannot read local variable in its own initializer."))
		}
	}
	r.resolveLocal(expr, expr.Name)
	return nil, nil
}

func (r *Resolver) resolveFunction(fn *FunctionStmt, fnType loxFnType) {
	enclosingFn := r.currentFn
	r.currentFn = fnType

	r.beginScope()
	for _, p := range fn.Params {
		r.declare(p)
		r.define(p)
	}
	for _, stmt := range fn.Body {
		r.resolveStmt(stmt)
	}
	r.endScope()

	r.currentFn = enclosingFn
}

func (r *Resolver) resolveLocal(expr Expr, name *Token) {
	steps := 0
	for scope := r.scopes.Front(); scope != nil; scope = scope.Next() {
		scope := scope.Value.(scopeMap)
		if _, ok := scope[name.Lexeme]; ok {
			r.interpreter.resolve(expr, steps)
			return
		}
		steps++
	}
}

// resolveStmt mirrors Interpreter.exec.
func (r *Resolver) resolveStmt(stmt Stmt) {
	stmt.Accept(r)
}

// resolveExpr mirrors Interpreter.eval.
func (r *Resolver) resolveExpr(expr Expr) {
	expr.Accept(r)
}

func (r *Resolver) beginScope() {
	r.scopes.PushFront(make(scopeMap))
}

func (r *Resolver) endScope() {
	r.scopes.Remove(r.scopes.Front())
}

func (r *Resolver) scopeAt(d int) scopeMap {
	e := r.scopes.Front()
	for i := 0; i < d; i++ {
		e = e.Next()
	}
	return e.Value.(scopeMap)
}

func (r *Resolver) declare(name *Token) {
	if r.scopes.Front() == nil {
		return
	}
	scope := r.scopes.Front().Value.(scopeMap)
	if _, hasName := scope[name.Lexeme]; hasName {
		r.reporter.Report(NewResolveError(name, "Variable with this name already declared in this scope."))
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name *Token) {
	if r.scopes.Front() == nil {
		return
	}
	scope := r.scopes.Front().Value.(scopeMap)
	scope[name.Lexeme] = true
}
