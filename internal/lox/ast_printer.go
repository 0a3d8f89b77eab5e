package lox

import (
	"fmt"
	"strings"
)

// AstPrinter renders an Expr as a fully-parenthesized Lisp-like string. It's
// wired up behind the -ast flag in the driver to let you see how a line of
// source actually parsed without stepping through the interpreter.
type AstPrinter struct{}

func (printer *AstPrinter) Print(expr Expr) string {
	s, _ := expr.Accept(printer)
	return fmt.Sprintf("%v", s)
}

func (printer *AstPrinter) parenthesize(name string, exprs ...Expr) string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(name)
	for _, e := range exprs {
		b.WriteString(" ")
		s, _ := e.Accept(printer)
		b.WriteString(fmt.Sprintf("%v", s))
	}
	b.WriteString(")")
	return b.String()
}

func (printer *AstPrinter) VisitAssignExpr(expr *AssignExpr) (interface{}, error) {
	return printer.parenthesize("= "+expr.Name.Lexeme, expr.Val), nil
}

func (printer *AstPrinter) VisitBinaryExpr(expr *BinaryExpr) (interface{}, error) {
	return printer.parenthesize(expr.Op.Lexeme, expr.Lhs, expr.Rhs), nil
}

func (printer *AstPrinter) VisitCallExpr(expr *CallExpr) (interface{}, error) {
	return printer.parenthesize("call", append([]Expr{expr.Callee}, expr.Args...)...), nil
}

func (printer *AstPrinter) VisitGetExpr(expr *GetExpr) (interface{}, error) {
	return printer.parenthesize("get "+expr.Name.Lexeme, expr.Obj), nil
}

func (printer *AstPrinter) VisitGroupExpr(expr *GroupExpr) (interface{}, error) {
	return printer.parenthesize("group", expr.Expr), nil
}

func (printer *AstPrinter) VisitLiteralExpr(expr *LiteralExpr) (interface{}, error) {
	return stringify(expr.Val), nil
}

func (printer *AstPrinter) VisitLogicalExpr(expr *LogicalExpr) (interface{}, error) {
	return printer.parenthesize(expr.Op.Lexeme, expr.Lhs, expr.Rhs), nil
}

func (printer *AstPrinter) VisitSetExpr(expr *SetExpr) (interface{}, error) {
	return printer.parenthesize("set "+expr.Name.Lexeme, expr.Obj, expr.Val), nil
}

func (printer *AstPrinter) VisitSuperExpr(expr *SuperExpr) (interface{}, error) {
	return "(super " + expr.Method.Lexeme + ")", nil
}

func (printer *AstPrinter) VisitThisExpr(expr *ThisExpr) (interface{}, error) {
	return "this", nil
}

func (printer *AstPrinter) VisitUnaryExpr(expr *UnaryExpr) (interface{}, error) {
	return printer.parenthesize(expr.Op.Lexeme, expr.Expr), nil
}

func (printer *AstPrinter) VisitVarExpr(expr *VarExpr) (interface{}, error) {
	return expr.Name.Lexeme, nil
}
