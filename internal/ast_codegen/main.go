// Command ast_codegen emits the Expr and Stmt sum types consumed by the
// parser, resolver, and interpreter. Run it with the output directory as its
// only argument, e.g. `go run ./internal/ast_codegen internal/lox`.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: ast_codegen <output directory>")
		os.Exit(64)
	}

	outputDir := os.Args[1]
	// We do it the scripting way, instead of relying on Go generics/reflection
	// to describe each node: each entry is "TypeName: Field Type, Field Type".
	expressionTypes := []string{
		"Assign: Name *Token, Val Expr",
		"Binary: Op *Token, Lhs Expr, Rhs Expr",
		// Call stores the token for the closing parenthesis so the token's
		// location can be used when reporting a RuntimeError for the call.
		"Call: Callee Expr, Paren *Token, Args []Expr",
		"Get: Obj Expr, Name *Token",
		"Group: Expr Expr",
		"Literal: Val interface{}",
		"Logical: Op *Token, Lhs Expr, Rhs Expr",
		"Set: Obj Expr, Name *Token, Val Expr",
		"Super: Keyword *Token, Method *Token",
		"This: Keyword *Token",
		"Unary: Op *Token, Expr Expr",
		"Var: Name *Token",
	}
	statementTypes := []string{
		"Block: Stmts []Stmt",
		"Class: Name *Token, Superclass *VarExpr, Methods []*FunctionStmt",
		"Expr: Expr Expr",
		"Function: Name *Token, Params []*Token, Body []Stmt",
		"If: Cond Expr, ThenBranch Stmt, ElseBranch Stmt",
		"Print: Expr Expr",
		"Return: Keyword *Token, Val Expr",
		"Var: Name *Token, Init Expr",
		"While: Cond Expr, Body Stmt",
	}

	defineAst(outputDir, "Expr", expressionTypes)
	defineAst(outputDir, "Stmt", statementTypes)
}

func defineAst(outputDir string, baseName string, types []string) {
	fpath := filepath.Join(
		outputDir,
		fmt.Sprintf("%s.go", strings.ToLower(baseName)),
	)
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	writer := bufio.NewWriter(f)
	defer writer.Flush()

	packageName := filepath.Base(outputDir)
	fmt.Fprintf(writer, "package %s\n", packageName)

	fmt.Fprintf(writer, "type %s interface {\n", baseName)
	fmt.Fprintf(writer, "\tAccept(visitor %sVisitor) (interface{}, error)\n", baseName)
	fmt.Fprintf(writer, "}\n")

	defineVisitor(writer, baseName, types)

	for _, t := range types {
		typeName := strings.TrimSpace(strings.Split(t, ":")[0])
		fields := strings.TrimSpace(strings.Split(t, ":")[1])
		defineType(writer, baseName, typeName, fields)
	}
}

func defineVisitor(writer io.Writer, baseName string, types []string) {
	fmt.Fprintf(writer, "type %sVisitor interface {\n", baseName)
	for _, t := range types {
		typeName := strings.TrimSpace(strings.Split(t, ":")[0])
		fmt.Fprintf(
			writer,
			"\tVisit%s%s(%s *%s%s) (interface{}, error)\n",
			typeName, baseName,
			strings.ToLower(baseName),
			typeName, baseName,
		)
	}
	fmt.Fprintf(writer, "}\n")
}

func defineType(
	writer io.Writer,
	baseName string,
	typeName string,
	fieldList string,
) {
	var fields []string
	for _, f := range strings.Split(fieldList, ",") {
		fields = append(fields, strings.TrimSpace(f))
	}

	fmt.Fprintf(writer, "type %s%s struct {\n", typeName, baseName)
	for _, f := range fields {
		fmt.Fprintf(writer, "\t%s\n", f)
	}
	fmt.Fprintf(writer, "}\n")

	fmt.Fprintf(
		writer,
		"func New%s%s(%s) *%s%s {\n",
		typeName, baseName,
		fieldList,
		typeName, baseName,
	)
	var fieldNames []string
	for _, f := range strings.Split(fieldList, ",") {
		field := strings.TrimSpace(f)
		fieldName := strings.TrimSpace(strings.Split(field, " ")[0])
		fieldNames = append(fieldNames, fieldName)
	}
	fmt.Fprintf(
		writer,
		"\treturn &%s%s{%s}\n",
		typeName, baseName,
		strings.Join(fieldNames, ","),
	)
	fmt.Fprintf(writer, "}\n")

	fmt.Fprintf(
		writer,
		"func (%s *%s%s) Accept(visitor %sVisitor) (interface{}, error) {\n",
		strings.ToLower(baseName),
		typeName, baseName,
		baseName,
	)
	fmt.Fprintf(
		writer,
		"\treturn visitor.Visit%s%s(%s)\n",
		typeName, baseName,
		strings.ToLower(baseName),
	)
	fmt.Fprintf(writer, "}\n")
}
