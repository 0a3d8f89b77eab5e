package main

// glox is a tree-walking interpreter for the Lox programming language.

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/lox-lang/glox/internal/lox"
)

func main() {
	printAst := flag.Bool("ast", false, "print the parsed syntax tree of each top-level expression statement before running it")
	flag.Parse()
	args := flag.Args()

	if len(args) > 1 {
		fmt.Println("Usage: glox [--ast] [script]")
		os.Exit(64)
	}

	reporter := lox.NewSimpleReporter(os.Stderr)
	interpreter := lox.NewInterpreter(os.Stdout, reporter, len(args) != 1)
	if len(args) != 1 {
		runPrompt(interpreter, reporter, *printAst)
	} else {
		runFile(args[0], interpreter, reporter, *printAst)
	}
}

func run(script string, interpreter *lox.Interpreter, reporter lox.Reporter, printAst bool) {
	scanner := lox.NewScanner([]rune(script), reporter)
	tokens := scanner.Scan()
	parser := lox.NewParser(tokens, reporter)
	statements := parser.Parse()
	if reporter.HadError() {
		return
	}

	if printAst {
		printer := &lox.AstPrinter{}
		for _, stmt := range statements {
			if exprStmt, ok := stmt.(*lox.ExprStmt); ok {
				fmt.Println(printer.Print(exprStmt.Expr))
			}
		}
	}

	resolver := lox.NewResolver(interpreter, reporter)
	resolver.Resolve(statements)
	if reporter.HadError() {
		return
	}
	interpreter.Interpret(statements)
}

// runPrompt runs the interpreter as a REPL, echoing the value of each
// expression statement it's given and resetting the reporter's error flags
// between lines so a mistake on one line doesn't block the next.
func runPrompt(interpreter *lox.Interpreter, reporter lox.Reporter, printAst bool) {
	s := bufio.NewScanner(os.Stdin)
	s.Split(bufio.ScanLines)
	for {
		fmt.Print("> ")
		if !s.Scan() {
			break
		}
		run(s.Text(), interpreter, reporter, printAst)
		reporter.Reset()
	}
	exitOnError(s.Err(), 1)
}

// runFile runs fpath as a script, exiting with 65 on a scan/parse/resolve
// error and 70 on an uncaught runtime error, matching sysexits.h usage.
func runFile(fpath string, interpreter *lox.Interpreter, reporter lox.Reporter, printAst bool) {
	bytes, err := os.ReadFile(fpath)
	exitOnError(err, 1)

	run(string(bytes), interpreter, reporter, printAst)
	exitIf(reporter.HadError(), 65)
	exitIf(reporter.HadRuntimeError(), 70)
}

func exitOnError(err error, status int) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v", err)
		os.Exit(status)
	}
}

func exitIf(cond bool, status int) {
	if cond {
		os.Exit(status)
	}
}
