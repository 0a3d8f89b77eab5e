package lox

import "fmt"

// ScanError reports a lexical error found while scanning a line of source.
type ScanError struct {
	line    int
	message string
}

// NewScanError creates a new scan error.
func NewScanError(line int, message string) error {
	return &ScanError{line, message}
}

func (err *ScanError) Error() string {
	return fmt.Sprintf("[line %d] Error: %s", err.line, err.message)
}

// ParseError reports a syntax error found while parsing a token stream. It
// carries the offending token so the message can point at either the token's
// lexeme or, for a token at EOF, "end".
type ParseError struct {
	token   *Token
	message string
}

// NewParseError creates a new parse error.
func NewParseError(token *Token, message string) error {
	return &ParseError{token, message}
}

func (err *ParseError) Error() string {
	if err.token.Typ == EOF {
		return fmt.Sprintf("[line %d] Error at end: %s", err.token.Line, err.message)
	}
	return fmt.Sprintf(
		"[line %d] Error at '%s': %s",
		err.token.Line,
		err.token.Lexeme,
		err.message,
	)
}

// ResolveError reports a static semantic error found by the resolver: a bad
// return/this/super use, a self-referencing initializer, self-inheritance, or
// a local redeclaration. It renders the same way as a ParseError since both
// are reported before any statement executes.
type ResolveError struct {
	token   *Token
	message string
}

// NewResolveError creates a new resolve error.
func NewResolveError(token *Token, message string) error {
	return &ResolveError{token, message}
}

func (err *ResolveError) Error() string {
	if err.token.Typ == EOF {
		return fmt.Sprintf("[line %d] Error at end: %s", err.token.Line, err.message)
	}
	return fmt.Sprintf(
		"[line %d] Error at '%s': %s",
		err.token.Line,
		err.token.Lexeme,
		err.message,
	)
}

// RuntimeError reports a failure discovered while evaluating the tree: a type
// mismatch, an arity mismatch, an undefined name, or a non-callable/non-class
// value used where one was required.
type RuntimeError struct {
	token   *Token
	message string
}

// NewRuntimeError creates a new runtime error.
func NewRuntimeError(token *Token, message string) error {
	return &RuntimeError{token, message}
}

func (err *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", err.message, err.token.Line)
}
