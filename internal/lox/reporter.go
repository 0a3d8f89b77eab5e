package lox

import (
	"fmt"
	"io"
)

// Reporter defines the interface for a structure that can display errors to
// the user. A reporter is defined to separate error-reporting code from
// error-displaying code. Fully-featured languages have a complex setup for
// reporting errors to the user.
type Reporter interface {
	Report(err error)
	Reset()
	HadError() bool
	HadRuntimeError() bool
}

// SimpleReporter writes errors as-is to an inner writer, tracking whether any
// scan/parse/resolve error and whether any runtime error has been reported
// since construction or the last Reset.
type SimpleReporter struct {
	writer        io.Writer
	hadErr        bool
	hadRuntimeErr bool
}

// NewSimpleReporter creates a reporter that writes every reported error, one
// per line, to writer.
func NewSimpleReporter(writer io.Writer) Reporter {
	return &SimpleReporter{writer: writer}
}

func (reporter *SimpleReporter) Report(err error) {
	if _, isRuntimeErr := err.(*RuntimeError); isRuntimeErr {
		reporter.hadRuntimeErr = true
	} else {
		reporter.hadErr = true
	}
	fmt.Fprintln(reporter.writer, err)
}

// Reset clears both error flags. The REPL driver calls this between lines so
// a mistake on one line doesn't suppress execution of the next.
func (reporter *SimpleReporter) Reset() {
	reporter.hadErr = false
	reporter.hadRuntimeErr = false
}

func (reporter *SimpleReporter) HadError() bool {
	return reporter.hadErr
}

func (reporter *SimpleReporter) HadRuntimeError() bool {
	return reporter.hadRuntimeErr
}
