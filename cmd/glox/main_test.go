package main

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox-lang/glox/internal/lox"
)

// runSource is a small helper mirroring what run() does for a driver test:
// it builds a fresh interpreter/reporter pair over buffers so output and
// error flags can be inspected without touching stdout or os.Exit.
func runSource(t *testing.T, src string) (string, lox.Reporter) {
	t.Helper()
	var out, errs bytes.Buffer
	reporter := lox.NewSimpleReporter(&errs)
	interpreter := lox.NewInterpreter(&out, reporter, false)
	run(src, interpreter, reporter, false)
	return out.String(), reporter
}

func readFixture(t *testing.T, name string) string {
	t.Helper()
	bytes, err := os.ReadFile("../../testdata/" + name)
	assert.NoError(t, err)
	return string(bytes)
}

func TestRunClosuresFixture(t *testing.T) {
	out, reporter := runSource(t, readFixture(t, "closures.lox"))
	assert.False(t, reporter.HadError())
	assert.False(t, reporter.HadRuntimeError())
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestRunClassesFixture(t *testing.T) {
	out, reporter := runSource(t, readFixture(t, "classes.lox"))
	assert.False(t, reporter.HadError())
	assert.False(t, reporter.HadRuntimeError())
	assert.Equal(t, "Rex makes a sound, specifically a bark\nLabrador\n", out)
}

func TestRunControlFlowFixture(t *testing.T) {
	out, reporter := runSource(t, readFixture(t, "control_flow.lox"))
	assert.False(t, reporter.HadError())
	assert.False(t, reporter.HadRuntimeError())
	assert.True(t, strings.HasSuffix(out, "looping\n2\n"))
}

// TestRunFileExitCode65 exercises the condition runFile uses to decide on
// exit code 65: a scan/parse/resolve error and no runtime error.
func TestRunFileExitCode65(t *testing.T) {
	_, reporter := runSource(t, `var a = ;`)
	assert.True(t, reporter.HadError())
	assert.False(t, reporter.HadRuntimeError())
}

// TestRunFileExitCode70 exercises the condition runFile uses to decide on
// exit code 70: the program parses and resolves but fails at runtime.
func TestRunFileExitCode70(t *testing.T) {
	_, reporter := runSource(t, `var a = "not a function"; a();`)
	assert.False(t, reporter.HadError())
	assert.True(t, reporter.HadRuntimeError())
}

// TestRunAstFlag exercises the -ast flag by redirecting stdout, since run
// prints the parsed tree straight to it rather than through the
// interpreter's configured output writer.
func TestRunAstFlag(t *testing.T) {
	stdout := os.Stdout
	r, w, err := os.Pipe()
	assert.NoError(t, err)
	os.Stdout = w

	var errs bytes.Buffer
	reporter := lox.NewSimpleReporter(&errs)
	interpreter := lox.NewInterpreter(io.Discard, reporter, false)
	run(`1 + 2;`, interpreter, reporter, true)

	w.Close()
	os.Stdout = stdout
	captured, err := io.ReadAll(r)
	assert.NoError(t, err)

	assert.Equal(t, "(+ 1 2)\n", string(captured))
}

// TestRunPromptResetsBetweenLines drives runPrompt against a scripted stdin
// containing a bad line sandwiched between two good ones, and checks that
// the reporter's per-line Reset keeps the bad line from blocking the rest
// of the session.
func TestRunPromptResetsBetweenLines(t *testing.T) {
	stdin := os.Stdin
	stdout := os.Stdout
	defer func() {
		os.Stdin = stdin
		os.Stdout = stdout
	}()

	inR, inW, err := os.Pipe()
	assert.NoError(t, err)
	outR, outW, err := os.Pipe()
	assert.NoError(t, err)
	os.Stdin = inR
	os.Stdout = outW

	var errs bytes.Buffer
	reporter := lox.NewSimpleReporter(&errs)
	interpreter := lox.NewInterpreter(outW, reporter, true)

	go func() {
		inW.WriteString("print 1;\n")
		inW.WriteString("var a = ;\n")
		inW.WriteString("print 2;\n")
		inW.Close()
	}()

	done := make(chan struct{})
	go func() {
		runPrompt(interpreter, reporter, false)
		close(done)
	}()
	<-done
	outW.Close()

	captured, err := io.ReadAll(outR)
	assert.NoError(t, err)

	assert.Contains(t, string(captured), "1\n")
	assert.Contains(t, string(captured), "2\n")
	assert.False(t, reporter.HadError(), "Reset should clear the error flag left by the bad line")
}
