package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

// runCLI runs a command line with the given standard input and returns
// the exit code, standard output and standard error.
func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := newCLI(strings.NewReader(stdin), &stdout, &stderr).run(context.Background(), args)
	return code, stdout.String(), stderr.String()
}

func writeProgram(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.sm")
	be.Err(t, os.WriteFile(path, []byte(src), 0644), nil)
	return path
}

func TestCLIBuildFromStdin(t *testing.T) {
	code, stdout, stderr := runCLI(t, "x:3;ot x")
	be.Equal(t, code, 0)
	be.Equal(t, stderr, "")

	comp, err := Compile([]byte("x:3;ot x"), CompileOptions{})
	be.Err(t, err, nil)
	be.Equal(t, stdout, comp.Module)
}

func TestCLIBuildFromFile(t *testing.T) {
	path := writeProgram(t, "ot 1")
	out := filepath.Join(t.TempDir(), "Hello.j")

	code, stdout, _ := runCLI(t, "", "build", "-o", out, "-class", "Hello", path)
	be.Equal(t, code, 0)
	be.Equal(t, stdout, "")

	module, err := os.ReadFile(out)
	be.Err(t, err, nil)
	be.True(t, strings.HasPrefix(string(module), ".class public Hello\n"))
}

func TestCLIBareFileName(t *testing.T) {
	path := writeProgram(t, "ot 1")
	code, stdout, _ := runCLI(t, "", path)
	be.Equal(t, code, 0)
	be.True(t, strings.HasPrefix(stdout, ".class public Program\n"))
}

func TestCLIBuildErrorWritesNoOutput(t *testing.T) {
	code, stdout, stderr := runCLI(t, "x:1+")
	be.Equal(t, code, 1)
	be.Equal(t, stdout, "")
	be.Equal(t, stderr, "small: <stdin>:1:5: token in [ID LPAR NUM] expected but EOF found\n")
}

func TestCLIVerbose(t *testing.T) {
	code, _, stderr := runCLI(t, "wl a<1 { a:a+1 }", "build", "-v")
	be.Equal(t, code, 0)
	be.True(t, strings.Contains(stderr, `small: <stdin>: ast: (program (statements (wl`))
	be.True(t, strings.Contains(stderr, "small: <stdin>: 2 local slots, 2 labels\n"))
}

func TestCLIRun(t *testing.T) {
	path := writeProgram(t, "in x; if x>0 { ot x } el { ot 0-x }")
	code, stdout, stderr := runCLI(t, "-5\n", "run", path)
	be.Equal(t, code, 0)
	be.Equal(t, stdout, "5\n")
	be.Equal(t, stderr, "")
}

func TestCLIRunStepLimit(t *testing.T) {
	path := writeProgram(t, "x:0; fr y:0 { x:x+1 } ; ot x")
	code, stdout, stderr := runCLI(t, "", "run", "-steps", "1000", path)
	be.Equal(t, code, 1)
	be.Equal(t, stdout, "")
	be.True(t, strings.Contains(stderr, "step limit exceeded"))
}

func TestCLIRunKeepsOutputBeforeFailure(t *testing.T) {
	path := writeProgram(t, "ot 1; ot 1/0")
	code, stdout, stderr := runCLI(t, "", "run", path)
	be.Equal(t, code, 1)
	be.Equal(t, stdout, "1\n")
	be.True(t, strings.Contains(stderr, "/ by zero"))
}

func TestCLIRunNeedsFile(t *testing.T) {
	code, _, stderr := runCLI(t, "ot 1", "run")
	be.Equal(t, code, 2)
	be.True(t, strings.Contains(stderr, "Usage: small run"))
}

func TestCLIParse(t *testing.T) {
	code, stdout, _ := runCLI(t, "ot 1+2", "parse")
	be.Equal(t, code, 0)
	be.Equal(t, stdout, "Statements\n    Ot\n        +\n            1\n            2\n")

	code, stdout, _ = runCLI(t, "ot 1+2", "parse", "-sexpr", "-")
	be.Equal(t, code, 0)
	be.Equal(t, stdout, "(program (statements (ot (binary \"+\" (number 1) (number 2)))))\n")
}

func TestCLIConform(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "conform", conformanceGlob)
	be.Equal(t, code, 0)
	be.True(t, strings.Contains(stdout, " 0 failed"))

	failing := writeSuite(t, "name: bad\ntests:\n  - name: wrong\n    source: ot 1\n    output: \"2\\n\"\n")
	code, stdout, stderr := runCLI(t, "", "conform", failing)
	be.Equal(t, code, 1)
	be.True(t, strings.Contains(stdout, "FAIL "+failing+": bad/wrong"))
	be.True(t, strings.Contains(stdout, "0 passed, 1 failed, 0 skipped (1 total)"))
	be.True(t, strings.Contains(stderr, "small: 1 conformance cases failed"))
}

func TestCLIHelpAndUnknownCommand(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "help")
	be.Equal(t, code, 0)
	be.True(t, strings.HasPrefix(stdout, "small - compiles Small programs"))

	code, stdout, _ = runCLI(t, "", "-h")
	be.Equal(t, code, 0)
	be.True(t, strings.Contains(stdout, "Commands:"))

	code, _, stderr := runCLI(t, "", "frobnicate")
	be.Equal(t, code, 2)
	be.True(t, strings.Contains(stderr, "small: unknown command: frobnicate"))
}

func TestCLIBadFlag(t *testing.T) {
	code, _, stderr := runCLI(t, "", "build", "-nope")
	be.Equal(t, code, 2)
	be.True(t, strings.Contains(stderr, "flag provided but not defined: -nope"))
}
