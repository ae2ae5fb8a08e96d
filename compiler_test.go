package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/small/jasmin"
)

// runSource compiles src and executes it with the given standard input
// under DefaultStepLimit.
func runSource(t *testing.T, src, input string) (string, error) {
	t.Helper()
	comp, err := Compile([]byte(src), CompileOptions{})
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	_, err = Execute(context.Background(), comp, strings.NewReader(input), &out, DefaultStepLimit)
	if err != nil {
		t.Logf("Generated module:\n%s", comp.Module)
	}
	return out.String(), err
}

// executeAndVerify runs src and checks its output, logging the generated
// module on mismatch.
func executeAndVerify(t *testing.T, src, input, expected string) {
	t.Helper()
	comp, err := Compile([]byte(src), CompileOptions{})
	be.Err(t, err, nil)

	var out bytes.Buffer
	_, err = Execute(context.Background(), comp, strings.NewReader(input), &out, DefaultStepLimit)
	if err != nil || out.String() != expected {
		t.Logf("Generated module:\n%s", comp.Module)
	}
	be.Err(t, err, nil)
	be.Equal(t, out.String(), expected)
}

func TestCompileModule(t *testing.T) {
	comp, err := Compile([]byte("x:3;ot x"), CompileOptions{})
	be.Err(t, err, nil)
	be.Equal(t, comp.Locals, 2)
	be.Equal(t, comp.Labels, 0)
	be.Equal(t, comp.Module, lines(
		".class public Program",
		".super java/lang/Object",
		".method public <init>()V",
		"aload_0",
		"invokenonvirtual java/lang/Object/<init>()V",
		"return",
		".end method",
		".method public static main([Ljava/lang/String;)V",
		".limit locals 2",
		".limit stack 1024",
		"new java/util/Scanner",
		"dup",
		"getstatic java/lang/System.in Ljava/io/InputStream;",
		"invokespecial java/util/Scanner.<init>(Ljava/io/InputStream;)V",
		"astore 0",
		"sipush 3",
		"istore 1",
		outPrefix,
		"iload 1",
		outSuffix,
		"return",
		".end method",
	))
}

func TestCompileClassName(t *testing.T) {
	comp, err := Compile([]byte("ot 1"), CompileOptions{ClassName: "Hello"})
	be.Err(t, err, nil)
	be.True(t, strings.HasPrefix(comp.Module, ".class public Hello\n"))

	class, err := jasmin.Assemble(comp.Module)
	be.Err(t, err, nil)
	be.Equal(t, class.Name, "Hello")
}

func TestCompileLocalsCountsEveryVariable(t *testing.T) {
	comp, err := Compile([]byte("in a; b:a; if c<1 { d:1 } el { fr e:1 { ot f } }"), CompileOptions{})
	be.Err(t, err, nil)
	be.Equal(t, comp.Locals, 7)
	be.True(t, strings.Contains(comp.Module, ".limit locals 7\n"))
}

func TestCompileKeepsAST(t *testing.T) {
	comp, err := Compile([]byte("ot 1+2"), CompileOptions{})
	be.Err(t, err, nil)
	be.Equal(t, ToSExpr(comp.AST), `(program (statements (ot (binary "+" (number 1) (number 2)))))`)
}

func TestCompileErrorProducesNoModule(t *testing.T) {
	for _, src := range []string{"x:1+", "x:1;!", "ot 99999999999", "ot 1 ot 2"} {
		comp, err := Compile([]byte(src), CompileOptions{})
		be.True(t, err != nil)
		be.True(t, comp == nil)
	}
}

func TestCompilationsAreIndependent(t *testing.T) {
	first, err := Compile([]byte("wl a<1 { a:a+1 }"), CompileOptions{})
	be.Err(t, err, nil)
	second, err := Compile([]byte("wl a<1 { a:a+1 }"), CompileOptions{})
	be.Err(t, err, nil)
	be.Equal(t, first.Module, second.Module)
	be.Equal(t, second.Labels, 2)
}

// =============================================================================
// END TO END
// =============================================================================

func TestScenarioAssignAndOutput(t *testing.T) {
	executeAndVerify(t, "x:3;ot x", "", "3\n")
}

func TestScenarioAbsoluteValue(t *testing.T) {
	src := "in x; if x>0 { ot x } el { ot 0-x }"
	executeAndVerify(t, src, "-5", "5\n")
	executeAndVerify(t, src, "7", "7\n")
	executeAndVerify(t, src, "0", "0\n")
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"ot 1+2*3", "7\n"},
		{"ot (1+2)*3", "9\n"},
		{"ot 1-2-3", "-4\n"},
		{"ot 7/2", "3\n"},
		{"ot (0-7)/2", "-3\n"},
		{"ot 100000*3", "300000\n"},
		{"ot 2147483647+1", "-2147483648\n"},
		{"x:65536; ot x*x", "0\n"},
	}

	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			executeAndVerify(t, test.src, "", test.want)
		})
	}
}

func TestInputOutputOrder(t *testing.T) {
	executeAndVerify(t, "in a; in b; ot b; ot a; ot a+b", "3\n4\n", "4\n3\n7\n")
	executeAndVerify(t, "in a; in b; ot a*b", "  6   7  ", "42\n")
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		src   string
		input string
		err   error
	}{
		{"ot 1/0", "", jasmin.ErrDivideByZero},
		{"in x; ot x", "", jasmin.ErrNoInput},
		{"in x; ot x", "abc", jasmin.ErrInputMismatch},
		{"in x; ot x", "9999999999", jasmin.ErrInputMismatch},
		{"ot y", "", jasmin.ErrBadLocal},
	}

	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			_, err := runSource(t, test.src, test.input)
			be.True(t, errors.Is(err, test.err))
		})
	}
}

func TestOutputBeforeRuntimeErrorIsKept(t *testing.T) {
	out, err := runSource(t, "ot 1; ot 2/0; ot 3", "")
	be.True(t, errors.Is(err, jasmin.ErrDivideByZero))
	be.Equal(t, out, "1\n")
}
