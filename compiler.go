package main

import (
	"fmt"
	"strings"
)

// DefaultClassName is the class emitted when CompileOptions leaves it empty.
const DefaultClassName = "Program"

// StackLimit is the operand stack depth declared for the main method.
const StackLimit = 1024

// CompileOptions controls module emission.
type CompileOptions struct {
	ClassName string
}

// Compilation is the result of compiling one Small program.
type Compilation struct {
	AST    *Program
	Module string // Jasmin assembler text
	Locals int    // local slots reserved by the main method
	Labels int    // labels issued by the code generator
}

// Compile parses src and generates a complete Jasmin class. Nothing is
// generated when parsing fails.
func Compile(src []byte, opts CompileOptions) (*Compilation, error) {
	prog, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return CompileProgram(prog, opts), nil
}

// CompileProgram generates a complete Jasmin class for prog using a fresh
// symbol table and label allocator.
func CompileProgram(prog *Program, opts CompileOptions) *Compilation {
	symbols := NewSymbolTable()
	// The scanner slot must be registered first so it lands in slot 0.
	symbols.Location(ScannerSlotName)
	labels := &LabelAllocator{}

	g := NewCodeGen(symbols, labels)
	g.EmitStatements(prog.Body)

	// Only now is the final slot count known.
	return &Compilation{
		AST:    prog,
		Module: EmitModule(opts.ClassName, symbols.Size(), symbols.Location(ScannerSlotName), g.String()),
		Locals: symbols.Size(),
		Labels: labels.Count(),
	}
}

// EmitModule wraps a main method body in the class scaffolding: header, a
// no-op constructor and a main method that opens a java.util.Scanner on
// standard input into scannerSlot before running body.
func EmitModule(className string, locals, scannerSlot int, body string) string {
	if className == "" {
		className = DefaultClassName
	}

	var sb strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&sb, format, args...)
		sb.WriteByte('\n')
	}

	line(".class public %s", className)
	line(".super java/lang/Object")

	line(".method public <init>()V")
	line("aload_0")
	line("invokenonvirtual java/lang/Object/<init>()V")
	line("return")
	line(".end method")

	line(".method public static main([Ljava/lang/String;)V")
	line(".limit locals %d", locals)
	line(".limit stack %d", StackLimit)
	line("new java/util/Scanner")
	line("dup")
	line("getstatic java/lang/System.in Ljava/io/InputStream;")
	line("invokespecial java/util/Scanner.<init>(Ljava/io/InputStream;)V")
	line("astore %d", scannerSlot)
	sb.WriteString(body)
	line("return")
	line(".end method")

	return sb.String()
}
