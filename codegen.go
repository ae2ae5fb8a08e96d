package main

import (
	"fmt"
	"strings"
)

// JVM instruction mnemonics and member references used by generated code
const (
	SIPUSH    = "sipush"
	LDC       = "ldc"
	ILOAD     = "iload"
	ISTORE    = "istore"
	ALOAD     = "aload"
	IADD      = "iadd"
	ISUB      = "isub"
	IMUL      = "imul"
	IDIV      = "idiv"
	GOTO      = "goto"
	IF_ICMPNE = "if_icmpne"

	SystemOut     = "getstatic java/lang/System/out Ljava/io/PrintStream;"
	StringValueOf = "invokestatic java/lang/String/valueOf(I)Ljava/lang/String;"
	Println       = "invokevirtual java/io/PrintStream/println(Ljava/lang/String;)V"
	NextInt       = "invokevirtual java/util/Scanner.nextInt()I"
)

// CodeGen lowers a syntax tree to JVM assembler text. Boolean nodes use
// jumping code: they are generated against a target label and either jump
// to it or fall through, and never leave a truth value on the stack.
//
// A CodeGen owns the symbol table and label allocator of exactly one
// compilation.
type CodeGen struct {
	buf     strings.Builder
	symbols *SymbolTable
	labels  *LabelAllocator
}

// NewCodeGen returns a generator that allocates slots from symbols and
// labels from labels.
func NewCodeGen(symbols *SymbolTable, labels *LabelAllocator) *CodeGen {
	return &CodeGen{symbols: symbols, labels: labels}
}

// String returns the instructions generated so far.
func (g *CodeGen) String() string {
	return g.buf.String()
}

func (g *CodeGen) line(format string, args ...any) {
	fmt.Fprintf(&g.buf, format, args...)
	g.buf.WriteByte('\n')
}

func (g *CodeGen) label(l string) {
	g.line("%s:", l)
}

// EmitStatements generates each statement in order.
func (g *CodeGen) EmitStatements(s *Statements) {
	for _, st := range s.Items {
		g.EmitStatement(st)
	}
}

// EmitStatement generates code for one statement.
func (g *CodeGen) EmitStatement(stmt Stmt) {
	switch s := stmt.(type) {
	case *If:
		end := g.labels.Next()
		g.EmitFalse(s.Condition, end)
		g.EmitStatements(s.Then)
		g.label(end)

	case *IfElse:
		elseLabel := g.labels.Next()
		end := g.labels.Next()
		g.EmitFalse(s.Condition, elseLabel)
		g.EmitStatements(s.Then)
		g.line("%s %s", GOTO, end)
		g.label(elseLabel)
		g.EmitStatements(s.Else)
		g.label(end)

	case *While:
		top := g.labels.Next()
		end := g.labels.Next()
		g.label(top)
		g.EmitFalse(s.Condition, end)
		g.EmitStatements(s.Body)
		g.line("%s %s", GOTO, top)
		g.label(end)

	case *For:
		// Post-test loop: the body always runs once, and the loop exits
		// only when the decremented counter is exactly zero.
		slot := g.symbols.Location(s.Init.Target.Name)
		top := g.labels.Next()
		g.EmitStatement(s.Init)
		g.label(top)
		g.EmitStatements(s.Body)
		g.line("%s %d", ILOAD, slot)
		g.line("%s 1", SIPUSH)
		g.line(ISUB)
		g.line("%s %d", ISTORE, slot)
		g.line("%s %d", ILOAD, slot)
		g.line("%s 0", SIPUSH)
		g.line("%s %s", IF_ICMPNE, top)

	case *Assign:
		slot := g.symbols.Location(s.Target.Name)
		g.EmitExpression(s.Value)
		g.line("%s %d", ISTORE, slot)

	case *Output:
		g.line(SystemOut)
		g.EmitExpression(s.Value)
		g.line(StringValueOf)
		g.line(Println)

	case *Input:
		scanner := g.symbols.Location(ScannerSlotName)
		slot := g.symbols.Location(s.Target.Name)
		g.line("%s %d", ALOAD, scanner)
		g.line(NextInt)
		g.line("%s %d", ISTORE, slot)

	default:
		panic(fmt.Sprintf("unsupported statement: %T", stmt))
	}
}

// EmitExpression generates code that leaves the value of expr on top of the
// stack.
func (g *CodeGen) EmitExpression(expr Expr) {
	switch e := expr.(type) {
	case *NumberLiteral:
		if e.Value >= -32768 && e.Value <= 32767 {
			g.line("%s %d", SIPUSH, e.Value)
		} else {
			g.line("%s %d", LDC, e.Value)
		}

	case *Identifier:
		g.line("%s %d", ILOAD, g.symbols.Location(e.Name))

	case *BinaryExpr:
		g.EmitExpression(e.Left)
		g.EmitExpression(e.Right)
		g.line(arithOpcode(e.Op))

	default:
		panic(fmt.Sprintf("unsupported expression: %T", expr))
	}
}

// EmitTrue generates code that jumps to target when cond holds and falls
// through otherwise.
func (g *CodeGen) EmitTrue(cond BoolExpr, target string) {
	switch c := cond.(type) {
	case *Comparison:
		g.EmitExpression(c.Left)
		g.EmitExpression(c.Right)
		g.line("%s %s", branchOpcode(c.Op), target)

	case *Not:
		g.EmitFalse(c.Operand, target)

	case *And:
		// Either operand being false lands on skip, past the jump.
		skip := g.labels.Next()
		g.EmitFalse(c.Left, skip)
		g.EmitFalse(c.Right, skip)
		g.line("%s %s", GOTO, target)
		g.label(skip)

	case *Or:
		g.EmitTrue(c.Left, target)
		g.EmitTrue(c.Right, target)

	default:
		panic(fmt.Sprintf("unsupported boolean expression: %T", cond))
	}
}

// EmitFalse generates code that jumps to target when cond does not hold and
// falls through otherwise.
func (g *CodeGen) EmitFalse(cond BoolExpr, target string) {
	switch c := cond.(type) {
	case *Comparison:
		g.EmitExpression(c.Left)
		g.EmitExpression(c.Right)
		g.line("%s %s", branchOpcode(c.Op.Invert()), target)

	case *Not:
		g.EmitTrue(c.Operand, target)

	case *And:
		g.EmitFalse(c.Left, target)
		g.EmitFalse(c.Right, target)

	case *Or:
		// Either operand being true lands on skip, past the jump.
		skip := g.labels.Next()
		g.EmitTrue(c.Left, skip)
		g.EmitTrue(c.Right, skip)
		g.line("%s %s", GOTO, target)
		g.label(skip)

	default:
		panic(fmt.Sprintf("unsupported boolean expression: %T", cond))
	}
}

func arithOpcode(op ArithOp) string {
	switch op {
	case OpAdd:
		return IADD
	case OpSub:
		return ISUB
	case OpMul:
		return IMUL
	case OpDiv:
		return IDIV
	default:
		panic("unsupported arithmetic operator: " + string(op))
	}
}

func branchOpcode(op RelOp) string {
	switch op {
	case OpLess:
		return "if_icmplt"
	case OpEqual:
		return "if_icmpeq"
	case OpGreater:
		return "if_icmpgt"
	case OpLessEqual:
		return "if_icmple"
	case OpNotEqual:
		return "if_icmpne"
	case OpGreaterEqual:
		return "if_icmpge"
	default:
		panic("unsupported relational operator: " + string(op))
	}
}
