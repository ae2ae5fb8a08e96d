package main

// Node is any node of a Small syntax tree. The node family is closed: every
// implementation lives in this file, and traversals switch over all of them.
type Node interface {
	node()
}

// Stmt is a node that runs for its effect.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is a value-producing node. Code generated for it leaves exactly one
// integer on the evaluation stack.
type Expr interface {
	Node
	exprNode()
}

// BoolExpr is a boolean-valued node. It never produces a value; its code
// either jumps to a label or falls through.
type BoolExpr interface {
	Node
	boolNode()
}

// RelOp is a relational operator.
type RelOp string

const (
	OpLess         RelOp = "<"
	OpEqual        RelOp = "="
	OpGreater      RelOp = ">"
	OpLessEqual    RelOp = "<="
	OpNotEqual     RelOp = "!="
	OpGreaterEqual RelOp = ">="
)

// Invert returns the logical complement of op.
func (op RelOp) Invert() RelOp {
	switch op {
	case OpLess:
		return OpGreaterEqual
	case OpLessEqual:
		return OpGreater
	case OpEqual:
		return OpNotEqual
	case OpGreater:
		return OpLessEqual
	case OpGreaterEqual:
		return OpLess
	case OpNotEqual:
		return OpEqual
	default:
		panic("unsupported relational operator: " + string(op))
	}
}

// ArithOp is an arithmetic operator.
type ArithOp string

const (
	OpAdd ArithOp = "+"
	OpSub ArithOp = "-"
	OpMul ArithOp = "*"
	OpDiv ArithOp = "/"
)

// Program is the root of a syntax tree.
type Program struct {
	Body *Statements
}

// Statements is a non-empty sequence of statements in execution order.
type Statements struct {
	Items []Stmt
}

type If struct {
	Condition BoolExpr
	Then      *Statements
}

type IfElse struct {
	Condition BoolExpr
	Then      *Statements
	Else      *Statements
}

type While struct {
	Condition BoolExpr
	Body      *Statements
}

// For runs Body at least once, then decrements Init.Target and repeats
// until the counter is exactly zero.
type For struct {
	Init *Assign
	Body *Statements
}

type Assign struct {
	Target *Identifier
	Value  Expr
}

type Output struct {
	Value Expr
}

type Input struct {
	Target *Identifier
}

type Comparison struct {
	Left  Expr
	Op    RelOp
	Right Expr
}

type Or struct {
	Left  BoolExpr
	Right BoolExpr
}

type And struct {
	Left  BoolExpr
	Right BoolExpr
}

type Not struct {
	Operand BoolExpr
}

type BinaryExpr struct {
	Left  Expr
	Op    ArithOp
	Right Expr
}

// NumberLiteral keeps the source digits alongside the parsed value.
type NumberLiteral struct {
	Text  string
	Value int32
}

type Identifier struct {
	Name string
}

func (*Program) node()       {}
func (*Statements) node()    {}
func (*If) node()            {}
func (*IfElse) node()        {}
func (*While) node()         {}
func (*For) node()           {}
func (*Assign) node()        {}
func (*Output) node()        {}
func (*Input) node()         {}
func (*Comparison) node()    {}
func (*Or) node()            {}
func (*And) node()           {}
func (*Not) node()           {}
func (*BinaryExpr) node()    {}
func (*NumberLiteral) node() {}
func (*Identifier) node()    {}

func (*If) stmtNode()     {}
func (*IfElse) stmtNode() {}
func (*While) stmtNode()  {}
func (*For) stmtNode()    {}
func (*Assign) stmtNode() {}
func (*Output) stmtNode() {}
func (*Input) stmtNode()  {}

func (*Comparison) boolNode() {}
func (*Or) boolNode()         {}
func (*And) boolNode()        {}
func (*Not) boolNode()        {}

func (*BinaryExpr) exprNode()    {}
func (*NumberLiteral) exprNode() {}
func (*Identifier) exprNode()    {}
