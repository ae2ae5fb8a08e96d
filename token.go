package main

// TokenKind is the type of token (keyword, operator, literal, etc.).
type TokenKind string

// Definition of token kinds
const (
	// Special tokens
	EOF TokenKind = "EOF"

	// Keywords
	EL TokenKind = "EL" // el
	IF TokenKind = "IF" // if
	WL TokenKind = "WL" // wl
	FR TokenKind = "FR" // fr
	IN TokenKind = "IN" // in
	OT TokenKind = "OT" // ot
	NT TokenKind = "NT" // nt

	// Operators
	AND  TokenKind = "AND"  // &
	OR   TokenKind = "OR"   // |
	SEM  TokenKind = "SEM"  // ;
	BEC  TokenKind = "BEC"  // :
	LESS TokenKind = "LESS" // <
	EQ   TokenKind = "EQ"   // =
	MUL  TokenKind = "MUL"  // *
	DIV  TokenKind = "DIV"  // /
	NEQ  TokenKind = "NEQ"  // !=
	GRTR TokenKind = "GRTR" // >
	LEQ  TokenKind = "LEQ"  // <=
	GEQ  TokenKind = "GEQ"  // >=
	ADD  TokenKind = "ADD"  // +
	SUB  TokenKind = "SUB"  // -

	// Delimiters
	LPAR TokenKind = "LPAR" // (
	RPAR TokenKind = "RPAR" // )
	LCRL TokenKind = "LCRL" // {
	RCRL TokenKind = "RCRL" // }

	// Literals
	NUM TokenKind = "NUM" // 12345
	ID  TokenKind = "ID"  // abc
)

// Token is one classified lexeme.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Line   int
	Column int
}

// keywords maps keyword spellings to their kinds. An identifier run that is
// exactly one of these is the keyword; anything longer is an identifier.
var keywords = map[string]TokenKind{
	"el": EL,
	"if": IF,
	"wl": WL,
	"fr": FR,
	"in": IN,
	"ot": OT,
	"nt": NT,
}

// operators lists the fixed-spelling operators, longest first so that the
// first prefix match is also the longest one.
var operators = []struct {
	text string
	kind TokenKind
}{
	{"!=", NEQ},
	{"<=", LEQ},
	{">=", GEQ},
	{"&", AND},
	{"|", OR},
	{";", SEM},
	{":", BEC},
	{"<", LESS},
	{"=", EQ},
	{"*", MUL},
	{"/", DIV},
	{">", GRTR},
	{"+", ADD},
	{"-", SUB},
	{"(", LPAR},
	{")", RPAR},
	{"{", LCRL},
	{"}", RCRL},
}

// relops maps comparison tokens to their operator.
var relops = map[TokenKind]RelOp{
	LESS: OpLess,
	EQ:   OpEqual,
	GRTR: OpGreater,
	LEQ:  OpLessEqual,
	NEQ:  OpNotEqual,
	GEQ:  OpGreaterEqual,
}

// arithops maps arithmetic tokens to their operator.
var arithops = map[TokenKind]ArithOp{
	ADD: OpAdd,
	SUB: OpSub,
	MUL: OpMul,
	DIV: OpDiv,
}
