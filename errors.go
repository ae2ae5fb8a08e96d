package main

import (
	"fmt"
	"sort"
	"strings"
)

// LexicalError reports input that no token pattern matches.
type LexicalError struct {
	Rest   string // unmatched remainder of the input
	Line   int
	Column int
}

func (e *LexicalError) Error() string {
	rest := e.Rest
	if len(rest) > 20 {
		rest = rest[:20] + "..."
	}
	return fmt.Sprintf("%d:%d: no token found at the start of %q", e.Line, e.Column, rest)
}

// SyntaxError reports a token that the grammar does not allow at its
// position.
type SyntaxError struct {
	Expected []TokenKind
	Found    TokenKind
	Lexeme   string
	Line     int
	Column   int
}

func (e *SyntaxError) Error() string {
	if len(e.Expected) == 1 && e.Expected[0] == EOF {
		return fmt.Sprintf("%d:%d: end of input expected but token %s found", e.Line, e.Column, e.Found)
	}
	kinds := make([]string, len(e.Expected))
	for i, kind := range e.Expected {
		kinds[i] = string(kind)
	}
	sort.Strings(kinds)
	return fmt.Sprintf("%d:%d: token in [%s] expected but %s found",
		e.Line, e.Column, strings.Join(kinds, " "), e.Found)
}

// LiteralRangeError reports a numeral that does not fit in a 32-bit word.
type LiteralRangeError struct {
	Text   string
	Line   int
	Column int
}

func (e *LiteralRangeError) Error() string {
	return fmt.Sprintf("%d:%d: number %s does not fit in 32 bits", e.Line, e.Column, e.Text)
}
