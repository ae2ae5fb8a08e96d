package main

import (
	"errors"
	"testing"

	"github.com/nalgeon/be"
)

// lexAll consumes every token of input, returning kinds and lexemes.
func lexAll(t *testing.T, input string) ([]TokenKind, []string) {
	t.Helper()
	l, err := NewLexer([]byte(input))
	be.Err(t, err, nil)

	var kinds []TokenKind
	var lexemes []string
	for l.Lookahead() != EOF {
		tok, err := l.Consume(l.Lookahead())
		be.Err(t, err, nil)
		kinds = append(kinds, tok.Kind)
		lexemes = append(lexemes, tok.Lexeme)
	}
	return kinds, lexemes
}

func TestLexKeywordsAndIdentifiers(t *testing.T) {
	kinds, lexemes := lexAll(t, "if el wl fr in ot nt iff input note x abc")
	be.Equal(t, kinds, []TokenKind{IF, EL, WL, FR, IN, OT, NT, ID, ID, ID, ID, ID})
	be.Equal(t, lexemes[7:], []string{"iff", "input", "note", "x", "abc"})
}

func TestLexNumbers(t *testing.T) {
	kinds, lexemes := lexAll(t, "0 42 007 99999999999")
	be.Equal(t, kinds, []TokenKind{NUM, NUM, NUM, NUM})
	be.Equal(t, lexemes, []string{"0", "42", "007", "99999999999"})
}

func TestLexOperatorsLongestMatch(t *testing.T) {
	kinds, _ := lexAll(t, "<= < >= > != = & | ; : + - * / ( ) { }")
	be.Equal(t, kinds, []TokenKind{
		LEQ, LESS, GEQ, GRTR, NEQ, EQ, AND, OR, SEM, BEC,
		ADD, SUB, MUL, DIV, LPAR, RPAR, LCRL, RCRL,
	})
}

func TestLexWithoutWhitespace(t *testing.T) {
	kinds, lexemes := lexAll(t, "x:x+1;if x<=10{ot x}")
	be.Equal(t, kinds, []TokenKind{ID, BEC, ID, ADD, NUM, SEM, IF, ID, LEQ, NUM, LCRL, OT, ID, RCRL})
	be.Equal(t, lexemes[8], "<=")
}

func TestLexKeywordPrefixOfIdentifier(t *testing.T) {
	// A letter run is read whole before keywords are considered.
	kinds, _ := lexAll(t, "fry wlx otot")
	be.Equal(t, kinds, []TokenKind{ID, ID, ID})
}

func TestLexEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t\r\n"} {
		l, err := NewLexer([]byte(input))
		be.Err(t, err, nil)
		be.Equal(t, l.Lookahead(), EOF)
	}
}

func TestLexEOFIsSticky(t *testing.T) {
	l, err := NewLexer([]byte("x"))
	be.Err(t, err, nil)
	_, err = l.Consume(ID)
	be.Err(t, err, nil)

	be.Equal(t, l.Lookahead(), EOF)
	_, err = l.Consume(EOF)
	be.Err(t, err, nil)
	be.Equal(t, l.Lookahead(), EOF)
}

func TestLexPositions(t *testing.T) {
	l, err := NewLexer([]byte("x:1;\n  ot x"))
	be.Err(t, err, nil)

	var positions [][2]int
	for l.Lookahead() != EOF {
		tok, err := l.Consume(l.Lookahead())
		be.Err(t, err, nil)
		positions = append(positions, [2]int{tok.Line, tok.Column})
	}
	be.Equal(t, positions, [][2]int{{1, 1}, {1, 2}, {1, 3}, {1, 4}, {2, 3}, {2, 6}})
}

func TestLexicalErrors(t *testing.T) {
	tests := []struct {
		input string
		rest  string
		line  int
		col   int
	}{
		{"!", "!", 1, 1},
		{"x ! y", "! y", 1, 3},
		{"X:1", "X:1", 1, 1},
		{"x:1;\nx:#", "#", 2, 3},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			l, err := NewLexer([]byte(test.input))
			for err == nil && l.Lookahead() != EOF {
				_, err = l.Consume(l.Lookahead())
			}

			var lexErr *LexicalError
			be.True(t, errors.As(err, &lexErr))
			be.Equal(t, lexErr.Rest, test.rest)
			be.Equal(t, lexErr.Line, test.line)
			be.Equal(t, lexErr.Column, test.col)
		})
	}
}

func TestLexicalErrorIsDetectedOneTokenAhead(t *testing.T) {
	l, err := NewLexer([]byte("x !"))
	be.Err(t, err, nil)

	// Consuming x advances onto the bad character.
	_, err = l.Consume(ID)
	var lexErr *LexicalError
	be.True(t, errors.As(err, &lexErr))
	be.Equal(t, err.Error(), `1:3: no token found at the start of "!"`)
}

func TestLexicalErrorTruncatesRest(t *testing.T) {
	err := &LexicalError{Rest: "!abcdefghijklmnopqrstuvwxyz", Line: 1, Column: 1}
	be.Equal(t, err.Error(), `1:1: no token found at the start of "!abcdefghijklmnopqrs..."`)
}

func TestConsumeUnexpectedToken(t *testing.T) {
	l, err := NewLexer([]byte("ot x"))
	be.Err(t, err, nil)

	_, err = l.Consume(ID, NUM)
	var synErr *SyntaxError
	be.True(t, errors.As(err, &synErr))
	be.Equal(t, synErr.Found, OT)
	be.Equal(t, synErr.Lexeme, "ot")
	be.Equal(t, synErr.Expected, []TokenKind{ID, NUM})
	be.Equal(t, err.Error(), "1:1: token in [ID NUM] expected but OT found")

	// A failed Consume does not advance.
	be.Equal(t, l.Lookahead(), OT)
}
