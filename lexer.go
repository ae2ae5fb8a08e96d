package main

import "strings"

// Lexer turns Small source text into tokens on demand. It always holds the
// next unconsumed token, so lexical errors surface one token ahead of the
// parser.
type Lexer struct {
	input  []byte
	pos    int // current reading position in input
	line   int
	column int

	current Token
}

// NewLexer initializes a lexer over src and scans the first token.
func NewLexer(src []byte) (*Lexer, error) {
	l := &Lexer{input: src, line: 1, column: 1}
	if err := l.advance(); err != nil {
		return nil, err
	}
	return l, nil
}

// Lookahead returns the kind of the next token without consuming it.
// It returns EOF once the input is exhausted.
func (l *Lexer) Lookahead() TokenKind {
	return l.current.Kind
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() Token {
	return l.current
}

// Consume returns the next token and advances past it, provided its kind is
// one of expected. Otherwise it returns a *SyntaxError naming what was found.
func (l *Lexer) Consume(expected ...TokenKind) (Token, error) {
	tok := l.current
	found := false
	for _, kind := range expected {
		if tok.Kind == kind {
			found = true
			break
		}
	}
	if !found {
		return Token{}, &SyntaxError{
			Expected: expected,
			Found:    tok.Kind,
			Lexeme:   tok.Lexeme,
			Line:     tok.Line,
			Column:   tok.Column,
		}
	}
	if err := l.advance(); err != nil {
		return Token{}, err
	}
	return tok, nil
}

// advance scans the next token into l.current.
func (l *Lexer) advance() error {
	l.skipWhitespace()

	start := l.pos
	l.current = Token{Line: l.line, Column: l.column}

	if l.pos >= len(l.input) {
		l.current.Kind = EOF
		return nil
	}

	c := l.input[l.pos]
	switch {
	case isLetter(c):
		for l.pos < len(l.input) && isLetter(l.input[l.pos]) {
			l.pos++
		}
		lit := string(l.input[start:l.pos])
		if kind, ok := keywords[lit]; ok {
			l.current.Kind = kind
		} else {
			l.current.Kind = ID
		}
		l.current.Lexeme = lit

	case isDigit(c):
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
		}
		l.current.Kind = NUM
		l.current.Lexeme = string(l.input[start:l.pos])

	default:
		rest := l.input[l.pos:]
		matched := false
		for _, op := range operators {
			if strings.HasPrefix(string(rest), op.text) {
				l.current.Kind = op.kind
				l.current.Lexeme = op.text
				l.pos += len(op.text)
				matched = true
				break
			}
		}
		if !matched {
			return &LexicalError{
				Rest:   string(rest),
				Line:   l.line,
				Column: l.column,
			}
		}
	}

	l.column += l.pos - start
	return nil
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case '\n':
			l.line++
			l.column = 1
		case ' ', '\t', '\r':
			l.column++
		default:
			return
		}
		l.pos++
	}
}

// Identifiers are lower-case only.
func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
