package main

import "strconv"

// Parser is a recursive-descent parser for Small. Each method owns one
// grammar non-terminal and consumes exactly the tokens belonging to it.
// Parsing stops at the first error.
type Parser struct {
	lex *Lexer
}

// NewParser returns a parser reading tokens from l.
func NewParser(l *Lexer) *Parser {
	return &Parser{lex: l}
}

// Parse parses a complete Small program and checks that no input follows
// it.
func Parse(src []byte) (*Program, error) {
	l, err := NewLexer(src)
	if err != nil {
		return nil, err
	}
	p := NewParser(l)
	prog, err := p.ParseProgram()
	if err != nil {
		return nil, err
	}
	if err := p.ExpectEnd(); err != nil {
		return nil, err
	}
	return prog, nil
}

// ExpectEnd fails unless the token source is exhausted.
func (p *Parser) ExpectEnd() error {
	_, err := p.lex.Consume(EOF)
	return err
}

// ParseProgram parses: program = statements
func (p *Parser) ParseProgram() (*Program, error) {
	body, err := p.ParseStatements()
	if err != nil {
		return nil, err
	}
	return &Program{Body: body}, nil
}

// ParseStatements parses: statements = statement {";" statement}
func (p *Parser) ParseStatements() (*Statements, error) {
	st, err := p.ParseStatement()
	if err != nil {
		return nil, err
	}
	items := []Stmt{st}
	for p.lex.Lookahead() == SEM {
		if _, err := p.lex.Consume(SEM); err != nil {
			return nil, err
		}
		st, err := p.ParseStatement()
		if err != nil {
			return nil, err
		}
		items = append(items, st)
	}
	return &Statements{Items: items}, nil
}

// ParseStatement picks one of the statement forms by one token of
// lookahead.
func (p *Parser) ParseStatement() (Stmt, error) {
	switch p.lex.Lookahead() {
	case IF:
		return p.parseIf()
	case WL:
		return p.parseWhile()
	case FR:
		return p.parseFor()
	case ID:
		return p.parseAssign()
	case OT:
		return p.parseOutput()
	case IN:
		return p.parseInput()
	default:
		_, err := p.lex.Consume(IF, FR, WL, ID, IN, OT)
		return nil, err
	}
}

// parseBlock parses: "{" statements "}"
func (p *Parser) parseBlock() (*Statements, error) {
	if _, err := p.lex.Consume(LCRL); err != nil {
		return nil, err
	}
	body, err := p.ParseStatements()
	if err != nil {
		return nil, err
	}
	if _, err := p.lex.Consume(RCRL); err != nil {
		return nil, err
	}
	return body, nil
}

// parseIf parses: "if" bool_expr "{" statements "}" ["el" "{" statements "}"]
func (p *Parser) parseIf() (Stmt, error) {
	if _, err := p.lex.Consume(IF); err != nil {
		return nil, err
	}
	cond, err := p.ParseBoolExpression()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if p.lex.Lookahead() != EL {
		return &If{Condition: cond, Then: then}, nil
	}
	if _, err := p.lex.Consume(EL); err != nil {
		return nil, err
	}
	els, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &IfElse{Condition: cond, Then: then, Else: els}, nil
}

// parseWhile parses: "wl" bool_expr "{" statements "}"
func (p *Parser) parseWhile() (Stmt, error) {
	if _, err := p.lex.Consume(WL); err != nil {
		return nil, err
	}
	cond, err := p.ParseBoolExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &While{Condition: cond, Body: body}, nil
}

// parseFor parses: "fr" assign "{" statements "}"
func (p *Parser) parseFor() (Stmt, error) {
	if _, err := p.lex.Consume(FR); err != nil {
		return nil, err
	}
	init, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &For{Init: init, Body: body}, nil
}

// parseOutput parses: "ot" expr
func (p *Parser) parseOutput() (Stmt, error) {
	if _, err := p.lex.Consume(OT); err != nil {
		return nil, err
	}
	value, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return &Output{Value: value}, nil
}

// parseInput parses: "in" identifier
func (p *Parser) parseInput() (Stmt, error) {
	if _, err := p.lex.Consume(IN); err != nil {
		return nil, err
	}
	target, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	return &Input{Target: target}, nil
}

// parseAssign parses: identifier ":" expr
func (p *Parser) parseAssign() (*Assign, error) {
	target, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.lex.Consume(BEC); err != nil {
		return nil, err
	}
	value, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return &Assign{Target: target, Value: value}, nil
}

// ParseBoolExpression parses: bool_expr = bool_term {"|" bool_term}
func (p *Parser) ParseBoolExpression() (BoolExpr, error) {
	result, err := p.parseBoolTerm()
	if err != nil {
		return nil, err
	}
	for p.lex.Lookahead() == OR {
		if _, err := p.lex.Consume(OR); err != nil {
			return nil, err
		}
		right, err := p.parseBoolTerm()
		if err != nil {
			return nil, err
		}
		result = &Or{Left: result, Right: right}
	}
	return result, nil
}

// parseBoolTerm parses: bool_term = bool_factor {"&" bool_factor}
func (p *Parser) parseBoolTerm() (BoolExpr, error) {
	result, err := p.parseBoolFactor()
	if err != nil {
		return nil, err
	}
	for p.lex.Lookahead() == AND {
		if _, err := p.lex.Consume(AND); err != nil {
			return nil, err
		}
		right, err := p.parseBoolFactor()
		if err != nil {
			return nil, err
		}
		result = &And{Left: result, Right: right}
	}
	return result, nil
}

// parseBoolFactor parses: bool_factor = ["nt"] comparison. A negated factor
// may itself be negated, so "nt nt x<1" is accepted.
func (p *Parser) parseBoolFactor() (BoolExpr, error) {
	if p.lex.Lookahead() != NT {
		return p.parseComparison()
	}
	if _, err := p.lex.Consume(NT); err != nil {
		return nil, err
	}
	operand, err := p.parseBoolFactor()
	if err != nil {
		return nil, err
	}
	return &Not{Operand: operand}, nil
}

// parseComparison parses: comparison = expr relop expr
func (p *Parser) parseComparison() (BoolExpr, error) {
	left, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	tok, err := p.lex.Consume(LESS, EQ, GRTR, LEQ, NEQ, GEQ)
	if err != nil {
		return nil, err
	}
	right, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return &Comparison{Left: left, Op: relops[tok.Kind], Right: right}, nil
}

// ParseExpression parses: expr = term {("+"|"-") term}
func (p *Parser) ParseExpression() (Expr, error) {
	result, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.lex.Lookahead() == ADD || p.lex.Lookahead() == SUB {
		tok, err := p.lex.Consume(ADD, SUB)
		if err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		result = &BinaryExpr{Left: result, Op: arithops[tok.Kind], Right: right}
	}
	return result, nil
}

// parseTerm parses: term = factor {("*"|"/") factor}
func (p *Parser) parseTerm() (Expr, error) {
	result, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.lex.Lookahead() == MUL || p.lex.Lookahead() == DIV {
		tok, err := p.lex.Consume(MUL, DIV)
		if err != nil {
			return nil, err
		}
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		result = &BinaryExpr{Left: result, Op: arithops[tok.Kind], Right: right}
	}
	return result, nil
}

// parseFactor parses: factor = "(" expr ")" | number | identifier
func (p *Parser) parseFactor() (Expr, error) {
	switch p.lex.Lookahead() {
	case LPAR:
		if _, err := p.lex.Consume(LPAR); err != nil {
			return nil, err
		}
		expr, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.lex.Consume(RPAR); err != nil {
			return nil, err
		}
		return expr, nil
	case NUM:
		tok, err := p.lex.Consume(NUM)
		if err != nil {
			return nil, err
		}
		value, err := strconv.ParseInt(tok.Lexeme, 10, 32)
		if err != nil {
			return nil, &LiteralRangeError{Text: tok.Lexeme, Line: tok.Line, Column: tok.Column}
		}
		return &NumberLiteral{Text: tok.Lexeme, Value: int32(value)}, nil
	case ID:
		return p.parseIdentifier()
	default:
		_, err := p.lex.Consume(LPAR, NUM, ID)
		return nil, err
	}
}

func (p *Parser) parseIdentifier() (*Identifier, error) {
	tok, err := p.lex.Consume(ID)
	if err != nil {
		return nil, err
	}
	return &Identifier{Name: tok.Lexeme}, nil
}
