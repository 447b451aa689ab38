package parser

import (
	lex "IndexDB/query_parser/lexer"

	"github.com/pkg/errors"
)

var (
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrBadLiteral      = errors.New("bad literal")
)

type Parser struct {
	l         *lex.Lexer
	curToken  lex.Token
	peekToken lex.Token
}

func New(l *lex.Lexer) *Parser {
	p := &Parser{l: l}
	p.nextToken()
	p.nextToken()
	return p
}

// Parse is shorthand for New(lex.New(input)).ParseStatement().
func Parse(input string) (Statement, error) {
	return New(lex.New(input)).ParseStatement()
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) expect(kind lex.TokenKind) error {
	if p.curToken.Kind != kind {
		return errors.Wrapf(ErrUnexpectedToken, "expected %s, got %s (%q)", kind, p.curToken.Kind, p.curToken.Value)
	}
	return nil
}

// expectNext checks the current token and advances past it.
func (p *Parser) expectNext(kind lex.TokenKind) (lex.Token, error) {
	tok := p.curToken
	if err := p.expect(kind); err != nil {
		return tok, err
	}
	p.nextToken()
	return tok, nil
}

// Entry point
func (p *Parser) ParseStatement() (Statement, error) {
	var (
		stmt Statement
		err  error
	)
	switch p.curToken.Kind {
	case lex.SELECT:
		stmt, err = p.parseSelect()
	case lex.LOAD:
		stmt, err = p.parseLoad()
	default:
		return nil, errors.Wrapf(ErrUnexpectedToken, "statement cannot start with %s (%q)", p.curToken.Kind, p.curToken.Value)
	}
	if err != nil {
		return nil, err
	}

	// optional trailing semicolon, then nothing
	if p.curToken.Kind == lex.SEMICOLON {
		p.nextToken()
	}
	if err := p.expect(lex.END); err != nil {
		return nil, err
	}
	return stmt, nil
}
