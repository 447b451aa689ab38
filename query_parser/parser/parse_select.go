package parser

import (
	"strconv"

	lex "IndexDB/query_parser/lexer"

	"github.com/pkg/errors"
)

// SELECT <key|value|*|COUNT(*)> FROM <table> [WHERE <cond> [AND <cond>]...]
func (p *Parser) parseSelect() (*SelectStmt, error) {
	p.nextToken() // consume SELECT

	attr, err := p.parseProjection()
	if err != nil {
		return nil, err
	}

	if _, err := p.expectNext(lex.FROM); err != nil {
		return nil, err
	}
	table, err := p.expectNext(lex.IDENT)
	if err != nil {
		return nil, err
	}

	stmt := &SelectStmt{Attr: attr, Table: table.Value}
	if p.curToken.Kind != lex.WHERE {
		return stmt, nil
	}
	p.nextToken()

	for {
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		stmt.Conds = append(stmt.Conds, cond)
		if p.curToken.Kind != lex.AND {
			break
		}
		p.nextToken()
	}
	return stmt, nil
}

func (p *Parser) parseProjection() (Attr, error) {
	switch p.curToken.Kind {
	case lex.KEY:
		p.nextToken()
		return AttrKey, nil
	case lex.VALUE:
		p.nextToken()
		return AttrValue, nil
	case lex.ASTERISK:
		p.nextToken()
		return AttrAll, nil
	case lex.COUNT:
		p.nextToken()
		for _, kind := range []lex.TokenKind{lex.OPENROUNDED, lex.ASTERISK, lex.CLOSEDROUNDED} {
			if _, err := p.expectNext(kind); err != nil {
				return 0, err
			}
		}
		return AttrCount, nil
	}
	return 0, errors.Wrapf(ErrUnexpectedToken, "expected key, value, * or COUNT(*), got %s (%q)", p.curToken.Kind, p.curToken.Value)
}

var comparisonOps = map[lex.TokenKind]Op{
	lex.EQUAL:        OpEQ,
	lex.NOTEQUAL:     OpNE,
	lex.LESS:         OpLT,
	lex.GREATER:      OpGT,
	lex.LESSEQUAL:    OpLE,
	lex.GREATEREQUAL: OpGE,
}

// key <op> <int> | value <op> '<string>'
func (p *Parser) parseCondition() (Condition, error) {
	var cond Condition
	switch p.curToken.Kind {
	case lex.KEY:
		cond.Attr = AttrKey
	case lex.VALUE:
		cond.Attr = AttrValue
	default:
		return cond, errors.Wrapf(ErrUnexpectedToken, "expected key or value in condition, got %s (%q)", p.curToken.Kind, p.curToken.Value)
	}
	p.nextToken()

	op, ok := comparisonOps[p.curToken.Kind]
	if !ok {
		return cond, errors.Wrapf(ErrUnexpectedToken, "expected comparison operator, got %s (%q)", p.curToken.Kind, p.curToken.Value)
	}
	cond.Op = op
	p.nextToken()

	lit := p.curToken
	switch {
	case cond.Attr == AttrKey && lit.Kind == lex.INT:
		n, err := strconv.ParseInt(lit.Value, 10, 32)
		if err != nil {
			return cond, errors.Wrapf(ErrBadLiteral, "key literal %s does not fit in 32 bits", lit.Value)
		}
		cond.Int = int32(n)
	case cond.Attr == AttrValue && (lit.Kind == lex.STRING || lit.Kind == lex.INT):
		cond.Str = lit.Value
	default:
		return cond, errors.Wrapf(ErrBadLiteral, "%s cannot be compared with %s (%q)", cond.Attr, lit.Kind, lit.Value)
	}
	p.nextToken()
	return cond, nil
}
