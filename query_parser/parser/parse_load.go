package parser

import (
	lex "IndexDB/query_parser/lexer"
)

// LOAD <table> FROM '<file>' [WITH INDEX]
func (p *Parser) parseLoad() (*LoadStmt, error) {
	p.nextToken() // consume LOAD

	table, err := p.expectNext(lex.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expectNext(lex.FROM); err != nil {
		return nil, err
	}
	file, err := p.expectNext(lex.STRING)
	if err != nil {
		return nil, err
	}

	stmt := &LoadStmt{Table: table.Value, File: file.Value}
	if p.curToken.Kind == lex.WITH {
		p.nextToken()
		if _, err := p.expectNext(lex.INDEX); err != nil {
			return nil, err
		}
		stmt.WithIndex = true
	}
	return stmt, nil
}
