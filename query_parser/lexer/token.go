package lex

type TokenKind int

const (
	// identifier
	IDENT TokenKind = iota

	// keywords
	LOAD
	FROM
	WITH
	INDEX
	SELECT
	WHERE
	AND
	COUNT
	KEY
	VALUE

	// literals
	INT
	STRING

	// punctuation and operators
	COMMA
	SEMICOLON
	ASTERISK
	OPENROUNDED
	CLOSEDROUNDED
	EQUAL
	NOTEQUAL
	LESS
	GREATER
	LESSEQUAL
	GREATEREQUAL

	END
	INVALID
)

type Token struct {
	Kind  TokenKind
	Value string
}

func (tk TokenKind) String() string {
	switch tk {
	case IDENT:
		return "IDENT"
	case LOAD:
		return "LOAD"
	case FROM:
		return "FROM"
	case WITH:
		return "WITH"
	case INDEX:
		return "INDEX"
	case SELECT:
		return "SELECT"
	case WHERE:
		return "WHERE"
	case AND:
		return "AND"
	case COUNT:
		return "COUNT"
	case KEY:
		return "KEY"
	case VALUE:
		return "VALUE"
	case INT:
		return "INT"
	case STRING:
		return "STRING"
	case COMMA:
		return "COMMA"
	case SEMICOLON:
		return "SEMICOLON"
	case ASTERISK:
		return "ASTERISK"
	case OPENROUNDED:
		return "OPENROUNDED"
	case CLOSEDROUNDED:
		return "CLOSEDROUNDED"
	case EQUAL:
		return "EQUAL"
	case NOTEQUAL:
		return "NOTEQUAL"
	case LESS:
		return "LESS"
	case GREATER:
		return "GREATER"
	case LESSEQUAL:
		return "LESSEQUAL"
	case GREATEREQUAL:
		return "GREATEREQUAL"
	case END:
		return "END"
	case INVALID:
		return "INVALID"
	default:
		return "UNKNOWN"
	}
}

// IsComparison reports whether tk is one of = <> < > <= >=.
func (tk TokenKind) IsComparison() bool {
	return tk >= EQUAL && tk <= GREATEREQUAL
}
