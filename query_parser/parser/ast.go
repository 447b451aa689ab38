package parser

import "fmt"

// Statement is a generic interface for all statements
type Statement interface{}

// LOAD statement
type LoadStmt struct {
	Table     string
	File      string
	WithIndex bool
}

// Attr names a record attribute, or a projection over them.
type Attr int

const (
	AttrKey Attr = iota
	AttrValue
	AttrAll   // *
	AttrCount // COUNT(*)
)

func (a Attr) String() string {
	switch a {
	case AttrKey:
		return "key"
	case AttrValue:
		return "value"
	case AttrAll:
		return "*"
	case AttrCount:
		return "COUNT(*)"
	default:
		return fmt.Sprintf("Attr(%d)", int(a))
	}
}

// Op is a comparison operator in a WHERE clause.
type Op int

const (
	OpEQ Op = iota
	OpNE
	OpLT
	OpGT
	OpLE
	OpGE
)

func (o Op) String() string {
	switch o {
	case OpEQ:
		return "="
	case OpNE:
		return "<>"
	case OpLT:
		return "<"
	case OpGT:
		return ">"
	case OpLE:
		return "<="
	case OpGE:
		return ">="
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Condition compares one attribute to a literal. Key conditions carry Int,
// value conditions carry Str.
type Condition struct {
	Attr Attr
	Op   Op
	Int  int32
	Str  string
}

// SELECT statement
type SelectStmt struct {
	Attr  Attr
	Table string
	Conds []Condition
}
