package executor

import (
	"fmt"
	"io"

	"IndexDB/query_parser/parser"
)

// resultWriter prints one line per matching record, or only the count for
// COUNT(*). A bare value is printed as is; SELECT * quotes it after the key.
type resultWriter struct {
	w    io.Writer
	attr parser.Attr
	rows int
}

func newResultWriter(w io.Writer, attr parser.Attr) *resultWriter {
	return &resultWriter{w: w, attr: attr}
}

func (rw *resultWriter) emit(key int32, value string) error {
	rw.rows++
	var err error
	switch rw.attr {
	case parser.AttrKey:
		_, err = fmt.Fprintf(rw.w, "%d\n", key)
	case parser.AttrValue:
		_, err = fmt.Fprintf(rw.w, "%s\n", value)
	case parser.AttrAll:
		_, err = fmt.Fprintf(rw.w, "%d '%s'\n", key, value)
	}
	return err
}

func (rw *resultWriter) finish() error {
	if rw.attr != parser.AttrCount {
		return nil
	}
	_, err := fmt.Fprintf(rw.w, "%d\n", rw.rows)
	return err
}
