package executor

/*
this file wires parsed statements to the storage layers

 ============================================================================
 ARCHITECTURE OVERVIEW
 ============================================================================

 Engine - plans LOAD and SELECT, does NOT format pages itself
     ↓
     ├─→ recordfile.RecordFile - <table>.tbl, stores (key, value) tuples
     │       ↓
     │   pagefile.Pager.WritePage() - Disk I/O for data
     │
     └─→ bplus.Index - <table>.idx, maps key → record id
             ↓
         pagefile.Pager.WritePage() - Disk I/O for index

 An Engine is not safe for concurrent use.
*/

import (
	"io"
	"os"
	"path/filepath"

	bplus "IndexDB/bplustree"
	"IndexDB/pagefile"
	"IndexDB/query_parser/parser"
	"IndexDB/recordfile"

	"github.com/pkg/errors"
)

const (
	tableExt = ".tbl"
	indexExt = ".idx"
)

var (
	ErrNoSuchTable  = errors.New("no such table")
	ErrBadLoadLine  = errors.New("bad load line")
	ErrUnsupported  = errors.New("unsupported statement")
	ErrInvalidTable = errors.New("invalid table name")
)

type Engine struct {
	dir       string
	out       io.Writer
	pageSize  int
	cacheSize int64
}

// Option customizes New.
type Option func(*Engine)

// WithPageSize sets the page size of table and index files created or opened by the engine.
func WithPageSize(size int) Option {
	return func(e *Engine) { e.pageSize = size }
}

// WithCacheSize bounds the record read cache of each opened table, in bytes.
func WithCacheSize(bytes int64) Option {
	return func(e *Engine) { e.cacheSize = bytes }
}

// New returns an engine keeping its table files under dir and writing query
// results to out.
func New(dir string, out io.Writer, opts ...Option) (*Engine, error) {
	e := &Engine{
		dir:       dir,
		out:       out,
		pageSize:  pagefile.DefaultPageSize,
		cacheSize: recordfile.DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := pagefile.ValidatePageSize(e.pageSize); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create data directory %s", dir)
	}
	return e, nil
}

// ExecuteSQL parses and runs a single statement.
func (e *Engine) ExecuteSQL(query string) error {
	stmt, err := parser.Parse(query)
	if err != nil {
		return err
	}
	return e.Execute(stmt)
}

func (e *Engine) Execute(stmt parser.Statement) error {
	switch s := stmt.(type) {
	case *parser.LoadStmt:
		_, err := e.Load(s)
		return err
	case *parser.SelectStmt:
		_, err := e.Select(s)
		return err
	default:
		return errors.Wrapf(ErrUnsupported, "%T", stmt)
	}
}

func (e *Engine) tablePath(table string) string { return filepath.Join(e.dir, table+tableExt) }

func (e *Engine) indexPath(table string) string { return filepath.Join(e.dir, table+indexExt) }

func (e *Engine) checkTable(table string) error {
	if table == "" || table != filepath.Base(table) {
		return errors.Wrapf(ErrInvalidTable, "%q", table)
	}
	return nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrapf(err, "stat %s", path)
}

func (e *Engine) openTable(table string, mode pagefile.Mode) (*recordfile.RecordFile, error) {
	return recordfile.Open(e.tablePath(table), mode,
		recordfile.WithPageSize(e.pageSize),
		recordfile.WithCacheSize(e.cacheSize))
}

func (e *Engine) openIndex(table string, mode pagefile.Mode) (*bplus.Index, error) {
	return bplus.Open(e.indexPath(table), mode, pagefile.WithPageSize(e.pageSize))
}
