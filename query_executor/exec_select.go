package executor

import (
	"math"

	bplus "IndexDB/bplustree"
	"IndexDB/pagefile"
	"IndexDB/query_parser/parser"
	"IndexDB/recordfile"

	"github.com/pkg/errors"
)

/*
SELECT picks one of two plans:

  - index scan: the table has an index and either a key condition narrows the
    scan or the projection needs nothing but keys. Key conditions fold into
    one range; the scan starts at Locate(lo) and follows ReadForward until a
    key passes hi. Records are read only when a value is needed.
  - full scan: every record of the table, in file order, against every condition.
*/

type plan int

const (
	planFullScan plan = iota
	planIndexScan
)

func (p plan) String() string {
	if p == planIndexScan {
		return "index scan"
	}
	return "full scan"
}

// Select runs a SELECT statement and returns the number of matching records.
func (e *Engine) Select(stmt *parser.SelectStmt) (int, error) {
	if err := e.checkTable(stmt.Table); err != nil {
		return 0, err
	}
	exists, err := fileExists(e.tablePath(stmt.Table))
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, errors.Wrapf(ErrNoSuchTable, "%s", stmt.Table)
	}

	p, err := e.choosePlan(stmt)
	if err != nil {
		return 0, err
	}

	rf, err := e.openTable(stmt.Table, pagefile.ModeRead)
	if err != nil {
		return 0, errors.Wrapf(err, "open table %s", stmt.Table)
	}
	defer rf.Close()

	out := newResultWriter(e.out, stmt.Attr)
	if p == planIndexScan {
		err = e.indexScan(stmt, rf, out)
	} else {
		err = fullScan(stmt, rf, out)
	}
	if err != nil {
		return out.rows, err
	}
	return out.rows, out.finish()
}

func (e *Engine) choosePlan(stmt *parser.SelectStmt) (plan, error) {
	hasIndex, err := fileExists(e.indexPath(stmt.Table))
	if err != nil || !hasIndex {
		return planFullScan, err
	}
	keyConds, valueConds := 0, 0
	for _, c := range stmt.Conds {
		if c.Attr == parser.AttrKey {
			keyConds++
		} else {
			valueConds++
		}
	}
	keysOnly := valueConds == 0 && (stmt.Attr == parser.AttrKey || stmt.Attr == parser.AttrCount)
	if keyConds > 0 || keysOnly {
		return planIndexScan, nil
	}
	return planFullScan, nil
}

// needsValue reports whether records must be read during an index scan.
func needsValue(stmt *parser.SelectStmt) bool {
	if stmt.Attr == parser.AttrValue || stmt.Attr == parser.AttrAll {
		return true
	}
	for _, c := range stmt.Conds {
		if c.Attr == parser.AttrValue {
			return true
		}
	}
	return false
}

func (e *Engine) indexScan(stmt *parser.SelectStmt, rf *recordfile.RecordFile, out *resultWriter) error {
	r := foldKeyConds(stmt.Conds)
	if r.empty() {
		return nil
	}

	idx, err := e.openIndex(stmt.Table, pagefile.ModeRead)
	if err != nil {
		return errors.Wrapf(err, "open index %s", stmt.Table)
	}
	defer idx.Close()

	// Equal keys route right, so copies of lo left behind by a leaf split sit
	// in the leaf before the one Locate(lo) picks. Seeking lo-1 starts there.
	seek := r.lo - 1
	if seek < math.MinInt32 {
		seek = math.MinInt32
	}

	readValues := needsValue(stmt)
	cursor, _, err := idx.Locate(int32(seek))
	if err != nil {
		return err
	}
	for !cursor.AtEnd() {
		key, loc, next, err := idx.ReadForward(cursor)
		if errors.Is(err, bplus.ErrEndOfIndex) {
			break
		}
		if err != nil {
			return err
		}
		cursor = next

		if int64(key) > r.hi {
			break
		}
		if !r.contains(key) {
			continue
		}

		var value string
		if readValues {
			rid := recordfile.DecodeRecordID(loc)
			var stored int32
			if stored, value, err = rf.Read(rid); err != nil {
				return errors.Wrapf(err, "key %d", key)
			}
			if stored != key {
				return errors.Wrapf(bplus.ErrCorruptPage, "index key %d points at record (%d, %d) holding key %d", key, rid.PageID, rid.SlotID, stored)
			}
			if !meetAll(stmt.Conds, key, value) {
				continue
			}
		}
		if err := out.emit(key, value); err != nil {
			return err
		}
	}
	return nil
}

func fullScan(stmt *parser.SelectStmt, rf *recordfile.RecordFile, out *resultWriter) error {
	return rf.Scan(func(_ recordfile.RecordID, key int32, value string) error {
		if !meetAll(stmt.Conds, key, value) {
			return nil
		}
		return out.emit(key, value)
	})
}
