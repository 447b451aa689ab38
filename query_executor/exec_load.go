package executor

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	bplus "IndexDB/bplustree"
	"IndexDB/pagefile"
	"IndexDB/query_parser/parser"
	"IndexDB/recordfile"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

/*
LOAD appends every `key, value` line of a text file to <table>.tbl.

The index is maintained whenever it exists, so a later LOAD without WITH INDEX
cannot leave it stale. WITH INDEX on a table that has records but no index
first indexes the existing records.
*/

// Load runs a LOAD statement and returns the number of records appended.
func (e *Engine) Load(stmt *parser.LoadStmt) (int, error) {
	if err := e.checkTable(stmt.Table); err != nil {
		return 0, err
	}
	in, err := os.Open(stmt.File)
	if err != nil {
		return 0, errors.Wrapf(err, "open load file")
	}
	defer in.Close()

	hadIndex, err := fileExists(e.indexPath(stmt.Table))
	if err != nil {
		return 0, err
	}

	rf, err := e.openTable(stmt.Table, pagefile.ModeWrite)
	if err != nil {
		return 0, errors.Wrapf(err, "open table %s", stmt.Table)
	}
	defer rf.Close()

	var idx *bplus.Index
	if hadIndex || stmt.WithIndex {
		if idx, err = e.openIndex(stmt.Table, pagefile.ModeWrite); err != nil {
			return 0, errors.Wrapf(err, "open index %s", stmt.Table)
		}
		defer idx.Close()

		if !hadIndex {
			if err := backfillIndex(rf, idx); err != nil {
				return 0, err
			}
		}
	}

	n := 0
	scanner := bufio.NewScanner(in)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		key, value, err := parseLoadLine(line)
		if err != nil {
			return n, errors.Wrapf(err, "%s:%d", stmt.File, lineNo)
		}

		rid, err := rf.Append(key, value)
		if err != nil {
			return n, errors.Wrapf(err, "%s:%d", stmt.File, lineNo)
		}
		if idx != nil {
			if err := idx.Insert(key, bplus.Locator(rid.Encode())); err != nil {
				return n, errors.Wrapf(err, "index key %d", key)
			}
		}
		n++
	}
	if err := scanner.Err(); err != nil {
		return n, errors.Wrap(err, "read load file")
	}

	// surface close failures, the deferred calls become no-ops
	if idx != nil {
		if err := idx.Close(); err != nil {
			return n, errors.Wrapf(err, "close index %s", stmt.Table)
		}
	}
	if err := rf.Close(); err != nil {
		return n, errors.Wrapf(err, "close table %s", stmt.Table)
	}

	indexed := ""
	if idx != nil {
		indexed = " (indexed)"
	}
	fmt.Fprintf(e.out, "%s records loaded into %s%s\n", humanize.Comma(int64(n)), stmt.Table, indexed)
	return n, nil
}

func backfillIndex(rf *recordfile.RecordFile, idx *bplus.Index) error {
	return rf.Scan(func(rid recordfile.RecordID, key int32, _ string) error {
		if err := idx.Insert(key, bplus.Locator(rid.Encode())); err != nil {
			return errors.Wrapf(err, "index existing key %d", key)
		}
		return nil
	})
}

// parseLoadLine splits `key, value`. The value may be wrapped in ' or ";
// without a closing quote the text is kept as written.
func parseLoadLine(line string) (int32, string, error) {
	keyPart, valuePart, ok := strings.Cut(line, ",")
	if !ok {
		return 0, "", errors.Wrapf(ErrBadLoadLine, "missing comma in %q", line)
	}
	key, err := strconv.ParseInt(strings.TrimSpace(keyPart), 10, 32)
	if err != nil {
		return 0, "", errors.Wrapf(ErrBadLoadLine, "key %q is not a 32-bit integer", strings.TrimSpace(keyPart))
	}

	value := strings.TrimSpace(valuePart)
	if len(value) > 0 && (value[0] == '\'' || value[0] == '"') {
		// a quoted value ends at its closing quote, the rest of the line is dropped
		if end := strings.IndexByte(value[1:], value[0]); end >= 0 {
			value = value[1 : 1+end]
		}
	}
	if len(value) > recordfile.MaxValueLen {
		return 0, "", errors.Wrapf(recordfile.ErrValueTooLong, "%d bytes (max: %d)", len(value), recordfile.MaxValueLen)
	}
	return int32(key), value, nil
}
