package executor

import (
	"bytes"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"IndexDB/query_parser/parser"
	"IndexDB/recordfile"

	"github.com/pkg/errors"
)

// 128 byte pages: one record per table page and ten entries per leaf, so a
// few hundred rows build a multi-level index
const testPageSize = 128

type row struct {
	key   int32
	value string
}

func newTestEngine(t *testing.T) (*Engine, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	e, err := New(filepath.Join(t.TempDir(), "data"), out, WithPageSize(testPageSize))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return e, out
}

func writeLoadFile(t *testing.T, rows []row) string {
	t.Helper()
	var b strings.Builder
	for i, r := range rows {
		// mix the accepted value spellings
		switch i % 3 {
		case 0:
			fmt.Fprintf(&b, "%d, %s\n", r.key, r.value)
		case 1:
			fmt.Fprintf(&b, "%d,'%s'\n", r.key, r.value)
		default:
			fmt.Fprintf(&b, "  %d ,  \"%s\"\n\n", r.key, r.value)
		}
	}
	path := filepath.Join(t.TempDir(), "load.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("Failed to write load file: %v", err)
	}
	return path
}

func mustExec(t *testing.T, e *Engine, out *bytes.Buffer, query string) []string {
	t.Helper()
	out.Reset()
	if err := e.ExecuteSQL(query); err != nil {
		t.Fatalf("%s: %v", query, err)
	}
	text := strings.TrimSuffix(out.String(), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func randomRows(n int, seed int64) []row {
	r := rand.New(rand.NewSource(seed))
	rows := make([]row, n)
	for i := range rows {
		k := int32(r.Intn(200) - 100)
		rows[i] = row{key: k, value: fmt.Sprintf("v%d_%d", k, i)}
	}
	return rows
}

// expectedLines renders the rows matching conds the way SELECT * prints them, sorted.
func expectedLines(rows []row, conds []parser.Condition) []string {
	var lines []string
	for _, r := range rows {
		if meetAll(conds, r.key, r.value) {
			lines = append(lines, fmt.Sprintf("%d '%s'", r.key, r.value))
		}
	}
	sort.Strings(lines)
	return lines
}

func sorted(lines []string) []string {
	out := append([]string(nil), lines...)
	sort.Strings(out)
	return out
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLoadReportsCount(t *testing.T) {
	e, out := newTestEngine(t)
	file := writeLoadFile(t, randomRows(25, 1))

	lines := mustExec(t, e, out, fmt.Sprintf("LOAD t FROM '%s' WITH INDEX", file))
	if len(lines) != 1 || lines[0] != "25 records loaded into t (indexed)" {
		t.Errorf("Unexpected LOAD output %q", lines)
	}
}

func TestSelectIndexMatchesFullScan(t *testing.T) {
	e, out := newTestEngine(t)
	rows := randomRows(300, 7)
	file := writeLoadFile(t, rows)

	mustExec(t, e, out, fmt.Sprintf("LOAD indexed FROM '%s' WITH INDEX", file))
	mustExec(t, e, out, fmt.Sprintf("LOAD plain FROM '%s'", file))

	wheres := []string{
		"",
		" WHERE key = 17",
		" WHERE key = 1000",
		" WHERE key <> 0",
		" WHERE key > 10 AND key <= 40",
		" WHERE key >= -20 AND key < -19",
		" WHERE key < -90",
		" WHERE key > 95",
		" WHERE key >= 50 AND key <= 10",
		" WHERE key > 2147483647",
		" WHERE key < -2147483648",
		" WHERE key >= -2147483648 AND key <= 2147483647",
		" WHERE key > -5 AND key < 5 AND key <> 0 AND key <> 3",
		" WHERE key >= 0 AND value < 'v5'",
		" WHERE value = 'v17_3'",
		" WHERE value >= 'v9'",
	}
	for _, where := range wheres {
		stmt, err := parser.Parse("SELECT * FROM t" + where)
		if err != nil {
			t.Fatalf("parse %q: %v", where, err)
		}
		want := expectedLines(rows, stmt.(*parser.SelectStmt).Conds)

		for _, table := range []string{"indexed", "plain"} {
			got := sorted(mustExec(t, e, out, "SELECT * FROM "+table+where))
			if !equalLines(got, want) {
				t.Errorf("%s%s: got %d rows, want %d\n got: %v\nwant: %v", table, where, len(got), len(want), got, want)
			}

			count := mustExec(t, e, out, "SELECT COUNT(*) FROM "+table+where)
			if len(count) != 1 || count[0] != fmt.Sprint(len(want)) {
				t.Errorf("%s%s: COUNT(*) printed %v, want %d", table, where, count, len(want))
			}
		}
	}
}

func TestIndexScanReturnsKeysInOrder(t *testing.T) {
	e, out := newTestEngine(t)
	rows := randomRows(250, 3)
	mustExec(t, e, out, fmt.Sprintf("LOAD t FROM '%s' WITH INDEX", writeLoadFile(t, rows)))

	lines := mustExec(t, e, out, "SELECT key FROM t WHERE key >= -30 AND key <= 30")
	prev := int32(math.MinInt32)
	want := 0
	for _, r := range rows {
		if r.key >= -30 && r.key <= 30 {
			want++
		}
	}
	if len(lines) != want {
		t.Fatalf("Expected %d keys, got %d", want, len(lines))
	}
	for _, line := range lines {
		var k int32
		if _, err := fmt.Sscan(line, &k); err != nil {
			t.Fatalf("Bad key line %q: %v", line, err)
		}
		if k < prev {
			t.Fatalf("Keys out of order: %d after %d", k, prev)
		}
		prev = k
	}
}

// Heavily duplicated keys spread copies of one key over several leaves.
func TestIndexScanFindsAllDuplicates(t *testing.T) {
	e, out := newTestEngine(t)
	rows := make([]row, 240)
	for i := range rows {
		rows[i] = row{key: int32(i % 4), value: fmt.Sprintf("dup_%d", i)}
	}
	mustExec(t, e, out, fmt.Sprintf("LOAD t FROM '%s' WITH INDEX", writeLoadFile(t, rows)))

	for k := 0; k < 4; k++ {
		for _, where := range []string{
			fmt.Sprintf("key = %d", k),
			fmt.Sprintf("key >= %d AND key <= %d", k, k),
			fmt.Sprintf("key > %d AND key < %d", k-1, k+1),
		} {
			lines := mustExec(t, e, out, "SELECT COUNT(*) FROM t WHERE "+where)
			if len(lines) != 1 || lines[0] != "60" {
				t.Errorf("%s: COUNT(*) printed %v, want 60", where, lines)
			}
		}
	}
}

func TestIndexScanRandomDuplicates(t *testing.T) {
	e, out := newTestEngine(t)
	rng := rand.New(rand.NewSource(5))
	rows := make([]row, 400)
	counts := make(map[int32]int)
	for i := range rows {
		k := int32(rng.Intn(10))
		rows[i] = row{key: k, value: fmt.Sprintf("r%d", i)}
		counts[k]++
	}
	mustExec(t, e, out, fmt.Sprintf("LOAD t FROM '%s' WITH INDEX", writeLoadFile(t, rows)))

	for k := int32(0); k < 10; k++ {
		lines := mustExec(t, e, out, fmt.Sprintf("SELECT COUNT(*) FROM t WHERE key = %d", k))
		if want := fmt.Sprint(counts[k]); len(lines) != 1 || lines[0] != want {
			t.Errorf("key = %d: COUNT(*) printed %v, want %s", k, lines, want)
		}
	}
	cond := []parser.Condition{
		{Attr: parser.AttrKey, Op: parser.OpGE, Int: 3},
		{Attr: parser.AttrKey, Op: parser.OpLE, Int: 6},
	}
	got := mustExec(t, e, out, "SELECT * FROM t WHERE key >= 3 AND key <= 6")
	if want := expectedLines(rows, cond); !equalLines(sorted(got), want) {
		t.Errorf("Range over duplicates returned %d rows, want %d", len(got), len(want))
	}
}

func TestSelectOutputFormats(t *testing.T) {
	e, out := newTestEngine(t)
	rows := []row{{5, "five"}, {-2, "minus two"}, {9, ""}}
	mustExec(t, e, out, fmt.Sprintf("LOAD t FROM '%s' WITH INDEX", writeLoadFile(t, rows)))

	tests := []struct {
		query string
		want  []string
	}{
		{"SELECT key FROM t WHERE key = 5", []string{"5"}},
		{"SELECT value FROM t WHERE key = 5", []string{"five"}},
		{"SELECT * FROM t WHERE key = -2", []string{"-2 'minus two'"}},
		{"SELECT * FROM t WHERE key = 9", []string{"9 ''"}},
		{"SELECT key FROM t", []string{"-2", "5", "9"}},
		{"SELECT COUNT(*) FROM t WHERE key = 4", []string{"0"}},
		{"SELECT key FROM t WHERE key = 4", nil},
		{`SELECT key FROM t WHERE value = "minus two";`, []string{"-2"}},
	}
	for _, tt := range tests {
		got := mustExec(t, e, out, tt.query)
		if !equalLines(got, tt.want) {
			t.Errorf("%s: got %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestLoadBackfillsIndex(t *testing.T) {
	e, out := newTestEngine(t)
	first := randomRows(60, 11)
	second := randomRows(40, 12)

	mustExec(t, e, out, fmt.Sprintf("LOAD t FROM '%s'", writeLoadFile(t, first)))
	if p, err := e.choosePlan(&parser.SelectStmt{Attr: parser.AttrCount, Table: "t"}); err != nil || p != planFullScan {
		t.Fatalf("Expected full scan before an index exists, got %v (%v)", p, err)
	}

	mustExec(t, e, out, fmt.Sprintf("LOAD t FROM '%s' WITH INDEX", writeLoadFile(t, second)))
	if p, err := e.choosePlan(&parser.SelectStmt{Attr: parser.AttrCount, Table: "t"}); err != nil || p != planIndexScan {
		t.Fatalf("Expected index scan once indexed, got %v (%v)", p, err)
	}

	// a plain LOAD still maintains the existing index
	third := randomRows(30, 13)
	mustExec(t, e, out, fmt.Sprintf("LOAD t FROM '%s'", writeLoadFile(t, third)))

	all := append(append(append([]row(nil), first...), second...), third...)
	got := sorted(mustExec(t, e, out, "SELECT * FROM t WHERE key >= -100"))
	if want := expectedLines(all, nil); !equalLines(got, want) {
		t.Errorf("Index scan after backfill: got %d rows, want %d", len(got), len(want))
	}
	if lines := mustExec(t, e, out, "SELECT COUNT(*) FROM t"); len(lines) != 1 || lines[0] != "130" {
		t.Errorf("COUNT(*) printed %v, want 130", lines)
	}
}

func TestChoosePlan(t *testing.T) {
	e, out := newTestEngine(t)
	mustExec(t, e, out, fmt.Sprintf("LOAD t FROM '%s' WITH INDEX", writeLoadFile(t, randomRows(5, 1))))

	tests := []struct {
		query string
		want  plan
	}{
		{"SELECT * FROM t", planFullScan},
		{"SELECT key FROM t", planIndexScan},
		{"SELECT COUNT(*) FROM t", planIndexScan},
		{"SELECT value FROM t", planFullScan},
		{"SELECT * FROM t WHERE key > 3", planIndexScan},
		{"SELECT key FROM t WHERE value = 'x'", planFullScan},
		{"SELECT * FROM t WHERE value = 'x' AND key < 0", planIndexScan},
	}
	for _, tt := range tests {
		stmt, err := parser.Parse(tt.query)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.query, err)
		}
		got, err := e.choosePlan(stmt.(*parser.SelectStmt))
		if err != nil {
			t.Fatalf("%s: %v", tt.query, err)
		}
		if got != tt.want {
			t.Errorf("%s: chose %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestFoldKeyConds(t *testing.T) {
	key := func(op parser.Op, k int32) parser.Condition {
		return parser.Condition{Attr: parser.AttrKey, Op: op, Int: k}
	}
	tests := []struct {
		name   string
		conds  []parser.Condition
		lo, hi int64
		empty  bool
	}{
		{"none", nil, math.MinInt32, math.MaxInt32, false},
		{"gt is exclusive", []parser.Condition{key(parser.OpGT, 5)}, 6, math.MaxInt32, false},
		{"ge is inclusive", []parser.Condition{key(parser.OpGE, 5)}, 5, math.MaxInt32, false},
		{"lt is exclusive", []parser.Condition{key(parser.OpLT, 5)}, math.MinInt32, 4, false},
		{"le is inclusive", []parser.Condition{key(parser.OpLE, 5)}, math.MinInt32, 5, false},
		{"eq pins both", []parser.Condition{key(parser.OpEQ, 5)}, 5, 5, false},
		{"tightest wins", []parser.Condition{key(parser.OpGE, 1), key(parser.OpGT, 3), key(parser.OpGE, 2), key(parser.OpLE, 9), key(parser.OpLT, 8)}, 4, 7, false},
		{"eq outside range", []parser.Condition{key(parser.OpGT, 5), key(parser.OpEQ, 5)}, 6, 5, true},
		{"gt max", []parser.Condition{key(parser.OpGT, math.MaxInt32)}, math.MaxInt32 + 1, math.MaxInt32, true},
		{"lt min", []parser.Condition{key(parser.OpLT, math.MinInt32)}, math.MinInt32, math.MinInt32 - 1, true},
		{"value conds ignored", []parser.Condition{{Attr: parser.AttrValue, Op: parser.OpEQ, Str: "x"}}, math.MinInt32, math.MaxInt32, false},
	}
	for _, tt := range tests {
		r := foldKeyConds(tt.conds)
		if r.lo != tt.lo || r.hi != tt.hi || r.empty() != tt.empty {
			t.Errorf("%s: got [%d, %d] empty=%v, want [%d, %d] empty=%v", tt.name, r.lo, r.hi, r.empty(), tt.lo, tt.hi, tt.empty)
		}
	}

	r := foldKeyConds([]parser.Condition{key(parser.OpNE, 3), key(parser.OpGE, 0), key(parser.OpLE, 5)})
	for k, want := range map[int32]bool{-1: false, 0: true, 3: false, 5: true, 6: false} {
		if got := r.contains(k); got != want {
			t.Errorf("contains(%d) = %v, want %v", k, got, want)
		}
	}
}

func TestMeetCond(t *testing.T) {
	tests := []struct {
		cond  parser.Condition
		key   int32
		value string
		want  bool
	}{
		{parser.Condition{Attr: parser.AttrKey, Op: parser.OpEQ, Int: 3}, 3, "", true},
		{parser.Condition{Attr: parser.AttrKey, Op: parser.OpNE, Int: 3}, 3, "", false},
		{parser.Condition{Attr: parser.AttrKey, Op: parser.OpLT, Int: 3}, 2, "", true},
		{parser.Condition{Attr: parser.AttrKey, Op: parser.OpGT, Int: 3}, 3, "", false},
		{parser.Condition{Attr: parser.AttrKey, Op: parser.OpLE, Int: -3}, -3, "", true},
		{parser.Condition{Attr: parser.AttrKey, Op: parser.OpGE, Int: 0}, -1, "", false},
		{parser.Condition{Attr: parser.AttrValue, Op: parser.OpEQ, Str: "abc"}, 0, "abc", true},
		{parser.Condition{Attr: parser.AttrValue, Op: parser.OpLT, Str: "abd"}, 0, "abc", true},
		{parser.Condition{Attr: parser.AttrValue, Op: parser.OpGE, Str: "b"}, 0, "abc", false},
		{parser.Condition{Attr: parser.AttrValue, Op: parser.OpNE, Str: ""}, 0, "", false},
	}
	for i, tt := range tests {
		if got := meetCond(tt.cond, tt.key, tt.value); got != tt.want {
			t.Errorf("case %d: %v %v against (%d, %q) = %v, want %v", i, tt.cond.Attr, tt.cond.Op, tt.key, tt.value, got, tt.want)
		}
	}
}

func TestEngineErrors(t *testing.T) {
	e, out := newTestEngine(t)

	if err := e.ExecuteSQL("SELECT * FROM missing"); !errors.Is(err, ErrNoSuchTable) {
		t.Errorf("Expected ErrNoSuchTable, got %v", err)
	}
	if err := e.ExecuteSQL("SELECT * FROM"); !errors.Is(err, parser.ErrUnexpectedToken) {
		t.Errorf("Expected parse error, got %v", err)
	}
	if _, err := e.Load(&parser.LoadStmt{Table: "../escape", File: "x"}); !errors.Is(err, ErrInvalidTable) {
		t.Errorf("Expected ErrInvalidTable, got %v", err)
	}
	if err := e.Execute(struct{}{}); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Expected ErrUnsupported, got %v", err)
	}
	if err := e.ExecuteSQL("LOAD t FROM '/definitely/not/here.txt'"); err == nil {
		t.Error("Expected error loading a missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.txt")
	if err := os.WriteFile(bad, []byte("1, one\ntwo, 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := e.ExecuteSQL(fmt.Sprintf("LOAD t FROM '%s'", bad)); !errors.Is(err, ErrBadLoadLine) {
		t.Errorf("Expected ErrBadLoadLine, got %v", err)
	}
	// the line before the bad one was stored
	if lines := mustExec(t, e, out, "SELECT * FROM t"); !equalLines(lines, []string{"1 'one'"}) {
		t.Errorf("Expected the first line to be loaded, got %q", lines)
	}
}

func TestParseLoadLine(t *testing.T) {
	tests := []struct {
		line  string
		key   int32
		value string
		err   error
	}{
		{"1, one", 1, "one", nil},
		{"-7,'quoted, with comma'", -7, "quoted, with comma", nil},
		{`3 , "x"`, 3, "x", nil},
		{"4, 'mismatched\"", 4, "'mismatched\"", nil},
		{"1, 'abc' x", 1, "abc", nil},
		{`2, "a 'b' c" trailing, more`, 2, "a 'b' c", nil},
		{"3, ''", 3, "", nil},
		{"5,", 5, "", nil},
		{"no comma", 0, "", ErrBadLoadLine},
		{"x, y", 0, "", ErrBadLoadLine},
		{"99999999999, big", 0, "", ErrBadLoadLine},
		{"1, " + strings.Repeat("z", recordfile.MaxValueLen+1), 0, "", recordfile.ErrValueTooLong},
	}
	for _, tt := range tests {
		key, value, err := parseLoadLine(tt.line)
		if tt.err != nil {
			if !errors.Is(err, tt.err) {
				t.Errorf("%q: expected %v, got %v", tt.line, tt.err, err)
			}
			continue
		}
		if err != nil || key != tt.key || value != tt.value {
			t.Errorf("%q: got (%d, %q, %v), want (%d, %q)", tt.line, key, value, err, tt.key, tt.value)
		}
	}
}
