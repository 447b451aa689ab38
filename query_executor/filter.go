package executor

import (
	"math"

	"IndexDB/query_parser/parser"
)

// keyRange is the inclusive interval [lo, hi] every key condition admits,
// minus the keys excluded by <>. Bounds are int64 so k+1 and k-1 never wrap.
type keyRange struct {
	lo, hi   int64
	excluded map[int32]bool
}

func foldKeyConds(conds []parser.Condition) keyRange {
	r := keyRange{lo: math.MinInt32, hi: math.MaxInt32}
	for _, c := range conds {
		if c.Attr != parser.AttrKey {
			continue
		}
		k := int64(c.Int)
		switch c.Op {
		case parser.OpEQ:
			r.raiseLo(k)
			r.lowerHi(k)
		case parser.OpGE:
			r.raiseLo(k)
		case parser.OpGT:
			r.raiseLo(k + 1)
		case parser.OpLE:
			r.lowerHi(k)
		case parser.OpLT:
			r.lowerHi(k - 1)
		case parser.OpNE:
			if r.excluded == nil {
				r.excluded = make(map[int32]bool)
			}
			r.excluded[c.Int] = true
		}
	}
	return r
}

func (r *keyRange) raiseLo(k int64) {
	if k > r.lo {
		r.lo = k
	}
}

func (r *keyRange) lowerHi(k int64) {
	if k < r.hi {
		r.hi = k
	}
}

func (r keyRange) empty() bool { return r.lo > r.hi }

func (r keyRange) contains(key int32) bool {
	k := int64(key)
	return k >= r.lo && k <= r.hi && !r.excluded[key]
}

// meetCond reports whether (key, value) satisfies c.
func meetCond(c parser.Condition, key int32, value string) bool {
	var cmp int
	switch c.Attr {
	case parser.AttrKey:
		cmp = compareInt(key, c.Int)
	case parser.AttrValue:
		cmp = compareString(value, c.Str)
	default:
		return false
	}

	switch c.Op {
	case parser.OpEQ:
		return cmp == 0
	case parser.OpNE:
		return cmp != 0
	case parser.OpLT:
		return cmp < 0
	case parser.OpGT:
		return cmp > 0
	case parser.OpLE:
		return cmp <= 0
	case parser.OpGE:
		return cmp >= 0
	}
	return false
}

func meetAll(conds []parser.Condition, key int32, value string) bool {
	for _, c := range conds {
		if !meetCond(c, key, value) {
			return false
		}
	}
	return true
}

func compareInt(a, b int32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
