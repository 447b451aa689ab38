package bplus

import (
	"github.com/pkg/errors"
)

// ReadForward returns the entry at cursor and the cursor of the entry after
// it, following the leaf's sibling pointer at the end of a leaf. The next
// cursor is EndCursor after the last entry of the index; calling ReadForward
// with EndCursor returns ErrEndOfIndex.
//
// A cursor one past the last entry of its leaf, as Locate returns when every
// key in the leaf is smaller than the search key, is first moved to the head
// of the next leaf.
func (t *Index) ReadForward(c Cursor) (int32, Locator, Cursor, error) {
	if t.pager == nil {
		return 0, Locator{}, c, ErrClosed
	}
	if c.EntryIndex < 0 {
		return 0, Locator{}, c, errors.Wrapf(ErrInvalidCursor, "entry index %d", c.EntryIndex)
	}

	for {
		if c.AtEnd() {
			return 0, Locator{}, EndCursor, ErrEndOfIndex
		}
		leaf, err := t.readLeaf(c.PageID)
		if err != nil {
			return 0, Locator{}, c, err
		}
		if c.EntryIndex >= leaf.KeyCount() {
			c = Cursor{PageID: leaf.NextSibling(), EntryIndex: 0}
			continue
		}

		key, loc, err := leaf.ReadEntry(c.EntryIndex)
		if err != nil {
			return 0, Locator{}, c, err
		}
		next := Cursor{PageID: c.PageID, EntryIndex: c.EntryIndex + 1}
		if c.EntryIndex >= leaf.KeyCount()-1 {
			next = Cursor{PageID: leaf.NextSibling(), EntryIndex: 0}
		}
		return key, loc, next, nil
	}
}

// Iterator provides a forward-only range scan over the leaves.
type Iterator struct {
	tree   *Index
	cursor Cursor
	key    int32
	loc    Locator
	err    error
}

// SeekGE returns an iterator positioned before the first key >= target.
// Call Next to move onto it.
func (t *Index) SeekGE(target int32) (*Iterator, error) {
	c, _, err := t.Locate(target)
	if err != nil {
		return nil, err
	}
	return &Iterator{tree: t, cursor: c}, nil
}

// Next advances the iterator. Returns false when exhausted or on error.
func (it *Iterator) Next() bool {
	if it.err != nil || it.cursor.AtEnd() {
		return false
	}
	key, loc, next, err := it.tree.ReadForward(it.cursor)
	if err != nil {
		if !errors.Is(err, ErrEndOfIndex) {
			it.err = err
		}
		it.cursor = EndCursor
		return false
	}
	it.key, it.loc, it.cursor = key, loc, next
	return true
}

func (it *Iterator) Key() int32 { return it.key }

func (it *Iterator) Locator() Locator { return it.loc }

// Err returns the first storage error hit by Next.
func (it *Iterator) Err() error { return it.err }
