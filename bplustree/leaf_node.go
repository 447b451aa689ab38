package bplus

import (
	"github.com/pkg/errors"
)

// Leaf page layout:
//   - [0:4)                      entry count n, int32
//   - [4+12i : 4+12i+8)          locator of entry i
//   - [4+12i+8 : 4+12i+12)       key of entry i, int32
//   - [4+12n : 4+12n+4)          next sibling page id, int32
//
// The sibling pointer follows the last populated entry, so its offset moves
// with the count.
const leafEntriesOffset = countSize

type leafEntry struct {
	key int32
	loc Locator
}

// LeafNode is a decoded leaf page. Each decode produces a fresh value.
type LeafNode struct {
	capacity int
	entries  []leafEntry
	next     PageID
}

func leafEntryOffset(i int) int {
	return leafEntriesOffset + i*leafEntrySize
}

// DecodeLeaf decodes a leaf page.
func DecodeLeaf(page []byte) (*LeafNode, error) {
	capacity := LeafCapacity(len(page))
	n, err := readCount(page, capacity)
	if err != nil {
		return nil, errors.Wrap(err, "decode leaf")
	}

	node := NewLeafNode(len(page))
	node.entries = node.entries[:n]
	for i := 0; i < n; i++ {
		off := leafEntryOffset(i)
		copy(node.entries[i].loc[:], page[off:off+LocatorSize])
		node.entries[i].key = getInt32(page, off+LocatorSize)
	}
	node.next = PageID(getInt32(page, leafEntryOffset(n)))
	return node, nil
}

// Encode serializes the node into a page of pageSize bytes.
func (n *LeafNode) Encode(pageSize int) ([]byte, error) {
	if len(n.entries) > LeafCapacity(pageSize) {
		return nil, errors.Wrapf(ErrCorruptPage, "leaf holds %d entries, page fits %d", len(n.entries), LeafCapacity(pageSize))
	}
	page := make([]byte, pageSize)
	putInt32(page, 0, int32(len(n.entries)))
	for i, e := range n.entries {
		off := leafEntryOffset(i)
		copy(page[off:off+LocatorSize], e.loc[:])
		putInt32(page, off+LocatorSize, e.key)
	}
	putInt32(page, leafEntryOffset(len(n.entries)), int32(n.next))
	return page, nil
}

func (n *LeafNode) KeyCount() int { return len(n.entries) }

func (n *LeafNode) Capacity() int { return n.capacity }

// Locate returns the index of the first entry whose key is >= searchKey and
// whether that key equals searchKey. When every key is smaller the index is
// KeyCount().
func (n *LeafNode) Locate(searchKey int32) (int, bool) {
	for i, e := range n.entries {
		if e.key >= searchKey {
			return i, e.key == searchKey
		}
	}
	return len(n.entries), false
}

// Insert adds (key, loc) in key order. It fails with errNodeFull when the
// leaf is at capacity; the sibling pointer is preserved.
func (n *LeafNode) Insert(key int32, loc Locator) error {
	if len(n.entries) >= n.capacity {
		return errNodeFull
	}
	n.insertAt(key, loc)
	return nil
}

func (n *LeafNode) insertAt(key int32, loc Locator) {
	i, _ := n.Locate(key)
	n.entries = append(n.entries, leafEntry{})
	copy(n.entries[i+1:], n.entries[i:])
	n.entries[i] = leafEntry{key: key, loc: loc}
}

// InsertAndSplit inserts (key, loc) into a conceptual array one larger than
// the node, keeps the first ceil(total/2) entries and moves the rest into the
// empty sibling. The sibling inherits the node's old next pointer; the caller
// links the node to the sibling once the sibling's page id is known.
//
// The returned separator is a copy of the sibling's first key: it stays in
// the sibling and is also inserted into the parent.
func (n *LeafNode) InsertAndSplit(key int32, loc Locator, sibling *LeafNode) (int32, error) {
	if sibling.KeyCount() != 0 {
		return 0, errors.Errorf("bplus: leaf split into non-empty sibling (%d entries)", sibling.KeyCount())
	}
	if len(n.entries) == 0 {
		return 0, errors.New("bplus: split of an empty leaf")
	}

	n.insertAt(key, loc)
	total := len(n.entries)
	left := (total + 1) / 2

	sibling.entries = append(sibling.entries[:0], n.entries[left:]...)
	n.entries = n.entries[:left]
	sibling.next = n.next
	return sibling.entries[0].key, nil
}

// ReadEntry returns the key and locator stored at entry i.
func (n *LeafNode) ReadEntry(i int) (int32, Locator, error) {
	if i < 0 || i >= len(n.entries) {
		return 0, Locator{}, errors.Wrapf(ErrInvalidCursor, "entry %d outside [0, %d)", i, len(n.entries))
	}
	e := n.entries[i]
	return e.key, e.loc, nil
}

func (n *LeafNode) NextSibling() PageID { return n.next }

func (n *LeafNode) SetNextSibling(pid PageID) { n.next = pid }
