// Structure of the B+ Tree index
/*
Page 0 (meta)
 └── Root (interior, or leaf when height == 1)
        └── Interior nodes (child0, key0, child1, key1, child2 ...)
               └── Leaf nodes (locator + key entries, next pointer)

- keys: int32, non-decreasing inside a node (duplicates allowed)
- interior nodes: children length == len(keys)+1, equal keys route right
- leaf nodes: one locator per key, linked with `next` for range scans
- all leaf nodes at the same depth (height)
- every node is decoded from its page, mutated, encoded and written back;
  nothing is cached between operations
*/
package bplus

import (
	"IndexDB/pagefile"
)

type PageID = pagefile.PageID

const InvalidPageID = pagefile.InvalidPageID

// LocatorSize is the fixed size of a record locator stored next to each leaf key.
const LocatorSize = 8

// Locator is an opaque record address. The index stores and returns it
// without interpreting it.
type Locator [LocatorSize]byte

// On-page field sizes, in bytes.
const (
	countSize         = 4
	keySize           = 4
	pageIDSize        = 4
	leafEntrySize     = LocatorSize + keySize // locator, then key
	interiorEntrySize = keySize + pageIDSize  // key, then right child
)

// LeafCapacity is the number of entries a leaf page of pageSize bytes holds:
// count + entries + one trailing sibling pointer.
func LeafCapacity(pageSize int) int {
	return (pageSize - countSize - pageIDSize) / leafEntrySize
}

// InteriorCapacity is the number of keys an interior page of pageSize bytes
// holds: count + leading child + (key, child) pairs.
func InteriorCapacity(pageSize int) int {
	return (pageSize - countSize - pageIDSize) / interiorEntrySize
}

// Cursor identifies one leaf entry. A cursor whose PageID is InvalidPageID is
// the end-of-index sentinel.
type Cursor struct {
	PageID     PageID
	EntryIndex int
}

// EndCursor is returned once iteration walks off the last leaf.
var EndCursor = Cursor{PageID: InvalidPageID}

func (c Cursor) AtEnd() bool { return c.PageID == InvalidPageID }

// Index is a B+ tree over one page file. It is not safe for concurrent use;
// callers serialize all access to one open index.
type Index struct {
	pager    pagefile.Pager
	writable bool

	height int32  // 0 empty, 1 root is a leaf
	root   PageID // InvalidPageID when empty

	leafCap     int
	interiorCap int
}
