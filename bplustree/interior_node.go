package bplus

import (
	"github.com/pkg/errors"
)

// Interior page layout:
//   - [0:4)              key count n, int32
//   - [4:8)              leftmost child page id, int32
//   - [8+8i : 8+8i+4)    key i, int32
//   - [8+8i+4 : 8+8i+8)  child i+1 (right of key i), int32
const (
	interiorChild0Offset  = countSize
	interiorEntriesOffset = interiorChild0Offset + pageIDSize
)

// InteriorNode is a decoded interior page: children[i] holds keys < keys[i],
// children[i+1] holds keys >= keys[i].
type InteriorNode struct {
	capacity int
	keys     []int32
	children []PageID
}

func interiorEntryOffset(i int) int {
	return interiorEntriesOffset + i*interiorEntrySize
}

// DecodeInterior decodes an interior page.
func DecodeInterior(page []byte) (*InteriorNode, error) {
	capacity := InteriorCapacity(len(page))
	n, err := readCount(page, capacity)
	if err != nil {
		return nil, errors.Wrap(err, "decode interior")
	}

	node := NewInteriorNode(len(page))
	node.keys = node.keys[:n]
	node.children = node.children[:n+1]
	node.children[0] = PageID(getInt32(page, interiorChild0Offset))
	for i := 0; i < n; i++ {
		off := interiorEntryOffset(i)
		node.keys[i] = getInt32(page, off)
		node.children[i+1] = PageID(getInt32(page, off+keySize))
	}
	return node, nil
}

// Encode serializes the node into a page of pageSize bytes.
func (n *InteriorNode) Encode(pageSize int) ([]byte, error) {
	if len(n.keys) > InteriorCapacity(pageSize) {
		return nil, errors.Wrapf(ErrCorruptPage, "interior holds %d keys, page fits %d", len(n.keys), InteriorCapacity(pageSize))
	}
	if len(n.children) != len(n.keys)+1 {
		return nil, errors.Wrapf(ErrCorruptPage, "interior has %d keys and %d children", len(n.keys), len(n.children))
	}
	page := make([]byte, pageSize)
	putInt32(page, 0, int32(len(n.keys)))
	putInt32(page, interiorChild0Offset, int32(n.children[0]))
	for i, k := range n.keys {
		off := interiorEntryOffset(i)
		putInt32(page, off, k)
		putInt32(page, off+keySize, int32(n.children[i+1]))
	}
	return page, nil
}

func (n *InteriorNode) KeyCount() int { return len(n.keys) }

func (n *InteriorNode) Capacity() int { return n.capacity }

// upperBound is the index of the first key strictly greater than key.
func (n *InteriorNode) upperBound(key int32) int {
	for i, k := range n.keys {
		if k > key {
			return i
		}
	}
	return len(n.keys)
}

// LocateChild returns the child to descend into for searchKey: the pointer
// left of the first key greater than searchKey, or the rightmost child.
// A key equal to a separator routes right.
func (n *InteriorNode) LocateChild(searchKey int32) PageID {
	return n.children[n.upperBound(searchKey)]
}

// Insert adds key with child as its right neighbour, at the key's sorted
// position. It fails with errNodeFull when the node is at capacity.
func (n *InteriorNode) Insert(key int32, child PageID) error {
	return n.InsertAt(n.upperBound(key), key, child)
}

// InsertAt places key at key index slot and child at child index slot+1,
// right after children[slot]. The separator from a split of children[slot]
// belongs here even when an equal key sorts elsewhere.
func (n *InteriorNode) InsertAt(slot int, key int32, child PageID) error {
	if err := n.checkSlot(slot); err != nil {
		return err
	}
	if len(n.keys) >= n.capacity {
		return errNodeFull
	}
	n.insertAt(slot, key, child)
	return nil
}

func (n *InteriorNode) checkSlot(slot int) error {
	if slot < 0 || slot > len(n.keys) {
		return errors.Errorf("bplus: child slot %d outside [0, %d]", slot, len(n.keys))
	}
	return nil
}

func (n *InteriorNode) insertAt(slot int, key int32, child PageID) {
	n.keys = append(n.keys, 0)
	copy(n.keys[slot+1:], n.keys[slot:])
	n.keys[slot] = key

	n.children = append(n.children, 0)
	copy(n.children[slot+2:], n.children[slot+1:])
	n.children[slot+1] = child
}

// InsertAndSplit inserts (key, child) into a conceptual array one larger than
// the node. The node keeps the first ceil(total/2) keys and their children;
// the key after them is the mid-key. The sibling receives the remaining keys,
// and its leading child is the child paired with the mid-key.
//
// Unlike a leaf split, the mid-key is removed from both nodes and only
// returned for the parent.
func (n *InteriorNode) InsertAndSplit(key int32, child PageID, sibling *InteriorNode) (int32, error) {
	return n.InsertAndSplitAt(n.upperBound(key), key, child, sibling)
}

// InsertAndSplitAt is InsertAndSplit with the pair placed next to
// children[slot], as InsertAt does.
func (n *InteriorNode) InsertAndSplitAt(slot int, key int32, child PageID, sibling *InteriorNode) (int32, error) {
	if sibling.KeyCount() != 0 {
		return 0, errors.Errorf("bplus: interior split into non-empty sibling (%d keys)", sibling.KeyCount())
	}
	if len(n.keys) < 2 {
		return 0, errors.Errorf("bplus: interior split needs at least 2 keys, have %d", len(n.keys))
	}
	if err := n.checkSlot(slot); err != nil {
		return 0, err
	}

	n.insertAt(slot, key, child)
	total := len(n.keys)
	left := (total + 1) / 2
	mid := n.keys[left]

	sibling.keys = append(sibling.keys[:0], n.keys[left+1:]...)
	sibling.children = append(sibling.children[:0], n.children[left+1:]...)
	n.keys = n.keys[:left]
	n.children = n.children[:left+1]
	return mid, nil
}

// InitializeRoot turns the node into a fresh root with one key and two
// children.
func (n *InteriorNode) InitializeRoot(left PageID, key int32, right PageID) {
	n.keys = append(n.keys[:0], key)
	n.children = append(n.children[:0], left, right)
}

// Key returns key i.
func (n *InteriorNode) Key(i int) int32 { return n.keys[i] }

// Child returns child pointer i, 0 <= i <= KeyCount().
func (n *InteriorNode) Child(i int) PageID { return n.children[i] }
