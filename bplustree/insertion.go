package bplus

import (
	"github.com/pkg/errors"
)

type insertStatus int

const (
	inserted insertStatus = iota
	overflowed
)

// insertResult is what one level of subInsert reports to its parent. On
// overflowed, separator and sibling must be inserted into the parent.
// Failures travel as the error return next to it.
type insertResult struct {
	status    insertStatus
	separator int32
	sibling   PageID
}

// Insert adds (key, loc) to the index, splitting nodes on the way back up and
// growing a new root when the old one overflows. A storage failure partway
// through a split can leave the file inconsistent; nothing is rolled back.
func (t *Index) Insert(key int32, loc Locator) error {
	if t.pager == nil {
		return ErrClosed
	}
	if !t.writable {
		return ErrReadOnly
	}

	if t.root == InvalidPageID {
		leaf := NewLeafNode(t.pager.PageSize())
		if err := leaf.Insert(key, loc); err != nil {
			return err
		}
		pid, err := t.appendNode(leaf)
		if err != nil {
			return err
		}
		t.root = pid
		t.height = 1
		return t.writeMeta()
	}

	res, err := t.subInsert(t.root, key, loc, 1)
	if err != nil {
		return err
	}
	if res.status == inserted {
		return nil
	}

	root := NewInteriorNode(t.pager.PageSize())
	root.InitializeRoot(t.root, res.separator, res.sibling)
	pid, err := t.appendNode(root)
	if err != nil {
		return errors.Wrap(err, "grow root")
	}
	t.root = pid
	t.height++
	return t.writeMeta()
}

// subInsert inserts into the subtree rooted at pid, which sits at level
// (1 = root, height = leaves).
func (t *Index) subInsert(pid PageID, key int32, loc Locator, level int32) (insertResult, error) {
	if level == t.height {
		return t.insertIntoLeaf(pid, key, loc)
	}

	node, err := t.readInterior(pid)
	if err != nil {
		return insertResult{}, err
	}
	slot := node.upperBound(key)
	res, err := t.subInsert(node.Child(slot), key, loc, level+1)
	if err != nil || res.status == inserted {
		return res, err
	}
	return t.insertIntoInterior(pid, node, slot, res.separator, res.sibling)
}

func (t *Index) insertIntoLeaf(pid PageID, key int32, loc Locator) (insertResult, error) {
	leaf, err := t.readLeaf(pid)
	if err != nil {
		return insertResult{}, err
	}

	err = leaf.Insert(key, loc)
	if err == nil {
		return insertResult{status: inserted}, t.writeNode(pid, leaf)
	}
	if !errors.Is(err, errNodeFull) {
		return insertResult{}, err
	}

	sibling := NewLeafNode(t.pager.PageSize())
	separator, err := leaf.InsertAndSplit(key, loc, sibling)
	if err != nil {
		return insertResult{}, err
	}
	siblingID, err := t.appendNode(sibling)
	if err != nil {
		return insertResult{}, err
	}
	leaf.SetNextSibling(siblingID)
	if err := t.writeNode(pid, leaf); err != nil {
		return insertResult{}, err
	}
	return insertResult{status: overflowed, separator: separator, sibling: siblingID}, nil
}

// insertIntoInterior places a separator coming up from the split of
// children[slot] into the already decoded node at pid, right after that
// child, splitting the node in turn when it is full.
func (t *Index) insertIntoInterior(pid PageID, node *InteriorNode, slot int, key int32, child PageID) (insertResult, error) {
	err := node.InsertAt(slot, key, child)
	if err == nil {
		return insertResult{status: inserted}, t.writeNode(pid, node)
	}
	if !errors.Is(err, errNodeFull) {
		return insertResult{}, err
	}

	sibling := NewInteriorNode(t.pager.PageSize())
	midKey, err := node.InsertAndSplitAt(slot, key, child, sibling)
	if err != nil {
		return insertResult{}, err
	}
	if err := t.writeNode(pid, node); err != nil {
		return insertResult{}, err
	}
	siblingID, err := t.appendNode(sibling)
	if err != nil {
		return insertResult{}, err
	}
	return insertResult{status: overflowed, separator: midKey, sibling: siblingID}, nil
}
