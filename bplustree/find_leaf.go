package bplus

// Locate descends to the leaf where searchKey belongs. The cursor points at
// the first entry >= searchKey in that leaf (possibly one past its last
// entry); found reports an exact match. An empty tree answers not found
// without touching storage.
func (t *Index) Locate(searchKey int32) (Cursor, bool, error) {
	if t.pager == nil {
		return EndCursor, false, ErrClosed
	}
	if t.root == InvalidPageID {
		return EndCursor, false, nil
	}

	pid, err := t.findLeaf(searchKey)
	if err != nil {
		return EndCursor, false, err
	}
	leaf, err := t.readLeaf(pid)
	if err != nil {
		return EndCursor, false, err
	}
	idx, found := leaf.Locate(searchKey)
	return Cursor{PageID: pid, EntryIndex: idx}, found, nil
}

// findLeaf walks height-1 interior levels from the root.
func (t *Index) findLeaf(key int32) (PageID, error) {
	pid := t.root
	for level := int32(1); level < t.height; level++ {
		node, err := t.readInterior(pid)
		if err != nil {
			return InvalidPageID, err
		}
		pid = node.LocateChild(key)
	}
	return pid, nil
}
