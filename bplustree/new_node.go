package bplus

// NewLeafNode returns an empty leaf sized for pages of pageSize bytes, with no
// sibling.
func NewLeafNode(pageSize int) *LeafNode {
	capacity := LeafCapacity(pageSize)
	return &LeafNode{
		capacity: capacity,
		entries:  make([]leafEntry, 0, capacity+1),
		next:     InvalidPageID,
	}
}

// NewInteriorNode returns an empty interior node sized for pages of pageSize
// bytes. It has no children until InitializeRoot, a decode or a split fills it.
func NewInteriorNode(pageSize int) *InteriorNode {
	capacity := InteriorCapacity(pageSize)
	return &InteriorNode{
		capacity: capacity,
		keys:     make([]int32, 0, capacity+1),
		children: make([]PageID, 0, capacity+2),
	}
}
