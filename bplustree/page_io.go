package bplus

import (
	"github.com/pkg/errors"
)

func (t *Index) readPage(pid PageID) ([]byte, error) {
	if t.pager == nil {
		return nil, ErrClosed
	}
	if pid == metaPageID || pid == InvalidPageID {
		return nil, errors.Wrapf(ErrCorruptPage, "node pointer to page %d", pid)
	}
	page, err := t.pager.ReadPage(pid)
	if err != nil {
		return nil, errors.Wrapf(err, "read node page %d", pid)
	}
	return page, nil
}

func (t *Index) readLeaf(pid PageID) (*LeafNode, error) {
	page, err := t.readPage(pid)
	if err != nil {
		return nil, err
	}
	node, err := DecodeLeaf(page)
	if err != nil {
		return nil, errors.Wrapf(err, "page %d", pid)
	}
	return node, nil
}

func (t *Index) readInterior(pid PageID) (*InteriorNode, error) {
	page, err := t.readPage(pid)
	if err != nil {
		return nil, err
	}
	node, err := DecodeInterior(page)
	if err != nil {
		return nil, errors.Wrapf(err, "page %d", pid)
	}
	return node, nil
}

// node is implemented by *LeafNode and *InteriorNode.
type node interface {
	Encode(pageSize int) ([]byte, error)
}

func (t *Index) writeNode(pid PageID, n node) error {
	if t.pager == nil {
		return ErrClosed
	}
	page, err := n.Encode(t.pager.PageSize())
	if err != nil {
		return errors.Wrapf(err, "encode page %d", pid)
	}
	if err := t.pager.WritePage(pid, page); err != nil {
		return errors.Wrapf(err, "write node page %d", pid)
	}
	return nil
}

// appendNode writes n at the pager's append point and returns its new id.
func (t *Index) appendNode(n node) (PageID, error) {
	if t.pager == nil {
		return InvalidPageID, ErrClosed
	}
	pid := t.pager.EndPageID()
	if err := t.writeNode(pid, n); err != nil {
		return InvalidPageID, err
	}
	return pid, nil
}
