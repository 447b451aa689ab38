package bplus

import (
	"IndexDB/pagefile"

	"github.com/pkg/errors"
)

// Open opens (or, in write mode, creates) the index file at path.
func Open(path string, mode pagefile.Mode, opts ...pagefile.Option) (*Index, error) {
	pager, err := pagefile.Open(path, mode, opts...)
	if err != nil {
		return nil, err
	}
	t, err := OpenPager(pager, mode.Writable())
	if err != nil {
		pager.Close()
		return nil, err
	}
	return t, nil
}

// OpenPager builds an index on top of an already open pager. A pager with no
// pages gets a fresh meta page when writable, and is treated as an empty tree
// otherwise.
func OpenPager(p pagefile.Pager, writable bool) (*Index, error) {
	pageSize := p.PageSize()
	if err := pagefile.ValidatePageSize(pageSize); err != nil {
		return nil, err
	}

	t := &Index{
		pager:       p,
		writable:    writable,
		height:      0,
		root:        InvalidPageID,
		leafCap:     LeafCapacity(pageSize),
		interiorCap: InteriorCapacity(pageSize),
	}

	if p.EndPageID() == 0 {
		if writable {
			if err := t.writeMeta(); err != nil {
				return nil, err
			}
		}
		return t, nil
	}

	page, err := p.ReadPage(metaPageID)
	if err != nil {
		return nil, errors.Wrap(err, "read meta page")
	}
	t.height, t.root, err = decodeMeta(page)
	if err != nil {
		return nil, err
	}
	if t.root >= p.EndPageID() {
		return nil, errors.Wrapf(ErrCorruptPage, "root page %d beyond end of file (%d pages)", t.root, p.EndPageID())
	}
	return t, nil
}

// Close persists the meta page (write mode) and closes the pager.
func (t *Index) Close() error {
	if t.pager == nil {
		return nil
	}
	var metaErr error
	if t.writable {
		metaErr = t.writeMeta()
	}
	err := t.pager.Close()
	t.pager = nil
	if metaErr != nil {
		return metaErr
	}
	return err
}

// Sync writes the meta page and flushes the pager.
func (t *Index) Sync() error {
	if !t.writable {
		return nil
	}
	if err := t.writeMeta(); err != nil {
		return err
	}
	return t.pager.Sync()
}

func (t *Index) writeMeta() error {
	page := encodeMeta(t.pager.PageSize(), t.height, t.root)
	if err := t.pager.WritePage(metaPageID, page); err != nil {
		return errors.Wrap(err, "write meta page")
	}
	return nil
}

func (t *Index) Height() int { return int(t.height) }

func (t *Index) RootPageID() PageID { return t.root }

func (t *Index) LeafCapacity() int { return t.leafCap }

func (t *Index) InteriorCapacity() int { return t.interiorCap }

func (t *Index) Writable() bool { return t.writable }
