package bplus

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Meta page (page 0) layout:
//   - [0:4)  height, int32
//   - [4:8)  root page id, int32
//   - [8:12) page size the file was written with, int32
//   - remainder unused (zero)
//
// All integers are little-endian.
const (
	metaPageID       PageID = 0
	metaHeightOffset        = 0
	metaRootOffset          = metaHeightOffset + 4
	metaPageSizeOffset      = metaRootOffset + 4
)

func getInt32(page []byte, offset int) int32 {
	return int32(binary.LittleEndian.Uint32(page[offset : offset+4]))
}

func putInt32(page []byte, offset int, v int32) {
	binary.LittleEndian.PutUint32(page[offset:offset+4], uint32(v))
}

func encodeMeta(pageSize int, height int32, root PageID) []byte {
	page := make([]byte, pageSize)
	putInt32(page, metaHeightOffset, height)
	putInt32(page, metaRootOffset, int32(root))
	putInt32(page, metaPageSizeOffset, int32(pageSize))
	return page
}

func decodeMeta(page []byte) (height int32, root PageID, err error) {
	if len(page) < metaPageSizeOffset+4 {
		return 0, InvalidPageID, errors.Wrapf(ErrCorruptPage, "meta page too short: %d bytes", len(page))
	}
	if written := getInt32(page, metaPageSizeOffset); int(written) != len(page) {
		return 0, InvalidPageID, errors.Wrapf(ErrCorruptPage, "index written with %d byte pages, opened with %d", written, len(page))
	}
	height = getInt32(page, metaHeightOffset)
	root = PageID(getInt32(page, metaRootOffset))

	if height < 0 || (height == 0) != (root == InvalidPageID) || root < InvalidPageID || root == metaPageID {
		return 0, InvalidPageID, errors.Wrapf(ErrCorruptPage, "meta page: height %d root %d", height, root)
	}
	return height, root, nil
}

// readCount reads the entry/key count stored in the first four bytes of a
// node page and checks it against the node's capacity.
func readCount(page []byte, capacity int) (int, error) {
	if len(page) < countSize {
		return 0, errors.Wrapf(ErrCorruptPage, "page too short: %d bytes", len(page))
	}
	n := int(getInt32(page, 0))
	if n < 0 || n > capacity {
		return 0, errors.Wrapf(ErrCorruptPage, "count %d outside [0, %d]", n, capacity)
	}
	return n, nil
}
