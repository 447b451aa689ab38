// Package pagefile provides fixed-size, page-addressed storage.
//
// A page file is a sequence of pages of one fixed size. Pages are addressed by
// a non-negative PageID; the next page to be written past the end of the file
// is EndPageID(), which is also the allocation point for new pages. Pages are
// never freed.
package pagefile

import (
	"github.com/pkg/errors"
)

// PageID addresses a page inside a page file. InvalidPageID means "no page".
type PageID int32

const (
	InvalidPageID PageID = -1

	DefaultPageSize = 1024 // in bytes
	MinPageSize     = 64
)

// Mode selects how a page file is opened.
type Mode byte

const (
	ModeRead  Mode = 'r'
	ModeWrite Mode = 'w'
)

var (
	ErrFileOpenFailed  = errors.New("pagefile: open failed")
	ErrFileReadFailed  = errors.New("pagefile: read failed")
	ErrFileWriteFailed = errors.New("pagefile: write failed")
	ErrFileCloseFailed = errors.New("pagefile: close failed")
	ErrInvalidPageSize = errors.New("pagefile: invalid page size")
	ErrInvalidMode     = errors.New("pagefile: invalid open mode")
)

// Pager is the page-level persistence contract consumed by the index and the
// record file.
type Pager interface {
	PageSize() int
	ReadPage(pageID PageID) ([]byte, error)
	WritePage(pageID PageID, data []byte) error
	// EndPageID is the number of pages currently stored; writing this id
	// appends a page.
	EndPageID() PageID
	Sync() error
	Close() error
}

// ParseMode converts 'r' / 'w' into a Mode.
func ParseMode(c byte) (Mode, error) {
	switch c {
	case 'r', 'R':
		return ModeRead, nil
	case 'w', 'W':
		return ModeWrite, nil
	}
	return 0, errors.Wrapf(ErrInvalidMode, "mode %q", c)
}

func (m Mode) Writable() bool { return m == ModeWrite }

func (m Mode) String() string {
	switch m {
	case ModeRead:
		return "r"
	case ModeWrite:
		return "w"
	}
	return "?"
}

// Option customizes Open and NewMemory.
type Option func(*options)

type options struct {
	pageSize int
}

// WithPageSize overrides DefaultPageSize.
func WithPageSize(size int) Option {
	return func(o *options) { o.pageSize = size }
}

func buildOptions(opts []Option) (options, error) {
	o := options{pageSize: DefaultPageSize}
	for _, opt := range opts {
		opt(&o)
	}
	if err := ValidatePageSize(o.pageSize); err != nil {
		return o, err
	}
	return o, nil
}

// ValidatePageSize reports whether size can hold the fixed page layouts.
func ValidatePageSize(size int) error {
	if size < MinPageSize || size%4 != 0 {
		return errors.Wrapf(ErrInvalidPageSize, "%d (min %d, multiple of 4)", size, MinPageSize)
	}
	return nil
}

// checkWrite validates an incoming write against the current end of the file.
func checkWrite(pageID, end PageID, pageSize int, data []byte) error {
	if len(data) != pageSize {
		return errors.Wrapf(ErrFileWriteFailed, "data size %d does not match page size %d", len(data), pageSize)
	}
	if pageID < 0 || pageID > end {
		return errors.Wrapf(ErrFileWriteFailed, "page %d out of range (end %d)", pageID, end)
	}
	return nil
}
