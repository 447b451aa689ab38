package pagefile

import (
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
)

// File is a Pager backed by a single file on disk. Page n lives at byte
// offset n*pageSize.
type File struct {
	file     *os.File
	filePath string
	mode     Mode
	pageSize int
	endPage  PageID
	mu       sync.RWMutex
}

// Open opens the page file at path. In write mode the file is created when
// missing; in read mode a missing file is an error.
func Open(path string, mode Mode, opts ...Option) (*File, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	flags := os.O_RDONLY
	switch mode {
	case ModeRead:
	case ModeWrite:
		flags = os.O_RDWR | os.O_CREATE
	default:
		return nil, errors.Wrapf(ErrInvalidMode, "mode %q", byte(mode))
	}

	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, errors.Wrapf(ErrFileOpenFailed, "%s: %v", path, err)
	}

	if err := lockFile(file, mode.Writable()); err != nil {
		file.Close()
		return nil, errors.Wrapf(ErrFileOpenFailed, "lock %s: %v", path, err)
	}

	stat, err := file.Stat()
	if err != nil {
		unlockFile(file)
		file.Close()
		return nil, errors.Wrapf(ErrFileOpenFailed, "stat %s: %v", path, err)
	}

	// a trailing partial page is ignored and overwritten by the next append
	return &File{
		file:     file,
		filePath: path,
		mode:     mode,
		pageSize: o.pageSize,
		endPage:  PageID(stat.Size() / int64(o.pageSize)),
	}, nil
}

func (p *File) PageSize() int { return p.pageSize }

func (p *File) Path() string { return p.filePath }

func (p *File) Mode() Mode { return p.mode }

// ReadPage reads one page from disk.
func (p *File) ReadPage(pageID PageID) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.file == nil {
		return nil, errors.Wrap(ErrFileReadFailed, "pager file is closed")
	}
	if pageID < 0 || pageID >= p.endPage {
		return nil, errors.Wrapf(ErrFileReadFailed, "page %d out of range (end %d)", pageID, p.endPage)
	}

	page := make([]byte, p.pageSize)
	offset := int64(pageID) * int64(p.pageSize)
	if _, err := p.file.ReadAt(page, offset); err != nil && err != io.EOF {
		return nil, errors.Wrapf(ErrFileReadFailed, "page %d: %v", pageID, err)
	}
	return page, nil
}

// WritePage writes one page. Writing EndPageID() appends a page.
func (p *File) WritePage(pageID PageID, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.file == nil {
		return errors.Wrap(ErrFileWriteFailed, "pager file is closed")
	}
	if !p.mode.Writable() {
		return errors.Wrapf(ErrFileWriteFailed, "%s opened read-only", p.filePath)
	}
	if err := checkWrite(pageID, p.endPage, p.pageSize, data); err != nil {
		return err
	}

	offset := int64(pageID) * int64(p.pageSize)
	if _, err := p.file.WriteAt(data, offset); err != nil {
		return errors.Wrapf(ErrFileWriteFailed, "page %d: %v", pageID, err)
	}
	if pageID == p.endPage {
		p.endPage++
	}
	return nil
}

// EndPageID returns the id the next appended page will get.
func (p *File) EndPageID() PageID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.endPage
}

// Sync flushes written pages to stable storage.
func (p *File) Sync() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.file == nil {
		return errors.Wrap(ErrFileWriteFailed, "pager file is closed")
	}
	if !p.mode.Writable() {
		return nil
	}
	if err := syncFile(p.file); err != nil {
		return errors.Wrapf(ErrFileWriteFailed, "sync %s: %v", p.filePath, err)
	}
	return nil
}

// Close syncs (write mode), unlocks and closes the file. Closing twice is a
// no-op.
func (p *File) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.file == nil {
		return nil
	}

	var syncErr error
	if p.mode.Writable() {
		syncErr = syncFile(p.file)
	}
	unlockFile(p.file)
	err := p.file.Close()
	p.file = nil
	if syncErr != nil {
		return errors.Wrapf(ErrFileCloseFailed, "sync before close: %v", syncErr)
	}
	if err != nil {
		return errors.Wrapf(ErrFileCloseFailed, "%s: %v", p.filePath, err)
	}
	return nil
}
