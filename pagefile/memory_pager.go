package pagefile

import (
	"sync"

	"github.com/pkg/errors"
)

// Memory is an in-memory Pager with the same append and bounds rules as File.
type Memory struct {
	pages    [][]byte
	pageSize int
	mu       sync.RWMutex
	closed   bool
}

func NewMemory(opts ...Option) (*Memory, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Memory{pageSize: o.pageSize}, nil
}

func (p *Memory) PageSize() int { return p.pageSize }

func (p *Memory) ReadPage(pageID PageID) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil, errors.Wrap(ErrFileReadFailed, "pager is closed")
	}
	if pageID < 0 || int(pageID) >= len(p.pages) {
		return nil, errors.Wrapf(ErrFileReadFailed, "page %d out of range (end %d)", pageID, len(p.pages))
	}

	// return a copy so callers cannot modify stored pages without WritePage
	out := make([]byte, p.pageSize)
	copy(out, p.pages[pageID])
	return out, nil
}

func (p *Memory) WritePage(pageID PageID, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return errors.Wrap(ErrFileWriteFailed, "pager is closed")
	}
	if err := checkWrite(pageID, PageID(len(p.pages)), p.pageSize, data); err != nil {
		return err
	}

	dest := make([]byte, p.pageSize)
	copy(dest, data)
	if int(pageID) == len(p.pages) {
		p.pages = append(p.pages, dest)
	} else {
		p.pages[pageID] = dest
	}
	return nil
}

func (p *Memory) EndPageID() PageID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return PageID(len(p.pages))
}

func (p *Memory) Sync() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return errors.Wrap(ErrFileWriteFailed, "pager is closed")
	}
	return nil
}

func (p *Memory) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	// drop the pages so use-after-close fails loudly
	p.pages = nil
	p.closed = true
	return nil
}
