package recordfile

import (
	"IndexDB/pagefile"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/pkg/errors"
)

// Option customizes Open.
type Option func(*config)

type config struct {
	pageOpts  []pagefile.Option
	cacheSize int64
}

// WithPageSize sets the page size of the underlying page file.
func WithPageSize(size int) Option {
	return func(c *config) { c.pageOpts = append(c.pageOpts, pagefile.WithPageSize(size)) }
}

// WithCacheSize bounds the read cache, in bytes. Zero disables it.
func WithCacheSize(bytes int64) Option {
	return func(c *config) { c.cacheSize = bytes }
}

// Open opens (or, in write mode, creates) the record file at path.
func Open(path string, mode pagefile.Mode, opts ...Option) (*RecordFile, error) {
	cfg := config{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	pager, err := pagefile.Open(path, mode, cfg.pageOpts...)
	if err != nil {
		return nil, err
	}
	rf, err := newRecordFile(pager, mode.Writable(), cfg.cacheSize)
	if err != nil {
		pager.Close()
		return nil, err
	}
	return rf, nil
}

// OpenPager builds a record file on an already open pager.
func OpenPager(pager pagefile.Pager, writable bool, opts ...Option) (*RecordFile, error) {
	cfg := config{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	return newRecordFile(pager, writable, cfg.cacheSize)
}

func newRecordFile(pager pagefile.Pager, writable bool, cacheSize int64) (*RecordFile, error) {
	perPage := slotsPerPage(pager.PageSize())
	if perPage < 1 {
		return nil, errors.Wrapf(pagefile.ErrInvalidPageSize, "page of %d bytes cannot hold a %d byte record slot", pager.PageSize(), SlotSize)
	}

	rf := &RecordFile{
		pager:        pager,
		writable:     writable,
		slotsPerPage: perPage,
	}
	if err := rf.findEnd(); err != nil {
		return nil, err
	}

	if cacheSize > 0 {
		counters := 10 * (cacheSize / SlotSize) // ~10x the number of records that fit
		if counters < 100 {
			counters = 100
		}
		cache, err := ristretto.NewCache(&ristretto.Config[uint64, Record]{
			NumCounters: counters,
			MaxCost:     cacheSize,
			BufferItems: 64,
		})
		if err != nil {
			return nil, errors.Wrap(err, "record cache")
		}
		rf.cache = cache
	}
	return rf, nil
}

// findEnd positions the append point after the last used slot.
func (rf *RecordFile) findEnd() error {
	last := rf.pager.EndPageID() - 1
	if last < 0 {
		rf.end = RecordID{PageID: 0, SlotID: 0}
		return nil
	}
	page, err := rf.pager.ReadPage(last)
	if err != nil {
		return errors.Wrap(err, "read last record page")
	}
	n := readSlotCount(page)
	if n < 0 || n > rf.slotsPerPage {
		return errors.Wrapf(ErrCorruptRecord, "page %d: slot count %d", last, n)
	}
	if n == rf.slotsPerPage {
		rf.end = RecordID{PageID: last + 1, SlotID: 0}
	} else {
		rf.end = RecordID{PageID: last, SlotID: n}
	}
	return nil
}

// Append stores (key, value) after the last record and returns its id.
func (rf *RecordFile) Append(key int32, value string) (RecordID, error) {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	if rf.pager == nil {
		return RecordID{}, ErrClosed
	}
	if !rf.writable {
		return RecordID{}, ErrReadOnly
	}
	if len(value) > MaxValueLen {
		return RecordID{}, errors.Wrapf(ErrValueTooLong, "%d bytes (max: %d)", len(value), MaxValueLen)
	}

	rid := rf.end
	var page []byte
	if rid.SlotID == 0 {
		page = make([]byte, rf.pager.PageSize())
	} else {
		var err error
		if page, err = rf.pager.ReadPage(rid.PageID); err != nil {
			return RecordID{}, errors.Wrapf(err, "append to page %d", rid.PageID)
		}
	}

	writeSlot(page, rid.SlotID, key, value)
	writeSlotCount(page, rid.SlotID+1)
	if err := rf.pager.WritePage(rid.PageID, page); err != nil {
		return RecordID{}, errors.Wrapf(err, "append to page %d", rid.PageID)
	}

	rf.end.SlotID++
	if rf.end.SlotID == rf.slotsPerPage {
		rf.end = RecordID{PageID: rid.PageID + 1, SlotID: 0}
	}
	return rid, nil
}

// Read returns the record stored at rid.
func (rf *RecordFile) Read(rid RecordID) (int32, string, error) {
	rf.mu.RLock()
	defer rf.mu.RUnlock()

	if rf.pager == nil {
		return 0, "", ErrClosed
	}
	if rid.PageID < 0 || rid.SlotID < 0 || rid.SlotID >= rf.slotsPerPage || !rid.Less(rf.end) {
		return 0, "", errors.Wrapf(ErrNoSuchRecord, "record (%d, %d)", rid.PageID, rid.SlotID)
	}
	if rf.cache != nil {
		if rec, ok := rf.cache.Get(rid.cacheKey()); ok {
			return rec.Key, rec.Value, nil
		}
	}

	page, err := rf.pager.ReadPage(rid.PageID)
	if err != nil {
		return 0, "", errors.Wrapf(err, "read record (%d, %d)", rid.PageID, rid.SlotID)
	}
	rec, err := readSlot(page, rid.SlotID)
	if err != nil {
		return 0, "", errors.Wrapf(err, "page %d", rid.PageID)
	}
	if rf.cache != nil {
		// records never change after Append, so cached entries stay valid
		rf.cache.Set(rid.cacheKey(), rec, int64(SlotSize))
	}
	return rec.Key, rec.Value, nil
}

// Scan calls fn for every record in file order, reading each page once.
// A non-nil error from fn stops the scan and is returned.
func (rf *RecordFile) Scan(fn func(rid RecordID, key int32, value string) error) error {
	rf.mu.RLock()
	end, pager := rf.end, rf.pager
	rf.mu.RUnlock()
	if pager == nil {
		return ErrClosed
	}

	for pid := pagefile.PageID(0); pid <= end.PageID; pid++ {
		slots := rf.slotsPerPage
		if pid == end.PageID {
			slots = end.SlotID
		}
		if slots == 0 {
			continue
		}
		page, err := pager.ReadPage(pid)
		if err != nil {
			return errors.Wrapf(err, "scan page %d", pid)
		}
		for slot := int32(0); slot < slots; slot++ {
			rec, err := readSlot(page, slot)
			if err != nil {
				return errors.Wrapf(err, "page %d", pid)
			}
			if err := fn(RecordID{PageID: pid, SlotID: slot}, rec.Key, rec.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

// EndRID returns the id the next Append will use.
func (rf *RecordFile) EndRID() RecordID {
	rf.mu.RLock()
	defer rf.mu.RUnlock()
	return rf.end
}

// Close releases the cache and closes the page file.
func (rf *RecordFile) Close() error {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	if rf.cache != nil {
		rf.cache.Close()
		rf.cache = nil
	}
	if rf.pager == nil {
		return nil
	}
	err := rf.pager.Close()
	rf.pager = nil
	return err
}
