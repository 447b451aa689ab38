// Package recordfile stores (key, value) tuples in fixed-size slots of a page
// file. Records are append-only and addressed by RecordID.
package recordfile

import (
	"encoding/binary"
	"sync"

	"IndexDB/pagefile"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/pkg/errors"
)

// ############################################# ---- PAGE ----- #############################################
// Record page layout:
//   - [0:4)  number of used slots, int32
//   - slots of SlotSize bytes from offset 4
//
// Slot layout:
//   - [0:4)       key, int32
//   - [4:6)       value length, uint16
//   - [6:106)     value bytes, zero padded
//   - [106:114)   xxhash64 of bytes [0 : 6+length)
const (
	MaxValueLen = 100

	pageHeaderSize = 4
	slotKeyOffset  = 0
	slotLenOffset  = 4
	slotValOffset  = 6
	slotSumOffset  = slotValOffset + MaxValueLen
	SlotSize       = slotSumOffset + 8

	DefaultCacheSize = 1 << 20 // bytes of decoded records kept in memory
)

var (
	ErrNoSuchRecord  = errors.New("recordfile: no such record")
	ErrCorruptRecord = errors.New("recordfile: record checksum mismatch")
	ErrValueTooLong  = errors.New("recordfile: value too long")
	ErrReadOnly      = errors.New("recordfile: opened read-only")
	ErrClosed        = errors.New("recordfile: closed")
)

// RecordID points to a specific record in a record file.
type RecordID struct {
	PageID pagefile.PageID
	SlotID int32
}

// Encode packs the id into 8 bytes: page id then slot id, little-endian.
func (rid RecordID) Encode() [8]byte {
	var b [8]byte
	binary.LittleEndian.PutUint32(b[0:4], uint32(rid.PageID))
	binary.LittleEndian.PutUint32(b[4:8], uint32(rid.SlotID))
	return b
}

// DecodeRecordID is the inverse of Encode.
func DecodeRecordID(b [8]byte) RecordID {
	return RecordID{
		PageID: pagefile.PageID(binary.LittleEndian.Uint32(b[0:4])),
		SlotID: int32(binary.LittleEndian.Uint32(b[4:8])),
	}
}

// Less orders record ids by position in the file.
func (rid RecordID) Less(other RecordID) bool {
	if rid.PageID != other.PageID {
		return rid.PageID < other.PageID
	}
	return rid.SlotID < other.SlotID
}

func (rid RecordID) cacheKey() uint64 {
	return uint64(uint32(rid.PageID))<<32 | uint64(uint32(rid.SlotID))
}

// Record is one stored tuple.
type Record struct {
	Key   int32
	Value string
}

// RecordFile is an append-only table file.
type RecordFile struct {
	pager        pagefile.Pager
	writable     bool
	slotsPerPage int32
	end          RecordID // where the next Append goes

	cache *ristretto.Cache[uint64, Record] // nil when disabled
	mu    sync.RWMutex
}
