package recordfile

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

func slotOffset(slot int32) int {
	return pageHeaderSize + int(slot)*SlotSize
}

func slotsPerPage(pageSize int) int32 {
	return int32((pageSize - pageHeaderSize) / SlotSize)
}

func readSlotCount(page []byte) int32 {
	return int32(binary.LittleEndian.Uint32(page[0:4]))
}

func writeSlotCount(page []byte, n int32) {
	binary.LittleEndian.PutUint32(page[0:4], uint32(n))
}

// writeSlot stores (key, value) in slot and stamps its checksum.
func writeSlot(page []byte, slot int32, key int32, value string) {
	off := slotOffset(slot)
	s := page[off : off+SlotSize]
	for i := range s {
		s[i] = 0
	}
	binary.LittleEndian.PutUint32(s[slotKeyOffset:], uint32(key))
	binary.LittleEndian.PutUint16(s[slotLenOffset:], uint16(len(value)))
	copy(s[slotValOffset:slotSumOffset], value)
	binary.LittleEndian.PutUint64(s[slotSumOffset:], xxhash.Sum64(s[:slotValOffset+len(value)]))
}

// readSlot decodes slot and verifies its checksum.
func readSlot(page []byte, slot int32) (Record, error) {
	off := slotOffset(slot)
	s := page[off : off+SlotSize]

	n := int(binary.LittleEndian.Uint16(s[slotLenOffset:]))
	if n > MaxValueLen {
		return Record{}, errors.Wrapf(ErrCorruptRecord, "slot %d: value length %d", slot, n)
	}
	want := binary.LittleEndian.Uint64(s[slotSumOffset:])
	if got := xxhash.Sum64(s[:slotValOffset+n]); got != want {
		return Record{}, errors.Wrapf(ErrCorruptRecord, "slot %d: checksum %016x, stored %016x", slot, got, want)
	}
	return Record{
		Key:   int32(binary.LittleEndian.Uint32(s[slotKeyOffset:])),
		Value: string(s[slotValOffset : slotValOffset+n]),
	}, nil
}
