package gpt

import (
	"encoding/binary"

	"github.com/Microsoft/go-winio/pkg/guid"
)

// Header is the 92-byte-used, 512-byte-padded on-disk GPT header. Field
// order and sizes match the UEFI specification bit-for-bit.
type Header struct {
	Signature       [8]byte
	Revision        uint32
	Size            uint32
	HeaderCRC32     uint32
	ReservedZero    uint32
	MyLBA           uint64
	AlternateLBA    uint64
	FirstUsableLBA  uint64
	LastUsableLBA   uint64
	DiskUUID        guid.GUID
	EntriesLBA      uint64
	NumberOfEntries uint32
	SizeOfEntry     uint32
	EntriesCRC32    uint32
	// Padding is not modeled as a struct field: callers only ever see the
	// first 92 bytes decoded here, and checkHeader never inspects padding.
}

// decodeHeader reads a Header out of a SectorBytes-sized buffer. buf must be
// at least MinSizeOfHeader bytes.
func decodeHeader(buf []byte) Header {
	var h Header
	// binary.Read cannot decode guid.GUID directly with its mixed-endian
	// layout without its own (De)Marshal support, so decode field-by-field.
	copy(h.Signature[:], buf[0:8])
	h.Revision = binary.LittleEndian.Uint32(buf[8:12])
	h.Size = binary.LittleEndian.Uint32(buf[12:16])
	h.HeaderCRC32 = binary.LittleEndian.Uint32(buf[16:20])
	h.ReservedZero = binary.LittleEndian.Uint32(buf[20:24])
	h.MyLBA = binary.LittleEndian.Uint64(buf[24:32])
	h.AlternateLBA = binary.LittleEndian.Uint64(buf[32:40])
	h.FirstUsableLBA = binary.LittleEndian.Uint64(buf[40:48])
	h.LastUsableLBA = binary.LittleEndian.Uint64(buf[48:56])
	h.DiskUUID = decodeGUID(buf[56:72])
	h.EntriesLBA = binary.LittleEndian.Uint64(buf[72:80])
	h.NumberOfEntries = binary.LittleEndian.Uint32(buf[80:84])
	h.SizeOfEntry = binary.LittleEndian.Uint32(buf[84:88])
	h.EntriesCRC32 = binary.LittleEndian.Uint32(buf[88:92])
	return h
}

// encodeHeader writes h's first 92 bytes into buf, leaving any trailing
// padding in buf untouched (the caller is expected to have zeroed it once).
func encodeHeader(buf []byte, h Header) {
	copy(buf[0:8], h.Signature[:])
	binary.LittleEndian.PutUint32(buf[8:12], h.Revision)
	binary.LittleEndian.PutUint32(buf[12:16], h.Size)
	binary.LittleEndian.PutUint32(buf[16:20], h.HeaderCRC32)
	binary.LittleEndian.PutUint32(buf[20:24], h.ReservedZero)
	binary.LittleEndian.PutUint64(buf[24:32], h.MyLBA)
	binary.LittleEndian.PutUint64(buf[32:40], h.AlternateLBA)
	binary.LittleEndian.PutUint64(buf[40:48], h.FirstUsableLBA)
	binary.LittleEndian.PutUint64(buf[48:56], h.LastUsableLBA)
	encodeGUID(buf[56:72], h.DiskUUID)
	binary.LittleEndian.PutUint64(buf[72:80], h.EntriesLBA)
	binary.LittleEndian.PutUint32(buf[80:84], h.NumberOfEntries)
	binary.LittleEndian.PutUint32(buf[84:88], h.SizeOfEntry)
	binary.LittleEndian.PutUint32(buf[88:92], h.EntriesCRC32)
}

// headerCRC32 recomputes a header's self-CRC: the first h.Size bytes of buf
// with the HeaderCRC32 field treated as zero. The CRC is computed over a
// scratch copy of buf, so the field is zeroed only in the copy and buf itself
// is never modified.
func headerCRC32(buf []byte, size uint32) uint32 {
	scratch := make([]byte, size)
	copy(scratch, buf[:size])
	binary.LittleEndian.PutUint32(scratch[16:20], 0)
	return crc32IEEE(scratch)
}

// checkHeader validates a single Header in isolation against the drive size
// and the role (primary/secondary) it is expected to occupy. The checks are
// ordered as a defensive cascade: each later check assumes the earlier ones
// passed.
func checkHeader(raw []byte, h Header, isSecondary bool, driveSectors uint64) bool {
	if h.Signature != HeaderSignature && h.Signature != HeaderSignature2 {
		return false
	}
	if h.Revision != HeaderRevision {
		return false
	}
	if h.Size < MinSizeOfHeader || h.Size > MaxSizeOfHeader {
		return false
	}
	if headerCRC32(raw, h.Size) != h.HeaderCRC32 {
		return false
	}
	if h.ReservedZero != 0 {
		return false
	}
	if h.SizeOfEntry != SizeOfEntry {
		return false
	}
	if h.NumberOfEntries < MinNumberOfEntries || h.NumberOfEntries > MaxNumberOfEntries {
		return false
	}
	if uint64(h.NumberOfEntries)*uint64(h.SizeOfEntry) != TotalEntriesSize {
		return false
	}
	// farEnd is this header's own claim about where the disk ends: for the
	// primary that's AlternateLBA (the secondary's location), for the
	// secondary it's MyLBA. The usable-region bound below is checked
	// against the header's own claim, not the live driveSectors, so a
	// header that is otherwise self-consistent is not rejected outright
	// just because the drive has been resized out from under it --
	// reconciling a stale AlternateLBA/MyLBA with the real drive size is
	// recomputeSize's job, not a reason to fail validation before it runs.
	farEnd := h.AlternateLBA
	if isSecondary {
		if h.MyLBA != driveSectors-1 || h.EntriesLBA != h.MyLBA-EntriesSectors {
			return false
		}
		farEnd = h.MyLBA
	} else {
		if h.MyLBA != 1 || h.EntriesLBA != h.MyLBA+1 {
			return false
		}
	}
	if h.FirstUsableLBA < 2+EntriesSectors {
		return false
	}
	if h.LastUsableLBA >= farEnd-EntriesSectors {
		return false
	}
	if h.FirstUsableLBA > h.LastUsableLBA {
		return false
	}
	return true
}
