package gpt

import (
	"encoding/binary"
	"unicode/utf16"

	"github.com/Microsoft/go-winio/pkg/guid"
)

// Entry is a single 128-byte GPT partition entry. Name is left as raw
// UTF-16LE code units; validation never interprets it, and Name16 decodes
// it for display.
type Entry struct {
	Type        guid.GUID
	Unique      guid.GUID
	StartingLBA uint64
	EndingLBA   uint64
	Attributes  uint64
	Name        [36]uint16
}

func decodeEntry(buf []byte) Entry {
	var e Entry
	e.Type = decodeGUID(buf[0:16])
	e.Unique = decodeGUID(buf[16:32])
	e.StartingLBA = binary.LittleEndian.Uint64(buf[32:40])
	e.EndingLBA = binary.LittleEndian.Uint64(buf[40:48])
	e.Attributes = binary.LittleEndian.Uint64(buf[48:56])
	for i := range e.Name {
		e.Name[i] = binary.LittleEndian.Uint16(buf[56+2*i : 58+2*i])
	}
	return e
}

func encodeEntry(buf []byte, e Entry) {
	encodeGUID(buf[0:16], e.Type)
	encodeGUID(buf[16:32], e.Unique)
	binary.LittleEndian.PutUint64(buf[32:40], e.StartingLBA)
	binary.LittleEndian.PutUint64(buf[40:48], e.EndingLBA)
	binary.LittleEndian.PutUint64(buf[48:56], e.Attributes)
	for i, u := range e.Name {
		binary.LittleEndian.PutUint16(buf[56+2*i:58+2*i], u)
	}
}

// decodeEntries decodes the first n entries out of buf.
func decodeEntries(buf []byte, n uint32) []Entry {
	entries := make([]Entry, n)
	for i := uint32(0); i < n; i++ {
		entries[i] = decodeEntry(buf[i*SizeOfEntry : (i+1)*SizeOfEntry])
	}
	return entries
}

// checkEntries CRC-validates the entry array against h and verifies the
// region/overlap/uniqueness invariants. The scan order (index order,
// each entry checked only against already-scanned earlier entries) and the
// start/end/dup check precedence within a pair are part of the externally
// observable contract: they determine which error code a given broken table
// produces.
func checkEntries(buf []byte, h Header) Error {
	n := h.NumberOfEntries
	region := buf[:uint64(n)*uint64(h.SizeOfEntry)]
	if crc32IEEE(region) != h.EntriesCRC32 {
		return ErrCRCCorrupted
	}

	entries := decodeEntries(buf, n)
	for i, e := range entries {
		if IsUnusedEntry(e) {
			continue
		}
		if e.StartingLBA < h.FirstUsableLBA || e.EndingLBA > h.LastUsableLBA || e.StartingLBA > e.EndingLBA {
			return ErrOutOfRegion
		}
		for j := 0; j < i; j++ {
			e2 := entries[j]
			if IsUnusedEntry(e2) {
				continue
			}
			if inRange(e.StartingLBA, e2.StartingLBA, e2.EndingLBA) {
				return ErrStartLBAOverlap
			}
			if inRange(e.EndingLBA, e2.StartingLBA, e2.EndingLBA) {
				return ErrEndLBAOverlap
			}
			if e.Unique == e2.Unique {
				return ErrDupGUID
			}
		}
	}
	return Success
}

func inRange(v, lo, hi uint64) bool {
	return v >= lo && v <= hi
}

// Name16 decodes e's UTF-16LE partition name, stopping at the first NUL.
func (e Entry) Name16() string {
	for i, c := range e.Name {
		if c == 0 {
			return string(utf16.Decode(e.Name[:i]))
		}
	}
	return string(utf16.Decode(e.Name[:]))
}
