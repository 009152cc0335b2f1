package gpt

import "github.com/Microsoft/go-winio/pkg/guid"

// newGoldenData builds a fully self-consistent, valid GptData: matching
// primary/secondary headers and entry tables, one kernel entry and one
// rootfs entry, correct CRCs throughout.
func newGoldenData(driveSectors uint64) *Data {
	d := &Data{
		SectorBytes:  SectorBytes,
		DriveSectors: driveSectors,
	}

	diskUUID := guid.GUID{Data1: 0x11111111, Data2: 0x2222, Data3: 0x3333, Data4: [8]byte{1, 2, 3, 4, 5, 6, 7, 8}}
	altLBA := driveSectors - 1
	altEntriesLBA := altLBA - EntriesSectors
	lastUsable := altEntriesLBA - 1

	h1 := Header{
		Signature:       HeaderSignature,
		Revision:        HeaderRevision,
		Size:            MinSizeOfHeader,
		MyLBA:           1,
		AlternateLBA:    altLBA,
		FirstUsableLBA:  2 + EntriesSectors,
		LastUsableLBA:   lastUsable,
		DiskUUID:        diskUUID,
		EntriesLBA:      2,
		NumberOfEntries: MinNumberOfEntries,
		SizeOfEntry:     SizeOfEntry,
	}
	h2 := h1
	h2.MyLBA = altLBA
	h2.AlternateLBA = 1
	h2.EntriesLBA = altEntriesLBA

	writeEntries(d, 100, 199, 200, 999)

	entriesCRC := crc32IEEE(d.PrimaryEntries[:])
	h1.EntriesCRC32 = entriesCRC
	h2.EntriesCRC32 = entriesCRC

	writeHeaderWithCRC(d.PrimaryHeader[:], h1)
	writeHeaderWithCRC(d.SecondaryHeader[:], h2)

	return d
}

// writeEntries populates both entry-table buffers in d identically with a
// kernel entry at [kStart,kEnd] and a data entry at [rStart,rEnd].
func writeEntries(d *Data, kStart, kEnd, rStart, rEnd uint64) {
	kernel := Entry{
		Type:        GPTEntTypeChromeOSKernel,
		Unique:      guid.GUID{Data1: 0xAAAAAAA1, Data4: [8]byte{1}},
		StartingLBA: kStart,
		EndingLBA:   kEnd,
	}
	root := Entry{
		Type:        guid.GUID{Data1: 0x0FC63DAF, Data2: 0x8483, Data3: 0x4772, Data4: [8]byte{0x8E, 0x79, 0x3D, 0x69, 0xD8, 0x47, 0x7D, 0xE4}},
		Unique:      guid.GUID{Data1: 0xAAAAAAA2, Data4: [8]byte{2}},
		StartingLBA: rStart,
		EndingLBA:   rEnd,
	}

	var buf [TotalEntriesSize]byte
	encodeEntry(buf[0:SizeOfEntry], kernel)
	encodeEntry(buf[SizeOfEntry:2*SizeOfEntry], root)

	d.PrimaryEntries = buf
	d.SecondaryEntries = buf
}
