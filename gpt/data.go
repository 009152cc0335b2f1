// Package gpt implements the validation and repair core for ChromiumOS-style
// GUID Partition Tables: header and entry-table validation, CRC checking,
// cross-copy consistency resolution, drive-geometry adaptation, and the
// Chromium OS boot-attribute accessors packed into each kernel entry.
//
// The package performs no I/O and no logging; it operates entirely on
// caller-owned byte buffers passed in through Data.
package gpt

import "github.com/Microsoft/go-winio/pkg/guid"

// Sector and table geometry. Only 512-byte sectors and 128-byte entries are
// supported; other sizes are rejected by SanityCheck rather than handled.
const (
	SectorBytes        = 512
	EntriesSectors     = 32                            // 128 entries * 128 bytes / 512 bytes per sector
	TotalEntriesSize   = EntriesSectors * SectorBytes   // 16384
	SizeOfEntry        = 128
	MinNumberOfEntries = TotalEntriesSize / SizeOfEntry
	MaxNumberOfEntries = TotalEntriesSize / SizeOfEntry

	MinSizeOfHeader = 92
	MaxSizeOfHeader = SectorBytes

	HeaderRevision = 0x00010000
)

// HeaderSignature and HeaderSignature2 are the two signatures checkHeader
// accepts. HeaderSignature2 is the legacy ChromiumOS recovery-image variant.
var (
	HeaderSignature  = [8]byte{'E', 'F', 'I', ' ', 'P', 'A', 'R', 'T'}
	HeaderSignature2 = [8]byte{'C', 'H', 'R', 'O', 'M', 'E', 'O', 'S'}
)

// ValidMask and ModifiedMask are 2-bit and 4-bit bitmasks respectively.
type ValidMask uint8

const (
	MaskNone      ValidMask = 0
	MaskPrimary   ValidMask = 1
	MaskSecondary ValidMask = 2
	MaskBoth      ValidMask = MaskPrimary | MaskSecondary
)

type ModifiedMask uint8

const (
	ModifiedHeader1  ModifiedMask = 1 << 0
	ModifiedEntries1 ModifiedMask = 1 << 1
	ModifiedHeader2  ModifiedMask = 1 << 2
	ModifiedEntries2 ModifiedMask = 1 << 3
)

// Data is the working set a caller populates for the duration of a verb: the
// raw sector buffers for both copies of the header and entry table, plus the
// validity and modification bitmasks the core reads and writes.
//
// Data holds its four buffers by value as fixed-size arrays of SectorBytes,
// SectorBytes, TotalEntriesSize, and TotalEntriesSize bytes, so their sizes
// are fixed by the type. It does not borrow caller-owned memory: sector data
// is copied into and out of these arrays.
type Data struct {
	SectorBytes  uint32
	DriveSectors uint64

	PrimaryHeader    [SectorBytes]byte
	SecondaryHeader  [SectorBytes]byte
	PrimaryEntries   [TotalEntriesSize]byte
	SecondaryEntries [TotalEntriesSize]byte

	ValidHeaders ValidMask
	ValidEntries ValidMask
	Modified     ModifiedMask

	// CurrentKernel is set by higher layers (boot selection); the core
	// only reads it from GetCurrentKernelUniqueGUID.
	CurrentKernel int
}

// MinDriveSectors is the smallest drive size (in sectors) that can hold a
// PMBR, both header copies, and both entry-table copies.
const MinDriveSectors = 1 + 2*(1+EntriesSectors)

// header returns the decoded header for the primary (false) or secondary
// (true) copy, without validating it.
func (d *Data) header(secondary bool) Header {
	if secondary {
		return decodeHeader(d.SecondaryHeader[:])
	}
	return decodeHeader(d.PrimaryHeader[:])
}

// GPTEntTypeChromeOSKernel is the partition-type GUID identifying a
// ChromiumOS kernel entry.
var GPTEntTypeChromeOSKernel = guid.GUID{
	Data1: 0xFE3A2A5D,
	Data2: 0x4F32,
	Data3: 0x41A7,
	Data4: [8]byte{0xB7, 0x25, 0xAC, 0xCC, 0x32, 0x85, 0xA3, 0x09},
}

// zeroGUID is the all-zero GUID marking an unused entry slot.
var zeroGUID guid.GUID
