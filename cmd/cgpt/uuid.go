package main

import (
	winguid "github.com/Microsoft/go-winio/pkg/guid"
	"github.com/google/uuid"

	"github.com/crosutils/cgpt/gpt"
)

// guidFromUUID converts a google/uuid.UUID (plain RFC 4122 byte order) into
// the mixed-endian guid.GUID the on-disk GPT format uses.
func guidFromUUID(u uuid.UUID) winguid.GUID {
	var g winguid.GUID
	g.Data1 = uint32(u[0])<<24 | uint32(u[1])<<16 | uint32(u[2])<<8 | uint32(u[3])
	g.Data2 = uint16(u[4])<<8 | uint16(u[5])
	g.Data3 = uint16(u[6])<<8 | uint16(u[7])
	copy(g.Data4[:], u[8:16])
	return g
}

// writeNewKernelEntry populates the entry at slot with a fresh ChromiumOS
// kernel-type entry covering [startLBA, endLBA].
func writeNewKernelEntry(d *gpt.Data, slot int, unique uuid.UUID, startLBA, endLBA uint64) {
	gpt.SetEntry(d, slot, gpt.Entry{
		Type:        gpt.GPTEntTypeChromeOSKernel,
		Unique:      guidFromUUID(unique),
		StartingLBA: startLBA,
		EndingLBA:   endLBA,
	})
}
