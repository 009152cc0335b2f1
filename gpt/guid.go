package gpt

import (
	"encoding/binary"

	"github.com/Microsoft/go-winio/pkg/guid"
)

// decodeGUID and encodeGUID (de)serialize a guid.GUID using the mixed-endian
// layout the UEFI/GPT spec requires: Data1-Data3 little-endian, Data4 raw.
func decodeGUID(buf []byte) guid.GUID {
	var g guid.GUID
	g.Data1 = binary.LittleEndian.Uint32(buf[0:4])
	g.Data2 = binary.LittleEndian.Uint16(buf[4:6])
	g.Data3 = binary.LittleEndian.Uint16(buf[6:8])
	copy(g.Data4[:], buf[8:16])
	return g
}

func encodeGUID(buf []byte, g guid.GUID) {
	binary.LittleEndian.PutUint32(buf[0:4], g.Data1)
	binary.LittleEndian.PutUint16(buf[4:6], g.Data2)
	binary.LittleEndian.PutUint16(buf[6:8], g.Data3)
	copy(buf[8:16], g.Data4[:])
}

// IsKernelEntry reports whether e's type GUID is the ChromiumOS kernel type.
func IsKernelEntry(e Entry) bool {
	return e.Type == GPTEntTypeChromeOSKernel
}

// IsUnusedEntry reports whether e's slot is unused (all-zero type GUID).
func IsUnusedEntry(e Entry) bool {
	return e.Type == zeroGUID
}
