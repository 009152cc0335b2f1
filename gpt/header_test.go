package gpt

import "testing"

func goldenHeaderBytes(driveSectors uint64) ([SectorBytes]byte, Header) {
	d := newGoldenData(driveSectors)
	return d.PrimaryHeader, decodeHeader(d.PrimaryHeader[:])
}

func Test_checkHeader(t *testing.T) {
	raw, h := goldenHeaderBytes(10000)

	type config struct {
		name    string
		mutate  func(raw *[SectorBytes]byte, h *Header)
		wantOK  bool
	}
	tests := []config{
		{
			name:   "golden header is valid",
			mutate: func(*[SectorBytes]byte, *Header) {},
			wantOK: true,
		},
		{
			name: "bad signature",
			mutate: func(raw *[SectorBytes]byte, h *Header) {
				h.Signature = [8]byte{'X', 'X', 'X', 'X', 'X', 'X', 'X', 'X'}
				writeHeaderWithCRC(raw[:], *h)
			},
			wantOK: false,
		},
		{
			name: "legacy ChromeOS signature accepted",
			mutate: func(raw *[SectorBytes]byte, h *Header) {
				h.Signature = HeaderSignature2
				writeHeaderWithCRC(raw[:], *h)
			},
			wantOK: true,
		},
		{
			name: "bad revision",
			mutate: func(raw *[SectorBytes]byte, h *Header) {
				h.Revision = 0x00020000
				writeHeaderWithCRC(raw[:], *h)
			},
			wantOK: false,
		},
		{
			name: "size too small",
			mutate: func(raw *[SectorBytes]byte, h *Header) {
				h.Size = 91
				writeHeaderWithCRC(raw[:], *h)
			},
			wantOK: false,
		},
		{
			name: "crc corrupted",
			mutate: func(raw *[SectorBytes]byte, h *Header) {
				encodeHeader(raw[:], *h)
				raw[16] ^= 0xFF // flip a byte inside HeaderCRC32 itself
			},
			wantOK: false,
		},
		{
			name: "reserved not zero",
			mutate: func(raw *[SectorBytes]byte, h *Header) {
				h.ReservedZero = 1
				writeHeaderWithCRC(raw[:], *h)
			},
			wantOK: false,
		},
		{
			name: "wrong entry size",
			mutate: func(raw *[SectorBytes]byte, h *Header) {
				h.SizeOfEntry = 256
				writeHeaderWithCRC(raw[:], *h)
			},
			wantOK: false,
		},
		{
			name: "number of entries does not fill total size",
			mutate: func(raw *[SectorBytes]byte, h *Header) {
				h.NumberOfEntries = 100
				writeHeaderWithCRC(raw[:], *h)
			},
			wantOK: false,
		},
		{
			name: "primary role mismatch",
			mutate: func(raw *[SectorBytes]byte, h *Header) {
				h.MyLBA = 2
				writeHeaderWithCRC(raw[:], *h)
			},
			wantOK: false,
		},
		{
			name: "first usable too small",
			mutate: func(raw *[SectorBytes]byte, h *Header) {
				h.FirstUsableLBA = 33
				writeHeaderWithCRC(raw[:], *h)
			},
			wantOK: false,
		},
		{
			name: "last usable at the rejected canonical boundary",
			mutate: func(raw *[SectorBytes]byte, h *Header) {
				// driveSectors-1-EntriesSectors itself is rejected; only
				// strictly-less values are accepted.
				h.LastUsableLBA = 10000 - 1 - EntriesSectors
				writeHeaderWithCRC(raw[:], *h)
			},
			wantOK: false,
		},
		{
			name: "first usable greater than last usable",
			mutate: func(raw *[SectorBytes]byte, h *Header) {
				h.FirstUsableLBA = h.LastUsableLBA + 1
				writeHeaderWithCRC(raw[:], *h)
			},
			wantOK: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(subtest *testing.T) {
			r := raw
			hh := h
			test.mutate(&r, &hh)
			decoded := decodeHeader(r[:])
			got := checkHeader(r[:], decoded, false, 10000)
			if got != test.wantOK {
				subtest.Fatalf("checkHeader() = %v, want %v", got, test.wantOK)
			}
		})
	}
}

func Test_checkHeader_secondaryRole(t *testing.T) {
	d := newGoldenData(10000)
	h2 := decodeHeader(d.SecondaryHeader[:])
	if !checkHeader(d.SecondaryHeader[:], h2, true, 10000) {
		t.Fatal("expected golden secondary header to validate")
	}
	if checkHeader(d.SecondaryHeader[:], h2, false, 10000) {
		t.Fatal("secondary header must not validate under the primary role")
	}
}
