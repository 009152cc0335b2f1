package gpt

import "testing"

func goldenEntriesAndHeader(driveSectors uint64) ([TotalEntriesSize]byte, Header) {
	d := newGoldenData(driveSectors)
	return d.PrimaryEntries, decodeHeader(d.PrimaryHeader[:])
}

func Test_checkEntries(t *testing.T) {
	buf, h := goldenEntriesAndHeader(10000)

	type config struct {
		name       string
		mutate     func(buf *[TotalEntriesSize]byte)
		skipResync bool // leave the header's stale EntriesCRC32 in place
		want       Error
	}
	tests := []config{
		{
			name:   "golden entries are valid",
			mutate: func(*[TotalEntriesSize]byte) {},
			want:   Success,
		},
		{
			name: "crc corrupted",
			mutate: func(buf *[TotalEntriesSize]byte) {
				buf[SizeOfEntry+40] ^= 0xFF // perturb root entry's ending LBA bytes
			},
			skipResync: true,
			want:       ErrCRCCorrupted,
		},
		{
			name: "entry outside usable region",
			mutate: func(buf *[TotalEntriesSize]byte) {
				e := decodeEntry(buf[0:SizeOfEntry])
				e.StartingLBA = 1 // below FirstUsableLBA
				encodeEntry(buf[0:SizeOfEntry], e)
			},
			want: ErrOutOfRegion,
		},
		{
			name: "starting lba overlap",
			mutate: func(buf *[TotalEntriesSize]byte) {
				// Move the root entry (index 1) so it overlaps the kernel
				// entry (index 0, [100,199]): root.start falls inside
				// kernel's range. Per the documented scan order, index 1
				// is checked against the already-scanned index 0.
				e := decodeEntry(buf[SizeOfEntry : 2*SizeOfEntry])
				e.StartingLBA = 150
				e.EndingLBA = 300
				encodeEntry(buf[SizeOfEntry:2*SizeOfEntry], e)
			},
			want: ErrStartLBAOverlap,
		},
		{
			name: "ending lba overlap",
			mutate: func(buf *[TotalEntriesSize]byte) {
				e := decodeEntry(buf[SizeOfEntry : 2*SizeOfEntry])
				e.StartingLBA = 50
				e.EndingLBA = 150
				encodeEntry(buf[SizeOfEntry:2*SizeOfEntry], e)
			},
			want: ErrEndLBAOverlap,
		},
		{
			name: "duplicate guid",
			mutate: func(buf *[TotalEntriesSize]byte) {
				kernel := decodeEntry(buf[0:SizeOfEntry])
				root := decodeEntry(buf[SizeOfEntry : 2*SizeOfEntry])
				root.Unique = kernel.Unique
				root.StartingLBA, root.EndingLBA = 500, 600 // stay non-overlapping
				encodeEntry(buf[SizeOfEntry:2*SizeOfEntry], root)
			},
			want: ErrDupGUID,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(subtest *testing.T) {
			b := buf
			hh := h
			test.mutate(&b)
			if !test.skipResync {
				hh.EntriesCRC32 = crc32IEEE(b[:])
			}
			got := checkEntries(b[:], hh)
			if got != test.want {
				subtest.Fatalf("checkEntries() = %v (%s), want %v (%s)", got, got.Error(), test.want, test.want.Error())
			}
		})
	}
}
