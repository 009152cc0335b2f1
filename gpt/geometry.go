package gpt

import "encoding/binary"

// recomputeSize adapts the surviving header to d.DriveSectors, in case the
// image was moved onto a different-size medium. d.ValidHeaders must already
// reflect a prior SanityCheck call.
func recomputeSize(d *Data) Error {
	altLBA := d.DriveSectors - 1
	altEntriesLBA := altLBA - EntriesSectors
	lastUsable := altEntriesLBA - 1

	switch {
	case d.ValidHeaders&MaskPrimary != 0:
		h := d.header(false)
		if h.AlternateLBA == altLBA && h.LastUsableLBA == lastUsable {
			return Success
		}
		backup := d.PrimaryHeader

		h.AlternateLBA = altLBA
		h.LastUsableLBA = lastUsable
		writeHeaderWithCRC(d.PrimaryHeader[:], h)

		secondaryWasValid := d.ValidHeaders&MaskSecondary != 0
		SanityCheck(d)
		if d.ValidHeaders&MaskPrimary == 0 || (!secondaryWasValid && d.ValidHeaders&MaskSecondary != 0) {
			d.PrimaryHeader = backup
			SanityCheck(d)
			return ErrInvalidHeaders
		}
		d.Modified |= ModifiedHeader1 | ModifiedHeader2 | ModifiedEntries2
		return Success

	case d.ValidHeaders&MaskSecondary != 0:
		h := d.header(true)
		if h.MyLBA == altLBA && h.EntriesLBA == altEntriesLBA && h.LastUsableLBA == lastUsable {
			return Success
		}
		backup := d.SecondaryHeader

		h.MyLBA = altLBA
		h.EntriesLBA = altEntriesLBA
		h.LastUsableLBA = lastUsable
		writeHeaderWithCRC(d.SecondaryHeader[:], h)

		primaryWasValid := d.ValidHeaders&MaskPrimary != 0
		SanityCheck(d)
		if d.ValidHeaders&MaskSecondary == 0 || (!primaryWasValid && d.ValidHeaders&MaskPrimary != 0) {
			d.SecondaryHeader = backup
			SanityCheck(d)
			return ErrInvalidHeaders
		}
		d.Modified |= ModifiedHeader2 | ModifiedEntries2
		return Success

	default:
		return ErrInvalidHeaders
	}
}

// writeHeaderWithCRC encodes h into buf and recomputes its self-CRC in
// place, so the written header is internally consistent.
func writeHeaderWithCRC(buf []byte, h Header) {
	encodeHeader(buf, h)
	crc := headerCRC32(buf, h.Size)
	binary.LittleEndian.PutUint32(buf[16:20], crc)
}
