package gpt

// Repair reconstructs whichever copies are damaged from the surviving good
// copy. Precondition: d.ValidHeaders and d.ValidEntries must already reflect
// a prior SanityCheck call. If either is MaskNone, Repair returns without
// mutating anything -- there is nothing to recover from.
//
// Repair never clears bits in d.Modified; it only sets them.
func Repair(d *Data) {
	if d.ValidHeaders == MaskNone || d.ValidEntries == MaskNone {
		return
	}
	preValidHeaders := d.ValidHeaders
	preValidEntries := d.ValidEntries

	if recomputeSize(d) != Success {
		return
	}

	switch preValidHeaders {
	case MaskPrimary:
		h := d.header(false)
		d.SecondaryHeader = d.PrimaryHeader
		h.MyLBA = d.DriveSectors - 1
		h.AlternateLBA = 1
		h.EntriesLBA = h.MyLBA - EntriesSectors
		writeHeaderWithCRC(d.SecondaryHeader[:], h)
		d.Modified |= ModifiedHeader2

	case MaskSecondary:
		h := d.header(true)
		d.PrimaryHeader = d.SecondaryHeader
		h.MyLBA = 1
		h.AlternateLBA = d.DriveSectors - 1
		h.EntriesLBA = h.MyLBA + 1
		writeHeaderWithCRC(d.PrimaryHeader[:], h)
		d.Modified |= ModifiedHeader1
	}
	d.ValidHeaders = MaskBoth

	// recomputeSize reruns the full consistency check internally when it
	// adjusts a header's geometry, which overwrites d.ValidEntries against
	// the new LastUsableLBA -- a drive shrink can push a previously
	// in-bounds entry's EndingLBA out of range and flip entries that were
	// fine a moment ago. Decide which copy to trust from the validity
	// captured before recomputeSize ran, and explicitly re-validate that
	// copy against the final, post-geometry header before copying it over
	// and claiming both copies are good.
	goodHdr := d.header(preValidHeaders == MaskSecondary)
	switch preValidEntries {
	case MaskBoth:
		if checkEntries(d.PrimaryEntries[:], goodHdr) != Success {
			d.ValidEntries = MaskNone
			return
		}
	case MaskPrimary:
		if checkEntries(d.PrimaryEntries[:], goodHdr) != Success {
			d.ValidEntries = MaskNone
			return
		}
		d.SecondaryEntries = d.PrimaryEntries
		d.Modified |= ModifiedEntries2
	case MaskSecondary:
		if checkEntries(d.SecondaryEntries[:], goodHdr) != Success {
			d.ValidEntries = MaskNone
			return
		}
		d.PrimaryEntries = d.SecondaryEntries
		d.Modified |= ModifiedEntries1
	}
	d.ValidEntries = MaskBoth
}

// GptModified is the notification a caller invokes after mutating the
// primary entry table directly (editing boot attributes, adding a
// partition, etc). It recomputes the primary copy's CRCs, marks it as the
// sole good copy, and invokes Repair to resync the secondary. Editing always
// flows primary -> secondary; this asymmetry is deliberate, since the
// secondary is only ever a mirror of what the primary holds.
func GptModified(d *Data) {
	h := d.header(false)
	h.EntriesCRC32 = crc32IEEE(d.PrimaryEntries[:uint64(h.NumberOfEntries)*uint64(h.SizeOfEntry)])
	writeHeaderWithCRC(d.PrimaryHeader[:], h)

	d.Modified |= ModifiedHeader1 | ModifiedEntries1
	d.ValidHeaders = MaskPrimary
	d.ValidEntries = MaskPrimary

	Repair(d)
}
