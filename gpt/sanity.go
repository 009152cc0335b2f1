package gpt

// SanityCheck validates both header/entry copies in d, populates
// d.ValidHeaders and d.ValidEntries, and resolves divergence between the
// primary and secondary copies. It is idempotent and read-only on d's
// buffers.
func SanityCheck(d *Data) Error {
	if d.SectorBytes != SectorBytes {
		return ErrInvalidSectorSize
	}
	if d.DriveSectors < MinDriveSectors {
		return ErrInvalidSectorNumber
	}

	h1 := d.header(false)
	h2 := d.header(true)

	validHeaders := MaskNone
	if checkHeader(d.PrimaryHeader[:], h1, false, d.DriveSectors) {
		validHeaders |= MaskPrimary
	}
	if checkHeader(d.SecondaryHeader[:], h2, true, d.DriveSectors) {
		validHeaders |= MaskSecondary
	}
	d.ValidHeaders = validHeaders

	if validHeaders == MaskNone {
		d.ValidEntries = MaskNone
		return ErrInvalidHeaders
	}

	goodHdr := h1
	if validHeaders&MaskPrimary == 0 {
		goodHdr = h2
	}

	validEntries := MaskNone
	e1ok := checkEntries(d.PrimaryEntries[:], goodHdr) == Success
	e2ok := checkEntries(d.SecondaryEntries[:], goodHdr) == Success
	if e1ok {
		validEntries |= MaskPrimary
	}
	if e2ok {
		validEntries |= MaskSecondary
	}

	// Cross-retry: both headers are valid but neither entry table passed
	// against the primary-derived goodHdr. Re-validate against h2.
	if validHeaders == MaskBoth && validEntries == MaskNone {
		e1ok = checkEntries(d.PrimaryEntries[:], h2) == Success
		e2ok = checkEntries(d.SecondaryEntries[:], h2) == Success
		if e1ok || e2ok {
			validHeaders &^= MaskPrimary
			d.ValidHeaders = validHeaders
			goodHdr = h2
			if e1ok {
				validEntries |= MaskPrimary
			}
			if e2ok {
				validEntries |= MaskSecondary
			}
		}
	}

	d.ValidEntries = validEntries
	if validEntries == MaskNone {
		return ErrInvalidEntries
	}

	// Header-field cross-check: if both headers are still valid, compare
	// the fields that must agree between copies. my_lba, alternate_lba,
	// entries_lba, and header_crc32 legitimately differ and are excluded.
	if d.ValidHeaders == MaskBoth && !headerFieldsAgree(h1, h2) {
		d.ValidHeaders &^= MaskSecondary
	}

	return Success
}

// headerFieldsAgree compares the subset of header fields that must be
// identical between the primary and secondary copies of a consistent table.
func headerFieldsAgree(h1, h2 Header) bool {
	return h1.Signature == h2.Signature &&
		h1.Revision == h2.Revision &&
		h1.Size == h2.Size &&
		h1.ReservedZero == h2.ReservedZero &&
		h1.FirstUsableLBA == h2.FirstUsableLBA &&
		h1.LastUsableLBA == h2.LastUsableLBA &&
		h1.DiskUUID == h2.DiskUUID &&
		h1.NumberOfEntries == h2.NumberOfEntries &&
		h1.SizeOfEntry == h2.SizeOfEntry &&
		h1.EntriesCRC32 == h2.EntriesCRC32
}
