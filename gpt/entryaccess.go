package gpt

// EntryAt decodes the entry at index from the primary entry table. It
// performs no bounds check; the caller must keep index within
// [0, MaxNumberOfEntries).
func EntryAt(d *Data, index int) Entry {
	off := index * SizeOfEntry
	return decodeEntry(d.PrimaryEntries[off : off+SizeOfEntry])
}

// SetEntry writes e into the primary entry table at index. Callers must
// follow up with GptModified to resync CRCs and the secondary copy.
func SetEntry(d *Data, index int, e Entry) {
	off := index * SizeOfEntry
	encodeEntry(d.PrimaryEntries[off:off+SizeOfEntry], e)
}
