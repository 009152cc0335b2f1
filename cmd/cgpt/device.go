package main

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/crosutils/cgpt/gpt"
)

// device is the block-device loader: the gpt package performs no I/O of its
// own, so this is the only place in this repository that touches disk. It
// reads and writes the four raw buffers at their fixed LBA offsets (primary
// header at LBA 1, primary entries at LBA 2, secondary entries and header at
// the corresponding offsets from the end of the device).
type device struct {
	f *os.File
}

func openDevice(path string) (*device, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	return &device{f: f}, nil
}

func (dv *device) Close() error {
	return dv.f.Close()
}

// Load reads the primary/secondary header and entry sectors into a fresh
// gpt.Data, sized against the device's actual length.
func (dv *device) Load() (*gpt.Data, error) {
	size, err := dv.f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, errors.Wrap(err, "seeking to end of device")
	}
	driveSectors := uint64(size) / gpt.SectorBytes

	d := &gpt.Data{
		SectorBytes:  gpt.SectorBytes,
		DriveSectors: driveSectors,
	}

	if err := dv.readAt(1*gpt.SectorBytes, d.PrimaryHeader[:]); err != nil {
		return nil, errors.Wrap(err, "reading primary header")
	}
	if err := dv.readAt(2*gpt.SectorBytes, d.PrimaryEntries[:]); err != nil {
		return nil, errors.Wrap(err, "reading primary entries")
	}

	secondaryEntriesLBA := driveSectors - 1 - gpt.EntriesSectors
	if err := dv.readAt(secondaryEntriesLBA*gpt.SectorBytes, d.SecondaryEntries[:]); err != nil {
		return nil, errors.Wrap(err, "reading secondary entries")
	}
	if err := dv.readAt((driveSectors-1)*gpt.SectorBytes, d.SecondaryHeader[:]); err != nil {
		return nil, errors.Wrap(err, "reading secondary header")
	}

	return d, nil
}

// Persist writes back only the sectors flagged in d.Modified, then clears
// the mask. Secondary sectors are flushed before primary ones so a crash
// mid-write never leaves both copies simultaneously inconsistent: a reader
// that only sees the secondary update still has an intact, self-consistent
// primary copy to fall back to.
func (dv *device) Persist(d *gpt.Data) error {
	driveSectors := d.DriveSectors

	if d.Modified&gpt.ModifiedEntries2 != 0 {
		secondaryEntriesLBA := driveSectors - 1 - gpt.EntriesSectors
		if err := dv.writeAt(secondaryEntriesLBA*gpt.SectorBytes, d.SecondaryEntries[:]); err != nil {
			return errors.Wrap(err, "writing secondary entries")
		}
	}
	if d.Modified&gpt.ModifiedHeader2 != 0 {
		if err := dv.writeAt((driveSectors-1)*gpt.SectorBytes, d.SecondaryHeader[:]); err != nil {
			return errors.Wrap(err, "writing secondary header")
		}
	}
	if err := dv.f.Sync(); err != nil {
		return errors.Wrap(err, "flushing secondary copy")
	}

	if d.Modified&gpt.ModifiedEntries1 != 0 {
		if err := dv.writeAt(2*gpt.SectorBytes, d.PrimaryEntries[:]); err != nil {
			return errors.Wrap(err, "writing primary entries")
		}
	}
	if d.Modified&gpt.ModifiedHeader1 != 0 {
		if err := dv.writeAt(1*gpt.SectorBytes, d.PrimaryHeader[:]); err != nil {
			return errors.Wrap(err, "writing primary header")
		}
	}
	if err := dv.f.Sync(); err != nil {
		return errors.Wrap(err, "flushing primary copy")
	}

	d.Modified = 0
	return nil
}

func (dv *device) readAt(byteOffset uint64, buf []byte) error {
	_, err := dv.f.ReadAt(buf, int64(byteOffset))
	return err
}

func (dv *device) writeAt(byteOffset uint64, buf []byte) error {
	_, err := dv.f.WriteAt(buf, int64(byteOffset))
	return err
}
