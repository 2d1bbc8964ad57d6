package archive

import (
	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-vgio/internal/binary"
	"github.com/robert-malhotra/go-vgio/internal/errs"
)

// Member is one input to Build.
type Member struct {
	Name string
	Data []byte
	// Size is the logical size recorded for the member. Zero means
	// len(Data). Only dialects implementing DiskSizer accept any other
	// value.
	Size int64

	Type        int64
	Compression int64
	Timestamp   int64
}

// Build lays out a complete archive: header, member data in the given
// order, and the directory before or after the data as the dialect
// requires. All names are validated before anything is written. The
// output depends only on the inputs.
func Build(d Dialect, members []Member) ([]byte, error) {
	ds, ok := d.(DiskSizer)
	separate := ok && ds.SeparateDiskSize()
	for i, m := range members {
		if err := d.ValidateName(m.Name); err != nil {
			return nil, errors.WithMessagef(err, "%s member %d", d.Name(), i)
		}
		if !separate && m.Size != 0 && m.Size != int64(len(m.Data)) {
			return nil, errors.Wrapf(errs.ErrEncoding, "%s member %d (%q): size %d differs from %d data bytes",
				d.Name(), i, m.Name, m.Size, len(m.Data))
		}
	}

	entries := make([]Entry, len(members))
	for i, m := range members {
		size := m.Size
		if size == 0 {
			size = int64(len(m.Data))
		}
		entries[i] = Entry{
			Name:        m.Name,
			Size:        size,
			DiskSize:    int64(len(m.Data)),
			Type:        m.Type,
			Compression: m.Compression,
			Timestamp:   m.Timestamp,
			Index:       i,
		}
	}

	buf := binary.NewBuffer()
	w := binary.NewWriter(buf)

	// Header placeholder.
	if err := w.WriteZeros(d.HeaderSize()); err != nil {
		return nil, err
	}

	dirSize := d.DirectorySize(entries)
	dirOffset := w.Pos()
	if d.Placement() == Leading {
		w.Skip(dirSize)
	}

	for i, m := range members {
		entries[i].Offset = w.Pos()
		if err := w.WriteBytes(m.Data); err != nil {
			return nil, err
		}
	}

	if d.Placement() == Trailing {
		dirOffset = w.Pos()
	}
	if err := d.WriteDirectory(w.At(dirOffset), entries); err != nil {
		return nil, errors.WithMessagef(err, "%s directory", d.Name())
	}

	h := Header{Count: len(entries), DirOffset: dirOffset, DirSize: dirSize}
	if err := d.WriteHeader(w.At(0), h); err != nil {
		return nil, errors.WithMessagef(err, "%s header", d.Name())
	}
	return buf.Bytes(), nil
}
