// Package pak reads and writes PAK archives: the Quake and Quake II
// "PACK" flavour with 56-byte names, and the HROT flavour with 120-byte
// names.
//
// The header is a 4-byte magic, an int32 directory offset and an int32
// directory size. Entries are a null-padded name followed by int32 offset
// and size. The directory conventionally trails the data, but the header
// fields are authoritative.
package pak

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-vgio/internal/archive"
	"github.com/robert-malhotra/go-vgio/internal/binary"
	"github.com/robert-malhotra/go-vgio/internal/errs"
	"github.com/robert-malhotra/go-vgio/internal/record"
)

const headerSize = 12

// Dialect is one PAK flavour.
type Dialect struct {
	name   string
	magic  string
	layout *record.Layout
}

var (
	// Quake is the id Software PACK dialect used by Quake and Quake II.
	Quake = newDialect("pak", "PACK", 56)
	// HROT is the PAK dialect of HROT.
	HROT = newDialect("hrot pak", "HROT", 120)
)

func newDialect(name, magic string, nameSize int) *Dialect {
	return &Dialect{
		name:  name,
		magic: magic,
		layout: record.MustLayout(name+" entry",
			record.Str("name", nameSize),
			record.I32("offset"),
			record.I32("size"),
		),
	}
}

func (d *Dialect) Name() string                 { return d.name }
func (d *Dialect) Magic() []byte                { return []byte(d.magic) }
func (d *Dialect) HeaderSize() int              { return headerSize }
func (d *Dialect) Placement() archive.Placement { return archive.Trailing }

// EntrySize returns the size of one directory entry.
func (d *Dialect) EntrySize() int {
	return d.layout.Size()
}

// NameSize returns the width of the entry name field.
func (d *Dialect) NameSize() int {
	f, _ := d.layout.Field("name")
	return f.Size
}

func (d *Dialect) ReadDirectory(r *binary.Reader) ([]archive.Entry, error) {
	offset, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	size, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if offset < 0 || size < 0 {
		return nil, errors.Wrapf(errs.ErrInvalidFormat, "directory at %d with size %d", offset, size)
	}
	if int(size)%d.EntrySize() != 0 {
		return nil, errors.Wrapf(errs.ErrInvalidFormat, "directory size %d is not a multiple of %d", size, d.EntrySize())
	}

	dir, err := r.Sub(int64(offset), int64(size))
	if err != nil {
		return nil, err
	}
	recs, err := record.DecodeSequence(dir, d.layout, int(size)/d.EntrySize())
	if err != nil {
		return nil, err
	}

	entries := make([]archive.Entry, len(recs))
	for i, rec := range recs {
		entries[i] = archive.Entry{
			Name:     rec.String("name"),
			Offset:   rec.Int("offset"),
			Size:     rec.Int("size"),
			DiskSize: rec.Int("size"),
		}
	}
	return entries, nil
}

func (d *Dialect) DirectorySize(entries []archive.Entry) int64 {
	return int64(len(entries) * d.EntrySize())
}

func (d *Dialect) WriteDirectory(w *binary.Writer, entries []archive.Entry) error {
	recs := make([]record.Record, len(entries))
	for i, e := range entries {
		recs[i] = record.Record{"name": e.Name, "offset": e.Offset, "size": e.Size}
	}
	return record.EncodeSequence(w, d.layout, recs, len(entries))
}

func (d *Dialect) WriteHeader(w *binary.Writer, h archive.Header) error {
	if err := w.WriteBytes(d.Magic()); err != nil {
		return err
	}
	if err := record.WriteScalar(w, record.Int32, h.DirOffset); err != nil {
		return errors.WithMessage(err, "directory offset")
	}
	return errors.WithMessage(record.WriteScalar(w, record.Int32, h.DirSize), "directory size")
}

func (d *Dialect) ValidateName(name string) error {
	if name == "" {
		return errors.Wrap(errs.ErrEncoding, "empty member name")
	}
	if len(name) > d.NameSize() {
		return errors.Wrapf(errs.ErrEncoding, "member name %q longer than %d bytes", name, d.NameSize())
	}
	return nil
}

// Is reports whether data starts with the dialect's magic.
func (d *Dialect) Is(data []byte) bool {
	return bytes.HasPrefix(data, d.Magic())
}

// Open parses a PACK archive held in data.
func Open(data []byte) (*archive.Container, error) {
	return archive.Open(data, Quake)
}

// OpenHROT parses an HROT archive held in data.
func OpenHROT(data []byte) (*archive.Container, error) {
	return archive.Open(data, HROT)
}

// Build writes a PACK archive holding members in order.
func Build(members []archive.Member) ([]byte, error) {
	return archive.Build(Quake, members)
}
