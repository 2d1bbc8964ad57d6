// Package grp reads and writes Duke Nukem 3D GRP resource archives.
//
// A GRP file is a 12-byte "KenSilverman" magic, an int32 entry count and
// a directory of 16-byte entries (12-byte name, uint32 size). Member data
// follows the directory in entry order, so offsets are implied by the
// sizes that precede them.
package grp

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-vgio/internal/archive"
	"github.com/robert-malhotra/go-vgio/internal/binary"
	"github.com/robert-malhotra/go-vgio/internal/errs"
	"github.com/robert-malhotra/go-vgio/internal/record"
)

// Magic identifies a GRP archive.
const Magic = "KenSilverman"

// NameSize is the width of an entry name.
const NameSize = 12

const headerSize = len(Magic) + 4

var entryLayout = record.MustLayout("grp entry",
	record.Str("name", NameSize),
	record.U32("size"),
)

type dialect struct{}

// Dialect is the GRP archive dialect.
var Dialect archive.Dialect = dialect{}

func (dialect) Name() string                 { return "grp" }
func (dialect) Magic() []byte                { return []byte(Magic) }
func (dialect) HeaderSize() int              { return headerSize }
func (dialect) Placement() archive.Placement { return archive.Leading }

func (dialect) ReadDirectory(r *binary.Reader) ([]archive.Entry, error) {
	count, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, errors.Wrapf(errs.ErrInvalidFormat, "negative entry count %d", count)
	}

	recs, err := record.DecodeSequence(r, entryLayout, int(count))
	if err != nil {
		return nil, err
	}

	offset := r.Pos()
	entries := make([]archive.Entry, len(recs))
	for i, rec := range recs {
		size := rec.Int("size")
		entries[i] = archive.Entry{
			Name:     rec.String("name"),
			Offset:   offset,
			Size:     size,
			DiskSize: size,
		}
		offset += size
	}
	return entries, nil
}

func (dialect) DirectorySize(entries []archive.Entry) int64 {
	return int64(len(entries) * entryLayout.Size())
}

func (dialect) WriteDirectory(w *binary.Writer, entries []archive.Entry) error {
	recs := make([]record.Record, len(entries))
	for i, e := range entries {
		recs[i] = record.Record{"name": e.Name, "size": e.Size}
	}
	return record.EncodeSequence(w, entryLayout, recs, len(entries))
}

func (dialect) WriteHeader(w *binary.Writer, h archive.Header) error {
	if err := w.WriteBytes([]byte(Magic)); err != nil {
		return err
	}
	return errors.WithMessage(record.WriteScalar(w, record.Int32, int64(h.Count)), "member count")
}

func (dialect) ValidateName(name string) error {
	if name == "" {
		return errors.Wrap(errs.ErrEncoding, "empty member name")
	}
	if len(name) > NameSize {
		return errors.Wrapf(errs.ErrEncoding, "member name %q longer than %d bytes", name, NameSize)
	}
	return nil
}

// Is reports whether data starts with the GRP magic.
func Is(data []byte) bool {
	return bytes.HasPrefix(data, []byte(Magic))
}

// Open parses a GRP archive held in data.
func Open(data []byte) (*archive.Container, error) {
	return archive.Open(data, Dialect)
}

// Build writes a GRP archive holding members in order.
func Build(members []archive.Member) ([]byte, error) {
	return archive.Build(Dialect, members)
}
