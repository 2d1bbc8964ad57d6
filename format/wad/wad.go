// Package wad reads and writes Quake WAD2 and Half-Life WAD3 texture
// archives.
//
// The header is a 4-byte magic, an int32 entry count and an int32
// directory offset. Each 32-byte entry holds an int32 offset, int32
// on-disk size, int32 decoded size, a type byte, a compression byte, two
// reserved bytes and a 16-byte name. Compressed lumps are listed with
// their type and flag but never decompressed.
package wad

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-vgio/internal/archive"
	"github.com/robert-malhotra/go-vgio/internal/binary"
	"github.com/robert-malhotra/go-vgio/internal/errs"
	"github.com/robert-malhotra/go-vgio/internal/record"
)

// NameSize is the width of an entry name.
const NameSize = 16

const headerSize = 12

// Compression flags.
const (
	CompressionNone = 0
	CompressionLZSS = 1
)

// Lump types shared by both versions.
const (
	TypeNone    = 0
	TypeLabel   = 1
	TypePalette = 64
	TypeQPic    = 66
)

// WAD2 lump types.
const (
	TypeQTex   = 65
	TypeSound  = 67
	TypeMipTex = 68
)

// WAD3 lump types.
const (
	TypeColormap  = 65
	TypeMipTex3   = 67
	TypeRaw       = 68
	TypeColormap2 = 69
	TypeFont      = 70
)

var entryLayout = record.MustLayout("wad entry",
	record.I32("offset"),
	record.I32("disk_size"),
	record.I32("size"),
	record.U8("type"),
	record.U8("compression"),
	record.Raw("pad", 2),
	record.Str("name", NameSize),
)

// Dialect is one WAD version.
type Dialect struct {
	name   string
	magic  string
	mipTex int64
}

var (
	// WAD2 is the Quake texture archive.
	WAD2 = &Dialect{name: "wad2", magic: "WAD2", mipTex: TypeMipTex}
	// WAD3 is the Half-Life texture archive.
	WAD3 = &Dialect{name: "wad3", magic: "WAD3", mipTex: TypeMipTex3}
)

func (d *Dialect) Name() string                 { return d.name }
func (d *Dialect) Magic() []byte                { return []byte(d.magic) }
func (d *Dialect) HeaderSize() int              { return headerSize }
func (d *Dialect) Placement() archive.Placement { return archive.Trailing }

// MipTexType returns the lump type this version uses for mip textures.
func (d *Dialect) MipTexType() int64 {
	return d.mipTex
}

// SeparateDiskSize reports that entries store the decoded and on-disk
// sizes separately.
func (d *Dialect) SeparateDiskSize() bool {
	return true
}

func (d *Dialect) ReadDirectory(r *binary.Reader) ([]archive.Entry, error) {
	count, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	offset, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if count < 0 || offset < 0 {
		return nil, errors.Wrapf(errs.ErrInvalidFormat, "%d entries at offset %d", count, offset)
	}

	if int64(offset) > r.Len() {
		return nil, errors.Wrapf(errs.ErrOutOfBounds, "directory offset %d past end of %d bytes", offset, r.Len())
	}
	recs, err := record.DecodeSequence(r.At(int64(offset)), entryLayout, int(count))
	if err != nil {
		return nil, err
	}

	entries := make([]archive.Entry, len(recs))
	for i, rec := range recs {
		entries[i] = archive.Entry{
			Name:        rec.String("name"),
			Offset:      rec.Int("offset"),
			Size:        rec.Int("size"),
			DiskSize:    rec.Int("disk_size"),
			Type:        rec.Int("type"),
			Compression: rec.Int("compression"),
		}
	}
	return entries, nil
}

func (d *Dialect) DirectorySize(entries []archive.Entry) int64 {
	return int64(len(entries) * entryLayout.Size())
}

func (d *Dialect) WriteDirectory(w *binary.Writer, entries []archive.Entry) error {
	recs := make([]record.Record, len(entries))
	for i, e := range entries {
		recs[i] = record.Record{
			"offset":      e.Offset,
			"disk_size":   e.DiskSize,
			"size":        e.Size,
			"type":        e.Type,
			"compression": e.Compression,
			"pad":         []byte{0, 0},
			"name":        e.Name,
		}
	}
	return record.EncodeSequence(w, entryLayout, recs, len(entries))
}

func (d *Dialect) WriteHeader(w *binary.Writer, h archive.Header) error {
	if err := w.WriteBytes(d.Magic()); err != nil {
		return err
	}
	if err := record.WriteScalar(w, record.Int32, int64(h.Count)); err != nil {
		return errors.WithMessage(err, "entry count")
	}
	return errors.WithMessage(record.WriteScalar(w, record.Int32, h.DirOffset), "directory offset")
}

func (d *Dialect) ValidateName(name string) error {
	if name == "" {
		return errors.Wrap(errs.ErrEncoding, "empty lump name")
	}
	if len(name) > NameSize {
		return errors.Wrapf(errs.ErrEncoding, "lump name %q longer than %d bytes", name, NameSize)
	}
	return nil
}

// Is reports whether data starts with the dialect's magic.
func (d *Dialect) Is(data []byte) bool {
	return bytes.HasPrefix(data, d.Magic())
}

// Open parses a WAD2 or WAD3 archive, choosing the dialect by magic.
func Open(data []byte) (*archive.Container, error) {
	if WAD3.Is(data) {
		return archive.Open(data, WAD3)
	}
	return archive.Open(data, WAD2)
}

// Build writes an archive of dialect d holding members in order.
func Build(d *Dialect, members []archive.Member) ([]byte, error) {
	return archive.Build(d, members)
}
