// Package hxrg reads and writes Devil Daggers resource groups.
//
// The header is the 8-byte magic ":hx:rg:\x01" and an int32 directory
// size. The directory follows immediately: variable-length entries of an
// int16 resource type, a NUL-terminated name, and int32 offset, size and
// timestamp, closed by a single NUL byte. Offsets are absolute.
package hxrg

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-vgio/internal/archive"
	"github.com/robert-malhotra/go-vgio/internal/binary"
	"github.com/robert-malhotra/go-vgio/internal/errs"
	"github.com/robert-malhotra/go-vgio/internal/record"
)

// Magic identifies a resource group.
const Magic = ":hx:rg:\x01"

const headerSize = len(Magic) + 4

// entryTail follows the type and name of every entry.
var entryTail = record.MustLayout("hxrg entry",
	record.I32("offset"),
	record.I32("size"),
	record.I32("timestamp"),
)

// Resource types.
const (
	TypeMesh     = 0x01
	TypeTexture  = 0x02
	TypeShader   = 0x10
	TypeAudio    = 0x20
	TypeMaterial = 0x80

	// TypeDirectory entries mark directories and hold no data.
	TypeDirectory = 0x11
)

var extensions = map[int64]string{
	TypeMesh:     ".mesh",
	TypeTexture:  ".texture",
	TypeShader:   ".shader",
	TypeAudio:    ".wav",
	TypeMaterial: ".material",
}

type dialect struct{}

// Dialect is the resource group dialect.
var Dialect archive.Dialect = dialect{}

func (dialect) Name() string                 { return "hxrg" }
func (dialect) Magic() []byte                { return []byte(Magic) }
func (dialect) HeaderSize() int              { return headerSize }
func (dialect) Placement() archive.Placement { return archive.Leading }

func (dialect) ReadDirectory(r *binary.Reader) ([]archive.Entry, error) {
	size, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, errors.Wrapf(errs.ErrInvalidFormat, "negative directory size %d", size)
	}
	dir, err := r.Sub(r.Pos(), int64(size))
	if err != nil {
		return nil, err
	}

	var entries []archive.Entry
	for {
		next, err := dir.Peek(1)
		if err != nil {
			return nil, errors.Wrapf(errs.ErrInvalidFormat, "directory of %d bytes has no terminator", size)
		}
		if next[0] == 0 {
			break
		}
		e, err := readEntry(dir)
		if err != nil {
			return nil, errors.WithMessagef(err, "entry %d", len(entries))
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func readEntry(r *binary.Reader) (archive.Entry, error) {
	typ, err := r.ReadInt16()
	if err != nil {
		return archive.Entry{}, err
	}
	name, err := r.ReadCString(int(r.Remaining()))
	if err != nil {
		return archive.Entry{}, err
	}
	tail, err := record.Decode(r, entryTail)
	if err != nil {
		return archive.Entry{}, err
	}
	return archive.Entry{
		Name:      name,
		Type:      int64(typ),
		Offset:    tail.Int("offset"),
		Size:      tail.Int("size"),
		DiskSize:  tail.Int("size"),
		Timestamp: tail.Int("timestamp"),
	}, nil
}

func (dialect) DirectorySize(entries []archive.Entry) int64 {
	n := int64(1)
	for _, e := range entries {
		n += int64(2 + len(e.Name) + 1 + entryTail.Size())
	}
	return n
}

func (dialect) WriteDirectory(w *binary.Writer, entries []archive.Entry) error {
	for _, e := range entries {
		// A zero low byte would read back as the terminator.
		if e.Type&0xff == 0 {
			return errors.Wrapf(errs.ErrEncoding, "member %q: resource type %#x", e.Name, e.Type)
		}
		if err := record.WriteScalar(w, record.Int16, e.Type); err != nil {
			return errors.WithMessagef(err, "member %q type", e.Name)
		}
		if err := w.WriteCString(e.Name); err != nil {
			return err
		}
		tail := record.Record{"offset": e.Offset, "size": e.Size, "timestamp": e.Timestamp}
		if err := record.Encode(w, entryTail, tail); err != nil {
			return errors.WithMessagef(err, "member %q", e.Name)
		}
	}
	return w.WriteUint8(0)
}

func (dialect) WriteHeader(w *binary.Writer, h archive.Header) error {
	if err := w.WriteBytes([]byte(Magic)); err != nil {
		return err
	}
	return errors.WithMessage(record.WriteScalar(w, record.Int32, h.DirSize), "directory size")
}

func (dialect) ValidateName(name string) error {
	if name == "" {
		return errors.Wrap(errs.ErrEncoding, "empty resource name")
	}
	if strings.IndexByte(name, 0) >= 0 {
		return errors.Wrapf(errs.ErrEncoding, "resource name %q contains NUL", name)
	}
	return nil
}

// ExtractName appends the extension of the entry's resource type.
func (dialect) ExtractName(e archive.Entry) string {
	return e.Name + extensions[e.Type]
}

// Extractable skips directory entries.
func (dialect) Extractable(e archive.Entry) bool {
	return e.Type != TypeDirectory
}

// Is reports whether data starts with the resource group magic.
func Is(data []byte) bool {
	return bytes.HasPrefix(data, []byte(Magic))
}

// Open parses a resource group held in data.
func Open(data []byte) (*archive.Container, error) {
	return archive.Open(data, Dialect)
}

// Build writes a resource group holding members in order. Every member
// needs a resource type.
func Build(members []archive.Member) ([]byte, error) {
	return archive.Build(Dialect, members)
}
