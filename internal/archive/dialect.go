// Package archive implements the directory-based container shared by every
// resource archive format.
//
// A [Dialect] describes one on-disk flavour: its magic, header, entry
// layout and where the directory sits relative to the member data. The
// [Container] built on top of it provides listing, lookup, member reads,
// extraction to disk and deterministic building from an ordered member
// list.
package archive

import (
	"github.com/robert-malhotra/go-vgio/internal/binary"
)

// Placement is where the directory sits relative to the member data.
type Placement uint8

const (
	// Leading directories follow the header and precede the data.
	Leading Placement = iota
	// Trailing directories follow the data.
	Trailing
)

// Header holds the values a dialect writes into its header.
type Header struct {
	Count     int
	DirOffset int64
	DirSize   int64
}

// Entry is one directory entry.
type Entry struct {
	Name   string
	Offset int64
	// Size is the logical size of the member.
	Size int64
	// DiskSize is the number of bytes stored at Offset. It differs from
	// Size only for compressed members.
	DiskSize int64

	// Optional metadata; zero when the dialect does not store it.
	Type        int64
	Compression int64
	Timestamp   int64

	// Index is the entry's position in the directory.
	Index int
}

// Dialect is one archive flavour.
type Dialect interface {
	Name() string
	Magic() []byte
	// HeaderSize is the fixed size of the header including the magic.
	HeaderSize() int
	Placement() Placement

	// ReadDirectory decodes the header and directory. r spans the whole
	// archive and is positioned just past the magic.
	ReadDirectory(r *binary.Reader) ([]Entry, error)

	// DirectorySize returns the encoded size of the directory for entries.
	DirectorySize(entries []Entry) int64
	WriteDirectory(w *binary.Writer, entries []Entry) error
	// WriteHeader writes the magic and header at w's position.
	WriteHeader(w *binary.Writer, h Header) error

	// ValidateName reports whether name can be stored in the directory.
	ValidateName(name string) error
}

// ExtractNamer is implemented by dialects that derive the on-disk file
// name of an extracted member from more than its directory name.
type ExtractNamer interface {
	ExtractName(e Entry) string
}

// DiskSizer is implemented by dialects whose directory stores a member's
// logical size apart from its stored size. Build rejects a Member.Size
// that differs from len(Data) for every other dialect.
type DiskSizer interface {
	SeparateDiskSize() bool
}

// ExtractFilter is implemented by dialects with entries that are not
// written out by ExtractAll, such as directory markers.
type ExtractFilter interface {
	Extractable(e Entry) bool
}
