package vgio

import (
	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-vgio/internal/archive"
)

// Archive is the read interface shared by every archive dialect.
type Archive interface {
	Names() []string
	Entries() []Entry
	Entry(name string) (Entry, error)
	ReadMember(name string) ([]byte, error)
	ExtractAll(dest string, opts ...ExtractOption) ([]string, error)
	Close() error
}

type (
	// Container is the concrete Archive returned by Open and OpenArchive.
	Container = archive.Container
	// Entry is one directory entry.
	Entry = archive.Entry
	// Member is one input to Build.
	Member = archive.Member
	// ExtractOption configures ExtractAll.
	ExtractOption = archive.ExtractOption
)

var _ Archive = (*Container)(nil)

// Extraction options.
var (
	WithContinueOnError = archive.WithContinueOnError
	WithLogger          = archive.WithLogger
	WithMembers         = archive.WithMembers
)

// OpenArchive parses the archive held in buf, detecting its dialect.
// Member bytes alias buf.
func OpenArchive(buf []byte) (*Container, error) {
	k, err := Detect(buf)
	if err != nil {
		return nil, err
	}
	return openKind(buf, k)
}

func openKind(buf []byte, k Kind) (*Container, error) {
	d := k.Dialect()
	if d == nil {
		return nil, errors.Wrapf(ErrInvalidFormat, "%s is not an archive format", k)
	}
	return archive.Open(buf, d)
}

// Open maps the archive at path and parses its directory. The mapping is
// released by Close.
func Open(path string, opts ...OpenOption) (*Container, error) {
	o := defaultOpenOptions()
	for _, opt := range opts {
		opt(o)
	}

	src, err := OpenFile(path, opts...)
	if err != nil {
		return nil, err
	}

	k := o.kind
	if k == KindUnknown {
		if k, err = Detect(src.Bytes()); err != nil {
			src.Close()
			return nil, errors.WithMessage(err, path)
		}
	}
	d := k.Dialect()
	if d == nil {
		src.Close()
		return nil, errors.Wrapf(ErrInvalidFormat, "%s: %s is not an archive format", path, k)
	}

	c, err := archive.OpenSource(src, d)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return c, nil
}

// Build writes an archive of kind k holding members in order.
func Build(k Kind, members []Member) ([]byte, error) {
	d := k.Dialect()
	if d == nil {
		return nil, errors.Wrapf(ErrInvalidFormat, "%s is not an archive format", k)
	}
	return archive.Build(d, members)
}
