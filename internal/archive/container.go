package archive

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-vgio/internal/binary"
	"github.com/robert-malhotra/go-vgio/internal/errs"
)

// Source is a read-only byte source that owns a resource, such as a
// memory-mapped file.
type Source interface {
	Bytes() []byte
	io.Closer
}

// Container is an opened archive.
type Container struct {
	dialect Dialect
	data    []byte
	src     Source
	entries []Entry
	closed  bool
}

// Open parses the directory of data. Member bytes are not copied.
func Open(data []byte, d Dialect) (*Container, error) {
	magic := d.Magic()
	if len(data) < len(magic) || !bytes.Equal(data[:len(magic)], magic) {
		n := min(len(data), len(magic))
		return nil, errors.Wrapf(errs.ErrInvalidFormat, "%s: bad magic %q, expected %q", d.Name(), data[:n], magic)
	}

	r := binary.NewReader(data).At(int64(len(magic)))
	entries, err := d.ReadDirectory(r)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s directory", d.Name())
	}
	for i := range entries {
		entries[i].Index = i
	}

	return &Container{
		dialect: d,
		data:    data,
		entries: entries,
	}, nil
}

// OpenSource is like Open but takes ownership of src: it is closed with the
// container, or immediately if the directory cannot be read.
func OpenSource(src Source, d Dialect) (*Container, error) {
	c, err := Open(src.Bytes(), d)
	if err != nil {
		src.Close()
		return nil, err
	}
	c.src = src
	return c, nil
}

// Close releases the backing source. It is safe to call more than once.
func (c *Container) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.data = nil
	if c.src != nil {
		return c.src.Close()
	}
	return nil
}

// Dialect returns the container's dialect.
func (c *Container) Dialect() Dialect {
	return c.dialect
}

// Size returns the size of the archive in bytes.
func (c *Container) Size() int64 {
	return int64(len(c.data))
}

// Names returns the member names in directory order.
func (c *Container) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns a copy of the directory.
func (c *Container) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Entry returns the first directory entry named name.
func (c *Container) Entry(name string) (Entry, error) {
	for _, e := range c.entries {
		if e.Name == name {
			return e, nil
		}
	}
	return Entry{}, errors.Wrapf(errs.ErrMemberNotFound, "%s: %q", c.dialect.Name(), name)
}

func (c *Container) region(e Entry) ([]byte, error) {
	if c.closed {
		return nil, errs.ErrClosed
	}
	n := e.DiskSize
	if e.Offset < 0 || n < 0 || e.Offset > int64(len(c.data)) || n > int64(len(c.data))-e.Offset {
		return nil, errors.Wrapf(errs.ErrTruncatedMember, "%s: member %q [%d, %d) exceeds archive of %d bytes",
			c.dialect.Name(), e.Name, e.Offset, e.Offset+n, len(c.data))
	}
	return c.data[e.Offset : e.Offset+n], nil
}

// ReadMember returns a copy of the named member's stored bytes. For
// compressed members these are the compressed bytes.
func (c *Container) ReadMember(name string) ([]byte, error) {
	e, err := c.Entry(name)
	if err != nil {
		return nil, err
	}
	return c.ReadEntry(e)
}

// ReadEntry returns a copy of the bytes e refers to.
func (c *Container) ReadEntry(e Entry) ([]byte, error) {
	b, err := c.region(e)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// OpenMember returns a reader over the named member without copying it.
// The reader is only valid until the container is closed.
func (c *Container) OpenMember(name string) (*io.SectionReader, error) {
	e, err := c.Entry(name)
	if err != nil {
		return nil, err
	}
	b, err := c.region(e)
	if err != nil {
		return nil, err
	}
	return io.NewSectionReader(bytes.NewReader(b), 0, int64(len(b))), nil
}
