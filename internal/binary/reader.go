// Package binary provides the bounded, position-tracking cursor that every
// record and archive codec reads and writes through.
package binary

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-vgio/internal/errs"
)

// Reader is a cursor over a byte buffer. All multi-byte values are
// little-endian. The base offset is the absolute position of buf[0] in the
// outermost source, so offsets reported in errors are file offsets even for
// child cursors.
type Reader struct {
	buf  []byte
	base int64
	pos  int64
}

// NewReader creates a reader positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// At returns a new reader positioned at the given offset relative to this
// reader's buffer. The new reader shares the buffer but has an independent
// position.
func (r *Reader) At(offset int64) *Reader {
	return &Reader{
		buf:  r.buf,
		base: r.base,
		pos:  offset,
	}
}

// Sub returns a child reader bounded to [offset, offset+n) of this reader's
// buffer. Reads on the child can never see bytes outside that window.
func (r *Reader) Sub(offset, n int64) (*Reader, error) {
	if offset < 0 || n < 0 || offset > int64(len(r.buf)) || n > int64(len(r.buf))-offset {
		return nil, errors.Wrapf(errs.ErrOutOfBounds,
			"region [%d, %d) exceeds buffer of %d bytes", r.base+offset, r.base+offset+n, r.base+int64(len(r.buf)))
	}
	return &Reader{
		buf:  r.buf[offset : offset+n],
		base: r.base + offset,
	}, nil
}

// Pos returns the current read position relative to this reader's buffer.
func (r *Reader) Pos() int64 {
	return r.pos
}

// Abs returns the current position as an absolute source offset.
func (r *Reader) Abs() int64 {
	return r.base + r.pos
}

// Base returns the absolute offset of the first byte of the buffer.
func (r *Reader) Base() int64 {
	return r.base
}

// Len returns the size of the underlying buffer.
func (r *Reader) Len() int64 {
	return int64(len(r.buf))
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int64 {
	if r.pos >= int64(len(r.buf)) {
		return 0
	}
	return int64(len(r.buf)) - r.pos
}

func (r *Reader) need(n int) error {
	if n < 0 || int64(n) > r.Remaining() {
		return errors.Wrapf(errs.ErrOutOfBounds,
			"need %d bytes at offset %d, %d remaining", n, r.Abs(), r.Remaining())
	}
	return nil
}

// next returns a view of the next n bytes and advances past them.
func (r *Reader) next(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.buf[r.pos : r.pos+int64(n)]
	r.pos += int64(n)
	return b, nil
}

// ReadBytes reads exactly n bytes from the current position. The returned
// slice is a copy and does not alias the source.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	b, err := r.next(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// ReadUint8 reads an unsigned 8-bit integer.
func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadInt8 reads a signed 8-bit integer.
func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}

// ReadUint16 reads an unsigned 16-bit integer.
func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.next(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadInt16 reads a signed 16-bit integer.
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadUint32 reads an unsigned 32-bit integer.
func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadInt32 reads a signed 32-bit integer.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadFloat32 reads an IEEE 754 single-precision float.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadPaddedString reads n bytes and truncates at the first NUL. A string
// that fills all n bytes without a terminator is returned whole.
func (r *Reader) ReadPaddedString(n int) (string, error) {
	b, err := r.next(n)
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b), nil
}

// ReadCString reads a NUL-terminated string of at most max bytes (excluding
// the terminator). The terminator is consumed.
func (r *Reader) ReadCString(max int) (string, error) {
	rest := r.buf[min(r.pos, int64(len(r.buf))):]
	i := bytes.IndexByte(rest, 0)
	if i < 0 {
		return "", errors.Wrapf(errs.ErrOutOfBounds, "unterminated string at offset %d", r.Abs())
	}
	if i > max {
		return "", errors.Wrapf(errs.ErrInvalidFormat, "string at offset %d exceeds %d bytes", r.Abs(), max)
	}
	s := string(rest[:i])
	r.pos += int64(i) + 1
	return s, nil
}

// Peek returns the next n bytes without advancing the position. The slice
// aliases the source and must not be modified.
func (r *Reader) Peek(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	return r.buf[r.pos : r.pos+int64(n)], nil
}

// Skip advances the position by n bytes.
func (r *Reader) Skip(n int) error {
	if _, err := r.next(n); err != nil {
		return err
	}
	return nil
}
