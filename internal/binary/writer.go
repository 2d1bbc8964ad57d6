package binary

import (
	"encoding/binary"
	"io"
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-vgio/internal/errs"
)

// Writer is the write-side mirror of Reader. It writes through an
// io.WriterAt so that headers can be backpatched after the data they
// describe has been laid out.
type Writer struct {
	w   io.WriterAt
	pos int64
}

// NewWriter creates a writer positioned at offset 0 of w.
func NewWriter(w io.WriterAt) *Writer {
	return &Writer{w: w}
}

// At returns a new writer positioned at the given offset.
// The new writer shares the underlying io.WriterAt but has independent position.
func (w *Writer) At(offset int64) *Writer {
	return &Writer{
		w:   w.w,
		pos: offset,
	}
}

// Pos returns the current write position.
func (w *Writer) Pos() int64 {
	return w.pos
}

// WriteBytes writes the given bytes at the current position.
func (w *Writer) WriteBytes(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	n, err := w.w.WriteAt(data, w.pos)
	w.pos += int64(n)
	return err
}

// WriteUint8 writes an unsigned 8-bit integer.
func (w *Writer) WriteUint8(v uint8) error {
	return w.WriteBytes([]byte{v})
}

// WriteInt8 writes a signed 8-bit integer.
func (w *Writer) WriteInt8(v int8) error {
	return w.WriteUint8(uint8(v))
}

// WriteUint16 writes an unsigned 16-bit integer.
func (w *Writer) WriteUint16(v uint16) error {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, v)
	return w.WriteBytes(buf)
}

// WriteInt16 writes a signed 16-bit integer.
func (w *Writer) WriteInt16(v int16) error {
	return w.WriteUint16(uint16(v))
}

// WriteUint32 writes an unsigned 32-bit integer.
func (w *Writer) WriteUint32(v uint32) error {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, v)
	return w.WriteBytes(buf)
}

// WriteInt32 writes a signed 32-bit integer.
func (w *Writer) WriteInt32(v int32) error {
	return w.WriteUint32(uint32(v))
}

// WriteFloat32 writes an IEEE 754 single-precision float.
func (w *Writer) WriteFloat32(v float32) error {
	return w.WriteUint32(math.Float32bits(v))
}

// WriteFixedBytes writes data zero-padded to exactly n bytes.
func (w *Writer) WriteFixedBytes(data []byte, n int) error {
	if len(data) > n {
		return errors.Wrapf(errs.ErrOverflow, "%d bytes do not fit in %d", len(data), n)
	}
	buf := make([]byte, n)
	copy(buf, data)
	return w.WriteBytes(buf)
}

// WritePaddedString writes s zero-padded to exactly n bytes. A string that
// fills all n bytes is written without a terminator.
func (w *Writer) WritePaddedString(s string, n int) error {
	if len(s) > n {
		return errors.Wrapf(errs.ErrOverflow, "string %q is %d bytes, field holds %d", s, len(s), n)
	}
	return w.WriteFixedBytes([]byte(s), n)
}

// WriteCString writes s followed by a NUL terminator.
func (w *Writer) WriteCString(s string) error {
	if strings.IndexByte(s, 0) >= 0 {
		return errors.Wrapf(errs.ErrEncoding, "string %q contains NUL", s)
	}
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return w.WriteBytes(buf)
}

// Skip advances the position by n bytes without writing.
func (w *Writer) Skip(n int64) {
	w.pos += n
}

// WriteZeros writes n zero bytes.
func (w *Writer) WriteZeros(n int) error {
	if n <= 0 {
		return nil
	}
	zeros := make([]byte, n)
	return w.WriteBytes(zeros)
}

// Buffer is a growable in-memory io.WriterAt. Writes past the end extend
// the buffer, zero-filling any gap.
type Buffer struct {
	buf []byte
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// WriteAt implements io.WriterAt.
func (b *Buffer) WriteAt(p []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, errors.Wrapf(errs.ErrOutOfBounds, "negative write offset %d", off)
	}
	end := int(off) + len(p)
	if end > len(b.buf) {
		if end > cap(b.buf) {
			newBuf := make([]byte, end, max(end, 2*cap(b.buf)))
			copy(newBuf, b.buf)
			b.buf = newBuf
		} else {
			b.buf = b.buf[:end]
		}
	}
	copy(b.buf[off:], p)
	return len(p), nil
}

// Bytes returns the buffer contents.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

// Len returns the number of bytes written so far, including gaps.
func (b *Buffer) Len() int {
	return len(b.buf)
}
