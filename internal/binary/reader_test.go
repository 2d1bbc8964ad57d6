package binary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/robert-malhotra/go-vgio/internal/errs"
)

func TestReaderReadUint8(t *testing.T) {
	r := NewReader([]byte{0x42, 0xFF, 0x00})

	v, err := r.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0x42 {
		t.Errorf("expected 0x42, got 0x%02x", v)
	}

	v, err = r.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0xFF {
		t.Errorf("expected 0xFF, got 0x%02x", v)
	}
}

func TestReaderReadUint16(t *testing.T) {
	// Little-endian: 0x0102 stored as [0x02, 0x01]
	r := NewReader([]byte{0x02, 0x01, 0xFF, 0xFF})

	v, err := r.ReadUint16()
	if err != nil {
		t.Fatalf("ReadUint16 failed: %v", err)
	}
	if v != 0x0102 {
		t.Errorf("expected 0x0102, got 0x%04x", v)
	}

	s, err := r.ReadInt16()
	if err != nil {
		t.Fatalf("ReadInt16 failed: %v", err)
	}
	if s != -1 {
		t.Errorf("expected -1, got %d", s)
	}
}

func TestReaderReadUint32(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(0x12345678))
	binary.Write(&buf, binary.LittleEndian, int32(-2))

	r := NewReader(buf.Bytes())

	v, err := r.ReadUint32()
	if err != nil {
		t.Fatalf("ReadUint32 failed: %v", err)
	}
	if v != 0x12345678 {
		t.Errorf("expected 0x12345678, got 0x%08x", v)
	}

	s, err := r.ReadInt32()
	if err != nil {
		t.Fatalf("ReadInt32 failed: %v", err)
	}
	if s != -2 {
		t.Errorf("expected -2, got %d", s)
	}
}

func TestReaderReadFloat32(t *testing.T) {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(1.5))

	v, err := NewReader(buf).ReadFloat32()
	if err != nil {
		t.Fatalf("ReadFloat32 failed: %v", err)
	}
	if v != 1.5 {
		t.Errorf("expected 1.5, got %v", v)
	}
}

func TestReaderReadInt8(t *testing.T) {
	v, err := NewReader([]byte{0xFE}).ReadInt8()
	if err != nil {
		t.Fatalf("ReadInt8 failed: %v", err)
	}
	if v != -2 {
		t.Errorf("expected -2, got %d", v)
	}
}

func TestReaderOutOfBounds(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		read func(r *Reader) error
	}{
		{"uint8", nil, func(r *Reader) error { _, err := r.ReadUint8(); return err }},
		{"uint16", []byte{1}, func(r *Reader) error { _, err := r.ReadUint16(); return err }},
		{"uint32", []byte{1, 2, 3}, func(r *Reader) error { _, err := r.ReadUint32(); return err }},
		{"float32", []byte{1}, func(r *Reader) error { _, err := r.ReadFloat32(); return err }},
		{"bytes", []byte{1}, func(r *Reader) error { _, err := r.ReadBytes(8); return err }},
		{"string", []byte{1}, func(r *Reader) error { _, err := r.ReadPaddedString(8); return err }},
		{"skip", []byte{1}, func(r *Reader) error { return r.Skip(8) }},
		{"negative", []byte{1}, func(r *Reader) error { _, err := r.ReadBytes(-1); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.data)

			err := tt.read(r)
			if !errors.Is(err, errs.ErrOutOfBounds) {
				t.Fatalf("expected ErrOutOfBounds, got %v", err)
			}
			if r.Pos() != 0 {
				t.Errorf("failed read advanced position to %d", r.Pos())
			}
		})
	}
}

func TestReaderReadPaddedString(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		width    int
		expected string
	}{
		{"padded", []byte("LOGO.ANM\x00\x00\x00\x00"), 12, "LOGO.ANM"},
		{"full width", []byte("TILES000.ART"), 12, "TILES000.ART"},
		{"garbage after nul", []byte("ab\x00cd"), 5, "ab"},
		{"empty", []byte{0, 0, 0, 0}, 4, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.data)
			s, err := r.ReadPaddedString(tt.width)
			if err != nil {
				t.Fatalf("ReadPaddedString failed: %v", err)
			}
			if s != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, s)
			}
			if r.Pos() != int64(tt.width) {
				t.Errorf("expected position %d, got %d", tt.width, r.Pos())
			}
		})
	}
}

func TestReaderReadCString(t *testing.T) {
	r := NewReader([]byte("mesh\x00tex\x00rest"))

	s, err := r.ReadCString(64)
	if err != nil {
		t.Fatalf("ReadCString failed: %v", err)
	}
	if s != "mesh" {
		t.Errorf("expected %q, got %q", "mesh", s)
	}
	if r.Pos() != 5 {
		t.Errorf("expected position 5, got %d", r.Pos())
	}

	if _, err := r.ReadCString(2); !errors.Is(err, errs.ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat for long string, got %v", err)
	}

	r = NewReader([]byte("nope"))
	if _, err := r.ReadCString(64); !errors.Is(err, errs.ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds for unterminated string, got %v", err)
	}
}

func TestReaderAt(t *testing.T) {
	r := NewReader([]byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05})

	// Read from offset 3
	r2 := r.At(3)
	v, err := r2.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0x03 {
		t.Errorf("expected 0x03, got 0x%02x", v)
	}

	// Original reader should be unaffected
	v, err = r.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0x00 {
		t.Errorf("expected 0x00, got 0x%02x", v)
	}
}

func TestReaderSub(t *testing.T) {
	r := NewReader([]byte{0, 1, 2, 3, 4, 5, 6, 7})

	sub, err := r.Sub(4, 2)
	if err != nil {
		t.Fatalf("Sub failed: %v", err)
	}
	if sub.Base() != 4 {
		t.Errorf("expected base 4, got %d", sub.Base())
	}

	v, err := sub.ReadUint16()
	if err != nil {
		t.Fatalf("ReadUint16 failed: %v", err)
	}
	if v != 0x0504 {
		t.Errorf("expected 0x0504, got 0x%04x", v)
	}
	if sub.Abs() != 6 {
		t.Errorf("expected absolute position 6, got %d", sub.Abs())
	}

	// The window must stop reads that the parent could satisfy.
	if _, err := sub.ReadUint8(); !errors.Is(err, errs.ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds past window, got %v", err)
	}

	if _, err := r.Sub(6, 4); !errors.Is(err, errs.ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds for oversized window, got %v", err)
	}
	if _, err := r.Sub(-1, 1); !errors.Is(err, errs.ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds for negative offset, got %v", err)
	}
}

func TestReaderPeek(t *testing.T) {
	r := NewReader([]byte{0xAA, 0xBB, 0xCC})

	b, err := r.Peek(2)
	if err != nil {
		t.Fatalf("Peek failed: %v", err)
	}
	if !bytes.Equal(b, []byte{0xAA, 0xBB}) {
		t.Errorf("expected [AA BB], got %x", b)
	}
	if r.Pos() != 0 {
		t.Errorf("Peek advanced position to %d", r.Pos())
	}
}

func TestReaderReadBytesCopies(t *testing.T) {
	src := []byte{1, 2, 3}
	b, err := NewReader(src).ReadBytes(3)
	if err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}
	b[0] = 9
	if src[0] != 1 {
		t.Error("ReadBytes result aliases the source")
	}
}

func TestReaderRemaining(t *testing.T) {
	r := NewReader(make([]byte, 10))
	if r.Remaining() != 10 {
		t.Errorf("expected 10 remaining, got %d", r.Remaining())
	}
	r.Skip(4)
	if r.Remaining() != 6 {
		t.Errorf("expected 6 remaining, got %d", r.Remaining())
	}
	if r.At(20).Remaining() != 0 {
		t.Error("expected 0 remaining past the end")
	}
}
