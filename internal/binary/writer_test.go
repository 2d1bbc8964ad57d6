package binary

import (
	"bytes"
	"errors"
	"testing"

	"github.com/robert-malhotra/go-vgio/internal/errs"
)

func TestNewWriter(t *testing.T) {
	w := NewWriter(NewBuffer())

	if w.Pos() != 0 {
		t.Errorf("expected initial position 0, got %d", w.Pos())
	}
}

func TestWriterAt(t *testing.T) {
	w := NewWriter(NewBuffer())

	w2 := w.At(32)
	if w2.Pos() != 32 {
		t.Errorf("expected position 32, got %d", w2.Pos())
	}
	// Original writer should be unchanged
	if w.Pos() != 0 {
		t.Errorf("expected original position 0, got %d", w.Pos())
	}
}

func TestWriterIntegers(t *testing.T) {
	buf := NewBuffer()
	w := NewWriter(buf)

	w.WriteUint8(0x42)
	w.WriteInt8(-1)
	w.WriteUint16(0x0102)
	w.WriteInt16(-2)
	w.WriteUint32(0x12345678)
	w.WriteInt32(-3)

	expected := []byte{
		0x42,
		0xFF,
		0x02, 0x01,
		0xFE, 0xFF,
		0x78, 0x56, 0x34, 0x12,
		0xFD, 0xFF, 0xFF, 0xFF,
	}
	if !bytes.Equal(buf.Bytes(), expected) {
		t.Errorf("expected %x, got %x", expected, buf.Bytes())
	}
	if w.Pos() != int64(len(expected)) {
		t.Errorf("expected position %d, got %d", len(expected), w.Pos())
	}
}

func TestWriterFloat32RoundTrip(t *testing.T) {
	buf := NewBuffer()
	if err := NewWriter(buf).WriteFloat32(-0.25); err != nil {
		t.Fatalf("WriteFloat32 failed: %v", err)
	}

	v, err := NewReader(buf.Bytes()).ReadFloat32()
	if err != nil {
		t.Fatalf("ReadFloat32 failed: %v", err)
	}
	if v != -0.25 {
		t.Errorf("expected -0.25, got %v", v)
	}
}

func TestWriterPaddedString(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		width    int
		expected []byte
	}{
		{"short", "LOGO.ANM", 12, []byte("LOGO.ANM\x00\x00\x00\x00")},
		{"exact", "TILES000.ART", 12, []byte("TILES000.ART")},
		{"empty", "", 4, []byte{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := NewBuffer()
			if err := NewWriter(buf).WritePaddedString(tt.s, tt.width); err != nil {
				t.Fatalf("WritePaddedString failed: %v", err)
			}
			if !bytes.Equal(buf.Bytes(), tt.expected) {
				t.Errorf("expected %q, got %q", tt.expected, buf.Bytes())
			}
		})
	}
}

func TestWriterPaddedStringOverflow(t *testing.T) {
	buf := NewBuffer()
	w := NewWriter(buf)

	err := w.WritePaddedString("THIRTEEN.CHAR", 12)
	if !errors.Is(err, errs.ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("overflowing write produced %d bytes", buf.Len())
	}
}

func TestWriterCString(t *testing.T) {
	buf := NewBuffer()
	w := NewWriter(buf)

	if err := w.WriteCString("mesh"); err != nil {
		t.Fatalf("WriteCString failed: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), []byte("mesh\x00")) {
		t.Errorf("expected mesh\\x00, got %q", buf.Bytes())
	}

	if err := w.WriteCString("a\x00b"); !errors.Is(err, errs.ErrEncoding) {
		t.Errorf("expected ErrEncoding, got %v", err)
	}
}

func TestWriterBackpatch(t *testing.T) {
	buf := NewBuffer()
	w := NewWriter(buf)

	// Placeholder header, then data, then patch the header.
	w.WriteZeros(4)
	w.WriteBytes([]byte("data"))
	if err := w.At(0).WriteUint32(uint32(w.Pos())); err != nil {
		t.Fatalf("backpatch failed: %v", err)
	}

	expected := []byte{8, 0, 0, 0, 'd', 'a', 't', 'a'}
	if !bytes.Equal(buf.Bytes(), expected) {
		t.Errorf("expected %x, got %x", expected, buf.Bytes())
	}
}

func TestBufferGap(t *testing.T) {
	buf := NewBuffer()
	w := NewWriter(buf).At(4)
	w.WriteUint8(0xAA)

	expected := []byte{0, 0, 0, 0, 0xAA}
	if !bytes.Equal(buf.Bytes(), expected) {
		t.Errorf("expected %x, got %x", expected, buf.Bytes())
	}
}

func TestBufferGrowth(t *testing.T) {
	buf := NewBuffer()
	w := NewWriter(buf)
	for i := 0; i < 1000; i++ {
		w.WriteUint8(uint8(i))
	}
	if buf.Len() != 1000 {
		t.Fatalf("expected 1000 bytes, got %d", buf.Len())
	}
	for i, b := range buf.Bytes() {
		if b != uint8(i) {
			t.Fatalf("byte %d: expected %d, got %d", i, uint8(i), b)
		}
	}
}

func TestWriterFixedBytes(t *testing.T) {
	buf := NewBuffer()
	w := NewWriter(buf)

	if err := w.WriteFixedBytes([]byte{1, 2}, 4); err != nil {
		t.Fatalf("WriteFixedBytes failed: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), []byte{1, 2, 0, 0}) {
		t.Errorf("expected 01020000, got %x", buf.Bytes())
	}
	if err := w.WriteFixedBytes([]byte{1, 2, 3}, 2); !errors.Is(err, errs.ErrOverflow) {
		t.Errorf("expected ErrOverflow, got %v", err)
	}
}
