package record

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-vgio/internal/binary"
	"github.com/robert-malhotra/go-vgio/internal/errs"
)

var entryLayout = MustLayout("entry",
	Str("name", 12),
	U32("size"),
)

var vertexLayout = MustLayout("vertex",
	Array(U8("v"), 3),
	U8("normal"),
	Array(F32("scale"), 2),
	I16("flags"),
	Raw("pad", 2),
)

func encode(t *testing.T, l *Layout, recs ...Record) []byte {
	t.Helper()
	buf := binary.NewBuffer()
	require.NoError(t, EncodeSequence(binary.NewWriter(buf), l, recs, -1))
	return buf.Bytes()
}

func TestNewLayoutSize(t *testing.T) {
	assert.Equal(t, 16, entryLayout.Size())
	assert.Equal(t, 3+1+8+2+2, vertexLayout.Size())

	f, ok := vertexLayout.Field("scale")
	require.True(t, ok)
	assert.Equal(t, 8, f.Width())
}

func TestNewLayoutRejectsBadFields(t *testing.T) {
	tests := []struct {
		name   string
		fields []Field
	}{
		{"duplicate", []Field{I32("a"), I32("a")}},
		{"unnamed", []Field{I32("")}},
		{"zero width string", []Field{Str("s", 0)}},
		{"negative count", []Field{Array(I32("a"), -1)}},
		{"unknown kind", []Field{{Name: "a", Kind: 99}}},
		{"repeated string", []Field{Array(Str("s", 4), 2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLayout("bad", tt.fields...)
			assert.Error(t, err)
		})
	}
}

func TestDecodeEntry(t *testing.T) {
	data := []byte("TILES000.ART\x00\x04\x00\x00")
	rec, err := Decode(binary.NewReader(data), entryLayout)
	require.NoError(t, err)

	assert.Equal(t, "TILES000.ART", rec.String("name"))
	assert.Equal(t, int64(1024), rec.Int("size"))
}

func TestRoundTripArrays(t *testing.T) {
	rec := Record{
		"v":      []int64{1, 2, 255},
		"normal": int64(7),
		"scale":  []float32{0.5, -2},
		"flags":  int64(-3),
		"pad":    []byte{0xAB, 0xCD},
	}

	data := encode(t, vertexLayout, rec)
	require.Len(t, data, vertexLayout.Size())

	got, err := Decode(binary.NewReader(data), vertexLayout)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestEncodeAcceptsGoIntegers(t *testing.T) {
	data := encode(t, entryLayout, Record{"name": "A", "size": 12})
	got, err := Decode(binary.NewReader(data), entryLayout)
	require.NoError(t, err)
	assert.Equal(t, int64(12), got.Int("size"))
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
	}{
		{"missing field", Record{"name": "A"}},
		{"wrong type", Record{"name": "A", "size": "big"}},
		{"negative unsigned", Record{"name": "A", "size": int64(-1)}},
		{"too large", Record{"name": "A", "size": int64(1) << 32}},
		{"long string", Record{"name": "THIRTEEN.CHAR", "size": int64(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := binary.NewBuffer()
			err := Encode(binary.NewWriter(buf), entryLayout, tt.rec)
			assert.True(t, errors.Is(err, errs.ErrEncoding), "expected ErrEncoding, got %v", err)
			assert.Zero(t, buf.Len(), "failed encode wrote bytes")
		})
	}
}

func TestEncodeLongStringIsOverflow(t *testing.T) {
	err := Encode(binary.NewWriter(binary.NewBuffer()), entryLayout, Record{"name": "THIRTEEN.CHAR", "size": 0})
	assert.ErrorIs(t, err, errs.ErrEncoding)
	assert.ErrorIs(t, err, errs.ErrOverflow)
	assert.Contains(t, err.Error(), "entry.name")
	var encErr *errs.EncodingError
	assert.ErrorAs(t, err, &encErr)
}

func TestEncodeArrayLength(t *testing.T) {
	rec := vertexLayout.Zero()
	rec.Set("v", []int64{1, 2})

	err := Encode(binary.NewWriter(binary.NewBuffer()), vertexLayout, rec)
	assert.ErrorIs(t, err, errs.ErrEncoding)
}

func TestDecodeSequenceOutOfBounds(t *testing.T) {
	// Two full entries, count claims three.
	data := encode(t, entryLayout,
		Record{"name": "A", "size": 1},
		Record{"name": "B", "size": 2},
	)

	recs, err := DecodeSequence(binary.NewReader(data), entryLayout, 3)
	assert.ErrorIs(t, err, errs.ErrOutOfBounds)
	assert.Nil(t, recs)
}

func TestDecodeSequenceNegativeCount(t *testing.T) {
	_, err := DecodeSequence(binary.NewReader(nil), entryLayout, -1)
	assert.ErrorIs(t, err, errs.ErrInvalidFormat)
}

func TestDecodeSequenceEmpty(t *testing.T) {
	recs, err := DecodeSequence(binary.NewReader(nil), entryLayout, 0)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestEncodeSequenceCountMismatch(t *testing.T) {
	recs := []Record{{"name": "A", "size": 1}}

	err := EncodeSequence(binary.NewWriter(binary.NewBuffer()), entryLayout, recs, 2)
	assert.ErrorIs(t, err, errs.ErrCountMismatch)
}

func TestCountedRoundTrip(t *testing.T) {
	recs := []Record{
		{"name": "LOGO.ANM", "size": int64(2048)},
		{"name": "TILES000.ART", "size": int64(1024)},
	}

	buf := binary.NewBuffer()
	require.NoError(t, EncodeCounted(binary.NewWriter(buf), Int16, entryLayout, recs))
	assert.Equal(t, []byte{2, 0}, buf.Bytes()[:2])

	got, err := DecodeCounted(binary.NewReader(buf.Bytes()), Int16, entryLayout)
	require.NoError(t, err)
	assert.Equal(t, recs, got)
}

func TestDecodeErrorCarriesOffset(t *testing.T) {
	data := make([]byte, 20)
	r := binary.NewReader(data).At(10)

	_, err := Decode(r, entryLayout)
	require.ErrorIs(t, err, errs.ErrOutOfBounds)
	assert.Contains(t, err.Error(), "offset 10")
}

func TestWriteScalarRange(t *testing.T) {
	w := binary.NewWriter(binary.NewBuffer())

	assert.NoError(t, WriteScalar(w, Int8, -128))
	assert.ErrorIs(t, WriteScalar(w, Int8, 128), errs.ErrEncoding)
	assert.NoError(t, WriteScalar(w, Uint16, 65535))
	assert.ErrorIs(t, WriteScalar(w, Uint16, 65536), errs.ErrEncoding)
}

func TestRecordClone(t *testing.T) {
	rec := Record{"v": []int64{1, 2, 3}}
	c := rec.Clone()
	c.Ints("v")[0] = 9
	assert.Equal(t, int64(1), rec.Ints("v")[0])
}
