package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-vgio/internal/binary"
	"github.com/robert-malhotra/go-vgio/internal/errs"
	"github.com/robert-malhotra/go-vgio/internal/record"
)

var (
	pictureLayout = record.MustLayout("picture",
		record.I32("width"),
		record.I32("height"),
	)
	groupLayout = record.MustLayout("group",
		record.I32("count"),
	)
	intervalLayout = record.MustLayout("interval",
		record.F32("interval"),
	)
)

func pixels(head record.Record) ([]Segment, error) {
	return []Segment{{Name: "pixels", Raw: true, Count: int(head.Int("width") * head.Int("height"))}}, nil
}

var pictureTable = NewTable("picture", record.Int32,
	Case{Tag: 0, Name: "single", Layout: pictureLayout, Trailer: pixels},
)

var frameTable = NewTable("frame", record.Int32,
	Case{Tag: 0, Name: "single", Layout: pictureLayout, Trailer: pixels},
	Case{Tag: 1, Name: "group", Layout: groupLayout, Trailer: func(head record.Record) ([]Segment, error) {
		n := int(head.Int("count"))
		return []Segment{
			{Name: "intervals", Layout: intervalLayout, Count: n},
			{Name: "frames", Nested: pictureTable, Count: n},
		}, nil
	}},
)

func single(w, h int64, fill byte) Variant {
	data := make([]byte, w*h)
	for i := range data {
		data[i] = fill
	}
	return Variant{
		Tag:   0,
		Head:  record.Record{"width": w, "height": h},
		Parts: []Part{{Name: "pixels", Data: data}},
	}
}

func encodeAll(t *testing.T, vs ...Variant) []byte {
	t.Helper()
	buf := binary.NewBuffer()
	require.NoError(t, EncodeSequence(binary.NewWriter(buf), frameTable, vs))
	return buf.Bytes()
}

func TestDecodeSingle(t *testing.T) {
	data := []byte{
		0, 0, 0, 0, // tag
		2, 0, 0, 0, // width
		2, 0, 0, 0, // height
		1, 2, 3, 4,
	}

	v, err := Decode(binary.NewReader(data), frameTable)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.Tag)
	assert.Equal(t, []byte{1, 2, 3, 4}, v.Part("pixels").Data)
}

func TestRoundTripGroup(t *testing.T) {
	group := Variant{
		Tag:  1,
		Head: record.Record{"count": int64(2)},
		Parts: []Part{
			{Name: "intervals", Records: []record.Record{{"interval": float32(0.1)}, {"interval": float32(0.2)}}},
			{Name: "frames", Variants: []Variant{single(1, 2, 7), single(2, 1, 9)}},
		},
	}

	data := encodeAll(t, single(1, 1, 5), group)

	got, err := DecodeSequence(binary.NewReader(data), frameTable, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, single(1, 1, 5), got[0])
	assert.Equal(t, group, got[1])

	again := encodeAll(t, got...)
	assert.Equal(t, data, again)
}

func TestUnknownTag(t *testing.T) {
	data := []byte{7, 0, 0, 0, 0, 0, 0, 0}

	_, err := Decode(binary.NewReader(data), frameTable)
	require.ErrorIs(t, err, errs.ErrUnknownVariantTag)

	var tagErr *errs.UnknownTagError
	require.ErrorAs(t, err, &tagErr)
	assert.Equal(t, int64(7), tagErr.Tag)
}

func TestEncodeUnknownTag(t *testing.T) {
	err := Encode(binary.NewWriter(binary.NewBuffer()), frameTable, Variant{Tag: 3})
	assert.ErrorIs(t, err, errs.ErrUnknownVariantTag)
}

func TestEncodeCountMismatch(t *testing.T) {
	v := single(2, 2, 0)
	v.Parts[0].Data = v.Parts[0].Data[:3]

	err := Encode(binary.NewWriter(binary.NewBuffer()), frameTable, v)
	assert.ErrorIs(t, err, errs.ErrCountMismatch)
}

func TestDecodeTruncatedPayload(t *testing.T) {
	data := []byte{
		0, 0, 0, 0,
		4, 0, 0, 0,
		4, 0, 0, 0,
		1, 2,
	}

	_, err := Decode(binary.NewReader(data), frameTable)
	assert.ErrorIs(t, err, errs.ErrOutOfBounds)
}

func TestDecodeSequenceOversizedCount(t *testing.T) {
	vs, err := DecodeSequence(binary.NewReader([]byte{0, 0, 0, 0}), frameTable, 5)
	assert.ErrorIs(t, err, errs.ErrOutOfBounds)
	assert.Nil(t, vs)
}

var singleCase = Case{Name: "single", Layout: pictureLayout, Trailer: pixels}

var stripTable = NewTable("strip", record.Int32,
	Case{Tag: 1, Name: "strip", Layout: groupLayout, Trailer: func(head record.Record) ([]Segment, error) {
		return []Segment{{Name: "pictures", Inline: &singleCase, Count: int(head.Int("count"))}}, nil
	}},
)

func TestInlineSegment(t *testing.T) {
	v := Variant{
		Tag:   1,
		Head:  record.Record{"count": int64(2)},
		Parts: []Part{{Name: "pictures", Variants: []Variant{single(1, 2, 7), single(2, 1, 9)}}},
	}

	buf := binary.NewBuffer()
	require.NoError(t, Encode(binary.NewWriter(buf), stripTable, v))
	assert.Equal(t, []byte{
		1, 0, 0, 0,
		2, 0, 0, 0,
		1, 0, 0, 0, 2, 0, 0, 0, 7, 7,
		2, 0, 0, 0, 1, 0, 0, 0, 9, 9,
	}, buf.Bytes())

	got, err := Decode(binary.NewReader(buf.Bytes()), stripTable)
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestInlineSegmentCountMismatch(t *testing.T) {
	bad := single(2, 2, 1)
	bad.Parts[0].Data = bad.Parts[0].Data[:3]
	v := Variant{
		Tag:   1,
		Head:  record.Record{"count": int64(1)},
		Parts: []Part{{Name: "pictures", Variants: []Variant{bad}}},
	}

	buf := binary.NewBuffer()
	err := Encode(binary.NewWriter(buf), stripTable, v)
	assert.ErrorIs(t, err, errs.ErrCountMismatch)
	assert.Zero(t, buf.Len())
}

func TestCount(t *testing.T) {
	n, err := Count(3, 4)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	n, err = Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = Count(0, -1)
	assert.ErrorIs(t, err, errs.ErrInvalidFormat)
	assert.Zero(t, n)

	_, err = Count(-1, -1)
	assert.ErrorIs(t, err, errs.ErrInvalidFormat)

	_, err = Count(1<<30, 1<<30, 16)
	assert.ErrorIs(t, err, errs.ErrInvalidFormat)
}
