package buildmap

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-vgio/internal/chunk"
	"github.com/robert-malhotra/go-vgio/internal/errs"
)

func TestLayoutSizes(t *testing.T) {
	assert.Equal(t, 16, headerLayout.Size())
	assert.Equal(t, 40, sectorLayout.Size())
	assert.Equal(t, 32, wallLayout.Size())
	assert.Equal(t, 44, spriteLayout.Size())
}

func sampleMap() *Map {
	return &Map{
		Version:     Version,
		StartX:      -1024,
		StartY:      2048,
		StartZ:      -8192,
		StartAngle:  1536,
		StartSector: 0,
		Sectors: []Sector{{
			WallPointer:   0,
			WallNumber:    3,
			CeilingZ:      -16384,
			FloorZ:        8192,
			CeilingPicnum: 100,
			CeilingShade:  -8,
			FloorPicnum:   101,
			Visibility:    3,
			Lotag:         1,
		}},
		Walls: []Wall{
			{X: 0, Y: 0, Point2: 1, NextWall: -1, NextSector: -1, Picnum: 5, XRepeat: 8, YRepeat: 8},
			{X: 1024, Y: 0, Point2: 2, NextWall: -1, NextSector: -1, Picnum: 5, Shade: -3},
			{X: 0, Y: 1024, Point2: 0, NextWall: -1, NextSector: -1, Picnum: 5, Extra: -1},
		},
		Sprites: []Sprite{{
			X:            512,
			Y:            256,
			Z:            8192,
			Picnum:       1405,
			ClipDistance: 32,
			XRepeat:      200,
			YRepeat:      200,
			XOffset:      -2,
			StatusNumber: 10,
			Owner:        -1,
			Extra:        -1,
		}},
	}
}

func TestRoundTrip(t *testing.T) {
	m := sampleMap()
	data, err := Encode(m)
	require.NoError(t, err)
	assert.Len(t, data, 4+16+2+40+2+3*32+2+44)
	assert.True(t, Is(data))

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, m, got)

	again, err := Encode(got)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestEmptySectorsThreeWalls(t *testing.T) {
	m := &Map{
		Version: Version,
		Walls:   make([]Wall, 3),
		Sectors: []Sector{},
		Sprites: []Sprite{},
	}
	m.Walls[2].NextWall = -1

	data, err := Encode(m)
	require.NoError(t, err)

	// Count fields sit right after the header and after each run.
	assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(data[20:]))
	assert.Equal(t, uint16(3), binary.LittleEndian.Uint16(data[22:]))
	assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(data[24+3*32:]))

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Empty(t, got.Sectors)
	assert.Len(t, got.Walls, 3)
	assert.Equal(t, int16(-1), got.Walls[2].NextWall)

	again, err := Encode(got)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestUnsupportedVersion(t *testing.T) {
	data, err := Encode(sampleMap())
	require.NoError(t, err)
	binary.LittleEndian.PutUint32(data, 8)

	_, err = Decode(data)
	assert.ErrorIs(t, err, errs.ErrUnsupportedVersion)
	assert.False(t, Is(data))

	m := sampleMap()
	m.Version = 6
	_, err = Encode(m)
	assert.ErrorIs(t, err, errs.ErrUnsupportedVersion)
}

func TestTruncated(t *testing.T) {
	data, err := Encode(sampleMap())
	require.NoError(t, err)

	for _, n := range []int{2, 10, 21, 30, len(data) - 1} {
		_, err := Decode(data[:n])
		assert.Error(t, err, "length %d", n)
	}

	d := chunk.NewDecoder(Format, data[:30])
	_, err = d.Decode()
	assert.ErrorIs(t, err, errs.ErrOutOfBounds)
	assert.Equal(t, chunk.ExpectChunk, d.State())
	assert.Equal(t, 0, d.Chunk())
}

func TestShortInputIsNotAMap(t *testing.T) {
	_, err := Decode([]byte{7, 0})
	assert.ErrorIs(t, err, errs.ErrInvalidFormat)
}

func TestNegativeCount(t *testing.T) {
	data, err := Encode(&Map{Version: Version})
	require.NoError(t, err)
	binary.LittleEndian.PutUint16(data[20:], 0xffff)

	_, err = Decode(data)
	assert.ErrorIs(t, err, errs.ErrInvalidFormat)
}

func TestTooManyWalls(t *testing.T) {
	m := &Map{Version: Version, Walls: make([]Wall, 1<<15)}
	_, err := Encode(m)
	assert.ErrorIs(t, err, errs.ErrEncoding)
}
