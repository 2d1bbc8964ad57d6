package pak

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-vgio/internal/archive"
	vbinary "github.com/robert-malhotra/go-vgio/internal/binary"
	"github.com/robert-malhotra/go-vgio/internal/errs"
)

var members = []archive.Member{
	{Name: "maps/e1m1.bsp", Data: []byte("bsp data")},
	{Name: "progs/player.mdl", Data: []byte("model")},
}

func TestQuakeLayout(t *testing.T) {
	data, err := Build(members)
	require.NoError(t, err)

	assert.Equal(t, []byte("PACK"), data[:4])
	dirOffset := binary.LittleEndian.Uint32(data[4:])
	dirSize := binary.LittleEndian.Uint32(data[8:])
	assert.Equal(t, uint32(12+8+5), dirOffset)
	assert.Equal(t, uint32(2*64), dirSize)
	assert.Len(t, data, int(dirOffset+dirSize))

	// First entry points at the first member.
	entry := data[dirOffset:]
	assert.Equal(t, "maps/e1m1.bsp", strings.TrimRight(string(entry[:56]), "\x00"))
	assert.Equal(t, uint32(12), binary.LittleEndian.Uint32(entry[56:]))
	assert.Equal(t, uint32(8), binary.LittleEndian.Uint32(entry[60:]))
}

func TestRoundTrip(t *testing.T) {
	for _, d := range []*Dialect{Quake, HROT} {
		t.Run(d.Name(), func(t *testing.T) {
			data, err := archive.Build(d, members)
			require.NoError(t, err)

			c, err := archive.Open(data, d)
			require.NoError(t, err)
			assert.Equal(t, []string{"maps/e1m1.bsp", "progs/player.mdl"}, c.Names())

			for _, m := range members {
				got, err := c.ReadMember(m.Name)
				require.NoError(t, err)
				assert.Equal(t, m.Data, got)
			}
		})
	}
}

func TestHROTEntrySize(t *testing.T) {
	assert.Equal(t, 128, HROT.EntrySize())
	assert.Equal(t, 64, Quake.EntrySize())

	long := strings.Repeat("x", 100)
	_, err := archive.Build(HROT, []archive.Member{{Name: long}})
	assert.NoError(t, err)
	_, err = Build([]archive.Member{{Name: long}})
	assert.ErrorIs(t, err, errs.ErrEncoding)
}

func TestDialectMismatch(t *testing.T) {
	data, err := Build(members)
	require.NoError(t, err)

	_, err = OpenHROT(data)
	assert.ErrorIs(t, err, errs.ErrInvalidFormat)
}

func TestDirectorySizeNotMultiple(t *testing.T) {
	data, err := Build(members)
	require.NoError(t, err)
	binary.LittleEndian.PutUint32(data[8:], 100)

	_, err = Open(data)
	assert.ErrorIs(t, err, errs.ErrInvalidFormat)
}

func TestDirectoryPastEnd(t *testing.T) {
	data, err := Build(members)
	require.NoError(t, err)
	binary.LittleEndian.PutUint32(data[4:], 4096)

	_, err = Open(data)
	assert.ErrorIs(t, err, errs.ErrOutOfBounds)
}

func TestEmpty(t *testing.T) {
	_, err := Open(nil)
	assert.ErrorIs(t, err, errs.ErrInvalidFormat)

	data, err := Build(nil)
	require.NoError(t, err)
	c, err := Open(data)
	require.NoError(t, err)
	assert.Empty(t, c.Names())
}

func TestWriteHeaderRange(t *testing.T) {
	w := vbinary.NewWriter(vbinary.NewBuffer())
	err := Quake.WriteHeader(w, archive.Header{DirOffset: 1 << 31, DirSize: 64})
	assert.ErrorIs(t, err, errs.ErrEncoding)

	err = HROT.WriteHeader(w.At(0), archive.Header{DirOffset: 12, DirSize: 1 << 32})
	assert.ErrorIs(t, err, errs.ErrEncoding)
}

func TestBuildRejectsLogicalSize(t *testing.T) {
	_, err := Build([]archive.Member{{Name: "a", Data: []byte("abcd"), Size: 8}})
	assert.ErrorIs(t, err, errs.ErrEncoding)
}
