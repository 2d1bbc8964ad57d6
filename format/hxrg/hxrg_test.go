package hxrg

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-vgio/internal/archive"
	"github.com/robert-malhotra/go-vgio/internal/errs"
)

func sampleMembers() []archive.Member {
	return []archive.Member{
		{Name: "dagger", Data: []byte{1, 2, 3}, Type: TypeMesh, Timestamp: 1455000000},
		{Name: "boid", Data: []byte{4, 5}, Type: TypeTexture, Timestamp: 1455000001},
	}
}

func TestBuildLayout(t *testing.T) {
	data, err := Build(sampleMembers())
	require.NoError(t, err)

	dirSize := (2 + 7 + 12) + (2 + 5 + 12) + 1
	assert.Equal(t, []byte(Magic), data[:8])
	assert.Equal(t, uint32(dirSize), binary.LittleEndian.Uint32(data[8:]))
	assert.Equal(t, byte(0), data[headerSize+dirSize-1])
	assert.Len(t, data, headerSize+dirSize+5)

	// First entry: type, name, offset.
	assert.Equal(t, uint16(TypeMesh), binary.LittleEndian.Uint16(data[12:]))
	assert.Equal(t, "dagger\x00", string(data[14:21]))
	assert.Equal(t, uint32(headerSize+dirSize), binary.LittleEndian.Uint32(data[21:]))
}

func TestRoundTrip(t *testing.T) {
	data, err := Build(sampleMembers())
	require.NoError(t, err)

	c, err := Open(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"dagger", "boid"}, c.Names())

	e, err := c.Entry("boid")
	require.NoError(t, err)
	assert.Equal(t, int64(TypeTexture), e.Type)
	assert.Equal(t, int64(1455000001), e.Timestamp)
	assert.Equal(t, int64(2), e.Size)

	got, err := c.ReadMember("dagger")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)

	again, err := Build(sampleMembers())
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestTrailingDirectoryBytesIgnored(t *testing.T) {
	data := []byte(Magic)
	data = binary.LittleEndian.AppendUint32(data, 4)
	data = append(data, 0, 0xAA, 0xBB, 0xCC)

	c, err := Open(data)
	require.NoError(t, err)
	assert.Empty(t, c.Names())
}

func TestMissingTerminator(t *testing.T) {
	data := []byte(Magic)
	data = binary.LittleEndian.AppendUint32(data, 0)

	_, err := Open(data)
	assert.ErrorIs(t, err, errs.ErrInvalidFormat)
}

func TestDirectoryPastEnd(t *testing.T) {
	data := []byte(Magic)
	data = binary.LittleEndian.AppendUint32(data, 100)
	data = append(data, 0)

	_, err := Open(data)
	assert.ErrorIs(t, err, errs.ErrOutOfBounds)
}

func TestBadMagic(t *testing.T) {
	_, err := Open([]byte(":hx:rg:\x02\x00\x00\x00\x00"))
	assert.ErrorIs(t, err, errs.ErrInvalidFormat)
	assert.False(t, Is([]byte("PACK")))
}

func TestBuildRejects(t *testing.T) {
	_, err := Build([]archive.Member{{Name: "", Data: []byte{1}, Type: TypeMesh}})
	assert.ErrorIs(t, err, errs.ErrEncoding)

	_, err = Build([]archive.Member{{Name: "a\x00b", Data: []byte{1}, Type: TypeMesh}})
	assert.ErrorIs(t, err, errs.ErrEncoding)

	_, err = Build([]archive.Member{{Name: "untyped", Data: []byte{1}}})
	assert.ErrorIs(t, err, errs.ErrEncoding)

	_, err = Build([]archive.Member{{Name: "wide", Data: []byte{1}, Type: 0x10001}})
	assert.ErrorIs(t, err, errs.ErrEncoding)
}

func TestBuildRejectsOutOfRangeFields(t *testing.T) {
	out, err := Build([]archive.Member{{Name: "x", Data: []byte{1}, Type: TypeMesh, Timestamp: 1 << 40}})
	assert.ErrorIs(t, err, errs.ErrEncoding)
	assert.Nil(t, out)

	_, err = Build([]archive.Member{{Name: "x", Data: []byte{1}, Type: TypeMesh, Timestamp: -1 << 31}})
	assert.NoError(t, err)

	_, err = Build([]archive.Member{{Name: "x", Data: []byte("abc"), Size: 8, Type: TypeMesh}})
	assert.ErrorIs(t, err, errs.ErrEncoding)
}

func TestExtractAddsTypeExtension(t *testing.T) {
	members := append(sampleMembers(), archive.Member{Name: "misc", Data: []byte{9}, Type: 0x40})
	data, err := Build(members)
	require.NoError(t, err)

	c, err := Open(data)
	require.NoError(t, err)

	dest := t.TempDir()
	paths, err := c.ExtractAll(dest)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dest, "dagger.mesh"),
		filepath.Join(dest, "boid.texture"),
		filepath.Join(dest, "misc"),
	}, paths)

	got, err := os.ReadFile(filepath.Join(dest, "boid.texture"))
	require.NoError(t, err)
	assert.Equal(t, []byte{4, 5}, got)
}

func TestExtractSkipsDirectories(t *testing.T) {
	members := append(sampleMembers(), archive.Member{Name: "models", Type: TypeDirectory})
	data, err := Build(members)
	require.NoError(t, err)

	c, err := Open(data)
	require.NoError(t, err)
	assert.Contains(t, c.Names(), "models")

	dest := t.TempDir()
	paths, err := c.ExtractAll(dest)
	require.NoError(t, err)
	assert.Len(t, paths, 2)
	assert.NoFileExists(t, filepath.Join(dest, "models"))
}
