package wad

import (
	"math"

	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-vgio/internal/archive"
	"github.com/robert-malhotra/go-vgio/internal/binary"
	"github.com/robert-malhotra/go-vgio/internal/errs"
	"github.com/robert-malhotra/go-vgio/internal/record"
)

var miptexLayout = record.MustLayout("miptex",
	record.Str("name", NameSize),
	record.U32("width"),
	record.U32("height"),
	record.Array(record.U32("offsets"), 4),
)

// Miptexture is a mip-mapped texture lump. Pixels holds all four mip
// levels back to back, width*height*85/64 palette indices in total.
type Miptexture struct {
	Name    string
	Width   int
	Height  int
	Offsets [4]int64
	Pixels  []byte
	// Palette is the embedded RGB palette of WAD3 textures.
	Palette []byte
}

// PixelCount returns the number of pixel bytes across all mip levels.
// Negative dimensions or ones whose pixel count does not fit in an int are
// ErrInvalidFormat.
func PixelCount(width, height int) (int, error) {
	if width < 0 || height < 0 || (height > 0 && width > math.MaxInt/85/height) {
		return 0, errors.Wrapf(errs.ErrInvalidFormat, "miptex of %dx%d pixels", width, height)
	}
	return width * height * 85 / 64, nil
}

func (m *Miptexture) hasPixels() bool {
	for _, o := range m.Offsets {
		if o != 0 {
			return true
		}
	}
	return false
}

// ReadMiptexture decodes the mip texture member name of c, which must be
// an uncompressed lump of d's mip texture type.
func (d *Dialect) ReadMiptexture(c *archive.Container, name string) (*Miptexture, error) {
	e, err := c.Entry(name)
	if err != nil {
		return nil, err
	}
	if e.Type != d.MipTexType() {
		return nil, errors.Wrapf(errs.ErrInvalidFormat, "%s lump %q has type %d, not a mip texture", d.name, name, e.Type)
	}
	if e.Compression != CompressionNone {
		return nil, errors.Wrapf(errs.ErrInvalidFormat, "%s lump %q is compressed", d.name, name)
	}
	data, err := c.ReadEntry(e)
	if err != nil {
		return nil, err
	}
	return DecodeMiptexture(data, d)
}

// DecodeMiptexture decodes a mip texture lump stored in an archive of
// dialect d.
func DecodeMiptexture(data []byte, d *Dialect) (*Miptexture, error) {
	r := binary.NewReader(data)
	rec, err := record.Decode(r, miptexLayout)
	if err != nil {
		return nil, err
	}

	m := &Miptexture{
		Name:   rec.String("name"),
		Width:  int(rec.Int("width")),
		Height: int(rec.Int("height")),
	}
	copy(m.Offsets[:], rec.Ints("offsets"))

	// WAD3 textures without offsets are external references.
	if d == WAD3 && !m.hasPixels() {
		return m, nil
	}

	n, err := PixelCount(m.Width, m.Height)
	if err != nil {
		return nil, errors.WithMessagef(err, "miptex %s", m.Name)
	}
	if m.Pixels, err = r.ReadBytes(n); err != nil {
		return nil, errors.WithMessagef(err, "miptex %s pixels", m.Name)
	}
	if d != WAD3 {
		return m, nil
	}

	colors, err := r.ReadInt16()
	if err != nil {
		return nil, errors.WithMessagef(err, "miptex %s palette", m.Name)
	}
	if colors < 0 {
		return nil, errors.Wrapf(errs.ErrInvalidFormat, "miptex %s: palette of %d colors", m.Name, colors)
	}
	if m.Palette, err = r.ReadBytes(int(colors) * 3); err != nil {
		return nil, errors.WithMessagef(err, "miptex %s palette", m.Name)
	}
	if err := r.Skip(2); err != nil {
		return nil, errors.WithMessagef(err, "miptex %s palette", m.Name)
	}
	return m, nil
}

// Encode encodes m for an archive of dialect d.
func (m *Miptexture) Encode(d *Dialect) ([]byte, error) {
	buf := binary.NewBuffer()
	w := binary.NewWriter(buf)

	rec := record.Record{
		"name":    m.Name,
		"width":   int64(m.Width),
		"height":  int64(m.Height),
		"offsets": m.Offsets[:],
	}
	if err := record.Encode(w, miptexLayout, rec); err != nil {
		return nil, err
	}

	if d == WAD3 && !m.hasPixels() {
		return buf.Bytes(), nil
	}
	n, err := PixelCount(m.Width, m.Height)
	if err != nil {
		return nil, errors.WithMessagef(err, "miptex %s", m.Name)
	}
	if len(m.Pixels) != n {
		return nil, errors.Wrapf(errs.ErrCountMismatch, "miptex %s: %d pixels, %dx%d needs %d",
			m.Name, len(m.Pixels), m.Width, m.Height, n)
	}
	if err := w.WriteBytes(m.Pixels); err != nil {
		return nil, err
	}
	if d != WAD3 {
		return buf.Bytes(), nil
	}

	if len(m.Palette)%3 != 0 {
		return nil, errors.Wrapf(errs.ErrEncoding, "miptex %s: palette of %d bytes", m.Name, len(m.Palette))
	}
	if err := record.WriteScalar(w, record.Int16, int64(len(m.Palette)/3)); err != nil {
		return nil, err
	}
	if err := w.WriteBytes(m.Palette); err != nil {
		return nil, err
	}
	if err := w.WriteZeros(2); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
