package chunk

import (
	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-vgio/internal/binary"
	"github.com/robert-malhotra/go-vgio/internal/errs"
	"github.com/robert-malhotra/go-vgio/internal/record"
	"github.com/robert-malhotra/go-vgio/internal/variant"
)

// Derive returns a copy of obj's header with every header-sourced count
// field set from the current chunk lengths.
func Derive(f *Format, obj *Object) record.Record {
	var header record.Record
	if obj.Header != nil {
		header = obj.Header.Clone()
	}
	for _, c := range f.Chunks {
		if c.CountFrom == "" {
			continue
		}
		if header == nil {
			header = record.Record{}
		}
		header.Set(c.CountFrom, int64(elements(c, obj.Chunk(c.Name))))
	}
	return header
}

func elements(c Chunk, d *Data) int {
	if d == nil {
		return 0
	}
	switch c.Kind {
	case Records:
		return len(d.Records)
	case Variants:
		return len(d.Variants)
	default:
		return len(d.Raw)
	}
}

// Encode writes obj in format f. Count fields and lump descriptors are
// derived from the chunk contents; stale values in obj.Header are ignored.
func Encode(f *Format, obj *Object) ([]byte, error) {
	buf := binary.NewBuffer()
	if err := EncodeTo(binary.NewWriter(buf), f, obj); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTo writes obj at w's position.
func EncodeTo(w *binary.Writer, f *Format, obj *Object) error {
	if f.VersionField != 0 && !f.supports(obj.Version) {
		return &errs.UnsupportedVersionError{Format: f.Name, Found: obj.Version}
	}
	for _, d := range obj.Chunks {
		if !f.declares(d.Name) {
			return errors.Errorf("%s: unknown chunk %q", f.Name, d.Name)
		}
	}
	header := Derive(f, obj)

	start := w.Pos()
	if err := w.WriteBytes(f.Magic); err != nil {
		return err
	}
	if f.VersionField != 0 {
		if err := record.WriteScalar(w, f.VersionField, obj.Version); err != nil {
			return errors.WithMessagef(err, "%s version", f.Name)
		}
	}

	table := w.Pos()
	if f.Lumps {
		if err := w.WriteZeros(len(f.Chunks) * lumpDescriptorSize); err != nil {
			return err
		}
	}

	if f.Header != nil {
		if err := record.Encode(w, f.Header, header); err != nil {
			return errors.WithMessagef(err, "%s header", f.Name)
		}
	}

	for i, c := range f.Chunks {
		offset := w.Pos()
		if err := writeChunk(w, f, c, obj.Chunk(c.Name), header); err != nil {
			return errors.WithMessagef(err, "%s chunk %s", f.Name, c.Name)
		}
		if !f.Lumps {
			continue
		}
		desc := w.At(table + int64(i*lumpDescriptorSize))
		if err := record.WriteScalar(desc, record.Int32, offset-start); err != nil {
			return errors.WithMessagef(err, "lump %s offset", c.Name)
		}
		if err := record.WriteScalar(desc, record.Int32, w.Pos()-offset); err != nil {
			return errors.WithMessagef(err, "lump %s length", c.Name)
		}
	}
	return nil
}

func (f *Format) declares(name string) bool {
	for _, c := range f.Chunks {
		if c.Name == name {
			return true
		}
	}
	return false
}

func writeChunk(w *binary.Writer, f *Format, c Chunk, d *Data, header record.Record) error {
	if d == nil {
		d = &Data{Name: c.Name}
	}
	n := elements(c, d)

	if !f.Lumps && c.Kind == Records && c.CountField != 0 {
		return record.EncodeCounted(w, c.CountField, c.Layout, d.Records)
	}
	if !f.Lumps && c.CountField != 0 {
		if err := record.WriteScalar(w, c.CountField, int64(n)); err != nil {
			return errors.WithMessage(err, "count")
		}
	}

	switch c.Kind {
	case Records:
		return record.EncodeSequence(w, c.Layout, d.Records, n)
	case Variants:
		t, err := c.Table(header)
		if err != nil {
			return err
		}
		return variant.EncodeSequence(w, t, d.Variants)
	case Raw:
		return w.WriteBytes(d.Raw)
	default:
		return errors.Errorf("unknown chunk kind %s", c.Kind)
	}
}
