package chunk

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-vgio/internal/binary"
	"github.com/robert-malhotra/go-vgio/internal/errs"
	"github.com/robert-malhotra/go-vgio/internal/record"
	"github.com/robert-malhotra/go-vgio/internal/variant"
)

// State is a decoder state.
type State uint8

// Decoder states.
const (
	ExpectMagic State = iota
	ExpectVersion
	ExpectHeader
	ExpectChunk
	Done
)

var stateNames = [...]string{
	ExpectMagic:   "expect magic",
	ExpectVersion: "expect version",
	ExpectHeader:  "expect header",
	ExpectChunk:   "expect chunk",
	Done:          "done",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

type lump struct {
	offset int64
	length int64
}

// Decoder walks a byte buffer through the states of a Format.
type Decoder struct {
	f     *Format
	r     *binary.Reader
	state State
	chunk int
	lumps []lump
}

// NewDecoder returns a decoder for data in format f.
func NewDecoder(f *Format, data []byte) *Decoder {
	return &Decoder{f: f, r: binary.NewReader(data)}
}

// State returns the state the decoder is in. After a failed Decode it is
// the state that failed.
func (d *Decoder) State() State {
	return d.state
}

// Chunk returns the index of the chunk being decoded in ExpectChunk.
func (d *Decoder) Chunk() int {
	return d.chunk
}

func (d *Decoder) fail(err error) error {
	if d.state == ExpectChunk && d.chunk < len(d.f.Chunks) {
		return errors.WithMessagef(err, "%s: %s %d (%s)", d.f.Name, d.state, d.chunk, d.f.Chunks[d.chunk].Name)
	}
	return errors.WithMessagef(err, "%s: %s", d.f.Name, d.state)
}

// Decode runs the state machine to completion.
func (d *Decoder) Decode() (*Object, error) {
	obj := &Object{}

	d.state = ExpectMagic
	if err := d.readMagic(); err != nil {
		return nil, d.fail(err)
	}

	d.state = ExpectVersion
	if err := d.readVersion(obj); err != nil {
		return nil, d.fail(err)
	}
	if d.f.Lumps {
		if err := d.readLumps(); err != nil {
			return nil, d.fail(err)
		}
	}

	d.state = ExpectHeader
	if d.f.Header != nil {
		h, err := record.Decode(d.r, d.f.Header)
		if err != nil {
			return nil, d.fail(err)
		}
		obj.Header = h
	}

	d.state = ExpectChunk
	obj.Chunks = make([]Data, 0, len(d.f.Chunks))
	for d.chunk = range d.f.Chunks {
		data, err := d.readChunk(obj.Header)
		if err != nil {
			return nil, d.fail(err)
		}
		obj.Chunks = append(obj.Chunks, data)
	}

	d.state = Done
	return obj, nil
}

// Decode decodes data in format f.
func Decode(f *Format, data []byte) (*Object, error) {
	return NewDecoder(f, data).Decode()
}

func (d *Decoder) readMagic() error {
	if len(d.f.Magic) == 0 {
		return nil
	}
	got, err := d.r.Peek(len(d.f.Magic))
	if err != nil {
		return errors.Wrapf(errs.ErrInvalidFormat, "%d bytes is too short for magic %q", d.r.Len(), d.f.Magic)
	}
	if !bytes.Equal(got, d.f.Magic) {
		return errors.Wrapf(errs.ErrInvalidFormat, "bad magic %q, expected %q", got, d.f.Magic)
	}
	return d.r.Skip(len(d.f.Magic))
}

func (d *Decoder) readVersion(obj *Object) error {
	if d.f.VersionField == 0 {
		return nil
	}
	v, err := record.ReadScalar(d.r, d.f.VersionField)
	if err != nil {
		if len(d.f.Magic) == 0 {
			// Without a magic the version is the identity check.
			return errors.Wrap(errs.ErrInvalidFormat, err.Error())
		}
		return err
	}
	if !d.f.supports(v) {
		return &errs.UnsupportedVersionError{Format: d.f.Name, Found: v}
	}
	obj.Version = v
	return nil
}

func (d *Decoder) readLumps() error {
	d.lumps = make([]lump, len(d.f.Chunks))
	if need := int64(len(d.f.Chunks) * lumpDescriptorSize); need > d.r.Remaining() {
		return errors.Wrapf(errs.ErrOutOfBounds, "lump table of %d bytes at offset %d, %d remaining",
			need, d.r.Abs(), d.r.Remaining())
	}
	for i, c := range d.f.Chunks {
		off, err := d.r.ReadInt32()
		if err != nil {
			return err
		}
		n, err := d.r.ReadInt32()
		if err != nil {
			return err
		}
		if off < 0 || n < 0 || int64(off)+int64(n) > d.r.Len() {
			return errors.Wrapf(errs.ErrOutOfBounds, "lump %s [%d, %d) exceeds file of %d bytes",
				c.Name, off, int64(off)+int64(n), d.r.Len())
		}
		d.lumps[i] = lump{offset: int64(off), length: int64(n)}
	}
	return nil
}

func (d *Decoder) readChunk(header record.Record) (Data, error) {
	c := d.f.Chunks[d.chunk]
	data := Data{Name: c.Name}

	r := d.r
	count := -1
	if d.f.Lumps {
		l := d.lumps[d.chunk]
		sub, err := d.r.Sub(l.offset, l.length)
		if err != nil {
			return data, err
		}
		r = sub
		if c.Kind == Records {
			size := int64(c.Layout.Size())
			if l.length%size != 0 {
				return data, errors.Wrapf(errs.ErrInvalidFormat, "lump length %d is not a multiple of %d", l.length, size)
			}
			count = int(l.length / size)
		}
	} else if c.Kind == Records && c.CountField != 0 {
		recs, err := record.DecodeCounted(d.r, c.CountField, c.Layout)
		data.Records = recs
		return data, err
	} else {
		n, err := d.count(c, header)
		if err != nil {
			return data, err
		}
		count = n
	}

	var err error
	switch c.Kind {
	case Records:
		data.Records, err = record.DecodeSequence(r, c.Layout, count)
	case Variants:
		data.Variants, err = d.readVariants(r, c, header, count)
	case Raw:
		if count < 0 {
			count = int(r.Remaining())
		}
		data.Raw, err = r.ReadBytes(count)
	default:
		err = errors.Errorf("unknown chunk kind %s", c.Kind)
	}
	return data, err
}

func (d *Decoder) count(c Chunk, header record.Record) (int, error) {
	switch {
	case c.CountField != 0:
		at := d.r.Abs()
		n, err := record.ReadScalar(d.r, c.CountField)
		if err != nil {
			return 0, errors.WithMessagef(err, "count at offset %d", at)
		}
		return int(n), nil
	case c.CountFrom != "":
		if _, ok := header[c.CountFrom]; !ok {
			return 0, errors.Errorf("header has no field %q", c.CountFrom)
		}
		return int(header.Int(c.CountFrom)), nil
	default:
		return -1, nil
	}
}

func (d *Decoder) readVariants(r *binary.Reader, c Chunk, header record.Record, count int) ([]variant.Variant, error) {
	t, err := c.Table(header)
	if err != nil {
		return nil, err
	}
	if count >= 0 {
		return variant.DecodeSequence(r, t, count)
	}
	// Lump regions hold variants until the region is exhausted.
	out := []variant.Variant{}
	for r.Remaining() > 0 {
		v, err := variant.Decode(r, t)
		if err != nil {
			return nil, errors.WithMessagef(err, "variant %d", len(out))
		}
		out = append(out, v)
	}
	return out, nil
}
