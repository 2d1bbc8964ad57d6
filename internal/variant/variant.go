// Package variant decodes tag-discriminated records.
//
// A [Table] maps tag values to [Case] declarations. Decoding reads the tag,
// selects the case, decodes its head record and then the trailing segments
// that the case's [Trailer] computes from the head. Segments are either
// fixed-layout records, nested variants or raw bytes, each repeated a
// computed number of times. Tags missing from the table are an error; there
// is no default case.
package variant

import (
	"math"

	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-vgio/internal/binary"
	"github.com/robert-malhotra/go-vgio/internal/errs"
	"github.com/robert-malhotra/go-vgio/internal/record"
)

// Trailer computes the payload that follows a head record.
type Trailer func(head record.Record) ([]Segment, error)

// Count multiplies factors read from a head into a segment count. A
// negative factor or a product that does not fit in an int is
// ErrInvalidFormat.
func Count(factors ...int64) (int, error) {
	n := int64(1)
	for _, f := range factors {
		if f < 0 {
			return 0, errors.Wrapf(errs.ErrInvalidFormat, "negative count factor %d", f)
		}
		if f > 0 && n > math.MaxInt/f {
			return 0, errors.Wrapf(errs.ErrInvalidFormat, "count %v overflows", factors)
		}
		n *= f
	}
	return int(n), nil
}

// Segment is one run of trailing payload. Exactly one of Layout, Nested,
// Inline and Raw describes the element type. Inline elements are decoded
// as Case bodies without a tag of their own.
type Segment struct {
	Name   string
	Layout *record.Layout
	Nested *Table
	Inline *Case
	Raw    bool
	Count  int
}

// Case is the layout selected by one tag value.
type Case struct {
	Tag     int64
	Name    string
	Layout  *record.Layout
	Trailer Trailer
}

// Table resolves tags to cases.
type Table struct {
	Name     string
	TagField record.Kind
	cases    map[int64]Case
}

// NewTable builds a table whose tag is read as tagField.
func NewTable(name string, tagField record.Kind, cases ...Case) *Table {
	t := &Table{
		Name:     name,
		TagField: tagField,
		cases:    make(map[int64]Case, len(cases)),
	}
	for _, c := range cases {
		t.cases[c.Tag] = c
	}
	return t
}

// Lookup returns the case for tag.
func (t *Table) Lookup(tag int64) (Case, error) {
	c, ok := t.cases[tag]
	if !ok {
		return Case{}, &errs.UnknownTagError{Table: t.Name, Tag: tag}
	}
	return c, nil
}

// Variant is one decoded variant. Tag is the discriminator it was decoded
// from and is written back unchanged.
type Variant struct {
	Tag   int64
	Head  record.Record
	Parts []Part
}

// Part holds the decoded elements of one segment.
type Part struct {
	Name     string
	Records  []record.Record
	Variants []Variant
	Data     []byte
}

// Len returns the number of elements in the part.
func (p *Part) Len() int {
	switch {
	case p.Data != nil:
		return len(p.Data)
	case p.Variants != nil:
		return len(p.Variants)
	default:
		return len(p.Records)
	}
}

// Part returns the named part, or nil.
func (v *Variant) Part(name string) *Part {
	for i := range v.Parts {
		if v.Parts[i].Name == name {
			return &v.Parts[i]
		}
	}
	return nil
}

func (c Case) segments(head record.Record) ([]Segment, error) {
	if c.Trailer == nil {
		return nil, nil
	}
	return c.Trailer(head)
}

// Decode reads one variant.
func Decode(r *binary.Reader, t *Table) (Variant, error) {
	at := r.Abs()
	tag, err := record.ReadScalar(r, t.TagField)
	if err != nil {
		return Variant{}, errors.WithMessagef(err, "%s tag at offset %d", t.Name, at)
	}
	c, err := t.Lookup(tag)
	if err != nil {
		return Variant{}, errors.WithMessagef(err, "offset %d", at)
	}
	v, err := decodeBody(r, c)
	if err != nil {
		return Variant{}, errors.WithMessage(err, t.Name)
	}
	v.Tag = tag
	return v, nil
}

// decodeBody reads the head record and trailing segments of c.
func decodeBody(r *binary.Reader, c Case) (Variant, error) {
	var (
		v   = Variant{Tag: c.Tag}
		err error
	)
	if c.Layout != nil {
		if v.Head, err = record.Decode(r, c.Layout); err != nil {
			return Variant{}, errors.WithMessage(err, c.Name)
		}
	}

	segs, err := c.segments(v.Head)
	if err != nil {
		return Variant{}, errors.WithMessagef(err, "%s trailer", c.Name)
	}
	for _, seg := range segs {
		p, err := decodeSegment(r, seg)
		if err != nil {
			return Variant{}, errors.WithMessagef(err, "%s.%s", c.Name, seg.Name)
		}
		v.Parts = append(v.Parts, p)
	}
	return v, nil
}

func decodeSegment(r *binary.Reader, seg Segment) (Part, error) {
	p := Part{Name: seg.Name}
	if seg.Count < 0 {
		return p, errors.Wrapf(errs.ErrInvalidFormat, "negative count %d at offset %d", seg.Count, r.Abs())
	}

	var err error
	switch {
	case seg.Raw:
		p.Data, err = r.ReadBytes(seg.Count)
	case seg.Nested != nil:
		p.Variants, err = DecodeSequence(r, seg.Nested, seg.Count)
	case seg.Inline != nil:
		p.Variants = make([]Variant, 0, seg.Count)
		for i := 0; i < seg.Count; i++ {
			v, err := decodeBody(r, *seg.Inline)
			if err != nil {
				return p, errors.WithMessagef(err, "element %d", i)
			}
			p.Variants = append(p.Variants, v)
		}
	default:
		p.Records, err = record.DecodeSequence(r, seg.Layout, seg.Count)
	}
	return p, err
}

// DecodeSequence reads exactly count variants.
func DecodeSequence(r *binary.Reader, t *Table, count int) ([]Variant, error) {
	if count < 0 {
		return nil, errors.Wrapf(errs.ErrInvalidFormat, "%s: negative count %d at offset %d", t.Name, count, r.Abs())
	}
	// Every variant carries at least its tag.
	if need := int64(count) * int64(t.TagField.Width()); need > r.Remaining() {
		return nil, errors.Wrapf(errs.ErrOutOfBounds, "%s: %d variants at offset %d, %d remaining",
			t.Name, count, r.Abs(), r.Remaining())
	}

	out := make([]Variant, 0, count)
	for i := 0; i < count; i++ {
		v, err := Decode(r, t)
		if err != nil {
			return nil, errors.WithMessagef(err, "variant %d", i)
		}
		out = append(out, v)
	}
	return out, nil
}

// Encode writes v with its originating tag. Every part must hold exactly
// the number of elements its segment declares for v.Head.
func Encode(w *binary.Writer, t *Table, v Variant) error {
	c, err := t.Lookup(v.Tag)
	if err != nil {
		return err
	}
	if err := checkParts(c, v); err != nil {
		return errors.WithMessage(err, t.Name)
	}

	if err := record.WriteScalar(w, t.TagField, v.Tag); err != nil {
		return errors.WithMessagef(err, "%s tag", t.Name)
	}
	if err := encodeBody(w, c, v); err != nil {
		return errors.WithMessage(err, t.Name)
	}
	return nil
}

func checkParts(c Case, v Variant) error {
	segs, err := c.segments(v.Head)
	if err != nil {
		return errors.WithMessagef(err, "%s trailer", c.Name)
	}
	if len(segs) != len(v.Parts) {
		return errors.Wrapf(errs.ErrCountMismatch, "%s: %d parts, expected %d", c.Name, len(v.Parts), len(segs))
	}
	for i, seg := range segs {
		if n := v.Parts[i].Len(); n != seg.Count {
			return errors.Wrapf(errs.ErrCountMismatch, "%s.%s: %d elements, head declares %d",
				c.Name, seg.Name, n, seg.Count)
		}
		if seg.Inline == nil {
			continue
		}
		for j, sub := range v.Parts[i].Variants {
			if err := checkParts(*seg.Inline, sub); err != nil {
				return errors.WithMessagef(err, "%s.%s element %d", c.Name, seg.Name, j)
			}
		}
	}
	return nil
}

func encodeBody(w *binary.Writer, c Case, v Variant) error {
	if c.Layout != nil {
		if err := record.Encode(w, c.Layout, v.Head); err != nil {
			return errors.WithMessage(err, c.Name)
		}
	}
	segs, err := c.segments(v.Head)
	if err != nil {
		return errors.WithMessagef(err, "%s trailer", c.Name)
	}
	for i, seg := range segs {
		if err := encodeSegment(w, seg, &v.Parts[i]); err != nil {
			return errors.WithMessagef(err, "%s.%s", c.Name, seg.Name)
		}
	}
	return nil
}

func encodeSegment(w *binary.Writer, seg Segment, p *Part) error {
	switch {
	case seg.Raw:
		return w.WriteBytes(p.Data)
	case seg.Nested != nil:
		return EncodeSequence(w, seg.Nested, p.Variants)
	case seg.Inline != nil:
		for i, v := range p.Variants {
			if err := encodeBody(w, *seg.Inline, v); err != nil {
				return errors.WithMessagef(err, "element %d", i)
			}
		}
		return nil
	default:
		return record.EncodeSequence(w, seg.Layout, p.Records, seg.Count)
	}
}

// EncodeSequence writes vs in order.
func EncodeSequence(w *binary.Writer, t *Table, vs []Variant) error {
	for i, v := range vs {
		if err := Encode(w, t, v); err != nil {
			return errors.WithMessagef(err, "variant %d", i)
		}
	}
	return nil
}
