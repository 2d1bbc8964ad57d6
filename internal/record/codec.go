package record

import (
	"math"

	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-vgio/internal/binary"
	"github.com/robert-malhotra/go-vgio/internal/errs"
)

// Decode reads one record of layout l at the reader's position.
func Decode(r *binary.Reader, l *Layout) (Record, error) {
	start := r.Abs()
	if int64(l.size) > r.Remaining() {
		return nil, errors.Wrapf(errs.ErrOutOfBounds, "%s: record of %d bytes at offset %d, %d remaining",
			l.Name, l.size, start, r.Remaining())
	}

	rec := make(Record, len(l.fields))
	for _, f := range l.fields {
		fieldStart := r.Abs()
		v, err := decodeField(r, f)
		if err != nil {
			return nil, wrapField(err, l, f, fieldStart)
		}
		rec[f.Name] = v
	}
	return rec, nil
}

func decodeField(r *binary.Reader, f Field) (interface{}, error) {
	switch f.Kind {
	case Bytes:
		return r.ReadBytes(f.Size)
	case String:
		return r.ReadPaddedString(f.Size)
	case Float32:
		if f.Count == 0 {
			return r.ReadFloat32()
		}
		out := make([]float32, f.Count)
		for i := range out {
			v, err := r.ReadFloat32()
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}

	if f.Count == 0 {
		return ReadScalar(r, f.Kind)
	}
	out := make([]int64, f.Count)
	for i := range out {
		v, err := ReadScalar(r, f.Kind)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ReadScalar reads one integer of kind k.
func ReadScalar(r *binary.Reader, k Kind) (int64, error) {
	switch k {
	case Int8:
		v, err := r.ReadInt8()
		return int64(v), err
	case Uint8:
		v, err := r.ReadUint8()
		return int64(v), err
	case Int16:
		v, err := r.ReadInt16()
		return int64(v), err
	case Uint16:
		v, err := r.ReadUint16()
		return int64(v), err
	case Int32:
		v, err := r.ReadInt32()
		return int64(v), err
	case Uint32:
		v, err := r.ReadUint32()
		return int64(v), err
	default:
		return 0, errors.Errorf("%s is not an integer kind", k)
	}
}

// WriteScalar writes v as an integer of kind k. A value outside the kind's
// range is an encoding error.
func WriteScalar(w *binary.Writer, k Kind, v int64) error {
	if err := checkRange(k, v); err != nil {
		return err
	}
	switch k {
	case Int8:
		return w.WriteInt8(int8(v))
	case Uint8:
		return w.WriteUint8(uint8(v))
	case Int16:
		return w.WriteInt16(int16(v))
	case Uint16:
		return w.WriteUint16(uint16(v))
	case Int32:
		return w.WriteInt32(int32(v))
	case Uint32:
		return w.WriteUint32(uint32(v))
	default:
		return encodingError("%s is not an integer kind", k)
	}
}

func checkRange(k Kind, v int64) error {
	var lo, hi int64
	switch k {
	case Int8:
		lo, hi = math.MinInt8, math.MaxInt8
	case Uint8:
		lo, hi = 0, math.MaxUint8
	case Int16:
		lo, hi = math.MinInt16, math.MaxInt16
	case Uint16:
		lo, hi = 0, math.MaxUint16
	case Int32:
		lo, hi = math.MinInt32, math.MaxInt32
	case Uint32:
		lo, hi = 0, math.MaxUint32
	default:
		return nil
	}
	if v < lo || v > hi {
		return encodingError("value %d out of range for %s", v, k)
	}
	return nil
}

// Encode writes rec with layout l at the writer's position. The record is
// validated in full before any byte is written.
func Encode(w *binary.Writer, l *Layout, rec Record) error {
	start := w.Pos()
	buf := binary.NewBuffer()
	bw := binary.NewWriter(buf)

	for _, f := range l.fields {
		v, ok := rec[f.Name]
		if !ok {
			return wrapField(encodingError("missing field"), l, f, start+bw.Pos())
		}
		if err := encodeField(bw, f, v); err != nil {
			return wrapField(err, l, f, start+bw.Pos())
		}
	}
	return w.WriteBytes(buf.Bytes())
}

func encodeField(w *binary.Writer, f Field, v interface{}) error {
	switch f.Kind {
	case Bytes:
		b, ok := v.([]byte)
		if !ok {
			return encodingError("expected []byte, got %T", v)
		}
		if err := w.WriteFixedBytes(b, f.Size); err != nil {
			return errors.WithStack(&errs.EncodingError{Err: err})
		}
		return nil
	case String:
		s, ok := v.(string)
		if !ok {
			return encodingError("expected string, got %T", v)
		}
		if err := w.WritePaddedString(s, f.Size); err != nil {
			return errors.WithStack(&errs.EncodingError{Err: err})
		}
		return nil
	case Float32:
		if f.Count == 0 {
			x, ok := toFloat32(v)
			if !ok {
				return encodingError("expected float32, got %T", v)
			}
			return w.WriteFloat32(x)
		}
		xs, ok := v.([]float32)
		if !ok {
			return encodingError("expected []float32, got %T", v)
		}
		if len(xs) != f.Count {
			return encodingError("expected %d elements, got %d", f.Count, len(xs))
		}
		for _, x := range xs {
			if err := w.WriteFloat32(x); err != nil {
				return err
			}
		}
		return nil
	}

	if f.Count == 0 {
		x, ok := toInt64(v)
		if !ok {
			return encodingError("expected integer, got %T", v)
		}
		return WriteScalar(w, f.Kind, x)
	}
	xs, ok := toInt64s(v)
	if !ok {
		return encodingError("expected integer slice, got %T", v)
	}
	if len(xs) != f.Count {
		return encodingError("expected %d elements, got %d", f.Count, len(xs))
	}
	for i, x := range xs {
		if err := WriteScalar(w, f.Kind, x); err != nil {
			return errors.WithMessagef(err, "element %d", i)
		}
	}
	return nil
}

// DecodeSequence reads exactly count records. The total size is checked
// against the remaining bytes first, so an oversized count yields no
// records at all.
func DecodeSequence(r *binary.Reader, l *Layout, count int) ([]Record, error) {
	if count < 0 {
		return nil, errors.Wrapf(errs.ErrInvalidFormat, "%s: negative count %d at offset %d", l.Name, count, r.Abs())
	}
	if need := int64(count) * int64(l.size); need > r.Remaining() {
		return nil, errors.Wrapf(errs.ErrOutOfBounds, "%s: %d records of %d bytes at offset %d, %d remaining",
			l.Name, count, l.size, r.Abs(), r.Remaining())
	}

	recs := make([]Record, 0, count)
	for i := 0; i < count; i++ {
		rec, err := Decode(r, l)
		if err != nil {
			return nil, errors.WithMessagef(err, "record %d", i)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// EncodeSequence writes recs in order. count is the externally stored
// count for the sequence, or -1 when there is none; a sequence whose
// length disagrees with it is rejected.
func EncodeSequence(w *binary.Writer, l *Layout, recs []Record, count int) error {
	if count >= 0 && count != len(recs) {
		return errors.Wrapf(errs.ErrCountMismatch, "%s: %d records, stored count %d", l.Name, len(recs), count)
	}
	for i, rec := range recs {
		if err := Encode(w, l, rec); err != nil {
			return errors.WithMessagef(err, "record %d", i)
		}
	}
	return nil
}

// DecodeCounted reads a count prefix of kind countKind followed by that
// many records.
func DecodeCounted(r *binary.Reader, countKind Kind, l *Layout) ([]Record, error) {
	at := r.Abs()
	n, err := ReadScalar(r, countKind)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s count at offset %d", l.Name, at)
	}
	return DecodeSequence(r, l, int(n))
}

// EncodeCounted writes len(recs) as a countKind prefix followed by the
// records.
func EncodeCounted(w *binary.Writer, countKind Kind, l *Layout, recs []Record) error {
	if err := WriteScalar(w, countKind, int64(len(recs))); err != nil {
		return errors.WithMessagef(err, "%s count", l.Name)
	}
	return EncodeSequence(w, l, recs, len(recs))
}
