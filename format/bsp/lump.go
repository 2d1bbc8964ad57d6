package bsp

import (
	"reflect"

	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-vgio/internal/chunk"
	"github.com/robert-malhotra/go-vgio/internal/record"
)

func rawLump(obj *chunk.Object, name string) []byte {
	if d := obj.Chunk(name); d != nil {
		return d.Raw
	}
	return nil
}

// unpackLump fills the slice pointed to by dst with one element per record.
func unpackLump(obj *chunk.Object, name string, dst interface{}) error {
	d := obj.Chunk(name)
	if d == nil {
		return nil
	}
	slice := reflect.ValueOf(dst).Elem()
	out := reflect.MakeSlice(slice.Type(), len(d.Records), len(d.Records))
	for i, rec := range d.Records {
		if err := record.Unpack(rec, out.Index(i).Addr().Interface()); err != nil {
			return errors.WithMessagef(err, "record %d", i)
		}
	}
	slice.Set(out)
	return nil
}

// packLump converts a slice of tagged structs into records.
func packLump(src interface{}) ([]record.Record, error) {
	v := reflect.ValueOf(src)
	out := make([]record.Record, v.Len())
	for i := range out {
		rec, err := record.Pack(v.Index(i).Interface())
		if err != nil {
			return nil, errors.WithMessagef(err, "element %d", i)
		}
		out[i] = rec
	}
	return out, nil
}

type integer interface {
	~int16 | ~uint16 | ~int32
}

// column extracts a single-field lump as a flat slice.
func column[T integer](obj *chunk.Object, name, field string) []T {
	d := obj.Chunk(name)
	if d == nil {
		return nil
	}
	out := make([]T, len(d.Records))
	for i, rec := range d.Records {
		out[i] = T(rec.Int(field))
	}
	return out
}

func columnRecords[T integer](xs []T, field string) []record.Record {
	out := make([]record.Record, len(xs))
	for i, x := range xs {
		out[i] = record.Record{field: int64(x)}
	}
	return out
}
