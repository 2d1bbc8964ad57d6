package record

import (
	"reflect"

	"github.com/pkg/errors"
)

// Pack converts a struct into a record. Fields tagged `record:"name"` are
// stored under that name; untagged fields are skipped. Integer fields
// become int64, float32 fields float32, integer and float arrays []int64
// and []float32.
func Pack(v interface{}) (Record, error) {
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		return nil, errors.Errorf("record: cannot pack %T", v)
	}

	rec := make(Record)
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		name, ok := tagName(rt.Field(i))
		if !ok {
			continue
		}
		x, err := packValue(rv.Field(i))
		if err != nil {
			return nil, errors.WithMessagef(err, "record: field %s", rt.Field(i).Name)
		}
		rec[name] = x
	}
	return rec, nil
}

// Unpack copies the fields of r into the struct pointed to by v, using the
// same tags as Pack. Fields absent from r are left unchanged.
func Unpack(r Record, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return errors.Errorf("record: cannot unpack into %T", v)
	}
	rv = rv.Elem()

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		name, ok := tagName(rt.Field(i))
		if !ok {
			continue
		}
		x, ok := r[name]
		if !ok {
			continue
		}
		if err := unpackValue(rv.Field(i), x); err != nil {
			return errors.WithMessagef(err, "record: field %s", rt.Field(i).Name)
		}
	}
	return nil
}

func tagName(f reflect.StructField) (string, bool) {
	name := f.Tag.Get("record")
	if name == "" || name == "-" || !f.IsExported() {
		return "", false
	}
	return name, true
}

func packValue(v reflect.Value) (interface{}, error) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return int64(v.Uint()), nil
	case reflect.Float32:
		return float32(v.Float()), nil
	case reflect.String:
		return v.String(), nil
	case reflect.Slice, reflect.Array:
		return packSeq(v)
	}
	return nil, errors.Errorf("unsupported kind %s", v.Kind())
}

func packSeq(v reflect.Value) (interface{}, error) {
	switch v.Type().Elem().Kind() {
	case reflect.Uint8:
		if v.Kind() == reflect.Slice {
			return append([]byte(nil), v.Bytes()...), nil
		}
		fallthrough
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint16, reflect.Uint32:
		out := make([]int64, v.Len())
		for i := range out {
			x, _ := packValue(v.Index(i))
			out[i] = x.(int64)
		}
		return out, nil
	case reflect.Float32:
		out := make([]float32, v.Len())
		for i := range out {
			out[i] = float32(v.Index(i).Float())
		}
		return out, nil
	}
	return nil, errors.Errorf("unsupported element kind %s", v.Type().Elem().Kind())
}

func unpackValue(dst reflect.Value, x interface{}) error {
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := toInt64(x)
		if !ok {
			return errors.Errorf("expected integer, got %T", x)
		}
		dst.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		n, ok := toInt64(x)
		if !ok {
			return errors.Errorf("expected integer, got %T", x)
		}
		dst.SetUint(uint64(n))
	case reflect.Float32:
		f, ok := toFloat32(x)
		if !ok {
			return errors.Errorf("expected float, got %T", x)
		}
		dst.SetFloat(float64(f))
	case reflect.String:
		s, ok := x.(string)
		if !ok {
			return errors.Errorf("expected string, got %T", x)
		}
		dst.SetString(s)
	case reflect.Slice, reflect.Array:
		return unpackSeq(dst, x)
	default:
		return errors.Errorf("unsupported kind %s", dst.Kind())
	}
	return nil
}

func unpackSeq(dst reflect.Value, x interface{}) error {
	var (
		n   int
		get func(i int) interface{}
	)
	switch xs := x.(type) {
	case []byte:
		if dst.Kind() == reflect.Slice && dst.Type().Elem().Kind() == reflect.Uint8 {
			dst.SetBytes(append([]byte(nil), xs...))
			return nil
		}
		n, get = len(xs), func(i int) interface{} { return xs[i] }
	case []int64:
		n, get = len(xs), func(i int) interface{} { return xs[i] }
	case []float32:
		n, get = len(xs), func(i int) interface{} { return xs[i] }
	default:
		return errors.Errorf("expected sequence, got %T", x)
	}

	if dst.Kind() == reflect.Array {
		if n != dst.Len() {
			return errors.Errorf("expected %d elements, got %d", dst.Len(), n)
		}
	} else {
		dst.Set(reflect.MakeSlice(dst.Type(), n, n))
	}
	for i := 0; i < n; i++ {
		if err := unpackValue(dst.Index(i), get(i)); err != nil {
			return errors.WithMessagef(err, "element %d", i)
		}
	}
	return nil
}
