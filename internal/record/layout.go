package record

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-vgio/internal/errs"
)

// Kind is the primitive type of a field.
type Kind uint8

// Field kinds.
const (
	Int8 Kind = iota + 1
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Float32
	Bytes
	String
)

var kindNames = map[Kind]string{
	Int8:    "int8",
	Uint8:   "uint8",
	Int16:   "int16",
	Uint16:  "uint16",
	Int32:   "int32",
	Uint32:  "uint32",
	Float32: "float32",
	Bytes:   "bytes",
	String:  "string",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Width returns the encoded size of one element of k, or 0 for the
// variable-width kinds Bytes and String.
func (k Kind) Width() int {
	switch k {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	default:
		return 0
	}
}

// IsInteger reports whether k is one of the integer kinds.
func (k Kind) IsInteger() bool {
	return k >= Int8 && k <= Uint32
}

// Field describes one field of a record.
type Field struct {
	Name string
	Kind Kind
	// Count is the number of elements for numeric kinds. Zero means a
	// scalar.
	Count int
	// Size is the byte width of Bytes and String fields.
	Size int
}

// Width returns the number of bytes the field occupies.
func (f Field) Width() int {
	switch f.Kind {
	case Bytes, String:
		return f.Size
	}
	if f.Count > 0 {
		return f.Kind.Width() * f.Count
	}
	return f.Kind.Width()
}

// Field constructors.

func I8(name string) Field           { return Field{Name: name, Kind: Int8} }
func U8(name string) Field           { return Field{Name: name, Kind: Uint8} }
func I16(name string) Field          { return Field{Name: name, Kind: Int16} }
func U16(name string) Field          { return Field{Name: name, Kind: Uint16} }
func I32(name string) Field          { return Field{Name: name, Kind: Int32} }
func U32(name string) Field          { return Field{Name: name, Kind: Uint32} }
func F32(name string) Field          { return Field{Name: name, Kind: Float32} }
func Str(name string, n int) Field   { return Field{Name: name, Kind: String, Size: n} }
func Raw(name string, n int) Field   { return Field{Name: name, Kind: Bytes, Size: n} }
func Array(f Field, count int) Field { f.Count = count; return f }

// Layout is an ordered, validated list of fields.
type Layout struct {
	Name   string
	fields []Field
	index  map[string]int
	size   int
}

// NewLayout validates fields and returns a layout. Field names must be
// unique and non-empty, every field must have a positive width and numeric
// counts may not be negative.
func NewLayout(name string, fields ...Field) (*Layout, error) {
	l := &Layout{
		Name:   name,
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	copy(l.fields, fields)

	for i, f := range l.fields {
		if f.Name == "" {
			return nil, errors.Errorf("layout %s: field %d has no name", name, i)
		}
		if _, dup := l.index[f.Name]; dup {
			return nil, errors.Errorf("layout %s: duplicate field %q", name, f.Name)
		}
		if _, ok := kindNames[f.Kind]; !ok {
			return nil, errors.Errorf("layout %s: field %q has unknown kind %d", name, f.Name, f.Kind)
		}
		if f.Count < 0 {
			return nil, errors.Errorf("layout %s: field %q has negative count %d", name, f.Name, f.Count)
		}
		if (f.Kind == Bytes || f.Kind == String) && f.Count != 0 {
			return nil, errors.Errorf("layout %s: field %q: %s fields cannot repeat", name, f.Name, f.Kind)
		}
		if f.Width() <= 0 {
			return nil, errors.Errorf("layout %s: field %q has zero width", name, f.Name)
		}
		l.index[f.Name] = i
		l.size += f.Width()
	}
	return l, nil
}

// MustLayout is like NewLayout but panics on an invalid declaration. It is
// meant for package-level layout tables.
func MustLayout(name string, fields ...Field) *Layout {
	l, err := NewLayout(name, fields...)
	if err != nil {
		panic(err)
	}
	return l
}

// Size returns the encoded size of one record in bytes.
func (l *Layout) Size() int {
	return l.size
}

// Fields returns the fields in declared order.
func (l *Layout) Fields() []Field {
	out := make([]Field, len(l.fields))
	copy(out, l.fields)
	return out
}

// Field looks up a field by name.
func (l *Layout) Field(name string) (Field, bool) {
	i, ok := l.index[name]
	if !ok {
		return Field{}, false
	}
	return l.fields[i], true
}

// Zero returns a record holding the zero value of every field.
func (l *Layout) Zero() Record {
	rec := make(Record, len(l.fields))
	for _, f := range l.fields {
		switch {
		case f.Kind == Bytes:
			rec[f.Name] = make([]byte, f.Size)
		case f.Kind == String:
			rec[f.Name] = ""
		case f.Kind == Float32 && f.Count > 0:
			rec[f.Name] = make([]float32, f.Count)
		case f.Kind == Float32:
			rec[f.Name] = float32(0)
		case f.Count > 0:
			rec[f.Name] = make([]int64, f.Count)
		default:
			rec[f.Name] = int64(0)
		}
	}
	return rec
}

func wrapField(err error, l *Layout, f Field, offset int64) error {
	return errors.WithMessagef(err, "%s.%s at offset %d", l.Name, f.Name, offset)
}

func encodingError(format string, args ...interface{}) error {
	return errors.Wrapf(errs.ErrEncoding, format, args...)
}
