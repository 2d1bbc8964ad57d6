package record

// Record is one decoded instance of a Layout, keyed by field name.
//
// Integer fields hold int64 and float fields hold float32; repeated fields
// hold []int64 or []float32. Encode also accepts the other Go integer and
// float types so records can be assembled from typed structs.
type Record map[string]interface{}

// Int returns an integer field, or 0 if it is absent.
func (r Record) Int(name string) int64 {
	v, _ := toInt64(r[name])
	return v
}

// Ints returns a repeated integer field.
func (r Record) Ints(name string) []int64 {
	v, _ := toInt64s(r[name])
	return v
}

// Float returns a float field, or 0 if it is absent.
func (r Record) Float(name string) float32 {
	v, _ := toFloat32(r[name])
	return v
}

// Floats returns a repeated float field.
func (r Record) Floats(name string) []float32 {
	v, _ := r[name].([]float32)
	return v
}

// Bytes returns a byte field.
func (r Record) Bytes(name string) []byte {
	v, _ := r[name].([]byte)
	return v
}

// String returns a string field.
func (r Record) String(name string) string {
	v, _ := r[name].(string)
	return v
}

// Set stores a field value and returns the record for chaining.
func (r Record) Set(name string, v interface{}) Record {
	r[name] = v
	return r
}

// Clone returns a copy of the record. Slices are copied too.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		switch v := v.(type) {
		case []byte:
			out[k] = append([]byte(nil), v...)
		case []int64:
			out[k] = append([]int64(nil), v...)
		case []float32:
			out[k] = append([]float32(nil), v...)
		default:
			out[k] = v
		}
	}
	return out
}

func toInt64(v interface{}) (int64, bool) {
	switch v := v.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint:
		return int64(v), true
	default:
		return 0, false
	}
}

func toInt64s(v interface{}) ([]int64, bool) {
	switch v := v.(type) {
	case []int64:
		return v, true
	case []int:
		out := make([]int64, len(v))
		for i, x := range v {
			out[i] = int64(x)
		}
		return out, true
	case []int32:
		out := make([]int64, len(v))
		for i, x := range v {
			out[i] = int64(x)
		}
		return out, true
	case []int16:
		out := make([]int64, len(v))
		for i, x := range v {
			out[i] = int64(x)
		}
		return out, true
	default:
		return nil, false
	}
}

func toFloat32(v interface{}) (float32, bool) {
	switch v := v.(type) {
	case float32:
		return v, true
	case float64:
		return float32(v), true
	default:
		return 0, false
	}
}
