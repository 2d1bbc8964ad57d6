// Package record decodes and encodes fixed-size binary records.
//
// A [Layout] is an ordered list of [Field] declarations. Each field has a
// primitive [Kind] and either a repeat count (numeric kinds) or a byte
// width (Bytes and String). The layout's size is the sum of its field
// widths, so a record never reads past its own boundary.
//
// # Values
//
// A decoded [Record] maps field names to Go values:
//
//	Kind               | Count == 0 | Count > 0
//	-------------------|------------|-----------
//	Int8 .. Uint32     | int64      | []int64
//	Float32            | float32    | []float32
//	Bytes              | []byte     | -
//	String             | string     | -
//
// # Sequences
//
// [DecodeSequence] reads exactly N records and checks N*size against the
// remaining bytes before reading anything, so an oversized count fails
// without producing records. [EncodeSequence] refuses to write a sequence
// whose length disagrees with an externally stored count.
package record
