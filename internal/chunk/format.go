// Package chunk reads and writes files made of a magic, a version, an
// optional header record and an ordered list of chunks.
//
// A [Format] declares the file. Chunks are either laid out inline one after
// another, each with a count taken from an inline prefix or a header field,
// or (when Lumps is set) stored as independent regions addressed by a
// descriptor table of offset/length pairs that follows the version.
//
// Decoding is a state machine that walks
//
//	ExpectMagic -> ExpectVersion -> ExpectHeader -> ExpectChunk(k) -> Done
//
// and stops at the first failure without returning a partial [Object].
// Encoding writes the same sequence and re-derives every count field and
// lump descriptor from the current chunk contents.
package chunk

import (
	"fmt"

	"github.com/robert-malhotra/go-vgio/internal/record"
	"github.com/robert-malhotra/go-vgio/internal/variant"
)

// Kind is the element type of a chunk.
type Kind uint8

// Chunk kinds.
const (
	// Records is a counted sequence of fixed-layout records.
	Records Kind = iota + 1
	// Variants is a counted sequence of tag-discriminated variants.
	Variants
	// Raw is an opaque byte run.
	Raw
)

func (k Kind) String() string {
	switch k {
	case Records:
		return "records"
	case Variants:
		return "variants"
	case Raw:
		return "raw"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// TableFunc returns the variant table for a chunk. It receives the decoded
// file header because payload sizes often depend on header fields.
type TableFunc func(header record.Record) (*variant.Table, error)

// Chunk declares one chunk of a format.
type Chunk struct {
	Name   string
	Kind   Kind
	Layout *record.Layout
	Table  TableFunc

	// CountField, when set, is the kind of an inline count prefix.
	CountField record.Kind
	// CountFrom names the header field holding the element count.
	CountFrom string
}

// Format declares a structured file.
type Format struct {
	Name  string
	Magic []byte
	// VersionField is the kind of the version integer, or 0 when the
	// format has no version.
	VersionField record.Kind
	Versions     []int64
	Header       *record.Layout
	// Lumps selects descriptor-table placement: one int32 offset and
	// int32 length per chunk, in declared order, right after the version.
	Lumps  bool
	Chunks []Chunk
}

const lumpDescriptorSize = 8

func (f *Format) supports(version int64) bool {
	for _, v := range f.Versions {
		if v == version {
			return true
		}
	}
	return false
}

// Object is a decoded file.
type Object struct {
	Version int64
	Header  record.Record
	Chunks  []Data
}

// Data holds the decoded contents of one chunk.
type Data struct {
	Name     string
	Records  []record.Record
	Variants []variant.Variant
	Raw      []byte
}

// Len returns the number of elements in the chunk.
func (d *Data) Len() int {
	switch {
	case d.Raw != nil:
		return len(d.Raw)
	case d.Variants != nil:
		return len(d.Variants)
	default:
		return len(d.Records)
	}
}

// Chunk returns the named chunk, or nil.
func (o *Object) Chunk(name string) *Data {
	for i := range o.Chunks {
		if o.Chunks[i].Name == name {
			return &o.Chunks[i]
		}
	}
	return nil
}
