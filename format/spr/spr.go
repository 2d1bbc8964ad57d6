// Package spr reads and writes Quake sprites (IDSP version 1).
//
// Frames are tagged: a single frame is an origin, a size and width*height
// palette indices; a group is a count, one interval per frame and that
// many single frames, each with its own tag.
package spr

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-vgio/internal/chunk"
	"github.com/robert-malhotra/go-vgio/internal/record"
	"github.com/robert-malhotra/go-vgio/internal/variant"
)

const (
	// Magic identifies a sprite.
	Magic = "IDSP"
	// Version is the only supported version.
	Version = 1
)

// Frame tags.
const (
	Single = 0
	Group  = 1
)

// Orientation types.
const (
	ParallelUpright  = 0
	FacingUpright    = 1
	Parallel         = 2
	Oriented         = 3
	ParallelOriented = 4
)

// Sync types.
const (
	SyncOn   = 0
	SyncRand = 1
)

var headerLayout = record.MustLayout("spr header",
	record.I32("type"),
	record.F32("bounding_radius"),
	record.I32("width"),
	record.I32("height"),
	record.I32("num_frames"),
	record.F32("beam_length"),
	record.I32("sync_type"),
)

var frameLayout = record.MustLayout("frame",
	record.I32("origin_x"),
	record.I32("origin_y"),
	record.I32("width"),
	record.I32("height"),
)

var groupLayout = record.MustLayout("group", record.I32("count"))

var intervalLayout = record.MustLayout("interval", record.F32("interval"))

func pixels(head record.Record) ([]variant.Segment, error) {
	n, err := variant.Count(head.Int("width"), head.Int("height"))
	if err != nil {
		return nil, errors.WithMessage(err, "frame pixels")
	}
	return []variant.Segment{{Name: "pixels", Raw: true, Count: n}}, nil
}

var singleCase = variant.Case{Tag: Single, Name: "single", Layout: frameLayout, Trailer: pixels}

var singleTable = variant.NewTable("frame", record.Int32, singleCase)

var frameTable = variant.NewTable("frame", record.Int32,
	singleCase,
	variant.Case{Tag: Group, Name: "group", Layout: groupLayout, Trailer: func(head record.Record) ([]variant.Segment, error) {
		n := int(head.Int("count"))
		return []variant.Segment{
			{Name: "intervals", Layout: intervalLayout, Count: n},
			{Name: "frames", Nested: singleTable, Count: n},
		}, nil
	}},
)

// Format is the chunk declaration of a sprite file.
var Format = &chunk.Format{
	Name:         "spr",
	Magic:        []byte(Magic),
	VersionField: record.Int32,
	Versions:     []int64{Version},
	Header:       headerLayout,
	Chunks: []chunk.Chunk{
		{Name: "frames", Kind: chunk.Variants, CountFrom: "num_frames", Table: func(record.Record) (*variant.Table, error) {
			return frameTable, nil
		}},
	},
}

// Sprite is a decoded sprite.
type Sprite struct {
	Type           int32
	BoundingRadius float32
	Width          int32
	Height         int32
	BeamLength     float32
	SyncType       int32
	Frames         []Frame
}

// Frame is a single picture or a timed group. Origin, size and Pixels are
// set for single frames, Intervals and Frames for groups.
type Frame struct {
	Type      int32
	OriginX   int32
	OriginY   int32
	Width     int32
	Height    int32
	Pixels    []byte
	Intervals []float32
	Frames    []Frame
}

// Is reports whether data starts with the sprite magic.
func Is(data []byte) bool {
	return bytes.HasPrefix(data, []byte(Magic))
}

// Decode parses a sprite file.
func Decode(data []byte) (*Sprite, error) {
	obj, err := chunk.Decode(Format, data)
	if err != nil {
		return nil, err
	}
	h := obj.Header
	s := &Sprite{
		Type:           int32(h.Int("type")),
		BoundingRadius: h.Float("bounding_radius"),
		Width:          int32(h.Int("width")),
		Height:         int32(h.Int("height")),
		BeamLength:     h.Float("beam_length"),
		SyncType:       int32(h.Int("sync_type")),
	}
	for _, v := range obj.Chunk("frames").Variants {
		s.Frames = append(s.Frames, frameFrom(v))
	}
	return s, nil
}

// Encode serialises s. The frame count is derived from s.Frames and every
// single frame must hold its own Width*Height pixels.
func Encode(s *Sprite) ([]byte, error) {
	return chunk.Encode(Format, s.Object())
}

// Object returns s as a generic chunk object.
func (s *Sprite) Object() *chunk.Object {
	frames := make([]variant.Variant, len(s.Frames))
	for i := range s.Frames {
		frames[i] = s.Frames[i].variant()
	}
	return &chunk.Object{
		Version: Version,
		Header: record.Record{
			"type":            s.Type,
			"bounding_radius": s.BoundingRadius,
			"width":           s.Width,
			"height":          s.Height,
			"beam_length":     s.BeamLength,
			"sync_type":       s.SyncType,
		},
		Chunks: []chunk.Data{{Name: "frames", Variants: frames}},
	}
}

func (f *Frame) variant() variant.Variant {
	if f.Type == Single {
		return variant.Variant{
			Tag: Single,
			Head: record.Record{
				"origin_x": f.OriginX,
				"origin_y": f.OriginY,
				"width":    f.Width,
				"height":   f.Height,
			},
			Parts: []variant.Part{{Name: "pixels", Data: f.Pixels}},
		}
	}

	intervals := make([]record.Record, len(f.Intervals))
	for i, x := range f.Intervals {
		intervals[i] = record.Record{"interval": x}
	}
	subs := make([]variant.Variant, len(f.Frames))
	for i := range f.Frames {
		subs[i] = f.Frames[i].variant()
	}
	return variant.Variant{
		Tag:  int64(f.Type),
		Head: record.Record{"count": int64(len(f.Frames))},
		Parts: []variant.Part{
			{Name: "intervals", Records: intervals},
			{Name: "frames", Variants: subs},
		},
	}
}

func frameFrom(v variant.Variant) Frame {
	f := Frame{Type: int32(v.Tag)}
	if v.Tag == Single {
		f.OriginX = int32(v.Head.Int("origin_x"))
		f.OriginY = int32(v.Head.Int("origin_y"))
		f.Width = int32(v.Head.Int("width"))
		f.Height = int32(v.Head.Int("height"))
		f.Pixels = v.Part("pixels").Data
		return f
	}
	recs := v.Part("intervals").Records
	f.Intervals = make([]float32, len(recs))
	for i, r := range recs {
		f.Intervals[i] = r.Float("interval")
	}
	for _, sub := range v.Part("frames").Variants {
		f.Frames = append(f.Frames, frameFrom(sub))
	}
	return f
}
