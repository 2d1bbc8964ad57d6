// Package mdl reads and writes Quake alias models (IDPO version 6).
//
// The 84-byte header carries the skin, vertex, triangle and frame counts
// that size every following section. Skins and frames are tagged: tag 0
// is a single skin or frame, tag 1 a timed group. Group frames hold their
// subframes back to back without tags of their own.
package mdl

import (
	"bytes"

	"github.com/robert-malhotra/go-vgio/internal/chunk"
	"github.com/robert-malhotra/go-vgio/internal/record"
	"github.com/robert-malhotra/go-vgio/internal/variant"
)

const (
	// Magic identifies an alias model.
	Magic = "IDPO"
	// Version is the only supported version.
	Version = 6
	// NameSize is the width of a frame name.
	NameSize = 16
)

// Skin and frame tags.
const (
	Single = 0
	Group  = 1
)

// Sync types.
const (
	SyncOn   = 0
	SyncRand = 1
)

// Effect flags.
const (
	FlagRocket  = 1
	FlagGrenade = 2
	FlagGib     = 4
	FlagRotate  = 8
	FlagTracer  = 16
	FlagZomgib  = 32
	FlagTracer2 = 64
	FlagTracer3 = 128
)

// Model is a decoded alias model.
type Model struct {
	Scale       [3]float32
	Origin      [3]float32
	Radius      float32
	EyePosition [3]float32
	SkinWidth   int32
	SkinHeight  int32
	SyncType    int32
	Flags       int32
	Size        float32

	Skins      []Skin
	STVertices []STVertex
	Triangles  []Triangle
	Frames     []Frame
}

// Skin is a single skin or a timed group of skins. Pixels holds
// SkinWidth*SkinHeight palette indices per picture.
type Skin struct {
	Type      int32
	Intervals []float32
	Pixels    []byte
}

// STVertex is a texture coordinate.
type STVertex struct {
	OnSeam int32
	S      int32
	T      int32
}

// Triangle indexes three vertices.
type Triangle struct {
	FacesFront int32
	Vertices   [3]int32
}

// TriVertex is a packed vertex position and normal index.
type TriVertex struct {
	Position         [3]uint8
	LightNormalIndex uint8
}

// Frame is a single animation frame or a timed group of frames. Name and
// Vertices are set for single frames, Intervals and Frames for groups.
type Frame struct {
	Type      int32
	BBoxMin   TriVertex
	BBoxMax   TriVertex
	Name      string
	Vertices  []TriVertex
	Intervals []float32
	Frames    []Frame
}

// Is reports whether data starts with the MDL magic.
func Is(data []byte) bool {
	return bytes.HasPrefix(data, []byte(Magic))
}

// Decode parses an MDL file.
func Decode(data []byte) (*Model, error) {
	obj, err := chunk.Decode(Format, data)
	if err != nil {
		return nil, err
	}
	return fromObject(obj), nil
}

// Encode serialises m. Header counts are derived from the slices; every
// frame must hold len(m.STVertices) vertices and every skin picture
// SkinWidth*SkinHeight pixels.
func Encode(m *Model) ([]byte, error) {
	return chunk.Encode(Format, m.Object())
}

// Object returns m as a generic chunk object.
func (m *Model) Object() *chunk.Object {
	obj := &chunk.Object{
		Version: Version,
		Header: record.Record{
			"scale":        m.Scale[:],
			"origin":       m.Origin[:],
			"radius":       m.Radius,
			"eye_position": m.EyePosition[:],
			"skin_width":   m.SkinWidth,
			"skin_height":  m.SkinHeight,
			"sync_type":    m.SyncType,
			"flags":        m.Flags,
			"size":         m.Size,
		},
	}

	skins := make([]variant.Variant, len(m.Skins))
	for i, s := range m.Skins {
		skins[i] = s.variant()
	}
	stverts := make([]record.Record, len(m.STVertices))
	for i, v := range m.STVertices {
		stverts[i] = record.Record{"on_seam": v.OnSeam, "s": v.S, "t": v.T}
	}
	tris := make([]record.Record, len(m.Triangles))
	for i, t := range m.Triangles {
		tris[i] = record.Record{"faces_front": t.FacesFront, "vertices": t.Vertices[:]}
	}
	frames := make([]variant.Variant, len(m.Frames))
	for i := range m.Frames {
		frames[i] = m.Frames[i].variant()
	}

	obj.Chunks = []chunk.Data{
		{Name: "skins", Variants: skins},
		{Name: "st_vertices", Records: stverts},
		{Name: "triangles", Records: tris},
		{Name: "frames", Variants: frames},
	}
	return obj
}

func (s Skin) variant() variant.Variant {
	if s.Type == Single {
		return variant.Variant{
			Tag:   Single,
			Parts: []variant.Part{{Name: "pixels", Data: s.Pixels}},
		}
	}
	return variant.Variant{
		Tag:  int64(s.Type),
		Head: record.Record{"count": int64(len(s.Intervals))},
		Parts: []variant.Part{
			{Name: "intervals", Records: intervalRecords(s.Intervals)},
			{Name: "pixels", Data: s.Pixels},
		},
	}
}

func (f *Frame) variant() variant.Variant {
	if f.Type == Single {
		return variant.Variant{
			Tag: Single,
			Head: record.Record{
				"bbox_min": f.BBoxMin.ints(),
				"bbox_max": f.BBoxMax.ints(),
				"name":     f.Name,
			},
			Parts: []variant.Part{{Name: "vertices", Records: triVertexRecords(f.Vertices)}},
		}
	}
	subs := make([]variant.Variant, len(f.Frames))
	for i := range f.Frames {
		subs[i] = f.Frames[i].variant()
	}
	return variant.Variant{
		Tag: int64(f.Type),
		Head: record.Record{
			"count":    int64(len(f.Frames)),
			"bbox_min": f.BBoxMin.ints(),
			"bbox_max": f.BBoxMax.ints(),
		},
		Parts: []variant.Part{
			{Name: "intervals", Records: intervalRecords(f.Intervals)},
			{Name: "frames", Variants: subs},
		},
	}
}

func (v TriVertex) ints() []int64 {
	return []int64{int64(v.Position[0]), int64(v.Position[1]), int64(v.Position[2]), int64(v.LightNormalIndex)}
}

func triVertexFrom(xs []int64) TriVertex {
	var v TriVertex
	for i := range v.Position {
		v.Position[i] = uint8(xs[i])
	}
	v.LightNormalIndex = uint8(xs[3])
	return v
}

func triVertexRecords(vs []TriVertex) []record.Record {
	out := make([]record.Record, len(vs))
	for i, v := range vs {
		out[i] = record.Record{
			"position":           []int64{int64(v.Position[0]), int64(v.Position[1]), int64(v.Position[2])},
			"light_normal_index": v.LightNormalIndex,
		}
	}
	return out
}

func intervalRecords(xs []float32) []record.Record {
	out := make([]record.Record, len(xs))
	for i, x := range xs {
		out[i] = record.Record{"interval": x}
	}
	return out
}

func intervalsFrom(p *variant.Part) []float32 {
	out := make([]float32, len(p.Records))
	for i, r := range p.Records {
		out[i] = r.Float("interval")
	}
	return out
}

func fromObject(obj *chunk.Object) *Model {
	h := obj.Header
	m := &Model{
		Radius:     h.Float("radius"),
		SkinWidth:  int32(h.Int("skin_width")),
		SkinHeight: int32(h.Int("skin_height")),
		SyncType:   int32(h.Int("sync_type")),
		Flags:      int32(h.Int("flags")),
		Size:       h.Float("size"),
	}
	copy(m.Scale[:], h.Floats("scale"))
	copy(m.Origin[:], h.Floats("origin"))
	copy(m.EyePosition[:], h.Floats("eye_position"))

	for _, v := range obj.Chunk("skins").Variants {
		s := Skin{Type: int32(v.Tag), Pixels: v.Part("pixels").Data}
		if v.Tag == Group {
			s.Intervals = intervalsFrom(v.Part("intervals"))
		}
		m.Skins = append(m.Skins, s)
	}
	for _, r := range obj.Chunk("st_vertices").Records {
		m.STVertices = append(m.STVertices, STVertex{
			OnSeam: int32(r.Int("on_seam")),
			S:      int32(r.Int("s")),
			T:      int32(r.Int("t")),
		})
	}
	for _, r := range obj.Chunk("triangles").Records {
		t := Triangle{FacesFront: int32(r.Int("faces_front"))}
		for i, x := range r.Ints("vertices") {
			t.Vertices[i] = int32(x)
		}
		m.Triangles = append(m.Triangles, t)
	}
	for _, v := range obj.Chunk("frames").Variants {
		m.Frames = append(m.Frames, frameFrom(v))
	}
	return m
}

func frameFrom(v variant.Variant) Frame {
	f := Frame{
		Type:    int32(v.Tag),
		BBoxMin: triVertexFrom(v.Head.Ints("bbox_min")),
		BBoxMax: triVertexFrom(v.Head.Ints("bbox_max")),
	}
	if v.Tag == Single {
		f.Name = v.Head.String("name")
		recs := v.Part("vertices").Records
		f.Vertices = make([]TriVertex, len(recs))
		for i, r := range recs {
			pos := r.Ints("position")
			f.Vertices[i] = TriVertex{
				Position:         [3]uint8{uint8(pos[0]), uint8(pos[1]), uint8(pos[2])},
				LightNormalIndex: uint8(r.Int("light_normal_index")),
			}
		}
		return f
	}
	f.Intervals = intervalsFrom(v.Part("intervals"))
	for _, sub := range v.Part("frames").Variants {
		f.Frames = append(f.Frames, frameFrom(sub))
	}
	return f
}
