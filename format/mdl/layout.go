package mdl

import (
	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-vgio/internal/chunk"
	"github.com/robert-malhotra/go-vgio/internal/record"
	"github.com/robert-malhotra/go-vgio/internal/variant"
)

// header after the magic and version
var headerLayout = record.MustLayout("mdl header",
	record.Array(record.F32("scale"), 3),
	record.Array(record.F32("origin"), 3),
	record.F32("radius"),
	record.Array(record.F32("eye_position"), 3),
	record.I32("num_skins"),
	record.I32("skin_width"),
	record.I32("skin_height"),
	record.I32("num_verts"),
	record.I32("num_tris"),
	record.I32("num_frames"),
	record.I32("sync_type"),
	record.I32("flags"),
	record.F32("size"),
)

var stVertexLayout = record.MustLayout("st vertex",
	record.I32("on_seam"),
	record.I32("s"),
	record.I32("t"),
)

var triangleLayout = record.MustLayout("triangle",
	record.I32("faces_front"),
	record.Array(record.I32("vertices"), 3),
)

var triVertexLayout = record.MustLayout("trivertex",
	record.Array(record.U8("position"), 3),
	record.U8("light_normal_index"),
)

var frameHeadLayout = record.MustLayout("frame",
	record.Array(record.U8("bbox_min"), 4),
	record.Array(record.U8("bbox_max"), 4),
	record.Str("name", NameSize),
)

var frameGroupLayout = record.MustLayout("frame group",
	record.I32("count"),
	record.Array(record.U8("bbox_min"), 4),
	record.Array(record.U8("bbox_max"), 4),
)

var countLayout = record.MustLayout("group", record.I32("count"))

var intervalLayout = record.MustLayout("interval", record.F32("interval"))

// Format is the chunk declaration of an MDL file. Skin, vertex, triangle
// and frame counts live in the header.
var Format = &chunk.Format{
	Name:         "mdl",
	Magic:        []byte(Magic),
	VersionField: record.Int32,
	Versions:     []int64{Version},
	Header:       headerLayout,
	Chunks: []chunk.Chunk{
		{Name: "skins", Kind: chunk.Variants, CountFrom: "num_skins", Table: skinTable},
		{Name: "st_vertices", Kind: chunk.Records, Layout: stVertexLayout, CountFrom: "num_verts"},
		{Name: "triangles", Kind: chunk.Records, Layout: triangleLayout, CountFrom: "num_tris"},
		{Name: "frames", Kind: chunk.Variants, CountFrom: "num_frames", Table: frameTable},
	},
}

func skinTable(header record.Record) (*variant.Table, error) {
	w, h := header.Int("skin_width"), header.Int("skin_height")
	return variant.NewTable("skin", record.Int32,
		variant.Case{Tag: Single, Name: "single", Trailer: func(record.Record) ([]variant.Segment, error) {
			area, err := variant.Count(w, h)
			if err != nil {
				return nil, errors.WithMessage(err, "skin pixels")
			}
			return []variant.Segment{{Name: "pixels", Raw: true, Count: area}}, nil
		}},
		variant.Case{Tag: Group, Name: "group", Layout: countLayout, Trailer: func(head record.Record) ([]variant.Segment, error) {
			n := head.Int("count")
			pixels, err := variant.Count(w, h, n)
			if err != nil {
				return nil, errors.WithMessage(err, "skin group pixels")
			}
			return []variant.Segment{
				{Name: "intervals", Layout: intervalLayout, Count: int(n)},
				{Name: "pixels", Raw: true, Count: pixels},
			}, nil
		}},
	), nil
}

func frameTable(header record.Record) (*variant.Table, error) {
	verts := int(header.Int("num_verts"))
	simple := &variant.Case{Tag: Single, Name: "frame", Layout: frameHeadLayout, Trailer: func(record.Record) ([]variant.Segment, error) {
		return []variant.Segment{{Name: "vertices", Layout: triVertexLayout, Count: verts}}, nil
	}}
	return variant.NewTable("frame", record.Int32,
		*simple,
		variant.Case{Tag: Group, Name: "group", Layout: frameGroupLayout, Trailer: func(head record.Record) ([]variant.Segment, error) {
			n := int(head.Int("count"))
			return []variant.Segment{
				{Name: "intervals", Layout: intervalLayout, Count: n},
				{Name: "frames", Inline: simple, Count: n},
			}, nil
		}},
	), nil
}
