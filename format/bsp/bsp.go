// Package bsp reads and writes Quake 2 maps (IBSP version 38).
//
// After the magic and version comes a table of 19 lump descriptors, each
// an int32 offset and length. Every lump is an independent region: the
// entity text, visibility, lighting and pop lumps are kept as bytes, the
// rest are arrays of fixed-size records whose count is the lump length
// divided by the record size. Encoding writes the lumps contiguously in
// declared order and fills in the descriptors.
package bsp

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-vgio/internal/chunk"
	"github.com/robert-malhotra/go-vgio/internal/record"
)

const (
	// Magic identifies a BSP file.
	Magic = "IBSP"
	// Version is the only supported version.
	Version = 38
	// TextureNameSize is the width of a texinfo texture name.
	TextureNameSize = 32
)

// Plane is a splitting plane.
type Plane struct {
	Normal   [3]float32 `record:"normal"`
	Distance float32    `record:"distance"`
	Type     int32      `record:"type"`
}

// Vertex is a point in map space.
type Vertex struct {
	Position [3]float32 `record:"position"`
}

// Node is an interior BSP node. Negative children index leafs as -(leaf+1).
type Node struct {
	PlaneNumber int32    `record:"plane_number"`
	Children    [2]int32 `record:"children"`
	BBoxMin     [3]int16 `record:"bbox_min"`
	BBoxMax     [3]int16 `record:"bbox_max"`
	FirstFace   uint16   `record:"first_face"`
	NumFaces    uint16   `record:"num_faces"`
}

// TexInfo maps a texture onto faces.
type TexInfo struct {
	S           [3]float32 `record:"s"`
	SOffset     float32    `record:"s_offset"`
	T           [3]float32 `record:"t"`
	TOffset     float32    `record:"t_offset"`
	Flags       int32      `record:"flags"`
	Value       int32      `record:"value"`
	TextureName string     `record:"texture_name"`
	NextTexInfo int32      `record:"next_texinfo"`
}

// Face is a polygon bounded by a run of surfedges.
type Face struct {
	PlaneNumber uint16   `record:"plane_number"`
	Side        int16    `record:"side"`
	FirstEdge   int32    `record:"first_edge"`
	NumEdges    int16    `record:"num_edges"`
	TexInfo     int16    `record:"texinfo"`
	Styles      [4]uint8 `record:"styles"`
	LightOffset int32    `record:"light_offset"`
}

// Leaf is a convex region at the bottom of the tree.
type Leaf struct {
	Contents       int32    `record:"contents"`
	Cluster        int16    `record:"cluster"`
	Area           int16    `record:"area"`
	BBoxMin        [3]int16 `record:"bbox_min"`
	BBoxMax        [3]int16 `record:"bbox_max"`
	FirstLeafFace  uint16   `record:"first_leaf_face"`
	NumLeafFaces   uint16   `record:"num_leaf_faces"`
	FirstLeafBrush uint16   `record:"first_leaf_brush"`
	NumLeafBrushes uint16   `record:"num_leaf_brushes"`
}

// Edge joins two vertices.
type Edge struct {
	Vertices [2]uint16 `record:"vertices"`
}

// Model is a brush model; model 0 is the world.
type Model struct {
	BBoxMin   [3]float32 `record:"bbox_min"`
	BBoxMax   [3]float32 `record:"bbox_max"`
	Origin    [3]float32 `record:"origin"`
	HeadNode  int32      `record:"head_node"`
	FirstFace int32      `record:"first_face"`
	NumFaces  int32      `record:"num_faces"`
}

// Brush is a convex solid.
type Brush struct {
	FirstSide int32 `record:"first_side"`
	NumSides  int32 `record:"num_sides"`
	Contents  int32 `record:"contents"`
}

// BrushSide is one bounding plane of a brush.
type BrushSide struct {
	PlaneNumber uint16 `record:"plane_number"`
	TexInfo     int16  `record:"texinfo"`
}

// Area is a region connected to others through area portals.
type Area struct {
	NumAreaPortals  int32 `record:"num_area_portals"`
	FirstAreaPortal int32 `record:"first_area_portal"`
}

// AreaPortal connects two areas.
type AreaPortal struct {
	PortalNumber int32 `record:"portal_number"`
	OtherArea    int32 `record:"other_area"`
}

// BSP is a decoded map.
type BSP struct {
	Entities    []byte
	Planes      []Plane
	Vertices    []Vertex
	Visibility  []byte
	Nodes       []Node
	TexInfos    []TexInfo
	Faces       []Face
	Lighting    []byte
	Leafs       []Leaf
	LeafFaces   []uint16
	LeafBrushes []uint16
	Edges       []Edge
	SurfEdges   []int32
	Models      []Model
	Brushes     []Brush
	BrushSides  []BrushSide
	Pop         []byte
	Areas       []Area
	AreaPortals []AreaPortal
}

// EntityText returns the entity lump without its trailing NUL.
func (b *BSP) EntityText() string {
	return string(bytes.TrimRight(b.Entities, "\x00"))
}

// Is reports whether data starts with the BSP magic.
func Is(data []byte) bool {
	return bytes.HasPrefix(data, []byte(Magic))
}

// Decode parses a BSP file.
func Decode(data []byte) (*BSP, error) {
	obj, err := chunk.Decode(Format, data)
	if err != nil {
		return nil, err
	}
	return FromObject(obj)
}

// Encode serialises b.
func Encode(b *BSP) ([]byte, error) {
	obj, err := b.Object()
	if err != nil {
		return nil, err
	}
	return chunk.Encode(Format, obj)
}

// FromObject converts a decoded chunk object into typed lumps.
func FromObject(obj *chunk.Object) (*BSP, error) {
	b := &BSP{
		Entities:   rawLump(obj, LumpEntities),
		Visibility: rawLump(obj, LumpVisibility),
		Lighting:   rawLump(obj, LumpLighting),
		Pop:        rawLump(obj, LumpPop),
	}

	var err error
	unpack := func(name string, dst interface{}) {
		if err != nil {
			return
		}
		err = errors.WithMessagef(unpackLump(obj, name, dst), "bsp %s", name)
	}
	unpack(LumpPlanes, &b.Planes)
	unpack(LumpVertices, &b.Vertices)
	unpack(LumpNodes, &b.Nodes)
	unpack(LumpTexInfo, &b.TexInfos)
	unpack(LumpFaces, &b.Faces)
	unpack(LumpLeafs, &b.Leafs)
	unpack(LumpEdges, &b.Edges)
	unpack(LumpModels, &b.Models)
	unpack(LumpBrushes, &b.Brushes)
	unpack(LumpBrushSides, &b.BrushSides)
	unpack(LumpAreas, &b.Areas)
	unpack(LumpAreaPortals, &b.AreaPortals)
	if err != nil {
		return nil, err
	}

	b.LeafFaces = column[uint16](obj, LumpLeafFaces, "face")
	b.LeafBrushes = column[uint16](obj, LumpLeafBrushes, "brush")
	b.SurfEdges = column[int32](obj, LumpSurfEdges, "edge")
	return b, nil
}

// Object returns b as a generic chunk object.
func (b *BSP) Object() (*chunk.Object, error) {
	obj := &chunk.Object{Version: Version}
	add := func(d chunk.Data) { obj.Chunks = append(obj.Chunks, d) }

	var err error
	pack := func(name string, src interface{}) {
		if err != nil {
			return
		}
		var recs []record.Record
		recs, err = packLump(src)
		if err != nil {
			err = errors.WithMessagef(err, "bsp %s", name)
			return
		}
		add(chunk.Data{Name: name, Records: recs})
	}

	add(chunk.Data{Name: LumpEntities, Raw: b.Entities})
	pack(LumpPlanes, b.Planes)
	pack(LumpVertices, b.Vertices)
	add(chunk.Data{Name: LumpVisibility, Raw: b.Visibility})
	pack(LumpNodes, b.Nodes)
	pack(LumpTexInfo, b.TexInfos)
	pack(LumpFaces, b.Faces)
	add(chunk.Data{Name: LumpLighting, Raw: b.Lighting})
	pack(LumpLeafs, b.Leafs)
	add(chunk.Data{Name: LumpLeafFaces, Records: columnRecords(b.LeafFaces, "face")})
	add(chunk.Data{Name: LumpLeafBrushes, Records: columnRecords(b.LeafBrushes, "brush")})
	pack(LumpEdges, b.Edges)
	add(chunk.Data{Name: LumpSurfEdges, Records: columnRecords(b.SurfEdges, "edge")})
	pack(LumpModels, b.Models)
	pack(LumpBrushes, b.Brushes)
	pack(LumpBrushSides, b.BrushSides)
	add(chunk.Data{Name: LumpPop, Raw: b.Pop})
	pack(LumpAreas, b.Areas)
	pack(LumpAreaPortals, b.AreaPortals)
	if err != nil {
		return nil, err
	}
	return obj, nil
}
