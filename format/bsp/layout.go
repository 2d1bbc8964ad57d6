package bsp

import (
	"github.com/robert-malhotra/go-vgio/internal/chunk"
	"github.com/robert-malhotra/go-vgio/internal/record"
)

var (
	planeLayout = record.MustLayout("plane",
		record.Array(record.F32("normal"), 3),
		record.F32("distance"),
		record.I32("type"),
	)
	vertexLayout = record.MustLayout("vertex",
		record.Array(record.F32("position"), 3),
	)
	nodeLayout = record.MustLayout("node",
		record.I32("plane_number"),
		record.Array(record.I32("children"), 2),
		record.Array(record.I16("bbox_min"), 3),
		record.Array(record.I16("bbox_max"), 3),
		record.U16("first_face"),
		record.U16("num_faces"),
	)
	texInfoLayout = record.MustLayout("texinfo",
		record.Array(record.F32("s"), 3),
		record.F32("s_offset"),
		record.Array(record.F32("t"), 3),
		record.F32("t_offset"),
		record.I32("flags"),
		record.I32("value"),
		record.Str("texture_name", TextureNameSize),
		record.I32("next_texinfo"),
	)
	faceLayout = record.MustLayout("face",
		record.U16("plane_number"),
		record.I16("side"),
		record.I32("first_edge"),
		record.I16("num_edges"),
		record.I16("texinfo"),
		record.Array(record.U8("styles"), 4),
		record.I32("light_offset"),
	)
	leafLayout = record.MustLayout("leaf",
		record.I32("contents"),
		record.I16("cluster"),
		record.I16("area"),
		record.Array(record.I16("bbox_min"), 3),
		record.Array(record.I16("bbox_max"), 3),
		record.U16("first_leaf_face"),
		record.U16("num_leaf_faces"),
		record.U16("first_leaf_brush"),
		record.U16("num_leaf_brushes"),
	)

	leafFaceLayout  = record.MustLayout("leaf face", record.U16("face"))
	leafBrushLayout = record.MustLayout("leaf brush", record.U16("brush"))
	edgeLayout      = record.MustLayout("edge", record.Array(record.U16("vertices"), 2))
	surfEdgeLayout  = record.MustLayout("surfedge", record.I32("edge"))

	modelLayout = record.MustLayout("model",
		record.Array(record.F32("bbox_min"), 3),
		record.Array(record.F32("bbox_max"), 3),
		record.Array(record.F32("origin"), 3),
		record.I32("head_node"),
		record.I32("first_face"),
		record.I32("num_faces"),
	)
	brushLayout = record.MustLayout("brush",
		record.I32("first_side"),
		record.I32("num_sides"),
		record.I32("contents"),
	)
	brushSideLayout = record.MustLayout("brush side",
		record.U16("plane_number"),
		record.I16("texinfo"),
	)
	areaLayout = record.MustLayout("area",
		record.I32("num_area_portals"),
		record.I32("first_area_portal"),
	)
	areaPortalLayout = record.MustLayout("area portal",
		record.I32("portal_number"),
		record.I32("other_area"),
	)
)

// Lump names in descriptor order.
const (
	LumpEntities    = "entities"
	LumpPlanes      = "planes"
	LumpVertices    = "vertices"
	LumpVisibility  = "visibility"
	LumpNodes       = "nodes"
	LumpTexInfo     = "texinfo"
	LumpFaces       = "faces"
	LumpLighting    = "lighting"
	LumpLeafs       = "leafs"
	LumpLeafFaces   = "leaf_faces"
	LumpLeafBrushes = "leaf_brushes"
	LumpEdges       = "edges"
	LumpSurfEdges   = "surfedges"
	LumpModels      = "models"
	LumpBrushes     = "brushes"
	LumpBrushSides  = "brush_sides"
	LumpPop         = "pop"
	LumpAreas       = "areas"
	LumpAreaPortals = "area_portals"
)

func records(name string, l *record.Layout) chunk.Chunk {
	return chunk.Chunk{Name: name, Kind: chunk.Records, Layout: l}
}

func raw(name string) chunk.Chunk {
	return chunk.Chunk{Name: name, Kind: chunk.Raw}
}

// Format is the chunk declaration of a Quake 2 BSP: 19 lumps addressed by
// the descriptor table after the version.
var Format = &chunk.Format{
	Name:         "bsp",
	Magic:        []byte(Magic),
	VersionField: record.Int32,
	Versions:     []int64{Version},
	Lumps:        true,
	Chunks: []chunk.Chunk{
		raw(LumpEntities),
		records(LumpPlanes, planeLayout),
		records(LumpVertices, vertexLayout),
		raw(LumpVisibility),
		records(LumpNodes, nodeLayout),
		records(LumpTexInfo, texInfoLayout),
		records(LumpFaces, faceLayout),
		raw(LumpLighting),
		records(LumpLeafs, leafLayout),
		records(LumpLeafFaces, leafFaceLayout),
		records(LumpLeafBrushes, leafBrushLayout),
		records(LumpEdges, edgeLayout),
		records(LumpSurfEdges, surfEdgeLayout),
		records(LumpModels, modelLayout),
		records(LumpBrushes, brushLayout),
		records(LumpBrushSides, brushSideLayout),
		raw(LumpPop),
		records(LumpAreas, areaLayout),
		records(LumpAreaPortals, areaPortalLayout),
	},
}
