package buildmap

import (
	"github.com/robert-malhotra/go-vgio/internal/chunk"
	"github.com/robert-malhotra/go-vgio/internal/record"
)

var headerLayout = record.MustLayout("map header",
	record.I32("start_x"),
	record.I32("start_y"),
	record.I32("start_z"),
	record.I16("start_angle"),
	record.I16("start_sector"),
)

var sectorLayout = record.MustLayout("sector",
	record.I16("wall_pointer"),
	record.I16("wall_number"),
	record.I32("ceiling_z"),
	record.I32("floor_z"),
	record.I16("ceiling_stat"),
	record.I16("floor_stat"),
	record.I16("ceiling_picnum"),
	record.I16("ceiling_heinum"),
	record.I8("ceiling_shade"),
	record.I8("ceiling_palette"),
	record.I8("ceiling_x_panning"),
	record.I8("ceiling_y_panning"),
	record.I16("floor_picnum"),
	record.I16("floor_heinum"),
	record.I8("floor_shade"),
	record.I8("floor_palette"),
	record.I8("floor_x_panning"),
	record.I8("floor_y_panning"),
	record.I8("visibility"),
	record.Raw("pad", 1),
	record.I16("lotag"),
	record.I16("hitag"),
	record.I16("extra"),
)

var wallLayout = record.MustLayout("wall",
	record.I32("x"),
	record.I32("y"),
	record.I16("point2"),
	record.I16("next_wall"),
	record.I16("next_sector"),
	record.I16("cstat"),
	record.I16("picnum"),
	record.I16("over_picnum"),
	record.I8("shade"),
	record.I8("palette"),
	record.I8("x_repeat"),
	record.I8("y_repeat"),
	record.I8("x_panning"),
	record.I8("y_panning"),
	record.I16("lotag"),
	record.I16("hitag"),
	record.I16("extra"),
)

var spriteLayout = record.MustLayout("sprite",
	record.I32("x"),
	record.I32("y"),
	record.I32("z"),
	record.I16("cstat"),
	record.I16("picnum"),
	record.I8("shade"),
	record.I8("palette"),
	record.I8("clip_distance"),
	record.Raw("pad", 1),
	record.U8("x_repeat"),
	record.U8("y_repeat"),
	record.I8("x_offset"),
	record.I8("y_offset"),
	record.I16("sector_number"),
	record.I16("status_number"),
	record.I16("angle"),
	record.I16("owner"),
	record.I16("x_velocity"),
	record.I16("y_velocity"),
	record.I16("z_velocity"),
	record.I16("lotag"),
	record.I16("hitag"),
	record.I16("extra"),
)

// Format is the chunk declaration of a Build map. The file has no magic;
// the leading int32 version identifies it.
var Format = &chunk.Format{
	Name:         "build map",
	VersionField: record.Int32,
	Versions:     []int64{Version},
	Header:       headerLayout,
	Chunks: []chunk.Chunk{
		{Name: "sectors", Kind: chunk.Records, Layout: sectorLayout, CountField: record.Int16},
		{Name: "walls", Kind: chunk.Records, Layout: wallLayout, CountField: record.Int16},
		{Name: "sprites", Kind: chunk.Records, Layout: spriteLayout, CountField: record.Int16},
	},
}
