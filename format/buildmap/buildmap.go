// Package buildmap reads and writes Build engine (Duke Nukem 3D) MAP files.
//
// A map is an int32 version (7), the player start (x, y, z as int32,
// angle and sector as int16), then three int16-counted record runs:
// sectors (40 bytes each), walls (32 bytes) and sprites (44 bytes).
package buildmap

import (
	"encoding/binary"

	"github.com/robert-malhotra/go-vgio/internal/chunk"
	"github.com/robert-malhotra/go-vgio/internal/record"
)

// Version is the only supported map version.
const Version = 7

// Map is a decoded level.
type Map struct {
	Version     int32
	StartX      int32
	StartY      int32
	StartZ      int32
	StartAngle  int16
	StartSector int16

	Sectors []Sector
	Walls   []Wall
	Sprites []Sprite
}

// Sector is a closed polygon of walls with a floor and ceiling.
type Sector struct {
	WallPointer     int16
	WallNumber      int16
	CeilingZ        int32
	FloorZ          int32
	CeilingStat     int16
	FloorStat       int16
	CeilingPicnum   int16
	CeilingHeinum   int16
	CeilingShade    int8
	CeilingPalette  int8
	CeilingXPanning int8
	CeilingYPanning int8
	FloorPicnum     int16
	FloorHeinum     int16
	FloorShade      int8
	FloorPalette    int8
	FloorXPanning   int8
	FloorYPanning   int8
	Visibility      int8
	Lotag           int16
	Hitag           int16
	Extra           int16
}

// Wall is the left point of a wall and the texture of its face.
// NextWall and NextSector are -1 for solid walls.
type Wall struct {
	X          int32
	Y          int32
	Point2     int16
	NextWall   int16
	NextSector int16
	Cstat      int16
	Picnum     int16
	OverPicnum int16
	Shade      int8
	Palette    int8
	XRepeat    int8
	YRepeat    int8
	XPanning   int8
	YPanning   int8
	Lotag      int16
	Hitag      int16
	Extra      int16
}

// Sprite is a placed actor or decoration.
type Sprite struct {
	X            int32
	Y            int32
	Z            int32
	Cstat        int16
	Picnum       int16
	Shade        int8
	Palette      int8
	ClipDistance int8
	XRepeat      uint8
	YRepeat      uint8
	XOffset      int8
	YOffset      int8
	SectorNumber int16
	StatusNumber int16
	Angle        int16
	Owner        int16
	XVelocity    int16
	YVelocity    int16
	ZVelocity    int16
	Lotag        int16
	Hitag        int16
	Extra        int16
}

// Is reports whether data starts with a supported map version.
func Is(data []byte) bool {
	return len(data) >= 4 && int32(binary.LittleEndian.Uint32(data)) == Version
}

// Decode parses a map file.
func Decode(data []byte) (*Map, error) {
	obj, err := chunk.Decode(Format, data)
	if err != nil {
		return nil, err
	}
	return fromObject(obj), nil
}

// Encode serialises m. Chunk counts come from the slice lengths.
func Encode(m *Map) ([]byte, error) {
	return chunk.Encode(Format, m.Object())
}

// Object returns m as a generic chunk object.
func (m *Map) Object() *chunk.Object {
	obj := &chunk.Object{
		Version: int64(m.Version),
		Header: record.Record{
			"start_x":      m.StartX,
			"start_y":      m.StartY,
			"start_z":      m.StartZ,
			"start_angle":  m.StartAngle,
			"start_sector": m.StartSector,
		},
		Chunks: []chunk.Data{
			{Name: "sectors", Records: make([]record.Record, len(m.Sectors))},
			{Name: "walls", Records: make([]record.Record, len(m.Walls))},
			{Name: "sprites", Records: make([]record.Record, len(m.Sprites))},
		},
	}
	for i := range m.Sectors {
		obj.Chunks[0].Records[i] = m.Sectors[i].record()
	}
	for i := range m.Walls {
		obj.Chunks[1].Records[i] = m.Walls[i].record()
	}
	for i := range m.Sprites {
		obj.Chunks[2].Records[i] = m.Sprites[i].record()
	}
	return obj
}

func fromObject(obj *chunk.Object) *Map {
	h := obj.Header
	m := &Map{
		Version:     int32(obj.Version),
		StartX:      int32(h.Int("start_x")),
		StartY:      int32(h.Int("start_y")),
		StartZ:      int32(h.Int("start_z")),
		StartAngle:  int16(h.Int("start_angle")),
		StartSector: int16(h.Int("start_sector")),
	}

	sectors := obj.Chunk("sectors").Records
	m.Sectors = make([]Sector, len(sectors))
	for i, rec := range sectors {
		m.Sectors[i] = sectorFrom(rec)
	}
	walls := obj.Chunk("walls").Records
	m.Walls = make([]Wall, len(walls))
	for i, rec := range walls {
		m.Walls[i] = wallFrom(rec)
	}
	sprites := obj.Chunk("sprites").Records
	m.Sprites = make([]Sprite, len(sprites))
	for i, rec := range sprites {
		m.Sprites[i] = spriteFrom(rec)
	}
	return m
}

func (s *Sector) record() record.Record {
	return record.Record{
		"wall_pointer":      s.WallPointer,
		"wall_number":       s.WallNumber,
		"ceiling_z":         s.CeilingZ,
		"floor_z":           s.FloorZ,
		"ceiling_stat":      s.CeilingStat,
		"floor_stat":        s.FloorStat,
		"ceiling_picnum":    s.CeilingPicnum,
		"ceiling_heinum":    s.CeilingHeinum,
		"ceiling_shade":     s.CeilingShade,
		"ceiling_palette":   s.CeilingPalette,
		"ceiling_x_panning": s.CeilingXPanning,
		"ceiling_y_panning": s.CeilingYPanning,
		"floor_picnum":      s.FloorPicnum,
		"floor_heinum":      s.FloorHeinum,
		"floor_shade":       s.FloorShade,
		"floor_palette":     s.FloorPalette,
		"floor_x_panning":   s.FloorXPanning,
		"floor_y_panning":   s.FloorYPanning,
		"visibility":        s.Visibility,
		"pad":               []byte{0},
		"lotag":             s.Lotag,
		"hitag":             s.Hitag,
		"extra":             s.Extra,
	}
}

func sectorFrom(r record.Record) Sector {
	return Sector{
		WallPointer:     int16(r.Int("wall_pointer")),
		WallNumber:      int16(r.Int("wall_number")),
		CeilingZ:        int32(r.Int("ceiling_z")),
		FloorZ:          int32(r.Int("floor_z")),
		CeilingStat:     int16(r.Int("ceiling_stat")),
		FloorStat:       int16(r.Int("floor_stat")),
		CeilingPicnum:   int16(r.Int("ceiling_picnum")),
		CeilingHeinum:   int16(r.Int("ceiling_heinum")),
		CeilingShade:    int8(r.Int("ceiling_shade")),
		CeilingPalette:  int8(r.Int("ceiling_palette")),
		CeilingXPanning: int8(r.Int("ceiling_x_panning")),
		CeilingYPanning: int8(r.Int("ceiling_y_panning")),
		FloorPicnum:     int16(r.Int("floor_picnum")),
		FloorHeinum:     int16(r.Int("floor_heinum")),
		FloorShade:      int8(r.Int("floor_shade")),
		FloorPalette:    int8(r.Int("floor_palette")),
		FloorXPanning:   int8(r.Int("floor_x_panning")),
		FloorYPanning:   int8(r.Int("floor_y_panning")),
		Visibility:      int8(r.Int("visibility")),
		Lotag:           int16(r.Int("lotag")),
		Hitag:           int16(r.Int("hitag")),
		Extra:           int16(r.Int("extra")),
	}
}

func (w *Wall) record() record.Record {
	return record.Record{
		"x":           w.X,
		"y":           w.Y,
		"point2":      w.Point2,
		"next_wall":   w.NextWall,
		"next_sector": w.NextSector,
		"cstat":       w.Cstat,
		"picnum":      w.Picnum,
		"over_picnum": w.OverPicnum,
		"shade":       w.Shade,
		"palette":     w.Palette,
		"x_repeat":    w.XRepeat,
		"y_repeat":    w.YRepeat,
		"x_panning":   w.XPanning,
		"y_panning":   w.YPanning,
		"lotag":       w.Lotag,
		"hitag":       w.Hitag,
		"extra":       w.Extra,
	}
}

func wallFrom(r record.Record) Wall {
	return Wall{
		X:          int32(r.Int("x")),
		Y:          int32(r.Int("y")),
		Point2:     int16(r.Int("point2")),
		NextWall:   int16(r.Int("next_wall")),
		NextSector: int16(r.Int("next_sector")),
		Cstat:      int16(r.Int("cstat")),
		Picnum:     int16(r.Int("picnum")),
		OverPicnum: int16(r.Int("over_picnum")),
		Shade:      int8(r.Int("shade")),
		Palette:    int8(r.Int("palette")),
		XRepeat:    int8(r.Int("x_repeat")),
		YRepeat:    int8(r.Int("y_repeat")),
		XPanning:   int8(r.Int("x_panning")),
		YPanning:   int8(r.Int("y_panning")),
		Lotag:      int16(r.Int("lotag")),
		Hitag:      int16(r.Int("hitag")),
		Extra:      int16(r.Int("extra")),
	}
}

func (s *Sprite) record() record.Record {
	return record.Record{
		"x":             s.X,
		"y":             s.Y,
		"z":             s.Z,
		"cstat":         s.Cstat,
		"picnum":        s.Picnum,
		"shade":         s.Shade,
		"palette":       s.Palette,
		"clip_distance": s.ClipDistance,
		"pad":           []byte{0},
		"x_repeat":      s.XRepeat,
		"y_repeat":      s.YRepeat,
		"x_offset":      s.XOffset,
		"y_offset":      s.YOffset,
		"sector_number": s.SectorNumber,
		"status_number": s.StatusNumber,
		"angle":         s.Angle,
		"owner":         s.Owner,
		"x_velocity":    s.XVelocity,
		"y_velocity":    s.YVelocity,
		"z_velocity":    s.ZVelocity,
		"lotag":         s.Lotag,
		"hitag":         s.Hitag,
		"extra":         s.Extra,
	}
}

func spriteFrom(r record.Record) Sprite {
	return Sprite{
		X:            int32(r.Int("x")),
		Y:            int32(r.Int("y")),
		Z:            int32(r.Int("z")),
		Cstat:        int16(r.Int("cstat")),
		Picnum:       int16(r.Int("picnum")),
		Shade:        int8(r.Int("shade")),
		Palette:      int8(r.Int("palette")),
		ClipDistance: int8(r.Int("clip_distance")),
		XRepeat:      uint8(r.Int("x_repeat")),
		YRepeat:      uint8(r.Int("y_repeat")),
		XOffset:      int8(r.Int("x_offset")),
		YOffset:      int8(r.Int("y_offset")),
		SectorNumber: int16(r.Int("sector_number")),
		StatusNumber: int16(r.Int("status_number")),
		Angle:        int16(r.Int("angle")),
		Owner:        int16(r.Int("owner")),
		XVelocity:    int16(r.Int("x_velocity")),
		YVelocity:    int16(r.Int("y_velocity")),
		ZVelocity:    int16(r.Int("z_velocity")),
		Lotag:        int16(r.Int("lotag")),
		Hitag:        int16(r.Int("hitag")),
		Extra:        int16(r.Int("extra")),
	}
}
