package vgio

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-vgio/format/bsp"
	"github.com/robert-malhotra/go-vgio/format/buildmap"
	"github.com/robert-malhotra/go-vgio/format/grp"
	"github.com/robert-malhotra/go-vgio/format/hxrg"
	"github.com/robert-malhotra/go-vgio/format/mdl"
	"github.com/robert-malhotra/go-vgio/format/pak"
	"github.com/robert-malhotra/go-vgio/format/spr"
	"github.com/robert-malhotra/go-vgio/format/wad"
	"github.com/robert-malhotra/go-vgio/internal/archive"
)

// Kind identifies a file format.
type Kind uint8

// Known kinds.
const (
	KindUnknown Kind = iota
	KindGRP
	KindPAK
	KindHROT
	KindWAD2
	KindWAD3
	KindHXRG
	KindMap
	KindMDL
	KindSPR
	KindBSP
)

var kindNames = [...]string{
	KindUnknown: "unknown",
	KindGRP:     "grp",
	KindPAK:     "pak",
	KindHROT:    "hrot",
	KindWAD2:    "wad2",
	KindWAD3:    "wad3",
	KindHXRG:    "hxrg",
	KindMap:     "map",
	KindMDL:     "mdl",
	KindSPR:     "spr",
	KindBSP:     "bsp",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind returns the kind named s, as printed by Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s && Kind(k) != KindUnknown {
			return Kind(k), nil
		}
	}
	return KindUnknown, errors.Errorf("unknown format %q", s)
}

// IsArchive reports whether k is a directory-based archive.
func (k Kind) IsArchive() bool {
	return k >= KindGRP && k <= KindHXRG
}

// Dialect returns the archive dialect of k, or nil for structured formats.
func (k Kind) Dialect() archive.Dialect {
	switch k {
	case KindGRP:
		return grp.Dialect
	case KindPAK:
		return pak.Quake
	case KindHROT:
		return pak.HROT
	case KindWAD2:
		return wad.WAD2
	case KindWAD3:
		return wad.WAD3
	case KindHXRG:
		return hxrg.Dialect
	}
	return nil
}

// Detect identifies the format of buf from its leading bytes. Build maps
// have no magic and are recognised by their version number, so they are
// tried last.
func Detect(buf []byte) (Kind, error) {
	switch {
	case grp.Is(buf):
		return KindGRP, nil
	case pak.Quake.Is(buf):
		return KindPAK, nil
	case pak.HROT.Is(buf):
		return KindHROT, nil
	case wad.WAD2.Is(buf):
		return KindWAD2, nil
	case wad.WAD3.Is(buf):
		return KindWAD3, nil
	case hxrg.Is(buf):
		return KindHXRG, nil
	case mdl.Is(buf):
		return KindMDL, nil
	case spr.Is(buf):
		return KindSPR, nil
	case bsp.Is(buf):
		return KindBSP, nil
	case buildmap.Is(buf):
		return KindMap, nil
	}
	n := min(len(buf), 12)
	return KindUnknown, errors.Wrapf(ErrInvalidFormat, "unrecognised leading bytes %q", buf[:n])
}
