package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/robert-malhotra/go-vgio/format/bsp"
	"github.com/robert-malhotra/go-vgio/format/buildmap"
	"github.com/robert-malhotra/go-vgio/format/mdl"
	"github.com/robert-malhotra/go-vgio/format/spr"
	"github.com/robert-malhotra/go-vgio/vgio"
)

type fileInfo struct {
	path    string
	kind    vgio.Kind
	size    int
	summary string
	err     error
}

// info inspects every file concurrently and prints one line per file in
// argument order.
func (cmd *command) info(c *cli.Context) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return errors.New("info needs at least one file")
	}
	jobs := c.Int("jobs")
	if jobs < 1 {
		return errors.Errorf("--jobs must be positive, got %d", jobs)
	}

	results := make([]fileInfo, len(paths))
	var g errgroup.Group
	g.SetLimit(jobs)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			results[i] = inspect(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			cmd.log.WithError(r.err).WithField("path", r.path).Error("inspect failed")
			fmt.Fprintf(cmd.out, "%s: error: %v\n", r.path, r.err)
			continue
		}
		fmt.Fprintf(cmd.out, "%s: %s, %s, %s\n", r.path, r.kind, humanize.IBytes(uint64(r.size)), r.summary)
	}
	if failed > 0 {
		return errors.Errorf("%d of %d files could not be read", failed, len(paths))
	}
	return nil
}

func inspect(path string) fileInfo {
	r := fileInfo{path: path}
	src, err := vgio.OpenFile(path)
	if err != nil {
		r.err = err
		return r
	}
	defer src.Close()

	data := src.Bytes()
	r.size = len(data)
	if r.kind, r.err = vgio.Detect(data); r.err != nil {
		return r
	}
	r.summary, r.err = describe(data, r.kind)
	return r
}

func describe(data []byte, k vgio.Kind) (string, error) {
	if k.IsArchive() {
		a, err := vgio.OpenArchive(data)
		if err != nil {
			return "", err
		}
		var total int64
		for _, e := range a.Entries() {
			total += e.Size
		}
		return fmt.Sprintf("%d members, %s of member data", len(a.Names()), humanize.IBytes(uint64(total))), nil
	}

	switch k {
	case vgio.KindMap:
		m, err := buildmap.Decode(data)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d sectors, %d walls, %d sprites", len(m.Sectors), len(m.Walls), len(m.Sprites)), nil
	case vgio.KindMDL:
		m, err := mdl.Decode(data)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d skins %dx%d, %d vertices, %d triangles, %d frames",
			len(m.Skins), m.SkinWidth, m.SkinHeight, len(m.STVertices), len(m.Triangles), len(m.Frames)), nil
	case vgio.KindSPR:
		s, err := spr.Decode(data)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d frames, max %dx%d", len(s.Frames), s.Width, s.Height), nil
	case vgio.KindBSP:
		b, err := bsp.Decode(data)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d models, %d faces, %d leafs, %s of entities",
			len(b.Models), len(b.Faces), len(b.Leafs), humanize.IBytes(uint64(len(b.EntityText())))), nil
	}
	return "", errors.Wrapf(vgio.ErrInvalidFormat, "no decoder for %s", k)
}
