package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/robert-malhotra/go-vgio/vgio"
)

func openArchive(c *cli.Context, path string) (*vgio.Container, error) {
	var opts []vgio.OpenOption
	if name := c.String("kind"); name != "" {
		k, err := vgio.ParseKind(name)
		if err != nil {
			return nil, err
		}
		if !k.IsArchive() {
			return nil, errors.Errorf("--kind: %s is not an archive format", k)
		}
		opts = append(opts, vgio.WithKind(k))
	}
	return vgio.Open(path, opts...)
}

func (cmd *command) list(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("list takes exactly one archive")
	}
	a, err := openArchive(c, c.Args().First())
	if err != nil {
		return err
	}
	defer a.Close()

	tw := tabwriter.NewWriter(cmd.out, 0, 8, 2, ' ', 0)
	for _, e := range a.Entries() {
		size := humanize.IBytes(uint64(e.Size))
		if c.Bool("bytes") {
			size = fmt.Sprint(e.Size)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d", e.Name, size, e.Offset)
		if c.Bool("digest") {
			data, err := a.ReadEntry(e)
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "\t%s", vgio.Digest(data))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func (cmd *command) extract(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("extract needs an archive")
	}
	a, err := openArchive(c, c.Args().First())
	if err != nil {
		return err
	}
	defer a.Close()

	opts := []vgio.ExtractOption{vgio.WithLogger(cmd.log)}
	if names := c.Args().Tail(); len(names) > 0 {
		opts = append(opts, vgio.WithMembers(names...))
	}
	if c.Bool("continue-on-error") {
		opts = append(opts, vgio.WithContinueOnError())
	}

	written, err := a.ExtractAll(c.String("output"), opts...)
	cmd.log.WithFields(logrus.Fields{
		"archive": c.Args().First(),
		"files":   len(written),
	}).Info("extracted")
	return err
}

func (cmd *command) build(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("build takes exactly one manifest")
	}
	m, err := loadManifest(c.Args().First())
	if err != nil {
		return err
	}
	members, err := m.members()
	if err != nil {
		return err
	}

	data, err := vgio.Build(m.kind, members)
	if err != nil {
		return err
	}
	out := c.String("output")
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", out)
	}
	cmd.log.WithFields(logrus.Fields{
		"kind":    m.kind,
		"members": len(members),
		"size":    humanize.IBytes(uint64(len(data))),
	}).Info("built archive")
	return nil
}

// verify compares the digest of every manifest file with the archive
// member of the same name.
func (cmd *command) verify(c *cli.Context) error {
	if c.NArg() != 2 {
		return errors.New("verify takes a manifest and an archive")
	}
	m, err := loadManifest(c.Args().Get(0))
	if err != nil {
		return err
	}
	a, err := vgio.Open(c.Args().Get(1), vgio.WithKind(m.kind))
	if err != nil {
		return err
	}
	defer a.Close()

	bad := 0
	for _, mm := range m.Members {
		want, err := os.ReadFile(m.resolve(mm.Path))
		if err != nil {
			return errors.Wrapf(err, "member %q", mm.Name)
		}
		got, err := a.ReadMember(mm.Name)
		if err != nil {
			fmt.Fprintf(cmd.out, "MISSING  %s\n", mm.Name)
			bad++
			continue
		}
		if vgio.Digest(got) != vgio.Digest(want) {
			fmt.Fprintf(cmd.out, "CHANGED  %s\n", mm.Name)
			bad++
			continue
		}
		fmt.Fprintf(cmd.out, "OK       %s\n", mm.Name)
	}
	if n := len(a.Names()); n != len(m.Members) {
		cmd.log.WithField("members", n).Warn("archive and manifest member counts differ")
	}
	if bad > 0 {
		return errors.Errorf("%d of %d members failed verification", bad, len(m.Members))
	}
	return nil
}
