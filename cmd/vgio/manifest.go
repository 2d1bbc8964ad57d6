package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/robert-malhotra/go-vgio/vgio"
)

// manifest describes an archive to build. Member paths are relative to
// the manifest file.
type manifest struct {
	Kind    string           `yaml:"kind"`
	Members []manifestMember `yaml:"members"`

	dir  string
	kind vgio.Kind
}

type manifestMember struct {
	Name      string `yaml:"name"`
	Path      string `yaml:"path"`
	Type      int64  `yaml:"type,omitempty"`
	Timestamp int64  `yaml:"timestamp,omitempty"`
}

func loadManifest(path string) (*manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading manifest")
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "parsing manifest %s", path)
	}
	if m.kind, err = vgio.ParseKind(m.Kind); err != nil {
		return nil, errors.WithMessage(err, path)
	}
	if !m.kind.IsArchive() {
		return nil, errors.Errorf("%s: %s is not an archive format", path, m.kind)
	}
	for i, mm := range m.Members {
		if mm.Path == "" {
			return nil, errors.Errorf("%s: member %d (%q) has no path", path, i, mm.Name)
		}
		if mm.Name == "" {
			m.Members[i].Name = filepath.Base(mm.Path)
		}
	}
	m.dir = filepath.Dir(path)
	return &m, nil
}

func (m *manifest) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.dir, p)
}

// members reads every member file.
func (m *manifest) members() ([]vgio.Member, error) {
	out := make([]vgio.Member, len(m.Members))
	for i, mm := range m.Members {
		data, err := os.ReadFile(m.resolve(mm.Path))
		if err != nil {
			return nil, errors.Wrapf(err, "member %q", mm.Name)
		}
		out[i] = vgio.Member{
			Name:      mm.Name,
			Data:      data,
			Type:      mm.Type,
			Timestamp: mm.Timestamp,
		}
	}
	return out, nil
}
