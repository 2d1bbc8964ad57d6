package vgio

import (
	"os"

	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-vgio/internal/archive"
)

// Source is a read-only byte source that must be closed when no longer
// needed.
type Source = archive.Source

type byteSource struct {
	data []byte
}

func (s *byteSource) Bytes() []byte {
	return s.data
}

func (s *byteSource) Close() error {
	s.data = nil
	return nil
}

// NewSource wraps an in-memory buffer. Closing it only drops the
// reference.
func NewSource(data []byte) Source {
	return &byteSource{data: data}
}

// OpenFile maps the file at path read-only. Where mapping is unavailable
// the file is read into memory instead.
func OpenFile(path string, opts ...OpenOption) (Source, error) {
	o := defaultOpenOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.readAll {
		return readFile(path)
	}
	return mapFile(path)
}

func readFile(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return NewSource(data), nil
}
