//go:build unix

package vgio

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

type mappedSource struct {
	data []byte
}

func (s *mappedSource) Bytes() []byte {
	return s.data
}

func (s *mappedSource) Close() error {
	if s.data == nil {
		return nil
	}
	data := s.data
	s.data = nil
	if err := unix.Munmap(data); err != nil {
		return errors.Wrap(err, "munmap")
	}
	return nil
}

func mapFile(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	size := info.Size()
	if size == 0 {
		// Empty files cannot be mapped.
		return &byteSource{}, nil
	}
	if size != int64(int(size)) {
		return nil, errors.Errorf("%s: %d bytes is too large to map", path, size)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrapf(err, "mmap %s", path)
	}
	return &mappedSource{data: data}, nil
}
