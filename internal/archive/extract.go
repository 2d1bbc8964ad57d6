package archive

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ExtractOption configures ExtractAll.
type ExtractOption func(*extractOptions)

type extractOptions struct {
	continueOnError bool
	logger          logrus.FieldLogger
	members         map[string]bool
	order           []string
}

func defaultExtractOptions() *extractOptions {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	return &extractOptions{logger: discard}
}

// WithContinueOnError keeps extracting after a member fails. ExtractAll
// then returns every failure joined together.
func WithContinueOnError() ExtractOption {
	return func(o *extractOptions) {
		o.continueOnError = true
	}
}

// WithLogger logs each extracted member.
func WithLogger(l logrus.FieldLogger) ExtractOption {
	return func(o *extractOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMembers restricts extraction to the named members. Every name must
// be in the directory.
func WithMembers(names ...string) ExtractOption {
	return func(o *extractOptions) {
		if o.members == nil {
			o.members = make(map[string]bool, len(names))
		}
		for _, n := range names {
			if !o.members[n] {
				o.order = append(o.order, n)
			}
			o.members[n] = true
		}
	}
}

// ExtractAll writes every member to dest/<name>, creating directories as
// needed. Member names are made relative first, so no member can escape
// dest. Only the first of several entries sharing a name is written,
// matching Entry. It returns the paths written.
func (c *Container) ExtractAll(dest string, opts ...ExtractOption) ([]string, error) {
	o := defaultExtractOptions()
	for _, opt := range opts {
		opt(o)
	}

	var (
		written []string
		failed  []error
	)
	for _, name := range o.order {
		if _, err := c.Entry(name); err != nil {
			if !o.continueOnError {
				return nil, err
			}
			failed = append(failed, err)
		}
	}

	filter, _ := c.dialect.(ExtractFilter)
	seen := make(map[string]bool, len(c.entries))
	for _, e := range c.entries {
		if o.members != nil && !o.members[e.Name] {
			continue
		}
		log := o.logger.WithFields(logrus.Fields{
			"archive": c.dialect.Name(),
			"member":  e.Name,
			"size":    e.Size,
		})
		if seen[e.Name] {
			log.WithField("index", e.Index).Debug("skipped duplicate name")
			continue
		}
		seen[e.Name] = true
		if filter != nil && !filter.Extractable(e) {
			log.Debug("skipped")
			continue
		}

		path, err := c.Extract(e, dest)
		if err != nil {
			log.WithError(err).Warn("extract failed")
			if !o.continueOnError {
				return written, err
			}
			failed = append(failed, err)
			continue
		}
		log.WithField("path", path).Debug("extracted")
		written = append(written, path)
	}
	return written, errors.Join(failed...)
}

// Extract writes the member e to its sanitised path under dest.
func (c *Container) Extract(e Entry, dest string) (string, error) {
	name := e.Name
	if n, ok := c.dialect.(ExtractNamer); ok {
		name = n.ExtractName(e)
	}
	rel := SanitizeName(name)
	if rel == "" {
		return "", pkgerrors.Errorf("member %d has no usable name %q", e.Index, e.Name)
	}

	data, err := c.region(e)
	if err != nil {
		return "", err
	}

	target := filepath.Join(dest, rel)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", pkgerrors.Wrapf(err, "creating directory for %q", e.Name)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", pkgerrors.Wrapf(err, "writing %q", e.Name)
	}
	return target, nil
}

// SanitizeName turns an archive member name into a relative path. Both
// slash kinds are separators; drive letters, empty, "." and ".."
// components are dropped.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if len(name) >= 2 && name[1] == ':' {
		name = name[2:]
	}

	parts := strings.Split(name, "/")
	kept := parts[:0]
	for _, p := range parts {
		switch p {
		case "", ".", "..":
			continue
		}
		kept = append(kept, p)
	}
	return filepath.Join(kept...)
}
