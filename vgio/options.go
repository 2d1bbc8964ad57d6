package vgio

// OpenOption configures Open.
type OpenOption func(*openOptions)

type openOptions struct {
	kind    Kind
	readAll bool
}

func defaultOpenOptions() *openOptions {
	return &openOptions{
		kind: KindUnknown,
	}
}

// WithKind skips detection and opens the file as kind. Kinds that are not
// archives are ignored.
func WithKind(k Kind) OpenOption {
	return func(o *openOptions) {
		if k.IsArchive() {
			o.kind = k
		}
	}
}

// WithReadAll reads the whole file into memory instead of mapping it.
func WithReadAll() OpenOption {
	return func(o *openOptions) {
		o.readAll = true
	}
}
