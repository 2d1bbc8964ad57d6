// Package errs defines the error kinds shared by every codec package.
//
// Callers match kinds with errors.Is; context added on the way up with
// github.com/pkg/errors keeps the chain intact.
package errs

import (
	"errors"
	"fmt"
)

// Error kinds.
var (
	ErrInvalidFormat      = errors.New("invalid format")
	ErrUnsupportedVersion = errors.New("unsupported version")
	ErrOutOfBounds        = errors.New("out of bounds")
	ErrOverflow           = errors.New("value overflows field width")
	ErrTruncatedMember    = errors.New("truncated member")
	ErrUnknownVariantTag  = errors.New("unknown variant tag")
	ErrCountMismatch      = errors.New("count mismatch")
	ErrMemberNotFound     = errors.New("member not found")
	ErrEncoding           = errors.New("encoding error")
	ErrClosed             = errors.New("archive is closed")
)

// UnsupportedVersionError reports the version number that was found.
type UnsupportedVersionError struct {
	Format string
	Found  int64
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("%s: unsupported version %d", e.Format, e.Found)
}

// Is reports whether target is ErrUnsupportedVersion.
func (e *UnsupportedVersionError) Is(target error) bool {
	return target == ErrUnsupportedVersion
}

// UnknownTagError reports a discriminator missing from a variant table.
type UnknownTagError struct {
	Table string
	Tag   int64
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("%s: unknown variant tag %d", e.Table, e.Tag)
}

// Is reports whether target is ErrUnknownVariantTag.
func (e *UnknownTagError) Is(target error) bool {
	return target == ErrUnknownVariantTag
}

// EncodingError wraps the writer failure behind an encoding error, so
// both ErrEncoding and the underlying kind match.
type EncodingError struct {
	Err error
}

func (e *EncodingError) Error() string {
	return "encoding error: " + e.Err.Error()
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrEncoding.
func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}
