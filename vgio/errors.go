// Package vgio reads and writes video game resource files: the GRP, PAK,
// WAD and resource group archives and the Build map, alias model, sprite
// and Quake 2 BSP structured formats.
//
// Archives are opened through [Open] or [OpenArchive] and expose a common
// [Archive] interface. The structured formats live in the format/
// packages; [Detect] identifies any of them from its leading bytes.
package vgio

import "github.com/robert-malhotra/go-vgio/internal/errs"

// Errors returned by every decoder and encoder. Match them with errors.Is.
var (
	ErrInvalidFormat      = errs.ErrInvalidFormat
	ErrUnsupportedVersion = errs.ErrUnsupportedVersion
	ErrOutOfBounds        = errs.ErrOutOfBounds
	ErrOverflow           = errs.ErrOverflow
	ErrTruncatedMember    = errs.ErrTruncatedMember
	ErrUnknownVariantTag  = errs.ErrUnknownVariantTag
	ErrCountMismatch      = errs.ErrCountMismatch
	ErrMemberNotFound     = errs.ErrMemberNotFound
	ErrEncoding           = errs.ErrEncoding
	ErrClosed             = errs.ErrClosed
)

type (
	// UnsupportedVersionError carries the version that was found.
	UnsupportedVersionError = errs.UnsupportedVersionError
	// UnknownTagError carries the unrecognised variant tag.
	UnknownTagError = errs.UnknownTagError
)
