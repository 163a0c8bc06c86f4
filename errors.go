package blp

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownMagic        = errors.New("blp: unknown magic")
	ErrUnknownTextureType  = errors.New("blp: unknown texture type")
	ErrTruncatedHeader     = errors.New("blp: truncated header")
	ErrTruncatedJPEGHeader = errors.New("blp: truncated jpeg header chunk")
	ErrTruncatedPalette    = errors.New("blp: truncated palette")
	ErrMipOutOfBounds      = errors.New("blp: mipmap range out of bounds")
	ErrDimensionMismatch   = errors.New("blp: mipmap dimension mismatch")
	ErrUnsupportedEncoding = errors.New("blp: unsupported encoding")
	ErrNoLevels            = errors.New("blp: no mipmap levels present")
)

// errShortPlane is internal: an alpha plane ran out of bits. It is
// always converted to a DimensionError before reaching callers.
var errShortPlane = errors.New("blp: alpha plane exhausted")

// MipError reports a failure scoped to a single mipmap level. It wraps
// the underlying cause so errors.Is works against the package sentinels.
type MipError struct {
	Level int
	Err   error
}

func (e *MipError) Error() string {
	return fmt.Sprintf("blp: level %d: %v", e.Level, e.Err)
}

func (e *MipError) Unwrap() error { return e.Err }

// DimensionError reports a mismatch between the byte count a level's
// nominal dimensions require and the byte count actually stored.
// Expected and Actual are byte lengths of the level payload.
type DimensionError struct {
	Level    int
	Expected int
	Actual   int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("blp: level %d: dimension mismatch: expected %d bytes, got %d",
		e.Level, e.Expected, e.Actual)
}

func (e *DimensionError) Is(target error) bool { return target == ErrDimensionMismatch }

func mipErr(level int, err error) error {
	return &MipError{Level: level, Err: err}
}
