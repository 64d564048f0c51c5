package mapcache

import (
	"errors"
	"fmt"
)

// Sentinel errors for map cache validation.
var (
	ErrShortHeader      = errors.New("map cache header truncated")
	ErrFileSize         = errors.New("declared file size does not match payload")
	ErrMapCount         = errors.New("declared map count does not match descriptors")
	ErrTruncated        = errors.New("map data truncated")
	ErrMapTooLarge      = errors.New("map exceeds maximum area")
	ErrEmptyMap         = errors.New("map has zero width or height")
	ErrBadName          = errors.New("invalid map name")
	ErrDuplicateName    = errors.New("duplicate map name")
	ErrSizeMismatch     = errors.New("decompressed size does not match width*height")
	ErrCompressedLength = errors.New("declared compressed length does not match stream")
	ErrCorrupt          = errors.New("corrupt compressed stream")
	ErrShortBuffer      = errors.New("decode buffer too small")
)

// DecodeError names the map a validation failed for.
type DecodeError struct {
	Map string
	Err error
}

func (e *DecodeError) Error() string {
	if e.Map == "" {
		return fmt.Sprintf("map cache: %v", e.Err)
	}
	return fmt.Sprintf("map cache: map %q: %v", e.Map, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func mapErr(name string, err error) error {
	return &DecodeError{Map: name, Err: err}
}
