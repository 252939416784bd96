package rwbs

import "errors"

var (
	// ErrTruncated reports that fewer bytes remained than a fixed-size field
	// requires.
	ErrTruncated = errors.New("rwbs: truncated input")
	// ErrBounds reports a declared payload size exceeding the remaining
	// buffer.
	ErrBounds = errors.New("rwbs: payload exceeds buffer bounds")
	// ErrInvalidEnum reports a byte or nibble that maps to no defined
	// enumerator. See WithLooseEnums.
	ErrInvalidEnum = errors.New("rwbs: invalid enum value")
	// ErrDepth reports chunk nesting deeper than the configured maximum.
	ErrDepth = errors.New("rwbs: max nesting depth exceeded")
)
