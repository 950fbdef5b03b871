// Package apperr holds the error kinds shared across the extractor.
package apperr

import "errors"

var (
	// ErrInvalidName is returned when a resource name is blank.
	ErrInvalidName = errors.New("invalid resource name")
	// ErrDecode marks a document field that is present but malformed.
	ErrDecode = errors.New("decode failed")
	// ErrUnsupportedFormat is returned when no specification file matches a format.
	ErrUnsupportedFormat = errors.New("unsupported specification format")
	// ErrNotFound is returned by providers and stores for missing resources.
	ErrNotFound = errors.New("not found")
)
