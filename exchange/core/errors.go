package core

import (
	"errors"
)

var (
	// ErrUnsupportedVersion means a payload declared a schema version this
	// build does not recognize. Fatal for the whole decode.
	ErrUnsupportedVersion = errors.New("unsupported schema version")
	// ErrMalformedReference means a payload entry points at a vertex,
	// polygon or corner that does not exist. Fatal for the whole decode.
	ErrMalformedReference = errors.New("malformed element reference")
	// ErrTransport wraps a failed payload read or write. The payload that
	// was in place before the operation is left untouched.
	ErrTransport = errors.New("transport failure")
	// ErrExtraction marks host data the extractor could not use. Per-element
	// problems are logged and absorbed; a copy that yields nothing at all
	// fails with this.
	ErrExtraction = errors.New("extraction failure")
	// ErrNoTarget means a paste had no mesh to paste into.
	ErrNoTarget = errors.New("no target mesh")
)
