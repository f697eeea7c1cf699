package kbin

import "github.com/scigolib/kbin/internal/core"

// Options configures Encode: which identifier compression and string
// encoding to use when producing a binary container.
type Options struct {
	Compression core.Compression
	Encoding    core.Encoding
}

// DefaultOptions returns the producer defaults: compressed identifiers,
// SHIFT-JIS string encoding.
func DefaultOptions() Options {
	return Options{
		Compression: core.Compressed,
		Encoding:    core.DefaultEncoding,
	}
}
