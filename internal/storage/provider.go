// Package storage defines the file-open collaborator used to read documents.
package storage

import "io"

// Provider resolves and opens document files.
type Provider interface {
	// Resolve returns the canonical path of name, interpreted relative to dir
	// when it is not absolute. A missing file yields an error wrapping
	// fs.ErrNotExist.
	Resolve(dir, name string) (string, error)
	// Open returns a stream over the file at a canonical path.
	Open(path string) (io.ReadCloser, error)
}
