package storage

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
)

// Memory is an in-memory Provider keyed by clean absolute paths.
type Memory map[string]string

// Resolve cleans name relative to dir and checks that it exists.
func (m Memory) Resolve(dir, name string) (string, error) {
	p := name
	if !filepath.IsAbs(p) {
		p = filepath.Join(dir, p)
	}
	p = filepath.Clean(p)
	if _, ok := m[p]; !ok {
		return "", fmt.Errorf("storage: resolve %s: %w", name, fs.ErrNotExist)
	}
	return p, nil
}

// Open returns the content stored at path.
func (m Memory) Open(path string) (io.ReadCloser, error) {
	content, ok := m[path]
	if !ok {
		return nil, fmt.Errorf("storage: open %s: %w", path, fs.ErrNotExist)
	}
	return io.NopCloser(strings.NewReader(content)), nil
}
