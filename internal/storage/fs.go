package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FS implements Provider backed by the local file system.
type FS struct {
	root string // canonical confinement root, empty for none
}

// NewFS creates a new FS provider. When root is non-empty every resolved path
// must stay inside it; the directory must already exist.
func NewFS(root string) (*FS, error) {
	if root == "" {
		return &FS{}, nil
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the confinement root, or "" when unconfined.
func (f *FS) Root() string {
	return f.root
}

// Resolve joins name onto dir, follows symlinks and, when confined, rejects
// any result that escapes the root.
func (f *FS) Resolve(dir, name string) (string, error) {
	p := name
	if !filepath.IsAbs(p) {
		p = filepath.Join(dir, p)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("storage: resolve %s: %w", name, err)
	}
	if f.root != "" && canonical != f.root && !strings.HasPrefix(canonical, f.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: path escapes root: %s", name)
	}
	return canonical, nil
}

// Open opens a file for reading.
func (f *FS) Open(path string) (io.ReadCloser, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("storage: open %s: is a directory", path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	return file, nil
}
