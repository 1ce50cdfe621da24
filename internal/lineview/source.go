package lineview

import (
	"path/filepath"

	"github.com/starford/lineview/internal/parser"
)

// pathSet is a set of canonical paths. Maps are references, so contexts that
// hold the same pathSet share it.
type pathSet map[string]struct{}

func newPathSet(paths ...string) pathSet {
	s := make(pathSet, len(paths))
	for _, p := range paths {
		s[p] = struct{}{}
	}
	return s
}

func (s pathSet) has(p string) bool {
	_, ok := s[p]
	return ok
}

func (s pathSet) add(p string) {
	s[p] = struct{}{}
}

// source is one open input plus its interpretation state.
type source struct {
	read    *reader
	path    string
	dir     string
	isRoot  bool
	kind    parser.ImportKind
	cmd     *Cmd
	sourced pathSet
	chain   *Chain
	watch   *WarningWatch
}

// newSource returns a context with fresh state: its own command template, a
// source lineage containing only itself, no scopes and a sleeping watch.
func newSource(path string, r *reader) *source {
	return &source{
		read:    r,
		path:    path,
		dir:     filepath.Dir(path),
		kind:    parser.ImportImport,
		cmd:     NewCmd(),
		sourced: newPathSet(path),
		watch:   &WarningWatch{},
	}
}
