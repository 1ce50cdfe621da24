package lineview

import (
	"fmt"
	"log/slog"

	"github.com/starford/lineview/internal/parser"
)

// include resolves an import directive against parent. It returns the new
// context, nil when the target was already included (nothing to do), or an
// error whose text becomes a warning line.
func (in *interpreter) include(parent *source, d parser.Directive) (*source, error) {
	path, err := in.opts.resolve(parent.dir, d.Text)
	if err != nil {
		return nil, err
	}

	switch d.Import {
	case parser.ImportImport:
		if in.imported.has(path) {
			return nil, nil
		}
	case parser.ImportSource:
		if parent.sourced.has(path) {
			return nil, nil
		}
	case parser.ImportLines:
		// never deduplicated
	default:
		return nil, fmt.Errorf("unknown inclusion kind %s", d.Import)
	}

	if limit := in.opts.maxDepth; limit > 0 && len(in.stack) >= limit {
		return nil, fmt.Errorf("inclusion depth limit of %d reached", limit)
	}

	rc, err := in.opts.provider.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file, %w", withoutPath(err))
	}
	in.visit(path)

	child := newSource(path, newReader(rc))
	child.kind = d.Import

	switch d.Import {
	case parser.ImportImport:
		in.imported.add(path)
	case parser.ImportSource:
		parent.sourced.add(path)
		child.sourced = parent.sourced
		child.cmd = parent.cmd
		child.isRoot = parent.isRoot
	case parser.ImportLines:
		child.cmd = parent.cmd
		child.chain = child.chain.Push("lines", linesOnly, true)
	}

	in.opts.logger.Debug("lineview: entering file",
		slog.String("kind", d.Import.String()),
		slog.String("path", path),
		slog.Int("depth", len(in.stack)+1))
	return child, nil
}
