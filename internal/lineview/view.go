// Package lineview interprets menu documents into ordered, selectable lines.
//
// A build starts from one root file and follows three inclusion kinds:
//
//	#-import file   independent context, each file at most once per build
//	#-source file   shares the command template and title rights of its parent,
//	                each file at most once per source lineage
//	#-lines file    only literal lines, directives inside are inert, never deduplicated
//
// Directives such as #-pre, #-suf and #-clean shape the command template that
// every following text line captures. Scoped directives (#-ignore-warnings,
// #-ignore-text, #-watch/#-then/#-else) rewrite the directive stream until the
// matching #-end. Recoverable problems become warning lines; only failing to
// read the root file is an error.
package lineview

import (
	"fmt"
	"slices"
)

// View is the result of one build. It is immutable.
type View struct {
	root    string
	title   string
	lines   []Line
	sources []string
	opts    []Option
}

// Read canonicalizes path and builds its view.
func Read(path string, opts ...Option) (*View, error) {
	o := newOptions(opts)

	root, err := o.provider.Resolve("", path)
	if err != nil {
		return nil, fmt.Errorf("lineview: resolve %s: %w", path, err)
	}

	in := newInterpreter(o)
	if err := in.run(root); err != nil {
		return nil, err
	}

	title := in.title
	if !in.hasTitle {
		title = root
	}

	return &View{
		root:    root,
		title:   title,
		lines:   slices.Clip(in.lines),
		sources: slices.Clip(in.visited),
		opts:    slices.Clone(opts),
	}, nil
}

// Reload rebuilds the view from its root path with the same options. The
// receiver is left untouched.
func (v *View) Reload() (*View, error) {
	return Read(v.root, v.opts...)
}

// Root returns the canonical root path.
func (v *View) Root() string { return v.root }

// Title returns the document title. It defaults to the root path.
func (v *View) Title() string { return v.title }

// Len returns the number of lines.
func (v *View) Len() int { return len(v.lines) }

// Lines returns a copy of the lines in order.
func (v *View) Lines() []Line { return slices.Clone(v.lines) }

// Line returns the line at index.
func (v *View) Line(index int) (Line, bool) {
	if index < 0 || index >= len(v.lines) {
		return Line{}, false
	}
	return v.lines[index], true
}

// AllSources returns every file opened during the build, in the order first
// opened, root first.
func (v *View) AllSources() []string { return slices.Clone(v.sources) }
