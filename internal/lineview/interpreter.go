package lineview

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/lineview/internal/parser"
)

// interpreter owns all state of a single build. It is not safe for
// concurrent use and is discarded once the view is built.
type interpreter struct {
	opts     options
	stack    []*source
	imported pathSet
	visited  []string
	seen     pathSet
	title    string
	hasTitle bool
	lines    []Line
}

func newInterpreter(opts options) *interpreter {
	return &interpreter{
		opts:     opts,
		imported: newPathSet(),
		seen:     newPathSet(),
	}
}

func (in *interpreter) visit(path string) {
	if in.seen.has(path) {
		return
	}
	in.seen.add(path)
	in.visited = append(in.visited, path)
}

// run interprets the document rooted at path until every context is closed.
// Only failures on the root file are returned.
func (in *interpreter) run(path string) (err error) {
	rc, err := in.opts.provider.Open(path)
	if err != nil {
		return fmt.Errorf("lineview: open %s: %w", path, err)
	}
	root := newSource(path, newReader(rc))
	root.isRoot = true
	in.imported.add(path)
	in.visit(path)
	in.stack = append(in.stack, root)

	defer func() {
		for _, src := range in.stack {
			_ = src.read.close()
		}
		in.stack = nil
	}()

	for len(in.stack) > 0 {
		if err := in.step(in.stack[len(in.stack)-1]); err != nil {
			return err
		}
	}
	return nil
}

// step reads one directive from src, rewrites it through the scope chain and
// applies it.
func (in *interpreter) step(src *source) error {
	pos, d, err := src.read.next()
	if err != nil {
		if len(in.stack) == 1 {
			return fmt.Errorf("lineview: read %s: %w", src.path, err)
		}
		in.emitWarning(src, pos, fmt.Sprintf("could not read %s, %v", src.path, err))
		in.pop()
		return nil
	}

	d = src.chain.Apply(d)

	switch d.Kind {
	case parser.KindNoop, parser.KindComment:
	case parser.KindClose:
		in.pop()
	case parser.KindClean:
		src.cmd = NewCmd()
	case parser.KindPrefix:
		src.cmd.Pre(d.Text)
	case parser.KindSuffix:
		src.cmd.Suf(d.Text)
	case parser.KindTitle:
		if src.isRoot {
			in.title = d.Text
			in.hasTitle = true
		}
	case parser.KindSubtitle:
		in.emit(src, pos, d.Text, KindTitle, nil)
	case parser.KindWarning:
		if !src.watch.Buffer(d.Text) {
			in.emitWarning(src, pos, d.Text)
		}
	case parser.KindEmpty:
		in.emit(src, pos, "", KindNormal, nil)
	case parser.KindText:
		in.emit(src, pos, d.Text, KindNormal, src.cmd.Snapshot())
	case parser.KindImport:
		child, err := in.include(src, d)
		switch {
		case err != nil:
			in.opts.logger.Debug("lineview: inclusion failed",
				slog.String("path", src.path),
				slog.Int("line", pos),
				slog.String("error", err.Error()))
			src.read.pushBack(pos, parser.Warningf("could not %s %s, %v", d.Import, d.Text, err))
		case child != nil:
			in.stack = append(in.stack, child)
		}
	case parser.KindMultiple:
		src.read.pushBack(pos, d.Directives...)
	case parser.KindEndMap:
		in.endScope(src, pos, d.Automatic)
	case parser.KindIgnoreWarnings:
		src.chain = src.chain.Push("ignore-warnings", ignoreWarnings, false)
	case parser.KindIgnoreText:
		src.chain = src.chain.Push("ignore-text", ignoreText, false)
	case parser.KindWatch:
		if !src.watch.Start() {
			in.emitWarning(src, pos, "watch is already active")
		}
	case parser.KindThen:
		if warnings, ok := src.watch.Stop(); ok {
			src.chain = src.chain.Push(scopeThen, thenMapper(warnings), false)
		} else {
			in.emitWarning(src, pos, "then requires a preceding watch")
		}
	case parser.KindElse:
		switch warnings, ok := src.watch.Stop(); {
		case ok:
			src.chain = src.chain.Push(scopeElse, elseMapper(warnings), false)
		case src.chain.Name() == scopeThen && !src.chain.Automatic():
			// a then scope that let its block run skips the else block
			src.chain = src.chain.Parent().Push(scopeElse, elseMapper(nil), false)
		default:
			in.emitWarning(src, pos, "else requires a preceding watch or then")
		}
	case parser.KindDisplayWarnings:
		in.emitWarning(src, pos, "display-warnings is only valid inside an else block")
	case parser.KindDebug:
		in.debug(src, pos)
	default:
		in.emitWarning(src, pos, fmt.Sprintf("unhandled directive %s", d))
	}
	return nil
}

func (in *interpreter) pop() {
	n := len(in.stack)
	src := in.stack[n-1]
	in.stack[n-1] = nil
	in.stack = in.stack[:n-1]
	if err := src.read.close(); err != nil {
		in.opts.logger.Debug("lineview: close failed",
			slog.String("path", src.path),
			slog.String("error", err.Error()))
	}
}

// endScope pops the innermost scope if its flavour matches automatic.
func (in *interpreter) endScope(src *source, pos int, automatic bool) {
	switch {
	case src.chain == nil:
		in.emitWarning(src, pos, "end without an open block")
	case src.chain.Automatic() != automatic:
		in.emitWarning(src, pos, fmt.Sprintf("end does not match the innermost block %s (%s)",
			src.chain.Name(), closing(src.chain.Automatic())))
	default:
		src.chain = src.chain.Parent()
	}
}

func closing(automatic bool) string {
	if automatic {
		return "closed automatically"
	}
	return "closed with end"
}

func (in *interpreter) emit(src *source, pos int, text string, kind Kind, cmd *Template) {
	in.lines = append(in.lines, Line{
		text:     text,
		source:   src.path,
		position: pos,
		kind:     kind,
		cmd:      cmd,
	})
}

func (in *interpreter) emitWarning(src *source, pos int, text string) {
	in.emit(src, pos, text, KindWarning, nil)
}

func (in *interpreter) debug(src *source, pos int) {
	scopes := make([]string, 0, src.chain.Depth())
	for node := src.chain; node != nil; node = node.Parent() {
		scopes = append(scopes, node.Name())
	}
	tmpl := src.cmd.Snapshot()
	in.opts.logger.Debug("lineview: debug",
		slog.String("path", src.path),
		slog.Int("line", pos),
		slog.Bool("root", src.isRoot),
		slog.String("kind", src.kind.String()),
		slog.Int("stack", len(in.stack)),
		slog.String("scopes", strings.Join(scopes, ",")),
		slog.Bool("watching", src.watch.Watching()),
		slog.Int("buffered", src.watch.Buffered()),
		slog.Any("prefix", tmpl.Prefix()),
		slog.Any("suffix", tmpl.Suffix()))
}
