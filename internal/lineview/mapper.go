package lineview

import "github.com/starford/lineview/internal/parser"

// Mapper rewrites a directive. depth is the distance of the scope from the
// innermost one (0 = innermost).
type Mapper func(d parser.Directive, depth int) parser.Directive

// Chain is a persistent stack of mapper scopes. A nil *Chain is the empty
// chain. Nodes are never modified once pushed, but a suppressing mapper counts
// the blocks opened inside it, so a chain belongs to a single context.
type Chain struct {
	name      string
	mapper    Mapper
	automatic bool
	parent    *Chain
}

// Push returns a new chain with m as its innermost scope. The receiver is left
// untouched.
func (c *Chain) Push(name string, m Mapper, automatic bool) *Chain {
	return &Chain{name: name, mapper: m, automatic: automatic, parent: c}
}

// Parent returns the chain without its innermost scope.
func (c *Chain) Parent() *Chain {
	if c == nil {
		return nil
	}
	return c.parent
}

// Name returns the name of the innermost scope.
func (c *Chain) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

// Automatic reports whether the innermost scope is closed automatically.
func (c *Chain) Automatic() bool {
	return c != nil && c.automatic
}

// Depth returns the number of scopes in the chain.
func (c *Chain) Depth() int {
	n := 0
	for node := c; node != nil; node = node.parent {
		n++
	}
	return n
}

// Apply runs d through every scope, innermost first.
func (c *Chain) Apply(d parser.Directive) parser.Directive {
	depth := 0
	for node := c; node != nil; node = node.parent {
		d = node.mapper(d, depth)
		depth++
	}
	return d
}

// isStructural reports whether d must survive a suppressing scope at depth:
// Close always does, so end-of-file still pops the context, and EndMap does
// at depth 0 so the suppressing scope itself can be closed.
func isStructural(d parser.Directive, depth int) bool {
	return d.Is(parser.KindClose) || (d.Is(parser.KindEndMap) && depth == 0)
}

func ignoreWarnings(d parser.Directive, _ int) parser.Directive {
	if d.Is(parser.KindWarning) {
		return parser.Noop()
	}
	return d
}

func ignoreText(d parser.Directive, _ int) parser.Directive {
	if d.Is(parser.KindText) {
		return parser.Noop()
	}
	return d
}

// linesOnly keeps only what a lines inclusion may contribute.
func linesOnly(d parser.Directive, _ int) parser.Directive {
	switch d.Kind {
	case parser.KindClose, parser.KindEmpty, parser.KindText:
		return d
	default:
		return parser.Noop()
	}
}

// Scope names the interpreter inspects.
const (
	scopeThen = "then"
	scopeElse = "else"
)

// nestedBlocks tracks blocks opened inside a suppressing scope so that their
// else and end directives are swallowed instead of acting on the scope itself.
type nestedBlocks struct {
	open     int
	watching bool
}

// swallow reports whether d opens, continues or closes a nested block.
func (n *nestedBlocks) swallow(d parser.Directive) bool {
	switch d.Kind {
	case parser.KindWatch:
		n.watching = true
		return true
	case parser.KindThen:
		n.watching = false
		n.open++
		return true
	case parser.KindIgnoreWarnings, parser.KindIgnoreText:
		n.open++
		return true
	case parser.KindElse:
		if n.watching {
			n.watching = false
			n.open++
			return true
		}
		return n.open > 0
	case parser.KindEndMap:
		if !d.Automatic && n.open > 0 {
			n.open--
			return true
		}
	}
	return false
}

// suppress drops everything except structural directives and the else that
// ends the block, which is handed to onElse.
func suppress(onElse func(parser.Directive) parser.Directive) Mapper {
	var nested nestedBlocks
	return func(d parser.Directive, depth int) parser.Directive {
		if depth == 0 && nested.swallow(d) {
			return parser.Noop()
		}
		if d.Is(parser.KindElse) {
			return onElse(d)
		}
		if isStructural(d, depth) {
			return d
		}
		return parser.Noop()
	}
}

func passThrough(d parser.Directive, _ int) parser.Directive {
	return d
}

// thenMapper runs its block only when no warnings were collected. With
// warnings, an else closes the then scope and replays the watch so the else
// scope is installed with the same warnings. Without warnings the scope passes
// everything through; the interpreter swaps it for a suppressing else scope
// when its own else arrives.
func thenMapper(warnings []string) Mapper {
	if len(warnings) == 0 {
		return passThrough
	}
	return suppress(func(d parser.Directive) parser.Directive {
		return restartWatch(warnings, d)
	})
}

func restartWatch(warnings []string, trigger parser.Directive) parser.Directive {
	ds := make([]parser.Directive, 0, len(warnings)+3)
	ds = append(ds, parser.EndMap(false), parser.Watch())
	for _, w := range warnings {
		ds = append(ds, parser.Warning(w))
	}
	return parser.Multiple(append(ds, trigger)...)
}

// elseMapper runs its block only when warnings were collected, and answers
// display-warnings with them.
func elseMapper(warnings []string) Mapper {
	if len(warnings) == 0 {
		return suppress(func(parser.Directive) parser.Directive { return parser.Noop() })
	}
	return func(d parser.Directive, _ int) parser.Directive {
		if d.Is(parser.KindDisplayWarnings) {
			ds := make([]parser.Directive, len(warnings))
			for i, w := range warnings {
				ds[i] = parser.Warning(w)
			}
			return parser.Multiple(ds...)
		}
		return d
	}
}
