package lineview

import "slices"

// Template is an immutable snapshot of a command template. A nil *Template
// is the empty template.
type Template struct {
	prefix []string
	suffix []string
}

// Prefix returns a copy of the arguments placed before the line text.
func (t *Template) Prefix() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.prefix)
}

// Suffix returns a copy of the arguments placed after the line text.
func (t *Template) Suffix() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.suffix)
}

// IsEmpty reports whether the template has never been written to.
func (t *Template) IsEmpty() bool {
	return t == nil || (len(t.prefix) == 0 && len(t.suffix) == 0)
}

// Args resolves the argument list prefix ++ [text] ++ suffix. It returns nil
// for an empty template.
func (t *Template) Args(text string) []string {
	if t.IsEmpty() {
		return nil
	}
	args := make([]string, 0, len(t.prefix)+1+len(t.suffix))
	args = append(args, t.prefix...)
	args = append(args, text)
	return append(args, t.suffix...)
}

// Cmd is a mutable command template shared by every context that holds the
// same *Cmd. Writes replace the current snapshot, so snapshots handed out
// earlier never change.
type Cmd struct {
	current *Template
}

// NewCmd returns an empty command template.
func NewCmd() *Cmd {
	return &Cmd{current: &Template{}}
}

// Pre appends arg to the prefix.
func (c *Cmd) Pre(arg string) {
	cur := c.Snapshot()
	c.current = &Template{
		prefix: append(cur.prefix[:len(cur.prefix):len(cur.prefix)], arg),
		suffix: cur.suffix,
	}
}

// Suf appends arg to the suffix.
func (c *Cmd) Suf(arg string) {
	cur := c.Snapshot()
	c.current = &Template{
		prefix: cur.prefix,
		suffix: append(cur.suffix[:len(cur.suffix):len(cur.suffix)], arg),
	}
}

// Snapshot returns the current immutable template.
func (c *Cmd) Snapshot() *Template {
	if c.current == nil {
		c.current = &Template{}
	}
	return c.current
}

// IsEmpty reports whether the template has never been written to.
func (c *Cmd) IsEmpty() bool {
	return c.Snapshot().IsEmpty()
}
