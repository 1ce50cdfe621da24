package lineview

// Kind classifies an emitted line.
type Kind int

// Line kinds.
const (
	KindNormal Kind = iota
	KindTitle
	KindWarning
)

func (k Kind) String() string {
	switch k {
	case KindTitle:
		return "title"
	case KindWarning:
		return "warning"
	default:
		return "normal"
	}
}

// Line is one emitted, immutable line of a view.
type Line struct {
	text     string
	source   string
	position int
	kind     Kind
	cmd      *Template
}

// Text returns the line text.
func (l Line) Text() string { return l.text }

// Source returns the canonical path of the file the line came from.
func (l Line) Source() string { return l.source }

// Position returns the 1-based line number within Source.
func (l Line) Position() int { return l.position }

// Kind returns the line kind.
func (l Line) Kind() Kind { return l.kind }

// IsTitle reports whether the line is a subtitle heading.
func (l Line) IsTitle() bool { return l.kind == KindTitle }

// IsWarning reports whether the line is a warning.
func (l Line) IsWarning() bool { return l.kind == KindWarning }

// Template returns the command template captured when the line was emitted.
func (l Line) Template() *Template { return l.cmd }

// HasCommand reports whether selecting the line runs anything.
func (l Line) HasCommand() bool { return !l.cmd.IsEmpty() }

// Args returns the resolved argument list, or nil when the line has no command.
func (l Line) Args() []string { return l.cmd.Args(l.text) }
