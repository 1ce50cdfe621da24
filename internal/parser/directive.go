package parser

import (
	"fmt"
	"strings"
)

// Kind identifies the meaning of a parsed line.
type Kind int

// Directive kinds.
const (
	KindNoop Kind = iota
	KindEmpty
	KindClose
	KindClean
	KindPrefix
	KindSuffix
	KindTitle
	KindSubtitle
	KindWarning
	KindComment
	KindText
	KindImport
	KindEndMap
	KindIgnoreWarnings
	KindIgnoreText
	KindWatch
	KindThen
	KindElse
	KindDisplayWarnings
	KindMultiple
	KindDebug
)

var kindNames = [...]string{
	KindNoop:            "noop",
	KindEmpty:           "empty",
	KindClose:           "close",
	KindClean:           "clean",
	KindPrefix:          "pre",
	KindSuffix:          "suf",
	KindTitle:           "title",
	KindSubtitle:        "subtitle",
	KindWarning:         "warning",
	KindComment:         "comment",
	KindText:            "text",
	KindImport:          "import",
	KindEndMap:          "end",
	KindIgnoreWarnings:  "ignore-warnings",
	KindIgnoreText:      "ignore-text",
	KindWatch:           "watch",
	KindThen:            "then",
	KindElse:            "else",
	KindDisplayWarnings: "display-warnings",
	KindMultiple:        "multiple",
	KindDebug:           "debug",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ImportKind selects how an included file shares state with its parent.
type ImportKind int

// Inclusion kinds.
const (
	// ImportImport opens an independent context, deduplicated across the whole run.
	ImportImport ImportKind = iota
	// ImportSource shares the parent's command template and source lineage.
	ImportSource
	// ImportLines contributes only literal lines and is never deduplicated.
	ImportLines
)

func (k ImportKind) String() string {
	switch k {
	case ImportImport:
		return "import"
	case ImportSource:
		return "source"
	case ImportLines:
		return "lines"
	default:
		return fmt.Sprintf("import-kind(%d)", int(k))
	}
}

// Directive is one parsed line. Only the fields relevant to Kind are set:
// Text carries the payload of text-bearing kinds and the file of an import,
// Import the inclusion kind, Automatic the flavour of an EndMap, and
// Directives the expansion of a Multiple.
type Directive struct {
	Kind       Kind
	Text       string
	Import     ImportKind
	Automatic  bool
	Directives []Directive
}

// Noop returns a directive that does nothing.
func Noop() Directive { return Directive{Kind: KindNoop} }

// Empty returns a blank line directive.
func Empty() Directive { return Directive{Kind: KindEmpty} }

// Close returns the end-of-input directive.
func Close() Directive { return Directive{Kind: KindClose} }

// Clean returns a directive detaching the command template.
func Clean() Directive { return Directive{Kind: KindClean} }

// Prefix returns a directive appending arg to the command prefix.
func Prefix(arg string) Directive { return Directive{Kind: KindPrefix, Text: arg} }

// Suffix returns a directive appending arg to the command suffix.
func Suffix(arg string) Directive { return Directive{Kind: KindSuffix, Text: arg} }

// Title returns a document title directive.
func Title(text string) Directive { return Directive{Kind: KindTitle, Text: text} }

// Subtitle returns a heading line directive.
func Subtitle(text string) Directive { return Directive{Kind: KindSubtitle, Text: text} }

// Warning returns a warning directive.
func Warning(text string) Directive { return Directive{Kind: KindWarning, Text: text} }

// Warningf formats a warning directive.
func Warningf(format string, args ...any) Directive {
	return Warning(fmt.Sprintf(format, args...))
}

// Comment returns a comment directive.
func Comment(text string) Directive { return Directive{Kind: KindComment, Text: text} }

// Text returns a literal selectable line.
func Text(text string) Directive { return Directive{Kind: KindText, Text: text} }

// Import returns an inclusion directive for file.
func Import(kind ImportKind, file string) Directive {
	return Directive{Kind: KindImport, Import: kind, Text: file}
}

// EndMap returns a directive closing the innermost mapper scope.
func EndMap(automatic bool) Directive { return Directive{Kind: KindEndMap, Automatic: automatic} }

// IgnoreWarnings returns a directive opening a warning-suppressing scope.
func IgnoreWarnings() Directive { return Directive{Kind: KindIgnoreWarnings} }

// IgnoreText returns a directive opening a text-suppressing scope.
func IgnoreText() Directive { return Directive{Kind: KindIgnoreText} }

// Watch returns a directive starting to buffer warnings.
func Watch() Directive { return Directive{Kind: KindWatch} }

// Then returns a directive opening a then block.
func Then() Directive { return Directive{Kind: KindThen} }

// Else returns a directive opening an else block.
func Else() Directive { return Directive{Kind: KindElse} }

// DisplayWarnings returns a directive replaying buffered warnings.
func DisplayWarnings() Directive { return Directive{Kind: KindDisplayWarnings} }

// Debug returns a directive dumping interpreter state.
func Debug() Directive { return Directive{Kind: KindDebug} }

// Multiple returns a directive expanding into ds, processed in order.
func Multiple(ds ...Directive) Directive { return Directive{Kind: KindMultiple, Directives: ds} }

// Is reports whether d has kind k.
func (d Directive) Is(k Kind) bool { return d.Kind == k }

func (d Directive) String() string {
	switch d.Kind {
	case KindImport:
		return fmt.Sprintf("%s(%q)", d.Import, d.Text)
	case KindEndMap:
		if d.Automatic {
			return "end(automatic)"
		}
		return "end"
	case KindMultiple:
		parts := make([]string, len(d.Directives))
		for i, sub := range d.Directives {
			parts[i] = sub.String()
		}
		return "multiple[" + strings.Join(parts, ", ") + "]"
	case KindPrefix, KindSuffix, KindTitle, KindSubtitle, KindWarning, KindComment, KindText:
		return fmt.Sprintf("%s(%q)", d.Kind, d.Text)
	default:
		return d.Kind.String()
	}
}
