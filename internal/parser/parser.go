// Package parser turns raw document lines into directives.
//
// A document line is one of:
//
//	text            a literal, selectable line
//	##text          a literal line starting with a single '#'
//	# comment       dropped
//	#-keyword arg   a directive
//
// Parsing is total: malformed directives degrade to warnings.
package parser

import (
	"strings"
	"unicode"
)

const (
	directiveMarker = "#-"
	commentMarker   = "#"
)

// Parse converts one line of text into exactly one directive. A trailing
// newline and trailing whitespace are ignored.
func Parse(line string) Directive {
	line = strings.TrimRightFunc(line, unicode.IsSpace)

	switch {
	case strings.TrimSpace(line) == "":
		return Empty()
	case strings.HasPrefix(line, directiveMarker):
		return ParseCommand(strings.TrimSpace(line[len(directiveMarker):]))
	case strings.HasPrefix(line, commentMarker+commentMarker):
		return Text(line[len(commentMarker):])
	case strings.HasPrefix(line, commentMarker):
		return Comment(strings.TrimSpace(line[len(commentMarker):]))
	default:
		return Text(line)
	}
}

type argPolicy int

const (
	argNone argPolicy = iota
	argRequired
	argOptional
)

type keyword struct {
	args  argPolicy
	build func(payload string) Directive
}

var keywords = map[string]keyword{
	"pre":              {argRequired, Prefix},
	"suf":              {argRequired, Suffix},
	"clean":            {argNone, func(string) Directive { return Clean() }},
	"title":            {argRequired, Title},
	"subtitle":         {argRequired, Subtitle},
	"import":           {argRequired, func(p string) Directive { return Import(ImportImport, p) }},
	"source":           {argRequired, func(p string) Directive { return Import(ImportSource, p) }},
	"lines":            {argRequired, func(p string) Directive { return Import(ImportLines, p) }},
	"warning":          {argRequired, Warning},
	"text":             {argRequired, Text},
	"empty":            {argNone, func(string) Directive { return Empty() }},
	"comment":          {argOptional, Comment},
	"close":            {argNone, func(string) Directive { return Close() }},
	"end":              {argNone, func(string) Directive { return EndMap(false) }},
	"ignore-warnings":  {argNone, func(string) Directive { return IgnoreWarnings() }},
	"ignore-text":      {argNone, func(string) Directive { return IgnoreText() }},
	"watch":            {argNone, func(string) Directive { return Watch() }},
	"then":             {argNone, func(string) Directive { return Then() }},
	"else":             {argNone, func(string) Directive { return Else() }},
	"display-warnings": {argNone, func(string) Directive { return DisplayWarnings() }},
	"debug":            {argNone, func(string) Directive { return Debug() }},
}

// ParseCommand parses the text following the directive marker. Keywords that
// take no argument ignore anything after them.
func ParseCommand(text string) Directive {
	name, payload, hasPayload := splitCommand(text)
	if name == "" {
		return Warningf("could not parse directive %q", text)
	}

	kw, ok := keywords[name]
	if !ok {
		return Warningf("%s is not a directive", name)
	}

	switch kw.args {
	case argRequired:
		if !hasPayload {
			return Warningf("directive %s requires an argument", name)
		}
		return kw.build(payload)
	case argOptional:
		return kw.build(payload)
	default:
		return kw.build("")
	}
}

// splitCommand splits text into a keyword and its trimmed, quote-stripped
// payload. hasPayload is false when nothing follows the keyword.
func splitCommand(text string) (name, payload string, hasPayload bool) {
	text = strings.TrimLeftFunc(text, unicode.IsSpace)
	idx := strings.IndexFunc(text, unicode.IsSpace)
	if idx < 0 {
		return text, "", false
	}
	name = text[:idx]
	rest := strings.TrimSpace(text[idx:])
	if rest == "" {
		return name, "", false
	}
	return name, unquote(rest), true
}

// unquote strips one pair of surrounding double quotes. Inner quotes are kept verbatim.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
