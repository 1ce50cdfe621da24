package mcpserver

// DocumentFormat describes the menu document syntax for LLM consumers.
const DocumentFormat = `# Menu Document Format

A menu document is plain text. Every line becomes one selectable line of the
view unless it is a comment or a directive.

## Line syntax

| Line               | Meaning                                          |
|--------------------|--------------------------------------------------|
| (empty)            | empty line, kept                                 |
| ` + "`text`" + `             | selectable line                                  |
| ` + "`# text`" + `           | comment, dropped                                 |
| ` + "`## text`" + `          | selectable line "# text" (escape)                |
| ` + "`#-name payload`" + `   | directive; payload may be wrapped in "quotes"    |

Trailing whitespace is removed. Positions are 1-based line numbers.

## Command template

- ` + "`#-pre arg`" + ` appends one argument before the line text.
- ` + "`#-suf arg`" + ` appends one argument after the line text.
- ` + "`#-clean`" + ` starts a new, empty template. Lines already emitted keep theirs.

Each selectable line captures the template as it is when the line is read.
Executing the line runs prefix ++ [text] ++ suffix with LINE_VIEW_LINE_NR and
LINE_VIEW_LINE_SRC set. A line with an empty template has no command.

## Titles

- ` + "`#-title text`" + ` sets the document title (root file and files it sources only).
- ` + "`#-subtitle text`" + ` emits a title line.

## Inclusion

- ` + "`#-import file`" + ` reads file with a fresh template. Each file is imported once per build.
- ` + "`#-source file`" + ` reads file sharing the current template and title rights.
  Each file is sourced once per chain of sourcing files.
- ` + "`#-lines file`" + ` reads only the plain and empty lines of file, using the current
  template. Directives inside are ignored. Never deduplicated.

Paths are relative to the including file; ` + "`~/`" + ` means the home directory and
` + "`~/~/`" + ` a literal "~/". A file that cannot be found becomes a warning line.

## Scopes (closed with ` + "`#-end`" + ` or at end of file)

- ` + "`#-ignore-warnings`" + ` hides warnings.
- ` + "`#-ignore-text`" + ` hides selectable lines.
- ` + "`#-watch`" + ` collects warnings instead of showing them.
  ` + "`#-then`" + ` keeps the following block only if none were collected;
  ` + "`#-else`" + ` keeps its block only if some were, and ` + "`#-display-warnings`" + `
  inside it shows them.

## Other directives

` + "`#-warning text`" + `, ` + "`#-text text`" + `, ` + "`#-empty`" + `, ` + "`#-comment text`" + `,
` + "`#-close`" + ` (stop reading the current file), ` + "`#-debug`" + ` (log interpreter state).
`
