package internal

import (
	"io"

	"github.com/starford/lineview/internal/history"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config       *Config
	documentPath string
	version      string
	stdin        io.Reader
	stdout       io.Writer
	showArgs     bool

	// history is set once openDocument has opened the database.
	history *history.DB
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithDocumentPath overrides the configured root document.
func WithDocumentPath(path string) Option {
	return func(a *application) {
		a.documentPath = path
	}
}

// WithVersion sets the version reported to MCP clients.
func WithVersion(v string) Option {
	return func(a *application) {
		a.version = v
	}
}

// WithIO replaces stdin and stdout for the print and mcp modes.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(a *application) {
		a.stdin = in
		a.stdout = out
	}
}

// WithShowArgs makes print list the argument vector under each runnable line.
func WithShowArgs(show bool) Option {
	return func(a *application) {
		a.showArgs = show
	}
}
