package lineview

import (
	"io"
	"log/slog"
	"os"

	"github.com/starford/lineview/internal/storage"
)

// Option configures a build.
type Option func(*options)

type options struct {
	provider storage.Provider
	logger   *slog.Logger
	homeDir  func() (string, error)
	maxDepth int
}

func newOptions(opts []Option) options {
	o := options{
		homeDir: os.UserHomeDir,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.provider == nil {
		o.provider = &storage.FS{}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// WithProvider sets the provider used to resolve and open files.
func WithProvider(p storage.Provider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithHomeDir overrides how the home directory is found for ~/ paths.
func WithHomeDir(fn func() (string, error)) Option {
	return func(o *options) {
		o.homeDir = fn
	}
}

// WithMaxDepth bounds the number of simultaneously open files. Zero means
// unlimited. Inclusions past the bound become warning lines.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		o.maxDepth = n
	}
}
