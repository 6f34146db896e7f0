package view

import (
	"log/slog"
	"strings"

	"github.com/goliatone/go-viewkit/pkg/escape"
	"github.com/goliatone/go-viewkit/pkg/render/template"
	"github.com/goliatone/go-viewkit/pkg/vars"
)

// DefaultMaxDepth bounds how many layouts and partials a single render may
// nest before failing with ErrResourceExhausted.
const DefaultMaxDepth = 64

// Option customises a View at construction.
type Option func(*View)

// Factory builds the views used for layouts and partials. Children receive
// options carrying the parent's base path, store and collaborators; a custom
// Factory should forward them to New.
type Factory func(file string, options ...Option) *View

// WithBasePath sets the directory template files are resolved against.
// Trailing separators are removed.
func WithBasePath(path string) Option {
	return func(v *View) {
		v.basePath = strings.TrimRight(path, separator)
	}
}

// WithStore shares an existing variable store with the view. Views built for
// layouts and partials always share their parent's store.
func WithStore(store *vars.Store) Option {
	return func(v *View) {
		if store != nil {
			v.store = store
		}
	}
}

// WithExecutor injects the executor that runs template bodies. The default
// dispatches on file extension through render.NewDefaultRegistry.
func WithExecutor(executor template.Executor) Option {
	return func(v *View) {
		v.executor = executor
	}
}

// WithEscaper sets the escaper used by the "e" and "meta" helpers. Each root
// view gets its own escaper otherwise, shared by its layouts and partials.
func WithEscaper(escaper *escape.Escaper) Option {
	return func(v *View) {
		if escaper != nil {
			v.escaper = escaper
		}
	}
}

// WithFactory overrides how layout and partial views are constructed.
func WithFactory(factory Factory) Option {
	return func(v *View) {
		v.factory = factory
	}
}

// WithLogger routes render diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *View) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithMaxDepth overrides DefaultMaxDepth. Values below one are ignored.
func WithMaxDepth(depth int) Option {
	return func(v *View) {
		if depth > 0 {
			v.maxDepth = depth
		}
	}
}

// WithXHTML makes the "meta" helper emit self-closing tags.
func WithXHTML(enabled bool) Option {
	return func(v *View) {
		v.xhtml = enabled
	}
}

func withDepth(depth int) Option {
	return func(v *View) {
		v.depth = depth
	}
}
