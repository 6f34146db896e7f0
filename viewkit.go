package viewkit

import (
	"io/fs"

	"github.com/goliatone/go-viewkit/pkg/escape"
	"github.com/goliatone/go-viewkit/pkg/meta"
	"github.com/goliatone/go-viewkit/pkg/render"
	"github.com/goliatone/go-viewkit/pkg/render/template"
	"github.com/goliatone/go-viewkit/pkg/view"
)

// View aliases view.View so callers can stay on the top-level package.
type View = view.View

// Option aliases view.Option.
type Option = view.Option

// Escape mode aliases for callers of Escape.
const (
	QuotesDouble = escape.QuotesDouble
	QuotesBoth   = escape.QuotesBoth
	QuotesNone   = escape.QuotesNone
)

// New constructs a View for file. See view.New.
func New(file string, options ...Option) *View {
	return view.New(file, options...)
}

// NewFS constructs a View whose templates, layouts and partials all load
// from fsys.
func NewFS(fsys fs.FS, file string, options ...Option) (*View, error) {
	registry, err := render.NewFSRegistry(fsys)
	if err != nil {
		return nil, err
	}
	return view.New(file, append([]Option{view.WithExecutor(registry)}, options...)...), nil
}

// Escape HTML-escapes value using the process-wide escaper. A charset, when
// given, becomes the default for later calls that omit one.
func Escape(value any, mode escape.Mode, charset ...string) string {
	return escape.Escape(value, mode, charset...)
}

// Meta renders <meta> tags from config. See meta.Meta.
func Meta(config any, xhtml, escapeValues bool) (string, error) {
	return meta.Meta(config, xhtml, escapeValues)
}

// DefaultExecutor returns the executor used by views created without
// WithExecutor.
func DefaultExecutor() (template.Executor, error) {
	return view.DefaultExecutor()
}

// Re-exported view options.
var (
	WithBasePath = view.WithBasePath
	WithStore    = view.WithStore
	WithExecutor = view.WithExecutor
	WithEscaper  = view.WithEscaper
	WithFactory  = view.WithFactory
	WithLogger   = view.WithLogger
	WithMaxDepth = view.WithMaxDepth
	WithXHTML    = view.WithXHTML
)
