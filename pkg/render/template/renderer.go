package template

import (
	"context"
	"io"

	"github.com/goliatone/go-viewkit/pkg/escape"
)

// Names under which executors bind the view helpers. Helper bindings take
// precedence over variables with the same name.
const (
	HelperEscape    = "e"
	HelperMeta      = "meta"
	HelperPartial   = "partial"
	HelperContent   = "content"
	HelperMarkdown  = "markdown"
	HelperHighlight = "highlight"
	HelperSanitize  = "sanitize"
	HelperLayout    = "layout"
	HelperSet       = "set"
)

// Helpers are the callbacks a template body can reach while it executes.
// Partial renders a sibling template sharing the caller's variables; Content
// returns the wrapped child output when the template is a layout. SetLayout
// and Set mutate the running view and return an empty string so they can be
// called from output expressions.
type Helpers interface {
	Escape(value any, mode escape.Mode, charset ...string) string
	Meta(config any) (string, error)
	Partial(name string) (string, error)
	Content() string
	Markdown(source any) (string, error)
	Highlight(code any, language string) (string, error)
	Sanitize(markup any) string
	SetLayout(name string) string
	Set(name string, value any) string
}

// Scope is the explicit binding set handed to an Executor: a snapshot of the
// view variables plus the helpers.
type Scope struct {
	// Vars holds the variable snapshot.
	Vars map[string]any
	// Keys lists Vars in insertion order.
	Keys []string
	// Helpers may be nil when a template is executed outside a view.
	Helpers Helpers
}

// Executor is the template execution primitive: it runs the template stored
// at path with the given scope and writes the produced text to out. Executors
// must not write partial output on failure.
type Executor interface {
	Execute(ctx context.Context, path string, scope Scope, out io.Writer) error
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, path string, scope Scope, out io.Writer) error

// Execute calls f.
func (f ExecutorFunc) Execute(ctx context.Context, path string, scope Scope, out io.Writer) error {
	return f(ctx, path, scope, out)
}
