package view

import (
	"io"
	"iter"
	"log/slog"
	"os"
	"strings"

	"github.com/goliatone/go-viewkit/pkg/escape"
	"github.com/goliatone/go-viewkit/pkg/render/template"
	"github.com/goliatone/go-viewkit/pkg/vars"
)

const separator = string(os.PathSeparator)

// View is one renderable template file bound to a variable store.
//
// A View is not safe for concurrent use. Views sharing a store must be
// rendered from one goroutine at a time.
type View struct {
	file     string
	basePath string
	layout   string
	content  string

	store    *vars.Store
	executor template.Executor
	escaper  *escape.Escaper
	factory  Factory
	logger   *slog.Logger

	xhtml    bool
	depth    int
	maxDepth int
}

// New constructs a View for file. Leading and trailing path separators are
// removed from file. Without WithStore the view owns a fresh, empty store.
func New(file string, options ...Option) *View {
	v := &View{
		file:     strings.Trim(file, separator),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(v)
	}
	v.applyDefaults()
	return v
}

func (v *View) applyDefaults() {
	if v.store == nil {
		v.store = vars.New()
	}
	if v.escaper == nil {
		v.escaper = escape.New("")
	}
	if v.factory == nil {
		v.factory = New
	}
	if v.logger == nil {
		v.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// File returns the template file name relative to the base path.
func (v *View) File() string {
	return v.file
}

// BasePath returns the directory template files are resolved against.
func (v *View) BasePath() string {
	return v.basePath
}

// Path joins the base path and file name. Without a base path it is the file
// name alone.
func (v *View) Path() string {
	if v.basePath == "" {
		return v.file
	}
	return v.basePath + separator + v.file
}

// String implements fmt.Stringer and returns Path.
func (v *View) String() string {
	return v.Path()
}

// Store exposes the variable store, which may be shared with other views.
func (v *View) Store() *vars.Store {
	return v.store
}

// Get returns the variable called name or an error wrapping ErrUndefinedKey.
func (v *View) Get(name string) (any, error) {
	return v.store.Get(name)
}

// Lookup returns the variable called name and whether it exists.
func (v *View) Lookup(name string) (any, bool) {
	return v.store.Lookup(name)
}

// Set assigns a variable.
func (v *View) Set(name string, value any) {
	v.store.Set(name, value)
}

// Has reports whether name holds a non-nil value.
func (v *View) Has(name string) bool {
	return v.store.Has(name)
}

// Assign sets every entry of source, a string-keyed mapping, in order.
func (v *View) Assign(source any) error {
	return v.store.Assign(source)
}

// Append adds values to the end of the sequence stored under name.
func (v *View) Append(name string, values any) {
	v.store.Append(name, values)
}

// Prepend adds values to the front of the sequence stored under name.
func (v *View) Prepend(name string, values any) {
	v.store.Prepend(name, values)
}

// ToMap returns a copy of every variable.
func (v *View) ToMap() map[string]any {
	return v.store.ToMap()
}

// All iterates the variables in insertion order.
func (v *View) All() iter.Seq2[string, any] {
	return v.store.All()
}

// SetLayout wraps the rendered output in file. An empty name clears the
// layout.
func (v *View) SetLayout(file string) {
	v.layout = strings.Trim(file, separator)
}

// Layout returns the configured layout file, if any.
func (v *View) Layout() string {
	return v.layout
}

// Content returns the wrapped child output when the view renders a layout.
func (v *View) Content() string {
	return v.content
}

// Depth reports how many layouts and partials enclose this view.
func (v *View) Depth() int {
	return v.depth
}

// child builds the view for a layout or partial. It shares the store,
// executor, escaper and base path, and sits one level deeper.
func (v *View) child(file string) *View {
	return v.factory(file,
		WithBasePath(v.basePath),
		WithStore(v.store),
		WithExecutor(v.executor),
		WithEscaper(v.escaper),
		WithFactory(v.factory),
		WithLogger(v.logger),
		WithMaxDepth(v.maxDepth),
		WithXHTML(v.xhtml),
		withDepth(v.depth+1),
	)
}
