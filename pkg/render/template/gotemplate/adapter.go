package gotemplate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-viewkit/pkg/escape"
	"github.com/goliatone/go-viewkit/pkg/render/template"
	"github.com/goliatone/go-viewkit/pkg/vars"
)

// Option configures the pongo2 adapter before construction.
type Option func(*config)

type config struct {
	baseDir    string
	templates  fs.FS
	extension  string
	templateFn map[string]any
	globalData map[string]any
}

// WithBaseDir resolves relative template paths against dir on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from an fs.FS instead of the local filesystem.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension sets the extension appended to template paths that have
// none.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithTemplateFunc registers helper functions or filters when the engine loads.
func WithTemplateFunc(funcs map[string]any) Option {
	return func(cfg *config) {
		if len(funcs) == 0 {
			return
		}
		if cfg.templateFn == nil {
			cfg.templateFn = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.templateFn[strings.TrimSpace(name)] = fn
		}
	}
}

// WithGlobalData seeds global context values available to every template.
// Scope variables shadow globals.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// Engine executes pongo2 templates. Templates are parsed on every execution.
//
// Globals live on the engine rather than the pongo2 set. Each execution
// copies them under the read lock and runs without holding it, so helpers
// may re-enter Execute while another goroutine updates globals.
type Engine struct {
	mu      sync.RWMutex
	globals pongo2.Context

	templateSet *pongo2.TemplateSet
	tplExt      string
}

var _ template.Executor = (*Engine)(nil)

// identifier mirrors the names pongo2 accepts as context keys.
var identifier = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// New constructs an Engine using the provided configuration options. Without
// WithBaseDir or WithFS, relative paths resolve against the working
// directory.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	var loader pongo2.TemplateLoader
	if cfg.templates != nil {
		loader = pongo2.NewFSLoader(cfg.templates)
	} else {
		local, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: create local loader: %w", err)
		}
		loader = local
	}

	engine := &Engine{
		templateSet: pongo2.NewSet("viewkit", loader),
		tplExt:      cfg.extension,
	}

	if err := engine.GlobalContext(cfg.globalData); err != nil {
		return nil, fmt.Errorf("gotemplate: apply global data: %w", err)
	}
	for name, fn := range cfg.templateFn {
		if err := engine.registerTemplateFunc(name, fn); err != nil {
			return nil, fmt.Errorf("gotemplate: register template func %q: %w", name, err)
		}
	}

	return engine, nil
}

// Execute parses the template at path and runs it with scope. Nothing is
// written to out unless execution succeeds.
func (e *Engine) Execute(ctx context.Context, path string, scope template.Scope, out io.Writer) error {
	if e == nil || e.templateSet == nil {
		return errors.New("gotemplate: engine is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	templatePath := e.templatePath(path)
	tmpl, err := e.templateSet.FromFile(templatePath)
	if err != nil {
		return fmt.Errorf("gotemplate: load template %q: %w", templatePath, err)
	}

	rendered, err := e.execute(tmpl, scope)
	if err != nil {
		return fmt.Errorf("gotemplate: execute template %q: %w", templatePath, err)
	}
	_, err = out.Write(rendered)
	return err
}

// RenderTemplate executes the template at path and returns the output,
// also copying it to every writer in out.
func (e *Engine) RenderTemplate(ctx context.Context, path string, scope template.Scope, out ...io.Writer) (string, error) {
	var buf strings.Builder
	if err := e.Execute(ctx, path, scope, &buf); err != nil {
		return "", err
	}
	return fanOut(buf.String(), out)
}

// RenderString executes inline template content.
func (e *Engine) RenderString(ctx context.Context, templateContent string, scope template.Scope, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmpl, err := e.templateSet.FromString(templateContent)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse template string: %w", err)
	}

	rendered, err := e.execute(tmpl, scope)
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute template string: %w", err)
	}
	return fanOut(string(rendered), out)
}

// RegisterFilter registers a template filter. pongo2 filters are global to
// the process, so registering an existing name fails.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}

	filter := func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramVal any
		if param != nil {
			paramVal = param.Interface()
		}
		result, err := fn(in.Interface(), paramVal)
		if err != nil {
			return nil, &pongo2.Error{Sender: "custom_filter", OrigError: err}
		}
		return pongo2.AsValue(result), nil
	}

	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, filter)
}

// GlobalContext merges data into the values visible to every template. data
// may be any mapping accepted by vars.Store.Assign.
func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.templateSet == nil {
		return errors.New("gotemplate: engine is nil")
	}
	if data == nil {
		return nil
	}
	if m, ok := data.(map[string]any); ok && len(m) == 0 {
		return nil
	}

	pairs, ok := vars.PairsOf(data)
	if !ok {
		return fmt.Errorf("gotemplate: global data: %w", vars.ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.globals == nil {
		e.globals = make(pongo2.Context)
	}
	for _, pair := range pairs {
		key := strings.TrimSpace(pair.Key)
		if key == "" {
			continue
		}
		e.globals[key] = pair.Value
	}
	return nil
}

func (e *Engine) execute(tmpl *pongo2.Template, scope template.Scope) ([]byte, error) {
	return tmpl.ExecuteBytes(bindScope(e.snapshotGlobals(), scope))
}

func (e *Engine) snapshotGlobals() pongo2.Context {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make(pongo2.Context, len(e.globals))
	for key, value := range e.globals {
		out[key] = value
	}
	return out
}

func (e *Engine) templatePath(path string) string {
	if e.tplExt != "" && filepath.Ext(path) == "" {
		return path + e.tplExt
	}
	return path
}

func (e *Engine) registerTemplateFunc(name string, fn any) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || fn == nil {
		return nil
	}

	if filter, ok := fn.(pongo2.FilterFunction); ok {
		if pongo2.FilterExists(trimmed) {
			return nil
		}
		return pongo2.RegisterFilter(trimmed, filter)
	}

	if !isCallable(fn) {
		return fmt.Errorf("gotemplate: %q is not a function", trimmed)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.globals == nil {
		e.globals = make(pongo2.Context)
	}
	e.globals[trimmed] = fn
	return nil
}

// bindScope projects the scope over a copy of the globals. Keys pongo2
// cannot address are skipped; variables shadow globals and helper bindings
// win over both.
func bindScope(out pongo2.Context, scope template.Scope) pongo2.Context {
	for key, value := range scope.Vars {
		key = strings.TrimSpace(key)
		if !identifier.MatchString(key) {
			continue
		}
		out[key] = value
	}
	if scope.Helpers != nil {
		bindHelpers(out, scope.Helpers)
	}
	return out
}

// bindHelpers exposes the view helpers as template functions. Their output is
// markup and is marked safe so autoescaping does not encode it twice.
func bindHelpers(out pongo2.Context, h template.Helpers) {
	out[template.HelperEscape] = func(value *pongo2.Value, options ...*pongo2.Value) (*pongo2.Value, error) {
		mode := escape.QuotesBoth
		if len(options) > 0 {
			parsed, err := escape.ParseMode(options[0].String())
			if err != nil {
				return nil, err
			}
			mode = parsed
		}
		var charset []string
		if len(options) > 1 {
			charset = append(charset, options[1].String())
		}
		return pongo2.AsSafeValue(h.Escape(value.Interface(), mode, charset...)), nil
	}
	out[template.HelperMeta] = func(config *pongo2.Value) (*pongo2.Value, error) {
		return safe(h.Meta(config.Interface()))
	}
	out[template.HelperPartial] = func(name *pongo2.Value) (*pongo2.Value, error) {
		return safe(h.Partial(name.String()))
	}
	out[template.HelperContent] = func() *pongo2.Value {
		return pongo2.AsSafeValue(h.Content())
	}
	out[template.HelperMarkdown] = func(source *pongo2.Value) (*pongo2.Value, error) {
		return safe(h.Markdown(source.Interface()))
	}
	out[template.HelperHighlight] = func(code, language *pongo2.Value) (*pongo2.Value, error) {
		return safe(h.Highlight(code.Interface(), language.String()))
	}
	out[template.HelperSanitize] = func(markup *pongo2.Value) *pongo2.Value {
		return pongo2.AsSafeValue(h.Sanitize(markup.Interface()))
	}
	out[template.HelperLayout] = func(name *pongo2.Value) *pongo2.Value {
		return pongo2.AsValue(h.SetLayout(name.String()))
	}
	out[template.HelperSet] = func(name, value *pongo2.Value) *pongo2.Value {
		return pongo2.AsValue(h.Set(name.String(), value.Interface()))
	}
}

func safe(markup string, err error) (*pongo2.Value, error) {
	if err != nil {
		return nil, err
	}
	return pongo2.AsSafeValue(markup), nil
}

func fanOut(rendered string, out []io.Writer) (string, error) {
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

func isCallable(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.IsValid() && rv.Kind() == reflect.Func
}
