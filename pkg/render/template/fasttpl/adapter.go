package fasttpl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/goliatone/go-viewkit/pkg/escape"
	"github.com/goliatone/go-viewkit/pkg/render/template"
)

// Tag prefixes that route a placeholder to a helper instead of a variable.
const (
	prefixPartial = "partial:"
	prefixEscape  = "e:"
	prefixMeta    = "meta:"
	prefixLayout  = "layout:"
)

// Option configures the Engine.
type Option func(*Engine)

// WithTags overrides the placeholder delimiters. Empty values keep the
// double-brace defaults.
func WithTags(start, end string) Option {
	return func(e *Engine) {
		if start != "" {
			e.startTag = start
		}
		if end != "" {
			e.endTag = end
		}
	}
}

// WithFS loads templates from fsys instead of the local filesystem.
func WithFS(fsys fs.FS) Option {
	return func(e *Engine) {
		e.fsys = fsys
	}
}

// Engine executes plain-text templates with fasttemplate. Placeholders are:
//
//	{{name}}          variable value, written as-is
//	{{e:name}}        variable value, HTML escaped
//	{{meta:name}}     meta tags generated from a variable
//	{{partial:file}}  rendered partial
//	{{content}}       wrapped child output in layouts
//	{{layout:file}}   wraps this template in a layout, writes nothing
//
// Undefined variables render as empty text, matching the markup executor.
// Placeholders with an unknown prefix, or a helper prefix when no helpers are
// bound, are written back unchanged.
type Engine struct {
	startTag string
	endTag   string
	fsys     fs.FS
}

var _ template.Executor = (*Engine)(nil)

// New returns an Engine with "{{" / "}}" delimiters.
func New(options ...Option) *Engine {
	e := &Engine{startTag: "{{", endTag: "}}"}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Execute reads the template at path and substitutes placeholders from scope.
func (e *Engine) Execute(ctx context.Context, path string, scope template.Scope, out io.Writer) error {
	const errCtx = "fasttpl: execute"

	if err := ctx.Err(); err != nil {
		return err
	}

	content, err := e.readTemplate(path)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	tpl, err := fasttemplate.NewTemplate(string(content), e.startTag, e.endTag)
	if err != nil {
		return fmt.Errorf("%s: parse %s: %w", errCtx, path, err)
	}

	var buf bytes.Buffer
	if _, err := tpl.ExecuteFunc(&buf, e.tagFunc(scope)); err != nil {
		return fmt.Errorf("%s: %s: %w", errCtx, path, err)
	}

	_, err = out.Write(buf.Bytes())
	return err
}

func (e *Engine) tagFunc(scope template.Scope) fasttemplate.TagFunc {
	return func(w io.Writer, rawTag string) (int, error) {
		tag := strings.TrimSpace(rawTag)
		h := scope.Helpers

		switch {
		case tag == template.HelperContent && h != nil:
			return io.WriteString(w, h.Content())

		case strings.HasPrefix(tag, prefixPartial) && h != nil:
			rendered, err := h.Partial(strings.TrimSpace(strings.TrimPrefix(tag, prefixPartial)))
			if err != nil {
				return 0, err
			}
			return io.WriteString(w, rendered)

		case strings.HasPrefix(tag, prefixLayout) && h != nil:
			return io.WriteString(w, h.SetLayout(strings.TrimSpace(strings.TrimPrefix(tag, prefixLayout))))

		case strings.HasPrefix(tag, prefixEscape):
			value, ok := scope.Vars[strings.TrimSpace(strings.TrimPrefix(tag, prefixEscape))]
			if !ok {
				return 0, nil
			}
			if h != nil {
				return io.WriteString(w, h.Escape(value, escape.QuotesBoth))
			}
			return io.WriteString(w, escape.New("").Escape(value, escape.QuotesBoth))

		case strings.HasPrefix(tag, prefixMeta) && h != nil:
			value, ok := scope.Vars[strings.TrimSpace(strings.TrimPrefix(tag, prefixMeta))]
			if !ok {
				return 0, nil
			}
			rendered, err := h.Meta(value)
			if err != nil {
				return 0, err
			}
			return io.WriteString(w, rendered)

		case !strings.Contains(tag, ":"):
			return io.WriteString(w, escape.String(scope.Vars[tag]))
		}

		return io.WriteString(w, e.startTag+rawTag+e.endTag)
	}
}

func (e *Engine) readTemplate(path string) ([]byte, error) {
	if e.fsys != nil {
		name := strings.TrimPrefix(filepath.ToSlash(filepath.Clean(path)), "/")
		data, err := fs.ReadFile(e.fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return data, nil
	}

	if path == "" {
		return nil, errors.New("template path is empty")
	}
	data, err := os.ReadFile(path) //nolint:gosec // paths come from view configuration
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
