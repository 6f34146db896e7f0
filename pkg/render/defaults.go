package render

import (
	"fmt"
	"io/fs"

	"github.com/goliatone/go-viewkit/pkg/render/template"
	"github.com/goliatone/go-viewkit/pkg/render/template/fasttpl"
	"github.com/goliatone/go-viewkit/pkg/render/template/gotemplate"
)

var (
	markupExtensions = []string{".tpl", ".html", ".phtml", ".pongo"}
	textExtensions   = []string{".txt", ".ftpl"}
)

// NewDefaultRegistry wires the built-in executors: pongo2 for markup
// templates and as the fallback, fasttemplate for plain-text templates.
func NewDefaultRegistry(options ...gotemplate.Option) (*Registry, error) {
	markup, err := gotemplate.New(options...)
	if err != nil {
		return nil, fmt.Errorf("render: configure markup executor: %w", err)
	}
	return newRegistry(markup, fasttpl.New())
}

func newRegistry(markup, text template.Executor) (*Registry, error) {
	registry := NewRegistry()
	for _, ext := range markupExtensions {
		if err := registry.Register(ext, markup); err != nil {
			return nil, err
		}
	}
	for _, ext := range textExtensions {
		if err := registry.Register(ext, text); err != nil {
			return nil, err
		}
	}
	registry.SetFallback(markup)
	return registry, nil
}

// NewFSRegistry wires the built-in executors to load every template from
// fsys.
func NewFSRegistry(fsys fs.FS) (*Registry, error) {
	markup, err := gotemplate.New(gotemplate.WithFS(fsys))
	if err != nil {
		return nil, fmt.Errorf("render: configure markup executor: %w", err)
	}
	return newRegistry(markup, fasttpl.New(fasttpl.WithFS(fsys)))
}
