package view

import (
	"context"

	"github.com/goliatone/go-viewkit/pkg/escape"
	"github.com/goliatone/go-viewkit/pkg/markup"
	"github.com/goliatone/go-viewkit/pkg/meta"
	"github.com/goliatone/go-viewkit/pkg/render/template"
)

// helpers binds the template callbacks to one execution of a view. The first
// failure is kept so Render can return it unchanged; executors are free to
// flatten the errors they receive from callbacks.
type helpers struct {
	ctx  context.Context
	view *View
	err  error
}

var _ template.Helpers = (*helpers)(nil)

func (h *helpers) record(err error) error {
	if err != nil && h.err == nil {
		h.err = err
	}
	return err
}

func (h *helpers) Escape(value any, mode escape.Mode, charset ...string) string {
	return h.view.escaper.Escape(value, mode, charset...)
}

func (h *helpers) Meta(config any) (string, error) {
	builder := meta.Builder{XHTML: h.view.xhtml, Escape: true, Escaper: h.view.escaper}
	out, err := builder.Build(config)
	return out, h.record(err)
}

func (h *helpers) Partial(name string) (string, error) {
	out, err := h.view.Partial(h.ctx, name)
	return out, h.record(err)
}

func (h *helpers) Content() string {
	return h.view.content
}

func (h *helpers) Markdown(source any) (string, error) {
	out, err := markup.Markdown(escape.String(source))
	return out, h.record(err)
}

func (h *helpers) Highlight(code any, language string) (string, error) {
	out, err := markup.Highlight(escape.String(code), language)
	return out, h.record(err)
}

func (h *helpers) Sanitize(value any) string {
	return escape.Sanitize(escape.String(value))
}

func (h *helpers) SetLayout(name string) string {
	h.view.SetLayout(name)
	return ""
}

func (h *helpers) Set(name string, value any) string {
	h.view.Set(name, value)
	return ""
}
