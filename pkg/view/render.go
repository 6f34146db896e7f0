package view

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-viewkit/pkg/render"
	"github.com/goliatone/go-viewkit/pkg/render/template"
)

var (
	defaultExecutorOnce sync.Once
	defaultExecutor     template.Executor
	defaultExecutorErr  error
)

// DefaultExecutor returns the process-wide registry used by views that were
// not given an executor.
func DefaultExecutor() (template.Executor, error) {
	defaultExecutorOnce.Do(func() {
		registry, err := render.NewDefaultRegistry()
		if err != nil {
			defaultExecutorErr = err
			return
		}
		defaultExecutor = registry
	})
	return defaultExecutor, defaultExecutorErr
}

// Render executes the template and returns its output. When a layout is set
// (before the call or by the template itself) the output is rendered inside
// the layout, repeating for as long as layouts declare layouts of their own.
// Nothing is returned on failure.
func (v *View) Render(ctx context.Context) (string, error) {
	if ctx == nil {
		return "", errors.New("view: context is required")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if v.depth > v.maxDepth {
		return "", fmt.Errorf("%w: %q at depth %d (max %d)", ErrResourceExhausted, v.file, v.depth, v.maxDepth)
	}

	executor, err := v.resolveExecutor()
	if err != nil {
		return "", err
	}

	v.logger.Debug("view: render", "template", v.Path(), "depth", v.depth)

	h := &helpers{ctx: ctx, view: v}
	scope := template.Scope{
		Vars:    v.store.ToMap(),
		Keys:    v.store.Keys(),
		Helpers: h,
	}

	var buf bytes.Buffer
	err = executor.Execute(ctx, v.Path(), scope, &buf)
	if h.err != nil {
		return "", h.err
	}
	if err != nil {
		return "", fmt.Errorf("view: render %q: %w", v.Path(), err)
	}

	if v.layout == "" {
		return buf.String(), nil
	}

	v.logger.Debug("view: wrap in layout", "template", v.Path(), "layout", v.layout, "depth", v.depth)

	layout := v.child(v.layout)
	layout.content = buf.String()
	return layout.Render(ctx)
}

// Partial renders file inline with the view's variables and returns its
// output. The partial shares the store, so variables it sets remain visible
// afterwards.
func (v *View) Partial(ctx context.Context, file string) (string, error) {
	v.logger.Debug("view: partial", "template", v.Path(), "partial", file, "depth", v.depth)
	return v.child(file).Render(ctx)
}

func (v *View) resolveExecutor() (template.Executor, error) {
	if v.executor != nil {
		return v.executor, nil
	}
	executor, err := DefaultExecutor()
	if err != nil {
		return nil, fmt.Errorf("view: default executor: %w", err)
	}
	v.executor = executor
	return executor, nil
}
