package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-viewkit/pkg/render/template"
)

// ErrNoExecutor is returned when no executor is registered for a template's
// extension and no fallback is configured.
var ErrNoExecutor = errors.New("render: no executor for template")

// Registry maps template file extensions to executors. It is itself an
// Executor that dispatches on the extension of the resolved path.
type Registry struct {
	mu        sync.RWMutex
	executors map[string]template.Executor
	fallback  template.Executor
}

var _ template.Executor = (*Registry)(nil)

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		executors: make(map[string]template.Executor),
	}
}

// Register binds an executor to an extension (".tpl" or "tpl"). Duplicate
// extensions return an error.
func (r *Registry) Register(ext string, executor template.Executor) error {
	if executor == nil {
		return fmt.Errorf("render: executor is required")
	}
	key := normalizeExt(ext)
	if key == "" {
		return fmt.Errorf("render: extension is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.executors[key]; exists {
		return fmt.Errorf("render: extension %q already registered", key)
	}

	r.executors[key] = executor
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(ext string, executor template.Executor) {
	if err := r.Register(ext, executor); err != nil {
		panic(err)
	}
}

// SetFallback configures the executor used for unregistered extensions.
func (r *Registry) SetFallback(executor template.Executor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = executor
}

// Get retrieves the executor registered for ext.
func (r *Registry) Get(ext string) (template.Executor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := normalizeExt(ext)
	executor, ok := r.executors[key]
	if !ok {
		return nil, fmt.Errorf("render: executor for %q not found", key)
	}
	return executor, nil
}

// List returns the registered extensions, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.executors))
	for ext := range r.executors {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Has reports whether an executor is registered for ext.
func (r *Registry) Has(ext string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.executors[normalizeExt(ext)]
	return ok
}

// Execute dispatches to the executor registered for path's extension, or to
// the fallback.
func (r *Registry) Execute(ctx context.Context, path string, scope template.Scope, out io.Writer) error {
	executor, err := r.resolve(path)
	if err != nil {
		return err
	}
	return executor.Execute(ctx, path, scope, out)
}

func (r *Registry) resolve(path string) (template.Executor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if executor, ok := r.executors[normalizeExt(filepath.Ext(path))]; ok {
		return executor, nil
	}
	if r.fallback != nil {
		return r.fallback, nil
	}
	return nil, fmt.Errorf("%w %q", ErrNoExecutor, path)
}

func normalizeExt(ext string) string {
	trimmed := strings.ToLower(strings.TrimSpace(ext))
	if trimmed == "" {
		return ""
	}
	if !strings.HasPrefix(trimmed, ".") {
		trimmed = "." + trimmed
	}
	return trimmed
}
