package template_test

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-viewkit/pkg/escape"
	"github.com/goliatone/go-viewkit/pkg/render/template"
	"github.com/goliatone/go-viewkit/pkg/render/template/gotemplate"
	"github.com/goliatone/go-viewkit/pkg/testsupport"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate(testsupport.Context(), "hello", scopeOf(map[string]any{"name": "Ada"}), w)
	})

	assertGolden(t, "hello.golden", result, written)
}

func TestGoTemplateEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate(testsupport.Context(), "use-global", template.Scope{}, w)
	})

	assertGolden(t, "use-global.golden", result, written)
}

func TestGoTemplateEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		if input == nil {
			return "", nil
		}
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate(testsupport.Context(), "use-filter", scopeOf(map[string]any{"name": "Ada"}), w)
	})

	assertGolden(t, "use-filter.golden", result, written)
}

func TestGoTemplateEngine_BindsHelpers(t *testing.T) {
	engine := newEngine(t)
	scope := template.Scope{
		Vars:    map[string]any{"raw": "<x>"},
		Helpers: stubHelpers{content: "<main>child</main>"},
	}

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate(testsupport.Context(), "helpers.tpl", scope, w)
	})

	assertGolden(t, "helpers.golden", result, written)
}

func TestGoTemplateEngine_HelperErrorAbortsRender(t *testing.T) {
	engine := newEngine(t)
	scope := template.Scope{Helpers: stubHelpers{partialErr: errors.New("no such partial")}}

	var buf strings.Builder
	err := engine.Execute(testsupport.Context(), "broken-partial.tpl", scope, &buf)
	if err == nil {
		t.Fatalf("expected error from failing partial")
	}
	if !strings.Contains(err.Error(), "no such partial") {
		t.Fatalf("expected partial error in message, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("failed execution must not write output, got %q", buf.String())
	}
}

func TestGoTemplateEngine_MissingTemplate(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.RenderTemplate(testsupport.Context(), "nope.tpl", template.Scope{}); err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func TestGoTemplateEngine_RenderString(t *testing.T) {
	engine := newEngine(t)
	got, err := engine.RenderString(testsupport.Context(), "{% for n in data %}{{ n }}{% endfor %}", scopeOf(map[string]any{
		"data":    []int{1, 2, 3},
		"bad-key": "skipped",
	}))
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "123" {
		t.Fatalf("want %q, got %q", "123", got)
	}
}

func TestGoTemplateEngine_LocalFilesystem(t *testing.T) {
	engine, err := gotemplate.New(gotemplate.WithBaseDir(filepath.Join("testdata", "templates")))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	got, err := engine.RenderTemplate(testsupport.Context(), "hello.tpl", scopeOf(map[string]any{"name": "disk"}))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Hello disk!" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestGoTemplateEngine_CancelledContext(t *testing.T) {
	engine := newEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := engine.RenderTemplate(ctx, "hello.tpl", template.Scope{}); err == nil {
		t.Fatalf("expected cancellation error")
	}
}

func TestGoTemplateEngine_EscapeModes(t *testing.T) {
	engine := newEngine(t)
	scope := template.Scope{
		Vars:    map[string]any{"raw": `<"'>`},
		Helpers: stubHelpers{},
	}

	got, err := engine.RenderTemplate(testsupport.Context(), "escape-modes.tpl", scope)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `[&lt;&quot;&#039;&gt;]|[&lt;&quot;'&gt;]|[&lt;"'&gt;]`
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}

	if _, err := engine.RenderTemplate(testsupport.Context(), "escape-bad-mode.tpl", scope); err == nil {
		t.Fatalf("expected error for unknown escape mode")
	}
}

func TestGoTemplateEngine_PartialWhileGlobalsChange(t *testing.T) {
	engine := newEngine(t)
	scope := template.Scope{Helpers: &reentrantHelpers{engine: engine}}

	type result struct {
		out string
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := engine.RenderTemplate(testsupport.Context(), "nested.tpl", scope)
		done <- result{out: out, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			t.Fatalf("render: %v", res.err)
		}
		if want := "<main>env=late</main>"; res.out != want {
			t.Fatalf("want %q, got %q", want, res.out)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("render blocked while globals were updated from another goroutine")
	}
}

// reentrantHelpers updates the engine globals from another goroutine and
// then renders the partial through the same engine.
type reentrantHelpers struct {
	stubHelpers
	engine *gotemplate.Engine
}

func (h *reentrantHelpers) Partial(name string) (string, error) {
	updated := make(chan error, 1)
	go func() {
		updated <- h.engine.GlobalContext(map[string]any{
			"settings": map[string]any{"env": "late"},
		})
	}()

	select {
	case err := <-updated:
		if err != nil {
			return "", err
		}
	case <-time.After(2 * time.Second):
		return "", errors.New("global context update blocked by running template")
	}

	return h.engine.RenderTemplate(testsupport.Context(), name, template.Scope{})
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := gotemplate.New(gotemplate.WithFS(templatesFS), gotemplate.WithExtension("tpl"))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func scopeOf(values map[string]any) template.Scope {
	return template.Scope{Vars: values}
}

func assertGolden(t *testing.T, name, result, written string) {
	t.Helper()

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", name))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

type stubHelpers struct {
	content    string
	partialErr error
}

func (s stubHelpers) Escape(value any, mode escape.Mode, charset ...string) string {
	return "[" + escape.New("UTF-8").Escape(value, mode, charset...) + "]"
}

func (s stubHelpers) Meta(any) (string, error) { return "", nil }

func (s stubHelpers) Partial(name string) (string, error) {
	if s.partialErr != nil {
		return "", s.partialErr
	}
	return "<nav>" + name + "</nav>", nil
}

func (s stubHelpers) Content() string { return s.content }

func (s stubHelpers) Markdown(any) (string, error) { return "", nil }

func (s stubHelpers) Highlight(any, string) (string, error) { return "", nil }

func (s stubHelpers) Sanitize(markup any) string { return fmt.Sprint(markup) }

func (s stubHelpers) SetLayout(string) string { return "" }

func (s stubHelpers) Set(string, any) string { return "" }
