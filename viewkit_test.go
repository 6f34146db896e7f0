package viewkit

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-viewkit/pkg/testsupport"
)

func TestEmbeddedLayoutsContainHTML5(t *testing.T) {
	data, err := fs.ReadFile(EmbeddedLayouts(), LayoutHTML5)
	if err != nil {
		t.Fatalf("expected html5 layout to be readable: %v", err)
	}
	if !strings.Contains(string(data), "content()") {
		t.Fatalf("expected layout to render wrapped content")
	}
}

func TestNewFS_WrapsPageInEmbeddedLayout(t *testing.T) {
	layout, err := fs.ReadFile(EmbeddedLayouts(), LayoutHTML5)
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	fsys := fstest.MapFS{
		LayoutHTML5: {Data: layout},
		"page.tpl":  {Data: []byte("<p>{{ title }}</p>")},
	}

	page, err := NewFS(fsys, "page.tpl")
	if err != nil {
		t.Fatalf("new fs view: %v", err)
	}
	page.Set("title", "Home & Away")
	page.Set("metatags", map[string]any{"charset": "utf-8"})
	page.SetLayout(LayoutHTML5)

	got, err := page.Render(testsupport.Context())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		`<html lang="en">`,
		`<meta charset="utf-8">`,
		"<title>Home &amp; Away</title>",
		"<body>\n<p>Home &amp; Away</p>\n</body>",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output:\n%s", want, got)
		}
	}
}

func TestEscapeAndMeta(t *testing.T) {
	if got := Escape(`<a href="x">`, QuotesDouble, "UTF-8"); got != "&lt;a href=&quot;x&quot;&gt;" {
		t.Fatalf("unexpected escape output %q", got)
	}
	got, err := Meta(map[string]any{"charset": "utf8"}, true, true)
	if err != nil {
		t.Fatalf("meta: %v", err)
	}
	if got != `<meta charset="utf8" />` {
		t.Fatalf("unexpected meta output %q", got)
	}
}

func TestDefaultExecutor(t *testing.T) {
	exec, err := DefaultExecutor()
	if err != nil || exec == nil {
		t.Fatalf("expected default executor, got %v (%v)", exec, err)
	}
}
