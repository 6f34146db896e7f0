package markup_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-viewkit/pkg/markup"
)

func TestMarkdown(t *testing.T) {
	got, err := markup.Markdown("# Title\n\nSome *emphasis* and ~~strike~~.")
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}
	for _, want := range []string{"<h1>Title</h1>", "<em>emphasis</em>", "<del>strike</del>"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output, got %q", want, got)
		}
	}
}

func TestMarkdown_OmitsRawHTML(t *testing.T) {
	got, err := markup.Markdown("hello <script>alert(1)</script>")
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}
	if strings.Contains(got, "<script>") {
		t.Fatalf("raw html must be omitted, got %q", got)
	}
}

func TestMarkdown_Empty(t *testing.T) {
	got, err := markup.Markdown("")
	if err != nil || got != "" {
		t.Fatalf("expected empty output, got %q (%v)", got, err)
	}
}

func TestHighlight(t *testing.T) {
	got, err := markup.Highlight("package main\n\nfunc main() {}\n", "go")
	if err != nil {
		t.Fatalf("highlight: %v", err)
	}
	if !strings.HasPrefix(got, "<pre") {
		t.Fatalf("expected <pre> block, got %q", got)
	}
	if !strings.Contains(got, "package") || !strings.Contains(got, "style=") {
		t.Fatalf("expected inline-styled tokens, got %q", got)
	}
}

func TestHighlight_UnknownLanguage(t *testing.T) {
	got, err := markup.Highlight("a < b", "no-such-language")
	if err != nil {
		t.Fatalf("highlight: %v", err)
	}
	if !strings.Contains(got, "&lt;") {
		t.Fatalf("expected escaped source, got %q", got)
	}
}
