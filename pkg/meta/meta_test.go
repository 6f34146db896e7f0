package meta_test

import (
	"errors"
	"maps"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-viewkit/pkg/escape"
	"github.com/goliatone/go-viewkit/pkg/meta"
	"github.com/goliatone/go-viewkit/pkg/testsupport"
	"github.com/goliatone/go-viewkit/pkg/vars"
)

func TestMeta_Charset(t *testing.T) {
	got, err := meta.Meta(map[string]any{"charset": "utf8"}, false, true)
	if err != nil {
		t.Fatalf("meta: %v", err)
	}
	if want := `<meta charset="utf8">`; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestMeta_NamedContent(t *testing.T) {
	got, err := meta.Meta(map[string]any{
		"name": map[string]any{"keyword": "a,b"},
	}, false, true)
	if err != nil {
		t.Fatalf("meta: %v", err)
	}
	if want := `<meta name="keyword" content="a,b">`; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestMeta_XHTML(t *testing.T) {
	got, err := meta.Meta(map[string]any{"charset": "utf8"}, true, true)
	if err != nil {
		t.Fatalf("meta: %v", err)
	}
	if want := `<meta charset="utf8" />`; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestMeta_OutputIgnoresInputOrder(t *testing.T) {
	forward := []vars.Pair{
		{Key: "name", Value: map[string]any{"keyword": "a,b"}},
		{Key: "charset", Value: "utf8"},
	}
	reverse := []vars.Pair{forward[1], forward[0]}

	a, err := meta.Meta(forward, false, true)
	if err != nil {
		t.Fatalf("meta forward: %v", err)
	}
	b, err := meta.Meta(reverse, false, true)
	if err != nil {
		t.Fatalf("meta reverse: %v", err)
	}
	if a != b {
		t.Fatalf("expected identical output\nforward: %q\nreverse: %q", a, b)
	}
	if want := "<meta charset=\"utf8\">\n<meta name=\"keyword\" content=\"a,b\">"; a != want {
		t.Fatalf("want %q, got %q", want, a)
	}
}

func TestMeta_AcceptsTypedPairIterators(t *testing.T) {
	got, err := meta.Meta(maps.All(map[string]string{"charset": "utf8"}), false, true)
	if err != nil {
		t.Fatalf("meta: %v", err)
	}
	if want := `<meta charset="utf8">`; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestMeta_Golden(t *testing.T) {
	config, err := meta.LoadFile(filepath.Join("testdata", "page.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	got, err := meta.Builder{Escape: true, Escaper: escape.New("UTF-8")}.Build(config)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	goldenPath := filepath.Join("testdata", "page.golden")
	if testsupport.WriteMaybeGolden(t, goldenPath, []byte(got)) {
		return
	}
	want := testsupport.MustReadGoldenString(t, goldenPath)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("meta output mismatch (-want +got):\n%s", diff)
	}
}

func TestMeta_WithoutEscaping(t *testing.T) {
	got, err := meta.Meta(map[string]any{
		"property": map[string]any{"og:title": `A & "B"`},
	}, false, false)
	if err != nil {
		t.Fatalf("meta: %v", err)
	}
	if want := `<meta property="og:title" content="A & "B"">`; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestExpand_Sequences(t *testing.T) {
	tags, err := meta.Expand(map[string]any{
		"name": map[string]any{"robots": []string{"index", "follow"}},
	})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}

	want := []meta.Tag{
		{Name: "meta", Attrs: []meta.Attr{{Name: "name", Value: "robots"}, {Name: "content", Value: "index"}}},
		{Name: "meta", Attrs: []meta.Attr{{Name: "name", Value: "robots"}, {Name: "content", Value: "follow"}}},
	}
	if diff := cmp.Diff(want, tags); diff != "" {
		t.Fatalf("expand mismatch (-want +got):\n%s", diff)
	}
}

func TestExpand_RejectsNonMapping(t *testing.T) {
	for _, input := range []any{nil, 1, "charset", []string{"a"}} {
		if _, err := meta.Expand(input); !errors.Is(err, meta.ErrInvalidInput) {
			t.Fatalf("expand(%#v): expected ErrInvalidInput, got %v", input, err)
		}
	}
}

func TestMeta_EmptyConfig(t *testing.T) {
	got, err := meta.Meta(map[string]any{}, false, true)
	if err != nil {
		t.Fatalf("meta: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestParse_JSON(t *testing.T) {
	config, err := meta.Parse([]byte(`{"charset": "utf-8"}`), "inline.json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"charset": "utf-8"}, config); diff != "" {
		t.Fatalf("parse mismatch (-want +got):\n%s", diff)
	}
}
