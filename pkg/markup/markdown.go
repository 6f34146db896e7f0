package markup

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// The goldmark instance is immutable after construction and safe to share;
// Convert allocates per-call parser state.
var (
	markdownOnce     sync.Once
	markdownInstance goldmark.Markdown
)

func markdownConverter() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.DefinitionList,
			),
		)
	})
	return markdownInstance
}

// Markdown converts CommonMark (with GitHub extensions) to HTML. Raw HTML in
// the source is omitted.
func Markdown(source string) (string, error) {
	if source == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdownConverter().Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("markup: convert markdown: %w", err)
	}
	return buf.String(), nil
}
