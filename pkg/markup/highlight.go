package markup

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is the chroma style used by Highlight.
const DefaultStyle = "github"

// Highlight renders code as an inline-styled HTML <pre> block. Unknown
// languages are analysed from the source and fall back to plain text.
func Highlight(code, language string) (string, error) {
	lexer := lexers.Get(strings.TrimSpace(language))
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(DefaultStyle)
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("markup: tokenise %s: %w", language, err)
	}

	var sb strings.Builder
	formatter := html.New(html.WithClasses(false), html.TabWidth(4))
	if err := formatter.Format(&sb, style, iterator); err != nil {
		return "", fmt.Errorf("markup: format %s: %w", language, err)
	}
	return sb.String(), nil
}
