package escape

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
)

// Mode selects which quote characters are escaped. Ampersands and angle
// brackets are always escaped.
type Mode int

const (
	// QuotesDouble escapes double quotes only.
	QuotesDouble Mode = iota
	// QuotesBoth escapes double and single quotes.
	QuotesBoth
	// QuotesNone leaves both quote styles untouched.
	QuotesNone
)

// ParseMode maps a mode name used in templates ("both", "double", "none")
// to a Mode. Names are case-insensitive; an empty name selects QuotesBoth.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "both", "quotes":
		return QuotesBoth, nil
	case "double", "compat":
		return QuotesDouble, nil
	case "none", "noquotes":
		return QuotesNone, nil
	}
	return QuotesBoth, fmt.Errorf("escape: unknown mode %q", name)
}

// DefaultCharset is used when neither the caller nor the environment names a
// usable charset.
const DefaultCharset = "UTF-8"

var replacers = map[Mode]*strings.Replacer{
	QuotesDouble: strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;"),
	QuotesBoth:   strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&#039;"),
	QuotesNone:   strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;"),
}

// Escaper converts text to HTML-safe text. It caches the charset used by
// calls that do not name one: the first such call seeds the cache from the
// environment and any call that names a charset replaces it.
//
// Views create one Escaper per render tree so the cache does not leak across
// unrelated renders. Default is shared by the package-level Escape helper.
type Escaper struct {
	mu      sync.Mutex
	charset string
	lookup  func(string) string
}

// Default backs the package-level Escape function. Its cached charset is
// process-wide: a call that names a charset changes the behaviour of every
// later call that omits it.
var Default = &Escaper{}

// New returns an Escaper whose cache is pre-seeded with charset. An empty
// charset defers seeding to the first call.
func New(charset string) *Escaper {
	e := &Escaper{}
	if strings.TrimSpace(charset) != "" {
		e.charset = resolveCharset(charset)
	}
	return e
}

// Escape escapes value with the Default escaper.
func Escape(value any, mode Mode, charset ...string) string {
	return Default.Escape(value, mode, charset...)
}

// Escape returns value coerced to a string and HTML-entity escaped according
// to mode. Passing a charset updates the cached default.
func (e *Escaper) Escape(value any, mode Mode, charset ...string) string {
	cs := e.resolve(charset...)
	text := String(value)
	if cs == DefaultCharset && !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "\uFFFD")
	}
	replacer, ok := replacers[mode]
	if !ok {
		replacer = replacers[QuotesDouble]
	}
	return replacer.Replace(text)
}

// Charset returns the cached charset, seeding it when empty.
func (e *Escaper) Charset() string {
	return e.resolve()
}

func (e *Escaper) resolve(charset ...string) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(charset) > 0 && strings.TrimSpace(charset[0]) != "" {
		e.charset = resolveCharset(charset[0])
		return e.charset
	}
	if e.charset == "" {
		lookup := e.lookup
		if lookup == nil {
			lookup = os.Getenv
		}
		e.charset = resolveCharset(systemCharset(lookup))
	}
	return e.charset
}

// String coerces template values to text: nil is empty, byte slices and
// Stringers keep their natural form and everything else uses fmt.Sprint.
func String(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// systemCharset extracts the codeset from the locale environment, e.g.
// "en_US.ISO-8859-1@euro" yields "ISO-8859-1".
func systemCharset(getenv func(string) string) string {
	for _, name := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		locale := strings.TrimSpace(getenv(name))
		if locale == "" {
			continue
		}
		dot := strings.IndexByte(locale, '.')
		if dot < 0 {
			return ""
		}
		codeset := locale[dot+1:]
		if at := strings.IndexByte(codeset, '@'); at >= 0 {
			codeset = codeset[:at]
		}
		return codeset
	}
	return ""
}

// resolveCharset canonicalises a charset name. Unknown names and encodings
// that are not ASCII compatible fall back to UTF-8.
func resolveCharset(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return DefaultCharset
	}
	enc, err := htmlindex.Get(trimmed)
	if err != nil {
		return DefaultCharset
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		return DefaultCharset
	}
	switch canonical {
	case "utf-8", "utf-16be", "utf-16le", "replacement":
		return DefaultCharset
	}
	return strings.ToUpper(canonical)
}
