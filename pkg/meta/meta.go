package meta

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-viewkit/pkg/escape"
	"github.com/goliatone/go-viewkit/pkg/vars"
)

// ErrInvalidInput is returned when the configuration is not a mapping.
var ErrInvalidInput = vars.ErrInvalidInput

// Separator joins serialized tags.
const Separator = "\n"

// Attr is a single attribute of a generated tag.
type Attr struct {
	Name  string
	Value string
}

// Tag describes one element produced by Expand.
type Tag struct {
	Name  string
	Attrs []Attr
}

// Builder serializes meta configurations into markup.
type Builder struct {
	// XHTML emits self-closing tags.
	XHTML bool
	// Escape runs attribute values through Escaper.
	Escape bool
	// Escaper defaults to escape.Default.
	Escaper *escape.Escaper
}

// Meta renders config with a Builder configured from the flags.
func Meta(config any, xhtml, escapeValues bool) (string, error) {
	return Builder{XHTML: xhtml, Escape: escapeValues}.Build(config)
}

// Build expands config, serializes every tag and returns them sorted and
// joined with Separator. Output depends only on the set of generated tags,
// never on input order.
func (b Builder) Build(config any) (string, error) {
	tags, err := Expand(config)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(tags))
	for _, tag := range tags {
		lines = append(lines, b.serialize(tag))
	}
	sort.Strings(lines)
	return strings.Join(lines, Separator), nil
}

// Expand flattens config into tag descriptions. config maps an attribute type
// ("name", "property", "http-equiv", "charset", ...) to either a scalar,
// which becomes the attribute value, or to a mapping of label to scalar or
// sequence, where each value yields a tag with a content attribute.
func Expand(config any) ([]Tag, error) {
	entries, ok := vars.PairsOf(config)
	if !ok {
		return nil, fmt.Errorf("meta: %w (got %T)", ErrInvalidInput, config)
	}

	var tags []Tag
	for _, entry := range entries {
		attrType := entry.Key
		defs, isMapping := definitions(entry.Value)
		if !isMapping {
			tags = append(tags, newTag(Attr{Name: attrType, Value: escape.String(entry.Value)}))
			continue
		}

		for _, def := range defs {
			label := Attr{Name: attrType, Value: def.Key}
			if !vars.IsSequence(def.Value) {
				tags = append(tags, newTag(label, Attr{Name: "content", Value: escape.String(def.Value)}))
				continue
			}
			for _, item := range vars.ToSlice(def.Value) {
				tags = append(tags, newTag(label, Attr{Name: "content", Value: escape.String(item)}))
			}
		}
	}
	return tags, nil
}

// definitions reads the nested label mapping. A sequence is treated as a
// mapping keyed by index.
func definitions(value any) ([]vars.Pair, bool) {
	if pairs, ok := vars.PairsOf(value); ok {
		return pairs, true
	}
	if !vars.IsSequence(value) {
		return nil, false
	}
	items := vars.ToSlice(value)
	out := make([]vars.Pair, 0, len(items))
	for i, item := range items {
		out = append(out, vars.Pair{Key: strconv.Itoa(i), Value: item})
	}
	return out, true
}

func newTag(attrs ...Attr) Tag {
	return Tag{Name: "meta", Attrs: attrs}
}

func (b Builder) serialize(tag Tag) string {
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(tag.Name)
	for _, attr := range tag.Attrs {
		sb.WriteByte(' ')
		sb.WriteString(attr.Name)
		sb.WriteString(`="`)
		sb.WriteString(b.value(attr.Value))
		sb.WriteByte('"')
	}
	if b.XHTML {
		sb.WriteString(" />")
	} else {
		sb.WriteByte('>')
	}
	return sb.String()
}

func (b Builder) value(raw string) string {
	if !b.Escape {
		return raw
	}
	escaper := b.Escaper
	if escaper == nil {
		escaper = escape.Default
	}
	return escaper.Escape(raw, escape.QuotesBoth)
}
