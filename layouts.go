package viewkit

import (
	"embed"
	"io/fs"
)

// LayoutHTML5 is the embedded HTML5 document layout. It reads "title",
// "lang" (default "en") and an optional "metatags" meta configuration.
const LayoutHTML5 = "html5.tpl"

//go:embed layouts/*.tpl
var embeddedLayouts embed.FS

// EmbeddedLayouts exposes the built-in layouts so callers can mount them
// next to their own templates, e.g. in an fstest.MapFS or an overlay FS
// passed to NewFS.
func EmbeddedLayouts() fs.FS {
	sub, err := fs.Sub(embeddedLayouts, "layouts")
	if err != nil {
		return embeddedLayouts
	}
	return sub
}
