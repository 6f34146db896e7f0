// Package meta expands nested meta-tag configurations into a flat, sorted
// list of <meta> elements.
//
//	meta.Meta(map[string]any{
//		"charset": "utf-8",
//		"name":    map[string]any{"keywords": "go,templates"},
//	}, false, true)
//
// yields
//
//	<meta charset="utf-8">
//	<meta name="keywords" content="go,templates">
package meta
