// Package escape converts arbitrary template values into HTML-safe text and
// sanitizes user-authored markup.
//
// Escapers cache the charset of the last call that named one. The package
// level Escape helper shares a single process-wide cache, so its behaviour
// depends on call order; views hold their own Escaper per render tree.
package escape
