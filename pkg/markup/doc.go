// Package markup turns Markdown and source code into HTML fragments for use
// inside templates.
package markup
