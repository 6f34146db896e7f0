// Package template defines the execution contract between views and template
// engines. A view prepares a Scope and hands it, together with the resolved
// template path, to an Executor; adapters in the subpackages bind the scope
// into pongo2 or fasttemplate.
package template
