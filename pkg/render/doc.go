// Package render selects the template executor for a view by file
// extension.
package render
