// Package view renders template files against a shared variable store.
//
// A View names one template file. Rendering executes the file with the
// store's variables and the view helpers in scope; if the template (or the
// caller) configured a layout, the output is handed to a new View for the
// layout file, which reads it through the "content" helper. Layouts may set
// their own layout, so wrapping repeats until a view without one is reached.
// Partials render a sibling file inline and share the same store, so values
// set by one are visible to every later template in the tree.
//
//	page := view.New("page.tpl", view.WithBasePath("templates"))
//	page.Set("title", "Hello")
//	page.SetLayout("layout.tpl")
//	html, err := page.Render(ctx)
package view
