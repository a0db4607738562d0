// Package render wraps blackfriday as the pure Markdown → HTML collaborator
// the store calls on every content write.
package render

import "github.com/russross/blackfriday/v2"

// Render converts Markdown source to HTML. It is a pure function with no
// external state; callers own caching the result (Document.ContentHTML).
func Render(markdown string) string {
	return string(blackfriday.Run([]byte(markdown)))
}
