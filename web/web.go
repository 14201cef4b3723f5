// Package web holds the embedded HTML templates and exposes the Fiber
// views engine built from them.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed views/*.html
var views embed.FS

// Engine returns the views engine backed by the embedded templates.
// Embedding keeps the binary self-contained and makes handler tests
// independent of the working directory.
func Engine() *html.Engine {
	sub, err := fs.Sub(views, "views")
	if err != nil {
		// The embed directive guarantees views/ exists.
		panic(err)
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}
