// Package views holds the page templates of the admin area and the public
// components.
package views

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates
var templates embed.FS

// FS returns the template tree rooted at templates/.
func FS() http.FileSystem {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// NewEngine creates the html engine used by the fiber app.
func NewEngine() *html.Engine {
	engine := html.NewFileSystem(FS(), ".html")
	engine.AddFunc("pages", func(total int) []int {
		pages := make([]int, total)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages
	})
	return engine
}
