// Package view holds the HTML templates of the admin area and the public site.
package view

import (
	"embed"
	"html/template"
	"io/fs"
	"os"
	"time"

	"github.com/pagecraft/internal/markdown"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// ExcerptLength is the number of characters shown per post on the index.
const ExcerptLength = 300

// FuncMap returns the helpers available to every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		// Stored HTML fragments are rendered by the server from admin input.
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s) //nolint:gosec
		},
		"safeCSS": func(s string) template.CSS {
			return template.CSS(s) //nolint:gosec
		},
		"safeJS": func(s string) template.JS {
			return template.JS(s) //nolint:gosec
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.In(time.Local).Format("2006-01-02")
		},
		"excerpt": func(renderedHTML string) string {
			return markdown.Excerpt(renderedHTML, ExcerptLength)
		},
	}
}

// Templates parses the template set. An empty dir uses the templates compiled
// into the binary; otherwise they are read from dir, which lets dev mode pick
// up edits on restart without rebuilding.
func Templates(dir string) (*template.Template, error) {
	var source fs.FS
	if dir == "" {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return nil, err
		}
		source = sub
	} else {
		source = os.DirFS(dir)
	}

	return template.New("").Funcs(FuncMap()).ParseFS(source, "*.html")
}
