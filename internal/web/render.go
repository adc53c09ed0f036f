// Package web renders the embedded dashboard templates for the stats server.
package web

import (
	"embed"
	"html/template"
	"io"
	"sync"
	"time"
)

//go:embed templates/*.html
var tmplFS embed.FS

var tmpl = sync.OnceValue(func() *template.Template {
	return template.Must(template.ParseFS(tmplFS, "templates/*.html"))
})

// Render writes the named template to w, stamping data with the render time.
func Render(w io.Writer, name string, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	data["Now"] = time.Now().Format(time.RFC822)
	return tmpl().ExecuteTemplate(w, name, data)
}
