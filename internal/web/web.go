// Package web holds the site's HTML templates and static assets, embedded in
// the binary.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/BruksfildServices01/barbershop-site/internal/timezone"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

var funcs = template.FuncMap{
	"displayDate": timezone.Display,
	"stars": func(n int) string {
		if n < 0 {
			n = 0
		}
		if n > 5 {
			n = 5
		}
		return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
	},
	"initial": func(name string) string {
		name = strings.TrimSpace(name)
		if name == "" {
			return "?"
		}
		return strings.ToUpper(string([]rune(name)[0]))
	},
}

// Templates parses every page. Pages are addressed by file name, e.g.
// "booking.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}

func MustTemplates() *template.Template {
	return template.Must(Templates())
}

// Static serves css and js under the mount point chosen by the router.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
