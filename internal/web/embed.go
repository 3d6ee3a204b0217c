package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
)

//go:embed templates/*.html
var files embed.FS

// FS provides access to the embedded templates.
var FS fs.FS = files

const (
	HomeTemplate = "home.html"
	ListTemplate = "list.html"
)

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// Templates holds one parsed template set per page, each layered on base.html.
type Templates struct {
	pages map[string]*template.Template
}

func ParseTemplates() (*Templates, error) {
	t := &Templates{pages: make(map[string]*template.Template)}
	for _, page := range []string{HomeTemplate, ListTemplate} {
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(FS, "templates/base.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		t.pages[page] = tmpl
	}
	return t, nil
}

// Render executes the named page with data.
func (t *Templates) Render(w io.Writer, name string, data any) error {
	tmpl, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}
