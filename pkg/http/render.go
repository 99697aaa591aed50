package http

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/Masterminds/sprig/v3"
	"github.com/labstack/echo/v4"
)

// TemplateRenderer renders html/template pages with the sprig function set.
type TemplateRenderer struct {
	tmpl *template.Template
}

// NewTemplateRenderer parses every file in fsys matching patterns. extra funcs override sprig.
func NewTemplateRenderer(fsys fs.FS, extra template.FuncMap, patterns ...string) (*TemplateRenderer, error) {
	funcs := sprig.FuncMap()
	for k, v := range extra {
		funcs[k] = v
	}
	tmpl, err := template.New("").Funcs(funcs).ParseFS(fsys, patterns...)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &TemplateRenderer{tmpl: tmpl}, nil
}

// Render implements echo.Renderer.
func (r *TemplateRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}
