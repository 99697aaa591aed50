package api

import (
	"embed"
	"html/template"
	"strconv"

	xhttp "ForecastDash/pkg/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// NewRenderer parses the dashboard page templates.
func NewRenderer() (*xhttp.TemplateRenderer, error) {
	return xhttp.NewTemplateRenderer(templateFS, template.FuncMap{
		"val": formatValue,
	}, "templates/*.html")
}

func formatValue(v *float64) string {
	if v == nil {
		return "NA"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
