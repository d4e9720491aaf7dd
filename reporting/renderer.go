package reporting

import (
	"bytes"
	"fmt"
	"html/template"
)

// TemplateRenderer turns template text plus data into output markup
type TemplateRenderer interface {
	Render(name, text string, data any) (string, error)
}

var _ TemplateRenderer = (*HTMLRenderer)(nil)

// HTMLRenderer renders templates with html/template and the report func map
type HTMLRenderer struct {
	funcs template.FuncMap
}

// NewHTMLRenderer creates a renderer using TemplateFuncs
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{funcs: TemplateFuncs()}
}

// Render parses text as a template called name and executes it against data
func (r *HTMLRenderer) Render(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).Funcs(r.funcs).Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}
