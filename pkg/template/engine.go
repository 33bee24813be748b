// Package template turns structured CV data into a complete, sanitized HTML
// document. Rendering is a pure function over the input document and the
// template configuration loaded once at construction: user-supplied text is
// escaped everywhere it appears, and user-supplied CSS passes an allow-list
// filter before it reaches the document.
package template

import (
	"fmt"
	htmltemplate "html/template"
	"sort"
	"strings"
	"time"

	"serenityops/internal/model"
)

// ErrTemplateNotFound is returned when a template id has no definition.
var ErrTemplateNotFound = fmt.Errorf("template not found")

// Engine renders CV documents using the templates defined in templates.yaml.
type Engine struct {
	templates map[string]TemplateConfig
}

// NewEngine loads the template configuration store from templatesDir.
func NewEngine(templatesDir string) (*Engine, error) {
	templates, err := loadTemplatesConfig(templatesDir)
	if err != nil {
		return nil, err
	}
	return &Engine{templates: templates}, nil
}

// Config returns the definition for a template id.
func (e *Engine) Config(templateID string) (TemplateConfig, error) {
	cfg, ok := e.templates[templateID]
	if !ok {
		available := make([]string, 0, len(e.templates))
		for id := range e.templates {
			available = append(available, id)
		}
		sort.Strings(available)
		return TemplateConfig{}, fmt.Errorf("%w: %q (available: %s)",
			ErrTemplateNotFound, templateID, strings.Join(available, ", "))
	}
	return cfg, nil
}

// ListTemplates returns the template catalog, sorted by id.
func (e *Engine) ListTemplates() []TemplateInfo {
	out := make([]TemplateInfo, 0, len(e.templates))
	for id, cfg := range e.templates {
		out = append(out, TemplateInfo{
			ID:          id,
			Name:        cfg.Name,
			Description: cfg.Description,
			Category:    cfg.Category,
			Features:    cfg.Features,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RenderDocument renders doc with the given template into a complete HTML
// document. customCSS, if non-empty, is sanitized first; a blocked construct
// aborts the whole render so no partial document with unsafe CSS escapes.
func (e *Engine) RenderDocument(doc *model.CVDocument, templateID, customCSS string) (string, error) {
	cfg, err := e.Config(templateID)
	if err != nil {
		return "", err
	}

	css, err := baseCSS(cfg)
	if err != nil {
		return "", err
	}
	if customCSS != "" {
		safe, err := SanitizeCustomCSS(customCSS)
		if err != nil {
			return "", err
		}
		if safe != "" {
			css += "\n\n/* Custom CSS (validated) */\n" + safe
		}
	}

	var body []string
	for _, section := range cfg.Sections {
		rendered, err := renderSection(section, doc)
		if err != nil {
			return "", fmt.Errorf("render section %s: %w", section, err)
		}
		if rendered != "" {
			body = append(body, rendered)
		}
	}

	var sb strings.Builder
	err = documentTemplate.Execute(&sb, documentData{
		FullName:     doc.Personal.FullName,
		CSS:          htmltemplate.CSS(css),
		Body:         htmltemplate.HTML(strings.Join(body, "\n")),
		TemplateName: cfg.Name,
		Date:         time.Now().Format("2006-01-02"),
	})
	if err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}
	return sb.String(), nil
}

type documentData struct {
	FullName     string
	CSS          htmltemplate.CSS
	Body         htmltemplate.HTML
	TemplateName string
	Date         string
}

var documentTemplate = htmltemplate.Must(htmltemplate.New("document").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta name="author" content="{{.FullName}}">
    <title>{{.FullName}} - Curriculum Vitae</title>
    <style>
{{.CSS}}
    </style>
</head>
<body>
    <div class="cv-container">
{{.Body}}
    </div>

    <footer class="cv-footer">
        <p>Generated by SerenityOps CV Engine | Template: {{.TemplateName}} | {{.Date}}</p>
    </footer>
</body>
</html>
`))
