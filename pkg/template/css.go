package template

import (
	"bytes"
	"fmt"
	"strings"
	texttemplate "text/template"
)

// ErrUnsafeCustomCSS is returned when user CSS contains a blocked construct.
// Unlike non-whitelisted properties (silently dropped), blocked constructs
// abort the render entirely: they enable data exfiltration or markup injection
// even inside a style block, so no partial output may escape.
var ErrUnsafeCustomCSS = fmt.Errorf("custom css contains a blocked construct")

// Properties allowed through the custom-CSS filter. Purely cosmetic; nothing
// here can trigger network fetches or behavior.
var allowedCSSProperties = map[string]bool{
	"margin": true, "margin-top": true, "margin-bottom": true,
	"margin-left": true, "margin-right": true,
	"padding": true, "padding-top": true, "padding-bottom": true,
	"padding-left": true, "padding-right": true,
	"font-size": true, "font-family": true, "font-weight": true, "font-style": true,
	"color": true, "background-color": true,
	"line-height": true, "letter-spacing": true, "text-align": true,
	"border-radius": true, "box-shadow": true,
}

// Constructs rejected unconditionally, regardless of whitelist status.
var blockedCSSPatterns = []string{
	"@import", "@keyframes", "url(", "expression(", "behavior:", "<", ">",
}

// SanitizeCustomCSS filters user-supplied CSS down to whitelisted cosmetic
// declarations. Non-whitelisted declarations are dropped silently; blocked
// constructs fail with ErrUnsafeCustomCSS. Sanitization is idempotent.
func SanitizeCustomCSS(customCSS string) (string, error) {
	if customCSS == "" {
		return "", nil
	}

	lower := strings.ToLower(customCSS)
	for _, pattern := range blockedCSSPatterns {
		if strings.Contains(lower, pattern) {
			return "", fmt.Errorf("%w: %q", ErrUnsafeCustomCSS, pattern)
		}
	}

	var kept []string
	for _, line := range strings.Split(customCSS, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "/*") {
			continue
		}
		name, _, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if allowedCSSProperties[strings.ToLower(strings.TrimSpace(name))] {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n"), nil
}

// baseCSS renders the template's stylesheet from its color, typography and
// layout settings. Config values come from templates.yaml, not from callers,
// so plain interpolation is safe here.
func baseCSS(cfg TemplateConfig) (string, error) {
	var buf bytes.Buffer
	if err := cssTemplate.Execute(&buf, cfg); err != nil {
		return "", fmt.Errorf("generate css: %w", err)
	}
	return buf.String(), nil
}

var cssTemplate = texttemplate.Must(texttemplate.New("base_css").Parse(`
/* ===== RESET & BASE ===== */
* {
    margin: 0;
    padding: 0;
    box-sizing: border-box;
}

body {
    font-family: {{.Typography.BodyFont}};
    font-size: {{.Typography.BodySize}};
    line-height: {{.Typography.LineHeight}};
    color: {{.Colors.Text}};
    background-color: {{.Colors.Background}};
    -webkit-font-smoothing: antialiased;
}

.cv-container {
    max-width: {{.Layout.MaxWidth}};
    margin: 0 auto;
    padding: {{.Layout.Margins}};
}

/* ===== TYPOGRAPHY ===== */
h1, h2, h3, h4 {
    font-family: {{.Typography.HeadingFont}};
    color: {{.Colors.Primary}};
    margin-bottom: 0.5em;
}

h1 {
    font-size: {{.Typography.HeadingSize}};
    font-weight: 700;
}

h2 {
    font-size: calc({{.Typography.HeadingSize}} * 0.85);
    font-weight: 600;
    border-bottom: 2px solid {{.Colors.Accent}};
    padding-bottom: 0.3em;
    margin-top: 1.5em;
}

h3 {
    font-size: calc({{.Typography.HeadingSize}} * 0.75);
    font-weight: 600;
}

p {
    margin-bottom: 0.8em;
}

a {
    color: {{.Colors.Accent}};
    text-decoration: none;
}

a:hover {
    text-decoration: underline;
}

/* ===== SECTIONS ===== */
.cv-section {
    margin-bottom: 2em;
}

/* ===== PERSONAL INFO ===== */
.personal-info {
    text-align: center;
    margin-bottom: 2em;
}

.personal-info h1 {
    margin-bottom: 0.2em;
}

.personal-info .title {
    font-size: 1.1em;
    color: {{.Colors.Secondary}};
    margin-bottom: 0.5em;
}

.personal-info .contact {
    display: flex;
    justify-content: center;
    gap: 1em;
    flex-wrap: wrap;
    font-size: 0.9em;
    color: {{.Colors.Secondary}};
}

/* ===== EXPERIENCE & PROJECTS ===== */
.experience-item,
.project-item {
    margin-bottom: 1.5em;
}

.experience-title,
.project-title {
    font-weight: 600;
    color: {{.Colors.Primary}};
}

.experience-company {
    font-weight: 600;
}

.experience-meta,
.education-meta {
    color: {{.Colors.Secondary}};
    font-size: 0.9em;
    margin-bottom: 0.5em;
}

.achievements-list {
    list-style: none;
    padding-left: 1em;
}

.achievements-list li {
    margin-bottom: 0.3em;
    padding-left: 1.2em;
    position: relative;
}

.achievements-list li:before {
    content: "\25B8";
    position: absolute;
    left: 0;
    color: {{.Colors.Accent}};
}

.tech-stack {
    display: flex;
    flex-wrap: wrap;
    gap: 0.4em;
    margin-top: 0.5em;
}

.tech-tag {
    background-color: {{.Colors.Accent}}15;
    color: {{.Colors.Accent}};
    padding: 0.2em 0.6em;
    border-radius: 4px;
    font-size: 0.85em;
}

/* ===== SKILLS ===== */
.skills-grid {
    display: grid;
    grid-template-columns: repeat(auto-fill, minmax(200px, 1fr));
    gap: 1em;
}

.skill-category-name {
    font-weight: 600;
    color: {{.Colors.Primary}};
    margin-bottom: 0.5em;
}

.skill-list {
    list-style: none;
}

.skill-list li {
    padding: 0.2em 0;
}

/* ===== EDUCATION & CERTIFICATIONS ===== */
.education-item,
.certification-item {
    margin-bottom: 1em;
}

.education-degree,
.certification-name {
    font-weight: 600;
    color: {{.Colors.Primary}};
}

/* ===== FOOTER ===== */
.cv-footer {
    text-align: center;
    margin-top: 3em;
    padding-top: 1em;
    border-top: 1px solid {{.Colors.Secondary}}30;
    font-size: 0.8em;
    color: {{.Colors.Secondary}};
}

/* ===== PRINT STYLES ===== */
@media print {
    body {
        background-color: white;
    }

    .cv-container {
        max-width: 100%;
        padding: 0;
    }

    .cv-footer,
    .experience-item {
        page-break-inside: avoid;
    }
}
`))
