package template

import (
	htmltemplate "html/template"
	"sort"
	"strings"

	"serenityops/internal/model"
)

// Section identifiers understood by the engine. Template configs list these
// in display order; ids the engine does not recognize are skipped so configs
// may reference sections ahead of the engine implementing them.
const (
	sectionPersonal       = "personal"
	sectionSummary        = "summary"
	sectionExperience     = "experience"
	sectionProjects       = "projects"
	sectionSkills         = "skills"
	sectionEducation      = "education"
	sectionCertifications = "certifications"
)

// Section markup lives in html/template so every interpolated value is
// contextually escaped, attribute positions included. Renderers receive only
// typed data; there is no raw-string interpolation path into the document.
var sectionTemplates = htmltemplate.Must(htmltemplate.New("sections").Parse(`
{{define "personal"}}
<div class="cv-section personal-info">
    <h1>{{.FullName}}</h1>
    <div class="title">{{.Title}}</div>
    <div class="contact">
        {{- if .Phone}}<span>{{.Phone}}</span>{{end}}
        {{- if .Email}}<a href="mailto:{{.Email}}">{{.Email}}</a>{{end}}
        {{- if .Location}}<span>{{.Location}}</span>{{end}}
        {{- if .Website}}<a href="{{.Website}}" target="_blank" rel="noopener noreferrer">{{.Website}}</a>{{end}}
    </div>
</div>
{{end}}

{{define "summary"}}
<div class="cv-section">
    <h2>Professional Summary</h2>
    <p>{{.}}</p>
</div>
{{end}}

{{define "experience"}}
<div class="cv-section">
    <h2>Professional Experience</h2>
    {{range .}}
    <div class="experience-item">
        <div class="experience-header">
            <div class="experience-title">{{.Role}}</div>
            <div class="experience-company">{{.Company}}</div>
            <div class="experience-meta">{{.StartDate}} - {{if .EndDate}}{{.EndDate}}{{else}}Present{{end}}{{if .Location}} | {{.Location}}{{end}}</div>
        </div>
        {{if .Description}}<div class="experience-description">{{.Description}}</div>{{end}}
        {{if .Achievements}}
        <ul class="achievements-list">
            {{range .Achievements}}<li>{{.}}</li>{{end}}
        </ul>
        {{end}}
        {{if .TechStack}}
        <div class="tech-stack">
            {{range .TechStack}}<span class="tech-tag">{{.}}</span>{{end}}
        </div>
        {{end}}
    </div>
    {{end}}
</div>
{{end}}

{{define "projects"}}
<div class="cv-section">
    <h2>Projects</h2>
    {{range .}}
    <div class="project-item">
        <div class="project-title">{{.Name}}{{if .URL}} &mdash; <a href="{{.URL}}" target="_blank" rel="noopener noreferrer">{{.URL}}</a>{{end}}</div>
        {{if .Description}}<div class="experience-description">{{.Description}}</div>{{end}}
        {{if .Highlights}}
        <ul class="achievements-list">
            {{range .Highlights}}<li>{{.}}</li>{{end}}
        </ul>
        {{end}}
        {{if .TechStack}}
        <div class="tech-stack">
            {{range .TechStack}}<span class="tech-tag">{{.}}</span>{{end}}
        </div>
        {{end}}
    </div>
    {{end}}
</div>
{{end}}

{{define "skills"}}
<div class="cv-section">
    <h2>Skills</h2>
    <div class="skills-grid">
        {{range .}}
        <div class="skill-category">
            <div class="skill-category-name">{{.Name}}</div>
            <ul class="skill-list">
                {{range .Skills}}<li>{{.}}</li>{{end}}
            </ul>
        </div>
        {{end}}
    </div>
</div>
{{end}}

{{define "education"}}
<div class="cv-section">
    <h2>Education</h2>
    {{range .}}
    <div class="education-item">
        <div class="education-degree">{{.Degree}}</div>
        <div class="education-meta">{{.Institution}}{{if .StartDate}} | {{.StartDate}} - {{if .EndDate}}{{.EndDate}}{{else}}Present{{end}}{{end}}</div>
        {{if .Details}}<div class="experience-description">{{.Details}}</div>{{end}}
    </div>
    {{end}}
</div>
{{end}}

{{define "certifications"}}
<div class="cv-section">
    <h2>Certifications</h2>
    {{range .}}
    <div class="certification-item">
        <div class="certification-name">{{.Name}}</div>
        <div class="education-meta">{{.Issuer}}{{if .Date}} | {{.Date}}{{end}}{{if .URL}} | <a href="{{.URL}}" target="_blank" rel="noopener noreferrer">{{.URL}}</a>{{end}}</div>
    </div>
    {{end}}
</div>
{{end}}
`))

type skillCategory struct {
	Name   string
	Skills []string
}

// renderSection renders one section of the document, returning "" for
// sections with no data and for ids the engine does not recognize.
func renderSection(section string, doc *model.CVDocument) (string, error) {
	switch section {
	case sectionPersonal:
		return executeSection(sectionPersonal, doc.Personal)
	case sectionSummary:
		if doc.Summary == "" {
			return "", nil
		}
		return executeSection(sectionSummary, doc.Summary)
	case sectionExperience:
		if len(doc.Experience) == 0 {
			return "", nil
		}
		return executeSection(sectionExperience, doc.Experience)
	case sectionProjects:
		if len(doc.Projects) == 0 {
			return "", nil
		}
		return executeSection(sectionProjects, doc.Projects)
	case sectionSkills:
		if len(doc.Skills) == 0 {
			return "", nil
		}
		return executeSection(sectionSkills, orderedSkills(doc.Skills))
	case sectionEducation:
		if len(doc.Education) == 0 {
			return "", nil
		}
		return executeSection(sectionEducation, doc.Education)
	case sectionCertifications:
		if len(doc.Certifications) == 0 {
			return "", nil
		}
		return executeSection(sectionCertifications, doc.Certifications)
	default:
		return "", nil
	}
}

func executeSection(name string, data interface{}) (string, error) {
	var sb strings.Builder
	if err := sectionTemplates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// orderedSkills gives the skills map a stable category order for rendering.
func orderedSkills(skills map[string][]string) []skillCategory {
	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]skillCategory, 0, len(names))
	for _, name := range names {
		out = append(out, skillCategory{Name: name, Skills: skills[name]})
	}
	return out
}
