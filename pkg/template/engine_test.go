package template

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serenityops/internal/model"
)

const testTemplatesYAML = `
templates:
  classic:
    name: "Classic"
    description: "Test template"
    category: "professional"
    sections:
      - personal
      - summary
      - experience
      - projects
      - skills
      - education
      - certifications
  sparse:
    name: "Sparse"
    sections:
      - personal
      - timeline
      - summary
`

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "templates.yaml"), []byte(testTemplatesYAML), 0o644))
	engine, err := NewEngine(dir)
	require.NoError(t, err)
	return engine
}

func testDocument() *model.CVDocument {
	return &model.CVDocument{
		Personal: model.Personal{
			FullName: "Jane Doe",
			Title:    "Engineer",
			Email:    "jane@example.com",
			Website:  "https://jane.example",
		},
		Summary: "Builds things.",
		Experience: []model.Role{{
			Role:         "Engineer",
			Company:      "Acme",
			StartDate:    "2020",
			Achievements: []string{"Shipped the thing"},
			TechStack:    []string{"Go"},
		}},
		Skills: map[string][]string{"languages": {"Go"}},
	}
}

func TestRenderDocumentEscapesName(t *testing.T) {
	engine := newTestEngine(t)
	doc := testDocument()
	doc.Personal.FullName = "Jane <b>Doe</b>"

	out, err := engine.RenderDocument(doc, "classic", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Jane &lt;b&gt;Doe&lt;/b&gt;")
	assert.NotContains(t, out, "<b>Doe</b>")
}

func TestRenderDocumentEscapesAmpersand(t *testing.T) {
	engine := newTestEngine(t)
	doc := testDocument()
	doc.Experience[0].Company = "Smith & Sons"

	out, err := engine.RenderDocument(doc, "classic", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Smith &amp; Sons")
}

func TestRenderDocumentEscapesEveryField(t *testing.T) {
	engine := newTestEngine(t)
	payload := `<script>alert(1)</script>`
	doc := &model.CVDocument{
		Personal: model.Personal{
			FullName: payload,
			Title:    payload,
			Email:    `"><script>alert(1)</script>`,
			Location: payload,
		},
		Summary: payload,
		Experience: []model.Role{{
			Role:         payload,
			Company:      payload,
			Description:  payload,
			Achievements: []string{payload},
			TechStack:    []string{payload},
		}},
		Projects: []model.Project{{
			Name:       payload,
			Highlights: []string{payload},
		}},
		Skills: map[string][]string{payload: {payload}},
		Education: []model.Education{{
			Degree:      payload,
			Institution: payload,
		}},
		Certifications: []model.Certification{{
			Name:   payload,
			Issuer: payload,
		}},
	}

	out, err := engine.RenderDocument(doc, "classic", "")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
}

func TestRenderDocumentNilSafe(t *testing.T) {
	engine := newTestEngine(t)
	out, err := engine.RenderDocument(&model.CVDocument{}, "classic", "")
	require.NoError(t, err)
	assert.Contains(t, out, "<!DOCTYPE html>")
	// Sections with no data leave no heading behind.
	assert.NotContains(t, out, "Professional Experience")
	assert.NotContains(t, out, "Certifications")
}

func TestRenderDocumentUnknownTemplate(t *testing.T) {
	engine := newTestEngine(t)
	_, err := engine.RenderDocument(testDocument(), "nope", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTemplateNotFound))
	assert.Contains(t, err.Error(), "classic")
}

func TestRenderDocumentUnknownSectionSkipped(t *testing.T) {
	engine := newTestEngine(t)
	out, err := engine.RenderDocument(testDocument(), "sparse", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Jane Doe")
	assert.NotContains(t, out, "timeline")
}

func TestRenderDocumentCustomCSSAppended(t *testing.T) {
	engine := newTestEngine(t)
	out, err := engine.RenderDocument(testDocument(), "classic", "margin: 99px;")
	require.NoError(t, err)
	assert.Contains(t, out, "/* Custom CSS (validated) */")
	assert.Contains(t, out, "margin: 99px;")
}

func TestRenderDocumentBlockedCustomCSS(t *testing.T) {
	engine := newTestEngine(t)
	_, err := engine.RenderDocument(testDocument(), "classic", `@import "x";`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsafeCustomCSS))
}

func TestListTemplatesSorted(t *testing.T) {
	engine := newTestEngine(t)
	infos := engine.ListTemplates()
	require.Len(t, infos, 2)
	assert.Equal(t, "classic", infos[0].ID)
	assert.Equal(t, "sparse", infos[1].ID)
	assert.Equal(t, "Classic", infos[0].Name)
}

func TestSkillsRenderInStableOrder(t *testing.T) {
	engine := newTestEngine(t)
	doc := testDocument()
	doc.Skills = map[string][]string{
		"tools":     {"Docker"},
		"languages": {"Go"},
	}
	out1, err := engine.RenderDocument(doc, "classic", "")
	require.NoError(t, err)
	out2, err := engine.RenderDocument(doc, "classic", "")
	require.NoError(t, err)
	assert.Equal(t, out1, out2)
	assert.Less(t, strings.Index(out1, "languages"), strings.Index(out1, "tools"))
}
