package template

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Colors is a template color palette.
type Colors struct {
	Primary    string `yaml:"primary" json:"primary"`
	Secondary  string `yaml:"secondary" json:"secondary"`
	Accent     string `yaml:"accent" json:"accent"`
	Text       string `yaml:"text" json:"text"`
	Background string `yaml:"background" json:"background"`
}

// Typography holds font settings for a template.
type Typography struct {
	BodyFont    string `yaml:"body_font" json:"body_font"`
	HeadingFont string `yaml:"heading_font" json:"heading_font"`
	BodySize    string `yaml:"body_size" json:"body_size"`
	HeadingSize string `yaml:"heading_size" json:"heading_size"`
	LineHeight  string `yaml:"line_height" json:"line_height"`
}

// Layout holds page layout parameters.
type Layout struct {
	MaxWidth string `yaml:"max_width" json:"max_width"`
	Margins  string `yaml:"margins" json:"margins"`
}

// TemplateConfig is one named CV template definition. Loaded once from
// templates.yaml and treated as immutable for the process lifetime.
type TemplateConfig struct {
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description" json:"description"`
	Category    string     `yaml:"category" json:"category"`
	Features    []string   `yaml:"features" json:"features"`
	Colors      Colors     `yaml:"colors" json:"colors"`
	Typography  Typography `yaml:"typography" json:"typography"`
	Layout      Layout     `yaml:"layout" json:"layout"`
	Sections    []string   `yaml:"sections" json:"sections"`
}

type configFile struct {
	Metadata  map[string]string         `yaml:"metadata"`
	Templates map[string]TemplateConfig `yaml:"templates"`
}

func loadTemplatesConfig(dir string) (map[string]TemplateConfig, error) {
	path := filepath.Join(dir, "templates.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates config %s: %w", path, err)
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse templates config %s: %w", path, err)
	}
	if len(cfg.Templates) == 0 {
		return nil, fmt.Errorf("templates config %s defines no templates", path)
	}
	applyConfigDefaults(cfg.Templates)
	return cfg.Templates, nil
}

// applyConfigDefaults fills the styling values the base stylesheet relies on,
// so a sparse template definition still produces a complete document.
func applyConfigDefaults(templates map[string]TemplateConfig) {
	for id, t := range templates {
		if t.Colors.Primary == "" {
			t.Colors.Primary = "#2563eb"
		}
		if t.Colors.Secondary == "" {
			t.Colors.Secondary = "#64748b"
		}
		if t.Colors.Accent == "" {
			t.Colors.Accent = "#3b82f6"
		}
		if t.Colors.Text == "" {
			t.Colors.Text = "#1e293b"
		}
		if t.Colors.Background == "" {
			t.Colors.Background = "#ffffff"
		}
		if t.Typography.BodyFont == "" {
			t.Typography.BodyFont = "Arial, sans-serif"
		}
		if t.Typography.HeadingFont == "" {
			t.Typography.HeadingFont = "Georgia, serif"
		}
		if t.Typography.BodySize == "" {
			t.Typography.BodySize = "14px"
		}
		if t.Typography.HeadingSize == "" {
			t.Typography.HeadingSize = "24px"
		}
		if t.Typography.LineHeight == "" {
			t.Typography.LineHeight = "1.6"
		}
		if t.Layout.MaxWidth == "" {
			t.Layout.MaxWidth = "800px"
		}
		if t.Layout.Margins == "" {
			t.Layout.Margins = "2cm"
		}
		templates[id] = t
	}
}

// TemplateInfo is the catalog entry exposed by ListTemplates.
type TemplateInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Features    []string `json:"features"`
}
