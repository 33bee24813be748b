package model

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Validator validates caller-supplied CV payloads against cv.schema.json.
// The schema is compiled once at construction.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator loads and compiles the schema at schemaPath.
func NewValidator(schemaPath string) (*Validator, error) {
	// Use an absolute canonical file:// path so loaders on all platforms
	// resolve references correctly.
	abs, err := filepath.Abs(schemaPath)
	if err != nil {
		return nil, err
	}
	loader := gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(abs))
	schema, err := gojsonschema.NewSchema(loader)
	if err != nil {
		return nil, fmt.Errorf("compile cv schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// ValidateRaw checks a raw JSON payload and returns the decoded document.
func (v *Validator) ValidateRaw(raw json.RawMessage) (*CVDocument, error) {
	res, err := v.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, err
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("cv data validation failed: %s", strings.Join(msgs, "; "))
	}

	var doc CVDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode cv data: %w", err)
	}
	return &doc, nil
}
