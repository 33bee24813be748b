package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadCurriculum reads a curriculum.yaml file into a CVDocument. Used for
// generation requests that do not carry inline CV data.
func LoadCurriculum(path string) (*CVDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read curriculum %s: %w", path, err)
	}
	var doc CVDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse curriculum %s: %w", path, err)
	}
	return &doc, nil
}
