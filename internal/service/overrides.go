package service

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Overrides carries hand-maintained corrections applied during conversion:
// canonical manufacturer names and per-file format fixes for documents whose
// declared format is known to be wrong. Format keys are source paths
// relative to the source dir, slash-separated.
type Overrides struct {
	Manufacturers map[string]string `yaml:"manufacturers"`
	Formats       map[string]string `yaml:"formats"`
}

// LoadOverrides reads the YAML overrides file. An empty path means no
// overrides are configured.
func LoadOverrides(path string) (*Overrides, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read overrides file: %w", err)
	}
	var ov Overrides
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return nil, fmt.Errorf("parse overrides file: %w", err)
	}
	return &ov, nil
}

// Manufacturer maps name through the rename table. Safe on a nil receiver.
func (o *Overrides) Manufacturer(name string) string {
	if o == nil {
		return name
	}
	if mapped, ok := o.Manufacturers[name]; ok {
		return mapped
	}
	return name
}

// Format returns the forced format tag for relPath, or "" when none
// applies. Safe on a nil receiver.
func (o *Overrides) Format(relPath string) string {
	if o == nil {
		return ""
	}
	return o.Formats[relPath]
}
