package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Target describes the industry being researched: what to search for and
// which fields to collect.
type Target struct {
	Industry    string   `yaml:"industry"`
	SearchTerms []string `yaml:"search_terms"`
	DataFields  []string `yaml:"data_fields"`
}

var defaultDataFields = []string{"company_name", "address", "phone", "website", "email"}

// NewTarget builds a target config for an industry with derived search terms.
func NewTarget(industry string) Target {
	lower := strings.ToLower(strings.TrimSpace(industry))
	return Target{
		Industry: industry,
		SearchTerms: []string{
			lower,
			lower + " company",
			lower + " services",
			lower + " provider",
		},
		DataFields: append([]string(nil), defaultDataFields...),
	}
}

// LoadTarget reads a target config from a YAML file.
func LoadTarget(path string) (Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Target{}, fmt.Errorf("read target config %s: %w", path, err)
	}

	var t Target
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Target{}, fmt.Errorf("parse target config %s: %w", path, err)
	}

	if strings.TrimSpace(t.Industry) == "" {
		return Target{}, fmt.Errorf("target config %s has no industry", path)
	}
	if len(t.SearchTerms) == 0 {
		t.SearchTerms = []string{strings.ToLower(t.Industry)}
	}
	if len(t.DataFields) == 0 {
		t.DataFields = append([]string(nil), defaultDataFields...)
	}
	return t, nil
}

// WriteTarget persists a target config as YAML, creating parent directories.
func WriteTarget(path string, t Target) error {
	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode target config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create target config dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write target config %s: %w", path, err)
	}
	return nil
}
