package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Seed describes one deployment to ensure at startup
type Seed struct {
	Name            string `yaml:"name"`
	Description     string `yaml:"description,omitempty"`
	TargetNodeCount int    `yaml:"target_node_count"`
}

// LoadSeeds reads a seed file: a YAML list of deployments. Seeds are
// applied idempotently by name, so reloading the same file is safe.
func LoadSeeds(path string) ([]Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	return ParseSeeds(data)
}

// ParseSeeds parses seed definitions from YAML bytes
func ParseSeeds(data []byte) ([]Seed, error) {
	var seeds []Seed
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	for i, s := range seeds {
		if s.Name == "" {
			return nil, fmt.Errorf("seed %d: name required", i)
		}
	}

	return seeds, nil
}
