package rates

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// tableFile is the on-disk shape of a custom rate table.
type tableFile struct {
	Periods []Period `yaml:"periods"`
}

// Load reads a rate table from a YAML file and validates it. Intended for
// tests and for jurisdictional what-ifs; production callers normally use
// Default.
func Load(filename string) (*Table, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var tf tableFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	table, err := NewTable(tf.Periods)
	if err != nil {
		return nil, fmt.Errorf("rate table %s: %w", filename, err)
	}
	return table, nil
}
