package maps

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlLayout is the on-disk layout document.
type yamlLayout struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name"`
	Columns  int               `yaml:"columns"`
	Rows     []string          `yaml:"rows"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// ParseYAML parses a layout document. Each row is a string of '0' and '1'
// whose length must equal columns.
func ParseYAML(data []byte) (Layout, error) {
	var yl yamlLayout
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Layout{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if yl.ID == "" {
		return Layout{}, fmt.Errorf("%w: missing id", ErrInvalidLayout)
	}
	if yl.Columns <= 0 {
		return Layout{}, fmt.Errorf("%w: %s: columns must be positive", ErrInvalidLayout, yl.ID)
	}
	if len(yl.Rows) == 0 {
		return Layout{}, fmt.Errorf("%w: %s: no rows", ErrInvalidLayout, yl.ID)
	}

	flags := make([]bool, 0, yl.Columns*len(yl.Rows))
	for r, row := range yl.Rows {
		row = strings.TrimSpace(row)
		if len(row) != yl.Columns {
			return Layout{}, fmt.Errorf("%w: %s: row %d has %d cells, expected %d",
				ErrInvalidLayout, yl.ID, r, len(row), yl.Columns)
		}
		for c, ch := range row {
			switch ch {
			case '0':
				flags = append(flags, false)
			case '1':
				flags = append(flags, true)
			default:
				return Layout{}, fmt.Errorf("%w: %s: row %d col %d: unexpected %q",
					ErrInvalidLayout, yl.ID, r, c, ch)
			}
		}
	}

	name := yl.Name
	if name == "" {
		name = yl.ID
	}
	return Layout{
		ID:       yl.ID,
		Name:     name,
		Columns:  yl.Columns,
		Flags:    flags,
		Metadata: yl.Metadata,
	}, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
