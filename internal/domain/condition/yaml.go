package condition

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

type fileTable struct {
	Conditions []fileCondition `yaml:"conditions"`
}

type fileCondition struct {
	Name        string             `yaml:"name"`
	Kind        Kind               `yaml:"kind"`
	Severity    int                `yaml:"severity"`
	Color       string             `yaml:"color"`
	Description string             `yaml:"description"`
	Effects     map[string]float64 `yaml:"effects"`
}

func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("condition: open %q: %w", path, err)
	}
	defer f.Close()
	return LoadYAML(f)
}

// LoadYAML reads a condition table. Unknown fields and unknown effect keys are
// rejected.
func LoadYAML(r io.Reader) (*Registry, error) {
	var table fileTable
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&table); err != nil {
		return nil, fmt.Errorf("condition: decode yaml: %w", err)
	}

	conds := make([]Condition, 0, len(table.Conditions))
	for _, fc := range table.Conditions {
		keys := make([]string, 0, len(fc.Effects))
		for k := range fc.Effects {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		effects := make([]Effect, 0, len(keys))
		for _, k := range keys {
			e, err := ParseEffect(k, fc.Effects[k])
			if err != nil {
				return nil, fmt.Errorf("condition %q: %w", fc.Name, err)
			}
			effects = append(effects, e)
		}
		conds = append(conds, Condition{
			Name:        fc.Name,
			Kind:        fc.Kind,
			Severity:    fc.Severity,
			Color:       fc.Color,
			Description: fc.Description,
			Effects:     effects,
		})
	}
	return NewRegistry(conds...)
}
