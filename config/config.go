// Package config loads action plans: YAML files declaring the name to action
// type mapping of a state slice plus the payload fields of each action.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/actionplan/action"
)

// Plan is the declarative form of a planner.
type Plan struct {
	// Name labels the plan in logs and metrics (e.g., "counter")
	Name string `yaml:"name,omitempty"`
	// Types maps action names to their type identifiers
	Types map[string]action.Type `yaml:"types"`
	// Payloads maps action names to their payload fields (default: payload)
	Payloads map[string]Fields `yaml:"payloads,omitempty"`
}

// Fields is a payload specification. In YAML it is either a single field name
// or a sequence of names.
type Fields []string

// UnmarshalYAML implements yaml.Unmarshaler for Fields.
func (f *Fields) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*f = Fields{s}
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return err
		}
		*f = Fields(names)
		return nil
	default:
		return fmt.Errorf("payload fields must be a name or a list of names (line %d)", value.Line)
	}
}

// DefaultPlan returns an empty plan ready to be merged into
func DefaultPlan() *Plan {
	return &Plan{
		Types:    make(map[string]action.Type),
		Payloads: make(map[string]Fields),
	}
}

// Validate checks that the plan is usable by a planner
func (p *Plan) Validate() error {
	if len(p.Types) == 0 {
		return fmt.Errorf("%w: types is required", ErrInvalidPlan)
	}
	for name, t := range p.Types {
		if name == "" {
			return fmt.Errorf("%w: empty action name", ErrInvalidPlan)
		}
		if t == "" {
			return fmt.Errorf("%w: action %q has an empty type", ErrInvalidPlan, name)
		}
	}
	for name, fields := range p.Payloads {
		if _, ok := p.Types[name]; !ok {
			return fmt.Errorf("%w: payloads.%s does not name a declared action", ErrInvalidPlan, name)
		}
		seen := make(map[string]bool, len(fields))
		for _, f := range fields {
			switch {
			case f == "":
				return fmt.Errorf("%w: payloads.%s has an empty field name", ErrInvalidPlan, name)
			case f == action.TypeField:
				return fmt.Errorf("%w: payloads.%s uses reserved field %q", ErrInvalidPlan, name, f)
			case seen[f]:
				return fmt.Errorf("%w: payloads.%s repeats field %q", ErrInvalidPlan, name, f)
			}
			seen[f] = true
		}
	}
	return nil
}

// Names returns the declared action names sorted
func (p *Plan) Names() []string {
	names := make([]string, 0, len(p.Types))
	for name := range p.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PayloadSpecs returns the payload fields as plain string slices
func (p *Plan) PayloadSpecs() map[string][]string {
	out := make(map[string][]string, len(p.Payloads))
	for name, fields := range p.Payloads {
		out[name] = append([]string(nil), fields...)
	}
	return out
}

// LoadFromFile loads a plan from a YAML file
func LoadFromFile(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	plan := DefaultPlan()
	if err := yaml.Unmarshal(data, plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan file: %w", err)
	}

	return plan, nil
}

// SaveToFile saves the plan to a YAML file
func (p *Plan) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create plan directory: %w", err)
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write plan file: %w", err)
	}

	return nil
}

// Merge merges another plan into this one (other takes precedence per action name)
func (p *Plan) Merge(other *Plan) {
	if other == nil {
		return
	}

	if other.Name != "" {
		p.Name = other.Name
	}

	if p.Types == nil {
		p.Types = make(map[string]action.Type, len(other.Types))
	}
	for name, t := range other.Types {
		p.Types[name] = t
	}

	if p.Payloads == nil {
		p.Payloads = make(map[string]Fields, len(other.Payloads))
	}
	for name, fields := range other.Payloads {
		p.Payloads[name] = append(Fields(nil), fields...)
	}
}
