// Package planner scopes action creators and reducers to one name to type
// mapping, so callers refer to actions by name and never repeat type strings.
package planner

import (
	"fmt"
	"sort"

	"github.com/c360studio/actionplan/action"
	"github.com/c360studio/actionplan/config"
)

// Planner holds an immutable name to type mapping and the default payload
// fields of each name.
type Planner struct {
	name     string
	types    map[string]action.Type
	payloads map[string][]string
}

// New returns a planner over a copy of types. A nil map gives an empty planner.
func New(types map[string]action.Type) *Planner {
	p := &Planner{
		types:    make(map[string]action.Type, len(types)),
		payloads: make(map[string][]string),
	}
	for name, t := range types {
		p.types[name] = t
	}
	return p
}

// FromPlan returns a planner for a loaded plan. The plan's payload fields
// become the defaults used by Actions.
func FromPlan(plan *config.Plan) *Planner {
	p := New(plan.Types)
	p.name = plan.Name
	p.payloads = plan.PayloadSpecs()
	return p
}

// Name returns the plan name, empty for planners built with New.
func (p *Planner) Name() string {
	return p.name
}

// Actions builds the action creators of every name. A non-empty entry in
// payloads overrides the planner's default fields for that name; empty
// entries keep the default.
func (p *Planner) Actions(payloads map[string][]string) action.Group {
	specs := make(map[string][]string, len(p.payloads)+len(payloads))
	for name, fields := range p.payloads {
		specs[name] = fields
	}
	for name, fields := range payloads {
		if len(fields) > 0 {
			specs[name] = fields
		}
	}
	return action.NewGroup(p.types, specs)
}

// Type returns the type identifier of a name.
func (p *Planner) Type(name string) (action.Type, error) {
	t, ok := p.types[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownName, name)
	}
	return t, nil
}

// Resolve translates names to type identifiers, in order.
func (p *Planner) Resolve(names ...string) ([]action.Type, error) {
	types := make([]action.Type, 0, len(names))
	for _, name := range names {
		t, err := p.Type(name)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

// Names returns the planner's action names sorted.
func (p *Planner) Names() []string {
	names := make([]string, 0, len(p.types))
	for name := range p.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Types returns a copy of the name to type mapping.
func (p *Planner) Types() map[string]action.Type {
	out := make(map[string]action.Type, len(p.types))
	for name, t := range p.types {
		out[name] = t
	}
	return out
}

// NameOf returns the first name (in sorted order) bound to t.
func (p *Planner) NameOf(t action.Type) (string, bool) {
	for _, name := range p.Names() {
		if p.types[name] == t {
			return name, true
		}
	}
	return "", false
}
