package action

import (
	"fmt"
	"sort"
)

// Group maps action names to their creators.
type Group map[string]Creator

// NewGroup builds one creator per entry of types. payloads may be nil; a name
// without a payload entry gets the default "payload" field.
func NewGroup(types map[string]Type, payloads map[string][]string) Group {
	g := make(Group, len(types))
	for name, t := range types {
		g[name] = NewCreator(t, payloads[name]...)
	}
	return g
}

// Create builds the named action.
func (g Group) Create(name string, args ...any) (Action, error) {
	c, ok := g[name]
	if !ok {
		return Action{}, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	return c(args...), nil
}

// Names returns the group's action names sorted.
func (g Group) Names() []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
