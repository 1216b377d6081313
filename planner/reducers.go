package planner

import (
	"fmt"
	"sort"

	"github.com/c360studio/actionplan/action"
	"github.com/c360studio/actionplan/reducer"
)

// Reducers builds reducers over state S using a planner's action names.
type Reducers[S any] struct {
	p *Planner
}

// For returns the reducer builders of p for state type S.
func For[S any](p *Planner) Reducers[S] {
	return Reducers[S]{p: p}
}

// Bind binds handler h to a single action name.
func (r Reducers[S]) Bind(name string, h reducer.Handler[S], init reducer.State[S]) (reducer.Reducer[S], error) {
	t, err := r.p.Type(name)
	if err != nil {
		return nil, err
	}
	return reducer.BindOne(t, h, init), nil
}

// BindAll binds handler h to every name. No names gives Noop(init).
func (r Reducers[S]) BindAll(names []string, h reducer.Handler[S], init reducer.State[S]) (reducer.Reducer[S], error) {
	if len(names) == 0 {
		return reducer.Noop(init), nil
	}
	types, err := r.p.Resolve(names...)
	if err != nil {
		return nil, err
	}
	return reducer.BindMany(types, h, init), nil
}

// Combine dispatches across handlers keyed by action name.
func (r Reducers[S]) Combine(handlers map[string]reducer.Handler[S], init reducer.State[S]) (reducer.Reducer[S], error) {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	// Names sharing a type resolve in sorted order; the last one wins.
	sort.Strings(names)

	byType := make(map[action.Type]reducer.Handler[S], len(handlers))
	for _, name := range names {
		t, err := r.p.Type(name)
		if err != nil {
			return nil, err
		}
		byType[t] = handlers[name]
	}
	return reducer.Combine(byType, init), nil
}

// Make picks a builder from the shape of its first argument: a name binds
// one, a name slice binds all, and a name to handler map combines (h is
// unused). Shapes carry names only: action.Type values are already resolved
// and belong to reducer.Make. Any other shape returns
// reducer.ErrUnsupportedShape.
func (r Reducers[S]) Make(shape any, h reducer.Handler[S], init reducer.State[S]) (reducer.Reducer[S], error) {
	switch v := shape.(type) {
	case string:
		return r.Bind(v, h, init)
	case []string:
		return r.BindAll(v, h, init)
	case map[string]reducer.Handler[S]:
		return r.Combine(v, init)
	default:
		return nil, fmt.Errorf("%w: %T", reducer.ErrUnsupportedShape, shape)
	}
}

// Noop is reducer.Noop, kept next to the name based builders.
func (r Reducers[S]) Noop(init reducer.State[S]) reducer.Reducer[S] {
	return reducer.Noop(init)
}
