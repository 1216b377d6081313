package reducer

import "github.com/c360studio/actionplan/action"

// Handler computes the next state for an action it is bound to.
type Handler[S any] func(state State[S], a action.Action) State[S]

// Reducer computes the next state for any action.
type Reducer[S any] func(state State[S], a action.Action) State[S]

// Identity returns state unchanged.
func Identity[S any](state State[S], _ action.Action) State[S] {
	return state
}

// Noop returns a reducer that ignores the action and substitutes init for an
// absent state. An absent init stands for the zero value of S.
func Noop[S any](init State[S]) Reducer[S] {
	if init.IsAbsent() {
		var zero S
		init = Some(zero)
	}
	return func(state State[S], _ action.Action) State[S] {
		return state.Or(init)
	}
}

// BindOne returns a reducer that responds to a single action type.
//
// The initial state is only substituted when the action matches t, so a slice
// reducer does not materialise its default for unrelated actions. Without a
// handler a matching action only surfaces init; without init the handler sees
// the state as given, absent included.
func BindOne[S any](t action.Type, h Handler[S], init State[S]) Reducer[S] {
	switch {
	case h == nil && init.IsAbsent():
		return Identity[S]
	case h == nil:
		return func(state State[S], a action.Action) State[S] {
			if a.Type == t {
				return state.Or(init)
			}
			return state
		}
	case init.IsAbsent():
		return func(state State[S], a action.Action) State[S] {
			if a.Type == t {
				return h(state, a)
			}
			return state
		}
	default:
		return func(state State[S], a action.Action) State[S] {
			if a.Type == t {
				return h(state.Or(init), a)
			}
			return state
		}
	}
}

// Combine returns a reducer that dispatches through a copy of handlers.
//
// When init is present it replaces an absent state before lookup, so even an
// unrecognised action yields the initialised slice. Nil handlers in the map
// are treated as unbound.
func Combine[S any](handlers map[action.Type]Handler[S], init State[S]) Reducer[S] {
	table := make(map[action.Type]Handler[S], len(handlers))
	for t, h := range handlers {
		if h != nil {
			table[t] = h
		}
	}

	return func(state State[S], a action.Action) State[S] {
		state = state.Or(init)
		if h, ok := table[a.Type]; ok {
			return h(state, a)
		}
		return state
	}
}

// BindMany returns a reducer where every type in types shares handler h.
// With no types or no handler the shared handler passes state through.
func BindMany[S any](types []action.Type, h Handler[S], init State[S]) Reducer[S] {
	if len(types) == 0 || h == nil {
		h = Identity[S]
	}
	handlers := make(map[action.Type]Handler[S], len(types))
	for _, t := range types {
		handlers[t] = h
	}
	return Combine(handlers, init)
}

// Replay folds actions through r starting from state, the way a store applies
// dispatched actions one after another.
func Replay[S any](r Reducer[S], state State[S], actions ...action.Action) State[S] {
	for _, a := range actions {
		state = r(state, a)
	}
	return state
}
