// Package reducer builds pure (state, action) -> state functions that dispatch
// on an action's type, with explicit handling of absent state.
//
// State is carried as State[S], which distinguishes "no state supplied yet"
// from every value of S. Handlers are optional (nil) and initial states are
// optional (Absent), independently of each other.
package reducer

import (
	"fmt"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// State is an optional state value. The zero State is absent.
type State[S any] struct {
	opt fn.Option[S]
}

// Some wraps a present state value.
func Some[S any](v S) State[S] {
	return State[S]{opt: fn.Some(v)}
}

// Absent returns the "no state yet" sentinel.
func Absent[S any]() State[S] {
	return State[S]{opt: fn.None[S]()}
}

// FromOption adapts an fn.Option, None being absent.
func FromOption[S any](o fn.Option[S]) State[S] {
	return State[S]{opt: o}
}

// Option returns the state as an fn.Option.
func (s State[S]) Option() fn.Option[S] {
	return s.opt
}

// Get returns the value and whether it is present.
func (s State[S]) Get() (S, bool) {
	var zero S
	return s.opt.UnwrapOr(zero), s.opt.IsSome()
}

// IsAbsent reports whether no value is present.
func (s State[S]) IsAbsent() bool {
	return s.opt.IsNone()
}

// OrElse returns the value, or v when absent.
func (s State[S]) OrElse(v S) S {
	return s.opt.UnwrapOr(v)
}

// Or returns s, or fallback when s is absent.
func (s State[S]) Or(fallback State[S]) State[S] {
	return State[S]{opt: s.opt.Alt(fallback.opt)}
}

// String renders the state for logs and test failures.
func (s State[S]) String() string {
	v, ok := s.Get()
	if !ok {
		return "<absent>"
	}
	return fmt.Sprintf("%v", v)
}
