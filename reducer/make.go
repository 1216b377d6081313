package reducer

import (
	"fmt"

	"github.com/c360studio/actionplan/action"
)

// Make picks a builder from the shape of its first argument:
//
//   - action.Type or string: BindOne(shape, h, init)
//   - []action.Type or []string: BindMany(shape, h, init)
//   - map[action.Type]Handler[S]: Combine(shape, init); h is unused
//
// Any other shape returns ErrUnsupportedShape.
func Make[S any](shape any, h Handler[S], init State[S]) (Reducer[S], error) {
	switch v := shape.(type) {
	case action.Type:
		return BindOne(v, h, init), nil
	case string:
		return BindOne(action.Type(v), h, init), nil
	case []action.Type:
		return BindMany(v, h, init), nil
	case []string:
		types := make([]action.Type, len(v))
		for i, t := range v {
			types[i] = action.Type(t)
		}
		return BindMany(types, h, init), nil
	case map[action.Type]Handler[S]:
		return Combine(v, init), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedShape, shape)
	}
}

// MustMake is like Make but panics on an unsupported shape.
func MustMake[S any](shape any, h Handler[S], init State[S]) Reducer[S] {
	r, err := Make(shape, h, init)
	if err != nil {
		panic(err)
	}
	return r
}
