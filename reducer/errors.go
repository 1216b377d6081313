package reducer

import "errors"

// ErrUnsupportedShape is returned by Make when its first argument is neither
// a type, a type sequence nor a type-to-handler map.
var ErrUnsupportedShape = errors.New("unsupported reducer shape")
