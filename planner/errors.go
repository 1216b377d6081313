package planner

import "errors"

// ErrUnknownName is returned when a name is missing from the planner's mapping.
var ErrUnknownName = errors.New("unknown action name")
