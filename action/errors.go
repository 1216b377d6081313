package action

import "errors"

// Action errors.
var (
	// ErrUnknownAction is returned when a group has no creator for a name.
	ErrUnknownAction = errors.New("unknown action")

	// ErrMissingType is returned when a decoded record has no "type" key, or
	// a null or empty one.
	ErrMissingType = errors.New("action record has no type")

	// ErrReservedField is returned when a payload field collides with the type key.
	ErrReservedField = errors.New("payload field name is reserved")
)
