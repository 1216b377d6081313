package action

// DefaultField is the payload field used when a creator is built without one.
const DefaultField = "payload"

// Creator builds a fresh action from positional arguments.
type Creator func(args ...any) Action

// Fields normalizes a payload specification. An empty specification means the
// single field "payload".
func Fields(spec ...string) []string {
	if len(spec) == 0 {
		return []string{DefaultField}
	}
	out := make([]string, len(spec))
	copy(out, spec)
	return out
}

// NewCreator returns a Creator for type t. Argument i is stored under
// fields[i]; extra arguments are dropped and fields without an argument are
// left unset. An argument bound to the "type" field replaces the action's
// type when it is a string or Type and is dropped otherwise.
func NewCreator(t Type, fields ...string) Creator {
	names := Fields(fields...)
	return func(args ...any) Action {
		a := New(t)
		for i := 0; i < len(names) && i < len(args); i++ {
			if names[i] == TypeField {
				switch v := args[i].(type) {
				case Type:
					a.Type = v
				case string:
					a.Type = Type(v)
				}
				continue
			}
			a.set(names[i], args[i])
		}
		return a
	}
}
