// Package action builds tagged action records and the creator functions that
// produce them from positional arguments.
package action

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Type identifies the kind of an action record.
type Type string

// TypeField is the JSON key carrying an action's Type.
const TypeField = "type"

// Action is an immutable action record: a Type tag plus named payload fields
// kept in the order they were assigned.
type Action struct {
	Type Type

	names  []string
	values map[string]any
}

// New returns an action of type t with no payload fields.
func New(t Type) Action {
	return Action{Type: t}
}

// With returns a copy of a with field name set to value. Setting a field that
// already exists replaces its value but keeps its position.
func (a Action) With(name string, value any) Action {
	out := Action{
		Type:   a.Type,
		names:  make([]string, len(a.names), len(a.names)+1),
		values: make(map[string]any, len(a.values)+1),
	}
	copy(out.names, a.names)
	for k, v := range a.values {
		out.values[k] = v
	}
	out.set(name, value)
	return out
}

// set assigns a field in place. Only used while an action is being built.
func (a *Action) set(name string, value any) {
	if a.values == nil {
		a.values = make(map[string]any)
	}
	if _, ok := a.values[name]; !ok {
		a.names = append(a.names, name)
	}
	a.values[name] = value
}

// Get returns the value of a payload field.
func (a Action) Get(name string) (any, bool) {
	v, ok := a.values[name]
	return v, ok
}

// Has reports whether the payload field is present.
func (a Action) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

// Fields returns the payload field names in assignment order.
func (a Action) Fields() []string {
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}

// Len returns the number of payload fields.
func (a Action) Len() int {
	return len(a.names)
}

// MarshalJSON encodes the action as a flat record with the type first.
func (a Action) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	key, _ := json.Marshal(TypeField)
	val, err := json.Marshal(string(a.Type))
	if err != nil {
		return nil, err
	}
	buf.Write(key)
	buf.WriteByte(':')
	buf.Write(val)

	for _, name := range a.names {
		if name == TypeField {
			return nil, fmt.Errorf("%w: %q", ErrReservedField, name)
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(a.values[name])
		if err != nil {
			return nil, fmt.Errorf("marshal field %q: %w", name, err)
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a flat record. A non-empty "type" is required; every other
// key becomes a payload field in document order.
func (a *Action) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("action must be a JSON object")
	}

	out := Action{}
	hasType := false
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name := tok.(string)

		if name == TypeField {
			var t *string
			if err := dec.Decode(&t); err != nil {
				return fmt.Errorf("decode type: %w", err)
			}
			if t == nil || *t == "" {
				return ErrMissingType
			}
			out.Type = Type(*t)
			hasType = true
			continue
		}

		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("decode field %q: %w", name, err)
		}
		out.set(name, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	if !hasType {
		return ErrMissingType
	}
	*a = out
	return nil
}

// String renders the action for logs and test failures.
func (a Action) String() string {
	data, err := a.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("{type:%s}", a.Type)
	}
	return string(data)
}
