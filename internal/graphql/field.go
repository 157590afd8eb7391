package graphql

import (
	"bytes"
	"encoding/json"
)

// Field is a response field that keeps "absent", "null" and "set" apart.
//
// The upstream schema omits fields the caller may not see and returns null
// for unknown values; a zero Value alone cannot tell those from a real 0 or
// empty list.
type Field[T any] struct {
	Value   T
	Present bool // the key was in the payload
	Null    bool // the key was present with a null value
}

// UnmarshalJSON records presence. encoding/json only calls it for keys that
// exist in the payload, null included.
func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Present = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		f.Null = true
		return nil
	}
	return json.Unmarshal(b, &f.Value)
}

// Get returns the value and whether it was present and not null.
func (f Field[T]) Get() (T, bool) {
	return f.Value, f.Present && !f.Null
}

// Or returns the value, or def when it is absent or null.
func (f Field[T]) Or(def T) T {
	if v, ok := f.Get(); ok {
		return v
	}
	return def
}
