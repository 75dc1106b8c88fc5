// Package optional provides a tri-state JSON field: absent, null, or a
// value. Partial updates need the distinction — an absent field is left
// untouched while an explicit null clears a nullable column.
package optional

import (
	"bytes"
	"encoding/json"
)

// Value is a field that tracks whether it was present in the JSON payload
// and whether it carried null. The zero value is "absent" and marshals to
// nothing under the omitzero tag option.
type Value[T any] struct {
	set   bool
	valid bool
	value T
}

// Of returns a present, non-null Value.
func Of[T any](v T) Value[T] {
	return Value[T]{set: true, valid: true, value: v}
}

// Null returns a present Value carrying JSON null.
func Null[T any]() Value[T] {
	return Value[T]{set: true}
}

// IsSet reports whether the field appeared in the payload at all.
func (v Value[T]) IsSet() bool {
	return v.set
}

// IsNull reports whether the field was present and carried null.
func (v Value[T]) IsNull() bool {
	return v.set && !v.valid
}

// Get returns the value and whether a non-null value is present.
func (v Value[T]) Get() (T, bool) {
	return v.value, v.set && v.valid
}

// IsZero reports whether the field is absent, letting encoding/json omit
// it via the omitzero tag option.
func (v Value[T]) IsZero() bool {
	return !v.set
}

// UnmarshalJSON records presence and decodes non-null payloads.
func (v *Value[T]) UnmarshalJSON(data []byte) error {
	v.set = true
	if bytes.Equal(data, []byte("null")) {
		v.valid = false
		var zero T
		v.value = zero
		return nil
	}
	if err := json.Unmarshal(data, &v.value); err != nil {
		return err
	}
	v.valid = true
	return nil
}

// MarshalJSON emits null for present-null fields and the value otherwise.
// Absent fields are expected to be omitted by the caller via omitzero.
func (v Value[T]) MarshalJSON() ([]byte, error) {
	if !v.valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.value)
}
