package patch

import (
	"bytes"
	"encoding/json"
)

// Field is one field of a merge-patch style JSON payload with three
// distinct states: absent from the payload (leave the stored value
// unchanged), explicit null (clear the value), or a concrete value.
// Plain pointer fields cannot tell the first two apart, which is why
// partial-update payloads bind into Field values instead.
type Field[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// Set returns a present, non-null field holding v.
func Set[T any](v T) Field[T] {
	return Field[T]{Present: true, Value: v}
}

// Null returns a present field that is explicitly null.
func Null[T any]() Field[T] {
	return Field[T]{Present: true, Null: true}
}

// UnmarshalJSON records that the field appeared in the payload and
// whether it was null. A value of the wrong JSON type is swallowed and
// leaves the field absent, so the stored value is kept as-is.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Present = true
		f.Null = true
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		f.Present = false
		f.Null = false
		return nil
	}
	f.Present = true
	f.Value = v
	return nil
}

// MarshalJSON emits null for null/absent fields and the value otherwise.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Present || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Ptr returns the value as a pointer, nil when the field is null or
// absent. This maps a field directly onto a nullable entity column.
func (f Field[T]) Ptr() *T {
	if !f.Present || f.Null {
		return nil
	}
	v := f.Value
	return &v
}
