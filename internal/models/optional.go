package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Optional distinguishes an absent field from a present one. A JSON null is
// treated as absent.
type Optional[T any] struct {
	Value T
	Set   bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.Value, o.Set = zero, false
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Set = true
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// NonBlank returns the value when it is present and not whitespace-only.
func NonBlank(o Optional[string]) (string, bool) {
	if !o.Set || strings.TrimSpace(o.Value) == "" {
		return "", false
	}
	return o.Value, true
}
