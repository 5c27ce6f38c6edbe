package models

import (
	"bytes"
	"encoding/json"
)

// Optional distinguishes "not sent" from a zero value in a JSON body.
// A JSON null is treated the same as an absent field.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns a present Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional[T]{}
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

// ValidationValue hands the validator a pointer to the inner value, or a nil
// pointer when absent, so omitnil skips absent fields and a present zero
// value is still checked.
func (o Optional[T]) ValidationValue() any {
	if !o.Set {
		return (*T)(nil)
	}
	v := o.Value
	return &v
}
