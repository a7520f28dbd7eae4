package pets

import "encoding/json"

// Patch distingue "campo ausente" de "campo en null" en un PUT/PATCH parcial.
// Set=false: no tocar. Set=true y Null=true: limpiar (solo campos opcionales).
type Patch[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (p *Patch[T]) UnmarshalJSON(b []byte) error {
	p.Set = true
	if string(b) == "null" {
		p.Null = true
		return nil
	}
	// Sin envolver: el decoder agrega el nombre del campo al *json.UnmarshalTypeError.
	return json.Unmarshal(b, &p.Value)
}

func Some[T any](v T) Patch[T] {
	return Patch[T]{Set: true, Value: v}
}

func Null[T any]() Patch[T] {
	return Patch[T]{Set: true, Null: true}
}
