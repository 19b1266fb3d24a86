package aspect

import (
	"fmt"
	"strings"
)

// Type is the schema-level classification of an aspect's values. It is
// declared by a Definition and enforced when a value is attached to a
// scope; the filter engine keeps inferring types per value and stays
// consistent with it by construction.
type Type string

const (
	TypeText     Type = "text"
	TypeNumeric  Type = "numeric"
	TypeBoolean  Type = "boolean"
	TypeDuration Type = "duration"
	TypeOrdered  Type = "ordered"
)

// validTypes is the set of allowed aspect types.
var validTypes = map[Type]bool{
	TypeText:     true,
	TypeNumeric:  true,
	TypeBoolean:  true,
	TypeDuration: true,
	TypeOrdered:  true,
}

// ValidateType returns an error if the type is not recognized.
func ValidateType(t Type) error {
	if !validTypes[t] {
		return fmt.Errorf("invalid aspect type %q: must be one of: text, numeric, boolean, duration, ordered", t)
	}
	return nil
}

// Definition declares the expected shape of one aspect's values.
// AllowedValues is meaningful only for the ordered type, where it lists
// the permitted values from lowest to highest.
type Definition struct {
	Key           Key
	Type          Type
	AllowedValues []Value
}

// NewDefinition validates and builds a Definition. An ordered definition
// requires at least one allowed value; other types must not carry any.
func NewDefinition(key Key, t Type, allowed []Value) (Definition, error) {
	if err := ValidateType(t); err != nil {
		return Definition{}, err
	}
	if t == TypeOrdered && len(allowed) == 0 {
		return Definition{}, fmt.Errorf("ordered aspect %q requires at least one allowed value", key)
	}
	if t != TypeOrdered && len(allowed) > 0 {
		return Definition{}, fmt.Errorf("aspect %q of type %s must not declare allowed values", key, t)
	}
	return Definition{Key: key, Type: t, AllowedValues: allowed}, nil
}

// Validate reports whether v conforms to the definition's declared type.
func (d Definition) Validate(v Value) error {
	switch d.Type {
	case TypeText:
		return nil
	case TypeNumeric:
		if !v.IsNumeric() {
			return fmt.Errorf("aspect %q requires a numeric value, got %q", d.Key, v)
		}
	case TypeBoolean:
		if !v.IsBool() {
			return fmt.Errorf("aspect %q requires a boolean value, got %q", d.Key, v)
		}
	case TypeDuration:
		if !v.IsDuration() {
			return fmt.Errorf("aspect %q requires a duration value, got %q", d.Key, v)
		}
	case TypeOrdered:
		for _, a := range d.AllowedValues {
			if a.String() == v.String() {
				return nil
			}
		}
		return fmt.Errorf("aspect %q requires one of [%s], got %q", d.Key, joinValues(d.AllowedValues), v)
	}
	return nil
}

func joinValues(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}
