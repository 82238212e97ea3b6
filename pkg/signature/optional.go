package signature

import (
	"encoding/json"
	"strings"
)

// Optional is a string that may be absent.
// The zero value is absent.
type Optional struct {
	Value string
	Valid bool
}

// Some returns a present optional holding v.
// Blank input yields an absent value.
func Some(v string) Optional {
	if strings.TrimSpace(v) == "" {
		return Optional{}
	}
	return Optional{Value: v, Valid: true}
}

// None returns an absent optional.
func None() Optional {
	return Optional{}
}

// Present reports whether the value is set and non-blank.
func (o Optional) Present() bool {
	return o.Valid && strings.TrimSpace(o.Value) != ""
}

// String returns the value, or an empty string when absent.
func (o Optional) String() string {
	if !o.Valid {
		return ""
	}
	return o.Value
}

// MarshalJSON encodes an absent value as null.
func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// UnmarshalJSON accepts a string or null.
func (o *Optional) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil {
		*o = None()
		return nil
	}
	*o = Some(*s)
	return nil
}

// MarshalYAML encodes an absent value as null.
func (o Optional) MarshalYAML() (any, error) {
	if !o.Present() {
		return nil, nil
	}
	return o.Value, nil
}

// UnmarshalYAML accepts a scalar string.
func (o *Optional) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	*o = Some(s)
	return nil
}
