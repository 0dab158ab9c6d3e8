package dto

import "encoding/json"

// NullableString records whether a JSON key was present and whether it was null.
type NullableString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON implements json.Unmarshaler. It is invoked for explicit nulls
// too, which is what lets absent and null keys be told apart.
func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Present = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}
