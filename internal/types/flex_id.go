package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexID is an optional entity id that can be unmarshaled from a JSON number, a numeric JSON
// string or null. Valid is false when the id was absent or null.
type FlexID struct {
	ID    uint64
	Valid bool
}

// ParseFlexID parses a query or path value. An empty string yields an invalid FlexID.
func ParseFlexID(s string) (FlexID, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return FlexID{}, nil
	}
	val, err := strconv.ParseUint(s, 10, 64)
	if err != nil || val == 0 {
		return FlexID{}, fmt.Errorf("FlexID: invalid id %q", s)
	}
	return FlexID{ID: val, Valid: true}, nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = FlexID{}
		return nil
	}

	// Try unmarshaling as a number first
	var n uint64
	if err := json.Unmarshal(data, &n); err == nil {
		if n == 0 {
			return fmt.Errorf("FlexID: id must be positive")
		}
		*f = FlexID{ID: n, Valid: true}
		return nil
	}

	// Try unmarshaling as a string
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := ParseFlexID(s)
		if err != nil {
			return err
		}
		*f = parsed
		return nil
	}

	return fmt.Errorf("FlexID: unexpected type, expected number or string")
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexID) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.ID)
}

// Ptr returns the id, or nil when absent
func (f FlexID) Ptr() *uint64 {
	if !f.Valid {
		return nil
	}
	id := f.ID
	return &id
}

// Or returns the first valid id of f and others
func (f FlexID) Or(others ...FlexID) FlexID {
	if f.Valid {
		return f
	}
	for _, o := range others {
		if o.Valid {
			return o
		}
	}
	return FlexID{}
}
