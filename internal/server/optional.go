// ABOUTME: Tri-state JSON fields for PATCH bodies.
// ABOUTME: Distinguishes absent, explicit null, and a provided value.
package server

import "encoding/json"

// optStr is a string field that records whether it appeared in the
// request at all. An explicit null leaves Value nil with Set true,
// which clears the underlying column.
type optStr struct {
	Set   bool
	Value *string
}

func (o *optStr) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// optInt64 is the int64 counterpart of optStr.
type optInt64 struct {
	Set   bool
	Value *int64
}

func (o *optInt64) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}
