// ABOUTME: PromptMap type for stage prompt answers.
// ABOUTME: Serialized as a JSON blob column with tolerant decoding.
package models

import "encoding/json"

// PromptMap holds prompt→answer text for a wizard stage. It is stored
// as a JSON text column, so encode/decode must round-trip exactly.
type PromptMap map[string]string

// EncodePromptMap serializes a prompt map for storage. A nil map
// encodes as the empty object so the column never holds NULL.
func EncodePromptMap(m PromptMap) string {
	if m == nil {
		m = PromptMap{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// DecodePromptMap deserializes a stored prompt map. Malformed or empty
// input yields an empty map rather than an error; old rows may hold
// anything.
func DecodePromptMap(s string) PromptMap {
	if s == "" {
		return PromptMap{}
	}
	var m PromptMap
	if err := json.Unmarshal([]byte(s), &m); err != nil || m == nil {
		return PromptMap{}
	}
	return m
}
