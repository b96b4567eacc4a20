package config

import "encoding/json"

const redacted = "[REDACTED]"

// Secret is a credential that never renders its value in logs, dumps or serialized config
type Secret string

// Value returns the raw credential; only transport code should call it
func (s Secret) Value() string {
	return string(s)
}

// IsSet reports whether a credential is present
func (s Secret) IsSet() bool {
	return s != ""
}

func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

func (s Secret) GoString() string {
	return s.String()
}

func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s Secret) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}
