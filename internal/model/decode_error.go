package model

// DecodeError records a decode failure for a snapshot line.
type DecodeError struct {
	Line     int    `json:"line"`
	Kind     string `json:"kind,omitempty"`
	ObjectID string `json:"object_id,omitempty"`
	Version  uint64 `json:"version,omitempty"`
	Error    string `json:"error"`
}
