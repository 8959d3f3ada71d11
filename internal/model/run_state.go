package model

import "time"

// RunState records the last published derivation run.
type RunState struct {
	RunID     string    `json:"run_id"`
	Digest    string    `json:"digest"`
	DerivedAt time.Time `json:"derived_at"`
}
