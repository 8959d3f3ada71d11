package model

import "time"

// DerivedBatch is the output of one derivation run.
type DerivedBatch struct {
	RunID     string
	Digest    string
	DerivedAt time.Time
	Banks     []ParsedBank
	Pools     []ParsedPool
	Skipped   int
}
