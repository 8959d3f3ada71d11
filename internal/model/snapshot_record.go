package model

import "encoding/json"

// Snapshot record kinds.
const (
	KindPool   = "pool"
	KindBank   = "bank"
	KindOracle = "oracle"
	KindCoin   = "coin"
)

// SnapshotRecord is one line of a snapshot JSONL file. Data holds the
// kind-specific record.
type SnapshotRecord struct {
	Kind      string          `json:"kind"`
	ObjectID  string          `json:"object_id,omitempty"`
	Version   uint64          `json:"version,omitempty"`
	FetchedAt string          `json:"fetched_at,omitempty"`
	Data      json.RawMessage `json:"data"`
}
