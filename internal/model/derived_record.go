package model

import "time"

// Derived record kinds.
const (
	DerivedBank = "bank"
	DerivedPool = "pool"
)

// DerivedRecord is one line of the derived output JSONL file. Exactly one of
// Bank or Pool is set.
type DerivedRecord struct {
	RunID     string      `json:"run_id"`
	Kind      string      `json:"kind"`
	DerivedAt time.Time   `json:"derived_at"`
	Bank      *ParsedBank `json:"bank,omitempty"`
	Pool      *ParsedPool `json:"pool,omitempty"`
}

// Records flattens a batch into output records, banks first.
func (b DerivedBatch) Records() []DerivedRecord {
	out := make([]DerivedRecord, 0, len(b.Banks)+len(b.Pools))
	for i := range b.Banks {
		out = append(out, DerivedRecord{RunID: b.RunID, Kind: DerivedBank, DerivedAt: b.DerivedAt, Bank: &b.Banks[i]})
	}
	for i := range b.Pools {
		out = append(out, DerivedRecord{RunID: b.RunID, Kind: DerivedPool, DerivedAt: b.DerivedAt, Pool: &b.Pools[i]})
	}
	return out
}
