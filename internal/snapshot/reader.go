package snapshot

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"poolScope/internal/model"
)

// Snapshot is the decoded content of a snapshot file. When an object appears
// more than once, the highest version wins.
type Snapshot struct {
	Pools   []model.PoolRecord
	Banks   []model.BankRecord
	Oracles []model.OracleRecord
	Coins   []model.AssetDescriptor
	Errors  []model.DecodeError
	Total   int
}

// Read decodes the snapshot file at path.
func Read(path string) (Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open snapshot: %w", err)
	}
	defer file.Close()
	return Decode(file)
}

// Decode reads snapshot records from r. Malformed lines are collected in
// Snapshot.Errors rather than failing the whole read.
func Decode(r io.Reader) (Snapshot, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var snap Snapshot
	pools := make(map[string]model.PoolRecord)
	banks := make(map[string]model.BankRecord)
	oracles := make(map[uint64]model.OracleRecord)
	coins := make(map[string]model.AssetDescriptor)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		snap.Total++

		var rec model.SnapshotRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			snap.Errors = append(snap.Errors, model.DecodeError{Line: lineNo, Error: err.Error()})
			continue
		}

		if err := decodeRecord(rec, pools, banks, oracles, coins); err != nil {
			snap.Errors = append(snap.Errors, model.DecodeError{
				Line:     lineNo,
				Kind:     rec.Kind,
				ObjectID: rec.ObjectID,
				Version:  rec.Version,
				Error:    err.Error(),
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("scan snapshot: %w", err)
	}

	for _, pool := range pools {
		snap.Pools = append(snap.Pools, pool)
	}
	for _, bank := range banks {
		snap.Banks = append(snap.Banks, bank)
	}
	for _, oracle := range oracles {
		snap.Oracles = append(snap.Oracles, oracle)
	}
	for _, coin := range coins {
		snap.Coins = append(snap.Coins, coin)
	}
	sort.Slice(snap.Pools, func(i, j int) bool { return snap.Pools[i].PoolID < snap.Pools[j].PoolID })
	sort.Slice(snap.Banks, func(i, j int) bool { return snap.Banks[i].BankID < snap.Banks[j].BankID })
	sort.Slice(snap.Oracles, func(i, j int) bool { return snap.Oracles[i].Index < snap.Oracles[j].Index })
	sort.Slice(snap.Coins, func(i, j int) bool { return snap.Coins[i].CoinType < snap.Coins[j].CoinType })

	return snap, nil
}

func decodeRecord(
	rec model.SnapshotRecord,
	pools map[string]model.PoolRecord,
	banks map[string]model.BankRecord,
	oracles map[uint64]model.OracleRecord,
	coins map[string]model.AssetDescriptor,
) error {
	switch rec.Kind {
	case model.KindPool:
		var pool model.PoolRecord
		if err := json.Unmarshal(rec.Data, &pool); err != nil {
			return fmt.Errorf("decode pool: %w", err)
		}
		fillIdentity(&pool.PoolID, &pool.Version, rec)
		if pool.PoolID == "" {
			return fmt.Errorf("pool without id")
		}
		if existing, ok := pools[pool.PoolID]; !ok || existing.Version <= pool.Version {
			pools[pool.PoolID] = pool
		}
	case model.KindBank:
		var bank model.BankRecord
		if err := json.Unmarshal(rec.Data, &bank); err != nil {
			return fmt.Errorf("decode bank: %w", err)
		}
		fillIdentity(&bank.BankID, &bank.Version, rec)
		if bank.BankID == "" {
			return fmt.Errorf("bank without id")
		}
		if existing, ok := banks[bank.BankID]; !ok || existing.Version <= bank.Version {
			banks[bank.BankID] = bank
		}
	case model.KindOracle:
		var oracle model.OracleRecord
		if err := json.Unmarshal(rec.Data, &oracle); err != nil {
			return fmt.Errorf("decode oracle: %w", err)
		}
		oracles[oracle.Index] = oracle
	case model.KindCoin:
		var coin model.AssetDescriptor
		if err := json.Unmarshal(rec.Data, &coin); err != nil {
			return fmt.Errorf("decode coin: %w", err)
		}
		if coin.CoinType == "" {
			return fmt.Errorf("coin without type")
		}
		coins[coin.CoinType] = coin
	default:
		return fmt.Errorf("unsupported kind: %q", rec.Kind)
	}
	return nil
}

func fillIdentity(id *string, version *uint64, rec model.SnapshotRecord) {
	if *id == "" {
		*id = rec.ObjectID
	}
	if *version == 0 {
		*version = rec.Version
	}
}

// Digest fingerprints the snapshot's object versions and oracle prices. Two
// snapshots with the same digest derive the same metrics for the same feeds.
func (s Snapshot) Digest() uint64 {
	h := xxhash.New()
	write := func(parts ...string) {
		for _, part := range parts {
			_, _ = h.WriteString(part)
			_, _ = h.WriteString("|")
		}
	}
	for _, pool := range s.Pools {
		write("pool", pool.PoolID, strconv.FormatUint(pool.Version, 10))
	}
	for _, bank := range s.Banks {
		write("bank", bank.BankID, strconv.FormatUint(bank.Version, 10))
	}
	for _, oracle := range s.Oracles {
		write("oracle", strconv.FormatUint(oracle.Index, 10), oracle.Price.String(), strconv.Itoa(int(oracle.Decimals)))
	}
	for _, coin := range s.Coins {
		write("coin", coin.CoinType, strconv.Itoa(int(coin.Decimals)))
	}
	return h.Sum64()
}
