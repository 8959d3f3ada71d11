package chain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"poolScope/internal/model"
)

// ObjectTypes are the base Move types of a deployment's pool, bank and oracle
// objects, without generic arguments.
type ObjectTypes struct {
	Pool   string
	Bank   string
	Oracle string
}

// ToSnapshot maps a fetched object onto a snapshot record. Object fields are
// expected to carry the record's JSON field names. It returns false for objects
// of an unrelated type.
func ToSnapshot(obj Object, types ObjectTypes, fetchedAt time.Time) (model.SnapshotRecord, bool, error) {
	typeTag := obj.Type
	if typeTag == "" && obj.Content != nil {
		typeTag = obj.Content.Type
	}
	if obj.Content == nil || len(obj.Content.Fields) == 0 {
		return model.SnapshotRecord{}, false, fmt.Errorf("object %s: no content", obj.ObjectID)
	}

	version, err := strconv.ParseUint(obj.Version, 10, 64)
	if err != nil {
		return model.SnapshotRecord{}, false, fmt.Errorf("object %s: version %q: %w", obj.ObjectID, obj.Version, err)
	}

	var kind string
	var data interface{}
	base := model.NormalizeTypeTag(model.BaseType(typeTag))
	args := model.TypeArgs(typeTag)

	switch {
	case types.Pool != "" && base == model.NormalizeTypeTag(types.Pool):
		var pool model.PoolRecord
		if err := json.Unmarshal(obj.Content.Fields, &pool); err != nil {
			return model.SnapshotRecord{}, false, fmt.Errorf("pool %s: %w", obj.ObjectID, err)
		}
		pool.PoolID = obj.ObjectID
		pool.Version = version
		if len(args) >= 3 {
			fillEmpty(&pool.Side0, args[0])
			fillEmpty(&pool.Side1, args[1])
			fillEmpty(&pool.QuoterType, args[2])
		}
		kind, data = model.KindPool, pool
	case types.Bank != "" && base == model.NormalizeTypeTag(types.Bank):
		var bank model.BankRecord
		if err := json.Unmarshal(obj.Content.Fields, &bank); err != nil {
			return model.SnapshotRecord{}, false, fmt.Errorf("bank %s: %w", obj.ObjectID, err)
		}
		bank.BankID = obj.ObjectID
		bank.Version = version
		if len(args) >= 1 {
			fillEmpty(&bank.CoinType, args[0])
		}
		kind, data = model.KindBank, bank
	case types.Oracle != "" && base == model.NormalizeTypeTag(types.Oracle):
		var oracle model.OracleRecord
		if err := json.Unmarshal(obj.Content.Fields, &oracle); err != nil {
			return model.SnapshotRecord{}, false, fmt.Errorf("oracle %s: %w", obj.ObjectID, err)
		}
		kind, data = model.KindOracle, oracle
	default:
		return model.SnapshotRecord{}, false, nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return model.SnapshotRecord{}, false, fmt.Errorf("marshal %s %s: %w", kind, obj.ObjectID, err)
	}

	return model.SnapshotRecord{
		Kind:      kind,
		ObjectID:  obj.ObjectID,
		Version:   version,
		FetchedAt: fetchedAt.UTC().Format(time.RFC3339Nano),
		Data:      raw,
	}, true, nil
}

// CoinSnapshot wraps coin metadata as a snapshot record.
func CoinSnapshot(meta CoinMeta, fetchedAt time.Time) (model.SnapshotRecord, error) {
	raw, err := json.Marshal(meta)
	if err != nil {
		return model.SnapshotRecord{}, fmt.Errorf("marshal coin %s: %w", meta.CoinType, err)
	}
	return model.SnapshotRecord{
		Kind:      model.KindCoin,
		FetchedAt: fetchedAt.UTC().Format(time.RFC3339Nano),
		Data:      raw,
	}, nil
}

func fillEmpty(target *string, value string) {
	if strings.TrimSpace(*target) == "" {
		*target = value
	}
}
