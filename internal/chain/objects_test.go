package chain

import (
	"encoding/json"
	"testing"
	"time"

	"poolScope/internal/model"
)

var testTypes = ObjectTypes{
	Pool:   "0xa1::pool::Pool",
	Bank:   "0xb1::bank::Bank",
	Oracle: "0xc1::oracle::PriceFeed",
}

func TestToSnapshotPool(t *testing.T) {
	obj := Object{
		ObjectID: "0x55",
		Version:  "1024",
		Type:     "0x00a1::pool::Pool<0xf1::ftoken::FToken<0x2::sui::SUI>, 0xf1::ftoken::FToken<0xd::usdc::USDC>, 0xa1::oracle_quoter::OracleQuoter>",
		Content: &ObjectContent{
			DataType: "moveObject",
			Fields:   json.RawMessage(`{"lp_supply":"1000","swap_fee_bps":"25","quoter":{"oracle_index_x":1,"oracle_index_y":2}}`),
		},
	}

	rec, ok, err := ToSnapshot(obj, testTypes, time.Unix(1700000000, 0))
	if err != nil || !ok {
		t.Fatalf("to snapshot: ok=%v err=%v", ok, err)
	}
	if rec.Kind != model.KindPool || rec.Version != 1024 {
		t.Fatalf("record mismatch: %+v", rec)
	}

	var pool model.PoolRecord
	if err := json.Unmarshal(rec.Data, &pool); err != nil {
		t.Fatalf("decode pool: %v", err)
	}
	if pool.PoolID != "0x55" || pool.QuoterType != "0xa1::oracle_quoter::OracleQuoter" {
		t.Fatalf("pool identity mismatch: %+v", pool)
	}
	if pool.Side1 != "0xf1::ftoken::FToken<0xd::usdc::USDC>" {
		t.Fatalf("side1 mismatch: %s", pool.Side1)
	}
	if pool.SwapFeeBps.IntPart() != 25 {
		t.Fatalf("swap fee mismatch: %s", pool.SwapFeeBps)
	}
}

func TestToSnapshotBankAndUnrelated(t *testing.T) {
	bank := Object{
		ObjectID: "0x66",
		Version:  "7",
		Type:     "0xb1::bank::Bank<0x2::sui::SUI>",
		Content: &ObjectContent{
			Fields: json.RawMessage(`{"ftoken_type":"0xf1::ftoken::FToken<0x2::sui::SUI>","funds_available":"10","total_funds":"40","ftoken_supply":"38"}`),
		},
	}
	rec, ok, err := ToSnapshot(bank, testTypes, time.Now())
	if err != nil || !ok || rec.Kind != model.KindBank {
		t.Fatalf("bank snapshot: %+v ok=%v err=%v", rec, ok, err)
	}
	var decoded model.BankRecord
	if err := json.Unmarshal(rec.Data, &decoded); err != nil {
		t.Fatalf("decode bank: %v", err)
	}
	if decoded.CoinType != "0x2::sui::SUI" || decoded.BankID != "0x66" {
		t.Fatalf("bank mismatch: %+v", decoded)
	}

	other := Object{ObjectID: "0x77", Version: "1", Type: "0x2::coin::Coin<0x2::sui::SUI>", Content: &ObjectContent{Fields: json.RawMessage(`{}`)}}
	if _, ok, err := ToSnapshot(other, testTypes, time.Now()); ok || err != nil {
		t.Fatalf("unrelated object should be ignored: ok=%v err=%v", ok, err)
	}

	bad := bank
	bad.Version = "v7"
	if _, _, err := ToSnapshot(bad, testTypes, time.Now()); err == nil {
		t.Fatalf("expected version error")
	}
}

func TestParseObjectIDs(t *testing.T) {
	ids, err := ParseObjectIDs([]string{" 0x5 ", "", "0x05", "0xABC"})
	if err != nil {
		t.Fatalf("parse ids: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %v", ids)
	}
	if ids[0] != "0x0000000000000000000000000000000000000000000000000000000000000005" {
		t.Fatalf("padding mismatch: %s", ids[0])
	}

	for _, bad := range []string{"5", "0x", "0xzz"} {
		if _, err := ParseObjectIDs([]string{bad}); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
