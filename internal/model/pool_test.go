package model

import (
	"encoding/json"
	"testing"
)

func TestPoolRecordDecodesStringAmounts(t *testing.T) {
	payload := []byte(`{
		"pool_id": "0x1",
		"type_x": "0x2::ftoken::FToken<0x2::sui::SUI>",
		"type_y": "0x2::ftoken::FToken<0x3::usdc::USDC>",
		"quoter_type": "0x5::oracle_quoter::OracleQuoter",
		"quoter": {"oracle_index_x": 3, "oracle_index_y": 7},
		"lp_supply": "18446744073709551615",
		"swap_fee_bps": 30,
		"protocol_fee_numerator": "1",
		"protocol_fee_denominator": "5",
		"redeem_quote": {"amount_x": "1000000000", "amount_y": "2500000"}
	}`)

	var pool PoolRecord
	if err := json.Unmarshal(payload, &pool); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if pool.LPSupply.String() != "18446744073709551615" {
		t.Fatalf("lp supply mismatch: %s", pool.LPSupply)
	}
	if pool.SwapFeeBps.IntPart() != 30 {
		t.Fatalf("swap fee mismatch: %s", pool.SwapFeeBps)
	}
	if pool.Quoter.OracleIndex0 == nil || *pool.Quoter.OracleIndex0 != 3 {
		t.Fatalf("oracle index x mismatch: %+v", pool.Quoter)
	}
	if pool.Quoter.Offset != nil {
		t.Fatalf("offset should be unset")
	}
	if pool.RedeemQuote == nil || pool.RedeemQuote.Amount1.String() != "2500000" {
		t.Fatalf("redeem quote mismatch: %+v", pool.RedeemQuote)
	}
}

func TestParsedPoolEncodesDecimalsAsStrings(t *testing.T) {
	data, err := json.Marshal(ParsedPool{PoolID: "0x1", Variant: QuoterOracle})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	for _, key := range []string{"tvl", "price_x", "balance_y", "blended_yield_percent"} {
		if _, ok := decoded[key].(string); !ok {
			t.Fatalf("%s should be string", key)
		}
	}
	if _, ok := decoded["lp_minted"]; ok {
		t.Fatalf("lp_minted should be omitted")
	}
}
