package derive

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"poolScope/internal/model"
)

const (
	coinSUI  = "0x2::sui::SUI"
	coinUSDC = "0xdba3::usdc::USDC"
	ftSUI    = "0xf1::ftoken::FToken<0x2::sui::SUI>"
	ftUSDC   = "0xf1::ftoken::FToken<0xdba3::usdc::USDC>"
)

var testQuoters = QuoterTypes{
	ConstantProduct: "0xa1::cp_quoter::CpQuoter",
	Oracle:          "0xa1::oracle_quoter::OracleQuoter",
	OracleV2:        "0xa1::oracle_quoter_v2::OracleQuoterV2",
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func u64Ptr(v uint64) *uint64 {
	return &v
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

func testAssets() AssetLookup {
	return NewAssetLookup([]model.AssetDescriptor{
		{CoinType: coinSUI, Decimals: 9, Symbol: "SUI"},
		{CoinType: coinUSDC, Decimals: 6, Symbol: "USDC"},
	})
}
