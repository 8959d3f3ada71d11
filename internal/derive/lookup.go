package derive

import (
	"github.com/shopspring/decimal"

	"poolScope/internal/model"
)

// CoinValues maps a coin type to a per-coin value such as a base yield or an
// external price estimate. Keys are normalized type tags.
type CoinValues map[string]decimal.Decimal

// NewCoinValues builds CoinValues from a map keyed by raw coin types.
func NewCoinValues(values map[string]decimal.Decimal) CoinValues {
	out := make(CoinValues, len(values))
	for coinType, value := range values {
		out[model.NormalizeTypeTag(coinType)] = value
	}
	return out
}

// Get returns the value for coinType, or zero when absent.
func (c CoinValues) Get(coinType string) (decimal.Decimal, bool) {
	value, ok := c[model.NormalizeTypeTag(coinType)]
	if !ok {
		return decimal.Zero, false
	}
	return value, true
}

// BankLookup indexes parsed banks by their derivative-token type.
type BankLookup map[string]model.ParsedBank

func NewBankLookup(banks []model.ParsedBank) BankLookup {
	out := make(BankLookup, len(banks))
	for _, bank := range banks {
		out[model.NormalizeTypeTag(bank.DerivativeType)] = bank
	}
	return out
}

func (l BankLookup) Get(derivativeType string) (model.ParsedBank, bool) {
	bank, ok := l[model.NormalizeTypeTag(derivativeType)]
	return bank, ok
}

// AssetLookup indexes coin metadata by coin type.
type AssetLookup map[string]model.AssetDescriptor

func NewAssetLookup(assets []model.AssetDescriptor) AssetLookup {
	out := make(AssetLookup, len(assets))
	for _, asset := range assets {
		out[model.NormalizeTypeTag(asset.CoinType)] = asset
	}
	return out
}

func (l AssetLookup) Get(coinType string) (model.AssetDescriptor, bool) {
	asset, ok := l[model.NormalizeTypeTag(coinType)]
	return asset, ok
}
