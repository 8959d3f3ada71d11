package derive

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultPlaceholderPrice marks a side that has no independent price source.
// The magnitude is a heuristic; deployments may override it.
var DefaultPlaceholderPrice = decimal.New(1, -6)

// PriceInputs are the values PriceDeriver needs besides the quoter.
type PriceInputs struct {
	// Balances are decimal-adjusted.
	Balance0  decimal.Decimal
	Balance1  decimal.Decimal
	Decimals1 uint8
	// Price1Estimate is an external price for side 1, if one exists.
	Price1Estimate *decimal.Decimal
	Oracles        OraclePrices
	Placeholder    decimal.Decimal
}

// DerivePrices returns the prices of side 0 and side 1 for the given quoter.
func DerivePrices(q Quoter, in PriceInputs) (decimal.Decimal, decimal.Decimal, error) {
	switch q := q.(type) {
	case Oracle:
		return oraclePair(in.Oracles, q.Index0, q.Index1)
	case OracleV2:
		return oraclePair(in.Oracles, q.Index0, q.Index1)
	case ConstantProduct:
		price0, price1 := balancedPrices(in, decimal.Zero)
		return price0, price1, nil
	case OffsetConstantProduct:
		price0, price1 := balancedPrices(in, ScaleByDecimals(q.Offset, in.Decimals1))
		return price0, price1, nil
	default:
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: %T", ErrUnknownQuoter, q)
	}
}

func oraclePair(oracles OraclePrices, index0, index1 uint64) (decimal.Decimal, decimal.Decimal, error) {
	price0, err := oracles.Resolve(index0)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	price1, err := oracles.Resolve(index1)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return price0, price1, nil
}

// balancedPrices infers price0 assuming the pool is arbitraged against price1.
func balancedPrices(in PriceInputs, offset decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	placeholder := in.Placeholder
	if placeholder.IsZero() {
		placeholder = DefaultPlaceholderPrice
	}

	price1 := placeholder
	if in.Price1Estimate != nil {
		price1 = *in.Price1Estimate
	}

	if in.Balance0.IsZero() {
		return placeholder, price1
	}
	price0 := quo(in.Balance1.Add(offset), in.Balance0).Mul(price1)
	return price0, price1
}
