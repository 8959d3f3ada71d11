package derive

import (
	"fmt"

	"github.com/shopspring/decimal"

	"poolScope/internal/model"
)

// OraclePrices maps an oracle index to its resolved price.
type OraclePrices map[uint64]decimal.Decimal

// NewOraclePrices scales raw oracle records into prices.
func NewOraclePrices(records []model.OracleRecord) OraclePrices {
	prices := make(OraclePrices, len(records))
	for _, rec := range records {
		prices[rec.Index] = ScaleByDecimals(rec.Price, rec.Decimals)
	}
	return prices
}

// Resolve returns the price registered for index.
func (p OraclePrices) Resolve(index uint64) (decimal.Decimal, error) {
	price, ok := p[index]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %d", ErrOracleIndexUnresolved, index)
	}
	return price, nil
}
