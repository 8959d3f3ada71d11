package model

import "github.com/shopspring/decimal"

// OracleRecord is one registered price feed. Price is a raw integer scaled by
// 10^Decimals.
type OracleRecord struct {
	Index    uint64          `json:"index"`
	Price    decimal.Decimal `json:"price"`
	Decimals uint8           `json:"decimals"`
}
