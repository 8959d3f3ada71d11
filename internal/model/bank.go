package model

import "github.com/shopspring/decimal"

// BankRecord is the decoded state of a lending bank. Amounts are raw integers
// in the underlying coin's base units.
type BankRecord struct {
	BankID           string          `json:"bank_id"`
	Version          uint64          `json:"version"`
	CoinType         string          `json:"coin_type"`
	DerivativeType   string          `json:"ftoken_type"`
	Available        decimal.Decimal `json:"funds_available"`
	DerivativeSupply decimal.Decimal `json:"ftoken_supply"`
	TotalFunds       decimal.Decimal `json:"total_funds"`
}

// ParsedBank holds decimal-adjusted bank metrics.
type ParsedBank struct {
	BankID             string          `json:"bank_id"`
	Version            uint64          `json:"version"`
	CoinType           string          `json:"coin_type"`
	DerivativeType     string          `json:"ftoken_type"`
	FundsAvailable     decimal.Decimal `json:"funds_available"`
	FundsDeployed      decimal.Decimal `json:"funds_deployed"`
	TotalFunds         decimal.Decimal `json:"total_funds"`
	DerivativeSupply   decimal.Decimal `json:"ftoken_supply"`
	ExchangeRate       decimal.Decimal `json:"exchange_rate"`
	UtilizationPercent decimal.Decimal `json:"utilization_percent"`
	YieldPercent       decimal.Decimal `json:"yield_percent"`
}
