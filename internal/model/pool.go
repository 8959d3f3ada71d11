package model

import "github.com/shopspring/decimal"

// PoolRecord is the decoded state of an AMM pool. Side0 and Side1 are the
// derivative-token types held by the pool.
type PoolRecord struct {
	PoolID                 string           `json:"pool_id"`
	Version                uint64           `json:"version"`
	Side0                  string           `json:"type_x"`
	Side1                  string           `json:"type_y"`
	QuoterType             string           `json:"quoter_type"`
	Quoter                 QuoterFields     `json:"quoter"`
	LPSupply               decimal.Decimal  `json:"lp_supply"`
	SwapFeeBps             decimal.Decimal  `json:"swap_fee_bps"`
	ProtocolFeeNumerator   decimal.Decimal  `json:"protocol_fee_numerator"`
	ProtocolFeeDenominator decimal.Decimal  `json:"protocol_fee_denominator"`
	RedeemQuote            *RedeemQuote     `json:"redeem_quote,omitempty"`
	LPMinted               *decimal.Decimal `json:"lp_minted,omitempty"`
	LPBurned               *decimal.Decimal `json:"lp_burned,omitempty"`
}

// QuoterFields carries the variant-specific quoter state. Which fields are set
// depends on the quoter type.
type QuoterFields struct {
	OracleIndex0  *uint64          `json:"oracle_index_x,omitempty"`
	OracleIndex1  *uint64          `json:"oracle_index_y,omitempty"`
	Decimals0     *uint8           `json:"decimals_x,omitempty"`
	Decimals1     *uint8           `json:"decimals_y,omitempty"`
	Offset        *decimal.Decimal `json:"offset,omitempty"`
	Amplification *decimal.Decimal `json:"amp,omitempty"`
}

// RedeemQuote holds raw withdrawable underlying balances per side.
type RedeemQuote struct {
	Amount0 decimal.Decimal `json:"amount_x"`
	Amount1 decimal.Decimal `json:"amount_y"`
}
