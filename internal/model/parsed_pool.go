package model

import "github.com/shopspring/decimal"

// QuoterVariant names the pricing rule of a pool.
type QuoterVariant string

const (
	QuoterConstantProduct       QuoterVariant = "constant_product"
	QuoterOffsetConstantProduct QuoterVariant = "offset_constant_product"
	QuoterOracle                QuoterVariant = "oracle"
	QuoterOracleV2              QuoterVariant = "oracle_v2"
)

// ParsedPool stores normalized metrics for a pool snapshot.
type ParsedPool struct {
	PoolID              string           `json:"pool_id"`
	Version             uint64           `json:"version"`
	Variant             QuoterVariant    `json:"variant"`
	CoinType0           string           `json:"coin_type_x"`
	CoinType1           string           `json:"coin_type_y"`
	Balance0            decimal.Decimal  `json:"balance_x"`
	Balance1            decimal.Decimal  `json:"balance_y"`
	Price0              decimal.Decimal  `json:"price_x"`
	Price1              decimal.Decimal  `json:"price_y"`
	TVL                 decimal.Decimal  `json:"tvl"`
	FeeTierPercent      decimal.Decimal  `json:"fee_tier_percent"`
	ProtocolFeePercent  decimal.Decimal  `json:"protocol_fee_percent"`
	Yield0Percent       decimal.Decimal  `json:"yield_x_percent"`
	Yield1Percent       decimal.Decimal  `json:"yield_y_percent"`
	BlendedYieldPercent decimal.Decimal  `json:"blended_yield_percent"`
	LPSupply            decimal.Decimal  `json:"lp_supply"`
	LPMinted            *decimal.Decimal `json:"lp_minted,omitempty"`
	LPBurned            *decimal.Decimal `json:"lp_burned,omitempty"`
}
