package model

// AssetDescriptor captures coin metadata needed to scale raw amounts.
type AssetDescriptor struct {
	CoinType string `json:"coin_type"`
	Decimals uint8  `json:"decimals"`
	Symbol   string `json:"symbol,omitempty"`
	Name     string `json:"name,omitempty"`
}
