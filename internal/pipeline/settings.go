package pipeline

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"poolScope/internal/chain"
	"poolScope/internal/config"
	"poolScope/internal/derive"
)

// NewSettings builds derivation settings from the selected deployment.
func NewSettings(dep config.Deployment) (derive.Settings, error) {
	settings := derive.Settings{
		Quoters: derive.QuoterTypes{
			ConstantProduct: dep.ConstantProductQuoter,
			Oracle:          dep.OracleQuoter,
			OracleV2:        dep.OracleQuoterV2,
		},
		PlaceholderPrice: derive.DefaultPlaceholderPrice,
	}

	if raw := strings.TrimSpace(dep.PlaceholderPrice); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return derive.Settings{}, fmt.Errorf("deployment %q: placeholder price %q: %w", dep.Name, raw, err)
		}
		if !price.IsPositive() {
			return derive.Settings{}, fmt.Errorf("deployment %q: placeholder price must be positive", dep.Name)
		}
		settings.PlaceholderPrice = price
	}
	return settings, nil
}

// ObjectTypes returns the object types the fetcher snapshots for dep.
func ObjectTypes(dep config.Deployment) chain.ObjectTypes {
	return chain.ObjectTypes{
		Pool:   dep.PoolType,
		Bank:   dep.BankType,
		Oracle: dep.OracleType,
	}
}
