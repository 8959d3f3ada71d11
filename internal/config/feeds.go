package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Feeds holds externally supplied per-coin values: base lending yields in
// percent and price estimates in the common unit.
type Feeds struct {
	BaseYields     map[string]decimal.Decimal
	PriceEstimates map[string]decimal.Decimal
}

type feedsFile struct {
	BaseYields     map[string]string `yaml:"base_yields"`
	PriceEstimates map[string]string `yaml:"price_estimates"`
}

// LoadFeeds reads a YAML feeds file. An empty path yields empty feeds.
func LoadFeeds(path string) (Feeds, error) {
	feeds := Feeds{
		BaseYields:     map[string]decimal.Decimal{},
		PriceEstimates: map[string]decimal.Decimal{},
	}
	if path == "" {
		return feeds, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Feeds{}, fmt.Errorf("read feeds: %w", err)
	}

	var raw feedsFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Feeds{}, fmt.Errorf("parse feeds: %w", err)
	}

	if err := parseDecimals(raw.BaseYields, feeds.BaseYields); err != nil {
		return Feeds{}, fmt.Errorf("base_yields: %w", err)
	}
	if err := parseDecimals(raw.PriceEstimates, feeds.PriceEstimates); err != nil {
		return Feeds{}, fmt.Errorf("price_estimates: %w", err)
	}
	return feeds, nil
}

// WithPrices returns a copy of f with price estimates overridden by prices.
func (f Feeds) WithPrices(prices map[string]string) (Feeds, error) {
	out := Feeds{
		BaseYields:     f.BaseYields,
		PriceEstimates: make(map[string]decimal.Decimal, len(f.PriceEstimates)+len(prices)),
	}
	for coinType, price := range f.PriceEstimates {
		out.PriceEstimates[coinType] = price
	}
	if err := parseDecimals(prices, out.PriceEstimates); err != nil {
		return Feeds{}, fmt.Errorf("price override: %w", err)
	}
	return out, nil
}

func parseDecimals(in map[string]string, out map[string]decimal.Decimal) error {
	for coinType, text := range in {
		value, err := decimal.NewFromString(text)
		if err != nil {
			return fmt.Errorf("%s: %w", coinType, err)
		}
		if value.IsNegative() {
			return fmt.Errorf("%s: negative value %s", coinType, text)
		}
		out[coinType] = value
	}
	return nil
}
