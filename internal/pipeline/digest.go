package pipeline

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/shopspring/decimal"

	"poolScope/internal/config"
	"poolScope/internal/derive"
	"poolScope/internal/snapshot"
)

// inputsDigest fingerprints everything a pool derivation reads besides the
// pool record itself.
func inputsDigest(snap snapshot.Snapshot, feeds config.Feeds, settings derive.Settings) string {
	h := xxhash.New()
	write := func(parts ...string) {
		for _, part := range parts {
			_, _ = h.WriteString(part)
			_, _ = h.WriteString("|")
		}
	}

	for _, bank := range snap.Banks {
		write("bank", bank.BankID, strconv.FormatUint(bank.Version, 10))
	}
	for _, oracle := range snap.Oracles {
		write("oracle", strconv.FormatUint(oracle.Index, 10), oracle.Price.String(), strconv.Itoa(int(oracle.Decimals)))
	}
	for _, coin := range snap.Coins {
		write("coin", coin.CoinType, strconv.Itoa(int(coin.Decimals)))
	}
	writeValues(write, "yield", feeds.BaseYields)
	writeValues(write, "estimate", feeds.PriceEstimates)
	write("quoters", settings.Quoters.ConstantProduct, settings.Quoters.Oracle, settings.Quoters.OracleV2)
	write("placeholder", settings.PlaceholderPrice.String())

	return fmt.Sprintf("%016x", h.Sum64())
}

// runDigest fingerprints the whole run input, pools included.
func runDigest(snap snapshot.Snapshot, inputs string) string {
	h := xxhash.New()
	_, _ = h.WriteString(strconv.FormatUint(snap.Digest(), 16))
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(inputs)
	return fmt.Sprintf("%016x", h.Sum64())
}

func writeValues(write func(...string), label string, values map[string]decimal.Decimal) {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		write(label, key, values[key].String())
	}
}
