package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"poolScope/internal/config"
	"poolScope/internal/derive"
	"poolScope/internal/model"
	"poolScope/internal/snapshot"
)

const (
	coinSUI  = "0x2::sui::SUI"
	coinUSDC = "0xdba3::usdc::USDC"
	ftSUI    = "0xf1::ftoken::FToken<0x2::sui::SUI>"
	ftUSDC   = "0xf1::ftoken::FToken<0xdba3::usdc::USDC>"
	ftWETH   = "0xf1::ftoken::FToken<0xe1::weth::WETH>"
)

var testDeployment = config.Deployment{
	Name:                  "primary",
	ConstantProductQuoter: "0xa1::cp_quoter::CpQuoter",
	OracleQuoter:          "0xa1::oracle_quoter::OracleQuoter",
	OracleQuoterV2:        "0xa1::oracle_quoter_v2::OracleQuoterV2",
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testSnapshot() snapshot.Snapshot {
	return snapshot.Snapshot{
		Coins: []model.AssetDescriptor{
			{CoinType: coinSUI, Decimals: 9},
			{CoinType: coinUSDC, Decimals: 6},
		},
		Banks: []model.BankRecord{
			{BankID: "0xb1", Version: 3, CoinType: coinSUI, DerivativeType: ftSUI,
				Available: dec("250000000000"), TotalFunds: dec("1000000000000"), DerivativeSupply: dec("1000000000000")},
			{BankID: "0xb2", Version: 4, CoinType: coinUSDC, DerivativeType: ftUSDC,
				Available: dec("500000000"), TotalFunds: dec("1000000000"), DerivativeSupply: dec("1000000000")},
		},
		Pools: []model.PoolRecord{
			{
				PoolID:                 "0xp1",
				Version:                77,
				Side0:                  ftSUI,
				Side1:                  ftUSDC,
				QuoterType:             testDeployment.ConstantProductQuoter,
				LPSupply:               dec("1414213562373"),
				SwapFeeBps:             dec("30"),
				ProtocolFeeNumerator:   dec("1"),
				ProtocolFeeDenominator: dec("5"),
				RedeemQuote:            &model.RedeemQuote{Amount0: dec("1000000000000"), Amount1: dec("2000000000")},
			},
			{
				PoolID:     "0xp2",
				Version:    5,
				Side0:      ftWETH,
				Side1:      ftUSDC,
				QuoterType: testDeployment.ConstantProductQuoter,
			},
		},
	}
}

func testFeeds() config.Feeds {
	return config.Feeds{
		BaseYields:     map[string]decimal.Decimal{coinSUI: dec("4"), coinUSDC: dec("10")},
		PriceEstimates: map[string]decimal.Decimal{coinUSDC: dec("1")},
	}
}

func newTestDeriver(t *testing.T, cache *PoolCache, metrics *Metrics) *Deriver {
	t.Helper()
	settings, err := NewSettings(testDeployment)
	if err != nil {
		t.Fatalf("NewSettings: %v", err)
	}
	return NewDeriver(Config{Settings: settings, Cache: cache, Metrics: metrics}, nil)
}

func TestDeriverRun(t *testing.T) {
	deriver := newTestDeriver(t, nil, nil)

	batch, err := deriver.Run(context.Background(), testSnapshot(), testFeeds())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if batch.RunID == "" || batch.Digest == "" {
		t.Fatalf("missing run identity: %+v", batch)
	}
	if len(batch.Banks) != 2 {
		t.Fatalf("expected 2 banks, got %d", len(batch.Banks))
	}
	if !batch.Banks[0].UtilizationPercent.Equal(dec("75")) {
		t.Fatalf("unexpected utilization: %s", batch.Banks[0].UtilizationPercent)
	}
	if len(batch.Pools) != 1 || batch.Skipped != 1 {
		t.Fatalf("expected 1 pool and 1 skip, got %d pools, %d skipped", len(batch.Pools), batch.Skipped)
	}

	pool := batch.Pools[0]
	if !pool.TVL.Equal(dec("4000")) {
		t.Fatalf("unexpected tvl: %s", pool.TVL)
	}
	if !pool.Price0.Equal(dec("2")) {
		t.Fatalf("unexpected price_x: %s", pool.Price0)
	}
	if !pool.BlendedYieldPercent.Equal(dec("4")) {
		t.Fatalf("unexpected blended yield: %s", pool.BlendedYieldPercent)
	}
}

func TestDeriverRunDigestStable(t *testing.T) {
	deriver := newTestDeriver(t, nil, nil)

	first, err := deriver.Run(context.Background(), testSnapshot(), testFeeds())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	second, err := deriver.Run(context.Background(), testSnapshot(), testFeeds())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if first.Digest != second.Digest {
		t.Fatalf("digest changed for identical inputs")
	}
	if first.RunID == second.RunID {
		t.Fatalf("run ids should differ")
	}

	feeds := testFeeds()
	feeds.BaseYields[coinSUI] = dec("5")
	third, err := deriver.Run(context.Background(), testSnapshot(), feeds)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if third.Digest == first.Digest {
		t.Fatalf("digest ignored feed change")
	}
}

func TestDeriverRunMissingBankDecimals(t *testing.T) {
	snap := testSnapshot()
	snap.Coins = snap.Coins[:1]

	_, err := newTestDeriver(t, nil, nil).Run(context.Background(), snap, testFeeds())
	if !errors.Is(err, derive.ErrMissingDecimals) {
		t.Fatalf("expected ErrMissingDecimals, got %v", err)
	}
}

func TestDeriverRunUnknownQuoter(t *testing.T) {
	snap := testSnapshot()
	snap.Pools[0].QuoterType = "0xa1::mystery::Quoter"

	_, err := newTestDeriver(t, nil, nil).Run(context.Background(), snap, testFeeds())
	if !errors.Is(err, derive.ErrUnknownQuoter) {
		t.Fatalf("expected ErrUnknownQuoter, got %v", err)
	}
}

func TestDeriverRunUsesCache(t *testing.T) {
	cache, err := NewPoolCache(100)
	if err != nil {
		t.Fatalf("NewPoolCache: %v", err)
	}
	defer cache.Close()

	metrics := NewMetrics(prometheus.NewRegistry())
	deriver := newTestDeriver(t, cache, metrics)

	first, err := deriver.Run(context.Background(), testSnapshot(), testFeeds())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	cache.Wait()

	second, err := deriver.Run(context.Background(), testSnapshot(), testFeeds())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !second.Pools[0].TVL.Equal(first.Pools[0].TVL) {
		t.Fatalf("cached pool differs: %s vs %s", second.Pools[0].TVL, first.Pools[0].TVL)
	}

	if got := testutil.ToFloat64(metrics.poolsTotal.WithLabelValues(outcomeDerived)); got != 1 {
		t.Fatalf("expected 1 derived pool, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.poolsTotal.WithLabelValues(outcomeCached)); got != 1 {
		t.Fatalf("expected 1 cached pool, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.poolsTotal.WithLabelValues(outcomeSkipped)); got != 2 {
		t.Fatalf("expected 2 skipped pools, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.runsTotal.WithLabelValues("ok")); got != 2 {
		t.Fatalf("expected 2 ok runs, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.poolTVL.WithLabelValues("0xp1")); got != 4000 {
		t.Fatalf("unexpected tvl gauge: %v", got)
	}
}

func TestDeriverRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestDeriver(t, nil, nil).Run(ctx, testSnapshot(), testFeeds())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewSettings(t *testing.T) {
	settings, err := NewSettings(testDeployment)
	if err != nil {
		t.Fatalf("NewSettings: %v", err)
	}
	if !settings.PlaceholderPrice.Equal(derive.DefaultPlaceholderPrice) {
		t.Fatalf("unexpected default placeholder: %s", settings.PlaceholderPrice)
	}

	dep := testDeployment
	dep.PlaceholderPrice = "0.0000001"
	settings, err = NewSettings(dep)
	if err != nil {
		t.Fatalf("NewSettings: %v", err)
	}
	if !settings.PlaceholderPrice.Equal(dec("0.0000001")) {
		t.Fatalf("unexpected placeholder: %s", settings.PlaceholderPrice)
	}

	for _, raw := range []string{"abc", "0", "-1"} {
		dep.PlaceholderPrice = raw
		if _, err := NewSettings(dep); err == nil {
			t.Fatalf("expected error for placeholder %q", raw)
		}
	}
}

func TestDeriverRunSkipsCacheWithoutVersion(t *testing.T) {
	cache, err := NewPoolCache(100)
	if err != nil {
		t.Fatalf("NewPoolCache: %v", err)
	}
	defer cache.Close()

	metrics := NewMetrics(prometheus.NewRegistry())
	deriver := newTestDeriver(t, cache, metrics)

	snap := testSnapshot()
	snap.Pools[0].Version = 0
	first, err := deriver.Run(context.Background(), snap, testFeeds())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	cache.Wait()

	snap.Pools[0].SwapFeeBps = dec("100")
	second, err := deriver.Run(context.Background(), snap, testFeeds())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !first.Pools[0].FeeTierPercent.Equal(dec("0.3")) {
		t.Fatalf("unexpected first fee tier: %s", first.Pools[0].FeeTierPercent)
	}
	if !second.Pools[0].FeeTierPercent.Equal(dec("1")) {
		t.Fatalf("stale pool served for unversioned record: %s", second.Pools[0].FeeTierPercent)
	}
	if got := testutil.ToFloat64(metrics.poolsTotal.WithLabelValues(outcomeCached)); got != 0 {
		t.Fatalf("expected no cache hits, got %v", got)
	}
}

func TestDeriverRunDropsGaugesOfRemovedPools(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())
	deriver := newTestDeriver(t, nil, metrics)

	if _, err := deriver.Run(context.Background(), testSnapshot(), testFeeds()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := testutil.CollectAndCount(metrics.poolTVL); got != 1 {
		t.Fatalf("expected 1 tvl series, got %d", got)
	}

	snap := testSnapshot()
	snap.Pools = snap.Pools[1:]
	if _, err := deriver.Run(context.Background(), snap, testFeeds()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := testutil.CollectAndCount(metrics.poolTVL); got != 0 {
		t.Fatalf("expected tvl series of removed pool to be dropped, got %d", got)
	}
	if got := testutil.CollectAndCount(metrics.poolYield); got != 0 {
		t.Fatalf("expected yield series of removed pool to be dropped, got %d", got)
	}
}
