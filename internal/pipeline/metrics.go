package pipeline

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"poolScope/internal/model"
)

// Metrics holds the Prometheus metrics for derivation runs. A nil *Metrics
// records nothing.
type Metrics struct {
	runDuration *prometheus.HistogramVec
	runsTotal   *prometheus.CounterVec
	poolsTotal  *prometheus.CounterVec
	banksTotal  prometheus.Counter
	poolTVL     *prometheus.GaugeVec
	poolYield   *prometheus.GaugeVec

	mu       sync.Mutex
	exported map[string]struct{}
}

// NewMetrics creates and registers the derivation metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "poolscope_derive_duration_seconds",
			Help:    "Time taken to derive one snapshot.",
			Buckets: prometheus.DefBuckets,
		}, []string{}),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "poolscope_derive_runs_total",
			Help: "Total number of derivation runs, labeled by result.",
		}, []string{"result"}),
		poolsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "poolscope_pools_total",
			Help: "Total number of pools processed, labeled by outcome.",
		}, []string{"outcome"}),
		banksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "poolscope_banks_total",
			Help: "Total number of banks derived.",
		}),
		poolTVL: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "poolscope_pool_tvl",
			Help: "Latest total value locked of a pool in the common price unit.",
		}, []string{"pool_id"}),
		poolYield: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "poolscope_pool_blended_yield_percent",
			Help: "Latest blended lending yield of a pool.",
		}, []string{"pool_id"}),
	}
	reg.MustRegister(m.runDuration, m.runsTotal, m.poolsTotal, m.banksTotal, m.poolTVL, m.poolYield)
	return m
}

const (
	outcomeDerived = "derived"
	outcomeCached  = "cached"
	outcomeSkipped = "skipped"
)

func (m *Metrics) observeRun(start time.Time, err error) {
	if m == nil {
		return
	}
	m.runDuration.WithLabelValues().Observe(time.Since(start).Seconds())
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.runsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) observePool(outcome string) {
	if m == nil {
		return
	}
	m.poolsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeBanks(n int) {
	if m == nil {
		return
	}
	m.banksTotal.Add(float64(n))
}

// setPools publishes the gauges of the pools derived in the latest run and
// drops the series of pools that were not.
func (m *Metrics) setPools(pools []model.ParsedPool) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	current := make(map[string]struct{}, len(pools))
	for _, pool := range pools {
		current[pool.PoolID] = struct{}{}
		m.poolTVL.WithLabelValues(pool.PoolID).Set(toFloat(pool.TVL))
		m.poolYield.WithLabelValues(pool.PoolID).Set(toFloat(pool.BlendedYieldPercent))
	}
	for poolID := range m.exported {
		if _, ok := current[poolID]; ok {
			continue
		}
		m.poolTVL.DeleteLabelValues(poolID)
		m.poolYield.DeleteLabelValues(poolID)
	}
	m.exported = current
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
