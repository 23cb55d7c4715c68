package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"polysentinel/pkg/cache"
)

// SelectionStateSource exposes analyzer state for scraping
type SelectionStateSource interface {
	WalletCount() int
	CacheStats() cache.Stats
}

// CorrelationStateSource exposes scorer state for scraping
type CorrelationStateSource interface {
	PairCount() int
	EffectivenessRate() float64
	CacheStats() cache.Stats
}

// EngineCollector collects engine state gauges at scrape time
type EngineCollector struct {
	selection   SelectionStateSource
	correlation CorrelationStateSource

	trackedWallets    *prometheus.Desc
	registeredPairs   *prometheus.Desc
	effectivenessRate *prometheus.Desc
	cacheEntries      *prometheus.Desc
	cacheHits         *prometheus.Desc
	cacheMisses       *prometheus.Desc
	cacheEvictions    *prometheus.Desc
}

// NewEngineCollector creates a collector; either source may be nil
func NewEngineCollector(selection SelectionStateSource, correlation CorrelationStateSource) *EngineCollector {
	return &EngineCollector{
		selection:   selection,
		correlation: correlation,

		trackedWallets: prometheus.NewDesc(
			"polysentinel_tracked_wallets",
			"Number of wallets with a trade history",
			nil, nil,
		),
		registeredPairs: prometheus.NewDesc(
			"polysentinel_registered_signal_pairs",
			"Number of registered correlation signal pairs",
			nil, nil,
		),
		effectivenessRate: prometheus.NewDesc(
			"polysentinel_boost_effectiveness_rate",
			"Share of reviewed boosts that were correct",
			nil, nil,
		),
		cacheEntries: prometheus.NewDesc(
			"polysentinel_cache_entries",
			"Current number of cached results",
			[]string{"cache"}, nil,
		),
		cacheHits: prometheus.NewDesc(
			"polysentinel_cache_hits",
			"Cache hits since last reset",
			[]string{"cache"}, nil,
		),
		cacheMisses: prometheus.NewDesc(
			"polysentinel_cache_misses",
			"Cache misses since last reset",
			[]string{"cache"}, nil,
		),
		cacheEvictions: prometheus.NewDesc(
			"polysentinel_cache_evictions",
			"Cache evictions since last reset",
			[]string{"cache"}, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *EngineCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.trackedWallets
	ch <- c.registeredPairs
	ch <- c.effectivenessRate
	ch <- c.cacheEntries
	ch <- c.cacheHits
	ch <- c.cacheMisses
	ch <- c.cacheEvictions
}

// Collect implements prometheus.Collector
func (c *EngineCollector) Collect(ch chan<- prometheus.Metric) {
	if c.selection != nil {
		ch <- prometheus.MustNewConstMetric(c.trackedWallets, prometheus.GaugeValue, float64(c.selection.WalletCount()))
		c.collectCache(ch, "selection", c.selection.CacheStats())
	}

	if c.correlation != nil {
		ch <- prometheus.MustNewConstMetric(c.registeredPairs, prometheus.GaugeValue, float64(c.correlation.PairCount()))
		ch <- prometheus.MustNewConstMetric(c.effectivenessRate, prometheus.GaugeValue, c.correlation.EffectivenessRate())
		c.collectCache(ch, "correlation", c.correlation.CacheStats())
	}
}

func (c *EngineCollector) collectCache(ch chan<- prometheus.Metric, name string, stats cache.Stats) {
	ch <- prometheus.MustNewConstMetric(c.cacheEntries, prometheus.GaugeValue, float64(stats.Size), name)
	ch <- prometheus.MustNewConstMetric(c.cacheHits, prometheus.GaugeValue, float64(stats.Hits), name)
	ch <- prometheus.MustNewConstMetric(c.cacheMisses, prometheus.GaugeValue, float64(stats.Misses), name)
	ch <- prometheus.MustNewConstMetric(c.cacheEvictions, prometheus.GaugeValue, float64(stats.Evictions), name)
}
