package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polysentinel/pkg/cache"
)

type fakeSelection struct{}

func (fakeSelection) WalletCount() int { return 4 }
func (fakeSelection) CacheStats() cache.Stats {
	return cache.Stats{Hits: 3, Misses: 1, Size: 2}
}

type fakeCorrelation struct{}

func (fakeCorrelation) PairCount() int             { return 11 }
func (fakeCorrelation) EffectivenessRate() float64 { return 0.75 }
func (fakeCorrelation) CacheStats() cache.Stats {
	return cache.Stats{Hits: 1, Misses: 5, Evictions: 2, Size: 7}
}

func TestEngineCollector(t *testing.T) {
	c := NewEngineCollector(fakeSelection{}, fakeCorrelation{})

	// 1 wallet gauge + 2 scorer gauges + 4 cache gauges per engine
	assert.Equal(t, 11, testutil.CollectAndCount(c))

	expected := `
# HELP polysentinel_tracked_wallets Number of wallets with a trade history
# TYPE polysentinel_tracked_wallets gauge
polysentinel_tracked_wallets 4
# HELP polysentinel_registered_signal_pairs Number of registered correlation signal pairs
# TYPE polysentinel_registered_signal_pairs gauge
polysentinel_registered_signal_pairs 11
# HELP polysentinel_cache_entries Current number of cached results
# TYPE polysentinel_cache_entries gauge
polysentinel_cache_entries{cache="correlation"} 7
polysentinel_cache_entries{cache="selection"} 2
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"polysentinel_tracked_wallets",
		"polysentinel_registered_signal_pairs",
		"polysentinel_cache_entries",
	))
}

func TestEngineCollectorNilSources(t *testing.T) {
	c := NewEngineCollector(nil, fakeCorrelation{})
	assert.Equal(t, 6, testutil.CollectAndCount(c))

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))
}

func TestRecordHelpers(t *testing.T) {
	before := testutil.ToFloat64(SelectionTradesRejected.WithLabelValues("future"))
	RecordTradeRejected("future")
	assert.Equal(t, before+1, testutil.ToFloat64(SelectionTradesRejected.WithLabelValues("future")))

	beforeCached := testutil.ToFloat64(CorrelationAnalyses.WithLabelValues("HIGH", "cache"))
	beforeFired := testutil.ToFloat64(CorrelationPatternsFired.WithLabelValues("INSIDER_PATTERN"))
	RecordCorrelationAnalysis("HIGH", 20, []string{"INSIDER_PATTERN"}, true, time.Millisecond)
	assert.Equal(t, beforeCached+1, testutil.ToFloat64(CorrelationAnalyses.WithLabelValues("HIGH", "cache")))
	assert.Equal(t, beforeFired, testutil.ToFloat64(CorrelationPatternsFired.WithLabelValues("INSIDER_PATTERN")))

	beforeErr := testutil.ToFloat64(BatchItems.WithLabelValues("selection", "error"))
	RecordBatchItem("selection", errors.New("boom"))
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(BatchItems.WithLabelValues("selection", "error")))
}
