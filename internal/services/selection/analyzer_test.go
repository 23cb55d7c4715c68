package selectionservice

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polysentinel/internal/domain/selection"
	"polysentinel/pkg/errors"
	"polysentinel/pkg/logger"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type tradeOpt func(*selection.Trade)

func won(w bool) tradeOpt {
	return func(t *selection.Trade) { t.IsWinner = &w }
}

func resolvesIn(d time.Duration) tradeOpt {
	return func(t *selection.Trade) {
		at := t.Timestamp.Add(d)
		t.MarketResolvesAt = &at
	}
}

func sized(usd int64) tradeOpt {
	return func(t *selection.Trade) { t.SizeUSD = decimal.NewFromInt(usd) }
}

func priced(p float64) tradeOpt {
	return func(t *selection.Trade) { t.Price = p }
}

func volume(usd int64) tradeOpt {
	return func(t *selection.Trade) {
		v := decimal.NewFromInt(usd)
		t.MarketVolume = &v
	}
}

func news(b bool) tradeOpt {
	return func(t *selection.Trade) { t.HasRecentNews = &b }
}

func hoursAgo(h int) time.Time {
	return testNow.Add(-time.Duration(h) * time.Hour)
}

func newTrade(id, market string, cat selection.MarketCategory, ts time.Time, opts ...tradeOpt) selection.Trade {
	t := selection.Trade{
		TradeID:        id,
		MarketID:       market,
		MarketCategory: cat,
		Side:           selection.SideBuy,
		SizeUSD:        decimal.NewFromInt(100),
		Price:          0.5,
		Timestamp:      ts,
		PnL:            decimal.Zero,
		OutcomeCount:   2,
	}
	for _, o := range opts {
		o(&t)
	}
	return t
}

var rotatingCategories = []selection.MarketCategory{
	selection.CategoryCrypto,
	selection.CategorySports,
	selection.CategoryEconomics,
	selection.CategoryTech,
	selection.CategoryEntertainment,
	selection.CategoryScience,
}

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(DefaultConfig(), logger.Nop())
	require.NoError(t, err)
	a.SetClock(func() time.Time { return testNow })
	return a
}

func analyze(t *testing.T, a *Analyzer, wallet string) *selection.AnalysisResult {
	t.Helper()
	res, err := a.Analyze(wallet, AnalyzeOptions{Now: testNow})
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func TestAddTrades_RejectsInvalidInput(t *testing.T) {
	a := newTestAnalyzer(t)
	wallet := "0xAbC"

	require.NoError(t, a.AddTrades(wallet, []selection.Trade{
		newTrade("t1", "m1", selection.CategoryCrypto, hoursAgo(10)),
	}))

	tests := []struct {
		name   string
		trades []selection.Trade
		kind   error
	}{
		{
			name:   "duplicate of recorded trade",
			trades: []selection.Trade{newTrade("t1", "m2", selection.CategoryCrypto, hoursAgo(5))},
			kind:   errors.ErrDuplicateTrade,
		},
		{
			name: "duplicate within call",
			trades: []selection.Trade{
				newTrade("t2", "m2", selection.CategoryCrypto, hoursAgo(5)),
				newTrade("t2", "m3", selection.CategoryCrypto, hoursAgo(4)),
			},
			kind: errors.ErrDuplicateTrade,
		},
		{
			name:   "zero size",
			trades: []selection.Trade{newTrade("t3", "m2", selection.CategoryCrypto, hoursAgo(5), sized(0))},
			kind:   errors.ErrInvalidTrade,
		},
		{
			name:   "negative size",
			trades: []selection.Trade{newTrade("t4", "m2", selection.CategoryCrypto, hoursAgo(5), sized(-10))},
			kind:   errors.ErrInvalidTrade,
		},
		{
			name:   "future timestamp",
			trades: []selection.Trade{newTrade("t5", "m2", selection.CategoryCrypto, testNow.Add(time.Hour))},
			kind:   errors.ErrInvalidTrade,
		},
		{
			name:   "missing market",
			trades: []selection.Trade{newTrade("t6", "", selection.CategoryCrypto, hoursAgo(5))},
			kind:   errors.ErrInvalidTrade,
		},
		{
			name:   "NaN price",
			trades: []selection.Trade{newTrade("t8", "m2", selection.CategoryCrypto, hoursAgo(5), priced(math.NaN()))},
			kind:   errors.ErrInvalidTrade,
		},
		{
			name:   "price above one",
			trades: []selection.Trade{newTrade("t9", "m2", selection.CategoryCrypto, hoursAgo(5), priced(1.2))},
			kind:   errors.ErrInvalidTrade,
		},
		{
			name:   "unknown category",
			trades: []selection.Trade{newTrade("t7", "m2", selection.MarketCategory("ASTROLOGY"), hoursAgo(5))},
			kind:   errors.ErrInvalidTrade,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := a.AddTrades(wallet, tt.trades)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "expected %v, got %v", tt.kind, err)
			assert.Equal(t, 1, a.TradeCount(wallet), "rejected call must not append anything")
		})
	}
}

func TestAddTrades_AllOrNothing(t *testing.T) {
	a := newTestAnalyzer(t)

	err := a.AddTrades("0xmixed", []selection.Trade{
		newTrade("ok-1", "m1", selection.CategoryCrypto, hoursAgo(3)),
		newTrade("bad-1", "m1", selection.CategoryCrypto, hoursAgo(2), sized(0)),
		newTrade("bad-2", "m1", selection.CategoryCrypto, testNow.Add(24*time.Hour)),
	})
	require.Error(t, err)

	var multi *errors.MultiError
	require.True(t, errors.As(err, &multi))
	assert.Len(t, multi.Errors, 2)
	assert.Equal(t, 0, a.TradeCount("0xmixed"))
}

func TestAddTrades_ToleratesSmallClockSkew(t *testing.T) {
	a := newTestAnalyzer(t)
	err := a.AddTrades("0xskew", []selection.Trade{
		newTrade("t1", "m1", selection.CategoryCrypto, testNow.Add(time.Minute)),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, a.TradeCount("0xSKEW"), "wallet addresses are case-insensitive")
}

func TestAddTrades_EmptyWallet(t *testing.T) {
	a := newTestAnalyzer(t)
	err := a.AddTrades("  ", []selection.Trade{newTrade("t1", "m1", selection.CategoryCrypto, hoursAgo(1))})
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestAnalyze_SingleMarketIsFocused(t *testing.T) {
	a := newTestAnalyzer(t)

	trades := make([]selection.Trade, 0, 10)
	for i := 0; i < 10; i++ {
		trades = append(trades, newTrade(fmt.Sprintf("t%d", i), "m-1", selection.CategorySports, hoursAgo(100-i), won(i%2 == 0)))
	}
	require.NoError(t, a.AddTrades("0xfocused", trades))

	res := analyze(t, a, "0xfocused")
	assert.Equal(t, 1, res.Diversity.UniqueMarkets)
	assert.Equal(t, 1.0, res.Diversity.MarketConcentration)
	assert.Less(t, res.Diversity.DiversityScore, 10.0)
	assert.Equal(t, selection.PatternFocused, res.PrimaryPattern)
	assert.True(t, res.HasFlag(selection.FlagExtremeConcentration))
	assert.False(t, res.HasFlag(selection.FlagHighWinRate))
}

func TestAnalyze_ThirtyDistinctMarketsIsDiversified(t *testing.T) {
	a := newTestAnalyzer(t)

	trades := make([]selection.Trade, 0, 30)
	for i := 0; i < 30; i++ {
		cat := rotatingCategories[i%len(rotatingCategories)]
		trades = append(trades, newTrade(fmt.Sprintf("t%d", i), fmt.Sprintf("m-%d", i), cat, hoursAgo(200-i), won(i%3 == 0)))
	}
	require.NoError(t, a.AddTrades("0xdiverse", trades))

	res := analyze(t, a, "0xdiverse")
	assert.Equal(t, 30, res.Diversity.UniqueMarkets)
	assert.Less(t, res.Diversity.MarketConcentration, 0.1)
	assert.Greater(t, res.Diversity.DiversityScore, 60.0)
	assert.Equal(t, selection.PatternDiversified, res.PrimaryPattern)
	assert.False(t, res.HasPreference(selection.PreferenceCategorySpecialist))
	require.Len(t, res.CategoryPreferences, len(rotatingCategories))
	for i := 1; i < len(res.CategoryPreferences); i++ {
		assert.GreaterOrEqual(t, res.CategoryPreferences[i-1].Share, res.CategoryPreferences[i].Share)
	}
}

func insiderTrades() []selection.Trade {
	trades := make([]selection.Trade, 0, 20)
	for i := 0; i < 20; i++ {
		trades = append(trades, newTrade(
			fmt.Sprintf("pol-%d", i),
			fmt.Sprintf("election-%d", i),
			selection.CategoryPolitics,
			hoursAgo(1000-i*48),
			sized(5000+int64(i)*750),
			won(i != 7),
			resolvesIn(6*time.Hour),
		))
	}
	return trades
}

func TestAnalyze_InsiderLike(t *testing.T) {
	a := newTestAnalyzer(t)
	require.NoError(t, a.AddTrades("0xinsider", insiderTrades()))

	res := analyze(t, a, "0xinsider")
	assert.Equal(t, selection.PatternInsiderLike, res.PrimaryPattern)
	assert.True(t, res.IsPotentiallySuspicious)
	assert.True(t, res.HasFlag(selection.FlagHighWinRate))
	assert.True(t, res.HasFlag(selection.FlagNearResolutionPreference))
	assert.True(t, res.HasFlag(selection.FlagHighValueCategoryConcentration))
	assert.True(t, res.HasFlag(selection.FlagLargePositions))
	assert.True(t, res.HasPreference(selection.PreferenceCategorySpecialist))
	assert.Equal(t, 85.0, res.SuspicionScore)
	require.NotNil(t, res.WinRate)
	assert.InDelta(t, 0.95, *res.WinRate, 0.0001)
	assert.Equal(t, 1.0, res.NearResolution)
	assert.Equal(t, "12125", res.AvgPositionUSD.String())
}

func TestAnalyze_PerfectWinRateWithoutResolutionEvidence(t *testing.T) {
	a := newTestAnalyzer(t)

	trades := make([]selection.Trade, 0, 10)
	for i := 0; i < 10; i++ {
		cat := rotatingCategories[i%5]
		trades = append(trades, newTrade(fmt.Sprintf("t%d", i), fmt.Sprintf("m-%d", i), cat, hoursAgo(100-i), won(true)))
	}
	require.NoError(t, a.AddTrades("0xlucky", trades))

	res := analyze(t, a, "0xlucky")
	assert.True(t, res.HasFlag(selection.FlagHighWinRate))
	assert.False(t, res.HasFlag(selection.FlagNearResolutionPreference))
	assert.NotEqual(t, selection.PatternInsiderLike, res.PrimaryPattern)
	assert.Equal(t, selection.PatternDiversified, res.PrimaryPattern)
	assert.False(t, res.IsPotentiallySuspicious)
}

func TestAnalyze_AllLosingNeverInsiderLike(t *testing.T) {
	a := newTestAnalyzer(t)

	trades := make([]selection.Trade, 0, 10)
	for i := 0; i < 10; i++ {
		cat := rotatingCategories[i%5]
		trades = append(trades, newTrade(fmt.Sprintf("t%d", i), fmt.Sprintf("m-%d", i), cat, hoursAgo(100-i), won(false), resolvesIn(2*time.Hour)))
	}
	require.NoError(t, a.AddTrades("0xunlucky", trades))

	res := analyze(t, a, "0xunlucky")
	assert.NotEqual(t, selection.PatternInsiderLike, res.PrimaryPattern)
	assert.False(t, res.HasFlag(selection.FlagHighWinRate))
	assert.True(t, res.HasFlag(selection.FlagNearResolutionPreference))
	require.NotNil(t, res.WinRate)
	assert.Equal(t, 0.0, *res.WinRate)
}

func TestAnalyze_InsufficientData(t *testing.T) {
	a := newTestAnalyzer(t)

	require.NoError(t, a.AddTrades("0xsparse", []selection.Trade{
		newTrade("t1", "m1", selection.CategoryPolitics, hoursAgo(3), won(true), resolvesIn(time.Hour)),
		newTrade("t2", "m2", selection.CategoryPolitics, hoursAgo(2), won(true), resolvesIn(time.Hour)),
		newTrade("t3", "m3", selection.CategoryPolitics, hoursAgo(1), won(true), resolvesIn(time.Hour)),
	}))

	res := analyze(t, a, "0xsparse")
	assert.Equal(t, selection.PatternUnknown, res.PrimaryPattern)
	assert.LessOrEqual(t, res.DataQuality, 25.0)
	assert.Empty(t, res.RiskFlags)
	assert.Empty(t, res.Preferences)

	empty := analyze(t, a, "0xnobody")
	assert.Equal(t, selection.PatternUnknown, empty.PrimaryPattern)
	assert.Equal(t, 0, empty.TotalTrades)
	assert.Equal(t, 0.0, empty.DataQuality)
	assert.Equal(t, 0.0, empty.SuspicionScore)
}

func TestAnalyze_MissingMetadataDegradesQuality(t *testing.T) {
	a := newTestAnalyzer(t)

	bare := make([]selection.Trade, 0, 20)
	rich := make([]selection.Trade, 0, 20)
	for i := 0; i < 20; i++ {
		cat := rotatingCategories[i%len(rotatingCategories)]
		bare = append(bare, newTrade(fmt.Sprintf("b%d", i), fmt.Sprintf("m-%d", i), cat, hoursAgo(100-i)))
		rich = append(rich, newTrade(fmt.Sprintf("r%d", i), fmt.Sprintf("m-%d", i), cat, hoursAgo(100-i),
			won(i%2 == 0), volume(200_000), news(false), resolvesIn(72*time.Hour)))
	}
	require.NoError(t, a.AddTrades("0xbare", bare))
	require.NoError(t, a.AddTrades("0xrich", rich))

	bareRes := analyze(t, a, "0xbare")
	richRes := analyze(t, a, "0xrich")

	assert.Equal(t, 60.0, bareRes.DataQuality)
	assert.Equal(t, 100.0, richRes.DataQuality)
	assert.Nil(t, bareRes.WinRate)
	assert.Empty(t, bareRes.Preferences)
}

func TestAnalyze_Preferences(t *testing.T) {
	a := newTestAnalyzer(t)

	highVol := make([]selection.Trade, 0, 10)
	lowVol := make([]selection.Trade, 0, 10)
	for i := 0; i < 10; i++ {
		highVol = append(highVol, newTrade(fmt.Sprintf("h%d", i), fmt.Sprintf("fed-%d", i), selection.CategoryEconomics, hoursAgo(100-i),
			volume(2_000_000), news(i < 6)))
		lowVol = append(lowVol, newTrade(fmt.Sprintf("l%d", i), fmt.Sprintf("thin-%d", i), rotatingCategories[i%5], hoursAgo(100-i),
			volume(10_000), news(false)))
	}
	require.NoError(t, a.AddTrades("0xhigh", highVol))
	require.NoError(t, a.AddTrades("0xlow", lowVol))

	high := analyze(t, a, "0xhigh")
	assert.Equal(t, []selection.PreferenceType{
		selection.PreferenceCategorySpecialist,
		selection.PreferenceEventDriven,
		selection.PreferenceHighVolume,
	}, high.Preferences)
	assert.False(t, high.HasFlag(selection.FlagHighValueCategoryConcentration), "economics is not a high-information category")
	assert.Equal(t, selection.PatternFocused, high.PrimaryPattern)

	low := analyze(t, a, "0xlow")
	assert.Equal(t, []selection.PreferenceType{selection.PreferenceLowVolume}, low.Preferences)
	assert.True(t, low.HasFlag(selection.FlagLowVolumeMarketFocus))
}

func TestAnalyze_DetectsShifts(t *testing.T) {
	a := newTestAnalyzer(t)

	trades := make([]selection.Trade, 0, 20)
	for i := 0; i < 10; i++ {
		trades = append(trades, newTrade(fmt.Sprintf("early-%d", i), fmt.Sprintf("game-%d", i), selection.CategorySports, hoursAgo(500-i), won(false)))
	}
	for i := 0; i < 10; i++ {
		trades = append(trades, newTrade(fmt.Sprintf("late-%d", i), "senate-race", selection.CategoryPolitics, hoursAgo(100-i), won(true)))
	}
	require.NoError(t, a.AddTrades("0xshifter", trades))

	res := analyze(t, a, "0xshifter")
	require.Len(t, res.Shifts, 3)

	byType := make(map[selection.ShiftType]selection.Shift)
	for _, s := range res.Shifts {
		byType[s.Type] = s
	}

	cat := byType[selection.ShiftCategoryChange]
	assert.Equal(t, "SPORTS", cat.Before)
	assert.Equal(t, "POLITICS", cat.After)
	assert.Equal(t, 1.0, cat.Magnitude)

	win := byType[selection.ShiftWinBiasIncrease]
	assert.Equal(t, 0.0, win.BeforeValue)
	assert.Equal(t, 1.0, win.AfterValue)

	conc := byType[selection.ShiftConcentrationIncrease]
	assert.Equal(t, 0.1, conc.BeforeValue)
	assert.Equal(t, 1.0, conc.AfterValue)

	assert.True(t, res.HasFlag(selection.FlagWinBiasShift))
	assert.Equal(t, 18.0, res.SuspicionScore)
}

func TestAnalyze_ShiftsNeedTwoFullWindows(t *testing.T) {
	a := newTestAnalyzer(t)

	trades := make([]selection.Trade, 0, 9)
	for i := 0; i < 9; i++ {
		cat := selection.CategorySports
		if i >= 5 {
			cat = selection.CategoryPolitics
		}
		trades = append(trades, newTrade(fmt.Sprintf("t%d", i), fmt.Sprintf("m-%d", i), cat, hoursAgo(100-i)))
	}
	require.NoError(t, a.AddTrades("0xshort", trades))

	res := analyze(t, a, "0xshort")
	assert.Empty(t, res.Shifts)
}

func TestAnalyze_CacheIsAdvisory(t *testing.T) {
	a := newTestAnalyzer(t)
	require.NoError(t, a.AddTrades("0xinsider", insiderTrades()))

	first, err := a.Analyze("0xinsider", AnalyzeOptions{Now: testNow})
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := a.Analyze("0xINSIDER", AnalyzeOptions{Now: testNow.Add(time.Hour)})
	require.NoError(t, err)
	assert.True(t, second.FromCache)

	bypass, err := a.Analyze("0xinsider", AnalyzeOptions{Now: testNow, BypassCache: true})
	require.NoError(t, err)
	assert.False(t, bypass.FromCache)

	second.FromCache = false
	assert.Equal(t, first, second)
	assert.Equal(t, first, bypass)

	stats := a.CacheStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)

	require.NoError(t, a.AddTrades("0xinsider", []selection.Trade{
		newTrade("pol-extra", "election-extra", selection.CategoryPolitics, hoursAgo(1), won(false)),
	}))
	third := analyze(t, a, "0xinsider")
	assert.False(t, third.FromCache)
	assert.Equal(t, 21, third.TotalTrades)
}

func TestAnalyze_ScoresStayInRange(t *testing.T) {
	a := newTestAnalyzer(t)
	require.NoError(t, a.AddTrades("0xinsider", insiderTrades()))

	for i := 0; i < 40; i++ {
		extra := newTrade(fmt.Sprintf("x%d", i), "whale-market", selection.CategoryGeopolitics, hoursAgo(20),
			won(true), resolvesIn(time.Hour), sized(50_000), volume(5_000), news(true))
		require.NoError(t, a.AddTrades("0xinsider", []selection.Trade{extra}))

		res := analyze(t, a, "0xinsider")
		assert.GreaterOrEqual(t, res.SuspicionScore, 0.0)
		assert.LessOrEqual(t, res.SuspicionScore, 100.0)
		assert.GreaterOrEqual(t, res.DataQuality, 0.0)
		assert.LessOrEqual(t, res.DataQuality, 100.0)
		assert.GreaterOrEqual(t, res.Diversity.DiversityScore, 0.0)
		assert.LessOrEqual(t, res.Diversity.DiversityScore, 100.0)
	}
}

func TestAnalyze_EmptyWalletIsError(t *testing.T) {
	a := newTestAnalyzer(t)
	_, err := a.Analyze("", AnalyzeOptions{})
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestBatchAnalyze_IsolatesFailures(t *testing.T) {
	a := newTestAnalyzer(t)
	require.NoError(t, a.AddTrades("0xinsider", insiderTrades()))

	wallets := []string{"0xinsider", "", "0xnobody", "0xinsider"}
	batch := a.BatchAnalyze(context.Background(), wallets)

	require.Len(t, batch.Results, len(wallets))
	assert.Equal(t, len(wallets), batch.Summary.SuccessCount+batch.Summary.ErrorCount)
	assert.Equal(t, 1, batch.Summary.ErrorCount)
	assert.NotEmpty(t, batch.BatchID)

	assert.NotNil(t, batch.Results[0].Result)
	assert.Nil(t, batch.Results[1].Result)
	assert.True(t, errors.Is(batch.Results[1].Err, errors.ErrInvalidInput))
	assert.NotEmpty(t, batch.Results[1].Error)
	assert.Equal(t, selection.PatternUnknown, batch.Results[2].Result.PrimaryPattern)

	assert.Equal(t, 2, batch.Summary.PatternDistribution[selection.PatternInsiderLike])
	assert.Equal(t, 1, batch.Summary.PatternDistribution[selection.PatternUnknown])
	assert.Equal(t, 2, batch.Summary.SuspiciousCount)
	require.NotEmpty(t, batch.Summary.TopRiskFlags)
	assert.Equal(t, 2, batch.Summary.TopRiskFlags[0].Count)
}

func TestBatchAnalyze_CancelledContext(t *testing.T) {
	a := newTestAnalyzer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch := a.BatchAnalyze(ctx, []string{"0xa", "0xb", "0xc"})
	require.Len(t, batch.Results, 3)
	assert.Equal(t, 3, batch.Summary.ErrorCount)
	for _, e := range batch.Results {
		assert.True(t, errors.Is(e.Err, context.Canceled))
	}
}

func TestReset_ClearsState(t *testing.T) {
	a := newTestAnalyzer(t)
	require.NoError(t, a.AddTrades("0xinsider", insiderTrades()))
	_ = analyze(t, a, "0xinsider")

	a.Reset()
	assert.Equal(t, 0, a.WalletCount())
	assert.Equal(t, 0, a.CacheStats().Size)
	assert.Equal(t, 0, a.TradeCount("0xinsider"))
	require.NoError(t, a.AddTrades("0xinsider", insiderTrades()), "trade IDs are free again after reset")
}

func TestReset_LateCacheWriteIsNotServed(t *testing.T) {
	a := newTestAnalyzer(t)
	require.NoError(t, a.AddTrades("0xinsider", insiderTrades()))

	before, generation, revision := a.snapshot("0xinsider")
	stale := a.compute("0xinsider", before, testNow)

	a.Reset()
	require.NoError(t, a.AddTrades("0xinsider", []selection.Trade{
		newTrade("fresh", "m1", selection.CategoryCrypto, hoursAgo(2)),
	}))
	_, _, newRevision := a.snapshot("0xinsider")
	require.Equal(t, revision, newRevision, "per-wallet revision restarts after reset")

	// an Analyze that started before Reset finishes now
	a.cache.Set(cacheKey("0xinsider", generation, revision), stale)

	res := analyze(t, a, "0xinsider")
	assert.False(t, res.FromCache)
	assert.Equal(t, 1, res.TotalTrades)
}

func TestNewAnalyzer_RejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpecialistShare = 1.5
	_, err := NewAnalyzer(cfg, logger.Nop())
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))

	cfg = DefaultConfig()
	cfg.MinTrades = 0
	_, err = NewAnalyzer(cfg, logger.Nop())
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}
