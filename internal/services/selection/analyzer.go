// Package selectionservice implements the market selection pattern analyzer: it keeps an
// append-only trade log per wallet and classifies which markets a wallet picks,
// how concentrated it is and how that changes over time.
package selectionservice

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"polysentinel/internal/domain/selection"
	"polysentinel/internal/metrics"
	"polysentinel/pkg/cache"
	"polysentinel/pkg/errors"
	"polysentinel/pkg/logger"
)

// AnalyzeOptions tunes a single Analyze call
type AnalyzeOptions struct {
	// BypassCache computes a fresh result without reading or writing the cache
	BypassCache bool
	// Now is the analysis timestamp; only display fields depend on it
	Now time.Time
}

type walletLog struct {
	mu         sync.RWMutex
	trades     []selection.Trade
	ids        map[string]struct{}
	generation uint64 // analyzer generation the log was created in
	revision   uint64
}

// Analyzer owns per-wallet trade logs and a bounded result cache.
// Each deployment or tenant constructs its own.
type Analyzer struct {
	cfg   Config
	log   *logger.Logger
	cache *cache.Cache[*selection.AnalysisResult]

	clockMu sync.RWMutex
	now     func() time.Time

	mu         sync.RWMutex
	wallets    map[string]*walletLog
	generation uint64 // bumped by Reset
}

// NewAnalyzer creates an analyzer with validated configuration
func NewAnalyzer(cfg Config, log *logger.Logger) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid market selection config")
	}
	if log == nil {
		log = logger.Get()
	}

	return &Analyzer{
		cfg:     cfg,
		log:     log.With("component", "market_selection"),
		cache:   cache.New[*selection.AnalysisResult](cfg.Cache),
		now:     time.Now,
		wallets: make(map[string]*walletLog),
	}, nil
}

// SetClock replaces the wall clock used for future-timestamp checks and display fields
func (a *Analyzer) SetClock(now func() time.Time) {
	a.clockMu.Lock()
	defer a.clockMu.Unlock()
	a.now = now
}

func (a *Analyzer) clock() time.Time {
	a.clockMu.RLock()
	defer a.clockMu.RUnlock()
	return a.now()
}

// Config returns the analyzer configuration
func (a *Analyzer) Config() Config {
	return a.cfg
}

// Reset drops every trade log and cached result
func (a *Analyzer) Reset() {
	a.mu.Lock()
	a.wallets = make(map[string]*walletLog)
	a.generation++
	a.mu.Unlock()

	a.cache.Clear()
	a.log.Info("Market selection analyzer reset")
}

func normalizeWallet(wallet string) string {
	return strings.ToLower(strings.TrimSpace(wallet))
}

func (a *Analyzer) getLog(wallet string, create bool) *walletLog {
	a.mu.RLock()
	wl, ok := a.wallets[wallet]
	a.mu.RUnlock()
	if ok || !create {
		return wl
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if wl, ok = a.wallets[wallet]; ok {
		return wl
	}
	wl = &walletLog{ids: make(map[string]struct{}), generation: a.generation}
	a.wallets[wallet] = wl
	return wl
}

// AddTrades validates trades and appends them to the wallet's log.
// The call is all-or-nothing: if any trade is rejected none are appended and the
// returned MultiError lists every rejection.
func (a *Analyzer) AddTrades(walletAddress string, trades []selection.Trade) error {
	wallet := normalizeWallet(walletAddress)
	if wallet == "" {
		return errors.NewValidationError("wallet_address", "must not be empty", walletAddress)
	}
	if len(trades) == 0 {
		return nil
	}

	wl := a.getLog(wallet, true)
	wl.mu.Lock()
	defer wl.mu.Unlock()

	now := a.clock()
	seen := make(map[string]struct{}, len(trades))
	var rejected errors.MultiError

	for i, t := range trades {
		if err := a.validateTrade(t, now); err != nil {
			rejected.Add(errors.Wrapf(err, "trade[%d]", i))
			metrics.RecordTradeRejected(rejectReason(err))
			continue
		}

		_, inLog := wl.ids[t.TradeID]
		_, inCall := seen[t.TradeID]
		if inLog || inCall {
			rejected.Add(errors.Wrapf(
				errors.NewKindValidationError(errors.ErrDuplicateTrade, "trade_id", "already recorded for wallet", t.TradeID),
				"trade[%d]", i,
			))
			metrics.RecordTradeRejected("duplicate")
			continue
		}
		seen[t.TradeID] = struct{}{}
	}

	if rejected.HasErrors() {
		a.log.Warnw("Rejected trade batch",
			"wallet", wallet,
			"submitted", len(trades),
			"rejected", len(rejected.Errors),
		)
		return rejected.ToError()
	}

	oldKey := cacheKey(wallet, wl.generation, wl.revision)
	for _, t := range trades {
		wl.trades = append(wl.trades, t)
		wl.ids[t.TradeID] = struct{}{}
	}
	wl.revision++
	a.cache.Delete(oldKey)

	metrics.RecordTradesAccepted(len(trades))
	a.log.Debugw("Trades appended",
		"wallet", wallet,
		"added", len(trades),
		"total", len(wl.trades),
		"revision", wl.revision,
	)
	return nil
}

func (a *Analyzer) validateTrade(t selection.Trade, now time.Time) error {
	invalid := func(field, msg string, value interface{}) error {
		return errors.NewKindValidationError(errors.ErrInvalidTrade, field, msg, value)
	}

	switch {
	case strings.TrimSpace(t.TradeID) == "":
		return invalid("trade_id", "is required", t.TradeID)
	case strings.TrimSpace(t.MarketID) == "":
		return invalid("market_id", "is required", t.MarketID)
	case !t.MarketCategory.Valid():
		return invalid("market_category", "is not a known category", t.MarketCategory)
	case !t.Side.Valid():
		return invalid("side", "must be BUY or SELL", t.Side)
	case !t.SizeUSD.IsPositive():
		return invalid("size_usd", "must be positive", t.SizeUSD)
	case math.IsNaN(t.Price) || t.Price < 0 || t.Price > 1:
		return invalid("price", "must be within 0..1", t.Price)
	case t.Timestamp.IsZero():
		return invalid("timestamp", "is required", t.Timestamp)
	case t.Timestamp.After(now.Add(a.cfg.MaxFutureSkew)):
		return errors.NewKindValidationError(errors.ErrInvalidTrade, "timestamp", "is in the future", t.Timestamp)
	case t.OutcomeCount < 2:
		return invalid("outcome_count", "must be at least 2", t.OutcomeCount)
	case t.MarketVolume != nil && t.MarketVolume.IsNegative():
		return invalid("market_volume", "must not be negative", *t.MarketVolume)
	}
	return nil
}

func rejectReason(err error) string {
	var verr *errors.ValidationError
	if errors.As(err, &verr) && verr.Field == "timestamp" && verr.Message == "is in the future" {
		return "future"
	}
	return "invalid"
}

// TradeCount returns the number of trades recorded for a wallet
func (a *Analyzer) TradeCount(walletAddress string) int {
	wl := a.getLog(normalizeWallet(walletAddress), false)
	if wl == nil {
		return 0
	}
	wl.mu.RLock()
	defer wl.mu.RUnlock()
	return len(wl.trades)
}

// Wallets returns all tracked wallet addresses, sorted
func (a *Analyzer) Wallets() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]string, 0, len(a.wallets))
	for w := range a.wallets {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// WalletCount returns the number of tracked wallets
func (a *Analyzer) WalletCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.wallets)
}

// CacheStats returns result cache counters
func (a *Analyzer) CacheStats() cache.Stats {
	return a.cache.Stats()
}

// ClearCache drops cached results; output is unaffected
func (a *Analyzer) ClearCache() {
	a.cache.Clear()
}

func cacheKey(wallet string, generation, revision uint64) string {
	return cache.Fingerprint("selection", wallet, generation, revision)
}

// Analyze classifies the wallet's market selection behavior.
// A wallet without trades yields an UNKNOWN result, not an error.
func (a *Analyzer) Analyze(walletAddress string, opts AnalyzeOptions) (*selection.AnalysisResult, error) {
	started := time.Now()

	wallet := normalizeWallet(walletAddress)
	if wallet == "" {
		return nil, errors.NewValidationError("wallet_address", "must not be empty", walletAddress)
	}

	trades, generation, revision := a.snapshot(wallet)
	key := cacheKey(wallet, generation, revision)

	if !opts.BypassCache {
		if cached, ok := a.cache.Get(key); ok {
			result := cloneResult(cached)
			result.FromCache = true
			a.log.Debugw("Cache hit", "wallet", wallet, "revision", revision)
			metrics.RecordSelectionAnalysis(result.PrimaryPattern.String(), result.SuspicionScore, true, time.Since(started))
			return result, nil
		}
	}

	now := opts.Now
	if now.IsZero() {
		now = a.clock()
	}

	result := a.compute(wallet, trades, now)

	if !opts.BypassCache {
		a.cache.Set(key, cloneResult(result))
	}

	metrics.RecordSelectionAnalysis(result.PrimaryPattern.String(), result.SuspicionScore, false, time.Since(started))
	a.log.Debugw("Market selection analyzed",
		"wallet", wallet,
		"pattern", result.PrimaryPattern,
		"suspicion", result.SuspicionScore,
		"trades", result.TotalTrades,
	)
	return result, nil
}

func (a *Analyzer) snapshot(wallet string) ([]selection.Trade, uint64, uint64) {
	a.mu.RLock()
	wl, ok := a.wallets[wallet]
	generation := a.generation
	a.mu.RUnlock()
	if !ok {
		return nil, generation, 0
	}
	wl.mu.RLock()
	defer wl.mu.RUnlock()

	trades := make([]selection.Trade, len(wl.trades))
	copy(trades, wl.trades)
	return trades, wl.generation, wl.revision
}

func cloneResult(r *selection.AnalysisResult) *selection.AnalysisResult {
	out := *r
	out.Preferences = append([]selection.PreferenceType{}, r.Preferences...)
	out.CategoryPreferences = append([]selection.CategoryPreference{}, r.CategoryPreferences...)
	out.Shifts = append([]selection.Shift{}, r.Shifts...)
	out.RiskFlags = append([]string{}, r.RiskFlags...)
	return &out
}
