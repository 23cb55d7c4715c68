package correlationservice

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"polysentinel/internal/domain/composite"
	"polysentinel/internal/domain/correlation"
	"polysentinel/internal/metrics"
	"polysentinel/pkg/cache"
	"polysentinel/pkg/errors"
)

// AnalyzeOptions tunes a single AnalyzeCorrelations call
type AnalyzeOptions struct {
	// BypassCache computes a fresh result without reading or writing the cache
	BypassCache bool
	// Now is the analysis timestamp; zero means the scorer clock
	Now time.Time
}

func normalizeWallet(wallet string) string {
	return strings.ToLower(strings.TrimSpace(wallet))
}

// validateInput checks the fields this scorer reads and indexes available
// contributions by source. Unknown sources are ignored: no rule can name them.
func validateInput(result *composite.ScoreResult) (string, map[composite.SignalSource]composite.SignalContribution, error) {
	if result == nil {
		return "", nil, errors.NewValidationError("composite_result", "is required", nil)
	}
	wallet := normalizeWallet(result.WalletAddress)
	if wallet == "" {
		return "", nil, errors.NewValidationError("wallet_address", "must not be empty", result.WalletAddress)
	}
	if !validScore(result.CompositeScore) {
		return "", nil, errors.NewValidationError("composite_score", "must be within 0..100", result.CompositeScore)
	}

	seen := make(map[composite.SignalSource]struct{}, len(result.SignalContributions))
	available := make(map[composite.SignalSource]composite.SignalContribution, len(result.SignalContributions))
	for _, c := range result.SignalContributions {
		if _, dup := seen[c.Source]; dup {
			return "", nil, errors.NewValidationError("signal_contributions", "duplicate source", c.Source)
		}
		seen[c.Source] = struct{}{}

		if !c.Available || !c.Source.Valid() {
			continue
		}
		if !validScore(c.RawScore) {
			return "", nil, errors.NewValidationError("raw_score", fmt.Sprintf("%s must be within 0..100", c.Source), c.RawScore)
		}
		available[c.Source] = c
	}
	return wallet, available, nil
}

// cacheKey fingerprints everything the output depends on: wallet, composite
// score, the contribution set in canonical order and the registry revision
func cacheKey(wallet string, result *composite.ScoreResult, revision uint64) string {
	parts := make([]string, 0, len(result.SignalContributions))
	for _, c := range result.SignalContributions {
		parts = append(parts, fmt.Sprintf("%s:%g:%g:%t", c.Source, c.RawScore, c.Weight, c.Available))
	}
	sort.Strings(parts)
	return cache.Fingerprint("correlation", wallet, result.CompositeScore, strings.Join(parts, ","), revision)
}

// AnalyzeCorrelations re-examines a composite result for registered signal pairs.
// An empty registry or a missing signal yields zero boost, never an error.
func (s *Scorer) AnalyzeCorrelations(result *composite.ScoreResult, opts AnalyzeOptions) (*correlation.AnalysisResult, error) {
	started := time.Now()

	wallet, available, err := validateInput(result)
	if err != nil {
		return nil, err
	}

	reg := s.registry()
	key := cacheKey(wallet, result, reg.revision)

	if !opts.BypassCache {
		if cached, ok := s.cache.Get(key); ok {
			out := cloneResult(cached)
			out.FromCache = true
			s.log.Debugw("Cache hit", "wallet", wallet, "revision", reg.revision)
			metrics.RecordCorrelationAnalysis(out.BoostImpact.String(), out.TotalBoost, patternNames(out), true, time.Since(started))
			return out, nil
		}
	}

	now := opts.Now
	if now.IsZero() {
		now = s.clock()
	}

	out := s.compute(wallet, result.CompositeScore, available, reg)
	out.AnalyzedAt = now

	if !opts.BypassCache && !s.storeResult(key, cloneResult(out), reg) {
		s.log.Debugw("Registry changed during analysis, result not cached", "wallet", wallet)
	}

	metrics.RecordCorrelationAnalysis(out.BoostImpact.String(), out.TotalBoost, patternNames(out), false, time.Since(started))
	s.log.Debugw("Correlations analyzed",
		"wallet", wallet,
		"correlations", len(out.Correlations),
		"boost", out.TotalBoost,
		"impact", out.BoostImpact,
	)
	return out, nil
}

// compute is the numeric scoring path; insights are attached afterwards and
// never read back
func (s *Scorer) compute(wallet string, compositeScore float64, available map[composite.SignalSource]composite.SignalContribution, reg registrySnapshot) *correlation.AnalysisResult {
	out := &correlation.AnalysisResult{
		WalletAddress:      wallet,
		CompositeScore:     compositeScore,
		Correlations:       []correlation.Correlation{},
		Patterns:           []correlation.PatternMatch{},
		StrongCorrelations: []correlation.Correlation{},
		Insights:           []string{},
	}

	for _, pair := range reg.pairs {
		c1, ok1 := available[pair.Signal1]
		c2, ok2 := available[pair.Signal2]
		if !ok1 || !ok2 {
			continue
		}
		if c1.RawScore < pair.MinScoreThreshold || c2.RawScore < pair.MinScoreThreshold {
			continue
		}

		corr := correlation.Correlation{
			Pair:     pair,
			Score1:   c1.RawScore,
			Score2:   c2.RawScore,
			Strength: math.Min(c1.RawScore, c2.RawScore),
		}
		out.Correlations = append(out.Correlations, corr)
		out.RawBoost += pair.Weight
		if corr.Strength > reg.minStrength {
			out.StrongCorrelations = append(out.StrongCorrelations, corr)
		}
	}

	out.Patterns = groupPatterns(out.Correlations)
	out.TotalBoost = math.Max(0, math.Min(out.RawBoost, reg.maxBoost))
	out.BoostedScore = math.Min(100, compositeScore+out.TotalBoost)
	out.BoostImpact = s.impact(out.TotalBoost)

	for i := range out.Patterns {
		out.Patterns[i].Insight = s.insight(out.Patterns[i])
		out.Insights = append(out.Insights, out.Patterns[i].Insight)
	}
	return out
}

// groupPatterns aggregates fired correlations per pattern, ordered by boost
// descending then pattern name
func groupPatterns(correlations []correlation.Correlation) []correlation.PatternMatch {
	index := make(map[correlation.Pattern]int)
	matches := []correlation.PatternMatch{}

	for _, c := range correlations {
		i, ok := index[c.Pair.Pattern]
		if !ok {
			i = len(matches)
			index[c.Pair.Pattern] = i
			matches = append(matches, correlation.PatternMatch{Pattern: c.Pair.Pattern, Signals: []composite.SignalSource{}})
		}
		m := &matches[i]
		m.Correlations++
		m.Boost += c.Pair.Weight
		m.MaxStrength = math.Max(m.MaxStrength, c.Strength)
		m.Signals = appendSignal(m.Signals, c.Pair.Signal1)
		m.Signals = appendSignal(m.Signals, c.Pair.Signal2)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Boost != matches[j].Boost {
			return matches[i].Boost > matches[j].Boost
		}
		return matches[i].Pattern < matches[j].Pattern
	})
	return matches
}

func appendSignal(signals []composite.SignalSource, s composite.SignalSource) []composite.SignalSource {
	for _, existing := range signals {
		if existing == s {
			return signals
		}
	}
	return append(signals, s)
}

func (s *Scorer) impact(boost float64) correlation.BoostImpact {
	switch {
	case boost <= 0:
		return correlation.ImpactNone
	case boost < s.cfg.ImpactLowCut:
		return correlation.ImpactLow
	case boost < s.cfg.ImpactMediumCut:
		return correlation.ImpactMedium
	default:
		return correlation.ImpactHigh
	}
}

func patternNames(r *correlation.AnalysisResult) []string {
	names := make([]string, 0, len(r.Patterns))
	for _, p := range r.Patterns {
		names = append(names, p.Pattern.String())
	}
	return names
}

func cloneResult(r *correlation.AnalysisResult) *correlation.AnalysisResult {
	out := *r
	out.Correlations = append([]correlation.Correlation{}, r.Correlations...)
	out.StrongCorrelations = append([]correlation.Correlation{}, r.StrongCorrelations...)
	out.Insights = append([]string{}, r.Insights...)
	out.Patterns = make([]correlation.PatternMatch, len(r.Patterns))
	for i, p := range r.Patterns {
		p.Signals = append([]composite.SignalSource{}, p.Signals...)
		out.Patterns[i] = p
	}
	return &out
}
