// Package correlationservice implements the multi-signal correlation scorer. It
// re-examines a composite suspicion result for signal pairs that are more
// suspicious together than apart and applies a bounded, additive boost.
package correlationservice

import (
	"math"
	"sync"
	"time"

	"polysentinel/internal/domain/correlation"
	"polysentinel/pkg/cache"
	"polysentinel/pkg/errors"
	"polysentinel/pkg/logger"
	"polysentinel/pkg/templates"
)

// Scorer owns a signal pair registry, an effectiveness log and a bounded result cache.
// Each deployment or tenant constructs its own.
type Scorer struct {
	cfg      Config
	log      *logger.Logger
	insights *templates.Registry
	cache    *cache.Cache[*correlation.AnalysisResult]

	clockMu sync.RWMutex
	now     func() time.Time

	// registry
	mu          sync.RWMutex
	pairs       []correlation.SignalPair
	policy      correlation.DuplicatePolicy
	maxBoost    float64
	minStrength float64
	revision    uint64
	generation  uint64 // bumped on every registry write; never exported

	effMu   sync.RWMutex
	records []correlation.EffectivenessRecord
}

// NewScorer creates a scorer with validated configuration and installs the
// configured registry (DefaultSignalPairs when cfg.Pairs is nil)
func NewScorer(cfg Config, log *logger.Logger) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid correlation config")
	}
	if log == nil {
		log = logger.Get()
	}

	initial := cfg.Pairs
	if initial == nil {
		initial = DefaultSignalPairs()
	}
	pairs, err := buildRegistry(initial, cfg.DuplicatePolicy)
	if err != nil {
		return nil, errors.Wrap(err, "invalid signal pair registry")
	}

	return &Scorer{
		cfg:         cfg,
		log:         log.With("component", "correlation_scorer"),
		insights:    templates.Get(),
		cache:       cache.New[*correlation.AnalysisResult](cfg.Cache),
		now:         time.Now,
		pairs:       pairs,
		policy:      cfg.DuplicatePolicy,
		maxBoost:    cfg.MaxBoost,
		minStrength: cfg.MinCorrelationStrength,
	}, nil
}

// SetClock replaces the wall clock used for timestamps
func (s *Scorer) SetClock(now func() time.Time) {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	s.now = now
}

func (s *Scorer) clock() time.Time {
	s.clockMu.RLock()
	defer s.clockMu.RUnlock()
	return s.now()
}

// Reset restores the configured registry and limits, drops effectiveness records
// and clears the cache
func (s *Scorer) Reset() {
	initial := s.cfg.Pairs
	if initial == nil {
		initial = DefaultSignalPairs()
	}
	// validated in NewScorer
	pairs, _ := buildRegistry(initial, s.cfg.DuplicatePolicy)

	s.mu.Lock()
	s.pairs = pairs
	s.policy = s.cfg.DuplicatePolicy
	s.maxBoost = s.cfg.MaxBoost
	s.minStrength = s.cfg.MinCorrelationStrength
	s.revision++
	s.generation++
	s.mu.Unlock()

	s.effMu.Lock()
	s.records = nil
	s.effMu.Unlock()

	s.cache.Clear()
	s.log.Info("Correlation scorer reset")
}

func validatePair(p correlation.SignalPair) error {
	if !p.Signal1.Valid() {
		return errors.NewKindValidationError(errors.ErrUnknownSignal, "signal1", "is not a known signal source", p.Signal1)
	}
	if !p.Signal2.Valid() {
		return errors.NewKindValidationError(errors.ErrUnknownSignal, "signal2", "is not a known signal source", p.Signal2)
	}
	if p.Signal1 == p.Signal2 {
		return configError("signal2", "must differ from signal1", p.Signal2)
	}
	if !p.Pattern.Valid() {
		return configError("pattern", "is not a known correlation pattern", p.Pattern)
	}
	if math.IsNaN(p.Weight) || math.IsInf(p.Weight, 0) || p.Weight <= 0 {
		return configError("weight", "must be positive", p.Weight)
	}
	if !validScore(p.MinScoreThreshold) {
		return configError("min_score_threshold", "must be within 0..100", p.MinScoreThreshold)
	}
	return nil
}

// insertPair applies the duplicate policy; dedupe replaces in place so
// registration order is kept
func insertPair(pairs []correlation.SignalPair, p correlation.SignalPair, policy correlation.DuplicatePolicy) ([]correlation.SignalPair, bool) {
	if policy == correlation.DuplicateDedupe {
		for i := range pairs {
			if pairs[i].SameRule(p) {
				pairs[i] = p
				return pairs, true
			}
		}
	}
	return append(pairs, p), false
}

func buildRegistry(input []correlation.SignalPair, policy correlation.DuplicatePolicy) ([]correlation.SignalPair, error) {
	var problems errors.MultiError
	pairs := make([]correlation.SignalPair, 0, len(input))
	for i, p := range input {
		if err := validatePair(p); err != nil {
			problems.Add(errors.Wrapf(err, "pair[%d]", i))
			continue
		}
		pairs, _ = insertPair(pairs, p, policy)
	}
	if problems.HasErrors() {
		return nil, problems.ToError()
	}
	return pairs, nil
}

// Configure validates and installs a complete registry with new limits.
// Nothing changes if any pair or limit is rejected. Effectiveness records are kept.
func (s *Scorer) Configure(pairs []correlation.SignalPair, maxBoost, minCorrelationStrength float64) error {
	if err := validateLimits(maxBoost, minCorrelationStrength); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	registry, err := buildRegistry(pairs, s.policy)
	if err != nil {
		return err
	}
	s.pairs = registry
	s.maxBoost = maxBoost
	s.minStrength = minCorrelationStrength
	s.revision++
	s.generation++

	s.log.Infow("Correlation registry configured",
		"pairs", len(registry),
		"max_boost", maxBoost,
		"min_strength", minCorrelationStrength,
		"revision", s.revision,
	)
	return nil
}

// AddSignalPair registers one rule at runtime without resetting other state
func (s *Scorer) AddSignalPair(pair correlation.SignalPair) error {
	if err := validatePair(pair); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var replaced bool
	s.pairs, replaced = insertPair(s.pairs, pair, s.policy)
	s.revision++
	s.generation++

	s.log.Infow("Signal pair registered",
		"signal1", pair.Signal1,
		"signal2", pair.Signal2,
		"pattern", pair.Pattern,
		"weight", pair.Weight,
		"replaced", replaced,
	)
	return nil
}

// RemoveSignalPair removes every rule for the unordered pair and pattern and
// returns how many were removed
func (s *Scorer) RemoveSignalPair(pair correlation.SignalPair) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.pairs[:0:0]
	for _, p := range s.pairs {
		if !p.SameRule(pair) {
			kept = append(kept, p)
		}
	}
	removed := len(s.pairs) - len(kept)
	if removed > 0 {
		s.pairs = kept
		s.revision++
		s.generation++
	}
	return removed
}

// SignalPairs returns a copy of the registry in registration order
func (s *Scorer) SignalPairs() []correlation.SignalPair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]correlation.SignalPair(nil), s.pairs...)
}

// PairCount returns the number of registered rules
func (s *Scorer) PairCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pairs)
}

// Limits returns the active maxBoost and minCorrelationStrength
func (s *Scorer) Limits() (maxBoost, minCorrelationStrength float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxBoost, s.minStrength
}

// CacheStats returns result cache counters
func (s *Scorer) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// ClearCache drops cached results; output is unaffected
func (s *Scorer) ClearCache() {
	s.cache.Clear()
}

type registrySnapshot struct {
	pairs       []correlation.SignalPair
	maxBoost    float64
	minStrength float64
	revision    uint64
	generation  uint64
}

func (s *Scorer) registry() registrySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return registrySnapshot{
		pairs:       append([]correlation.SignalPair(nil), s.pairs...),
		maxBoost:    s.maxBoost,
		minStrength: s.minStrength,
		revision:    s.revision,
		generation:  s.generation,
	}
}

// storeResult caches out only if the registry it was computed against is
// still installed
func (s *Scorer) storeResult(key string, out *correlation.AnalysisResult, reg registrySnapshot) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.generation != reg.generation {
		return false
	}
	s.cache.Set(key, out)
	return true
}
