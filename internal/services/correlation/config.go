package correlationservice

import (
	"math"

	"polysentinel/internal/domain/correlation"
	"polysentinel/pkg/cache"
	"polysentinel/pkg/errors"
)

// Config holds scorer policy
type Config struct {
	MaxBoost                float64                     // totalBoost is clamped to [0, MaxBoost]
	MinCorrelationStrength  float64                     // fired pairs whose weaker score exceeds this are strong
	DuplicatePolicy         correlation.DuplicatePolicy // same unordered pair + pattern registered twice
	ImpactLowCut            float64                     // boost below => LOW
	ImpactMediumCut         float64                     // boost below => MEDIUM, else HIGH
	MaxEffectivenessRecords int                         // oldest records are dropped beyond this
	BatchConcurrency        int
	Cache                   cache.Config

	// Pairs is the registry installed by NewScorer and Reset; nil means DefaultSignalPairs
	Pairs []correlation.SignalPair
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MaxBoost:                25,
		MinCorrelationStrength:  70,
		DuplicatePolicy:         correlation.DuplicateStack,
		ImpactLowCut:            5,
		ImpactMediumCut:         15,
		MaxEffectivenessRecords: 10_000,
		BatchConcurrency:        8,
		Cache:                   cache.DefaultConfig(),
	}
}

func configError(field, msg string, value interface{}) error {
	return errors.NewKindValidationError(errors.ErrInvalidConfig, field, msg, value)
}

func validScore(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 100
}

func validateLimits(maxBoost, minStrength float64) error {
	if !validScore(maxBoost) {
		return configError("max_boost", "must be within 0..100", maxBoost)
	}
	if !validScore(minStrength) {
		return configError("min_correlation_strength", "must be within 0..100", minStrength)
	}
	return nil
}

// Validate checks that policy values are usable
func (c Config) Validate() error {
	if err := validateLimits(c.MaxBoost, c.MinCorrelationStrength); err != nil {
		return err
	}
	if !c.DuplicatePolicy.Valid() {
		return configError("duplicate_policy", "must be dedupe or stack", c.DuplicatePolicy)
	}
	if c.ImpactLowCut <= 0 || c.ImpactMediumCut < c.ImpactLowCut {
		return configError("impact_cuts", "need 0 < low <= medium", []float64{c.ImpactLowCut, c.ImpactMediumCut})
	}
	if c.MaxEffectivenessRecords < 1 {
		return configError("max_effectiveness_records", "must be at least 1", c.MaxEffectivenessRecords)
	}
	if c.BatchConcurrency < 1 {
		return configError("batch_concurrency", "must be at least 1", c.BatchConcurrency)
	}
	return nil
}
