package selectionservice

import (
	"time"

	"github.com/shopspring/decimal"

	"polysentinel/pkg/cache"
	"polysentinel/pkg/errors"
)

// Config holds analyzer thresholds
type Config struct {
	MinTrades            int             // below this the pattern is UNKNOWN
	SpecialistShare      float64         // top category share above this => CATEGORY_SPECIALIST
	HighVolumeUSD        decimal.Decimal // avg market volume at or above => HIGH_VOLUME
	LowVolumeUSD         decimal.Decimal // avg market volume at or below => LOW_VOLUME
	EventDrivenShare     float64         // share of news-adjacent trades => EVENT_DRIVEN
	HighWinRate          float64         // resolved win rate at or above => HIGH_WIN_RATE
	NearResolutionWindow time.Duration   // trade placed within this window before resolution
	NearResolutionShare  float64         // share of near-resolution trades => NEAR_RESOLUTION_PREFERENCE
	FocusedConcentration float64         // market HHI at or above => FOCUSED
	ExtremeConcentration float64         // market HHI at or above => EXTREME_CONCENTRATION
	WinBiasDelta         float64         // later-minus-earlier win rate above => WIN_BIAS_INCREASE
	ConcentrationDelta   float64         // later-minus-earlier HHI above => CONCENTRATION_INCREASE
	LargePositionUSD     decimal.Decimal // avg position size at or above => LARGE_POSITIONS
	SuspiciousThreshold  float64         // suspicion score at or above => potentially suspicious
	MaxFutureSkew        time.Duration   // tolerated clock skew for trade timestamps
	BatchConcurrency     int
	Cache                cache.Config
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MinTrades:            5,
		SpecialistShare:      0.8,
		HighVolumeUSD:        decimal.NewFromInt(1_000_000),
		LowVolumeUSD:         decimal.NewFromInt(50_000),
		EventDrivenShare:     0.5,
		HighWinRate:          0.9,
		NearResolutionWindow: 24 * time.Hour,
		NearResolutionShare:  0.5,
		FocusedConcentration: 0.35,
		ExtremeConcentration: 0.8,
		WinBiasDelta:         0.2,
		ConcentrationDelta:   0.2,
		LargePositionUSD:     decimal.NewFromInt(5_000),
		SuspiciousThreshold:  50,
		MaxFutureSkew:        5 * time.Minute,
		BatchConcurrency:     8,
		Cache:                cache.DefaultConfig(),
	}
}

// Validate checks that thresholds are usable
func (c Config) Validate() error {
	shares := map[string]float64{
		"specialist_share":      c.SpecialistShare,
		"event_driven_share":    c.EventDrivenShare,
		"high_win_rate":         c.HighWinRate,
		"near_resolution_share": c.NearResolutionShare,
		"focused_concentration": c.FocusedConcentration,
		"extreme_concentration": c.ExtremeConcentration,
		"win_bias_delta":        c.WinBiasDelta,
		"concentration_delta":   c.ConcentrationDelta,
	}
	for field, v := range shares {
		if v < 0 || v > 1 {
			return errors.NewKindValidationError(errors.ErrInvalidConfig, field, "must be within 0..1", v)
		}
	}

	if c.MinTrades < 1 {
		return errors.NewKindValidationError(errors.ErrInvalidConfig, "min_trades", "must be at least 1", c.MinTrades)
	}
	if c.LowVolumeUSD.GreaterThan(c.HighVolumeUSD) {
		return errors.NewKindValidationError(errors.ErrInvalidConfig, "low_volume_usd", "must not exceed high_volume_usd", c.LowVolumeUSD)
	}
	if c.NearResolutionWindow <= 0 {
		return errors.NewKindValidationError(errors.ErrInvalidConfig, "near_resolution_window", "must be positive", c.NearResolutionWindow)
	}
	if c.SuspiciousThreshold < 0 || c.SuspiciousThreshold > 100 {
		return errors.NewKindValidationError(errors.ErrInvalidConfig, "suspicious_threshold", "must be within 0..100", c.SuspiciousThreshold)
	}
	if c.MaxFutureSkew < 0 {
		return errors.NewKindValidationError(errors.ErrInvalidConfig, "max_future_skew", "must not be negative", c.MaxFutureSkew)
	}
	if c.BatchConcurrency < 1 {
		return errors.NewKindValidationError(errors.ErrInvalidConfig, "batch_concurrency", "must be at least 1", c.BatchConcurrency)
	}
	return nil
}
