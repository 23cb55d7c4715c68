package correlation

import (
	"time"

	"polysentinel/internal/domain/composite"
)

// Pattern groups signal pairs that together describe one suspicious behavior
type Pattern string

const (
	PatternPerformanceOutliers   Pattern = "PERFORMANCE_OUTLIERS"
	PatternInsider               Pattern = "INSIDER_PATTERN"
	PatternSybilCoordination     Pattern = "SYBIL_COORDINATION"
	PatternFreshWalletActivity   Pattern = "FRESH_WALLET_ACTIVITY"
	PatternBehavioralConsistency Pattern = "BEHAVIORAL_CONSISTENCY"
	PatternNetworkCoordination   Pattern = "NETWORK_COORDINATION"
	PatternMarketTargeting       Pattern = "MARKET_TARGETING"
)

// AllPatterns lists every known pattern in declaration order
func AllPatterns() []Pattern {
	return []Pattern{
		PatternPerformanceOutliers, PatternInsider, PatternSybilCoordination,
		PatternFreshWalletActivity, PatternBehavioralConsistency,
		PatternNetworkCoordination, PatternMarketTargeting,
	}
}

// Valid checks if pattern is valid
func (p Pattern) Valid() bool {
	switch p {
	case PatternPerformanceOutliers, PatternInsider, PatternSybilCoordination,
		PatternFreshWalletActivity, PatternBehavioralConsistency,
		PatternNetworkCoordination, PatternMarketTargeting:
		return true
	}
	return false
}

// String returns string representation
func (p Pattern) String() string {
	return string(p)
}

// BoostImpact is a coarse bucket of the applied boost
type BoostImpact string

const (
	ImpactNone   BoostImpact = "NONE"
	ImpactLow    BoostImpact = "LOW"
	ImpactMedium BoostImpact = "MEDIUM"
	ImpactHigh   BoostImpact = "HIGH"
)

// String returns string representation
func (b BoostImpact) String() string {
	return string(b)
}

// DuplicatePolicy decides what happens when the same unordered signal pair is
// registered twice for the same pattern
type DuplicatePolicy string

const (
	// DuplicateDedupe replaces the earlier registration with the later one
	DuplicateDedupe DuplicatePolicy = "dedupe"
	// DuplicateStack keeps both registrations; both fire and both add weight
	DuplicateStack DuplicatePolicy = "stack"
)

// Valid checks if policy is valid
func (d DuplicatePolicy) Valid() bool {
	return d == DuplicateDedupe || d == DuplicateStack
}

// SignalPair is a correlation rule: both signals at or above MinScoreThreshold fire Pattern
type SignalPair struct {
	Signal1           composite.SignalSource `json:"signal1"`
	Signal2           composite.SignalSource `json:"signal2"`
	Pattern           Pattern                `json:"pattern"`
	Weight            float64                `json:"weight"`
	MinScoreThreshold float64                `json:"minScoreThreshold"`
	Description       string                 `json:"description"`
}

// SameRule reports whether two pairs name the same unordered signals and pattern
func (p SignalPair) SameRule(other SignalPair) bool {
	if p.Pattern != other.Pattern {
		return false
	}
	return (p.Signal1 == other.Signal1 && p.Signal2 == other.Signal2) ||
		(p.Signal1 == other.Signal2 && p.Signal2 == other.Signal1)
}

// Correlation is a fired signal pair with the raw scores that fired it
type Correlation struct {
	Pair     SignalPair `json:"pair"`
	Score1   float64    `json:"score1"`
	Score2   float64    `json:"score2"`
	Strength float64    `json:"strength"` // min(Score1, Score2)
}

// PatternMatch groups fired correlations sharing a pattern
type PatternMatch struct {
	Pattern      Pattern                  `json:"pattern"`
	Correlations int                      `json:"correlations"`
	Signals      []composite.SignalSource `json:"signals"`
	Boost        float64                  `json:"boost"`
	MaxStrength  float64                  `json:"maxStrength"`
	Insight      string                   `json:"insight"`
}

// AnalysisResult is the correlation re-examination of one composite result
type AnalysisResult struct {
	WalletAddress      string         `json:"walletAddress"`
	CompositeScore     float64        `json:"compositeScore"`
	Correlations       []Correlation  `json:"correlations"`
	Patterns           []PatternMatch `json:"patterns"`
	RawBoost           float64        `json:"rawBoost"`
	TotalBoost         float64        `json:"totalBoost"`
	BoostedScore       float64        `json:"boostedScore"`
	BoostImpact        BoostImpact    `json:"boostImpact"`
	StrongCorrelations []Correlation  `json:"strongCorrelations"`
	Insights           []string       `json:"insights"`
	AnalyzedAt         time.Time      `json:"analyzedAt"`
	FromCache          bool           `json:"fromCache"`
}

// HasPattern reports whether the pattern fired
func (r *AnalysisResult) HasPattern(p Pattern) bool {
	for _, m := range r.Patterns {
		if m.Pattern == p {
			return true
		}
	}
	return false
}

// PatternFrequency counts wallets in a batch where a pattern fired
type PatternFrequency struct {
	Pattern     Pattern `json:"pattern"`
	WalletCount int     `json:"walletCount"`
}

// BatchEntry is one wallet slot of a batch correlation analysis.
// Exactly one of Result and Error is set.
type BatchEntry struct {
	WalletAddress string          `json:"walletAddress"`
	Result        *AnalysisResult `json:"result,omitempty"`
	Error         string          `json:"error,omitempty"`
	Err           error           `json:"-"`
}

// BatchSummary aggregates a batch correlation analysis
type BatchSummary struct {
	TotalProcessed int                `json:"totalProcessed"`
	SuccessCount   int                `json:"successCount"`
	ErrorCount     int                `json:"errorCount"`
	WalletsBoosted int                `json:"walletsBoosted"`
	AverageBoost   float64            `json:"averageBoost"`
	CommonPatterns []PatternFrequency `json:"commonPatterns"`
}

// BatchResult holds per-wallet results in input order plus portfolio aggregates
type BatchResult struct {
	BatchID     string       `json:"batchId"`
	Results     []BatchEntry `json:"results"`
	Summary     BatchSummary `json:"summary"`
	CompletedAt time.Time    `json:"completedAt"`
}
