// Package composite holds the composite suspicion score types produced by the
// upstream per-signal detectors and the composite scorer. This core only reads them.
package composite

import "time"

// SignalSource identifies the detector that produced a contribution
type SignalSource string

const (
	SourceFreshWallet     SignalSource = "FRESH_WALLET"
	SourceWinRate         SignalSource = "WIN_RATE"
	SourceProfitLoss      SignalSource = "PROFIT_LOSS"
	SourceTimingPattern   SignalSource = "TIMING_PATTERN"
	SourcePositionSizing  SignalSource = "POSITION_SIZING"
	SourceMarketSelection SignalSource = "MARKET_SELECTION"
	SourceCoordination    SignalSource = "COORDINATION"
	SourceSybil           SignalSource = "SYBIL"
	SourceAccuracy        SignalSource = "ACCURACY"
	SourceTradingPattern  SignalSource = "TRADING_PATTERN"
)

// AllSources lists every known signal source in declaration order
func AllSources() []SignalSource {
	return []SignalSource{
		SourceFreshWallet, SourceWinRate, SourceProfitLoss, SourceTimingPattern,
		SourcePositionSizing, SourceMarketSelection, SourceCoordination,
		SourceSybil, SourceAccuracy, SourceTradingPattern,
	}
}

// Valid checks if signal source is known
func (s SignalSource) Valid() bool {
	switch s {
	case SourceFreshWallet, SourceWinRate, SourceProfitLoss, SourceTimingPattern,
		SourcePositionSizing, SourceMarketSelection, SourceCoordination,
		SourceSybil, SourceAccuracy, SourceTradingPattern:
		return true
	}
	return false
}

// String returns string representation
func (s SignalSource) String() string {
	return string(s)
}

// Confidence of an individual signal
type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

// SuspicionLevel is the composite scorer's coarse classification
type SuspicionLevel string

const (
	SuspicionNone     SuspicionLevel = "NONE"
	SuspicionLow      SuspicionLevel = "LOW"
	SuspicionMedium   SuspicionLevel = "MEDIUM"
	SuspicionHigh     SuspicionLevel = "HIGH"
	SuspicionCritical SuspicionLevel = "CRITICAL"
)

// SignalContribution is one detector's input to the composite score.
// Only Source, RawScore, Available and Weight are read by this core.
type SignalContribution struct {
	Source        SignalSource `json:"source"`
	Category      string       `json:"category"`
	RawScore      float64      `json:"rawScore"` // 0-100
	Weight        float64      `json:"weight"`
	WeightedScore float64      `json:"weightedScore"`
	Confidence    Confidence   `json:"confidence"`
	DataQuality   float64      `json:"dataQuality"` // 0-100
	Available     bool         `json:"available"`
	Flags         []string     `json:"flags,omitempty"`
}

// ScoreResult is the composite scorer output for one wallet
type ScoreResult struct {
	WalletAddress       string               `json:"walletAddress"`
	CompositeScore      float64              `json:"compositeScore"` // 0-100
	SuspicionLevel      SuspicionLevel       `json:"suspicionLevel"`
	SignalContributions []SignalContribution `json:"signalContributions"`
	RiskFlags           []string             `json:"riskFlags,omitempty"`
	AnalyzedAt          time.Time            `json:"analyzedAt"`
	FromCache           bool                 `json:"fromCache"`
}

// Contribution returns the contribution for source, if present
func (r *ScoreResult) Contribution(source SignalSource) (SignalContribution, bool) {
	for _, c := range r.SignalContributions {
		if c.Source == source {
			return c, true
		}
	}
	return SignalContribution{}, false
}
