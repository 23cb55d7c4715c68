package selection

import (
	"time"

	"github.com/shopspring/decimal"
)

// Pattern is the primary market-selection classification
type Pattern string

const (
	PatternDiversified Pattern = "DIVERSIFIED"
	PatternFocused     Pattern = "FOCUSED"
	PatternInsiderLike Pattern = "INSIDER_LIKE"
	PatternUnknown     Pattern = "UNKNOWN"
)

// Valid checks if pattern is valid
func (p Pattern) Valid() bool {
	switch p {
	case PatternDiversified, PatternFocused, PatternInsiderLike, PatternUnknown:
		return true
	}
	return false
}

// String returns string representation
func (p Pattern) String() string {
	return string(p)
}

// PreferenceType is a market-selection preference detected for a wallet
type PreferenceType string

const (
	PreferenceCategorySpecialist PreferenceType = "CATEGORY_SPECIALIST"
	PreferenceEventDriven        PreferenceType = "EVENT_DRIVEN"
	PreferenceHighVolume         PreferenceType = "HIGH_VOLUME"
	PreferenceLowVolume          PreferenceType = "LOW_VOLUME"
)

// String returns string representation
func (p PreferenceType) String() string {
	return string(p)
}

// ShiftType is a behavioral change between the earlier and later halves of a history
type ShiftType string

const (
	ShiftCategoryChange        ShiftType = "CATEGORY_CHANGE"
	ShiftWinBiasIncrease       ShiftType = "WIN_BIAS_INCREASE"
	ShiftConcentrationIncrease ShiftType = "CONCENTRATION_INCREASE"
)

// String returns string representation
func (s ShiftType) String() string {
	return string(s)
}

// Risk flags raised by the analyzer
const (
	FlagHighWinRate                    = "HIGH_WIN_RATE"
	FlagNearResolutionPreference       = "NEAR_RESOLUTION_PREFERENCE"
	FlagHighValueCategoryConcentration = "HIGH_VALUE_CATEGORY_CONCENTRATION"
	FlagExtremeConcentration           = "EXTREME_CONCENTRATION"
	FlagLowVolumeMarketFocus           = "LOW_VOLUME_MARKET_FOCUS"
	FlagLargePositions                 = "LARGE_POSITIONS"
	FlagWinBiasShift                   = "WIN_BIAS_SHIFT"
)

// CategoryPreference summarizes a wallet's activity in one category
type CategoryPreference struct {
	Category   MarketCategory  `json:"category"`
	TradeCount int             `json:"tradeCount"`
	Share      float64         `json:"share"` // 0-1
	VolumeUSD  decimal.Decimal `json:"volumeUsd"`
	WinRate    *float64        `json:"winRate,omitempty"` // nil when nothing resolved
}

// Diversity describes how a wallet's trades are spread across markets
type Diversity struct {
	UniqueMarkets       int     `json:"uniqueMarkets"`
	DiversityScore      float64 `json:"diversityScore"`      // 0-100
	MarketConcentration float64 `json:"marketConcentration"` // HHI, 0-1
}

// Shift is a detected change between chronological windows with its evidence
type Shift struct {
	Type        ShiftType `json:"type"`
	Description string    `json:"description"`
	Before      string    `json:"before"`
	After       string    `json:"after"`
	BeforeValue float64   `json:"beforeValue"`
	AfterValue  float64   `json:"afterValue"`
	Magnitude   float64   `json:"magnitude"`
}

// AnalysisResult is the market-selection classification of one wallet
type AnalysisResult struct {
	WalletAddress           string               `json:"walletAddress"`
	PrimaryPattern          Pattern              `json:"primaryPattern"`
	SuspicionScore          float64              `json:"suspicionScore"` // 0-100
	IsPotentiallySuspicious bool                 `json:"isPotentiallySuspicious"`
	Preferences             []PreferenceType     `json:"preferences"`
	CategoryPreferences     []CategoryPreference `json:"categoryPreferences"`
	Diversity               Diversity            `json:"diversity"`
	Shifts                  []Shift              `json:"shifts"`
	RiskFlags               []string             `json:"riskFlags"`
	DataQuality             float64              `json:"dataQuality"` // 0-100
	TotalTrades             int                  `json:"totalTrades"`

	WinRate        *float64        `json:"winRate,omitempty"`
	NearResolution float64         `json:"nearResolutionShare"`
	AvgPositionUSD decimal.Decimal `json:"avgPositionUsd"`
	FirstTradeAt   *time.Time      `json:"firstTradeAt,omitempty"`
	LastTradeAt    *time.Time      `json:"lastTradeAt,omitempty"`
	LastTradeAgo   string          `json:"lastTradeAgo,omitempty"` // display only
	AnalyzedAt     time.Time       `json:"analyzedAt"`
	FromCache      bool            `json:"fromCache"`
}

// HasFlag reports whether a risk flag was raised
func (r *AnalysisResult) HasFlag(flag string) bool {
	for _, f := range r.RiskFlags {
		if f == flag {
			return true
		}
	}
	return false
}

// HasPreference reports whether a preference was detected
func (r *AnalysisResult) HasPreference(p PreferenceType) bool {
	for _, pref := range r.Preferences {
		if pref == p {
			return true
		}
	}
	return false
}

// HasShift reports whether a shift of the given type was detected
func (r *AnalysisResult) HasShift(s ShiftType) bool {
	for _, shift := range r.Shifts {
		if shift.Type == s {
			return true
		}
	}
	return false
}

// FlagCount is a risk flag with the number of wallets raising it
type FlagCount struct {
	Flag  string `json:"flag"`
	Count int    `json:"count"`
}

// BatchEntry is one wallet slot of a batch analysis.
// Exactly one of Result and Error is set.
type BatchEntry struct {
	WalletAddress string          `json:"walletAddress"`
	Result        *AnalysisResult `json:"result,omitempty"`
	Error         string          `json:"error,omitempty"`
	Err           error           `json:"-"`
}

// BatchSummary aggregates a batch analysis
type BatchSummary struct {
	TotalProcessed      int             `json:"totalProcessed"`
	SuccessCount        int             `json:"successCount"`
	ErrorCount          int             `json:"errorCount"`
	PatternDistribution map[Pattern]int `json:"patternDistribution"`
	SuspiciousCount     int             `json:"suspiciousCount"`
	AverageSuspicion    float64         `json:"averageSuspicion"`
	TopRiskFlags        []FlagCount     `json:"topRiskFlags"`
}

// BatchResult holds per-wallet results in input order plus the summary
type BatchResult struct {
	BatchID     string       `json:"batchId"`
	Results     []BatchEntry `json:"results"`
	Summary     BatchSummary `json:"summary"`
	CompletedAt time.Time    `json:"completedAt"`
}
